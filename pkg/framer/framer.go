// Package framer reassembles oximeter frames from HID reports.
//
// A HID report may start or end in the middle of a frame, contain several frames
// and is padded with zero bytes to the report size. The only framing information
// is the top bit of the first byte of each frame.
package framer

import (
	"github.com/womat/debug"

	"oxlog/pkg/protocol"
)

// Reassembler collects HID report payloads and splits them into frames.
// It is not safe for concurrent use.
type Reassembler struct {
	// holder is the beginning of a frame which is not yet complete.
	holder []byte
	// queue contains the completed frames in arrival order.
	queue [][]byte
}

// New returns an empty Reassembler.
func New() *Reassembler {
	return &Reassembler{}
}

// Feed adds the payload of one HID read.
//
// Frames are queued even if their checksum is wrong; it is up to the consumer to
// drop them.
func (r *Reassembler) Feed(chunk []byte) {
	start := indexOfFrameStart(chunk)
	if start < 0 {
		// the whole chunk continues the frame in the holder
		r.holder = append(r.holder, chunk...)
		r.settle()
		return
	}

	// the bytes before the first marker complete the frame in the holder
	r.holder = append(r.holder, chunk[:start]...)
	if len(r.holder) > 0 {
		r.push(r.holder)
		r.holder = r.holder[:0]
	}

	for {
		next := indexOfFrameStart(chunk[start+1:])
		if next < 0 {
			break
		}
		next += start + 1
		r.push(chunk[start:next])
		start = next
	}

	r.holder = append(r.holder, chunk[start:]...)
	r.settle()
}

// settle drops the report padding from the holder if what is left is a
// complete frame.
//
// A frame may end in a zero checksum, which can't be told apart from padding. So
// if the holder without zeros is not a valid frame, it is tried once more with a
// single zero. If neither is valid, the zeros stay, the frame isn't complete yet.
func (r *Reassembler) settle() {
	n := len(r.holder)
	for n > 0 && r.holder[n-1] == 0x00 {
		n--
	}

	switch {
	case n == 0:
		r.holder = r.holder[:0]
	case protocol.Verify(r.holder[:n]):
		r.push(r.holder[:n])
		r.holder = r.holder[:0]
	case n < len(r.holder) && protocol.Verify(r.holder[:n+1]):
		r.push(r.holder[:n+1])
		r.holder = r.holder[:0]
	}
}

// push queues a copy of frame, the holder and chunk buffers are reused.
func (r *Reassembler) push(frame []byte) {
	f := make([]byte, len(frame))
	copy(f, frame)
	r.queue = append(r.queue, f)
	debug.TraceLog.Printf("frame queued: % x", f)
}

// Pop removes and returns the oldest completed frame.
func (r *Reassembler) Pop() ([]byte, bool) {
	if len(r.queue) == 0 {
		return nil, false
	}
	f := r.queue[0]
	r.queue[0] = nil
	r.queue = r.queue[1:]
	return f, true
}

// Len returns the number of completed frames.
func (r *Reassembler) Len() int {
	return len(r.queue)
}

// Pending returns the number of bytes of an incomplete frame.
func (r *Reassembler) Pending() int {
	return len(r.holder)
}

// indexOfFrameStart returns the index of the first byte starting a frame or -1.
func indexOfFrameStart(b []byte) int {
	for i, c := range b {
		if protocol.IsFrameStart(c) {
			return i
		}
	}
	return -1
}
