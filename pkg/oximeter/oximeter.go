// Package oximeter talks to the pulse oximeter over its HID report stream.
//
// Every exchange sends one request frame and then reads reports until a frame
// with a valid checksum answers it. Frames which don't are dropped.
package oximeter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/womat/debug"

	"oxlog/pkg/framer"
	"oxlog/pkg/protocol"
)

// ReportSize is the size of a HID report in both directions, report id included.
const ReportSize = 64

// Handler holds a session with the oximeter.
// It is not safe for concurrent use.
type Handler struct {
	io.ReadWriteCloser
	frames *framer.Reassembler
	config Config

	// reads counts the reports read in the current exchange
	reads int
}

// Record is one line of output.
type Record struct {
	Time  time.Time `json:"time"`
	Pulse byte      `json:"pulse"`
	SpO2  byte      `json:"spo2"`
}

// New generate a new handler struct
func New(opts ...Option) *Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Handler{
		frames: framer.New(),
		config: cfg,
	}
}

// Connect defines the HID report stream of the device.
func (h *Handler) Connect(rw io.ReadWriteCloser) error {
	if rw == nil {
		return errors.New("no device")
	}
	h.ReadWriteCloser = rw
	return nil
}

// Close the handler
func (h *Handler) Close() error {
	if h.ReadWriteCloser == nil {
		return nil
	}
	return h.ReadWriteCloser.Close()
}

// Handshake sends the init sequence. The first frame the device returns must be
// the ready response, whatever its checksum.
func (h *Handler) Handshake(ctx context.Context) error {
	if err := h.send(protocol.InitSequence); err != nil {
		return fmt.Errorf("send init sequence: %w", err)
	}

	h.reads = 0
	f, err := h.next(ctx)
	if err != nil {
		return fmt.Errorf("receive init response: %w", err)
	}

	if !bytes.Equal(f, protocol.InitResponse) {
		return &HandshakeError{Got: f}
	}

	debug.InfoLog.Print("handshake done")
	return nil
}

// send writes frame as a single report: report id 0, frame, zero padding.
func (h *Handler) send(frame []byte) error {
	if len(frame) > ReportSize-1 {
		return ErrFrameTooLong
	}

	report := make([]byte, ReportSize)
	copy(report[1:], frame)

	debug.TraceLog.Printf("send % x", frame)
	if _, err := h.Write(report); err != nil {
		return err
	}
	h.config.Metrics.RecordReportWritten()
	return nil
}

// receive reads one report and feeds it to the reassembler.
func (h *Handler) receive() error {
	b := make([]byte, ReportSize)

	n, err := h.Read(b)
	if err != nil {
		return err
	}

	h.reads++
	h.config.Metrics.RecordReportRead()
	debug.TraceLog.Printf("received %d bytes: % x", n, b[:n])
	h.frames.Feed(b[:n])
	return nil
}

// next returns the next complete frame, reading reports as long as none is queued.
func (h *Handler) next(ctx context.Context) ([]byte, error) {
	for {
		if f, ok := h.frames.Pop(); ok {
			return f, nil
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if h.config.ReadBudget > 0 && h.reads >= h.config.ReadBudget {
			return nil, ErrReadBudget
		}
		if err := h.receive(); err != nil {
			return nil, err
		}
	}
}

// await returns the first valid frame for which match is true.
func (h *Handler) await(ctx context.Context, match func(f []byte) bool) ([]byte, error) {
	h.reads = 0
	for {
		f, err := h.next(ctx)
		if err != nil {
			return nil, err
		}
		if h.accept(f, match) {
			return f, nil
		}
	}
}

// accept checks the frame checksum and match. Frames failing either are logged
// and counted.
func (h *Handler) accept(f []byte, match func(f []byte) bool) bool {
	if !protocol.Verify(f) {
		debug.TraceLog.Printf("drop frame % x: checksum error", f)
		h.config.Metrics.RecordChecksumError()
		return false
	}

	code := protocol.Command(f[0])
	h.config.Metrics.RecordFrame(code.String())

	if !match(f) {
		debug.TraceLog.Printf("drop unexpected frame %v: % x", code, f)
		h.config.Metrics.RecordDiscarded()
		return false
	}
	return true
}

// response returns a match for frames starting with code and being at least
// size bytes long.
func response(code protocol.Command, size int) func(f []byte) bool {
	return func(f []byte) bool {
		return len(f) >= size && protocol.Command(f[0]) == code
	}
}

// exactly is like response, the frame size must be size.
func exactly(code protocol.Command, size int) func(f []byte) bool {
	return func(f []byte) bool {
		return len(f) == size && protocol.Command(f[0]) == code
	}
}

// RecordingMode reads the active recording mode.
func (h *Handler) RecordingMode(ctx context.Context) (protocol.RecordingMode, error) {
	if err := h.send(protocol.Build(protocol.ReadPropertyCommand, byte(protocol.RecordingModeProperty))); err != nil {
		return 0, fmt.Errorf("send recording mode request: %w", err)
	}

	f, err := h.await(ctx, func(f []byte) bool {
		return exactly(protocol.ReadPropertyResponse, protocol.RecordingModeResponseSize)(f) &&
			protocol.Property(f[1]) == protocol.RecordingModeProperty
	})
	if err != nil {
		return 0, fmt.Errorf("receive recording mode: %w", err)
	}

	mode := protocol.DecodeRecordingMode(f[2], f[3])
	debug.InfoLog.Printf("recording mode %v", mode)
	return mode, nil
}
