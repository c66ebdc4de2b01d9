// Package protocol holds the checksum, code tables and request frames of the
// pulse oximeter HID protocol.
//
// Every frame starts with a byte that has its most significant bit set and ends
// with a checksum over all preceding bytes. No other byte of a frame may have the
// top bit set, so the checksum is reduced to 7 bits as well.
package protocol

// FrameStart is the bit marking the first byte of a frame.
const FrameStart = 0x80

// Checksum calculates the checksum which terminates each command or response.
// The bytes are summed with 8 bit wrap-around, the sum is reduced modulo 128.
func Checksum(b []byte) byte {
	var sum byte
	for _, c := range b {
		// 128 divides 256, wrapping at 256 first loses nothing
		sum += c
	}
	return sum % 128
}

// Verify reports whether the last byte of frame matches the checksum of the
// preceding bytes. An empty frame is considered valid.
func Verify(frame []byte) bool {
	if len(frame) == 0 {
		return true
	}
	return frame[len(frame)-1] == Checksum(frame[:len(frame)-1])
}

// IsFrameStart reports whether b marks the beginning of a new frame.
func IsFrameStart(b byte) bool {
	return b&FrameStart != 0
}
