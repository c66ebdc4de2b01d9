package oximeter

import (
	"errors"
	"fmt"

	"oxlog/pkg/protocol"
)

var (
	ErrNoFiles          = errors.New("no file recorded")
	ErrReadBudget       = errors.New("read budget exhausted without an answer")
	ErrDeviceIDTooLong  = fmt.Errorf("device id is longer than %d bytes", protocol.DeviceIDSize)
	ErrDeviceIDNotASCII = errors.New("device id contains a non-ASCII byte")
	ErrFrameTooLong     = fmt.Errorf("frame does not fit into a %d byte report", ReportSize)
)

// HandshakeError indicates that the device did not answer the init sequence as expected.
type HandshakeError struct {
	Got []byte
}

func (e *HandshakeError) Error() string {
	return fmt.Sprintf("unexpected handshake response % x, want % x", e.Got, protocol.InitResponse)
}

// FileIndexError indicates a file index the device can't serve.
type FileIndexError struct {
	Index int
	// Max is the highest valid index, 0 if the index is invalid regardless of the recorded files.
	Max int
}

func (e *FileIndexError) Error() string {
	if e.Max == 0 {
		return fmt.Sprintf("invalid file index %d", e.Index)
	}
	return fmt.Sprintf("no file %d available: valid range is 1-%d", e.Index, e.Max)
}

// RecordingModeError indicates a recording mode this package can't read files from.
type RecordingModeError struct {
	Mode protocol.RecordingMode
}

func (e *RecordingModeError) Error() string {
	return fmt.Sprintf("unsupported recording mode %v", e.Mode)
}
