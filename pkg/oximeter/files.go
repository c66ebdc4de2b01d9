package oximeter

import (
	"context"
	"fmt"
	"time"

	"github.com/womat/debug"

	"oxlog/pkg/delta"
	"oxlog/pkg/protocol"
)

// File holds the metadata of a recorded file.
type File struct {
	// Start is the device local time of the first sample.
	Start time.Time
	// Length is the number of samples per channel.
	Length int
}

// auto file channels as requested by ReadAutoRecordedFileCommand
const (
	autoSpO2  = 0x01
	autoPulse = 0x02
)

// maxFileIndex is the highest index which fits into a request byte.
const maxFileIndex = 0x7F

// ReadFile reads file index (1 based) in the active recording mode.
func (h *Handler) ReadFile(ctx context.Context, index int) ([]Record, error) {
	if index < 1 {
		return nil, &FileIndexError{Index: index}
	}

	mode, err := h.RecordingMode(ctx)
	if err != nil {
		return nil, err
	}

	switch mode {
	case protocol.Automatic:
		return h.ReadAutoFile(ctx, index)
	case protocol.Manual:
		return h.ReadManualFile(ctx, index)
	default:
		return nil, &RecordingModeError{Mode: mode}
	}
}

// AutoFileCount returns the number of automatically recorded files. The device
// counts pulse and oxygen files separately, only files with both are usable.
func (h *Handler) AutoFileCount(ctx context.Context) (int, error) {
	if err := h.send(protocol.Build(protocol.GetAuxiliaryDataCommand, byte(protocol.AutoRecordedFilesProperty))); err != nil {
		return 0, fmt.Errorf("send file count request: %w", err)
	}

	f, err := h.await(ctx, response(protocol.GetAuxiliaryDataResponse, protocol.FileCountMinSize))
	if err != nil {
		return 0, fmt.Errorf("receive file count: %w", err)
	}

	pulse := int(protocol.Join7(f[2], f[3]))
	spo2 := int(protocol.Join7(f[4], f[5]))
	debug.DebugLog.Printf("recorded files: pulse %d, spo2 %d", pulse, spo2)

	if spo2 < pulse {
		return spo2, nil
	}
	return pulse, nil
}

// ReadAutoFile reads an automatically recorded file.
func (h *Handler) ReadAutoFile(ctx context.Context, index int) ([]Record, error) {
	if index < 1 || index > maxFileIndex {
		return nil, &FileIndexError{Index: index}
	}

	count, err := h.AutoFileCount(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNoFiles
	}
	if index > count {
		return nil, &FileIndexError{Index: index, Max: count}
	}

	// the device walks through the headers one by one
	var file File
	for i := 1; i <= index; i++ {
		if file, err = h.advanceAutoFile(ctx); err != nil {
			return nil, fmt.Errorf("file header %d: %w", i, err)
		}
		debug.DebugLog.Printf("file %d: start %v, length %d", i, file.Start, file.Length)
	}

	spo2, err := h.readAutoChannel(ctx, index, autoSpO2, file.Length)
	if err != nil {
		return nil, fmt.Errorf("read spo2 of file %d: %w", index, err)
	}
	h.config.Metrics.RecordSamples("spo2", spo2)

	pulse, err := h.readAutoChannel(ctx, index, autoPulse, file.Length)
	if err != nil {
		return nil, fmt.Errorf("read pulse of file %d: %w", index, err)
	}
	h.config.Metrics.RecordSamples("pulse", pulse)

	return zip(file.Start, pulse, spo2), nil
}

func (h *Handler) advanceAutoFile(ctx context.Context) (File, error) {
	if err := h.send(protocol.Build(protocol.AdvanceAndShowAutoRecordedFileHeaderCommand, 0x01)); err != nil {
		return File{}, err
	}

	f, err := h.await(ctx, response(protocol.AdvanceAndShowAutoRecordedFileHeaderResponse, protocol.AutoFileHeaderMinSize))
	if err != nil {
		return File{}, err
	}

	return File{
		Start:  timestamp(f[4:10]),
		Length: int(protocol.Join7(f[10], f[11], f[12])),
	}, nil
}

func (h *Handler) readAutoChannel(ctx context.Context, index int, channel byte, length int) ([]byte, error) {
	req := protocol.Build(protocol.ReadAutoRecordedFileCommand, 0x04, channel, 0x01, byte(index), 0x00, 0x00, 0x00)
	if err := h.send(req); err != nil {
		return nil, err
	}

	d := delta.NewAuto(length)
	for !d.Done() {
		f, err := h.await(ctx, exactly(protocol.ReadAutoRecordedFileResponse, protocol.AutoFileChunkSize))
		if err != nil {
			return nil, err
		}

		data := f[8:29]
		signs := protocol.Join7(f[5], f[6], f[7])
		debug.DebugLog.Printf("data is % x (signs %021b)", data, signs)
		d.Decode(signs, data)
	}

	return d.Samples(), nil
}

// ReadManualFile reads the manually recorded file, which always has index 1.
func (h *Handler) ReadManualFile(ctx context.Context, index int) ([]Record, error) {
	if index != 1 {
		return nil, &FileIndexError{Index: index, Max: 1}
	}

	file, err := h.ManualFile(ctx)
	if err != nil {
		return nil, err
	}

	pulse, err := h.readManualChannel(ctx, protocol.ReadPulseFromManuallyRecordedFileCommand, file.Length)
	if err != nil {
		return nil, fmt.Errorf("read pulse: %w", err)
	}
	h.config.Metrics.RecordSamples("pulse", pulse)

	spo2, err := h.readManualChannel(ctx, protocol.ReadOxygenFromManuallyRecordedFileCommand, file.Length)
	if err != nil {
		return nil, fmt.Errorf("read spo2: %w", err)
	}
	h.config.Metrics.RecordSamples("spo2", spo2)

	return zip(file.Start, pulse, spo2), nil
}

// ManualFile returns the metadata of the manually recorded file. Its length is
// rounded down to whole chunks.
func (h *Handler) ManualFile(ctx context.Context) (File, error) {
	if err := h.send(protocol.Build(protocol.ManuallyRecordedFileMetadataCommand, 0x00)); err != nil {
		return File{}, fmt.Errorf("send file metadata request: %w", err)
	}

	f, err := h.await(ctx, exactly(protocol.ManuallyRecordedFileMetadataResponse, protocol.ManualFileMetadataSize))
	if err != nil {
		return File{}, fmt.Errorf("receive file metadata: %w", err)
	}

	length := int(protocol.Join7(f[10], f[11], f[12]))
	if length == 0 {
		return File{}, ErrNoFiles
	}

	file := File{
		Start:  timestamp(f[2:8]),
		Length: length / protocol.ManualChunkSamples * protocol.ManualChunkSamples,
	}
	debug.DebugLog.Printf("manual file: start %v, length %d (%d recorded)", file.Start, file.Length, length)
	return file, nil
}

func (h *Handler) readManualChannel(ctx context.Context, cmd protocol.Command, length int) ([]byte, error) {
	if err := h.send(protocol.Build(cmd, 0x00, 0x00, 0x00)); err != nil {
		return nil, err
	}

	resp, _ := cmd.Response()
	d := delta.NewManual(length)
	for !d.Done() {
		f, err := h.await(ctx, exactly(resp, protocol.ManualFileChunkSize))
		if err != nil {
			return nil, err
		}

		d.Decode(protocol.Join7(f[3], f[4]), f[5], f[6:19])
		debug.DebugLog.Printf("%v: %d of %d samples", resp, len(d.Samples()), length)
	}

	return d.Samples(), nil
}

// timestamp converts the six time bytes year (since 2000), month, day, hour,
// minute, second to a time in the local time zone.
func timestamp(b []byte) time.Time {
	return time.Date(2000+int(b[0]), time.Month(b[1]), int(b[2]), int(b[3]), int(b[4]), int(b[5]), 0, time.Local)
}

// zip pairs the channels by position, one second apart.
func zip(start time.Time, pulse, spo2 []byte) []Record {
	n := len(pulse)
	if len(spo2) < n {
		n = len(spo2)
	}

	records := make([]Record, n)
	for i := range records {
		records[i] = Record{
			Time:  start.Add(time.Duration(i) * time.Second),
			Pulse: pulse[i],
			SpO2:  spo2[i],
		}
	}
	return records
}
