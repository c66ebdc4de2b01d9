package protocol

// InitSequence is sent to the device to establish communication.
// The device answers with the two byte frame {0xF0, 0x70}.
var InitSequence = []byte{
	0x7d, 0x81, 0xa7, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80,
	0x7d, 0x81, 0xa2, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80,
}

// InitResponse is the only acceptable answer to InitSequence.
var InitResponse = []byte{byte(ReadyResponse), 0x70}

// Response frame sizes, checksum included.
const (
	RecordingModeResponseSize = 5
	FileCountMinSize          = 6
	AutoFileHeaderMinSize     = 13
	AutoFileChunkSize         = 30
	ManualFileMetadataSize    = 14
	ManualFileChunkSize       = 20
	LiveDataMinSize           = 8
)

const (
	// LiveDataCurrent is the live data sub-code carrying the current readings.
	LiveDataCurrent = 0x01

	// DeviceIDSize is the fixed length of the device ID property value.
	DeviceIDSize = 7
	// DeviceIDPadding right-pads short device IDs.
	DeviceIDPadding = 0x20

	// ManualChunkSamples is the number of samples in one manual file chunk;
	// manual file lengths are rounded down to a multiple of it.
	ManualChunkSamples = 27
)

// Build returns the frame for command c with the given payload and the
// trailing checksum.
func Build(c Command, payload ...byte) []byte {
	frame := make([]byte, 0, len(payload)+2)
	frame = append(frame, byte(c))
	frame = append(frame, payload...)
	return append(frame, Checksum(frame))
}

// Join7 concatenates the low 7 bits of each byte, first byte lowest.
// The protocol uses it for counters and sign bitmaps, since no byte after the
// first of a frame may carry the top bit.
func Join7(b ...byte) uint32 {
	var v uint32
	for i, c := range b {
		v |= uint32(c&0x7f) << (7 * i)
	}
	return v
}
