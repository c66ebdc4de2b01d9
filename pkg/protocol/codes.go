package protocol

import "fmt"

// Command is the first byte of a frame, either a command sent to the device or a
// response received from it. Any byte value is a valid Command, values without a
// name are reported as unknown by IsKnown.
//
// The response code of a command is mostly the command code xor 0x70, but there
// are exceptions, use Response to look it up.
type Command byte

// Commands sent to the device.
const (
	ReadyCommand                                Command = 0x80
	GetDeviceNameCommand                        Command = 0x81
	GetVersionInfoCommand                       Command = 0x82
	SetDateTimeCommand                          Command = 0x83
	ReadPropertyCommand                         Command = 0x8E
	SetPropertyCommand                          Command = 0x8F
	GetAuxiliaryDataCommand                     Command = 0x90
	KeepAliveCommand                            Command = 0x9A
	LiveDataCommand                             Command = 0x9B
	AdvanceAndShowAutoRecordedFileHeaderCommand Command = 0x9C
	ReadAutoRecordedFileCommand                 Command = 0x9D
	FileStoreInfoCommand                        Command = 0x9F
	ManuallyRecordedFileMetadataCommand         Command = 0xA0
	ReadPulseFromManuallyRecordedFileCommand    Command = 0xA2
	ReadOxygenFromManuallyRecordedFileCommand   Command = 0xA3
)

// Responses received from the device. KeepAliveCommand has no response.
const (
	ReadyResponse                                Command = 0xF0
	GetDeviceNameResponse                        Command = 0xF1
	GetVersionInfoResponse                       Command = 0xF2
	SetDateTimeResponse                          Command = 0xF3
	ReadPropertyResponse                         Command = 0xFE
	SetPropertyResponse                          Command = 0xFF
	GetAuxiliaryDataResponse                     Command = 0xE0
	LiveDataResponse                             Command = 0xEB
	AdvanceAndShowAutoRecordedFileHeaderResponse Command = 0xEC
	ReadAutoRecordedFileResponse                 Command = 0xED
	FileStoreInfoResponse                        Command = 0xEF
	ManuallyRecordedFileMetadataResponse         Command = 0xD0
	ReadPulseFromManuallyRecordedFileResponse    Command = 0xD2
	ReadOxygenFromManuallyRecordedFileResponse   Command = 0xD3
)

var commandNames = map[Command]string{
	ReadyCommand:                                "ReadyCommand",
	GetDeviceNameCommand:                        "GetDeviceNameCommand",
	GetVersionInfoCommand:                       "GetVersionInfoCommand",
	SetDateTimeCommand:                          "SetDateTimeCommand",
	ReadPropertyCommand:                         "ReadPropertyCommand",
	SetPropertyCommand:                          "SetPropertyCommand",
	GetAuxiliaryDataCommand:                     "GetAuxiliaryDataCommand",
	KeepAliveCommand:                            "KeepAliveCommand",
	LiveDataCommand:                             "LiveDataCommand",
	AdvanceAndShowAutoRecordedFileHeaderCommand: "AdvanceAndShowAutoRecordedFileHeaderCommand",
	ReadAutoRecordedFileCommand:                 "ReadAutoRecordedFileCommand",
	FileStoreInfoCommand:                        "FileStoreInfoCommand",
	ManuallyRecordedFileMetadataCommand:         "ManuallyRecordedFileMetadataCommand",
	ReadPulseFromManuallyRecordedFileCommand:    "ReadPulseFromManuallyRecordedFileCommand",
	ReadOxygenFromManuallyRecordedFileCommand:   "ReadOxygenFromManuallyRecordedFileCommand",

	ReadyResponse:                                "ReadyResponse",
	GetDeviceNameResponse:                        "GetDeviceNameResponse",
	GetVersionInfoResponse:                       "GetVersionInfoResponse",
	SetDateTimeResponse:                          "SetDateTimeResponse",
	ReadPropertyResponse:                         "ReadPropertyResponse",
	SetPropertyResponse:                          "SetPropertyResponse",
	GetAuxiliaryDataResponse:                     "GetAuxiliaryDataResponse",
	LiveDataResponse:                             "LiveDataResponse",
	AdvanceAndShowAutoRecordedFileHeaderResponse: "AdvanceAndShowAutoRecordedFileHeaderResponse",
	ReadAutoRecordedFileResponse:                 "ReadAutoRecordedFileResponse",
	FileStoreInfoResponse:                        "FileStoreInfoResponse",
	ManuallyRecordedFileMetadataResponse:         "ManuallyRecordedFileMetadataResponse",
	ReadPulseFromManuallyRecordedFileResponse:    "ReadPulseFromManuallyRecordedFileResponse",
	ReadOxygenFromManuallyRecordedFileResponse:   "ReadOxygenFromManuallyRecordedFileResponse",
}

var responses = map[Command]Command{
	ReadyCommand:                                ReadyResponse,
	GetDeviceNameCommand:                        GetDeviceNameResponse,
	GetVersionInfoCommand:                       GetVersionInfoResponse,
	SetDateTimeCommand:                          SetDateTimeResponse,
	ReadPropertyCommand:                         ReadPropertyResponse,
	SetPropertyCommand:                          SetPropertyResponse,
	GetAuxiliaryDataCommand:                     GetAuxiliaryDataResponse,
	LiveDataCommand:                             LiveDataResponse,
	AdvanceAndShowAutoRecordedFileHeaderCommand: AdvanceAndShowAutoRecordedFileHeaderResponse,
	ReadAutoRecordedFileCommand:                 ReadAutoRecordedFileResponse,
	FileStoreInfoCommand:                        FileStoreInfoResponse,
	ManuallyRecordedFileMetadataCommand:         ManuallyRecordedFileMetadataResponse,
	ReadPulseFromManuallyRecordedFileCommand:    ReadPulseFromManuallyRecordedFileResponse,
	ReadOxygenFromManuallyRecordedFileCommand:   ReadOxygenFromManuallyRecordedFileResponse,
}

// IsKnown reports whether c is one of the named command or response codes.
func (c Command) IsKnown() bool {
	_, ok := commandNames[c]
	return ok
}

// Response returns the response code the device answers c with.
// ok is false for responses, unknown codes and KeepAliveCommand.
func (c Command) Response() (r Command, ok bool) {
	r, ok = responses[c]
	return r, ok
}

func (c Command) String() string {
	if s, ok := commandNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Command(%#02x)", byte(c))
}

// Property is a device property, read with ReadPropertyCommand and written with
// SetPropertyCommand. Like Command, every byte value is a valid Property.
type Property byte

const (
	DeviceIDProperty          Property = 0x03
	UnknownProperty04         Property = 0x04
	AutoRecordedFilesProperty Property = 0x06
	RecordingModeProperty     Property = 0x07
)

var propertyNames = map[Property]string{
	DeviceIDProperty:          "DeviceID",
	UnknownProperty04:         "Unknown04",
	AutoRecordedFilesProperty: "AutoRecordedFiles",
	RecordingModeProperty:     "RecordingMode",
}

// IsKnown reports whether p is one of the named properties.
func (p Property) IsKnown() bool {
	_, ok := propertyNames[p]
	return ok
}

func (p Property) String() string {
	if s, ok := propertyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Property(%#02x)", byte(p))
}

// RecordingMode is the recording mode the device is configured for. The device
// reports it as two 7 bit groups, see DecodeRecordingMode.
type RecordingMode uint16

const (
	// Automatic records files periodically.
	Automatic RecordingMode = 0x0000
	// Manual records a single file on demand.
	Manual RecordingMode = 0x0001
)

// IsKnown reports whether m is Automatic or Manual.
func (m RecordingMode) IsKnown() bool {
	return m == Automatic || m == Manual
}

func (m RecordingMode) String() string {
	switch m {
	case Automatic:
		return "automatic"
	case Manual:
		return "manual"
	default:
		return fmt.Sprintf("RecordingMode(%#04x)", uint16(m))
	}
}

// DecodeRecordingMode assembles a RecordingMode from its low and high 7 bit groups.
func DecodeRecordingMode(lo, hi byte) RecordingMode {
	return RecordingMode(uint16(lo) | uint16(hi)<<7)
}
