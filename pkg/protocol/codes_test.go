package protocol

import (
	"strings"
	"testing"
)

func TestCommandRoundTrip(t *testing.T) {
	for i := 0; i < 256; i++ {
		b := byte(i)
		c := Command(b)
		if byte(c) != b {
			t.Fatalf("byte(Command(%#02x)) = %#02x", b, byte(c))
		}
		if c.String() == "" {
			t.Fatalf("Command(%#02x).String() is empty", b)
		}
	}
}

func TestCommandNames(t *testing.T) {
	tests := []struct {
		c     Command
		want  string
		known bool
	}{
		{c: ReadyResponse, want: "ReadyResponse", known: true},
		{c: LiveDataCommand, want: "LiveDataCommand", known: true},
		{c: ReadOxygenFromManuallyRecordedFileResponse, want: "ReadOxygenFromManuallyRecordedFileResponse", known: true},
		{c: Command(0xA1), want: "Command(0xa1)", known: false},
		{c: Command(0x00), want: "Command(0x00)", known: false},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.c.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			if got := tt.c.IsKnown(); got != tt.known {
				t.Errorf("IsKnown() = %v, want %v", got, tt.known)
			}
		})
	}
}

func TestCommandResponse(t *testing.T) {
	tests := []struct {
		c    Command
		want Command
		ok   bool
	}{
		{c: ReadyCommand, want: ReadyResponse, ok: true},
		{c: ReadPropertyCommand, want: ReadPropertyResponse, ok: true},
		{c: SetPropertyCommand, want: SetPropertyResponse, ok: true},
		{c: GetAuxiliaryDataCommand, want: GetAuxiliaryDataResponse, ok: true},
		{c: ManuallyRecordedFileMetadataCommand, want: ManuallyRecordedFileMetadataResponse, ok: true},
		{c: ReadPulseFromManuallyRecordedFileCommand, want: ReadPulseFromManuallyRecordedFileResponse, ok: true},
		{c: KeepAliveCommand, ok: false},
		{c: LiveDataResponse, ok: false},
		{c: Command(0x42), ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.c.String(), func(t *testing.T) {
			got, ok := tt.c.Response()
			if ok != tt.ok {
				t.Fatalf("Response() ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("Response() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPropertyRoundTrip(t *testing.T) {
	known := 0
	for i := 0; i < 256; i++ {
		p := Property(byte(i))
		if byte(p) != byte(i) {
			t.Fatalf("byte(Property(%#02x)) = %#02x", i, byte(p))
		}
		if p.IsKnown() {
			known++
			continue
		}
		if !strings.HasPrefix(p.String(), "Property(") {
			t.Fatalf("Property(%#02x).String() = %q", i, p.String())
		}
	}
	if known != 4 {
		t.Errorf("got %d known properties, want 4", known)
	}
}

func TestRecordingMode(t *testing.T) {
	tests := []struct {
		lo, hi byte
		want   RecordingMode
		known  bool
		name   string
	}{
		{lo: 0x00, hi: 0x00, want: Automatic, known: true, name: "automatic"},
		{lo: 0x01, hi: 0x00, want: Manual, known: true, name: "manual"},
		{lo: 0x02, hi: 0x00, want: RecordingMode(2), known: false, name: "RecordingMode(0x0002)"},
		{lo: 0x00, hi: 0x01, want: RecordingMode(0x80), known: false, name: "RecordingMode(0x0080)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeRecordingMode(tt.lo, tt.hi)
			if got != tt.want {
				t.Fatalf("DecodeRecordingMode(%#02x, %#02x) = %v, want %v", tt.lo, tt.hi, got, tt.want)
			}
			if got.IsKnown() != tt.known {
				t.Errorf("IsKnown() = %v, want %v", got.IsKnown(), tt.known)
			}
			if got.String() != tt.name {
				t.Errorf("String() = %q, want %q", got.String(), tt.name)
			}
			if uint16(RecordingMode(uint16(got))) != uint16(got) {
				t.Errorf("round trip failed for %v", got)
			}
		})
	}
}
