package protocol

import (
	"math/rand"
	"testing"
)

func TestChecksum(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want byte
	}{
		{name: "empty", data: nil, want: 0x00},
		{name: "ready response", data: []byte{0xF0}, want: 0x70},
		{name: "keepalive", data: []byte{0x9A}, want: 0x1A},
		{name: "wraps at 256", data: []byte{0xFF, 0x02}, want: 0x01},
		{name: "reduced mod 128", data: []byte{0x80, 0x00}, want: 0x00},
		{name: "read recording mode", data: []byte{0x8E, 0x07}, want: 0x15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Checksum(tt.data); got != tt.want {
				t.Errorf("Checksum(% x) = %#02x, want %#02x", tt.data, got, tt.want)
			}
		})
	}
}

func TestChecksumProperties(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		b := make([]byte, rnd.Intn(64))
		rnd.Read(b)

		c := Checksum(b)
		if c > 127 {
			t.Fatalf("Checksum(% x) = %d, want <= 127", b, c)
		}
		if !Verify(append(b, c)) {
			t.Fatalf("Verify(% x ++ %#02x) = false", b, c)
		}
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name  string
		frame []byte
		want  bool
	}{
		{name: "empty", frame: []byte{}, want: true},
		{name: "nil", frame: nil, want: true},
		{name: "single zero", frame: []byte{0x00}, want: true},
		{name: "single marker", frame: []byte{0x80}, want: false},
		{name: "init response", frame: []byte{0xF0, 0x70}, want: true},
		{name: "wrong checksum", frame: []byte{0xF0, 0x71}, want: false},
		{name: "zero checksum", frame: []byte{0x80, 0x00}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Verify(tt.frame); got != tt.want {
				t.Errorf("Verify(% x) = %v, want %v", tt.frame, got, tt.want)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	got := Build(ReadPropertyCommand, byte(RecordingModeProperty))
	want := []byte{0x8E, 0x07, 0x15}
	if string(got) != string(want) {
		t.Errorf("Build() = % x, want % x", got, want)
	}

	got = Build(KeepAliveCommand)
	want = []byte{0x9A, 0x1A}
	if string(got) != string(want) {
		t.Errorf("Build() = % x, want % x", got, want)
	}
}

func TestJoin7(t *testing.T) {
	tests := []struct {
		name string
		b    []byte
		want uint32
	}{
		{name: "none", b: nil, want: 0},
		{name: "one", b: []byte{0x05}, want: 5},
		{name: "two", b: []byte{0x01, 0x01}, want: 0x81},
		{name: "three", b: []byte{0x7f, 0x7f, 0x01}, want: 0x7fff | 1<<14},
		{name: "top bit ignored", b: []byte{0xff}, want: 0x7f},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Join7(tt.b...); got != tt.want {
				t.Errorf("Join7(% x) = %#x, want %#x", tt.b, got, tt.want)
			}
		})
	}
}
