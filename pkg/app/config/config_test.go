package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/womat/debug"
)

func TestParseUint16(t *testing.T) {
	tests := []struct {
		in      string
		want    uint16
		wantErr bool
	}{
		{in: "0x28e9", want: 0x28e9},
		{in: "0X28E9", want: 0x28e9},
		{in: "0o1212", want: 0o1212},
		{in: "0b1010", want: 10},
		{in: "+650", want: 650},
		{in: "+0x028a", want: 0x028a},
		{in: "010", want: 10},
		{in: "65535", want: 65535},
		{in: "65536", wantErr: true},
		{in: "0x", wantErr: true},
		{in: "", wantErr: true},
		{in: "+", wantErr: true},
		{in: "++1", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "0x-1", wantErr: true},
		{in: "0b102", wantErr: true},
		{in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseUint16(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseUint16(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseUint16(%q) = %#x, want %#x", tt.in, got, tt.want)
		}
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "oxlog.yaml")
	if err := os.WriteFile(file, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return file
}

func TestLoadConfig(t *testing.T) {
	c := NewConfig()
	c.Flag.ConfigFile = writeConfig(t, `
usb:
  vendor: "0x1234"
  product: "4660"
  readtimeout: 500
  readbudget: 20
debug:
  file: stdout
  flag: debug
webserver:
  url: http://0.0.0.0:4000
  webservices:
    metrics: false
mqtt:
  connection: tcp://127.0.0.1:1883
`)

	if err := c.LoadConfig(); err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if c.USB.Vendor != 0x1234 || c.USB.Product != 4660 {
		t.Errorf("usb ids = %#x:%#x", c.USB.Vendor, c.USB.Product)
	}
	if c.USB.ReadTimeout != 500*time.Millisecond || c.USB.ReadBudget != 20 {
		t.Errorf("read timeout %v, budget %d", c.USB.ReadTimeout, c.USB.ReadBudget)
	}
	if c.Debug.File != os.Stdout || c.Debug.Flag != debug.Warning|debug.Info|debug.Error|debug.Fatal|debug.Debug {
		t.Errorf("unexpected debug config %+v", c.Debug)
	}
	if c.Webserver.URL != "http://0.0.0.0:4000" || c.Webserver.Webservices["metrics"] {
		t.Errorf("unexpected webserver config %+v", c.Webserver)
	}
	if c.MQTT.Connection != "tcp://127.0.0.1:1883" || c.MQTT.Topic != "oxlog/live" {
		t.Errorf("unexpected mqtt config %+v", c.MQTT)
	}
}

func TestFlagsOverwriteFile(t *testing.T) {
	c := NewConfig()
	c.Flag.ConfigFile = writeConfig(t, "usb:\n  vendor: \"0x1234\"\n  readtimeout: 500\n")
	c.Flag.Vendor = "0b11"
	c.Flag.Product = "+7"
	c.Flag.ReadTimeout = 2 * time.Second
	c.Flag.Debug = "trace"
	c.Flag.Web = "http://127.0.0.1:8080"
	c.Flag.MQTT = "tcp://broker:1883"

	if err := c.LoadConfig(); err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if c.USB.Vendor != 3 || c.USB.Product != 7 {
		t.Errorf("usb ids = %#x:%#x, want 0x3:0x7", c.USB.Vendor, c.USB.Product)
	}
	if c.USB.ReadTimeout != 2*time.Second {
		t.Errorf("read timeout = %v, want 2s", c.USB.ReadTimeout)
	}
	if c.Debug.Flag != debug.Full {
		t.Errorf("debug flag = %v, want full", c.Debug.Flag)
	}
	if c.Webserver.URL != c.Flag.Web || c.MQTT.Connection != c.Flag.MQTT {
		t.Errorf("webserver %q, mqtt %q", c.Webserver.URL, c.MQTT.Connection)
	}
}

func TestMissingConfigFile(t *testing.T) {
	c := NewConfig()
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		t.Skipf("%s exists", DefaultConfigFile)
	}

	// a missing default file is fine
	if err := c.LoadConfig(); err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if c.USB.Vendor != 0x28e9 || c.USB.Product != 0x028a {
		t.Errorf("default usb ids = %#x:%#x", c.USB.Vendor, c.USB.Product)
	}

	// a missing given file is not
	c = NewConfig()
	c.Flag.ConfigFile = filepath.Join(t.TempDir(), "missing.yaml")
	if err := c.LoadConfig(); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("LoadConfig() error = %v, want %v", err, fs.ErrNotExist)
	}
}

func TestInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		flag    string
	}{
		{name: "vendor", content: "usb:\n  vendor: \"0xfffff\"\n"},
		{name: "product", content: "usb:\n  product: \"x\"\n"},
		{name: "negative timeout", content: "usb:\n  readtimeout: -1\n"},
		{name: "log level", content: "", flag: "verbose"},
		{name: "yaml", content: "usb: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewConfig()
			c.Flag.ConfigFile = writeConfig(t, tt.content)
			c.Flag.Debug = tt.flag
			if err := c.LoadConfig(); err == nil {
				t.Errorf("LoadConfig() error = nil")
			}
		})
	}
}
