package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/womat/debug"
	"gopkg.in/yaml.v2"
)

// DefaultConfigFile is read if no config file is given. Unlike a given file it may be missing.
const DefaultConfigFile = "/etc/oxlog/oxlog.yaml"

// Config defines the struct of global config and the struct of the configuration file.
// Fields ending in String or Int hold the raw file values, LoadConfig converts them.
type Config struct {
	Flag      FlagConfig      `yaml:"-"`
	USB       USBConfig       `yaml:"usb"`
	Debug     DebugConfig     `yaml:"debug"`
	Webserver WebserverConfig `yaml:"webserver"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
}

// FlagConfig defines the configured flags (parameters).
// Empty or zero flags don't overwrite the config file.
type FlagConfig struct {
	ConfigFile  string
	Debug       string
	Vendor      string
	Product     string
	ReadTimeout time.Duration
	Web         string
	MQTT        string
}

// USBConfig defines the oximeter device.
type USBConfig struct {
	VendorString   string        `yaml:"vendor"`
	Vendor         uint16        `yaml:"-"`
	ProductString  string        `yaml:"product"`
	Product        uint16        `yaml:"-"`
	ReadTimeoutInt int           `yaml:"readtimeout"`
	ReadTimeout    time.Duration `yaml:"-"`
	ReadBudget     int           `yaml:"readbudget"`
}

// WebserverConfig defines the struct of the webserver and webservice configuration and configuration file
type WebserverConfig struct {
	URL         string          `yaml:"url"`
	Webservices map[string]bool `yaml:"webservices"`
}

// MQTTConfig defines the struct of the mqtt client configuration and configuration file
type MQTTConfig struct {
	Connection string `yaml:"connection"`
	Topic      string `yaml:"topic"`
}

// DebugConfig defines the struct of the debug configuration and configuration file
type DebugConfig struct {
	File       io.WriteCloser `yaml:"-"`
	Flag       int            `yaml:"-"`
	FlagString string         `yaml:"flag"`
	FileString string         `yaml:"file"`
}

func NewConfig() *Config {
	return &Config{
		Flag: FlagConfig{
			ConfigFile: DefaultConfigFile,
		},
		USB: USBConfig{
			VendorString:  "0x28e9",
			ProductString: "0x028a",
		},
		Debug: DebugConfig{
			FileString: "stderr",
			FlagString: "standard",
		},
		Webserver: WebserverConfig{
			Webservices: map[string]bool{
				"version": true,
				"health":  true,
				"data":    true,
				"metrics": true,
			},
		},
		MQTT: MQTTConfig{
			Topic: "oxlog/live",
		},
	}
}

func (c *Config) LoadConfig() error {
	if err := c.readConfigFile(); err != nil {
		return fmt.Errorf("error reading config file %q: %w", c.Flag.ConfigFile, err)
	}

	c.applyFlags()

	var err error
	if c.USB.Vendor, err = ParseUint16(c.USB.VendorString); err != nil {
		return fmt.Errorf("invalid usb vendor id: %w", err)
	}
	if c.USB.Product, err = ParseUint16(c.USB.ProductString); err != nil {
		return fmt.Errorf("invalid usb product id: %w", err)
	}
	if c.USB.ReadTimeoutInt < 0 || c.USB.ReadBudget < 0 {
		return errors.New("usb readtimeout and readbudget must not be negative")
	}
	if c.USB.ReadTimeout == 0 {
		c.USB.ReadTimeout = time.Duration(c.USB.ReadTimeoutInt) * time.Millisecond
	}

	if err = c.setDebugConfig(); err != nil {
		return fmt.Errorf("unable to set debug config %q: %w", c.Debug.FileString, err)
	}

	return nil
}

func (c *Config) readConfigFile() error {
	file, err := os.Open(c.Flag.ConfigFile)
	if errors.Is(err, fs.ErrNotExist) && c.Flag.ConfigFile == DefaultConfigFile {
		return nil
	}
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	decoder := yaml.NewDecoder(file)
	if err = decoder.Decode(c); err != nil && err != io.EOF {
		return err
	}

	return nil
}

// applyFlags overwrites the config file values with the given flags.
func (c *Config) applyFlags() {
	if c.Flag.Debug != "" {
		c.Debug.FlagString = c.Flag.Debug
	}
	if c.Flag.Vendor != "" {
		c.USB.VendorString = c.Flag.Vendor
	}
	if c.Flag.Product != "" {
		c.USB.ProductString = c.Flag.Product
	}
	if c.Flag.ReadTimeout > 0 {
		c.USB.ReadTimeout = c.Flag.ReadTimeout
	}
	if c.Flag.Web != "" {
		c.Webserver.URL = c.Flag.Web
	}
	if c.Flag.MQTT != "" {
		c.MQTT.Connection = c.Flag.MQTT
	}
}

func (c *Config) setDebugConfig() (err error) {
	// defines Debug section of global.Config
	switch c.Debug.FlagString {
	case "trace", "full":
		c.Debug.Flag = debug.Full
	case "debug":
		c.Debug.Flag = debug.Warning | debug.Info | debug.Error | debug.Fatal | debug.Debug
	case "standard":
		c.Debug.Flag = debug.Standard
	default:
		return fmt.Errorf("unknown log level %q", c.Debug.FlagString)
	}

	switch c.Debug.FileString {
	case "stderr":
		c.Debug.File = os.Stderr
	case "stdout":
		c.Debug.File = os.Stdout
	default:
		if c.Debug.File, err = os.OpenFile(c.Debug.FileString, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666); err != nil {
			return
		}
	}

	return
}

// ParseUint16 parses a 16 bit unsigned integer with an optional leading plus sign.
// A 0x, 0o or 0b prefix selects hexadecimal, octal or binary, otherwise the value is decimal.
func ParseUint16(s string) (uint16, error) {
	digits := strings.TrimPrefix(s, "+")

	base := 10
	if len(digits) > 2 && digits[0] == '0' {
		switch digits[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 10 {
			digits = digits[2:]
		}
	}

	if digits == "" || digits[0] == '+' || digits[0] == '-' {
		return 0, fmt.Errorf("invalid number %q", s)
	}

	v, err := strconv.ParseUint(digits, base, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return uint16(v), nil
}
