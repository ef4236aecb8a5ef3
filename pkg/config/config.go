// Package config loads settings for rclink commands.
// Values are taken from defaults, a YAML file, environment
// variables and command line flags, later ones win.
package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/robotalks/rclink/pkg/cobs"
	"github.com/robotalks/rclink/pkg/rc"
	"github.com/robotalks/rclink/pkg/slip"
	"github.com/robotalks/rclink/pkg/transport"
)

// Config is the settings of the link, bridges and shell.
type Config struct {
	// ID names the vehicle in MQTT topics.
	ID string `yaml:"id"`
	// Target is a serial device path or a websocket URL.
	Target    string                `yaml:"target"`
	Serial    transport.PortOptions `yaml:"serial"`
	Protocol  ProtocolConfig        `yaml:"protocol"`
	MQTT      MQTTConfig            `yaml:"mqtt"`
	Websocket WebsocketConfig       `yaml:"websocket"`
}

// ProtocolConfig selects the wire format.
type ProtocolConfig struct {
	Revision       int    `yaml:"revision"`
	Strict         bool   `yaml:"strict"`
	Framing        string `yaml:"framing"`
	BoundedBuffers bool   `yaml:"bounded_buffers"`
}

// MQTTConfig configures the MQTT bridge. Empty URL disables it.
// e.g. mqtt://host:port/topic-prefix
type MQTTConfig struct {
	URL string `yaml:"url"`
}

// WebsocketConfig configures the websocket hub. Empty Listen disables it.
type WebsocketConfig struct {
	Listen string `yaml:"listen"`
	Path   string `yaml:"path"`
}

// Framing names.
const (
	FramingSLIP = "slip"
	FramingCOBS = "cobs"
)

// Environment variables overriding the config file.
const (
	EnvConfigFile = "RC_CONFIG"
	EnvTarget     = "RC_TARGET"
	EnvMQTTURL    = "RC_MQTT_URL"
	EnvID         = "RC_ID"
)

var (
	configFile = os.Getenv(EnvConfigFile)
	flagConfig *Config
)

// Default gets the default config.
func Default() *Config {
	return &Config{
		ID:     DefaultID(),
		Target: "/dev/ttyUSB0",
		Serial: transport.PortOptions{BaudRate: transport.DefaultBaudRate},
		Protocol: ProtocolConfig{
			Revision: int(rc.Revision2),
			Framing:  FramingSLIP,
		},
		Websocket: WebsocketConfig{Path: "/ws"},
	}
}

// BindFlags binds flags in fs to fields of c.
func BindFlags(fs *flag.FlagSet, c *Config) {
	fs.StringVar(&c.ID, "id", c.ID, "Vehicle ID used in MQTT topics.")
	fs.StringVar(&c.Target, "target", c.Target, "Serial device or websocket URL (ws://).")
	fs.IntVar(&c.Serial.BaudRate, "baud", c.Serial.BaudRate, "Serial baud rate.")
	fs.StringVar(&c.Serial.Parity, "parity", c.Serial.Parity, "Serial parity: N, E or O.")
	fs.IntVar(&c.Protocol.Revision, "rev", c.Protocol.Revision, "Protocol revision: 1 or 2.")
	fs.BoolVar(&c.Protocol.Strict, "strict", c.Protocol.Strict, "Reject trailing bytes after a command.")
	fs.StringVar(&c.Protocol.Framing, "framing", c.Protocol.Framing, "Framing: slip or cobs.")
	fs.StringVar(&c.MQTT.URL, "mqtt", c.MQTT.URL, "MQTT broker URL, e.g. mqtt://localhost:1883/robo")
	fs.StringVar(&c.Websocket.Listen, "listen", c.Websocket.Listen, "Websocket listen address, e.g. :8080")
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flagConfig = Default()
	flag.StringVar(&configFile, "config", configFile, "Config file in YAML.")
	BindFlags(flag.CommandLine, flagConfig)
}

// Load loads config from defaults, the file (if path is not empty)
// and environment variables.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		if err := c.LoadFile(path); err != nil {
			return nil, err
		}
	}
	c.ApplyEnv()
	return c, nil
}

// NewConfig creates a Config from the config file, environment
// variables and explicitly set command line flags.
func NewConfig() (*Config, error) {
	c, err := Load(configFile)
	if err != nil {
		return nil, err
	}
	if flagConfig != nil {
		if err := c.ApplyFlags(flag.CommandLine); err != nil {
			return nil, err
		}
	}
	return c, c.Validate()
}

// LoadFile merges the YAML file into c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s error: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides c with environment variables.
func (c *Config) ApplyEnv() {
	if val := os.Getenv(EnvTarget); val != "" {
		c.Target = val
	}
	if val := os.Getenv(EnvMQTTURL); val != "" {
		c.MQTT.URL = val
	}
	if val := os.Getenv(EnvID); val != "" {
		c.ID = val
	}
}

// ApplyFlags overrides c with flags explicitly set in fs.
func (c *Config) ApplyFlags(fs *flag.FlagSet) error {
	bound := flag.NewFlagSet("config", flag.ContinueOnError)
	BindFlags(bound, c)
	var err error
	fs.Visit(func(f *flag.Flag) {
		if err == nil && bound.Lookup(f.Name) != nil {
			err = bound.Set(f.Name, f.Value.String())
		}
	})
	return err
}

// Validate checks the config.
func (c *Config) Validate() error {
	if !rc.Revision(c.Protocol.Revision).IsValid() {
		return fmt.Errorf("invalid protocol revision %d", c.Protocol.Revision)
	}
	if _, err := ParseFraming(c.Protocol.Framing); err != nil {
		return err
	}
	if c.Target == "" {
		return errors.New("target is required")
	}
	if _, err := c.Serial.Normalize(); err != nil {
		return err
	}
	if c.MQTT.URL != "" && c.ID == "" {
		return errors.New("id is required by MQTT bridge")
	}
	return nil
}

// ParseFraming gets the Framer by name.
func ParseFraming(name string) (rc.Framer, error) {
	switch strings.ToLower(name) {
	case "", FramingSLIP:
		return slip.Framer{}, nil
	case FramingCOBS:
		return cobs.Framer{}, nil
	default:
		return nil, fmt.Errorf("unknown framing %q", name)
	}
}

// NewCodec creates the Codec from protocol settings.
func (c *Config) NewCodec() (*rc.Codec, error) {
	rev := rc.Revision(c.Protocol.Revision)
	if !rev.IsValid() {
		return nil, fmt.Errorf("invalid protocol revision %d", c.Protocol.Revision)
	}
	framer, err := ParseFraming(c.Protocol.Framing)
	if err != nil {
		return nil, err
	}
	opts := []rc.Option{rc.WithFramer(framer)}
	if c.Protocol.Strict {
		opts = append(opts, rc.WithStrict())
	}
	if c.Protocol.BoundedBuffers {
		opts = append(opts, rc.WithBoundedBuffers())
	}
	return rc.New(rev, opts...), nil
}

// OpenTarget opens the serial port or dials the websocket.
func (c *Config) OpenTarget() (io.ReadWriteCloser, error) {
	return transport.Open(c.Target, c.Serial)
}
