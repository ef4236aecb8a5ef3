package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/rclink/pkg/cobs"
	"github.com/robotalks/rclink/pkg/rc"
	"github.com/robotalks/rclink/pkg/slip"
)

const testConfig = `
id: car1
target: /dev/ttyACM0
serial:
  baud_rate: 57600
  parity: even
protocol:
  revision: 1
  framing: cobs
  strict: true
mqtt:
  url: mqtt://broker:1883/robo
`

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "rclink.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	require.NotEmpty(t, c.ID)
	require.Equal(t, int(rc.Revision2), c.Protocol.Revision)
	require.Equal(t, FramingSLIP, c.Protocol.Framing)
	require.NoError(t, c.Validate())
}

func TestLoad(t *testing.T) {
	t.Setenv(EnvTarget, "")
	t.Setenv(EnvMQTTURL, "")
	t.Setenv(EnvID, "")
	c, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)
	require.Equal(t, "car1", c.ID)
	require.Equal(t, "/dev/ttyACM0", c.Target)
	require.Equal(t, 57600, c.Serial.BaudRate)
	require.Equal(t, "even", c.Serial.Parity)
	require.Equal(t, ProtocolConfig{Revision: 1, Framing: FramingCOBS, Strict: true}, c.Protocol)
	require.Equal(t, "mqtt://broker:1883/robo", c.MQTT.URL)
	require.Equal(t, "/ws", c.Websocket.Path)
	require.NoError(t, c.Validate())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	_, err = Load(writeConfig(t, "unknown: 1\n"))
	require.Error(t, err)
	c, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	require.Equal(t, FramingSLIP, c.Protocol.Framing)
}

func TestEnvAndFlags(t *testing.T) {
	t.Setenv(EnvTarget, "ws://host:8080/ws")
	t.Setenv(EnvMQTTURL, "mqtt://env:1883")
	t.Setenv(EnvID, "car2")
	c, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)
	require.Equal(t, "ws://host:8080/ws", c.Target)
	require.Equal(t, "mqtt://env:1883", c.MQTT.URL)
	require.Equal(t, "car2", c.ID)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	BindFlags(fs, Default())
	require.NoError(t, fs.Parse([]string{"-id", "car3", "-rev", "2", "-framing", "slip"}))
	require.NoError(t, c.ApplyFlags(fs))
	require.Equal(t, "car3", c.ID)
	require.Equal(t, 2, c.Protocol.Revision)
	require.Equal(t, FramingSLIP, c.Protocol.Framing)
	// flags not set keep values from file and env.
	require.Equal(t, "ws://host:8080/ws", c.Target)
	require.Equal(t, 57600, c.Serial.BaudRate)
	require.True(t, c.Protocol.Strict)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(*Config)
	}{
		{"revision", func(c *Config) { c.Protocol.Revision = 3 }},
		{"framing", func(c *Config) { c.Protocol.Framing = "hdlc" }},
		{"target", func(c *Config) { c.Target = "" }},
		{"parity", func(c *Config) { c.Serial.Parity = "X" }},
		{"id", func(c *Config) { c.ID, c.MQTT.URL = "", "mqtt://localhost" }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := Default()
			tc.modify(c)
			require.Error(t, c.Validate())
		})
	}
}

func TestNewCodec(t *testing.T) {
	c := Default()
	c.Protocol = ProtocolConfig{Revision: 1, Framing: "COBS", Strict: true}
	codec, err := c.NewCodec()
	require.NoError(t, err)
	require.Equal(t, rc.Revision1, codec.Revision())
	require.True(t, codec.Strict())
	require.Equal(t, cobs.Framer{}, codec.Framer())

	c.Protocol = ProtocolConfig{Revision: 2}
	codec, err = c.NewCodec()
	require.NoError(t, err)
	require.Equal(t, slip.Framer{}, codec.Framer())
	require.False(t, codec.Strict())

	c.Protocol.Revision = 0
	_, err = c.NewCodec()
	require.Error(t, err)
}
