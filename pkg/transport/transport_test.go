package transport

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
	"golang.org/x/net/websocket"
)

func TestPortOptionsNormalize(t *testing.T) {
	opts, err := PortOptions{}.Normalize()
	require.NoError(t, err)
	require.Equal(t, PortOptions{BaudRate: DefaultBaudRate, DataBits: 8, StopBits: 1, Parity: "N"}, opts)

	opts, err = PortOptions{BaudRate: 9600, DataBits: 7, StopBits: 2, Parity: " even"}.Normalize()
	require.NoError(t, err)
	require.Equal(t, PortOptions{BaudRate: 9600, DataBits: 7, StopBits: 2, Parity: "E"}, opts)

	invalid := []PortOptions{
		{DataBits: 9},
		{DataBits: 4},
		{StopBits: 3},
		{Parity: "mark"},
	}
	for _, o := range invalid {
		_, err := o.Normalize()
		require.Error(t, err, "%+v", o)
	}
}

func TestPortOptionsSerialMode(t *testing.T) {
	mode, err := PortOptions{Parity: "o", StopBits: 2}.SerialMode()
	require.NoError(t, err)
	require.Equal(t, &serial.Mode{
		BaudRate: DefaultBaudRate,
		DataBits: 8,
		StopBits: serial.TwoStopBits,
		Parity:   serial.OddParity,
	}, mode)

	_, err = PortOptions{Parity: "x"}.SerialMode()
	require.Error(t, err)
}

func TestIsWebsocket(t *testing.T) {
	require.True(t, IsWebsocket("ws://localhost:8080/link"))
	require.True(t, IsWebsocket("wss://example.com/link"))
	require.False(t, IsWebsocket("/dev/ttyUSB0"))
	require.False(t, IsWebsocket("COM3"))
}

func TestDialWebsocket(t *testing.T) {
	srv := httptest.NewServer(websocket.Handler(func(conn *websocket.Conn) {
		io.Copy(conn, conn)
	}))
	defer srv.Close()

	conn, err := Open("ws"+strings.TrimPrefix(srv.URL, "http"), PortOptions{})
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte{0xc0, 0x01, 0xc0})
	require.NoError(t, err)
	buf := make([]byte, 3)
	_, err = io.ReadFull(conn, buf)
	require.NoError(t, err)
	require.Equal(t, []byte{0xc0, 0x01, 0xc0}, buf)
}
