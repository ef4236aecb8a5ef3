// Package transport opens the byte stream carrying frames.
package transport

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/websocket"
)

// Open opens target which is either a serial device path or
// a websocket URL (ws:// or wss://).
func Open(target string, opts PortOptions) (io.ReadWriteCloser, error) {
	if IsWebsocket(target) {
		return DialWebsocket(target)
	}
	return OpenSerial(target, opts)
}

// IsWebsocket indicates target is a websocket URL.
func IsWebsocket(target string) bool {
	return strings.HasPrefix(target, "ws://") || strings.HasPrefix(target, "wss://")
}

// DialWebsocket connects to the websocket URL.
// Frames are transferred as binary messages.
func DialWebsocket(target string) (*websocket.Conn, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}
	origin := "http://" + u.Host
	if u.Scheme == "wss" {
		origin = "https://" + u.Host
	}
	conn, err := websocket.Dial(target, "", origin)
	if err != nil {
		return nil, err
	}
	conn.PayloadType = websocket.BinaryFrame
	return conn, nil
}
