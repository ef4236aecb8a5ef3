package websocket

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/robotalks/rclink/pkg/link"
	"github.com/robotalks/rclink/pkg/rc"
)

type chanSender chan rc.Command

func (s chanSender) Send(cmd rc.Command) error {
	s <- cmd
	return nil
}

func dial(t *testing.T, url string) *websocket.Conn {
	conn, err := websocket.Dial("ws"+strings.TrimPrefix(url, "http"), "", "http://localhost/")
	require.NoError(t, err)
	conn.PayloadType = websocket.BinaryFrame
	return conn
}

func TestHub(t *testing.T) {
	codec := rc.New(rc.Revision2)
	sender := make(chanSender, 1)
	hub := NewHub(codec, sender)
	server := httptest.NewServer(hub)
	defer server.Close()

	conn := dial(t, server.URL)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.NumClients() == 1 }, time.Second, 10*time.Millisecond)

	client := link.NewClient(link.NewLink(conn, codec))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Run(ctx)

	require.NoError(t, client.Do(rc.StartMotor{}))
	select {
	case cmd := <-sender:
		require.Equal(t, rc.StartMotor{Motor: rc.All}, cmd)
	case <-time.After(time.Second):
		t.Fatal("command not forwarded")
	}

	state := rc.SendMotionState{AngularVelocity: rc.Vector3{0.5, -1, 2}, Armed: true}
	hub.HandleCommand(ctx, state)
	select {
	case cmd := <-client.CommandChan():
		require.Equal(t, state, cmd)
	case <-time.After(time.Second):
		t.Fatal("command not broadcast")
	}

	conn.Close()
	require.Eventually(t, func() bool { return hub.NumClients() == 0 }, time.Second, 10*time.Millisecond)
}
