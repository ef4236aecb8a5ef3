// Package websocket shares the vehicle link with websocket clients.
package websocket

import (
	"context"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/rclink/pkg/link"
	"github.com/robotalks/rclink/pkg/rc"
)

// Hub accepts websocket clients which exchange frames in the same format
// as the vehicle link. Commands from clients are forwarded to Sender and
// commands from the vehicle are broadcast to all clients.
type Hub struct {
	Codec  *rc.Codec
	Sender link.Sender

	clients     map[*link.Link]struct{}
	clientsLock sync.RWMutex
	server      websocket.Server
}

// NewHub creates a Hub.
func NewHub(codec *rc.Codec, sender link.Sender) *Hub {
	h := &Hub{
		Codec:   codec,
		Sender:  sender,
		clients: make(map[*link.Link]struct{}),
	}
	h.server.Handler = h.serveConn
	// accept clients from any origin, e.g. the rcsh shell.
	h.server.Handshake = func(*websocket.Config, *http.Request) error { return nil }
	return h
}

// ServeHTTP implements http.Handler.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.server.ServeHTTP(w, r)
}

// NumClients returns the number of connected clients.
func (h *Hub) NumClients() int {
	h.clientsLock.RLock()
	defer h.clientsLock.RUnlock()
	return len(h.clients)
}

func (h *Hub) serveConn(conn *websocket.Conn) {
	conn.PayloadType = websocket.BinaryFrame
	l := link.NewLink(conn, h.Codec)
	l.Name = "ws:" + conn.Request().RemoteAddr
	l.Handler = link.HandleCommandFunc(h.forward)

	h.clientsLock.Lock()
	h.clients[l] = struct{}{}
	h.clientsLock.Unlock()
	glog.Infof("%s connected", l.Name)

	err := l.Run(conn.Request().Context())

	h.clientsLock.Lock()
	delete(h.clients, l)
	h.clientsLock.Unlock()
	glog.Infof("%s disconnected: %v", l.Name, err)
}

func (h *Hub) forward(ctx context.Context, cmd rc.Command) {
	if err := h.Sender.Send(cmd); err != nil {
		glog.Errorf("forward %s error: %v", cmd.Tag(), err)
	}
}

// HandleCommand implements link.CommandHandler.
func (h *Hub) HandleCommand(ctx context.Context, cmd rc.Command) {
	h.clientsLock.RLock()
	clients := make([]*link.Link, 0, len(h.clients))
	for l := range h.clients {
		clients = append(clients, l)
	}
	h.clientsLock.RUnlock()
	for _, l := range clients {
		if err := l.Send(cmd); err != nil {
			glog.Warningf("%s send error: %v", l.Name, err)
			l.Close()
		}
	}
}
