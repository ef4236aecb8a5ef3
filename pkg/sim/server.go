package sim

import (
	"net/http"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/rclink/pkg/link"
	"github.com/robotalks/rclink/pkg/rc"
)

// Server simulates a vehicle for every websocket connection.
type Server struct {
	Codec *rc.Codec
	// Setup customizes new vehicles.
	Setup func(*Vehicle)

	server websocket.Server
}

// NewServer creates a Server.
func NewServer(codec *rc.Codec) *Server {
	s := &Server{Codec: codec}
	s.server.Handler = s.serveConn
	s.server.Handshake = func(*websocket.Config, *http.Request) error { return nil }
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.server.ServeHTTP(w, r)
}

func (s *Server) serveConn(conn *websocket.Conn) {
	conn.PayloadType = websocket.BinaryFrame
	l := link.NewLink(conn, s.Codec)
	v := NewVehicle(l)
	v.Name = "sim:" + conn.Request().RemoteAddr
	l.Name = v.Name
	if s.Setup != nil {
		s.Setup(v)
	}
	l.Handler = v
	glog.Infof("%s connected", v.Name)
	err := l.Run(conn.Request().Context())
	glog.Infof("%s disconnected: %v", v.Name, err)
}
