// Package daemon wires the vehicle link with the MQTT bridge and
// the websocket hub.
package daemon

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/golang/glog"

	"github.com/robotalks/rclink/pkg/bridge/mqtt"
	"github.com/robotalks/rclink/pkg/bridge/websocket"
	"github.com/robotalks/rclink/pkg/config"
	"github.com/robotalks/rclink/pkg/framework"
	"github.com/robotalks/rclink/pkg/link"
	"github.com/robotalks/rclink/pkg/rc"
)

// Daemon shares the vehicle link with MQTT and websocket clients.
type Daemon struct {
	Config *config.Config
	Codec  *rc.Codec
	Link   *link.Link
	Mux    link.HandlerMux

	Bridge *mqtt.Bridge
	Hub    *websocket.Hub
	// Listener overrides Config.Websocket.Listen if set.
	Listener net.Listener
}

// New creates a Daemon over an opened link.
func New(conf *config.Config, rw io.ReadWriter) (*Daemon, error) {
	codec, err := conf.NewCodec()
	if err != nil {
		return nil, err
	}
	d := &Daemon{Config: conf, Codec: codec}
	d.Link = link.NewLink(rw, codec)
	d.Link.Name = conf.Target
	d.Link.Handler = &d.Mux
	d.Mux.Add(link.HandleCommandFunc(d.logCommand))

	if conf.MQTT.URL != "" {
		q, err := mqtt.NewQueueFromURL(conf.MQTT.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid MQTT URL: %w", err)
		}
		d.Bridge = mqtt.NewBridge(q, codec, d.Link, conf.ID)
		d.Mux.Add(d.Bridge)
	}
	if conf.Websocket.Listen != "" {
		d.Hub = websocket.NewHub(codec, d.Link)
		d.Mux.Add(d.Hub)
	}
	return d, nil
}

// Open opens the configured target and creates a Daemon.
func Open(conf *config.Config) (*Daemon, error) {
	rw, err := conf.OpenTarget()
	if err != nil {
		return nil, err
	}
	d, err := New(conf, rw)
	if err != nil {
		rw.Close()
		return nil, err
	}
	return d, nil
}

func (d *Daemon) logCommand(ctx context.Context, cmd rc.Command) {
	if glog.V(2) {
		glog.Infof("%s: %s", d.Link.Name, cmd.Tag())
	}
}

// Run implements framework.Runnable.
// It stops when the link or any bridge stops.
func (d *Daemon) Run(ctx context.Context) error {
	defer d.Link.Close()
	runner := framework.NewRunnerWith(ctx)
	runner.Go(framework.NamedRun("link", d.Link))

	if d.Bridge != nil {
		if err := d.Bridge.Queue.Connect(); err != nil {
			runner.Stop()
			runner.Wait()
			return fmt.Errorf("connect MQTT %s error: %w", d.Config.MQTT.URL, err)
		}
		defer d.Bridge.Queue.Close()
		runner.Go(framework.NamedRun("mqtt", d.Bridge))
	}

	if d.Hub != nil {
		ln := d.Listener
		if ln == nil {
			var err error
			if ln, err = net.Listen("tcp", d.Config.Websocket.Listen); err != nil {
				runner.Stop()
				runner.Wait()
				return err
			}
		}
		mux := http.NewServeMux()
		mux.Handle(d.websocketPath(), d.Hub)
		server := &http.Server{Handler: mux}
		glog.Infof("websocket listening on %s%s", ln.Addr(), d.websocketPath())
		runner.Go(framework.NamedRun("websocket", framework.RunFunc(func(ctx context.Context) error {
			return framework.RunWithContextCloser(ctx, server, func() error {
				return server.Serve(ln)
			})
		})))
	}
	return runner.Wait()
}

func (d *Daemon) websocketPath() string {
	if path := d.Config.Websocket.Path; path != "" {
		return path
	}
	return "/"
}
