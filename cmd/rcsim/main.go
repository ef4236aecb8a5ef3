package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"net/http"

	"github.com/golang/glog"

	"github.com/robotalks/rclink/pkg/config"
	"github.com/robotalks/rclink/pkg/framework"
	"github.com/robotalks/rclink/pkg/sim"
)

var (
	listenAddr = ":8080"
	throttle   = float64(1)
)

func init() {
	config.SetupFlags()
	flag.StringVar(&listenAddr, "sim-listen", listenAddr, "Listen address of simulated vehicles.")
	flag.Float64Var(&throttle, "sim-throttle", throttle, "Throttle applied by StartMotor.")
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf, err := config.NewConfig()
	if err != nil {
		glog.Exit(err)
	}
	codec, err := conf.NewCodec()
	if err != nil {
		glog.Exit(err)
	}
	s := sim.NewServer(codec)
	s.Setup = func(v *sim.Vehicle) {
		v.Throttle = float32(throttle)
	}
	server := &http.Server{Addr: listenAddr, Handler: s}
	glog.Infof("simulating %s vehicles on %s", codec.Revision(), listenAddr)
	err = framework.NewRunner().HandleSignals().Go(framework.RunFunc(func(ctx context.Context) error {
		return framework.RunWithContextCloser(ctx, server, server.ListenAndServe)
	})).Wait()
	if err != nil {
		glog.Exit(err)
	}
}
