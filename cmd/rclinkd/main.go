package main

//go-build: CGO_ENABLED=0

import (
	"flag"

	"github.com/golang/glog"

	"github.com/robotalks/rclink/pkg/config"
	"github.com/robotalks/rclink/pkg/daemon"
	"github.com/robotalks/rclink/pkg/framework"
)

func init() {
	config.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf, err := config.NewConfig()
	if err != nil {
		glog.Exit(err)
	}
	d, err := daemon.Open(conf)
	if err != nil {
		glog.Exit(err)
	}
	glog.Infof("%s linked as %q (%s)", conf.Target, conf.ID, d.Codec.Revision())
	if err := framework.NewRunner().HandleSignals().Go(d).Wait(); err != nil {
		glog.Exit(err)
	}
}
