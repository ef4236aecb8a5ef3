package main

import (
	"github.com/robotalks/rclink/pkg/cli/sh"
	"github.com/robotalks/rclink/pkg/config"

	_ "github.com/robotalks/rclink/pkg/cli/cmds/vehicle"
)

//go-build: CGO_ENABLED=0

func init() {
	config.SetupFlags()
}

func main() {
	sh.Main()
}
