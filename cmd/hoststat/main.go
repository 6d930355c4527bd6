package main

import (
	"github.com/moby/sys/reexec"
	"github.com/rileyhilliard/hoststat/internal/cli"
	"github.com/rileyhilliard/hoststat/internal/probe"
	"github.com/rileyhilliard/hoststat/internal/worker"
)

// Version info set via ldflags at build time:
//
//	go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2024-01-01"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Worker processes are this binary re-executed under a worker name.
	worker.Register(func() worker.Probes {
		return worker.HostProbes(probe.NewHost())
	})
	if reexec.Init() {
		return
	}

	cli.SetVersionInfo(version, commit, date)
	cli.Execute()
}
