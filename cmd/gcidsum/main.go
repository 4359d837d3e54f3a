package main

import (
	"os"
	"strings"

	"gcidsum/internal/cli"
	"gcidsum/internal/config"
	"gcidsum/internal/enumerate"
	"gcidsum/internal/report"
)

func main() {
	os.Exit(run())
}

func run() int {
	rep := report.New(os.Stdout, os.Stderr)

	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		rep.Error(err)
		return 1
	}
	if opts := os.Getenv(config.EnvOpts); opts != "" {
		if err := cfg.ApplyOverrides(strings.Split(opts, ",")); err != nil {
			rep.Errorf("%s: %v", config.EnvOpts, err)
			return 1
		}
	}

	ctx, stop := signalContext()
	defer stop()

	return cli.Run(ctx, os.Args[1:], cli.Env{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Config: cfg,
		Rooter: enumerate.HostRooter(),
	})
}
