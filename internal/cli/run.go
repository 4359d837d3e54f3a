// Package cli wires the gcidsum command: argument parsing, configuration,
// logging, progress and the generate/verify engines.
package cli

import (
	"context"
	"errors"
	"io"

	"github.com/go-kit/log/level"

	"gcidsum/internal/config"
	"gcidsum/internal/enumerate"
	"gcidsum/internal/gcid"
	"gcidsum/internal/generate"
	"gcidsum/internal/index"
	"gcidsum/internal/logging"
	"gcidsum/internal/metrics"
	"gcidsum/internal/progress"
	"gcidsum/internal/report"
	"gcidsum/internal/verify"
)

// Env is everything a run needs from the outside world.
type Env struct {
	Stdout io.Writer
	Stderr io.Writer
	Config *config.Config
	Rooter enumerate.Rooter
}

// Run executes one gcidsum invocation and returns the process exit code.
func Run(ctx context.Context, args []string, env Env) int {
	rep := report.New(env.Stdout, env.Stderr)

	a, err := ParseArgs(args)
	if err != nil {
		rep.Error(err)
		return 1
	}
	if a.Help {
		Usage(env.Stdout)
		return 0
	}

	cfg := env.Config
	if cfg == nil {
		cfg = config.Default()
	}
	rooter := env.Rooter
	if rooter == nil {
		rooter = enumerate.HostRooter()
	}
	all := cfg.GetAllConfig()

	logger := logging.New(env.Stderr, all.Verbose.Level)
	level.Debug(logger).Log("msg", "starting", "check", a.Check, "silent", a.Silent, "warn", a.Warn, "exclude", a.ExcludeFile, "files", len(a.Files), "config", cfg.Path())

	stats := &metrics.Stats{}
	stats.Start()
	defer func() {
		stats.Stop()
		metrics.Log(logger, stats)
	}()

	var exclude index.ExclusionSet
	if a.ExcludeFile != "" {
		exclude, err = index.LoadExclusions(a.ExcludeFile)
		if err != nil {
			rep.Error(&gcid.AccessError{Path: a.ExcludeFile, Err: err})
			return 1
		}
		level.Info(logger).Log("msg", "loaded exclusions", "path", a.ExcludeFile, "names", len(exclude))
	}

	tracker := &progress.Tracker{
		W:       env.Stderr,
		Enabled: all.Progress.Enabled && progress.IsTerminal(env.Stderr),
		MinSize: all.Progress.MinSize,
		Stats:   stats,
	}
	digester := &gcid.Digester{BufferSize: all.Digest.Buffer, Observer: tracker}
	enumerator := enumerate.New(rooter, logger)

	if a.Check {
		v := &verify.Verifier{
			Enumerator: enumerator,
			Digester:   digester,
			Report:     rep,
			Stats:      stats,
			Logger:     logger,
		}
		_, err = v.Verify(ctx, a.Files, verify.Options{Silent: a.Silent, Warn: a.Warn, Exclude: exclude})
	} else {
		g := &generate.Generator{
			Enumerator: enumerator,
			Digester:   digester,
			Report:     rep,
			Stats:      stats,
			Logger:     logger,
		}
		err = g.Generate(ctx, a.Files, generate.Options{Exclude: exclude})
	}
	return exitCode(rep, err)
}

// exitCode maps a fatal run error to the exit status. Interrupts end the
// run silently.
func exitCode(rep *report.Reporter, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return 1
	default:
		rep.Error(err)
		return 1
	}
}
