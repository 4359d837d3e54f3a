// Package generate prints GCID checksum lines for the files matching a list
// of patterns.
package generate

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"gcidsum/internal/enumerate"
	"gcidsum/internal/gcid"
	"gcidsum/internal/index"
	"gcidsum/internal/metrics"
	"gcidsum/internal/report"
)

type Options struct {
	Exclude index.ExclusionSet
}

type Generator struct {
	Enumerator *enumerate.Enumerator
	Digester   gcid.Provider
	Report     *report.Reporter
	Stats      *metrics.Stats
	Logger     log.Logger
}

// Generate walks patterns in order and prints "<gcid>  <path>" for every
// match that is not excluded. Files that cannot be read are reported and
// skipped. The returned error is an *enumerate.EnumerationError,
// index.ErrInconsistentLine or the context's error.
func (g *Generator) Generate(ctx context.Context, patterns []string, opts Options) error {
	if g.Stats == nil {
		g.Stats = &metrics.Stats{}
	}
	if g.Logger == nil {
		g.Logger = log.NewNopLogger()
	}

	for _, pattern := range patterns {
		paths, err := g.Enumerator.Enumerate(pattern)
		if err != nil {
			return err
		}
		for path, err := range paths.All() {
			if err != nil {
				return err
			}
			if err := g.emit(ctx, path, opts); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *Generator) emit(ctx context.Context, path string, opts Options) error {
	if opts.Exclude.Contains(path) {
		atomic.AddInt64(&g.Stats.Excluded, 1)
		level.Debug(g.Logger).Log("msg", "excluded", "path", path)
		return nil
	}

	digest, err := g.Digester.Digest(ctx, path)
	if err != nil {
		var ae *gcid.AccessError
		if errors.As(err, &ae) {
			atomic.AddInt64(&g.Stats.AccessErrors, 1)
			g.Report.Error(ae)
			return nil
		}
		return err
	}

	out, err := index.Format(digest, path)
	if err != nil {
		return err
	}
	atomic.AddInt64(&g.Stats.Total, 1)
	g.Report.Println(out)
	return nil
}
