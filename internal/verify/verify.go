// Package verify checks files against the digests recorded in list files.
package verify

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"gcidsum/internal/enumerate"
	"gcidsum/internal/gcid"
	"gcidsum/internal/index"
	"gcidsum/internal/metrics"
	"gcidsum/internal/report"
)

type Verifier struct {
	Enumerator *enumerate.Enumerator
	Digester   gcid.Provider
	Report     *report.Reporter
	Stats      *metrics.Stats
	Logger     log.Logger
}

// Verify resolves every list pattern and checks each entry of each list
// file in order. Failed entries are advisory: they end up in the Result
// and in the closing warning, not in the returned error. The error is set
// only for fatal conditions (an unresolvable pattern or cancellation).
func (v *Verifier) Verify(ctx context.Context, listPatterns []string, opts Options) (*Result, error) {
	if v.Stats == nil {
		v.Stats = &metrics.Stats{}
	}
	if v.Logger == nil {
		v.Logger = log.NewNopLogger()
	}

	res := &Result{}
	for _, pattern := range listPatterns {
		paths, err := v.Enumerator.Enumerate(pattern)
		if err != nil {
			return res, err
		}
		for listPath, err := range paths.All() {
			if err != nil {
				return res, err
			}
			if err := v.verifyList(ctx, listPath, opts, res); err != nil {
				return res, err
			}
		}
	}

	if res.Tally.Failed > 0 {
		v.Report.Errorf("WARNING: %d of %d computed checksums did NOT match", res.Tally.Failed, res.Tally.Total)
	}
	return res, nil
}

func (v *Verifier) verifyList(ctx context.Context, listPath string, opts Options, res *Result) error {
	lines, err := index.Load(listPath)
	if err != nil {
		atomic.AddInt64(&v.Stats.AccessErrors, 1)
		v.Report.Error(&gcid.AccessError{Path: listPath, Err: err})
		return nil
	}
	level.Debug(v.Logger).Log("msg", "checking list", "path", listPath, "lines", len(lines))

	for _, line := range lines {
		if !line.Valid {
			atomic.AddInt64(&v.Stats.Malformed, 1)
			if opts.Warn {
				v.Report.Errorf("invalid format: %s", line.Text)
			}
			continue
		}

		name := line.Entry.Name
		if opts.Exclude.Contains(name) {
			atomic.AddInt64(&v.Stats.Excluded, 1)
			continue
		}

		computed, err := v.Digester.Digest(ctx, name)
		if err != nil {
			var ae *gcid.AccessError
			if !errors.As(err, &ae) {
				return err
			}
			atomic.AddInt64(&v.Stats.AccessErrors, 1)
			v.Report.Error(ae)
		}

		res.Tally.Total++
		atomic.AddInt64(&v.Stats.Total, 1)

		ok := err == nil && strings.EqualFold(computed, line.Entry.Digest)
		if ok {
			atomic.AddInt64(&v.Stats.OK, 1)
		} else {
			res.Tally.Failed++
			atomic.AddInt64(&v.Stats.Failed, 1)
			res.Mismatches = append(res.Mismatches, Mismatch{
				Name:     name,
				Expected: line.Entry.Digest,
				Computed: computed,
			})
			level.Debug(v.Logger).Log("msg", "mismatch", "list", listPath, "line", line.Num, "name", name, "expected", line.Entry.Digest, "computed", computed)
		}

		if !opts.Silent {
			status := "OK"
			if !ok {
				status = "FAILED"
			}
			v.Report.Println(name + ": " + status)
		}
	}
	return nil
}
