package logging

import (
	"io"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// New returns a logfmt logger on w. Verbosity 0 discards everything so the
// tool's own stderr output stays exact; 1 allows info, 2 and above debug.
func New(w io.Writer, verbosity int) log.Logger {
	if verbosity <= 0 {
		return log.NewNopLogger()
	}

	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)

	allow := level.AllowInfo()
	if verbosity >= 2 {
		allow = level.AllowDebug()
	}
	return level.NewFilter(logger, allow)
}
