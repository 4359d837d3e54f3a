package progress

import (
	"io"
	"os"
	"sync/atomic"

	"golang.org/x/term"

	"gcidsum/internal/metrics"
)

// Tracker counts hashed bytes into Stats and, when Enabled, draws a bar
// for every file of at least MinSize bytes.
type Tracker struct {
	W       io.Writer
	Enabled bool
	MinSize int64
	Stats   *metrics.Stats
}

// Begin implements gcid.Observer.
func (t *Tracker) Begin(path string, size int64) (func(n int64), func()) {
	if t.Stats != nil {
		atomic.AddInt64(&t.Stats.Files, 1)
	}

	var bar *Bar
	if t.Enabled && t.W != nil && size >= t.MinSize && size > 0 {
		bar = New(t.W, size, path)
	}

	advance := func(n int64) {
		if t.Stats != nil {
			atomic.AddInt64(&t.Stats.BytesHashed, n)
		}
		if bar != nil {
			bar.AddBytes(n)
		}
	}
	end := func() {
		if bar != nil {
			bar.Close()
		}
	}
	return advance, end
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
