// Package report writes gcidsum's user-visible output: result lines on
// stdout and "gcidsum: ..." diagnostics on stderr.
package report

import (
	"fmt"
	"io"
)

const Prog = "gcidsum"

type Reporter struct {
	Out io.Writer
	Err io.Writer
}

func New(out, err io.Writer) *Reporter {
	return &Reporter{Out: out, Err: err}
}

// Println writes one result line to stdout.
func (r *Reporter) Println(line string) {
	_, _ = fmt.Fprintln(r.Out, line)
}

// Errorf writes one diagnostic line to stderr.
func (r *Reporter) Errorf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.Err, Prog+": "+format+"\n", args...)
}

func (r *Reporter) Error(err error) {
	r.Errorf("%s", err)
}
