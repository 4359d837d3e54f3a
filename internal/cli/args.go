package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMissingExcludeFile means "e" was given without a following argument.
var ErrMissingExcludeFile = errors.New("Missing the gcidsum file (for -e options)")

// Args is the parsed command line.
//
// Only the first argument can carry flags. A first argument starting with
// "-c" selects check mode and may add s, w and e anywhere after it, as in
// "-csw". A first argument of exactly "-e" applies an exclusion list to
// generation. Everything else is a FILE pattern.
type Args struct {
	Help bool

	Check  bool
	Silent bool
	Warn   bool

	ExcludeFile string
	Files       []string
}

func ParseArgs(args []string) (Args, error) {
	if len(args) == 0 || (len(args) == 1 && args[0] == "--help") {
		return Args{Help: true}, nil
	}

	var a Args
	rest := args
	exclude := false

	switch first := args[0]; {
	case strings.HasPrefix(first, "-c"):
		a.Check = true
		a.Silent = strings.Contains(first, "s")
		a.Warn = strings.Contains(first, "w")
		exclude = strings.Contains(first, "e")
		rest = args[1:]
	case first == "-e":
		exclude = true
		rest = args[1:]
	}

	if exclude {
		if len(rest) == 0 {
			return Args{}, ErrMissingExcludeFile
		}
		a.ExcludeFile = rest[0]
		rest = rest[1:]
	}

	a.Files = rest
	return a, nil
}

const usage = `Usage: gcidsum [-c[swe]] [-e EXCLUDE_FILE] [FILE]...

Print or check GCID checksums

        -c      Check sums against list in FILEs
        -s      Don't print OK/FAILED for each checked file
        -w      Warn about improperly formatted checksum lines
        -e      Skip the names listed in EXCLUDE_FILE (a gcidsum file)

Settings are read from $GCIDSUM_CONFIG or <config dir>/gcidsum/config.ini
and can be overridden with GCIDSUM_OPTS="level:2,progress:true".`

// Usage writes the help text.
func Usage(w io.Writer) {
	_, _ = fmt.Fprintln(w, usage)
}
