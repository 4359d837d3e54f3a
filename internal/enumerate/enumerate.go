// Package enumerate expands the file patterns given to gcidsum into paths.
//
// Patterns support '*', '?' and bracket classes per path segment. Recursive
// '**' patterns are refused. Results keep the caller's spelling: relative
// patterns give relative paths written with the pattern's own separator,
// absolute patterns give absolute paths.
package enumerate

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

const invalidArgument = "Invalid argument"

// ErrConsumed is yielded when a Paths value is ranged over twice.
var ErrConsumed = errors.New("path sequence already consumed")

var errStopWalk = errors.New("stop walk")

// EnumerationError means a pattern could not be resolved at all.
type EnumerationError struct {
	Pattern string
	Reason  string
}

func (e *EnumerationError) Error() string {
	return fmt.Sprintf("can't open '%s': %s", e.Pattern, e.Reason)
}

func invalid(pattern string) *EnumerationError {
	return &EnumerationError{Pattern: pattern, Reason: invalidArgument}
}

// Enumerator resolves patterns against the host filesystem.
type Enumerator struct {
	rooter Rooter
	logger log.Logger

	dirFS func(dir string) fs.FS
	lstat func(name string) (fs.FileInfo, error)
}

func New(rooter Rooter, logger log.Logger) *Enumerator {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Enumerator{
		rooter: rooter,
		logger: logger,
		dirFS:  os.DirFS,
		lstat:  os.Lstat,
	}
}

// Enumerate returns the matches of pattern. Patterns that can never match
// fail up front with *EnumerationError; a pattern without matches yields an
// empty sequence.
func (e *Enumerator) Enumerate(pattern string) (*Paths, error) {
	if strings.Contains(pattern, "**") {
		return nil, invalid(pattern)
	}
	if strings.IndexByte(pattern, 0) >= 0 {
		return nil, &EnumerationError{Pattern: pattern, Reason: "embedded null byte"}
	}

	root, rest, abs := e.rooter.Split(pattern)
	segs := e.segments(rest)
	if len(segs) == 0 {
		return nil, invalid(pattern)
	}

	sep := e.rooter.Separator()
	if !abs {
		sep = e.separatorOf(pattern)
	}

	n := literalPrefix(segs)
	if n == len(segs) {
		n--
	}
	base, globSegs := segs[:n], segs[n:]
	glob := escapeSegments(globSegs)

	if !doublestar.ValidatePattern(glob) {
		if _, err := e.lstat(pattern); err != nil {
			level.Debug(e.logger).Log("msg", "malformed pattern is not a file either", "pattern", pattern, "err", err)
			return nil, invalid(pattern)
		}
		level.Debug(e.logger).Log("msg", "malformed pattern matched literally", "pattern", pattern)
		return single(pattern), nil
	}

	dir := root + strings.Join(base, "/")
	switch {
	case dir == "":
		dir = "."
	case dir == root && strings.HasSuffix(root, ":"):
		// "C:." keeps the per-drive current directory
		dir += "."
	}

	var opts []doublestar.GlobOption
	if e.rooter.CaseInsensitive() {
		opts = append(opts, doublestar.WithCaseInsensitive())
	}

	level.Debug(e.logger).Log("msg", "enumerating", "pattern", pattern, "dir", dir, "glob", glob)

	render := func(match string) string {
		parts := append(append([]string{}, base...), strings.Split(match, "/")...)
		return root + strings.Join(parts, string(sep))
	}

	fsys := e.dirFS(dir)
	walk := func(yield func(string) bool) error {
		err := doublestar.GlobWalk(fsys, glob, func(p string, _ fs.DirEntry) error {
			if !yield(render(p)) {
				return errStopWalk
			}
			return nil
		}, opts...)
		if err == nil || errors.Is(err, errStopWalk) {
			return nil
		}
		return &EnumerationError{Pattern: pattern, Reason: err.Error()}
	}
	return &Paths{walk: walk}, nil
}

// segments splits a pattern on separators, dropping empty and "." parts.
func (e *Enumerator) segments(pattern string) []string {
	var segs []string
	start := 0
	for i := 0; i <= len(pattern); i++ {
		if i < len(pattern) && !e.rooter.IsSeparator(pattern[i]) {
			continue
		}
		if s := pattern[start:i]; s != "" && s != "." {
			segs = append(segs, s)
		}
		start = i + 1
	}
	return segs
}

func (e *Enumerator) separatorOf(pattern string) byte {
	for i := 0; i < len(pattern); i++ {
		if e.rooter.IsSeparator(pattern[i]) {
			return pattern[i]
		}
	}
	return e.rooter.Separator()
}

func hasMeta(seg string) bool {
	return strings.ContainsAny(seg, "*?[")
}

func literalPrefix(segs []string) int {
	for i, s := range segs {
		if hasMeta(s) {
			return i
		}
	}
	return len(segs)
}

// escapeSegments joins segments into a doublestar pattern. Braces and
// backslashes carry no meaning in gcidsum patterns, so they are escaped.
func escapeSegments(segs []string) string {
	var b strings.Builder
	for i, s := range segs {
		if i > 0 {
			b.WriteByte('/')
		}
		for j := 0; j < len(s); j++ {
			switch s[j] {
			case '\\', '{', '}':
				b.WriteByte('\\')
			}
			b.WriteByte(s[j])
		}
	}
	return b.String()
}

// Paths is a lazily evaluated sequence of matches. It can be ranged over
// once; a second range yields ErrConsumed.
type Paths struct {
	walk     func(yield func(string) bool) error
	consumed bool
}

func single(path string) *Paths {
	return &Paths{walk: func(yield func(string) bool) error {
		yield(path)
		return nil
	}}
}

// All walks the filesystem as the sequence is pulled. A failure during the
// walk is yielded as the last element.
func (p *Paths) All() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if p.consumed {
			yield("", ErrConsumed)
			return
		}
		p.consumed = true

		stopped := false
		err := p.walk(func(path string) bool {
			if !yield(path, nil) {
				stopped = true
			}
			return !stopped
		})
		if err != nil && !stopped {
			yield("", err)
		}
	}
}
