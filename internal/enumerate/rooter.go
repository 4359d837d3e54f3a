package enumerate

import (
	"runtime"
	"strings"
)

// Rooter decides how a pattern is anchored on the host filesystem.
// Platform-specific implementations control separators and case sensitivity.
type Rooter interface {
	// Split reports whether pattern is absolute. For absolute patterns it
	// returns the directory the glob is rooted at and the rest of the
	// pattern relative to that directory.
	Split(pattern string) (root, rest string, abs bool)
	// IsSeparator reports whether c separates segments of a pattern.
	IsSeparator(c byte) bool
	// Separator is used to render results when the pattern shows none.
	Separator() byte
	// CaseInsensitive reports whether names match regardless of case.
	CaseInsensitive() bool
}

// HostRooter returns the Rooter for the running operating system.
func HostRooter() Rooter {
	if runtime.GOOS == "windows" {
		return DriveRooter{}
	}
	return PosixRooter{}
}

// PosixRooter roots absolute patterns at "/" and matches case-sensitively.
type PosixRooter struct{}

func (PosixRooter) Split(pattern string) (string, string, bool) {
	if !strings.HasPrefix(pattern, "/") {
		return "", pattern, false
	}
	return "/", strings.TrimLeft(pattern, "/"), true
}

func (PosixRooter) IsSeparator(c byte) bool { return c == '/' }
func (PosixRooter) Separator() byte         { return '/' }
func (PosixRooter) CaseInsensitive() bool   { return false }

// DriveRooter handles drive letters and UNC volumes. Both '\' and '/'
// separate segments and names match case-insensitively.
type DriveRooter struct{}

func (r DriveRooter) Split(pattern string) (string, string, bool) {
	vol := r.volumeName(pattern)
	rest := pattern[len(vol):]

	switch {
	case len(vol) == 2 && (rest == "" || !r.IsSeparator(rest[0])):
		// "C:foo" is relative to the current directory of drive C; the
		// volume alone is handed to the OS which resolves that.
		return vol, rest, true
	case vol != "":
		return vol + `\`, r.trimSeparators(rest), true
	case rest != "" && r.IsSeparator(rest[0]):
		// rooted on the current drive
		return `\`, r.trimSeparators(rest), true
	}
	return "", pattern, false
}

func (DriveRooter) IsSeparator(c byte) bool { return c == '\\' || c == '/' }
func (DriveRooter) Separator() byte         { return '\\' }
func (DriveRooter) CaseInsensitive() bool   { return true }

func (r DriveRooter) trimSeparators(s string) string {
	return strings.TrimLeft(s, `\/`)
}

// volumeName returns the leading "X:" or "\\server\share" of p, if any.
func (r DriveRooter) volumeName(p string) string {
	if len(p) >= 2 && p[1] == ':' && isLetter(p[0]) {
		return p[:2]
	}

	if len(p) < 5 || !r.IsSeparator(p[0]) || !r.IsSeparator(p[1]) || r.IsSeparator(p[2]) {
		return ""
	}
	// \\server\share
	n := 3
	for n < len(p) && !r.IsSeparator(p[n]) {
		n++
	}
	if n >= len(p)-1 {
		return ""
	}
	n++
	if r.IsSeparator(p[n]) {
		return ""
	}
	for n < len(p) && !r.IsSeparator(p[n]) {
		n++
	}
	return p[:n]
}

func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}
