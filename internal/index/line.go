package index

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var linePattern = regexp.MustCompile(`(?i)^([0-9a-f]{40})  (.+)$`)

// ErrInconsistentLine is returned when a formatted line does not parse back
// to the digest and name it was built from.
var ErrInconsistentLine = errors.New("checksum line does not round-trip")

// Parse splits a checksum line. The second result is false for anything
// that is not "<40 hex digits><two spaces><name>".
func Parse(line string) (Entry, bool) {
	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return Entry{}, false
	}
	return Entry{Digest: m[1], Name: m[2]}, true
}

// Format renders a checksum line and checks that it parses back.
func Format(digest, name string) (string, error) {
	line := digest + "  " + name
	e, ok := Parse(line)
	if !ok || e.Name != name || !strings.EqualFold(e.Digest, digest) {
		return "", fmt.Errorf("%w: %q", ErrInconsistentLine, line)
	}
	return line, nil
}
