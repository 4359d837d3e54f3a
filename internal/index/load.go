package index

import (
	"fmt"
	"os"
	"strings"
)

// Load reads a list file and parses every non-empty line. Lines end at
// "\n", "\r\n" or a lone "\r".
func Load(path string) ([]Line, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, err
	}

	var lines []Line
	for i, text := range splitLines(string(data)) {
		if text == "" {
			continue
		}
		e, ok := Parse(text)
		lines = append(lines, Line{Num: i + 1, Text: text, Entry: e, Valid: ok})
	}
	return lines, nil
}

// LoadExclusions reads an exclusion list. It has the same format as a list
// file; lines that do not parse are ignored.
func LoadExclusions(path string) (ExclusionSet, error) {
	lines, err := Load(path)
	if err != nil {
		return nil, fmt.Errorf("exclusions: %w", err)
	}

	set := make(ExclusionSet, len(lines))
	for _, l := range lines {
		if l.Valid {
			set[l.Entry.Name] = struct{}{}
		}
	}
	return set, nil
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
