package index

// Entry is one "<digest>  <name>" checksum line.
type Entry struct {
	Digest string
	Name   string
}

// Line is a non-empty line of a list file.
type Line struct {
	Num   int
	Text  string
	Entry Entry
	Valid bool
}

// ExclusionSet holds names to skip. Names are compared byte for byte, so
// "./a.txt" and "a.txt" are different entries.
type ExclusionSet map[string]struct{}

func (s ExclusionSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}
