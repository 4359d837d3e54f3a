package verify

import "gcidsum/internal/index"

// Mismatch is a checked entry whose digest differed. Computed is empty
// when the file could not be digested.
type Mismatch struct {
	Name     string
	Expected string
	Computed string
}

// Tally counts checked entries across every list file of a run.
type Tally struct {
	Total  int
	Failed int
}

type Result struct {
	Tally      Tally
	Mismatches []Mismatch
}

type Options struct {
	Silent  bool // no "<name>: OK|FAILED" lines
	Warn    bool // report malformed lines
	Exclude index.ExclusionSet
}
