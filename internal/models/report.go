package models

// ReportRow is one output line: a discovered occurrence joined against
// the target list and against at most one dependent from the dependency
// index. Occurrences with multiple dependents fan out into one row per
// dependent.
type ReportRow struct {
	Package      string
	Version      string
	Location     string
	MatchPackage bool
	MatchVersion bool
	Dependency   string // edge kind, empty when no dependent declared this occurrence
	DependedBy   string // name@version of the dependent, empty when none
}

// Matched reports whether the row satisfies both the name and version check.
func (r ReportRow) Matched() bool {
	return r.MatchPackage && r.MatchVersion
}

// Summary aggregates one scan run for the terminal and JSON reporters.
type Summary struct {
	DirsScanned     int
	ManifestsParsed int
	ParseFailures   int
	Occurrences     int
	Targets         int
	FullMatches     int
	NameOnlyMatches int
	// NpmVerified maps a target name to the versions a local npm query
	// reports as installed. Empty when npm verification is disabled.
	NpmVerified map[string][]string
}
