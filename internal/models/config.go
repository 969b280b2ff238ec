package models

import (
	"runtime"
	"time"

	"github.com/charmbracelet/log"
)

// Config holds configuration for a scan run
type Config struct {
	// Inputs
	PackageFile string // target list path (required)
	StartPath   string // root directory to scan

	// Output settings
	OutputFormat string // "csv", "json", "terminal"
	OutputFile   string // report destination; "-" writes to stdout

	// Behavior settings
	NoNpm          bool     // skip npm installed-version verification
	Strict         bool     // abort on malformed target-list lines
	FollowSymlinks bool     // follow symlinked directories during the walk
	ListDirs       bool     // print manifest directories and exit
	Excludes       []string // directory names skipped during the walk
	Jobs           int      // parallel manifest parsers

	// Cache settings
	CacheTTL time.Duration
	NoCache  bool

	// NpmTimeout bounds a single npm query
	NpmTimeout time.Duration

	Logger *log.Logger
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		StartPath:    ".",
		OutputFormat: "csv",
		OutputFile:   "output.csv",
		Excludes:     []string{".git"},
		Jobs:         runtime.NumCPU(),
		CacheTTL:     time.Hour,
		NpmTimeout:   60 * time.Second,
		Logger:       log.Default(),
	}
}
