package parsers

import "github.com/schubergphilis/package-checker/internal/models"

// Parser is the interface for manifest file readers. Implementations are
// selected by filename convention, one per manifest format.
type Parser interface {
	// CanParse returns true if this parser can handle the given filename
	CanParse(filename string) bool

	// Parse extracts manifest records from the file content. Most
	// formats yield a single record; a lockfile yields one per
	// installed package it pins.
	Parse(filepath string, content []byte) ([]*models.Manifest, error)
}

// GetAllParsers returns all available parsers
func GetAllParsers() []Parser {
	return []Parser{
		&NodePackageJSONParser{},
		&NodePackageLockParser{},
		&PyProjectParser{},
		&GoModParser{},
	}
}

// Match returns the first parser that handles filename, or nil.
func Match(parsers []Parser, filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}
