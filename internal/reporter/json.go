package reporter

import (
	"encoding/json"

	"github.com/schubergphilis/package-checker/internal/models"
)

// JSONReporter outputs the scan result in JSON format
type JSONReporter struct{}

// jsonOutput represents the JSON output structure
type jsonOutput struct {
	Summary jsonSummary `json:"summary"`
	Rows    []jsonRow   `json:"rows"`
}

type jsonSummary struct {
	DirsScanned     int                 `json:"dirs_scanned"`
	ManifestsParsed int                 `json:"manifests_parsed"`
	ParseFailures   int                 `json:"parse_failures"`
	Occurrences     int                 `json:"occurrences"`
	Targets         int                 `json:"targets"`
	FullMatches     int                 `json:"full_matches"`
	NameOnlyMatches int                 `json:"name_only_matches"`
	NpmVerified     map[string][]string `json:"npm_verified,omitempty"`
}

type jsonRow struct {
	Package      string `json:"package"`
	Version      string `json:"version"`
	Location     string `json:"location"`
	MatchPackage bool   `json:"match_package"`
	MatchVersion bool   `json:"match_version"`
	Dependency   string `json:"dependency,omitempty"`
	DependedBy   string `json:"depended_by,omitempty"`
}

// Report generates JSON output for the scan result
func (r *JSONReporter) Report(rows []models.ReportRow, summary models.Summary) ([]byte, error) {
	output := jsonOutput{
		Summary: jsonSummary{
			DirsScanned:     summary.DirsScanned,
			ManifestsParsed: summary.ManifestsParsed,
			ParseFailures:   summary.ParseFailures,
			Occurrences:     summary.Occurrences,
			Targets:         summary.Targets,
			FullMatches:     summary.FullMatches,
			NameOnlyMatches: summary.NameOnlyMatches,
			NpmVerified:     summary.NpmVerified,
		},
		Rows: make([]jsonRow, 0, len(rows)),
	}

	for _, row := range rows {
		output.Rows = append(output.Rows, jsonRow{
			Package:      row.Package,
			Version:      row.Version,
			Location:     row.Location,
			MatchPackage: row.MatchPackage,
			MatchVersion: row.MatchVersion,
			Dependency:   row.Dependency,
			DependedBy:   row.DependedBy,
		})
	}

	return json.MarshalIndent(output, "", "  ")
}
