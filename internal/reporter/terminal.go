package reporter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/schubergphilis/package-checker/internal/models"
)

// TerminalReporter outputs the scan result in a human-readable format
type TerminalReporter struct{}

// Report generates terminal output for the scan result
func (r *TerminalReporter) Report(rows []models.ReportRow, summary models.Summary) ([]byte, error) {
	var sb strings.Builder

	sb.WriteString("PACKAGE SCAN RESULT\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n\n")
	sb.WriteString(fmt.Sprintf("Scanned %d directories, parsed %d manifests", summary.DirsScanned, summary.ManifestsParsed))
	if summary.ParseFailures > 0 {
		sb.WriteString(fmt.Sprintf(" (%d unparsable, skipped)", summary.ParseFailures))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Targets: %d, full matches: %d, name-only matches: %d\n\n", summary.Targets, summary.FullMatches, summary.NameOnlyMatches))

	matched := 0
	for _, row := range rows {
		if !row.Matched() {
			continue
		}
		matched++
		sb.WriteString(fmt.Sprintf("%s@%s\n", row.Package, row.Version))
		sb.WriteString(fmt.Sprintf("   Location: %s\n", row.Location))
		if row.DependedBy != "" {
			sb.WriteString(fmt.Sprintf("   Pulled in by %s (%s)\n", row.DependedBy, row.Dependency))
		}
	}
	if matched == 0 {
		sb.WriteString("No target packages found at their expected versions.\n")
	}

	if len(summary.NpmVerified) > 0 {
		sb.WriteString("\nnpm installed-version check:\n")
		names := make([]string, 0, len(summary.NpmVerified))
		for name := range summary.NpmVerified {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			versions := summary.NpmVerified[name]
			if len(versions) == 0 {
				sb.WriteString(fmt.Sprintf("   %s: not installed\n", name))
				continue
			}
			sb.WriteString(fmt.Sprintf("   %s: %s\n", name, strings.Join(versions, ", ")))
		}
	}

	return []byte(sb.String()), nil
}
