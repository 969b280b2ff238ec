package reporter

import "github.com/schubergphilis/package-checker/internal/models"

// Reporter is the interface for output formatters
type Reporter interface {
	// Report renders the scan rows and summary into output bytes
	Report(rows []models.ReportRow, summary models.Summary) ([]byte, error)
}

// Get returns a reporter for the specified format
func Get(format string) Reporter {
	switch format {
	case "json":
		return &JSONReporter{}
	case "terminal":
		return &TerminalReporter{}
	default:
		return &CSVReporter{}
	}
}
