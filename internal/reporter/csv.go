package reporter

import (
	"bytes"
	"encoding/csv"
	"strconv"

	apperrors "github.com/schubergphilis/package-checker/internal/errors"
	"github.com/schubergphilis/package-checker/internal/models"
)

// CSVReporter writes the report in the tool's primary tabular format.
type CSVReporter struct{}

// Header is the fixed CSV header row.
var Header = []string{"package", "version", "location", "match_package", "match_version", "dependency", "depended_by"}

// Report renders one CSV record per row under the fixed header. Fields
// containing the delimiter or quotes are escaped per RFC 4180 by the
// csv writer.
func (r *CSVReporter) Report(rows []models.ReportRow, _ models.Summary) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Header); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeWrite, err, "failed to write CSV header")
	}

	for _, row := range rows {
		record := []string{
			row.Package,
			row.Version,
			row.Location,
			strconv.FormatBool(row.MatchPackage),
			strconv.FormatBool(row.MatchVersion),
			row.Dependency,
			row.DependedBy,
		}
		if err := w.Write(record); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeWrite, err, "failed to write CSV record")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeWrite, err, "failed to flush CSV output")
	}
	return buf.Bytes(), nil
}
