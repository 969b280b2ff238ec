// Package targets loads the user-supplied package/version list that
// discovered occurrences are checked against.
package targets

import (
	"bufio"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	apperrors "github.com/schubergphilis/package-checker/internal/errors"
)

// List maps a package name to its expected version.
type List map[string]string

// Load reads a target list from path. Each non-empty, non-comment line
// names one package/version pair, either "name,version" or the legacy
// "name@version" form. The legacy form splits on the LAST '@' so scoped
// names like "@scope/pkg@1.2.3" parse correctly.
//
// Malformed lines are logged and skipped; with strict set, the first
// malformed line aborts the load. Duplicate names keep the last entry,
// with a warning.
func Load(path string, strict bool, logger *log.Logger) (List, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "package file %s does not exist", path)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodePermission, err, "cannot open package file %s", path)
	}
	defer f.Close()

	list := make(List)
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, version, ok := splitEntry(line)
		if !ok {
			if strict {
				return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "%s:%d: malformed target entry %q", path, lineNum, line)
			}
			logger.Warn("skipping malformed target entry", "file", path, "line", lineNum, "entry", line)
			continue
		}

		if prev, dup := list[name]; dup && prev != version {
			logger.Warn("duplicate target entry, later version wins", "package", name, "previous", prev, "version", version)
		}
		list[name] = version
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "failed to read package file %s", path)
	}

	return list, nil
}

// splitEntry parses one target line into a name/version pair.
func splitEntry(line string) (name, version string, ok bool) {
	if idx := strings.Index(line, ","); idx >= 0 {
		name = strings.TrimSpace(line[:idx])
		version = strings.TrimSpace(line[idx+1:])
		return name, version, name != "" && version != "" && !strings.Contains(version, ",")
	}

	// Legacy name@version form. A leading '@' belongs to the scope, so
	// only a separator past position 0 counts.
	if idx := strings.LastIndex(line, "@"); idx > 0 {
		name = strings.TrimSpace(line[:idx])
		version = strings.TrimSpace(line[idx+1:])
		return name, version, name != "" && version != ""
	}

	return "", "", false
}
