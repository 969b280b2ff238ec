package parsers

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	apperrors "github.com/schubergphilis/package-checker/internal/errors"
	"github.com/schubergphilis/package-checker/internal/models"
)

// PyProjectParser parses pyproject.toml files
type PyProjectParser struct{}

// CanParse returns true for pyproject.toml files
func (p *PyProjectParser) CanParse(filename string) bool {
	return filename == "pyproject.toml"
}

// versionPattern matches package version specifiers like ==1.2.3, >=1.2.3, ~=1.2.3
var versionPattern = regexp.MustCompile(`^([a-zA-Z0-9._-]+)\s*([<>=!~]+)\s*(.+)$`)

// simplePattern matches just package names without versions
var simplePattern = regexp.MustCompile(`^([a-zA-Z0-9._-]+)$`)

// pyproject represents the structure of pyproject.toml
type pyproject struct {
	Project struct {
		Name                 string              `toml:"name"`
		Version              string              `toml:"version"`
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Name            string         `toml:"name"`
			Version         string         `toml:"version"`
			Dependencies    map[string]any `toml:"dependencies"`
			DevDependencies map[string]any `toml:"dev-dependencies"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// Parse extracts the project identity and its declared dependencies from
// pyproject.toml content, covering both PEP 621 and Poetry layouts.
func (p *PyProjectParser) Parse(path string, content []byte) ([]*models.Manifest, error) {
	var proj pyproject
	if err := toml.Unmarshal(content, &proj); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeParse, err, "invalid pyproject.toml at %s", path)
	}

	name := proj.Project.Name
	version := proj.Project.Version
	if name == "" {
		name = proj.Tool.Poetry.Name
	}
	if version == "" {
		version = proj.Tool.Poetry.Version
	}

	m := &models.Manifest{
		Name:    strings.ToLower(name), // PyPI is case-insensitive
		Version: version,
		Path:    path,
		Dir:     filepath.Dir(path),
	}

	// PEP 621 dependencies (project.dependencies)
	for _, spec := range proj.Project.Dependencies {
		if depName, rng := parsePEP508(spec); depName != "" {
			m.Declarations = append(m.Declarations, models.Declaration{
				Name:  strings.ToLower(depName),
				Range: rng,
				Kind:  models.KindDependency,
			})
		}
	}
	extraNames := make([]string, 0, len(proj.Project.OptionalDependencies))
	for extra := range proj.Project.OptionalDependencies {
		extraNames = append(extraNames, extra)
	}
	sort.Strings(extraNames)
	for _, extra := range extraNames {
		for _, spec := range proj.Project.OptionalDependencies[extra] {
			if depName, rng := parsePEP508(spec); depName != "" {
				m.Declarations = append(m.Declarations, models.Declaration{
					Name:  strings.ToLower(depName),
					Range: rng,
					Kind:  models.KindOptional,
				})
			}
		}
	}

	// Poetry dependencies
	appendPoetryDeclarations(m, proj.Tool.Poetry.Dependencies, models.KindDependency)
	appendPoetryDeclarations(m, proj.Tool.Poetry.DevDependencies, models.KindDev)

	return []*models.Manifest{m}, nil
}

func appendPoetryDeclarations(m *models.Manifest, section map[string]any, kind models.DependencyKind) {
	names := make([]string, 0, len(section))
	for name := range section {
		if name == "python" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		m.Declarations = append(m.Declarations, models.Declaration{
			Name:  strings.ToLower(name),
			Range: poetryRange(section[name]),
			Kind:  kind,
		})
	}
}

// parsePEP508 parses a PEP 508 dependency specification
func parsePEP508(spec string) (name string, rng string) {
	// Simple parsing for common patterns
	// e.g., "requests>=2.28.0", "flask[async]>=2.0", "django==4.2"

	// Remove extras
	if idx := strings.Index(spec, "["); idx > 0 {
		bracketEnd := strings.Index(spec, "]")
		if bracketEnd > idx {
			spec = spec[:idx] + spec[bracketEnd+1:]
		}
	}

	// Remove environment markers
	if idx := strings.Index(spec, ";"); idx > 0 {
		spec = spec[:idx]
	}

	spec = strings.TrimSpace(spec)

	if matches := versionPattern.FindStringSubmatch(spec); matches != nil {
		return matches[1], strings.TrimSpace(matches[2] + matches[3])
	}

	if matches := simplePattern.FindStringSubmatch(spec); matches != nil {
		return matches[1], ""
	}

	return "", ""
}

// poetryRange extracts the declared range from a Poetry dependency value,
// which is either a bare string or a table with a "version" key.
func poetryRange(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case map[string]any:
		if ver, ok := v["version"].(string); ok {
			return ver
		}
	}
	return ""
}
