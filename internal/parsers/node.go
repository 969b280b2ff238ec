package parsers

import (
	"encoding/json"
	"path/filepath"
	"sort"
	"strings"

	apperrors "github.com/schubergphilis/package-checker/internal/errors"
	"github.com/schubergphilis/package-checker/internal/models"
)

// NodePackageJSONParser parses package.json files
type NodePackageJSONParser struct{}

// CanParse returns true for package.json files
func (p *NodePackageJSONParser) CanParse(filename string) bool {
	return filename == "package.json"
}

// packageJSON represents the structure of package.json
type packageJSON struct {
	Name                 string            `json:"name"`
	Version              string            `json:"version"`
	Dependencies         map[string]string `json:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies"`
	PeerDependencies     map[string]string `json:"peerDependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
}

// Parse extracts the package identity and its declared dependencies from
// package.json content. Declarations keep the version range string
// exactly as written.
func (p *NodePackageJSONParser) Parse(path string, content []byte) ([]*models.Manifest, error) {
	var pkg packageJSON
	if err := json.Unmarshal(content, &pkg); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeParse, err, "invalid package.json at %s", path)
	}

	m := &models.Manifest{
		Name:    pkg.Name,
		Version: pkg.Version,
		Path:    path,
		Dir:     filepath.Dir(path),
	}

	appendDeclarations(m, pkg.Dependencies, models.KindDependency)
	appendDeclarations(m, pkg.DevDependencies, models.KindDev)
	appendDeclarations(m, pkg.PeerDependencies, models.KindPeer)
	appendDeclarations(m, pkg.OptionalDependencies, models.KindOptional)

	return []*models.Manifest{m}, nil
}

// NodePackageLockParser parses package-lock.json files. Lock entries pin
// the exact installed version of every package, so each entry becomes an
// occurrence located at the lockfile's directory. Lock entries carry no
// range declarations; dependency edges come from the manifests that
// declare them.
type NodePackageLockParser struct{}

// CanParse returns true for package-lock.json files
func (p *NodePackageLockParser) CanParse(filename string) bool {
	return filename == "package-lock.json"
}

// packageLock represents the structure of package-lock.json (v1/v2/v3)
type packageLock struct {
	// V2/V3 format
	Packages map[string]struct {
		Version string `json:"version"`
	} `json:"packages"`
	// V1 format
	Dependencies map[string]struct {
		Version string `json:"version"`
	} `json:"dependencies"`
}

// Parse extracts the packages pinned by package-lock.json content
func (p *NodePackageLockParser) Parse(path string, content []byte) ([]*models.Manifest, error) {
	var lock packageLock
	if err := json.Unmarshal(content, &lock); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeParse, err, "invalid package-lock.json at %s", path)
	}

	dir := filepath.Dir(path)
	var manifests []*models.Manifest
	seen := make(map[string]bool)

	// V2/V3 format (packages map)
	for entryPath, pkg := range lock.Packages {
		if entryPath == "" {
			continue // the root package has its own package.json
		}
		name := lockEntryName(entryPath)
		if name == "" || pkg.Version == "" || seen[name+"@"+pkg.Version] {
			continue
		}
		seen[name+"@"+pkg.Version] = true
		manifests = append(manifests, &models.Manifest{
			Name:    name,
			Version: pkg.Version,
			Path:    path,
			Dir:     dir,
		})
	}

	// V1 format fallback (if no packages found)
	if len(manifests) == 0 {
		for name, pkg := range lock.Dependencies {
			if name == "" || pkg.Version == "" || seen[name+"@"+pkg.Version] {
				continue
			}
			seen[name+"@"+pkg.Version] = true
			manifests = append(manifests, &models.Manifest{
				Name:    name,
				Version: pkg.Version,
				Path:    path,
				Dir:     dir,
			})
		}
	}

	// Lock maps iterate in random order; sort for reproducible output.
	sort.Slice(manifests, func(i, j int) bool {
		if manifests[i].Name != manifests[j].Name {
			return manifests[i].Name < manifests[j].Name
		}
		return manifests[i].Version < manifests[j].Version
	})

	return manifests, nil
}

// lockEntryName extracts the package name from a lock entry path like
// "node_modules/lodash" or "node_modules/foo/node_modules/@types/node".
func lockEntryName(entryPath string) string {
	name := entryPath
	if idx := strings.LastIndex(name, "node_modules/"); idx >= 0 {
		name = name[idx+len("node_modules/"):]
	}
	return name
}

// appendDeclarations copies one dependency section in sorted name order,
// keeping per-manifest declaration order deterministic.
func appendDeclarations(m *models.Manifest, section map[string]string, kind models.DependencyKind) {
	if len(section) == 0 {
		return
	}
	names := make([]string, 0, len(section))
	for name := range section {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		m.Declarations = append(m.Declarations, models.Declaration{
			Name:  name,
			Range: section[name],
			Kind:  kind,
		})
	}
}
