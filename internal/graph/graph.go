// Package graph builds the reverse dependency index for a scan: for each
// declared (dependency name, version) pair, the set of discovered
// packages that declared it.
package graph

import (
	"sort"
	"strings"

	"github.com/schubergphilis/package-checker/internal/models"
)

// Dependent identifies a package that declared some dependency, together
// with the declaration it made.
type Dependent struct {
	Name    string
	Version string
	Range   string // declared range string, as written
	Kind    models.DependencyKind
}

// String returns the dependent's identity as name@version, or just the
// name when the declaring manifest carries no version of its own.
func (d Dependent) String() string {
	if d.Version == "" {
		return d.Name
	}
	return d.Name + "@" + d.Version
}

type key struct {
	name    string
	version string
}

// Index is the reverse lookup from a dependency identity to the packages
// that declared it.
type Index struct {
	dependents map[key][]Dependent
	edges      int
}

// Build indexes every declaration of every manifest. Declared range
// strings are normalized by trimming range operator prefixes, so a
// declaration of "^1.2.0" is looked up as version "1.2.0". Matching is
// exact string equality after that; no semver range evaluation happens,
// which limits depended_by accuracy for compound ranges.
func Build(manifests []*models.Manifest) *Index {
	ix := &Index{dependents: make(map[key][]Dependent)}

	for _, m := range manifests {
		if m.Name == "" {
			// Anonymous manifests cannot be named as a dependent.
			continue
		}
		for _, decl := range m.Declarations {
			k := key{name: decl.Name, version: NormalizeRange(decl.Range)}
			ix.dependents[k] = append(ix.dependents[k], Dependent{
				Name:    m.Name,
				Version: m.Version,
				Range:   decl.Range,
				Kind:    decl.Kind,
			})
			ix.edges++
		}
	}

	for k := range ix.dependents {
		deps := ix.dependents[k]
		sort.Slice(deps, func(i, j int) bool {
			if deps[i].Name != deps[j].Name {
				return deps[i].Name < deps[j].Name
			}
			if deps[i].Version != deps[j].Version {
				return deps[i].Version < deps[j].Version
			}
			return deps[i].Kind < deps[j].Kind
		})
	}

	return ix
}

// Lookup returns the dependents that declared the given dependency
// identity, in deterministic order. The returned slice is shared with the
// index and must not be mutated.
func (ix *Index) Lookup(name, version string) []Dependent {
	return ix.dependents[key{name: name, version: version}]
}

// Edges returns the total number of declarations indexed.
func (ix *Index) Edges() int {
	return ix.edges
}

// NormalizeRange strips common range operator prefixes from a declared
// version string so pinned-style ranges compare against discovered
// versions by exact string equality.
func NormalizeRange(rng string) string {
	rng = strings.TrimSpace(rng)
	for _, prefix := range []string{"^", "~", ">=", ">", "<=", "<", "==", "="} {
		if strings.HasPrefix(rng, prefix) {
			rng = strings.TrimSpace(strings.TrimPrefix(rng, prefix))
			break
		}
	}
	return rng
}
