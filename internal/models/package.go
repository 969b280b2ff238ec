package models

// DependencyKind classifies the section of a manifest a declaration came from.
type DependencyKind string

const (
	KindDependency DependencyKind = "dep"
	KindDev        DependencyKind = "dev"
	KindPeer       DependencyKind = "peer"
	KindOptional   DependencyKind = "optional"
)

// Declaration is one dependency requirement as written in a manifest:
// the required package name, the version range string exactly as declared,
// and the manifest section it came from.
type Declaration struct {
	Name  string
	Range string
	Kind  DependencyKind
}

// Manifest is the parsed content of a single manifest file. Name and
// Version identify the declaring package itself; both may be empty for
// formats that do not carry them (a go.mod has no version of its own),
// in which case the manifest contributes declarations but no occurrence.
type Manifest struct {
	Name         string
	Version      string
	Path         string // manifest file path
	Dir          string // directory containing the manifest
	Declarations []Declaration
}

// HasIdentity reports whether the manifest names a concrete package
// instance that can appear in the report.
func (m *Manifest) HasIdentity() bool {
	return m.Name != "" && m.Version != ""
}

// Occurrence is one concrete package instance discovered during a scan.
type Occurrence struct {
	Name     string
	Version  string
	Location string
}

// String returns a human-readable representation
func (o Occurrence) String() string {
	return o.Name + "@" + o.Version
}
