// Package scanner runs the scan pipeline: walk the tree, parse manifests,
// build the dependency index, and join occurrences against the target list.
package scanner

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/schubergphilis/package-checker/internal/cache"
	"github.com/schubergphilis/package-checker/internal/clients"
	apperrors "github.com/schubergphilis/package-checker/internal/errors"
	"github.com/schubergphilis/package-checker/internal/graph"
	"github.com/schubergphilis/package-checker/internal/models"
	"github.com/schubergphilis/package-checker/internal/parsers"
	"github.com/schubergphilis/package-checker/internal/targets"
)

// Scanner orchestrates one scan run
type Scanner struct {
	config  *models.Config
	parsers []parsers.Parser
	npm     *clients.NpmClient
}

// Result holds everything one scan produced.
type Result struct {
	Rows    []models.ReportRow
	Summary models.Summary
	// Dirs lists the directories containing discovered manifests, sorted.
	Dirs []string
}

// New creates a new Scanner with the given configuration
func New(config *models.Config) (*Scanner, error) {
	var c *cache.Cache
	if !config.NoCache {
		var err error
		c, err = cache.New(config.CacheTTL)
		if err != nil {
			// Non-fatal: continue without cache
			config.Logger.Debug("cache unavailable", "err", err)
			c = nil
		}
	}

	return &Scanner{
		config:  config,
		parsers: parsers.GetAllParsers(),
		npm:     clients.NewNpmClient(c, config.Logger),
	}, nil
}

// Scan performs the full scan pipeline
func (s *Scanner) Scan(ctx context.Context) (*Result, error) {
	// Step 1: Load the target list
	targetList, err := targets.Load(s.config.PackageFile, s.config.Strict, s.config.Logger)
	if err != nil {
		return nil, err
	}

	// Step 2: Walk the tree and parse manifests in parallel
	manifests, parseFailures, dirsScanned, err := s.discoverManifests(ctx)
	if err != nil {
		return nil, err
	}

	// Step 3: Build the reverse dependency index
	index := graph.Build(manifests)

	// Step 4: Join occurrences against targets and dependents
	rows := buildRows(manifests, targetList, index)

	result := &Result{
		Rows: rows,
		Dirs: manifestDirs(manifests),
		Summary: models.Summary{
			DirsScanned:     dirsScanned,
			ManifestsParsed: len(manifests),
			ParseFailures:   parseFailures,
			Targets:         len(targetList),
		},
	}
	for _, row := range rows {
		if row.Matched() {
			result.Summary.FullMatches++
		} else if row.MatchPackage {
			result.Summary.NameOnlyMatches++
		}
	}
	seen := make(map[models.Occurrence]bool)
	for _, row := range rows {
		seen[models.Occurrence{Name: row.Package, Version: row.Version, Location: row.Location}] = true
	}
	result.Summary.Occurrences = len(seen)

	// Step 5: Verify installed versions via npm, unless disabled
	if !s.config.NoNpm {
		result.Summary.NpmVerified = s.verifyWithNpm(ctx, targetList)
	}

	return result, nil
}

// discoverManifests streams manifest paths from the walker into a bounded
// pool of parser workers. Per-file failures are logged and counted; only
// an unusable start path aborts the scan.
func (s *Scanner) discoverManifests(ctx context.Context) ([]*models.Manifest, int, int, error) {
	w := newWalker(s.parsers, s.config.Excludes, s.config.FollowSymlinks, s.config.Logger)

	files := make(chan string)
	var mu sync.Mutex
	var manifests []*models.Manifest
	parseFailures := 0

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(files)
		return w.walk(gctx, s.config.StartPath, func(path string) {
			select {
			case files <- path:
			case <-gctx.Done():
			}
		})
	})

	jobs := s.config.Jobs
	if jobs < 1 {
		jobs = 1
	}
	for i := 0; i < jobs; i++ {
		g.Go(func() error {
			for path := range files {
				ms, err := s.parseFile(path)
				if err != nil {
					if !apperrors.Recoverable(err) {
						return err
					}
					mu.Lock()
					parseFailures++
					mu.Unlock()
					continue
				}
				mu.Lock()
				manifests = append(manifests, ms...)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, 0, 0, err
	}

	// The parallel phase collects in arrival order; sort for
	// reproducible output. A lockfile yields several manifests sharing
	// one path, already ordered by name within it.
	sort.SliceStable(manifests, func(i, j int) bool {
		return manifests[i].Path < manifests[j].Path
	})

	return manifests, parseFailures, w.dirsScanned, nil
}

// parseFile reads and parses one manifest file. Read and parse failures
// are recoverable: the caller counts them and the walk continues.
func (s *Scanner) parseFile(path string) ([]*models.Manifest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		s.config.Logger.Warn("skipping unreadable manifest", "path", path, "err", err)
		return nil, apperrors.Wrap(apperrors.ErrCodePermission, err, "cannot read %s", path)
	}

	parser := parsers.Match(s.parsers, filepath.Base(path))
	if parser == nil {
		return nil, apperrors.New(apperrors.ErrCodeInternal, "no parser for %s", path)
	}

	ms, err := parser.Parse(path, content)
	if err != nil {
		s.config.Logger.Warn("skipping unparsable manifest", "path", path, "err", err)
		return nil, err
	}
	return ms, nil
}

// buildRows joins every discovered occurrence against the target list and
// the dependency index. Occurrences with multiple dependents fan out into
// one row per dependent.
func buildRows(manifests []*models.Manifest, targetList targets.List, index *graph.Index) []models.ReportRow {
	var rows []models.ReportRow

	for _, m := range manifests {
		if !m.HasIdentity() {
			continue
		}

		expected, matchPackage := targetList[m.Name]
		matchVersion := matchPackage && m.Version == expected

		base := models.ReportRow{
			Package:      m.Name,
			Version:      m.Version,
			Location:     m.Dir,
			MatchPackage: matchPackage,
			MatchVersion: matchVersion,
		}

		dependents := index.Lookup(m.Name, m.Version)
		if len(dependents) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, dep := range dependents {
			row := base
			row.Dependency = string(dep.Kind)
			row.DependedBy = dep.String()
			rows = append(rows, row)
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Location != b.Location {
			return a.Location < b.Location
		}
		if a.Package != b.Package {
			return a.Package < b.Package
		}
		if a.Version != b.Version {
			return a.Version < b.Version
		}
		return a.DependedBy < b.DependedBy
	})

	return rows
}

// manifestDirs returns the sorted set of directories containing manifests.
func manifestDirs(manifests []*models.Manifest) []string {
	set := make(map[string]bool)
	for _, m := range manifests {
		set[m.Dir] = true
	}
	dirs := make([]string, 0, len(set))
	for dir := range set {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}

// verifyWithNpm asks a local npm which versions of each target are
// installed under the start path. Best-effort: only runs when the start
// path itself is an npm project, and failures yield empty results.
func (s *Scanner) verifyWithNpm(ctx context.Context, targetList targets.List) map[string][]string {
	if _, err := os.Stat(filepath.Join(s.config.StartPath, "package.json")); err != nil {
		s.config.Logger.Debug("start path is not an npm project, skipping npm verification")
		return nil
	}

	names := make([]string, 0, len(targetList))
	for name := range targetList {
		names = append(names, name)
	}
	sort.Strings(names)

	verified := make(map[string][]string, len(names))
	for _, name := range names {
		nctx, cancel := context.WithTimeout(ctx, s.config.NpmTimeout)
		versions := s.npm.InstalledVersions(nctx, s.config.StartPath, name)
		cancel()
		verified[name] = versions
		if len(versions) > 0 {
			s.config.Logger.Debug("npm reports installed versions", "package", name, "versions", versions)
		}
	}
	return verified
}
