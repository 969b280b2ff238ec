// Package clients wraps external tooling queried during a scan. The only
// client is npm, invoked locally; no network lookups happen here.
package clients

import (
	"context"
	"encoding/json"
	"os/exec"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/schubergphilis/package-checker/internal/cache"
)

// NpmClient queries the locally installed dependency tree via
// `npm ls --json`. Results are cached on disk when a cache is provided.
type NpmClient struct {
	cache  *cache.Cache
	logger *log.Logger

	// runner executes the npm command; replaced in tests.
	runner func(ctx context.Context, dir, name string) ([]byte, error)
}

// NewNpmClient creates a new npm client. cache may be nil.
func NewNpmClient(c *cache.Cache, logger *log.Logger) *NpmClient {
	return &NpmClient{
		cache:  c,
		logger: logger,
		runner: runNpmLs,
	}
}

// npmTree mirrors the recursive dependencies shape of `npm ls --json`.
type npmTree struct {
	Version      string             `json:"version"`
	Dependencies map[string]npmTree `json:"dependencies"`
}

// InstalledVersions returns every version of name that npm reports as
// installed under dir, sorted. Any failure (npm missing, non-zero exit,
// unparsable output) yields an empty result; verification is best-effort.
func (c *NpmClient) InstalledVersions(ctx context.Context, dir, name string) []string {
	data, ok := c.cachedOutput(dir, name)
	if !ok {
		var err error
		data, err = c.runner(ctx, dir, name)
		if err != nil {
			c.logger.Debug("npm query failed", "dir", dir, "package", name, "err", err)
			return nil
		}
		if c.cache != nil {
			if err := c.cache.Set(c.cacheKey(dir, name), data); err != nil {
				c.logger.Debug("failed to cache npm output", "err", err)
			}
		}
	}

	var tree npmTree
	if err := json.Unmarshal(data, &tree); err != nil {
		c.logger.Debug("unparsable npm output", "dir", dir, "package", name, "err", err)
		return nil
	}

	seen := make(map[string]bool)
	collectVersions(&tree, name, seen)

	versions := make([]string, 0, len(seen))
	for v := range seen {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	return versions
}

func (c *NpmClient) cacheKey(dir, name string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	return "npm-ls:" + abs + ":" + name
}

func (c *NpmClient) cachedOutput(dir, name string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	return c.cache.Get(c.cacheKey(dir, name))
}

// collectVersions walks the npm ls dependency tree gathering versions
// recorded for name at any depth.
func collectVersions(tree *npmTree, name string, seen map[string]bool) {
	for depName, dep := range tree.Dependencies {
		if depName == name && dep.Version != "" {
			seen[dep.Version] = true
		}
		collectVersions(&dep, name, seen)
	}
}

func runNpmLs(ctx context.Context, dir, name string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "npm", "ls", "--json", name, "--depth=Infinity")
	cmd.Dir = dir
	return cmd.Output()
}
