package scanner

import (
	"context"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	apperrors "github.com/schubergphilis/package-checker/internal/errors"
	"github.com/schubergphilis/package-checker/internal/parsers"
)

// walker enumerates a directory tree and reports files that a registered
// parser recognizes. The walk is iterative (an explicit directory queue,
// not call-stack recursion) and recovers from unreadable directories by
// logging and moving on.
type walker struct {
	parsers        []parsers.Parser
	excludes       map[string]bool
	followSymlinks bool
	logger         *log.Logger

	// visited holds resolved directory paths when following symlinks,
	// so cycles terminate and cyclic subtrees are walked once.
	visited map[string]bool

	dirsScanned int
}

func newWalker(ps []parsers.Parser, excludes []string, follow bool, logger *log.Logger) *walker {
	ex := make(map[string]bool, len(excludes))
	for _, name := range excludes {
		ex[name] = true
	}
	return &walker{
		parsers:        ps,
		excludes:       ex,
		followSymlinks: follow,
		logger:         logger,
		visited:        make(map[string]bool),
	}
}

// walk visits every directory under root and calls emit for each manifest
// file found. Only a missing or unreadable root is fatal.
func (w *walker) walk(ctx context.Context, root string, emit func(path string)) error {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "start path %s does not exist", root)
		}
		return apperrors.Wrap(apperrors.ErrCodePermission, err, "cannot read start path %s", root)
	}
	if !info.IsDir() {
		return apperrors.New(apperrors.ErrCodeInvalidFormat, "start path %s is not a directory", root)
	}

	w.markVisited(root)
	queue := []string{root}

	for len(queue) > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		dir := queue[0]
		queue = queue[1:]
		w.dirsScanned++

		entries, err := os.ReadDir(dir)
		if err != nil {
			w.logger.Warn("skipping unreadable directory", "dir", dir, "err", err)
			continue
		}

		for _, entry := range entries {
			name := entry.Name()
			path := filepath.Join(dir, name)

			if entry.IsDir() {
				if w.excludes[name] || !w.markVisited(path) {
					continue
				}
				queue = append(queue, path)
				continue
			}

			if entry.Type()&os.ModeSymlink != 0 {
				target, err := os.Stat(path)
				if err != nil {
					continue
				}
				if !w.followSymlinks {
					w.logger.Debug("skipping symlink", "path", path)
					continue
				}
				if target.IsDir() {
					if w.excludes[name] || !w.markVisited(path) {
						continue
					}
					queue = append(queue, path)
					continue
				}
				if parsers.Match(w.parsers, name) != nil {
					emit(path)
				}
				continue
			}

			if parsers.Match(w.parsers, name) != nil {
				emit(path)
			}
		}
	}

	return nil
}

// markVisited records the resolved path of dir and reports whether it was
// new. Without symlink following every directory is reached exactly once,
// so resolution is only paid when following is enabled.
func (w *walker) markVisited(dir string) bool {
	if !w.followSymlinks {
		return true
	}
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		resolved = dir
	}
	if w.visited[resolved] {
		return false
	}
	w.visited[resolved] = true
	return true
}
