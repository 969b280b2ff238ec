package parsers

import (
	"path/filepath"

	apperrors "github.com/schubergphilis/package-checker/internal/errors"
	"github.com/schubergphilis/package-checker/internal/models"
	"golang.org/x/mod/modfile"
)

// GoModParser parses go.mod files
type GoModParser struct{}

// CanParse returns true for go.mod files
func (p *GoModParser) CanParse(filename string) bool {
	return filename == "go.mod"
}

// Parse extracts require entries from go.mod content. A go.mod carries no
// version for the module itself, so the manifest contributes dependency
// edges but no occurrence.
func (p *GoModParser) Parse(path string, content []byte) ([]*models.Manifest, error) {
	mod, err := modfile.Parse(path, content, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeParse, err, "invalid go.mod at %s", path)
	}

	m := &models.Manifest{
		Path: path,
		Dir:  filepath.Dir(path),
	}
	if mod.Module != nil {
		m.Name = mod.Module.Mod.Path
	}

	for _, req := range mod.Require {
		m.Declarations = append(m.Declarations, models.Declaration{
			Name:  req.Mod.Path,
			Range: req.Mod.Version,
			Kind:  models.KindDependency,
		})
	}

	return []*models.Manifest{m}, nil
}
