package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/schubergphilis/package-checker/internal/errors"
	"github.com/schubergphilis/package-checker/internal/models"
)

func TestGoModCanParse(t *testing.T) {
	p := &GoModParser{}
	assert.True(t, p.CanParse("go.mod"))
	assert.False(t, p.CanParse("go.sum"))
}

func TestGoModParse(t *testing.T) {
	content := []byte(`module example.com/app

go 1.24

require (
	github.com/spf13/cobra v1.10.2
	golang.org/x/mod v0.31.0 // indirect
)
`)

	p := &GoModParser{}
	ms, err := p.Parse("/x/app/go.mod", content)
	require.NoError(t, err)
	require.Len(t, ms, 1)
	m := ms[0]

	assert.Equal(t, "example.com/app", m.Name)
	// go.mod has no version for the module itself, so no occurrence.
	assert.False(t, m.HasIdentity())
	assert.Equal(t, "/x/app", m.Dir)

	assert.Equal(t, []models.Declaration{
		{Name: "github.com/spf13/cobra", Range: "v1.10.2", Kind: models.KindDependency},
		{Name: "golang.org/x/mod", Range: "v0.31.0", Kind: models.KindDependency},
	}, m.Declarations)
}

func TestGoModParseMalformed(t *testing.T) {
	p := &GoModParser{}
	_, err := p.Parse("/x/go.mod", []byte("module\nrequire ((("))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeParse))
}
