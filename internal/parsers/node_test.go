package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/schubergphilis/package-checker/internal/errors"
	"github.com/schubergphilis/package-checker/internal/models"
)

func TestNodeCanParse(t *testing.T) {
	p := &NodePackageJSONParser{}
	assert.True(t, p.CanParse("package.json"))
	assert.False(t, p.CanParse("package-lock.json"))
	assert.False(t, p.CanParse("package.json.bak"))
}

func TestNodeParse(t *testing.T) {
	content := []byte(`{
		"name": "jupyter",
		"version": "2025.7.0",
		"dependencies": {"lodash": "^4.17.21"},
		"devDependencies": {"@actions/core": "1.11.1"},
		"peerDependencies": {"react": ">=18"},
		"optionalDependencies": {"fsevents": "~2.3.2"}
	}`)

	p := &NodePackageJSONParser{}
	ms, err := p.Parse("/x/jupyter-2025.7.0/package.json", content)
	require.NoError(t, err)
	require.Len(t, ms, 1)
	m := ms[0]

	assert.Equal(t, "jupyter", m.Name)
	assert.Equal(t, "2025.7.0", m.Version)
	assert.Equal(t, "/x/jupyter-2025.7.0", m.Dir)
	assert.True(t, m.HasIdentity())

	assert.Equal(t, []models.Declaration{
		{Name: "lodash", Range: "^4.17.21", Kind: models.KindDependency},
		{Name: "@actions/core", Range: "1.11.1", Kind: models.KindDev},
		{Name: "react", Range: ">=18", Kind: models.KindPeer},
		{Name: "fsevents", Range: "~2.3.2", Kind: models.KindOptional},
	}, m.Declarations)
}

func TestNodeParseDeclarationOrderIsDeterministic(t *testing.T) {
	content := []byte(`{
		"name": "app",
		"version": "1.0.0",
		"dependencies": {"zeta": "1.0.0", "alpha": "2.0.0", "mid": "3.0.0"}
	}`)

	p := &NodePackageJSONParser{}
	ms, err := p.Parse("/x/package.json", content)
	require.NoError(t, err)
	require.Len(t, ms, 1)
	m := ms[0]

	names := make([]string, 0, len(m.Declarations))
	for _, d := range m.Declarations {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)
}

func TestNodeParseWithoutIdentity(t *testing.T) {
	content := []byte(`{"dependencies": {"lodash": "^4.17.21"}}`)

	p := &NodePackageJSONParser{}
	ms, err := p.Parse("/x/package.json", content)
	require.NoError(t, err)
	require.Len(t, ms, 1)
	m := ms[0]
	assert.False(t, m.HasIdentity())
	assert.Len(t, m.Declarations, 1)
}

func TestNodeParseMalformed(t *testing.T) {
	p := &NodePackageJSONParser{}
	_, err := p.Parse("/x/package.json", []byte("{not json"))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeParse))
}

func TestNodeLockCanParse(t *testing.T) {
	p := &NodePackageLockParser{}
	assert.True(t, p.CanParse("package-lock.json"))
	assert.False(t, p.CanParse("package.json"))
	assert.False(t, p.CanParse("yarn.lock"))
}

func TestNodeLockParseV2(t *testing.T) {
	content := []byte(`{
		"name": "app",
		"version": "1.0.0",
		"lockfileVersion": 3,
		"packages": {
			"": {"name": "app", "version": "1.0.0"},
			"node_modules/lodash": {"version": "4.17.21"},
			"node_modules/@actions/core": {"version": "1.11.1"},
			"node_modules/foo/node_modules/@types/node": {"version": "20.11.0"}
		}
	}`)

	p := &NodePackageLockParser{}
	ms, err := p.Parse("/x/app/package-lock.json", content)
	require.NoError(t, err)

	require.Len(t, ms, 3)
	// sorted by name; the root entry is not repeated as an occurrence
	assert.Equal(t, "@actions/core", ms[0].Name)
	assert.Equal(t, "1.11.1", ms[0].Version)
	assert.Equal(t, "@types/node", ms[1].Name)
	assert.Equal(t, "20.11.0", ms[1].Version)
	assert.Equal(t, "lodash", ms[2].Name)
	assert.Equal(t, "4.17.21", ms[2].Version)

	for _, m := range ms {
		assert.Equal(t, "/x/app", m.Dir)
		assert.True(t, m.HasIdentity())
		assert.Empty(t, m.Declarations)
	}
}

func TestNodeLockParseV1Fallback(t *testing.T) {
	content := []byte(`{
		"lockfileVersion": 1,
		"dependencies": {
			"lodash": {"version": "4.17.21"},
			"left-pad": {"version": "1.3.0"}
		}
	}`)

	p := &NodePackageLockParser{}
	ms, err := p.Parse("/x/app/package-lock.json", content)
	require.NoError(t, err)

	require.Len(t, ms, 2)
	assert.Equal(t, "left-pad", ms[0].Name)
	assert.Equal(t, "1.3.0", ms[0].Version)
	assert.Equal(t, "lodash", ms[1].Name)
	assert.Equal(t, "4.17.21", ms[1].Version)
}

func TestNodeLockParseDeduplicates(t *testing.T) {
	content := []byte(`{
		"packages": {
			"node_modules/lodash": {"version": "4.17.21"},
			"node_modules/foo/node_modules/lodash": {"version": "4.17.21"},
			"node_modules/bar/node_modules/lodash": {"version": "4.17.20"}
		}
	}`)

	p := &NodePackageLockParser{}
	ms, err := p.Parse("/x/app/package-lock.json", content)
	require.NoError(t, err)

	require.Len(t, ms, 2)
	assert.Equal(t, "4.17.20", ms[0].Version)
	assert.Equal(t, "4.17.21", ms[1].Version)
}

func TestNodeLockParseMalformed(t *testing.T) {
	p := &NodePackageLockParser{}
	_, err := p.Parse("/x/package-lock.json", []byte("{broken"))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeParse))
}
