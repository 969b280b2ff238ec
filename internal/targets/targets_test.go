package targets

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/schubergphilis/package-checker/internal/errors"
)

func writeTargets(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "targets.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestLoad(t *testing.T) {
	path := writeTargets(t, `# targets under review
@actions/core,1.11.1
lodash,4.17.21

left-pad@1.3.0
@scope/pkg@2.0.0
`)

	list, err := Load(path, false, testLogger())
	require.NoError(t, err)

	assert.Equal(t, List{
		"@actions/core": "1.11.1",
		"lodash":        "4.17.21",
		"left-pad":      "1.3.0",
		"@scope/pkg":    "2.0.0",
	}, list)
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	path := writeTargets(t, "lodash,4.17.21\nnot-a-pair\nexpress,5.1.0\n")

	list, err := Load(path, false, testLogger())
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.NotContains(t, list, "not-a-pair")
}

func TestLoadStrictAbortsOnMalformedLine(t *testing.T) {
	path := writeTargets(t, "lodash,4.17.21\nnot-a-pair\n")

	_, err := Load(path, true, testLogger())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidFormat))
}

func TestLoadDuplicateEntriesLastWins(t *testing.T) {
	path := writeTargets(t, "lodash,4.17.20\nlodash,4.17.21\n")

	list, err := Load(path, false, testLogger())
	require.NoError(t, err)
	assert.Equal(t, "4.17.21", list["lodash"])
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.txt"), false, testLogger())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeFileNotFound))
}

func TestLoadRoundTrip(t *testing.T) {
	original := List{
		"@actions/core": "1.11.1",
		"lodash":        "4.17.21",
	}

	content := ""
	for name, version := range original {
		content += name + "," + version + "\n"
	}
	path := writeTargets(t, content)

	reloaded, err := Load(path, true, testLogger())
	require.NoError(t, err)
	assert.Equal(t, original, reloaded)
}

func TestSplitEntry(t *testing.T) {
	tests := []struct {
		line    string
		name    string
		version string
		ok      bool
	}{
		{"lodash,4.17.21", "lodash", "4.17.21", true},
		{"lodash @ 4.17.21", "lodash", "4.17.21", true},
		{"@scope/pkg@1.0.0", "@scope/pkg", "1.0.0", true},
		{"@scope/pkg,1.0.0", "@scope/pkg", "1.0.0", true},
		{"noversion", "", "", false},
		{"@scope-only", "", "", false},
		{",1.0.0", "", "", false},
		{"name,", "", "", false},
	}

	for _, tc := range tests {
		name, version, ok := splitEntry(tc.line)
		assert.Equal(t, tc.ok, ok, "line %q", tc.line)
		if tc.ok {
			assert.Equal(t, tc.name, name, "line %q", tc.line)
			assert.Equal(t, tc.version, version, "line %q", tc.line)
		}
	}
}
