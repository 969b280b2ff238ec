package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunScanWritesReport(t *testing.T) {
	root := t.TempDir()
	pkgDir := filepath.Join(root, "app")
	require.NoError(t, os.MkdirAll(pkgDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "package.json"),
		[]byte(`{"name": "app", "version": "1.0.0"}`), 0644))

	targetFile := filepath.Join(t.TempDir(), "targets.txt")
	require.NoError(t, os.WriteFile(targetFile, []byte("app,1.0.0\n"), 0644))

	output := filepath.Join(t.TempDir(), "report.csv")
	rootCmd.SetArgs([]string{
		"--package-file", targetFile,
		"--start-path", root,
		"--output", output,
		"--no-npm",
		"--no-cache",
	})
	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "package,version,location,match_package,match_version,dependency,depended_by")
	assert.Contains(t, string(data), "app,1.0.0,"+pkgDir+",true,true,,")
}

func TestRunScanPackageFileFlagRequired(t *testing.T) {
	// rootCmd is shared across tests; clear the flag's changed state so
	// the required-flag check runs as on a fresh invocation.
	rootCmd.Flags().Lookup("package-file").Changed = false
	rootCmd.SetArgs([]string{
		"--start-path", t.TempDir(),
		"--no-npm",
		"--no-cache",
		"--output", "-",
	})
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "package-file")
}

func TestRunScanMissingPackageFileIsFatal(t *testing.T) {
	rootCmd.SetArgs([]string{
		"--package-file", filepath.Join(t.TempDir(), "absent.txt"),
		"--start-path", t.TempDir(),
		"--no-npm",
		"--no-cache",
		"--output", "-",
	})
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	assert.Error(t, rootCmd.Execute())
}
