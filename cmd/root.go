package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	apperrors "github.com/schubergphilis/package-checker/internal/errors"
	"github.com/schubergphilis/package-checker/internal/models"
	"github.com/schubergphilis/package-checker/internal/reporter"
	"github.com/schubergphilis/package-checker/internal/scanner"
)

var (
	flagPackageFile    string
	flagStartPath      string
	flagOutput         string
	flagFormat         string
	flagNoNpm          bool
	flagNoCache        bool
	flagStrict         bool
	flagFollowSymlinks bool
	flagListDirs       bool
	flagExcludes       []string
	flagJobs           int
	flagNpmTimeout     int
	flagVerbose        bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "package-checker",
	Short: "Scan a directory tree for installed packages and check them against a target list",
	Long: `package-checker walks a directory tree looking for dependency manifests
(package.json, pyproject.toml, go.mod), compares every discovered
package/version pair against a user-supplied target list, and writes a
CSV report with one row per occurrence and dependent.

Each row records whether the package name appears in the target list,
whether the discovered version matches the expected one exactly, and
which scanned package declared it as a dependency (with the declaration
kind: dep, dev, peer, optional).

The target list holds one "name,version" pair per line; the legacy
"name@version" form is accepted too.

Examples:
  # Scan the current directory
  package-checker --package-file targets.txt

  # Scan a tree of installed editor extensions
  package-checker --package-file targets.txt --start-path ~/.vscode

  # Write the report to stdout as JSON
  package-checker --package-file targets.txt --format json --output -

  # Skip the local npm installed-version check
  package-checker --package-file targets.txt --no-npm`,
	RunE: runScan,
}

// Execute runs the root command, mapping failures to a non-zero exit.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&flagPackageFile, "package-file", "", "Path to the target list (name,version per line)")
	rootCmd.Flags().StringVar(&flagStartPath, "start-path", ".", "Root directory to scan")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "output.csv", "Report destination (\"-\" for stdout)")
	rootCmd.Flags().StringVarP(&flagFormat, "format", "f", "csv", "Output format: csv, json, terminal")
	rootCmd.Flags().BoolVar(&flagNoNpm, "no-npm", false, "Skip npm installed-version verification")
	rootCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Disable caching of npm query results")
	rootCmd.Flags().BoolVar(&flagStrict, "strict", false, "Abort on malformed target-list lines")
	rootCmd.Flags().BoolVar(&flagFollowSymlinks, "follow-symlinks", false, "Follow symlinked directories during the walk")
	rootCmd.Flags().BoolVar(&flagListDirs, "list-dirs", false, "Print directories containing manifests and exit")
	rootCmd.Flags().StringSliceVar(&flagExcludes, "exclude", []string{".git"}, "Directory names to skip")
	rootCmd.Flags().IntVarP(&flagJobs, "jobs", "j", 0, "Parallel manifest parsers (default: number of CPUs)")
	rootCmd.Flags().IntVar(&flagNpmTimeout, "npm-timeout", 60, "Timeout per npm query in seconds")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")

	_ = rootCmd.MarkFlagRequired("package-file")
}

// newLogger creates the run logger writing to stderr, so report output on
// stdout stays machine-readable.
func newLogger(verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

func runScan(cmd *cobra.Command, args []string) error {
	logger := newLogger(flagVerbose)

	config := models.DefaultConfig()
	config.PackageFile = flagPackageFile
	config.StartPath = flagStartPath
	config.OutputFile = flagOutput
	config.OutputFormat = flagFormat
	config.NoNpm = flagNoNpm
	config.NoCache = flagNoCache
	config.Strict = flagStrict
	config.FollowSymlinks = flagFollowSymlinks
	config.ListDirs = flagListDirs
	config.Excludes = flagExcludes
	config.NpmTimeout = time.Duration(flagNpmTimeout) * time.Second
	config.Logger = logger
	if flagJobs > 0 {
		config.Jobs = flagJobs
	}

	s, err := scanner.New(config)
	if err != nil {
		return fmt.Errorf("failed to initialize scanner: %w", err)
	}

	ctx := context.Background()
	result, err := s.Scan(ctx)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if config.ListDirs {
		for _, dir := range result.Dirs {
			fmt.Println(dir)
		}
		return nil
	}

	rep := reporter.Get(config.OutputFormat)
	output, err := rep.Report(result.Rows, result.Summary)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if config.OutputFile == "" || config.OutputFile == "-" {
		fmt.Print(string(output))
	} else {
		if err := os.WriteFile(config.OutputFile, output, 0644); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeWrite, err, "failed to write report to %s", config.OutputFile)
		}
		logger.Info("report written", "path", config.OutputFile, "rows", len(result.Rows))
	}

	logger.Info("scan complete",
		"dirs", result.Summary.DirsScanned,
		"manifests", result.Summary.ManifestsParsed,
		"matches", result.Summary.FullMatches)

	return nil
}
