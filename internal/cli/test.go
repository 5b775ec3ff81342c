package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/golden/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // glob matched against suite names (file name minus the suite suffix)
}

// TestResult holds the overall test result.
type TestResult struct {
	Suites []*harness.SuiteResult `json:"suites"`
	Passed int                    `json:"passed"`
	Failed int                    `json:"failed"`
	Errors int                    `json:"errors"`
	Total  int                    `json:"total"`
}

// suiteSuffixes mark suite files when a directory is searched.
var suiteSuffixes = []string{".suite.yaml", ".suite.yml"}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <suite-file-or-dir>...",
		Short: "Run golden suites",
		Long: `Run the golden comparisons listed in suite files.

A directory argument is searched recursively for *.suite.yaml and
*.suite.yml files. Every case of every suite is compared, even after
a failure.

Exit codes:
  0 - All cases passed
  1 - One or more cases did not match their golden file
  2 - Command error (invalid suite, unreadable file, etc.)

Examples:
  golden test ./golden
  golden test ./golden --filter "cli-*"
  golden test api.suite.yaml --update
  golden test ./golden --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter suites by glob pattern")

	return cmd
}

func runTests(opts *TestOptions, args []string, cmd *cobra.Command) error {
	out := opts.Formatter(cmd)
	logger := opts.Logger(cmd.ErrOrStderr())

	var suiteFiles []string
	for _, arg := range args {
		files, err := findSuiteFiles(arg, opts.Filter)
		if err != nil {
			return out.Fail("failed to find suites", err)
		}
		suiteFiles = append(suiteFiles, files...)
	}

	result := TestResult{Suites: []*harness.SuiteResult{}}

	if len(suiteFiles) == 0 {
		if opts.Format == "json" {
			return outputTestJSON(out, result)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No suites found.")
		return nil
	}

	for _, file := range suiteFiles {
		logger.Debug("running suite", "path", file)
		sr := runSuite(file, opts)
		result.Suites = append(result.Suites, sr)
		result.Passed += sr.Passed
		result.Failed += sr.Failed
		result.Errors += sr.Errors
		result.Total += len(sr.Cases)

		if opts.Format != "json" {
			printSuiteText(cmd, sr)
		}
	}

	if opts.Format == "json" {
		return outputTestJSON(out, result)
	}
	return outputTestText(cmd, result)
}

// findSuiteFiles returns path itself when it is a file, or the suite files
// beneath it when it is a directory, sorted.
func findSuiteFiles(path, filter string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("suite path not found: %s", path)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		name, ok := suiteName(filepath.Base(p))
		if !ok {
			return nil
		}

		// Apply filter if specified
		if filter != "" {
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, p)
		return nil
	})
	sort.Strings(files)
	return files, err
}

// suiteName strips a suite suffix from base.
func suiteName(base string) (string, bool) {
	for _, suffix := range suiteSuffixes {
		if strings.HasSuffix(base, suffix) {
			return strings.TrimSuffix(base, suffix), true
		}
	}
	return "", false
}

// runSuite loads and runs one suite file. Load errors become a suite
// result with a single errored case so the remaining suites still run.
func runSuite(file string, opts *TestOptions) *harness.SuiteResult {
	suite, err := harness.LoadSuite(file)
	if err != nil {
		sr := harness.NewSuiteResult(filepath.Base(file))
		sr.Add(harness.CaseResult{Name: filepath.Base(file), Error: fmt.Sprintf("failed to load suite: %v", err)})
		return sr
	}

	sr, err := harness.RunSuite(suite, harness.WithUpdate(opts.Update))
	if err != nil {
		sr = harness.NewSuiteResult(suite.Name)
		sr.Add(harness.CaseResult{Name: suite.Name, Error: fmt.Sprintf("failed to run suite: %v", err)})
	}
	return sr
}

func printSuiteText(cmd *cobra.Command, sr *harness.SuiteResult) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s\n", sr.Name)
	for _, c := range sr.Cases {
		switch {
		case c.Error != "":
			fmt.Fprintf(w, "  ✗ %s\n", c.Name)
			fmt.Fprintf(w, "    Error: %s\n", c.Error)
		case c.Updated:
			fmt.Fprintf(w, "  ✓ %s (golden updated)\n", c.Name)
		case c.Pass:
			fmt.Fprintf(w, "  ✓ %s\n", c.Name)
		default:
			fmt.Fprintf(w, "  ✗ %s\n", c.Name)
			for _, line := range strings.Split(c.Verdict.Message, "\n") {
				fmt.Fprintf(w, "    %s\n", line)
			}
		}
	}
}

// outputTestText prints the summary line and picks the exit code.
func outputTestText(cmd *cobra.Command, result TestResult) error {
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d passed, %d failed, %d errors (%d total)\n",
		result.Passed, result.Failed, result.Errors, result.Total)
	return testExitError(result)
}

// outputTestJSON outputs the test result as JSON.
func outputTestJSON(out *OutputFormatter, result TestResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}
	if exitErr := testExitError(result); exitErr != nil {
		code := ErrCodeMismatch
		if result.Errors > 0 {
			code = ErrCodeGeneric
		}
		response.Status = "error"
		response.Error = &CLIError{Code: code, Message: exitErr.Error()}
	}

	if err := out.encode(response); err != nil {
		return err
	}
	return testExitError(result)
}

func testExitError(result TestResult) error {
	switch {
	case result.Errors > 0:
		return NewExitError(ExitCommandError, fmt.Sprintf("%d case(s) could not be compared", result.Errors))
	case result.Failed > 0:
		return NewExitError(ExitFailure, fmt.Sprintf("%d case(s) failed", result.Failed))
	default:
		return nil
	}
}
