package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/golden/internal/compare"
	"github.com/roach88/golden/internal/config"
	"github.com/roach88/golden/internal/decode"
	"github.com/roach88/golden/internal/harness"
	"github.com/roach88/golden/internal/textdiff"
)

// CompareOptions holds flags for the compare command.
type CompareOptions struct {
	*RootOptions
	ConfigPath string // comparison config file
	Decoder    string // decoder name; empty guesses from the golden file extension
	Style      string // diff style override
	NFC        bool   // normalize decoded strings to NFC
	Update     bool   // regenerate the golden file
}

// CompareResult is the payload of a compare command.
type CompareResult struct {
	Golden        string                `json:"golden"`
	Equal         bool                  `json:"equal"`
	Updated       bool                  `json:"updated,omitempty"`
	Message       string                `json:"message"`
	Discrepancies []compare.Discrepancy `json:"discrepancies,omitempty"`
	Summary       *textdiff.Summary     `json:"summary,omitempty"`
}

// NewCompareCommand creates the compare command.
func NewCompareCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompareOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compare <actual> <golden>",
		Short: "Compare an output file with a golden file",
		Long: `Compare an actual output file with its golden file.

Use "-" as <actual> to read the output from stdin. Without --config the
comparison is exact. A config with a "structured" section decodes both
files; the decoder is guessed from the golden file extension unless
--decoder is given.

Exit codes:
  0 - Output matches the golden file
  1 - Output differs from the golden file
  2 - Command error (unreadable file, invalid config, undecodable document)

Examples:
  golden compare out.txt testdata/out.golden
  golden compare out.json testdata/out.json --config golden.yaml
  mytool | golden compare - testdata/out.golden --style unified
  golden compare out.json testdata/out.json --update`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "comparison config file (YAML)")
	cmd.Flags().StringVar(&opts.Decoder, "decoder", "", "document decoder (none|json|yaml|cue)")
	cmd.Flags().StringVar(&opts.Style, "style", "", "diff style override (full|unified)")
	cmd.Flags().BoolVar(&opts.NFC, "nfc", false, "normalize decoded strings to Unicode NFC")
	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate the golden file")

	return cmd
}

func runCompare(opts *CompareOptions, actualPath, goldenPath string, cmd *cobra.Command) error {
	out := opts.Formatter(cmd)
	logger := opts.Logger(cmd.ErrOrStderr())

	cfg := compare.DefaultConfig()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return out.Fail("failed to load config", err)
		}
		cfg = loaded
		logger.Debug("loaded config", "path", opts.ConfigPath, "structured", cfg.Structured != nil)
	}

	if opts.Style != "" {
		style, err := textdiff.ParseStyle(opts.Style)
		if err != nil {
			return out.Fail("invalid --style", compare.NewConfigError("", err.Error(), nil))
		}
		cfg.String.DiffStyle = style
	}

	name := decoderName(opts.Decoder, goldenPath)
	dec, err := decode.ByName(name, opts.NFC)
	if err != nil {
		return out.Fail("invalid --decoder", err)
	}
	if cfg.Structured != nil {
		logger.Debug("structured comparison", "decoder", name, "nfc", opts.NFC)
	}

	actual, err := readInput(cmd, actualPath)
	if err != nil {
		return out.Fail("failed to read actual output", err)
	}

	h, err := harness.New(
		harness.WithConfig(cfg),
		harness.WithDecoder(dec),
		harness.WithUpdate(opts.Update),
		harness.WithLogger(logger),
	)
	if err != nil {
		return out.Fail("invalid config", err)
	}

	verdict, err := h.Check(goldenPath, actual)
	if err != nil {
		return out.Fail("comparison failed", err)
	}

	result := CompareResult{
		Golden:        goldenPath,
		Equal:         verdict.Equal,
		Updated:       h.Updating(),
		Message:       verdict.Message,
		Discrepancies: verdict.Discrepancies,
	}
	if !verdict.Equal && cfg.Structured == nil && cfg.String.DiffStyle == textdiff.StyleUnified {
		if s, err := textdiff.Summarize(verdict.Message); err == nil {
			result.Summary = &s
		} else {
			logger.Warn("cannot summarize diff", "error", err)
		}
	}

	if opts.Format == "json" {
		return outputCompareJSON(out, result)
	}
	return outputCompareText(cmd, result)
}

func outputCompareText(cmd *cobra.Command, result CompareResult) error {
	w := cmd.OutOrStdout()

	switch {
	case result.Updated:
		fmt.Fprintf(w, "✓ %s (golden updated)\n", result.Golden)
		return nil
	case result.Equal:
		fmt.Fprintf(w, "✓ %s\n", result.Golden)
		return nil
	}

	fmt.Fprintf(w, "✗ %s\n", result.Golden)
	fmt.Fprintln(w, result.Message)
	if result.Summary != nil {
		fmt.Fprintf(w, "(%s)\n", result.Summary)
	}
	return NewExitError(ExitFailure, fmt.Sprintf("%s does not match actual output (run with --update to regenerate)", result.Golden))
}

func outputCompareJSON(out *OutputFormatter, result CompareResult) error {
	if result.Equal {
		return out.Success(result)
	}

	response := CLIResponse{
		Status: "error",
		Data:   result,
		Error: &CLIError{
			Code:    ErrCodeMismatch,
			Message: fmt.Sprintf("%s does not match actual output", result.Golden),
		},
	}
	if err := out.encode(response); err != nil {
		return err
	}
	return NewExitError(ExitFailure, response.Error.Message)
}
