package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/golden/internal/canonical"
	"github.com/roach88/golden/internal/compare"
	"github.com/roach88/golden/internal/decode"
)

// CanonOptions holds flags for the canon command.
type CanonOptions struct {
	*RootOptions
	Decoder string // decoder name; empty guesses from the file extension
	Output  string // output file; empty writes to stdout
}

// NewCanonCommand creates the canon command.
func NewCanonCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CanonOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "canon <file>",
		Short: "Rewrite a document as canonical JSON",
		Long: `Decode a document and print it as canonical JSON (RFC 8785).

Keys are sorted, whitespace is removed and strings are NFC-normalized,
so two documents with the same content produce the same bytes. Golden
files stored this way can be compared exactly without a structured
config. Use "-" to read from stdin.

Examples:
  golden canon testdata/out.json -o testdata/out.json
  golden canon config.yaml
  mytool | golden canon - --decoder json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCanon(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Decoder, "decoder", "", "document decoder (json|yaml|cue)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func runCanon(opts *CanonOptions, path string, cmd *cobra.Command) error {
	out := opts.Formatter(cmd)
	logger := opts.Logger(cmd.ErrOrStderr())

	name := decoderName(opts.Decoder, path)
	dec, err := decode.ByName(name, false)
	if err != nil {
		return out.Fail("invalid --decoder", err)
	}
	if dec == nil {
		return out.Fail("cannot canonicalize", compare.NewConfigError("", fmt.Sprintf("no decoder for %q (use --decoder)", path), nil))
	}

	text, err := readInput(cmd, path)
	if err != nil {
		return out.Fail("failed to read document", err)
	}

	doc, err := dec.Decode(text)
	if err != nil {
		return out.Fail("failed to decode document", compare.NewDecodeError(compare.SideActual, err))
	}

	data, err := canonical.Marshal(doc)
	if err != nil {
		return out.Fail("failed to canonicalize document", err)
	}
	data = append(data, '\n')

	if opts.Output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	if err := os.WriteFile(opts.Output, data, 0o644); err != nil {
		return out.Fail("failed to write output", err)
	}
	logger.Debug("wrote canonical document", "path", opts.Output, "bytes", len(data))
	return nil
}
