package cli

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/roach88/golden/internal/compare"
	"github.com/roach88/golden/internal/decode"
	"github.com/roach88/golden/internal/flatten"
	"github.com/roach88/golden/internal/value"
)

// FlattenOptions holds flags for the flatten command.
type FlattenOptions struct {
	*RootOptions
	Decoder string // decoder name; empty guesses from the file extension
	NFC     bool
}

// NewFlattenCommand creates the flatten command.
func NewFlattenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FlattenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "flatten <file>",
		Short: "Print the flattened paths of a document",
		Long: `Decode a document and print every leaf with its flattened path.

The paths are the ones structured comparison uses for ignores,
replacements and roundings. Use "-" to read from stdin.

Examples:
  golden flatten testdata/out.json
  golden flatten - --decoder yaml < config.yaml
  golden flatten out.cue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFlatten(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Decoder, "decoder", "", "document decoder (json|yaml|cue)")
	cmd.Flags().BoolVar(&opts.NFC, "nfc", false, "normalize decoded strings to Unicode NFC")

	return cmd
}

func runFlatten(opts *FlattenOptions, path string, cmd *cobra.Command) error {
	out := opts.Formatter(cmd)

	name := decoderName(opts.Decoder, path)
	dec, err := decode.ByName(name, opts.NFC)
	if err != nil {
		return out.Fail("invalid --decoder", err)
	}
	if dec == nil {
		return out.Fail("cannot flatten", compare.NewConfigError("", fmt.Sprintf("no decoder for %q (use --decoder)", path), nil))
	}

	text, err := readInput(cmd, path)
	if err != nil {
		return out.Fail("failed to read document", err)
	}

	doc, err := dec.Decode(text)
	if err != nil {
		return out.Fail("failed to decode document", compare.NewDecodeError(compare.SideActual, err))
	}

	flat, err := flatten.Flatten(doc)
	if err != nil {
		return out.Fail("failed to flatten document", compare.NewDecodeError(compare.SideActual, err))
	}

	if opts.Format == "json" {
		data := make(map[string]any, len(flat))
		for p, v := range flat {
			data[p] = value.Interface(v)
		}
		return out.Success(data)
	}

	w := cmd.OutOrStdout()
	for _, p := range flat.SortedPaths() {
		literal, err := json.Marshal(value.Interface(flat[p]))
		if err != nil {
			return fmt.Errorf("failed to render %s: %w", p, err)
		}
		label := p
		if label == "" {
			label = "(root)"
		}
		fmt.Fprintf(w, "%s = %s\n", label, literal)
	}
	return nil
}
