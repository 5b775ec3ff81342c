package harness

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/roach88/golden/internal/compare"
)

// UpdateEnv is the environment variable that switches on update mode.
const UpdateEnv = "GOLDEN_UPDATE"

// Default golden file layout, shared with goldie's conventions.
const (
	DefaultFixtureDir = "testdata/golden"
	DefaultNameSuffix = ".golden"
)

// Harness compares actual outputs with golden files on disk.
// A Harness is safe for concurrent use as long as callers do not update
// the same golden file from several goroutines.
type Harness struct {
	comparer   *compare.Comparer
	decoder    compare.Decoder
	fixtureDir string
	nameSuffix string
	update     bool
	logger     *slog.Logger
}

// Option configures a Harness.
type Option func(*options)

type options struct {
	config     compare.Config
	decoder    compare.Decoder
	fixtureDir string
	nameSuffix string
	update     bool
	logger     *slog.Logger
}

// WithConfig sets the comparison configuration. Defaults to compare.DefaultConfig.
func WithConfig(cfg compare.Config) Option {
	return func(o *options) { o.config = cfg }
}

// WithDecoder sets the decoder used for structured comparison.
func WithDecoder(dec compare.Decoder) Option {
	return func(o *options) { o.decoder = dec }
}

// WithFixtureDir sets the directory Assert reads golden files from.
func WithFixtureDir(dir string) Option {
	return func(o *options) { o.fixtureDir = dir }
}

// WithNameSuffix sets the file suffix Assert appends to golden names.
func WithNameSuffix(suffix string) Option {
	return func(o *options) { o.nameSuffix = suffix }
}

// WithUpdate forces update mode on.
func WithUpdate(update bool) Option {
	return func(o *options) { o.update = update }
}

// WithLogger sets the logger. Defaults to discarding all output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New creates a Harness. The configuration is validated here, so a
// malformed regex fails before any golden file is read.
func New(opts ...Option) (*Harness, error) {
	o := options{
		config:     compare.DefaultConfig(),
		fixtureDir: DefaultFixtureDir,
		nameSuffix: DefaultNameSuffix,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}

	c, err := compare.New(o.config)
	if err != nil {
		return nil, err
	}

	return &Harness{
		comparer:   c,
		decoder:    o.decoder,
		fixtureDir: o.fixtureDir,
		nameSuffix: o.nameSuffix,
		update:     o.update,
		logger:     o.logger,
	}, nil
}

// Updating reports whether update mode is on.
func (h *Harness) Updating() bool {
	if h.update {
		return true
	}
	if on, err := strconv.ParseBool(os.Getenv(UpdateEnv)); err == nil && on {
		return true
	}
	// goldie registers -update on the default flag set.
	if f := flag.Lookup("update"); f != nil && f.Value.String() == "true" {
		return true
	}
	return false
}

// Check compares actual with the golden file at goldenPath.
//
// In update mode the golden file is overwritten with actual and the verdict
// is always equal. Otherwise a missing golden file is an error, as are
// configuration and decode errors from the comparison.
func (h *Harness) Check(goldenPath, actual string) (compare.Verdict, error) {
	if h.Updating() {
		if err := h.Update(goldenPath, actual); err != nil {
			return compare.Verdict{}, err
		}
		return compare.Verdict{Equal: true, Message: compare.NoDifferences}, nil
	}

	expected, err := os.ReadFile(goldenPath)
	if err != nil {
		return compare.Verdict{}, fmt.Errorf("failed to read golden file: %w", err)
	}

	verdict, err := h.comparer.Compare(actual, string(expected), h.decoder)
	if err != nil {
		return compare.Verdict{}, fmt.Errorf("%s: %w", goldenPath, err)
	}

	h.logger.Debug("compared golden file",
		"path", goldenPath,
		"equal", verdict.Equal,
		"discrepancies", len(verdict.Discrepancies))
	return verdict, nil
}

// Update writes actual to goldenPath verbatim, creating parent directories.
func (h *Harness) Update(goldenPath, actual string) error {
	if err := os.MkdirAll(filepath.Dir(goldenPath), 0o755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(goldenPath, []byte(actual), 0o644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	h.logger.Info("updated golden file", "path", goldenPath, "bytes", len(actual))
	return nil
}
