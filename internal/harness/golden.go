package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// GoldenPath returns the golden file Assert uses for name,
// {fixtureDir}/{name}{nameSuffix}.
func (h *Harness) GoldenPath(t *testing.T, name string) string {
	t.Helper()
	return h.goldie(t).GoldenFileName(t, name)
}

// Assert compares actual with the golden file for name and fails t on a
// mismatch, printing every discrepancy or the rendered diff.
//
// To regenerate golden files, run:
//
//	GOLDEN_UPDATE=1 go test ./...
//
// or pass -update to a test binary that imports this package.
func (h *Harness) Assert(t *testing.T, name, actual string) {
	t.Helper()

	g := h.goldie(t)
	if h.Updating() {
		if err := g.Update(t, name, []byte(actual)); err != nil {
			t.Fatalf("golden: update %s: %v", name, err)
		}
		h.logger.Info("updated golden file", "path", g.GoldenFileName(t, name), "bytes", len(actual))
		return
	}

	verdict, err := h.Check(g.GoldenFileName(t, name), actual)
	if err != nil {
		t.Fatalf("golden: %v", err)
	}
	if !verdict.Equal {
		t.Errorf("golden: %s does not match:\n%s", name, verdict.Message)
	}
}

func (h *Harness) goldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir(h.fixtureDir),
		goldie.WithNameSuffix(h.nameSuffix),
	)
}
