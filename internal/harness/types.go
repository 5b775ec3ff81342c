package harness

import (
	"github.com/roach88/golden/internal/compare"
)

// CaseResult is the outcome of one suite case.
type CaseResult struct {
	Name string `json:"name"`

	// Pass is true when the comparison produced an equal verdict.
	Pass bool `json:"pass"`

	// Updated is true when the golden file was rewritten instead of compared.
	Updated bool `json:"updated,omitempty"`

	// Verdict is nil when the case stopped on an error.
	Verdict *compare.Verdict `json:"verdict,omitempty"`

	// Error describes why no verdict could be produced.
	Error string `json:"error,omitempty"`
}

// SuiteResult is the outcome of a suite run.
type SuiteResult struct {
	Name   string       `json:"name"`
	Cases  []CaseResult `json:"cases"`
	Passed int          `json:"passed"`
	Failed int          `json:"failed"`
	Errors int          `json:"errors"`
}

// NewSuiteResult creates an empty result for the named suite.
func NewSuiteResult(name string) *SuiteResult {
	return &SuiteResult{
		Name:  name,
		Cases: []CaseResult{},
	}
}

// Add records a case result and updates the counters.
func (r *SuiteResult) Add(c CaseResult) {
	r.Cases = append(r.Cases, c)
	switch {
	case c.Error != "":
		r.Errors++
	case c.Pass:
		r.Passed++
	default:
		r.Failed++
	}
}

// Pass reports whether every case passed.
func (r *SuiteResult) Pass() bool {
	return r.Failed == 0 && r.Errors == 0
}
