package textdiff

import (
	"fmt"

	"github.com/sourcegraph/go-diff/diff"
)

// Summary counts the line edits of a unified diff.
// Changed counts lines replaced in place; Added and Deleted count the rest.
type Summary struct {
	Hunks   int `json:"hunks"`
	Added   int `json:"added"`
	Changed int `json:"changed"`
	Deleted int `json:"deleted"`
}

// String renders the summary for terminal output.
func (s Summary) String() string {
	return fmt.Sprintf("%d hunk(s): %d added, %d changed, %d deleted", s.Hunks, s.Added, s.Changed, s.Deleted)
}

// Summarize parses a diff produced by Unified and counts its edits.
// The empty diff summarizes to the zero Summary.
func Summarize(unified string) (Summary, error) {
	if unified == "" {
		return Summary{}, nil
	}

	fd, err := diff.ParseFileDiff([]byte(unified))
	if err != nil {
		return Summary{}, fmt.Errorf("parse unified diff: %w", err)
	}

	stat := fd.Stat()
	return Summary{
		Hunks:   len(fd.Hunks),
		Added:   int(stat.Added),
		Changed: int(stat.Changed),
		Deleted: int(stat.Deleted),
	}, nil
}
