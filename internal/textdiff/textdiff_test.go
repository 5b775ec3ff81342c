package textdiff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestFormat_IdenticalInputsAreNeutral(t *testing.T) {
	for _, style := range []Style{StyleFull, StyleUnified} {
		t.Run(style.String(), func(t *testing.T) {
			assert.Equal(t, "", Format("same\ntext", "same\ntext", style))
			assert.Equal(t, "", Format("", "", style))
		})
	}
}

func TestFull_HighlightsChangedLine(t *testing.T) {
	out := Format("hello\nworld", "hello\nWORLD", StyleFull)

	assert.True(t, strings.HasPrefix(out, "hello\n"), "common prefix is rendered plain: %q", out)
	assert.Contains(t, out, ansiRed+"WORLD"+ansiReset)
	assert.Contains(t, out, ansiGreen+"world"+ansiReset)
}

func TestFull_InsertOnly(t *testing.T) {
	out := Full("abc def", "abc")
	assert.Equal(t, "abc"+ansiGreen+" def"+ansiReset, out)
}

func TestFull_DeleteOnly(t *testing.T) {
	out := Full("abc", "abc def")
	assert.Equal(t, "abc"+ansiRed+" def"+ansiReset, out)
}

func TestUnified_MarksDifferingHunk(t *testing.T) {
	out := Format("hello\nworld", "hello\nWORLD", StyleUnified)

	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 5)
	assert.Equal(t, "--- expected", lines[0])
	assert.Equal(t, "+++ actual", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "@@ "))
	assert.Contains(t, lines, " hello")
	assert.Contains(t, lines, "-WORLD")
	assert.Contains(t, lines, "+world")
}

func TestUnified_OnlyDifferingHunksRendered(t *testing.T) {
	var expected, actual []string
	for i := 0; i < 40; i++ {
		expected = append(expected, "line")
		actual = append(actual, "line")
	}
	expected[20] = "old"
	actual[20] = "new"

	out := Unified(strings.Join(actual, "\n"), strings.Join(expected, "\n"))

	// One hunk with three lines of context on each side.
	assert.Equal(t, 1, strings.Count(out, "@@ -"))
	assert.Equal(t, 2*unifiedContext, strings.Count(out, "\n line"))
}

func TestFormat_Deterministic(t *testing.T) {
	for _, style := range []Style{StyleFull, StyleUnified} {
		first := Format("a\nb\nc", "a\nB\nc", style)
		second := Format("a\nb\nc", "a\nB\nc", style)
		assert.Equal(t, first, second)
	}
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		in   string
		want Style
	}{
		{"full", StyleFull},
		{"FULL", StyleFull},
		{" unified ", StyleUnified},
		{"Unified", StyleUnified},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStyle(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseStyle("side-by-side")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown diff style")
}

func TestStyle_TextRoundTrip(t *testing.T) {
	for _, style := range []Style{StyleFull, StyleUnified} {
		text, err := style.MarshalText()
		require.NoError(t, err)

		var parsed Style
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, style, parsed)
	}

	_, err := Style(9).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "Style(9)", Style(9).String())
}

func TestStyle_UnmarshalYAML(t *testing.T) {
	var doc struct {
		Style Style `yaml:"style"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("style: unified\n"), &doc))
	assert.Equal(t, StyleUnified, doc.Style)

	err := yaml.Unmarshal([]byte("style: sideways\n"), &doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestSummarize(t *testing.T) {
	s, err := Summarize(Unified("a\nb", "a"))
	require.NoError(t, err)
	assert.Equal(t, Summary{Hunks: 1, Added: 1}, s)

	s, err = Summarize(Unified("hello\nworld", "hello\nWORLD"))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Hunks)
	assert.Equal(t, 1, s.Added+s.Changed)
	assert.Equal(t, 1, s.Deleted+s.Changed)
}

func TestSummarize_Empty(t *testing.T) {
	s, err := Summarize("")
	require.NoError(t, err)
	assert.Equal(t, Summary{}, s)
	assert.Equal(t, "0 hunk(s): 0 added, 0 changed, 0 deleted", s.String())
}
