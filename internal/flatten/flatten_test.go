package flatten

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/golden/internal/value"
)

func decodeJSON(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestFlatten_NestedObjectsAndArrays(t *testing.T) {
	doc := decodeJSON(t, `{
		"a": {"b": [1, {"c": "x"}], "d": true},
		"e": null
	}`)

	got, err := Flatten(doc)
	require.NoError(t, err)

	want := Map{
		"a.b[0]":   value.Number(1),
		"a.b[1].c": value.String("x"),
		"a.d":      value.Bool(true),
		"e":        value.Null{},
	}
	assert.Equal(t, want, got)
}

func TestFlatten_RootScalar(t *testing.T) {
	got, err := Flatten("hello")
	require.NoError(t, err)
	assert.Equal(t, Map{"": value.String("hello")}, got)
}

func TestFlatten_RootArray(t *testing.T) {
	got, err := Flatten(decodeJSON(t, `[{"a": 1}, 2]`))
	require.NoError(t, err)
	assert.Equal(t, Map{"[0].a": value.Number(1), "[1]": value.Number(2)}, got)
}

func TestFlatten_EmptyContainersContributeNothing(t *testing.T) {
	withEmpty, err := Flatten(decodeJSON(t, `{"a": 1, "obj": {}, "arr": []}`))
	require.NoError(t, err)

	without, err := Flatten(decodeJSON(t, `{"a": 1}`))
	require.NoError(t, err)

	// Known limitation: an empty container is indistinguishable from an absent one.
	assert.Equal(t, without, withEmpty)
}

func TestFlatten_NestedArrays(t *testing.T) {
	got, err := Flatten(decodeJSON(t, `{"m": [[1, 2], [3]]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"m[0][0]", "m[0][1]", "m[1][0]"}, got.SortedPaths())
}

func TestFlatten_UnsupportedLeaf(t *testing.T) {
	_, err := Flatten(map[string]any{"a": map[string]any{"b": struct{}{}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a.b")
}

func TestFlatten_UnsupportedRootLeaf(t *testing.T) {
	_, err := Flatten(make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "root")
}

func TestFlatten_Deterministic(t *testing.T) {
	doc := decodeJSON(t, `{"z": [1, 2, 3], "y": {"x": {"w": "v"}}, "a": false}`)

	first, err := Flatten(doc)
	require.NoError(t, err)
	second, err := Flatten(doc)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, first.SortedPaths(), second.SortedPaths())
}

func TestFlatten_GoNativeScalars(t *testing.T) {
	got, err := Flatten(map[string]any{
		"i":   7,
		"i64": int64(8),
		"f32": float32(0.5),
		"val": value.String("kept"),
	})
	require.NoError(t, err)
	assert.Equal(t, Map{
		"i":   value.Number(7),
		"i64": value.Number(8),
		"f32": value.Number(0.5),
		"val": value.String("kept"),
	}, got)
}

func TestMap_Clone(t *testing.T) {
	m := Map{"a": value.Number(1)}
	c := m.Clone()
	c["b"] = value.Bool(true)

	assert.Len(t, m, 1)
	assert.Len(t, c, 2)
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		path string
		want []Segment
	}{
		{"", nil},
		{"a", []Segment{{Key: "a"}}},
		{"a.b", []Segment{{Key: "a"}, {Key: "b"}}},
		{"a[2].c", []Segment{{Key: "a"}, {Index: 2, IsIndex: true}, {Key: "c"}}},
		{"[0]", []Segment{{Index: 0, IsIndex: true}}},
		{"[0][1].x", []Segment{{Index: 0, IsIndex: true}, {Index: 1, IsIndex: true}, {Key: "x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := ParsePath(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePath_Errors(t *testing.T) {
	for _, path := range []string{"a[", "a[x]", "a[]", "a[-1]", "a[+1]", "a[0]b"} {
		t.Run(path, func(t *testing.T) {
			_, err := ParsePath(path)
			assert.Error(t, err)
		})
	}
}

func TestExpand_RoundTripOnLeaves(t *testing.T) {
	docs := []string{
		`{"a": {"b": [1, {"c": "x"}], "d": true}, "e": null}`,
		`[{"a": 1}, [2, 3], "s"]`,
		`{"deep": {"er": {"est": [[[0.5]]]}}}`,
		`42`,
	}

	for _, doc := range docs {
		t.Run(doc, func(t *testing.T) {
			original := decodeJSON(t, doc)
			flat, err := Flatten(original)
			require.NoError(t, err)

			expanded, err := Expand(flat)
			require.NoError(t, err)

			if diff := cmp.Diff(original, expanded); diff != "" {
				t.Errorf("Expand(Flatten(doc)) mismatch (-want +got):\n%s", diff)
			}

			again, err := Flatten(expanded)
			require.NoError(t, err)
			assert.Equal(t, flat, again)
		})
	}
}

func TestExpand_GapsBecomeEmptyObjects(t *testing.T) {
	flat := Map{"a[2]": value.Number(1)}

	expanded, err := Expand(flat)
	require.NoError(t, err)

	want := map[string]any{"a": []any{map[string]any{}, map[string]any{}, 1.0}}
	if diff := cmp.Diff(want, expanded); diff != "" {
		t.Errorf("Expand mismatch (-want +got):\n%s", diff)
	}

	again, err := Flatten(expanded)
	require.NoError(t, err)
	assert.Equal(t, flat, again)
}

func TestExpand_Empty(t *testing.T) {
	expanded, err := Expand(Map{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, expanded)
}

func TestExpand_Conflicts(t *testing.T) {
	tests := []struct {
		name string
		flat Map
	}{
		{"leaf and object", Map{"a": value.Number(1), "a.b": value.Number(2)}},
		{"object and array", Map{"a.b": value.Number(1), "a[0]": value.Number(2)}},
		{"root scalar and key", Map{"": value.Number(1), "a": value.Number(2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Expand(tt.flat)
			assert.Error(t, err)
		})
	}
}

func TestExpand_IndexLimit(t *testing.T) {
	_, err := Expand(Map{"a[99999999999]": value.Number(1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds the limit")

	got, err := Expand(Map{fmt.Sprintf("[%d]", MaxExpandIndex): value.Bool(true)})
	require.NoError(t, err)
	arr, ok := got.([]any)
	require.True(t, ok)
	assert.Len(t, arr, MaxExpandIndex+1)
	assert.Equal(t, true, arr[MaxExpandIndex])
}

func TestExpand_LargeIntegerStaysExact(t *testing.T) {
	flat := Map{"id": value.Int("9007199254740993")}
	got, err := Expand(flat)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": json.Number("9007199254740993")}, got)

	again, err := Flatten(got)
	require.NoError(t, err)
	assert.Equal(t, flat, again)
}
