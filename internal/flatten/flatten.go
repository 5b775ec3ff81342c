// Package flatten converts nested documents into flat path → leaf maps.
//
// Object members contribute "parent.key", array elements contribute
// "parent[i]", and the root has an empty prefix, so {"a":{"b":[1,2]}}
// flattens to {"a.b[0]": 1, "a.b[1]": 2}. A scalar at the root is stored
// under the empty path.
//
// Empty objects and arrays contribute no entries. After flattening, an empty
// container and an absent one are indistinguishable; this is a known
// limitation of path-keyed comparison.
//
// Keys are emitted verbatim. A key containing '.', '[' or ']' produces a
// path that Expand cannot split back unambiguously.
package flatten

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/roach88/golden/internal/value"
)

// Map is a flattened document keyed by path.
type Map map[string]value.Value

// Flatten walks v and returns one entry per leaf.
//
// v may be built from map[string]any, []any, and any scalar accepted by
// value.FromAny. The only error is a leaf of a type that has no JSON
// representation; anything a JSON or YAML decoder produces flattens cleanly.
func Flatten(v any) (Map, error) {
	out := make(Map)
	if err := flattenInto(out, "", v); err != nil {
		return nil, err
	}
	return out, nil
}

func flattenInto(out Map, path string, v any) error {
	switch val := v.(type) {
	case map[string]any:
		for k, elem := range val {
			if err := flattenInto(out, joinKey(path, k), elem); err != nil {
				return err
			}
		}
		return nil
	case []any:
		for i, elem := range val {
			if err := flattenInto(out, joinIndex(path, i), elem); err != nil {
				return err
			}
		}
		return nil
	default:
		leaf, err := value.FromAny(val)
		if err != nil {
			return fmt.Errorf("%s: %w", pathStr(path), err)
		}
		out[path] = leaf
		return nil
	}
}

// joinKey appends an object member to a path, omitting the separator at the root.
func joinKey(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// joinIndex appends an array index to a path.
func joinIndex(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

// pathStr formats a path for error messages.
func pathStr(path string) string {
	if path == "" {
		return "root"
	}
	return path
}

// SortedPaths returns the map's paths in byte order for deterministic iteration.
func (m Map) SortedPaths() []string {
	paths := make([]string, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Clone returns a shallow copy of m. Values are immutable, so the copy is
// independent of the original.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for p, v := range m {
		out[p] = v
	}
	return out
}
