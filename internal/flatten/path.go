package flatten

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/golden/internal/value"
)

// Segment is one step of a path: an object key or an array index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

func (s Segment) String() string {
	if s.IsIndex {
		return "[" + strconv.Itoa(s.Index) + "]"
	}
	return s.Key
}

// ParsePath splits a path into segments using the grammar Flatten emits.
// The empty path is the root and has no segments.
func ParsePath(path string) ([]Segment, error) {
	var segs []Segment
	i := 0

	// A leading key has no separator in front of it.
	if i < len(path) && path[i] != '[' {
		end := nextDelim(path, i)
		segs = append(segs, Segment{Key: path[i:end]})
		i = end
	}

	for i < len(path) {
		switch path[i] {
		case '.':
			end := nextDelim(path, i+1)
			segs = append(segs, Segment{Key: path[i+1 : end]})
			i = end
		case '[':
			closing := strings.IndexByte(path[i:], ']')
			if closing < 0 {
				return nil, fmt.Errorf("path %q: unterminated index at offset %d", path, i)
			}
			digits := path[i+1 : i+closing]
			idx, err := strconv.Atoi(digits)
			if err != nil || idx < 0 || digits == "" || digits[0] == '+' || digits[0] == '-' {
				return nil, fmt.Errorf("path %q: invalid index %q at offset %d", path, digits, i)
			}
			segs = append(segs, Segment{Index: idx, IsIndex: true})
			i += closing + 1
		default:
			return nil, fmt.Errorf("path %q: unexpected %q at offset %d", path, path[i], i)
		}
	}

	return segs, nil
}

// nextDelim returns the offset of the next '.' or '[' at or after start.
func nextDelim(path string, start int) int {
	for j := start; j < len(path); j++ {
		if path[j] == '.' || path[j] == '[' {
			return j
		}
	}
	return len(path)
}

// MaxExpandIndex is the largest array index Expand accepts. Expand
// allocates every position up to the highest index of an array.
const MaxExpandIndex = 1 << 20

type nodeKind int

const (
	nodeUnset nodeKind = iota
	nodeLeaf
	nodeObject
	nodeArray
)

type node struct {
	kind  nodeKind
	leaf  value.Value
	keys  map[string]*node
	elems map[int]*node
}

// Expand rebuilds a nested document from a flat map. It is the inverse of
// Flatten on leaves: Flatten(Expand(m)) equals m.
//
// Objects become map[string]any, arrays []any, and leaves plain Go scalars
// (nil, string, float64, json.Number, bool). Array positions with no leaf
// beneath them are filled with empty objects, which flatten to nothing.
// Indexes above MaxExpandIndex are rejected.
func Expand(m Map) (any, error) {
	root := &node{}
	for _, path := range m.SortedPaths() {
		segs, err := ParsePath(path)
		if err != nil {
			return nil, err
		}
		if err := root.insert(path, segs, m[path]); err != nil {
			return nil, err
		}
	}
	if root.kind == nodeUnset {
		return map[string]any{}, nil
	}
	return root.build(), nil
}

func (n *node) insert(path string, segs []Segment, leaf value.Value) error {
	cur := n
	for _, seg := range segs {
		var next *node
		if seg.IsIndex {
			if cur.kind == nodeUnset {
				cur.kind = nodeArray
				cur.elems = make(map[int]*node)
			}
			if cur.kind != nodeArray {
				return fmt.Errorf("path %q: index %s applied to a non-array", path, seg)
			}
			if seg.Index > MaxExpandIndex {
				return fmt.Errorf("path %q: index %s exceeds the limit of %d", path, seg, MaxExpandIndex)
			}
			next = cur.elems[seg.Index]
			if next == nil {
				next = &node{}
				cur.elems[seg.Index] = next
			}
		} else {
			if cur.kind == nodeUnset {
				cur.kind = nodeObject
				cur.keys = make(map[string]*node)
			}
			if cur.kind != nodeObject {
				return fmt.Errorf("path %q: key %q applied to a non-object", path, seg.Key)
			}
			next = cur.keys[seg.Key]
			if next == nil {
				next = &node{}
				cur.keys[seg.Key] = next
			}
		}
		cur = next
	}

	if cur.kind != nodeUnset {
		return fmt.Errorf("path %q: conflicts with another path", path)
	}
	cur.kind = nodeLeaf
	cur.leaf = leaf
	return nil
}

func (n *node) build() any {
	switch n.kind {
	case nodeLeaf:
		return value.Interface(n.leaf)
	case nodeArray:
		size := 0
		for idx := range n.elems {
			if idx+1 > size {
				size = idx + 1
			}
		}
		arr := make([]any, size)
		for i := range arr {
			if child, ok := n.elems[i]; ok {
				arr[i] = child.build()
			} else {
				arr[i] = map[string]any{}
			}
		}
		return arr
	default:
		obj := make(map[string]any, len(n.keys))
		for k, child := range n.keys {
			obj[k] = child.build()
		}
		return obj
	}
}
