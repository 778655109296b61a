package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kadavr95/spoiler/pkg/schema"
)

// Position is a place between two offsets of an element. Offsets count one per child
// element and one per character of text, so a position may fall inside a text node.
type Position struct {
	Parent *Element
	Offset int
}

// PositionAt resolves a path of offsets starting at root. Every offset but the last
// must point at a child element to descend into.
func PositionAt(root *Element, path ...int) (Position, error) {
	if root == nil {
		return Position{}, fmt.Errorf("model: nil root")
	}
	if len(path) == 0 {
		return Position{Parent: root}, nil
	}

	cur := root
	for depth, offset := range path[:len(path)-1] {
		idx, inner := cur.offsetToIndex(offset)
		el, ok := cur.Child(idx).(*Element)
		if !ok || inner != 0 {
			return Position{}, &PathError{Path: path, Depth: depth, Reason: "offset does not point at an element"}
		}
		cur = el
	}

	last := path[len(path)-1]
	if last < 0 || last > cur.MaxOffset() {
		return Position{}, &PathError{Path: path, Depth: len(path) - 1, Reason: "offset out of range"}
	}
	return Position{Parent: cur, Offset: last}, nil
}

// ParsePath parses a slash separated offset path such as "0/1/0".
func ParsePath(s string) ([]int, error) {
	s = strings.Trim(strings.TrimSpace(s), "/")
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, "/")
	path := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid path segment %q", p)
		}
		path[i] = n
	}
	return path, nil
}

// PositionBefore returns the position right before n.
func PositionBefore(n Node) Position {
	return Position{Parent: n.Parent(), Offset: StartOffset(n)}
}

// PositionAfter returns the position right after n.
func PositionAfter(n Node) Position {
	return Position{Parent: n.Parent(), Offset: StartOffset(n) + n.OffsetSize()}
}

// Path returns the offsets leading from the root to the position.
func (p Position) Path() []int {
	if p.Parent == nil {
		return nil
	}
	var path []int
	for el := p.Parent; el.parent != nil; el = el.parent {
		path = append(path, StartOffset(el))
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return append(path, p.Offset)
}

// Context returns the schema context of the position's parent.
func (p Position) Context() schema.Context {
	if p.Parent == nil {
		return nil
	}
	return p.Parent.Context()
}

// TextNode returns the text node the position falls strictly inside, if any.
func (p Position) TextNode() (*Text, int) {
	if p.Parent == nil {
		return nil, 0
	}
	idx, inner := p.Parent.offsetToIndex(p.Offset)
	t, ok := p.Parent.Child(idx).(*Text)
	if !ok || inner == 0 {
		return nil, 0
	}
	return t, inner
}

// IsValid reports whether the position points inside its parent's range.
func (p Position) IsValid() bool {
	return p.Parent != nil && p.Offset >= 0 && p.Offset <= p.Parent.MaxOffset()
}

// Equal reports whether both positions address the same place.
func (p Position) Equal(o Position) bool {
	return p.Parent == o.Parent && p.Offset == o.Offset
}

func (p Position) String() string {
	parts := make([]string, 0, 4)
	for _, n := range p.Path() {
		parts = append(parts, strconv.Itoa(n))
	}
	return "[" + strings.Join(parts, "/") + "]"
}

// FirstEditablePosition returns the first place under root where text can be typed,
// descending through leading non-object elements. Falls back to the start of root.
func FirstEditablePosition(reg *schema.Registry, root *Element) Position {
	cur := root
	for {
		if reg.IsAllowedAt(cur.Context(), schema.Text) {
			return Position{Parent: cur}
		}
		el, ok := cur.Child(0).(*Element)
		if !ok || reg.IsObject(el.name) {
			return Position{Parent: cur}
		}
		cur = el
	}
}
