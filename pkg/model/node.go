package model

import (
	"maps"
	"reflect"
	"slices"
	"unicode/utf8"

	"github.com/kadavr95/spoiler/pkg/schema"
)

// Node is an element or a text node of the model tree.
type Node interface {
	// Name returns the schema item name; text nodes report schema.Text.
	Name() string
	// Parent returns the containing element, or nil for detached nodes and the root.
	Parent() *Element
	// OffsetSize is the number of offsets the node occupies in its parent.
	OffsetSize() int
	// Attribute returns the value of a single attribute.
	Attribute(key string) (any, bool)
	// Attributes returns a copy of all attributes.
	Attributes() map[string]any

	setParent(*Element)
	attrs() map[string]any
}

// Element is a structural node with ordered children.
type Element struct {
	name       string
	attributes map[string]any
	children   []Node
	parent     *Element
}

// Text is a run of characters sharing one set of attributes.
type Text struct {
	data       string
	attributes map[string]any
	parent     *Element
}

func (e *Element) Name() string               { return e.name }
func (e *Element) Parent() *Element           { return e.parent }
func (e *Element) OffsetSize() int            { return 1 }
func (e *Element) setParent(p *Element)       { e.parent = p }
func (e *Element) attrs() map[string]any      { return e.attributes }
func (e *Element) Attributes() map[string]any { return maps.Clone(e.attributes) }

func (e *Element) Attribute(key string) (any, bool) {
	v, ok := e.attributes[key]
	return v, ok
}

// Children returns a copy of the child list.
func (e *Element) Children() []Node { return slices.Clone(e.children) }

// ChildCount returns the number of child nodes.
func (e *Element) ChildCount() int { return len(e.children) }

// Child returns the child at index i, or nil when out of range.
func (e *Element) Child(i int) Node {
	if i < 0 || i >= len(e.children) {
		return nil
	}
	return e.children[i]
}

// IsEmpty reports whether the element has no children.
func (e *Element) IsEmpty() bool { return len(e.children) == 0 }

// MaxOffset is the offset right after the last child.
func (e *Element) MaxOffset() int {
	n := 0
	for _, c := range e.children {
		n += c.OffsetSize()
	}
	return n
}

// ChildElements returns the element children with the given name, in order.
func (e *Element) ChildElements(name string) []*Element {
	var out []*Element
	for _, c := range e.children {
		if el, ok := c.(*Element); ok && el.name == name {
			out = append(out, el)
		}
	}
	return out
}

func (e *Element) indexOf(n Node) int {
	return slices.IndexFunc(e.children, func(c Node) bool { return c == n })
}

// offsetToIndex maps an offset to the index of the child containing it and the
// offset inside that child. At a child boundary the inner offset is 0.
func (e *Element) offsetToIndex(offset int) (int, int) {
	acc := 0
	for i, c := range e.children {
		size := c.OffsetSize()
		if offset < acc+size {
			return i, offset - acc
		}
		acc += size
	}
	return len(e.children), 0
}

// Ancestors returns the chain from the root down to and including the element.
func (e *Element) Ancestors() []*Element {
	var chain []*Element
	for cur := e; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	slices.Reverse(chain)
	return chain
}

// Root returns the outermost ancestor.
func (e *Element) Root() *Element {
	cur := e
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// Context returns the schema context of the element: the names of its ancestors,
// outermost first, ending with the element itself.
func (e *Element) Context() schema.Context {
	chain := e.Ancestors()
	ctx := make(schema.Context, len(chain))
	for i, el := range chain {
		ctx[i] = el.name
	}
	return ctx
}

// Data returns the characters of the text node.
func (t *Text) Data() string { return t.data }

func (t *Text) Name() string               { return schema.Text }
func (t *Text) Parent() *Element           { return t.parent }
func (t *Text) OffsetSize() int            { return utf8.RuneCountInString(t.data) }
func (t *Text) setParent(p *Element)       { t.parent = p }
func (t *Text) attrs() map[string]any      { return t.attributes }
func (t *Text) Attributes() map[string]any { return maps.Clone(t.attributes) }

func (t *Text) Attribute(key string) (any, bool) {
	v, ok := t.attributes[key]
	return v, ok
}

// StartOffset returns the offset of n inside its parent, or -1 when detached.
func StartOffset(n Node) int {
	p := n.Parent()
	if p == nil {
		return -1
	}
	acc := 0
	for _, c := range p.children {
		if c == n {
			return acc
		}
		acc += c.OffsetSize()
	}
	return -1
}

// IsAttached reports whether n belongs to the tree under root.
func IsAttached(n Node, root *Element) bool {
	if n == Node(root) {
		return true
	}
	for p := n.Parent(); p != nil; p = p.parent {
		if p == root {
			return true
		}
	}
	return false
}

func sameAttributes(a, b Node) bool {
	return maps.EqualFunc(a.attrs(), b.attrs(), func(x, y any) bool { return reflect.DeepEqual(x, y) })
}
