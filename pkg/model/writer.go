package model

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"unicode/utf8"

	"github.com/kadavr95/spoiler/pkg/schema"
)

// ErrRootSplit is returned when Split is asked to split the root element.
var ErrRootSplit = errors.New("the root element cannot be split")

// Writer is the only way to mutate a Document. It is handed out by Document.Change
// and is valid until that call returns.
type Writer struct {
	doc       *Document
	batch     string
	selection Position
	undo      []func()
}

// Batch returns the id of the transaction.
func (w *Writer) Batch() string { return w.batch }

// Root returns the document root.
func (w *Writer) Root() *Element { return w.doc.root }

// Schema returns the document schema.
func (w *Writer) Schema() *schema.Registry { return w.doc.schema }

// Selection returns the caret as it stands inside the transaction.
func (w *Writer) Selection() Position { return w.selection }

// Operations returns the number of primitive operations recorded so far.
func (w *Writer) Operations() int { return len(w.undo) }

// CreateElement creates a detached element.
func (w *Writer) CreateElement(name string, attrs map[string]any) *Element {
	return &Element{name: name, attributes: maps.Clone(attrs)}
}

// CreateText creates a detached text node.
func (w *Writer) CreateText(data string, attrs map[string]any) *Text {
	return &Text{data: data, attributes: maps.Clone(attrs)}
}

// Append inserts node as the last child of parent.
func (w *Writer) Append(node Node, parent *Element) error {
	if parent == nil {
		return ErrDetached
	}
	return w.Insert(node, Position{Parent: parent, Offset: parent.MaxOffset()})
}

// InsertAt inserts node at offset in parent.
func (w *Writer) InsertAt(node Node, parent *Element, offset int) error {
	return w.Insert(node, Position{Parent: parent, Offset: offset})
}

// Insert places node at pos. An attached node is moved. A position inside a text
// node splits it, and a text node merges with neighbours carrying the same attributes.
func (w *Writer) Insert(node Node, pos Position) error {
	if err := w.checkPosition(pos); err != nil {
		return err
	}
	if el, ok := node.(*Element); ok && (el == pos.Parent || IsAttached(pos.Parent, el)) {
		return fmt.Errorf("cannot insert %s into itself", el.name)
	}
	if t, ok := node.(*Text); ok && t.data == "" {
		return nil
	}

	if node.Parent() != nil {
		// Removing the node first may shift the target offset.
		if node.Parent() == pos.Parent && StartOffset(node) < pos.Offset {
			pos.Offset -= node.OffsetSize()
		}
		if err := w.Remove(node); err != nil {
			return err
		}
	}

	idx := w.splitText(pos)
	w.insertNodes(pos.Parent, idx, node)
	if _, ok := node.(*Text); ok {
		w.mergeAt(pos.Parent, idx+1)
		w.mergeAt(pos.Parent, idx)
	}
	return nil
}

// Remove detaches node from the tree.
func (w *Writer) Remove(node Node) error {
	parent := node.Parent()
	if parent == nil {
		return ErrDetached
	}
	idx := parent.indexOf(node)
	w.removeNodes(parent, idx, 1)
	w.mergeAt(parent, idx)
	return nil
}

// Clear removes every child of the root.
func (w *Writer) Clear() {
	if n := len(w.doc.root.children); n > 0 {
		w.removeNodes(w.doc.root, 0, n)
	}
	w.selection = Position{Parent: w.doc.root}
}

// SetAttribute sets key on node.
func (w *Writer) SetAttribute(node Node, key string, value any) {
	old, had := node.Attribute(key)
	w.setAttr(node, key, value, true)
	w.record(func() { w.setAttr(node, key, old, had) })
}

// RemoveAttribute deletes key from node.
func (w *Writer) RemoveAttribute(node Node, key string) {
	old, had := node.Attribute(key)
	if !had {
		return
	}
	w.setAttr(node, key, nil, false)
	w.record(func() { w.setAttr(node, key, old, true) })
}

// Split splits pos.Parent at pos into two elements of the same name and attributes.
// It returns the position between the two halves.
func (w *Writer) Split(pos Position) (Position, error) {
	if err := w.checkPosition(pos); err != nil {
		return Position{}, err
	}
	el := pos.Parent
	if el.parent == nil {
		return Position{}, ErrRootSplit
	}

	idx := w.splitText(pos)
	right := &Element{name: el.name, attributes: maps.Clone(el.attributes)}
	w.insertNodes(el.parent, el.parent.indexOf(el)+1, right)
	if n := len(el.children) - idx; n > 0 {
		moved := w.removeNodes(el, idx, n)
		w.insertNodes(right, 0, moved...)
	}
	return PositionAfter(el), nil
}

// SetSelection moves the caret. The position must be inside the document.
func (w *Writer) SetSelection(pos Position) error {
	if err := w.checkPosition(pos); err != nil {
		return err
	}
	if !IsAttached(pos.Parent, w.doc.root) {
		return ErrDetached
	}
	w.selection = pos
	return nil
}

// checkPosition accepts positions in detached subtrees so that content can be
// assembled before it is inserted into the document.
func (w *Writer) checkPosition(pos Position) error {
	if pos.Parent == nil {
		return ErrDetached
	}
	if !pos.IsValid() {
		return &PathError{Path: pos.Path(), Depth: len(pos.Path()) - 1, Reason: "offset out of range"}
	}
	return nil
}

func (w *Writer) record(undo func()) {
	w.undo = append(w.undo, undo)
}

func (w *Writer) rollback() {
	for i := len(w.undo) - 1; i >= 0; i-- {
		w.undo[i]()
	}
	w.undo = nil
}

// splitText makes pos fall on a child boundary and returns the child index there.
func (w *Writer) splitText(pos Position) int {
	idx, inner := pos.Parent.offsetToIndex(pos.Offset)
	t, ok := pos.Parent.Child(idx).(*Text)
	if !ok || inner == 0 {
		return idx
	}

	cut := byteOffset(t.data, inner)
	right := t.data[cut:]
	w.setData(t, t.data[:cut])
	w.insertNodes(pos.Parent, idx+1, &Text{data: right, attributes: maps.Clone(t.attributes)})
	return idx + 1
}

// byteOffset returns the byte index of the n-th rune of s. Invalid bytes count as one
// rune each and are kept as they are.
func byteOffset(s string, n int) int {
	i := 0
	for ; n > 0 && i < len(s); n-- {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return i
}

// mergeAt joins the children at idx-1 and idx when both are texts with equal attributes.
func (w *Writer) mergeAt(parent *Element, idx int) bool {
	left, ok := parent.Child(idx - 1).(*Text)
	if !ok {
		return false
	}
	right, ok := parent.Child(idx).(*Text)
	if !ok || !sameAttributes(left, right) {
		return false
	}
	w.setData(left, left.data+right.data)
	w.removeNodes(parent, idx, 1)
	return true
}

func (w *Writer) insertNodes(parent *Element, idx int, nodes ...Node) {
	offset := 0
	size := 0
	for i, c := range parent.children {
		if i == idx {
			break
		}
		offset += c.OffsetSize()
	}
	for _, n := range nodes {
		n.setParent(parent)
		size += n.OffsetSize()
	}
	parent.children = slices.Insert(parent.children, idx, nodes...)
	if w.selection.Parent == parent && w.selection.Offset > offset {
		w.selection.Offset += size
	}

	w.record(func() {
		parent.children = slices.Delete(parent.children, idx, idx+len(nodes))
		for _, n := range nodes {
			n.setParent(nil)
		}
	})
}

func (w *Writer) removeNodes(parent *Element, idx, n int) []Node {
	removed := slices.Clone(parent.children[idx : idx+n])
	offset := 0
	for _, c := range parent.children[:idx] {
		offset += c.OffsetSize()
	}
	size := 0
	for _, c := range removed {
		size += c.OffsetSize()
		c.setParent(nil)
	}
	parent.children = slices.Delete(parent.children, idx, idx+n)

	if w.selection.Parent == parent {
		switch {
		case w.selection.Offset >= offset+size:
			w.selection.Offset -= size
		case w.selection.Offset > offset:
			w.selection.Offset = offset
		}
	}

	w.record(func() {
		parent.children = slices.Insert(parent.children, idx, removed...)
		for _, c := range removed {
			c.setParent(parent)
		}
	})
	return removed
}

func (w *Writer) setData(t *Text, data string) {
	old := t.data
	t.data = data
	w.record(func() { t.data = old })
}

func (w *Writer) setAttr(node Node, key string, value any, present bool) {
	var m *map[string]any
	switch n := node.(type) {
	case *Element:
		m = &n.attributes
	case *Text:
		m = &n.attributes
	default:
		return
	}
	if !present {
		delete(*m, key)
		return
	}
	if *m == nil {
		*m = make(map[string]any)
	}
	(*m)[key] = value
}
