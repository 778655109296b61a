package dsl

import (
	"fmt"
	"maps"

	"github.com/kadavr95/spoiler/pkg/model"
)

// Builder describes a model element and its content.
type Builder struct {
	name     string
	attrs    map[string]any
	children []part
}

type part interface {
	create(w *model.Writer) (model.Node, error)
}

type textPart struct {
	data  string
	attrs map[string]any
}

// Element starts the description of an element.
func Element(name string) *Builder {
	return &Builder{name: name}
}

// Attr sets an attribute on the element.
func (b *Builder) Attr(key string, value any) *Builder {
	if b.attrs == nil {
		b.attrs = make(map[string]any)
	}
	b.attrs[key] = value
	return b
}

// Text appends a text child. An optional attribute map applies to the text.
func (b *Builder) Text(data string, attrs ...map[string]any) *Builder {
	t := textPart{data: data}
	if len(attrs) > 0 {
		t.attrs = maps.Clone(attrs[0])
	}
	b.children = append(b.children, t)
	return b
}

// Children appends element children.
func (b *Builder) Children(children ...*Builder) *Builder {
	for _, c := range children {
		b.children = append(b.children, c)
	}
	return b
}

// Name returns the element name.
func (b *Builder) Name() string { return b.name }

// Build creates the detached subtree with w. Insert the result into the document
// in the same transaction.
func (b *Builder) Build(w *model.Writer) (*model.Element, error) {
	n, err := b.create(w)
	if err != nil {
		return nil, err
	}
	return n.(*model.Element), nil
}

func (b *Builder) create(w *model.Writer) (model.Node, error) {
	el := w.CreateElement(b.name, b.attrs)
	for _, c := range b.children {
		child, err := c.create(w)
		if err != nil {
			return nil, err
		}
		if err := w.Append(child, el); err != nil {
			return nil, fmt.Errorf("failed to append %s to %s: %w", child.Name(), b.name, err)
		}
	}
	return el, nil
}

func (t textPart) create(w *model.Writer) (model.Node, error) {
	return w.CreateText(t.data, t.attrs), nil
}

// AppendTo builds every blueprint and appends the results to parent in order.
func AppendTo(w *model.Writer, parent *model.Element, blueprints ...*Builder) ([]*model.Element, error) {
	out := make([]*model.Element, 0, len(blueprints))
	for _, b := range blueprints {
		el, err := b.Build(w)
		if err != nil {
			return nil, err
		}
		if err := w.Append(el, parent); err != nil {
			return nil, fmt.Errorf("failed to append %s: %w", b.name, err)
		}
		out = append(out, el)
	}
	return out, nil
}
