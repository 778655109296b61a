package conversion

import (
	"errors"
	"fmt"
	"slices"

	"github.com/kadavr95/spoiler/pkg/model"
	"github.com/kadavr95/spoiler/pkg/schema"
	"github.com/kadavr95/spoiler/pkg/view"
)

// ElementCreator builds the view element for a model element. Children are
// converted by the downcaster and appended to the returned element.
type ElementCreator func(el *model.Element) *view.Element

// AttributeCreator builds the inline wrapper for a text attribute value. Returning
// nil leaves the text unwrapped.
type AttributeCreator func(value any) *view.Element

// MissingConverterError is returned when a model node has no view mapping.
type MissingConverterError struct {
	Name      string
	Attribute bool
}

func (e *MissingConverterError) Error() string {
	if e.Attribute {
		return fmt.Sprintf("no downcast converter for text attribute %q", e.Name)
	}
	return fmt.Sprintf("no downcast converter for element %q", e.Name)
}

// GroupCreator converts a run of adjacent sibling elements sharing one name. convert
// turns a single element into its view form, children included.
type GroupCreator func(run []*model.Element, convert func(*model.Element) (*view.Element, error)) ([]view.Node, error)

type attributeConverter struct {
	key    string
	create AttributeCreator
}

// Downcaster converts model trees into view trees.
type Downcaster struct {
	elements   map[string]ElementCreator
	groups     map[string]GroupCreator
	attributes []attributeConverter
}

// NewDowncaster creates an empty downcaster.
func NewDowncaster() *Downcaster {
	return &Downcaster{
		elements: make(map[string]ElementCreator),
		groups:   make(map[string]GroupCreator),
	}
}

// Element registers the creator for a model element name, replacing any earlier one.
func (d *Downcaster) Element(name string, create ElementCreator) {
	d.elements[name] = create
}

// Group registers the creator for runs of adjacent elements called name. Elements
// in such runs still need an Element creator for convert to use.
func (d *Downcaster) Group(name string, create GroupCreator) {
	d.groups[name] = create
}

// Attribute registers the wrapper for a text attribute. Wrappers nest in registration
// order, the first registered outermost.
func (d *Downcaster) Attribute(key string, create AttributeCreator) {
	for i, a := range d.attributes {
		if a.key == key {
			d.attributes[i].create = create
			return
		}
	}
	d.attributes = append(d.attributes, attributeConverter{key: key, create: create})
}

// HasElement reports whether a creator is registered for name.
func (d *Downcaster) HasElement(name string) bool {
	_, ok := d.elements[name]
	return ok
}

// HasAttribute reports whether a wrapper is registered for key.
func (d *Downcaster) HasAttribute(key string) bool {
	return slices.ContainsFunc(d.attributes, func(a attributeConverter) bool { return a.key == key })
}

// ConvertChildren converts the children of el in document order.
func (d *Downcaster) ConvertChildren(el *model.Element) ([]view.Node, error) {
	children := el.Children()
	out := make([]view.Node, 0, len(children))
	for i := 0; i < len(children); {
		if first, ok := children[i].(*model.Element); ok {
			if group, ok := d.groups[first.Name()]; ok {
				run := []*model.Element{first}
				for i++; i < len(children); i++ {
					next, ok := children[i].(*model.Element)
					if !ok || next.Name() != first.Name() {
						break
					}
					run = append(run, next)
				}
				nodes, err := group(run, d.convertElement)
				if err != nil {
					return nil, err
				}
				out = append(out, nodes...)
				continue
			}
		}

		n, err := d.Convert(children[i])
		if err != nil {
			return nil, err
		}
		out = append(out, n)
		i++
	}
	return out, nil
}

// Convert converts a single model node and its subtree.
func (d *Downcaster) Convert(n model.Node) (view.Node, error) {
	switch n := n.(type) {
	case *model.Text:
		return d.convertText(n)
	case *model.Element:
		el, err := d.convertElement(n)
		if err != nil {
			return nil, err
		}
		return el, nil
	default:
		return nil, fmt.Errorf("unsupported model node %T", n)
	}
}

func (d *Downcaster) convertElement(n *model.Element) (*view.Element, error) {
	create, ok := d.elements[n.Name()]
	if !ok {
		return nil, &MissingConverterError{Name: n.Name()}
	}
	el := create(n)
	children, err := d.ConvertChildren(n)
	if err != nil {
		return nil, err
	}
	el.Append(children...)
	return el, nil
}

func (d *Downcaster) convertText(t *model.Text) (view.Node, error) {
	var out view.Node = &view.Text{Data: t.Data()}
	attrs := t.Attributes()

	for _, a := range slices.Backward(d.attributes) {
		v, ok := attrs[a.key]
		if !ok {
			continue
		}
		delete(attrs, a.key)
		if wrapper := a.create(v); wrapper != nil {
			wrapper.Append(out)
			out = wrapper
		}
	}
	for key := range attrs {
		return nil, &MissingConverterError{Name: key, Attribute: true}
	}
	return out, nil
}

// CheckTotal verifies that every concrete item of reg and every text attribute it
// allows has a converter in d.
func CheckTotal(reg *schema.Registry, d *Downcaster) error {
	var errs []error
	for _, name := range reg.Names() {
		def, ok := reg.Definition(name)
		if !ok || def.Generic {
			continue
		}
		if !d.HasElement(name) {
			errs = append(errs, &MissingConverterError{Name: name})
		}
	}
	if def, ok := reg.Definition(schema.Text); ok {
		for _, key := range def.Attributes {
			if !d.HasAttribute(key) {
				errs = append(errs, &MissingConverterError{Name: key, Attribute: true})
			}
		}
	}
	return errors.Join(errs...)
}
