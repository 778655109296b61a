package view

import (
	"slices"
	"strings"
)

// Kind tells the editing layer how the user interacts with an element.
type Kind int

const (
	// KindContainer is a plain structural element.
	KindContainer Kind = iota
	// KindEditable is a region the caret can type into directly.
	KindEditable
	// KindWidget is selected and moved as a unit but not typed into.
	KindWidget
	// KindRoot is the outermost editable of an editing view.
	KindRoot
)

func (k Kind) String() string {
	switch k {
	case KindEditable:
		return "editable"
	case KindWidget:
		return "widget"
	case KindRoot:
		return "root"
	default:
		return "container"
	}
}

// Node is an *Element or a *Text.
type Node interface {
	isNode()
}

// Attribute is a single markup attribute. The class attribute is kept in
// Element.Classes instead.
type Attribute struct {
	Key   string
	Value string
}

// Element is a markup element.
type Element struct {
	Name     string
	Attrs    []Attribute
	Classes  []string
	Kind     Kind
	Children []Node
}

// Text is a run of character data.
type Text struct {
	Data string
}

func (*Element) isNode() {}
func (*Text) isNode()    {}

// NewElement creates a container element. A "class" attribute is split into classes.
func NewElement(name string, attrs ...Attribute) *Element {
	el := &Element{Name: name}
	for _, a := range attrs {
		el.SetAttr(a.Key, a.Value)
	}
	return el
}

// Attr returns the value of an attribute. For "class" it returns the joined classes.
func (e *Element) Attr(key string) (string, bool) {
	if key == "class" {
		return strings.Join(e.Classes, " "), len(e.Classes) > 0
	}
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets or replaces an attribute, keeping the original order.
func (e *Element) SetAttr(key, value string) {
	if key == "class" {
		e.Classes = nil
		e.AddClass(strings.Fields(value)...)
		return
	}
	for i, a := range e.Attrs {
		if a.Key == key {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attribute{Key: key, Value: value})
}

// HasClass reports whether the element carries class c.
func (e *Element) HasClass(c string) bool {
	return slices.Contains(e.Classes, c)
}

// AddClass appends classes that are not present yet.
func (e *Element) AddClass(classes ...string) {
	for _, c := range classes {
		if c != "" && !e.HasClass(c) {
			e.Classes = append(e.Classes, c)
		}
	}
}

// Append adds children at the end.
func (e *Element) Append(nodes ...Node) {
	e.Children = append(e.Children, nodes...)
}

// Elements returns the element children, skipping text.
func (e *Element) Elements() []*Element {
	var out []*Element
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok {
			out = append(out, el)
		}
	}
	return out
}

// Find returns the first element in document order, e included, for which match
// returns true.
func (e *Element) Find(match func(*Element) bool) *Element {
	if match(e) {
		return e
	}
	for _, c := range e.Elements() {
		if found := c.Find(match); found != nil {
			return found
		}
	}
	return nil
}

// Pattern matches elements by name and a set of required classes.
type Pattern struct {
	Name    string   `yaml:"name" json:"name"`
	Classes []string `yaml:"classes,omitempty" json:"classes,omitempty"`
}

// Matches reports whether el has the pattern's name and all of its classes.
func (p Pattern) Matches(el *Element) bool {
	if el == nil || !strings.EqualFold(el.Name, p.Name) {
		return false
	}
	for _, c := range p.Classes {
		if !el.HasClass(c) {
			return false
		}
	}
	return true
}

// Element creates an element satisfying the pattern.
func (p Pattern) Element() *Element {
	el := &Element{Name: p.Name}
	el.AddClass(p.Classes...)
	return el
}

func (p Pattern) String() string {
	if len(p.Classes) == 0 {
		return p.Name
	}
	return p.Name + "." + strings.Join(p.Classes, ".")
}
