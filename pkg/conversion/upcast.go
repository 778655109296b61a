package conversion

import (
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/kadavr95/spoiler/pkg/model"
	"github.com/kadavr95/spoiler/pkg/schema"
	"github.com/kadavr95/spoiler/pkg/view"
)

// FallbackBlock is the model element used to wrap stray text during upcast.
const FallbackBlock = "paragraph"

// FixFunc normalizes a freshly upcast element after its children were converted.
type FixFunc func(w *model.Writer, el *model.Element) error

// ElementMapping turns view elements matching View into model elements named Model.
type ElementMapping struct {
	Model string
	View  view.Pattern
	Fix   FixFunc
}

// AttributeMapping turns inline view elements into a text attribute. Views lists the
// tag names recognized on upcast.
type AttributeMapping struct {
	Key   string
	Value any
	Views []string
}

// ElementHandler converts a view element in full, replacing the mappings. It reports
// false to leave the element to the mappings. Handlers are keyed by view element name.
type ElementHandler func(c *UpcastContext, el *view.Element) (bool, error)

// UpcastContext is handed to an ElementHandler. Parent is the model element the view
// element is being converted into.
type UpcastContext struct {
	Parent *model.Element

	u     *Upcaster
	s     *upcastState
	attrs map[string]any
}

// Writer returns the writer of the running transaction.
func (c *UpcastContext) Writer() *model.Writer { return c.s.w }

// Schema returns the registry placements are checked against.
func (c *UpcastContext) Schema() *schema.Registry { return c.u.schema }

// Convert converts nodes into parent with the regular rules.
func (c *UpcastContext) Convert(parent *model.Element, nodes []view.Node) error {
	return c.u.convertChildren(c.s, parent, nodes, c.attrs)
}

// MarkConverted counts one view element as converted.
func (c *UpcastContext) MarkConverted() { c.s.stats.Converted++ }

// MarkSkipped counts one view element as skipped.
func (c *UpcastContext) MarkSkipped() { c.s.stats.Skipped++ }

// UpcastStats counts what happened to the view elements of one upcast.
type UpcastStats struct {
	Converted int `json:"converted"`
	Skipped   int `json:"skipped"`
}

// Add sums two stats.
func (s UpcastStats) Add(o UpcastStats) UpcastStats {
	return UpcastStats{Converted: s.Converted + o.Converted, Skipped: s.Skipped + o.Skipped}
}

// Upcaster converts view trees into model nodes.
type Upcaster struct {
	schema     *schema.Registry
	elements   []ElementMapping
	attributes []AttributeMapping
	handlers   map[string]ElementHandler
	logger     *slog.Logger
}

// NewUpcaster creates an upcaster checking placements against reg.
func NewUpcaster(reg *schema.Registry, logger *slog.Logger) *Upcaster {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Upcaster{schema: reg, handlers: make(map[string]ElementHandler), logger: logger}
}

// Element registers an element mapping. Later mappings take precedence.
func (u *Upcaster) Element(m ElementMapping) {
	u.elements = append(u.elements, m)
}

// Attribute registers an attribute mapping. Later mappings take precedence.
func (u *Upcaster) Attribute(m AttributeMapping) {
	u.attributes = append(u.attributes, m)
}

// Handle registers h for view elements called name, replacing any earlier handler.
func (u *Upcaster) Handle(name string, h ElementHandler) {
	u.handlers[strings.ToLower(name)] = h
}

// Convert appends the model form of nodes to parent. Unrecognized or misplaced
// elements are skipped and their content is converted in their place; text that
// cannot live in parent is wrapped in a paragraph when possible and dropped
// otherwise. Errors come only from the writer.
func (u *Upcaster) Convert(w *model.Writer, parent *model.Element, nodes []view.Node) (UpcastStats, error) {
	state := &upcastState{w: w}
	if err := u.convertChildren(state, parent, nodes, nil); err != nil {
		return state.stats, err
	}
	return state.stats, nil
}

type upcastState struct {
	w     *model.Writer
	stats UpcastStats
	// wrapper collects consecutive stray text of one parent.
	wrapper *model.Element
}

func (u *Upcaster) convertChildren(s *upcastState, parent *model.Element, nodes []view.Node, attrs map[string]any) error {
	for i, n := range nodes {
		switch n := n.(type) {
		case *view.Text:
			edge := i == 0 || i == len(nodes)-1
			if err := u.convertText(s, parent, n.Data, attrs, edge); err != nil {
				return err
			}
		case *view.Element:
			if err := u.convertElement(s, parent, n, attrs); err != nil {
				return err
			}
		}
	}
	return nil
}

func (u *Upcaster) convertElement(s *upcastState, parent *model.Element, el *view.Element, attrs map[string]any) error {
	if h, ok := u.handlers[strings.ToLower(el.Name)]; ok {
		s.wrapper = nil
		handled, err := h(&UpcastContext{Parent: parent, u: u, s: s, attrs: attrs}, el)
		if err != nil || handled {
			s.wrapper = nil
			return err
		}
	}

	if m, ok := u.matchElement(el); ok {
		ctx := parent.Context()
		if !u.schema.IsAllowedAt(ctx, m.Model) {
			u.logger.Debug("upcast skipped misplaced element", "element", m.View.String(), "context", ctx.String())
			s.stats.Skipped++
			return u.convertChildren(s, parent, el.Children, attrs)
		}

		s.wrapper = nil
		node := s.w.CreateElement(m.Model, nil)
		if err := s.w.Append(node, parent); err != nil {
			return err
		}
		s.stats.Converted++
		if err := u.convertChildren(s, node, el.Children, nil); err != nil {
			return err
		}
		s.wrapper = nil
		if m.Fix != nil {
			return m.Fix(s.w, node)
		}
		return nil
	}

	if m, ok := u.matchAttribute(el); ok {
		s.stats.Converted++
		next := maps.Clone(attrs)
		if next == nil {
			next = make(map[string]any)
		}
		next[m.Key] = m.Value
		return u.convertChildren(s, parent, el.Children, next)
	}

	u.logger.Debug("upcast skipped unrecognized element", "element", el.Name, "classes", strings.Join(el.Classes, " "))
	s.stats.Skipped++
	return u.convertChildren(s, parent, el.Children, attrs)
}

func (u *Upcaster) convertText(s *upcastState, parent *model.Element, data string, attrs map[string]any, edge bool) error {
	blank := strings.TrimSpace(data) == ""
	target := parent

	switch {
	case u.schema.IsAllowedAt(parent.Context(), schema.Text):
		if blank && edge {
			return nil
		}
	case blank:
		return nil
	case s.wrapper != nil && s.wrapper.Parent() == parent:
		target = s.wrapper
	case u.schema.IsAllowedAt(parent.Context(), FallbackBlock):
		s.wrapper = s.w.CreateElement(FallbackBlock, nil)
		if err := s.w.Append(s.wrapper, parent); err != nil {
			return err
		}
		target = s.wrapper
	default:
		u.logger.Debug("upcast dropped text", "context", parent.Context().String())
		return nil
	}

	allowed := make(map[string]any, len(attrs))
	for k, v := range attrs {
		if u.schema.IsAttributeAllowed(schema.Text, k) {
			allowed[k] = v
		}
	}
	return s.w.Append(s.w.CreateText(data, allowed), target)
}

func (u *Upcaster) matchElement(el *view.Element) (ElementMapping, bool) {
	for _, m := range slices.Backward(u.elements) {
		if m.View.Matches(el) {
			return m, true
		}
	}
	return ElementMapping{}, false
}

func (u *Upcaster) matchAttribute(el *view.Element) (AttributeMapping, bool) {
	for _, m := range slices.Backward(u.attributes) {
		for _, name := range m.Views {
			if strings.EqualFold(name, el.Name) {
				return m, true
			}
		}
	}
	return AttributeMapping{}, false
}
