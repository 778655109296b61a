package conversion

import (
	"log/slog"

	"github.com/kadavr95/spoiler/pkg/model"
	"github.com/kadavr95/spoiler/pkg/schema"
	"github.com/kadavr95/spoiler/pkg/view"
)

// Editing view markers.
const (
	ClassWidget         = "ck-widget"
	ClassEditable       = "ck-editor__editable"
	ClassNestedEditable = "ck-editor__nested-editable"
	AttrContentEditable = "contenteditable"
	AttrAriaLabel       = "aria-label"
)

// Conversion groups the three directions. Plugins register on it during editor
// initialization.
type Conversion struct {
	upcast  *Upcaster
	data    *Downcaster
	editing *Downcaster
}

// New creates an empty conversion pipeline for reg.
func New(reg *schema.Registry, logger *slog.Logger) *Conversion {
	return &Conversion{
		upcast:  NewUpcaster(reg, logger),
		data:    NewDowncaster(),
		editing: NewDowncaster(),
	}
}

// Upcast returns the markup to model direction.
func (c *Conversion) Upcast() *Upcaster { return c.upcast }

// DataDowncast returns the model to persisted markup direction.
func (c *Conversion) DataDowncast() *Downcaster { return c.data }

// EditingDowncast returns the model to editing view direction.
func (c *Conversion) EditingDowncast() *Downcaster { return c.editing }

// ElementToElement registers the same one to one element mapping in all directions.
func (c *Conversion) ElementToElement(modelName string, pattern view.Pattern) {
	c.upcast.Element(ElementMapping{Model: modelName, View: pattern})
	create := func(*model.Element) *view.Element { return pattern.Element() }
	c.data.Element(modelName, create)
	c.editing.Element(modelName, create)
}

// AttributeToElement maps a boolean text attribute to inline tags. The first tag is
// used for downcast.
func (c *Conversion) AttributeToElement(key string, tags ...string) {
	if len(tags) == 0 {
		return
	}
	c.upcast.Attribute(AttributeMapping{Key: key, Value: true, Views: tags})
	create := func(value any) *view.Element {
		if v, ok := value.(bool); ok && !v {
			return nil
		}
		return view.NewElement(tags[0])
	}
	c.data.Attribute(key, create)
	c.editing.Attribute(key, create)
}

// ToWidget marks el as a widget: selectable as a unit, not typed into.
func ToWidget(el *view.Element, label string) *view.Element {
	el.Kind = view.KindWidget
	el.AddClass(ClassWidget)
	el.SetAttr(AttrContentEditable, "false")
	if label != "" {
		el.SetAttr(AttrAriaLabel, label)
	}
	return el
}

// ToWidgetEditable marks el as an editable region nested in a widget.
func ToWidgetEditable(el *view.Element) *view.Element {
	el.Kind = view.KindEditable
	el.AddClass(ClassEditable, ClassNestedEditable)
	el.SetAttr(AttrContentEditable, "true")
	return el
}
