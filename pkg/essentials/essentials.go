package essentials

import (
	"github.com/kadavr95/spoiler/pkg/editor"
	"github.com/kadavr95/spoiler/pkg/schema"
	"github.com/kadavr95/spoiler/pkg/view"
)

// Plugin names.
const (
	ParagraphName = "Paragraph"
	HeadingName   = "Heading"
	BoldName      = "Bold"
	ItalicName    = "Italic"
	ListName      = "List"
)

// All returns the built-in plugins in dependency order.
func All() []editor.Plugin {
	return []editor.Plugin{Paragraph{}, Heading{}, Bold{}, Italic{}, List{}}
}

// Paragraph registers the "paragraph" block, stored as <p>.
type Paragraph struct{}

// Name returns ParagraphName.
func (Paragraph) Name() string { return ParagraphName }

// Init registers the paragraph item and its converters.
func (Paragraph) Init(ed *editor.Editor) error {
	if err := ed.Schema().Register(schema.Descriptor{Name: "paragraph", InheritAllFrom: schema.Block}); err != nil {
		return err
	}
	ed.Conversion().ElementToElement("paragraph", view.Pattern{Name: "p"})
	return nil
}

// HeadingOption maps a heading model element to its tag.
type HeadingOption struct {
	Model string
	Tag   string
}

// DefaultHeadings maps heading1..3 to h2..h4.
var DefaultHeadings = []HeadingOption{
	{Model: "heading1", Tag: "h2"},
	{Model: "heading2", Tag: "h3"},
	{Model: "heading3", Tag: "h4"},
}

// Heading registers heading blocks. A zero value uses DefaultHeadings.
type Heading struct {
	Options []HeadingOption
}

// Name returns HeadingName.
func (Heading) Name() string { return HeadingName }

// Requires lists Paragraph.
func (Heading) Requires() []string { return []string{ParagraphName} }

// Init registers one block per heading option.
func (h Heading) Init(ed *editor.Editor) error {
	options := h.Options
	if len(options) == 0 {
		options = DefaultHeadings
	}
	for _, o := range options {
		if err := ed.Schema().Register(schema.Descriptor{Name: o.Model, InheritAllFrom: schema.Block}); err != nil {
			return err
		}
		ed.Conversion().ElementToElement(o.Model, view.Pattern{Name: o.Tag})
	}
	return nil
}

// Bold adds the "bold" text attribute, stored as <strong> and read from <strong> and <b>.
type Bold struct{}

// Name returns BoldName.
func (Bold) Name() string { return BoldName }

// Init allows bold on text and maps it to <strong>.
func (Bold) Init(ed *editor.Editor) error {
	return textAttribute(ed, "bold", "strong", "b")
}

// Italic adds the "italic" text attribute, stored as <i> and read from <i> and <em>.
type Italic struct{}

// Name returns ItalicName.
func (Italic) Name() string { return ItalicName }

// Init allows italic on text and maps it to <i>.
func (Italic) Init(ed *editor.Editor) error {
	return textAttribute(ed, "italic", "i", "em")
}

func textAttribute(ed *editor.Editor, key string, tags ...string) error {
	if err := ed.Schema().Extend(schema.Descriptor{Name: schema.Text, AllowAttributes: []string{key}}); err != nil {
		return err
	}
	ed.Conversion().AttributeToElement(key, tags...)
	return nil
}
