package spoiler

import (
	"errors"
	"fmt"

	"github.com/kadavr95/spoiler/pkg/conversion"
	"github.com/kadavr95/spoiler/pkg/editor"
	"github.com/kadavr95/spoiler/pkg/essentials"
	"github.com/kadavr95/spoiler/pkg/model"
	"github.com/kadavr95/spoiler/pkg/schema"
	"github.com/kadavr95/spoiler/pkg/view"
)

// PluginName is the name the plugin registers under.
const PluginName = "Spoiler"

// CommandName is the name of the insert command.
const CommandName = "insertSpoiler"

// Model element names.
const (
	ModelSpoiler     = "spoiler"
	ModelTitle       = "spoilerTitle"
	ModelDescription = "spoilerDescription"
)

// DefaultLabel is the accessible label of the spoiler widget in the editing view.
const DefaultLabel = "Spoiler widget"

// Markup patterns of the persisted format.
var (
	SpoilerView     = view.Pattern{Name: "details", Classes: []string{"spoiler"}}
	TitleView       = view.Pattern{Name: "summary", Classes: []string{"spoiler-title"}}
	DescriptionView = view.Pattern{Name: "div", Classes: []string{"spoiler-description"}}
)

// ErrInvalidShape is wrapped by every spoiler structure violation.
var ErrInvalidShape = errors.New("invalid spoiler shape")

// Plugin installs the spoiler: its schema, converters, structure check and command.
type Plugin struct {
	label string
	build BuildFunc
}

// Option configures the Plugin.
type Option func(*Plugin)

// WithLabel sets the accessible label of the widget.
func WithLabel(label string) Option {
	return func(p *Plugin) {
		p.label = label
	}
}

// WithBuildFunc replaces the subtree factory used by the insert command.
func WithBuildFunc(build BuildFunc) Option {
	return func(p *Plugin) {
		p.build = build
	}
}

// New creates the plugin.
func New(opts ...Option) *Plugin {
	p := &Plugin{label: DefaultLabel}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns PluginName.
func (p *Plugin) Name() string { return PluginName }

// Requires lists Paragraph: an empty description holds one paragraph.
func (p *Plugin) Requires() []string { return []string{essentials.ParagraphName} }

// Init registers the spoiler items, their converters and the insert command on ed.
func (p *Plugin) Init(ed *editor.Editor) error {
	if err := RegisterSchema(ed.Schema()); err != nil {
		return err
	}
	ed.Document().AddInvariant(ModelSpoiler, CheckShape)
	p.defineConverters(ed.Conversion())

	var cmdOpts []CommandOption
	cmdOpts = append(cmdOpts, WithCommandLogger(ed.Logger()))
	if p.build != nil {
		cmdOpts = append(cmdOpts, WithBuild(p.build))
	}
	return ed.Commands().Add(CommandName, NewInsertCommand(ed.Document(), ed.Schema(), cmdOpts...))
}

// RegisterSchema registers the three spoiler items and forbids spoilers anywhere
// inside a description.
func RegisterSchema(reg *schema.Registry) error {
	descriptors := []schema.Descriptor{
		{
			// A self-contained block allowed wherever blocks are.
			Name:           ModelSpoiler,
			InheritAllFrom: schema.BlockObject,
		},
		{
			Name:           ModelTitle,
			IsLimit:        true,
			AllowIn:        []string{ModelSpoiler},
			AllowContentOf: []string{schema.Block},
		},
		{
			Name:           ModelDescription,
			IsLimit:        true,
			AllowIn:        []string{ModelSpoiler},
			AllowContentOf: []string{schema.Root},
		},
	}
	if err := reg.RegisterAll(descriptors...); err != nil {
		return err
	}

	return reg.AddChildCheck(func(ctx schema.Context, child string) bool {
		return !(child == ModelSpoiler && ctx.Contains(ModelDescription))
	})
}

func (p *Plugin) defineConverters(c *conversion.Conversion) {
	c.Upcast().Element(conversion.ElementMapping{Model: ModelSpoiler, View: SpoilerView, Fix: normalize})
	c.Upcast().Element(conversion.ElementMapping{Model: ModelTitle, View: TitleView})
	c.Upcast().Element(conversion.ElementMapping{Model: ModelDescription, View: DescriptionView})

	c.DataDowncast().Element(ModelSpoiler, func(*model.Element) *view.Element { return SpoilerView.Element() })
	c.DataDowncast().Element(ModelTitle, func(*model.Element) *view.Element { return TitleView.Element() })
	c.DataDowncast().Element(ModelDescription, func(*model.Element) *view.Element { return DescriptionView.Element() })

	c.EditingDowncast().Element(ModelSpoiler, func(*model.Element) *view.Element {
		return conversion.ToWidget(SpoilerView.Element(), p.label)
	})
	c.EditingDowncast().Element(ModelTitle, func(*model.Element) *view.Element {
		return conversion.ToWidgetEditable(TitleView.Element())
	})
	c.EditingDowncast().Element(ModelDescription, func(*model.Element) *view.Element {
		return conversion.ToWidgetEditable(DescriptionView.Element())
	})
}

// CheckShape verifies that el holds exactly a title followed by a description with
// at least one block.
func CheckShape(el *model.Element) error {
	if el.ChildCount() != 2 {
		return fmt.Errorf("%w: expected a title and a description, got %d children", ErrInvalidShape, el.ChildCount())
	}
	if el.Child(0).Name() != ModelTitle {
		return fmt.Errorf("%w: first child is %s, not %s", ErrInvalidShape, el.Child(0).Name(), ModelTitle)
	}
	desc, ok := el.Child(1).(*model.Element)
	if !ok || desc.Name() != ModelDescription {
		return fmt.Errorf("%w: second child is %s, not %s", ErrInvalidShape, el.Child(1).Name(), ModelDescription)
	}
	if desc.IsEmpty() {
		return fmt.Errorf("%w: description is empty", ErrInvalidShape)
	}
	return nil
}

// normalize completes an upcast spoiler: missing regions are created, duplicates are
// merged into the first one, and an empty description gets a paragraph.
func normalize(w *model.Writer, el *model.Element) error {
	title, err := single(w, el, ModelTitle)
	if err != nil {
		return err
	}
	desc, err := single(w, el, ModelDescription)
	if err != nil {
		return err
	}

	if err := w.InsertAt(title, el, 0); err != nil {
		return err
	}
	if err := w.Append(desc, el); err != nil {
		return err
	}
	if desc.IsEmpty() {
		return w.Append(w.CreateElement(conversion.FallbackBlock, nil), desc)
	}
	return nil
}

// single returns the only child of el called name, creating it when missing and
// emptying surplus ones into it.
func single(w *model.Writer, el *model.Element, name string) (*model.Element, error) {
	found := el.ChildElements(name)
	if len(found) == 0 {
		created := w.CreateElement(name, nil)
		return created, w.Append(created, el)
	}

	first := found[0]
	for _, extra := range found[1:] {
		for _, c := range extra.Children() {
			if err := w.Append(c, first); err != nil {
				return nil, err
			}
		}
		if err := w.Remove(extra); err != nil {
			return nil, err
		}
	}
	return first, nil
}
