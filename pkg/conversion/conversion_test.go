package conversion

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadavr95/spoiler/pkg/model"
	"github.com/kadavr95/spoiler/pkg/schema"
	"github.com/kadavr95/spoiler/pkg/view"
)

type fixture struct {
	reg  *schema.Registry
	conv *Conversion
	doc  *model.Document
}

// newFixture wires paragraphs, a box widget with caption and body regions, and bold.
func newFixture(t *testing.T, fix FixFunc) *fixture {
	t.Helper()

	r := schema.NewRegistry()
	require.NoError(t, r.Register(schema.Descriptor{Name: "paragraph", InheritAllFrom: schema.Block}))
	require.NoError(t, r.Register(schema.Descriptor{Name: "box", InheritAllFrom: schema.BlockObject}))
	require.NoError(t, r.Register(schema.Descriptor{Name: "caption", AllowIn: []string{"box"}, AllowContentOf: []string{schema.Block}, IsLimit: true}))
	require.NoError(t, r.Register(schema.Descriptor{Name: "body", AllowIn: []string{"box"}, AllowContentOf: []string{schema.Root}, IsLimit: true}))
	require.NoError(t, r.Extend(schema.Descriptor{Name: schema.Text, AllowAttributes: []string{"bold"}}))

	c := New(r, nil)
	c.ElementToElement("paragraph", view.Pattern{Name: "p"})
	c.ElementToElement("caption", view.Pattern{Name: "figcaption"})
	c.ElementToElement("body", view.Pattern{Name: "div", Classes: []string{"body"}})
	c.Upcast().Element(ElementMapping{Model: "box", View: view.Pattern{Name: "figure", Classes: []string{"box"}}, Fix: fix})
	c.DataDowncast().Element("box", func(*model.Element) *view.Element {
		return view.Pattern{Name: "figure", Classes: []string{"box"}}.Element()
	})
	c.EditingDowncast().Element("box", func(*model.Element) *view.Element {
		return ToWidget(view.Pattern{Name: "figure", Classes: []string{"box"}}.Element(), "Box widget")
	})
	c.EditingDowncast().Element("caption", func(*model.Element) *view.Element {
		return ToWidgetEditable(view.NewElement("figcaption"))
	})
	c.AttributeToElement("bold", "strong", "b")

	require.NoError(t, r.Freeze())
	return &fixture{reg: r, conv: c, doc: model.NewDocument(r)}
}

func (f *fixture) upcast(t *testing.T, markup string) UpcastStats {
	t.Helper()

	nodes, err := view.Parse(markup)
	require.NoError(t, err)

	var stats UpcastStats
	require.NoError(t, f.doc.Change(func(w *model.Writer) error {
		var err error
		stats, err = f.conv.Upcast().Convert(w, w.Root(), nodes)
		return err
	}))
	return stats
}

func (f *fixture) render(t *testing.T, d *Downcaster) string {
	t.Helper()

	nodes, err := d.ConvertChildren(f.doc.Root())
	require.NoError(t, err)
	out, err := view.Render(nodes...)
	require.NoError(t, err)
	return out
}

func TestUpcast(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
		stats  UpcastStats
	}{
		{
			name:   "paragraph with bold",
			markup: "<p>a<strong>b</strong></p>",
			want:   `<paragraph>a<$text bold="true">b</$text></paragraph>`,
			stats:  UpcastStats{Converted: 2},
		},
		{
			name:   "second attribute tag",
			markup: "<p><b>b</b></p>",
			want:   `<paragraph><$text bold="true">b</$text></paragraph>`,
			stats:  UpcastStats{Converted: 2},
		},
		{
			name:   "unrecognized inline element is unwrapped",
			markup: "<p>a<span>b</span></p>",
			want:   "<paragraph>ab</paragraph>",
			stats:  UpcastStats{Converted: 1, Skipped: 1},
		},
		{
			name:   "stray text is wrapped in one paragraph",
			markup: "hello <b>x</b>",
			want:   `<paragraph>hello <$text bold="true">x</$text></paragraph>`,
			stats:  UpcastStats{Converted: 1},
		},
		{
			name:   "misplaced element is skipped and its content kept",
			markup: `<div class="body"><p>x</p></div>`,
			want:   "<paragraph>x</paragraph>",
			stats:  UpcastStats{Converted: 1, Skipped: 1},
		},
		{
			name:   "whitespace between blocks is dropped",
			markup: "<p>a</p>\n  <p>b</p>\n",
			want:   "<paragraph>a</paragraph><paragraph>b</paragraph>",
			stats:  UpcastStats{Converted: 2},
		},
		{
			name:   "nested structure",
			markup: `<figure class="box"><figcaption>c</figcaption><div class="body"><p>d</p></div></figure>`,
			want:   "<box><caption>c</caption><body><paragraph>d</paragraph></body></box>",
			stats:  UpcastStats{Converted: 4},
		},
		{
			name:   "text inside an object is dropped",
			markup: `<figure class="box">loose</figure>`,
			want:   "<box></box>",
			stats:  UpcastStats{Converted: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)

			stats := f.upcast(t, tt.markup)

			assert.Equal(t, tt.want, model.Stringify(f.doc.Root()))
			assert.Equal(t, tt.stats, stats)
		})
	}
}

func TestUpcast_FixRunsAfterChildren(t *testing.T) {
	var seen string
	f := newFixture(t, func(w *model.Writer, el *model.Element) error {
		seen = model.Stringify(el)
		if len(el.ChildElements("body")) == 0 {
			body := w.CreateElement("body", nil)
			if err := w.Append(body, el); err != nil {
				return err
			}
			return w.Append(w.CreateElement("paragraph", nil), body)
		}
		return nil
	})

	f.upcast(t, `<figure class="box"><figcaption>c</figcaption></figure>`)

	assert.Equal(t, "<box><caption>c</caption></box>", seen)
	assert.Equal(t, "<box><caption>c</caption><body><paragraph></paragraph></body></box>", model.Stringify(f.doc.Root()))
}

func TestDataDowncast(t *testing.T) {
	f := newFixture(t, nil)
	in := `<p>a<strong>b</strong></p><figure class="box"><figcaption>c</figcaption><div class="body"><p>d</p></div></figure>`
	f.upcast(t, in)

	assert.Equal(t, in, f.render(t, f.conv.DataDowncast()))
}

func TestEditingDowncast(t *testing.T) {
	f := newFixture(t, nil)
	f.upcast(t, `<figure class="box"><figcaption>c</figcaption><div class="body"><p>d</p></div></figure>`)

	nodes, err := f.conv.EditingDowncast().ConvertChildren(f.doc.Root())
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	box := nodes[0].(*view.Element)
	assert.Equal(t, view.KindWidget, box.Kind)
	caption := box.Elements()[0]
	assert.Equal(t, view.KindEditable, caption.Kind)
	assert.Equal(t, view.KindContainer, box.Elements()[1].Kind)

	assert.Equal(t,
		`<figure class="box ck-widget" contenteditable="false" aria-label="Box widget">`+
			`<figcaption class="ck-editor__editable ck-editor__nested-editable" contenteditable="true">c</figcaption>`+
			`<div class="body"><p>d</p></div></figure>`,
		f.render(t, f.conv.EditingDowncast()))
}

func TestDowncast_MissingConverter(t *testing.T) {
	f := newFixture(t, nil)
	f.upcast(t, "<p>x</p>")

	d := NewDowncaster()
	_, err := d.ConvertChildren(f.doc.Root())

	var missing *MissingConverterError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "paragraph", missing.Name)
}

func TestDowncast_AttributeOrder(t *testing.T) {
	f := newFixture(t, nil)
	f.upcast(t, "<p><strong>x</strong></p>")

	d := NewDowncaster()
	d.Element("paragraph", func(*model.Element) *view.Element { return view.NewElement("p") })
	d.Attribute("bold", func(any) *view.Element { return view.NewElement("b") })
	d.Attribute("bold", func(any) *view.Element { return view.NewElement("strong") })

	nodes, err := d.ConvertChildren(f.doc.Root())
	require.NoError(t, err)
	out, err := view.Render(nodes...)
	require.NoError(t, err)
	assert.Equal(t, "<p><strong>x</strong></p>", out)
}

func TestCheckTotal(t *testing.T) {
	f := newFixture(t, nil)
	assert.NoError(t, CheckTotal(f.reg, f.conv.DataDowncast()))

	partial := NewDowncaster()
	partial.Element("paragraph", func(*model.Element) *view.Element { return view.NewElement("p") })
	err := CheckTotal(f.reg, partial)
	require.Error(t, err)

	var missing *MissingConverterError
	require.True(t, errors.As(err, &missing))
	assert.Contains(t, err.Error(), `element "box"`)
	assert.Contains(t, err.Error(), `text attribute "bold"`)
}

func TestUpcast_Handler(t *testing.T) {
	f := newFixture(t, nil)
	f.conv.Upcast().Handle("ASIDE", func(c *UpcastContext, el *view.Element) (bool, error) {
		if el.HasClass("pass") {
			return false, nil
		}
		c.MarkConverted()
		return true, c.Convert(c.Parent, el.Children)
	})

	stats := f.upcast(t, `<aside><p>a</p></aside><aside class="pass"><p>b</p></aside>`)

	assert.Equal(t, "<paragraph>a</paragraph><paragraph>b</paragraph>", model.Stringify(f.doc.Root()))
	assert.Equal(t, UpcastStats{Converted: 3, Skipped: 1}, stats)
}

func TestDowncast_Group(t *testing.T) {
	f := newFixture(t, nil)
	f.upcast(t, `<p>a</p><p>b</p><figure class="box"><figcaption>c</figcaption><div class="body"><p>d</p></div></figure>`)

	d := f.conv.DataDowncast()
	d.Group("paragraph", func(run []*model.Element, convert func(*model.Element) (*view.Element, error)) ([]view.Node, error) {
		section := view.NewElement("section")
		for _, el := range run {
			p, err := convert(el)
			if err != nil {
				return nil, err
			}
			section.Append(p)
		}
		return []view.Node{section}, nil
	})

	assert.Equal(t,
		`<section><p>a</p><p>b</p></section>`+
			`<figure class="box"><figcaption>c</figcaption><div class="body"><section><p>d</p></section></div></figure>`,
		f.render(t, d))
}
