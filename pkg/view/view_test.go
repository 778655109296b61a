package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	nodes, err := Parse(`<details class="spoiler open" data-x="1"><!-- note --><summary class="spoiler-title">Hi &amp; bye</summary></details>tail`)
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	details, ok := nodes[0].(*Element)
	require.True(t, ok)
	assert.Equal(t, "details", details.Name)
	assert.Equal(t, []string{"spoiler", "open"}, details.Classes)
	v, ok := details.Attr("data-x")
	assert.True(t, ok)
	assert.Equal(t, "1", v)
	require.Len(t, details.Children, 1, "comments are dropped")

	summary := details.Elements()[0]
	assert.Equal(t, []Node{&Text{Data: "Hi & bye"}}, summary.Children)
	assert.Equal(t, &Text{Data: "tail"}, nodes[1])
}

func TestRender(t *testing.T) {
	el := NewElement("details", Attribute{Key: "contenteditable", Value: "false"}, Attribute{Key: "class", Value: "spoiler ck-widget"})
	el.Append(&Text{Data: "a < b"})

	out, err := Render(el, &Text{Data: "!"})
	require.NoError(t, err)
	assert.Equal(t, `<details class="spoiler ck-widget" contenteditable="false">a &lt; b</details>!`, out)
}

func TestParseRenderRoundTrip(t *testing.T) {
	in := `<details class="spoiler"><summary class="spoiler-title">T</summary><div class="spoiler-description"><p><strong>x</strong></p></div></details>`

	nodes, err := Parse(in)
	require.NoError(t, err)
	out, err := Render(nodes...)
	require.NoError(t, err)

	assert.Equal(t, in, out)
}

func TestPattern(t *testing.T) {
	p := Pattern{Name: "div", Classes: []string{"spoiler-description"}}

	tests := []struct {
		name string
		el   *Element
		want bool
	}{
		{"exact", NewElement("div", Attribute{Key: "class", Value: "spoiler-description"}), true},
		{"extra class", NewElement("div", Attribute{Key: "class", Value: "x spoiler-description"}), true},
		{"upper case tag", NewElement("DIV", Attribute{Key: "class", Value: "spoiler-description"}), true},
		{"missing class", NewElement("div"), false},
		{"other tag", NewElement("section", Attribute{Key: "class", Value: "spoiler-description"}), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Matches(tt.el))
		})
	}

	assert.True(t, p.Matches(p.Element()))
	assert.Equal(t, "div.spoiler-description", p.String())
}

func TestElement_Attributes(t *testing.T) {
	el := NewElement("p")
	el.SetAttr("a", "1")
	el.SetAttr("b", "2")
	el.SetAttr("a", "3")
	el.AddClass("x", "x", "")

	assert.Equal(t, []Attribute{{Key: "a", Value: "3"}, {Key: "b", Value: "2"}}, el.Attrs)
	cls, ok := el.Attr("class")
	assert.True(t, ok)
	assert.Equal(t, "x", cls)
	_, ok = el.Attr("missing")
	assert.False(t, ok)

	found := el.Find(func(e *Element) bool { return e.Name == "p" })
	assert.Same(t, el, found)
	assert.Equal(t, "widget", KindWidget.String())
}
