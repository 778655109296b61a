package essentials

import (
	"strings"

	"github.com/kadavr95/spoiler/pkg/conversion"
	"github.com/kadavr95/spoiler/pkg/editor"
	"github.com/kadavr95/spoiler/pkg/model"
	"github.com/kadavr95/spoiler/pkg/schema"
	"github.com/kadavr95/spoiler/pkg/view"
)

// List model vocabulary. Lists are flat in the model: every item is a block that
// records its list type and nesting depth.
const (
	ListItem       = "listItem"
	AttrListType   = "listType"
	AttrListIndent = "listIndent"
	ListBulleted   = "bulleted"
	ListNumbered   = "numbered"
)

var listTags = map[string]string{
	ListBulleted: "ul",
	ListNumbered: "ol",
}

// List registers bulleted (<ul>) and numbered (<ol>) lists, nested to any depth.
type List struct{}

// Name returns ListName.
func (List) Name() string { return ListName }

// Requires lists Paragraph.
func (List) Requires() []string { return []string{ParagraphName} }

// Init registers listItem and the list converters.
func (List) Init(ed *editor.Editor) error {
	err := ed.Schema().Register(schema.Descriptor{
		Name:            ListItem,
		InheritAllFrom:  schema.Block,
		AllowAttributes: []string{AttrListType, AttrListIndent},
	})
	if err != nil {
		return err
	}

	c := ed.Conversion()
	for listType, tag := range listTags {
		c.Upcast().Handle(tag, upcastList(listType))
	}
	li := func(*model.Element) *view.Element { return view.NewElement("li") }
	for _, d := range []*conversion.Downcaster{c.DataDowncast(), c.EditingDowncast()} {
		d.Element(ListItem, li)
		d.Group(ListItem, downcastList)
	}
	return nil
}

func upcastList(listType string) conversion.ElementHandler {
	return func(c *conversion.UpcastContext, el *view.Element) (bool, error) {
		if !c.Schema().IsAllowedAt(c.Parent.Context(), ListItem) {
			return false, nil
		}
		return true, convertList(c, el, listType, 0)
	}
}

func convertList(c *conversion.UpcastContext, list *view.Element, listType string, indent int) error {
	c.MarkConverted()
	for _, n := range list.Children {
		if t, ok := n.(*view.Text); ok && strings.TrimSpace(t.Data) == "" {
			continue
		}
		li, ok := n.(*view.Element)
		if !ok || li.Name != "li" {
			c.MarkSkipped()
			li = &view.Element{Name: "li", Children: []view.Node{n}}
		} else {
			c.MarkConverted()
		}
		if err := convertItem(c, li, listType, indent); err != nil {
			return err
		}
	}
	return nil
}

// convertItem appends the items of one <li> to c.Parent. Content after a nested list
// continues in a new item at the same depth.
func convertItem(c *conversion.UpcastContext, li *view.Element, listType string, indent int) error {
	var (
		item    *model.Element
		created bool
		run     []view.Node
	)
	open := func() error {
		if item != nil {
			return nil
		}
		item = c.Writer().CreateElement(ListItem, map[string]any{AttrListType: listType, AttrListIndent: indent})
		created = true
		return c.Writer().Append(item, c.Parent)
	}
	flush := func() error {
		if len(run) == 0 {
			return nil
		}
		if err := open(); err != nil {
			return err
		}
		err := c.Convert(item, run)
		run = nil
		return err
	}

	for _, n := range li.Children {
		nested, ok := n.(*view.Element)
		if !ok {
			run = append(run, n)
			continue
		}
		nestedType, ok := listTypeOf(nested.Name)
		if !ok {
			run = append(run, n)
			continue
		}
		if err := flush(); err != nil {
			return err
		}
		// A nested list needs an item to hang from.
		if err := open(); err != nil {
			return err
		}
		if err := convertList(c, nested, nestedType, indent+1); err != nil {
			return err
		}
		item = nil
	}
	if err := flush(); err != nil {
		return err
	}
	if !created {
		return open()
	}
	return nil
}

func listTypeOf(tag string) (string, bool) {
	for listType, t := range listTags {
		if t == tag {
			return listType, true
		}
	}
	return "", false
}

type openList struct {
	tag  string
	list *view.Element
	last *view.Element
}

// downcastList rebuilds nested <ul>/<ol> elements from a run of list items. An item
// deeper than its predecessor allows is lifted to the next available depth.
func downcastList(run []*model.Element, convert func(*model.Element) (*view.Element, error)) ([]view.Node, error) {
	var (
		out   []view.Node
		stack []openList
	)
	for _, item := range run {
		li, err := convert(item)
		if err != nil {
			return nil, err
		}
		tag := listTags[itemType(item)]
		indent := min(itemIndent(item), len(stack))

		stack = stack[:min(len(stack), indent+1)]
		if len(stack) == indent+1 && stack[indent].tag != tag {
			stack = stack[:indent]
		}
		if len(stack) == indent {
			list := view.NewElement(tag)
			if indent == 0 {
				out = append(out, list)
			} else {
				stack[indent-1].last.Append(list)
			}
			stack = append(stack, openList{tag: tag, list: list})
		}
		stack[indent].list.Append(li)
		stack[indent].last = li
	}
	return out, nil
}

func itemType(el *model.Element) string {
	if v, _ := el.Attribute(AttrListType); v == ListNumbered {
		return ListNumbered
	}
	return ListBulleted
}

func itemIndent(el *model.Element) int {
	v, _ := el.Attribute(AttrListIndent)
	switch n := v.(type) {
	case int:
		return max(n, 0)
	case float64:
		return max(int(n), 0)
	default:
		return 0
	}
}
