package outline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/muesli/termenv"

	"github.com/kadavr95/spoiler/pkg/model"
	"github.com/kadavr95/spoiler/pkg/schema"
)

// Palette colours for the outline.
const (
	colorObject = "#f472b6"
	colorLimit  = "#a78bfa"
	colorBlock  = "#818cf8"
	colorText   = "#9ca3af"
	colorCaret  = "#fbbf24"
)

// Render draws the model tree as an indented outline. Element names are coloured by
// schema role using profile; termenv.Ascii renders plain text. The element holding
// caret is marked with its offset.
func Render(root *model.Element, reg *schema.Registry, caret model.Position, profile termenv.Profile) string {
	r := &renderer{reg: reg, caret: caret, profile: profile}
	r.element(root, "", true, true)
	return r.sb.String()
}

type renderer struct {
	sb      strings.Builder
	reg     *schema.Registry
	caret   model.Position
	profile termenv.Profile
}

func (r *renderer) paint(s, color string) string {
	return r.profile.String(s).Foreground(r.profile.Color(color)).String()
}

func (r *renderer) element(el *model.Element, prefix string, last, top bool) {
	label := r.paint(el.Name(), r.color(el))
	if role := r.role(el); role != "" {
		label += " (" + role + ")"
	}
	if attrs := formatAttrs(el.Attributes()); attrs != "" {
		label += " " + attrs
	}
	if r.caret.Parent == el {
		label += " " + r.paint(fmt.Sprintf("<caret %d>", r.caret.Offset), colorCaret)
	}

	childPrefix := prefix
	if top {
		r.sb.WriteString(label + "\n")
	} else {
		branch := "├── "
		childPrefix += "│   "
		if last {
			branch = "└── "
			childPrefix = prefix + "    "
		}
		r.sb.WriteString(prefix + branch + label + "\n")
	}

	children := el.Children()
	for i, c := range children {
		isLast := i == len(children)-1
		switch c := c.(type) {
		case *model.Element:
			r.element(c, childPrefix, isLast, false)
		case *model.Text:
			branch := "├── "
			if isLast {
				branch = "└── "
			}
			line := r.paint(fmt.Sprintf("%q", c.Data()), colorText)
			if attrs := formatAttrs(c.Attributes()); attrs != "" {
				line += " " + attrs
			}
			r.sb.WriteString(childPrefix + branch + line + "\n")
		}
	}
}

func (r *renderer) role(el *model.Element) string {
	switch {
	case el.Parent() == nil:
		return ""
	case r.reg.IsObject(el.Name()):
		return "object"
	case r.reg.IsLimit(el.Name()):
		return "limit"
	default:
		return ""
	}
}

func (r *renderer) color(el *model.Element) string {
	switch r.role(el) {
	case "object":
		return colorObject
	case "limit":
		return colorLimit
	default:
		return colorBlock
	}
}

func formatAttrs(attrs map[string]any) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, attrs[k])
	}
	return "[" + strings.Join(parts, " ") + "]"
}
