package outline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kadavr95/spoiler/pkg/model"
	"github.com/kadavr95/spoiler/pkg/schema"
)

// Overlay marks the element holding the caret.
type Overlay struct {
	Caret model.Position
}

// GenerateMermaid produces a Mermaid flowchart of the model tree.
// It applies semantic styling:
// - Root: ((Circle))
// - Object: [[Subroutine]]
// - Limit: [/Parallelogram/]
// - Default: [Rectangle]
// Text nodes are drawn as rounded boxes holding their data.
func GenerateMermaid(root *model.Element, reg *schema.Registry, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	writeMermaid(&sb, reg, root, "n")

	if overlay != nil && overlay.Caret.Parent != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString(fmt.Sprintf("    class %s current;\n", mermaidID(overlay.Caret.Parent)))
	}
	return sb.String()
}

func writeMermaid(sb *strings.Builder, reg *schema.Registry, el *model.Element, id string) {
	opener, closer := "[", "]"
	switch {
	case el.Parent() == nil:
		opener, closer = "((", "))"
	case reg.IsObject(el.Name()):
		opener, closer = "[[", "]]"
	case reg.IsLimit(el.Name()):
		opener, closer = "[/", "/]"
	}
	sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, el.Name(), closer))

	for i, c := range el.Children() {
		childID := id + "_" + strconv.Itoa(i)
		switch c := c.(type) {
		case *model.Element:
			writeMermaid(sb, reg, c, childID)
		case *model.Text:
			// Escape double quotes for the Mermaid label
			sb.WriteString(fmt.Sprintf("    %s(\"%s\")\n", childID, strings.ReplaceAll(c.Data(), "\"", "'")))
		}
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", id, childID))
	}
}

// mermaidID rebuilds the id writeMermaid gave el from its index path.
func mermaidID(el *model.Element) string {
	var idx []string
	for cur := el; cur.Parent() != nil; cur = cur.Parent() {
		i := 0
		for j, c := range cur.Parent().Children() {
			if c == model.Node(cur) {
				i = j
				break
			}
		}
		idx = append([]string{strconv.Itoa(i)}, idx...)
	}
	return strings.Join(append([]string{"n"}, idx...), "_")
}
