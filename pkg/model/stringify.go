package model

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kadavr95/spoiler/pkg/schema"
)

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

// Stringify renders a node in a compact tag notation, e.g.
// <paragraph>a<$text bold="true">b</$text></paragraph>. Attributes are sorted by key.
// The root element renders as its children only.
func Stringify(n Node) string {
	var sb strings.Builder
	if el, ok := n.(*Element); ok && el.name == schema.Root {
		for _, c := range el.children {
			writeNode(&sb, c)
		}
		return sb.String()
	}
	writeNode(&sb, n)
	return sb.String()
}

func writeNode(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Text:
		if len(n.attributes) == 0 {
			sb.WriteString(escaper.Replace(n.data))
			return
		}
		sb.WriteString("<" + schema.Text)
		writeAttributes(sb, n.attributes)
		sb.WriteString(">" + escaper.Replace(n.data) + "</" + schema.Text + ">")
	case *Element:
		sb.WriteString("<" + n.name)
		writeAttributes(sb, n.attributes)
		sb.WriteString(">")
		for _, c := range n.children {
			writeNode(sb, c)
		}
		sb.WriteString("</" + n.name + ">")
	}
}

func writeAttributes(sb *strings.Builder, attrs map[string]any) {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(sb, ` %s="%s"`, k, escaper.Replace(fmt.Sprint(attrs[k])))
	}
}
