package view

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse reads an HTML fragment as if it were the content of a body element.
// Comments, doctypes and processing instructions are dropped.
func Parse(markup string) ([]Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	parsed, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("failed to parse markup: %w", err)
	}

	nodes := make([]Node, 0, len(parsed))
	for _, n := range parsed {
		if v := fromHTML(n); v != nil {
			nodes = append(nodes, v)
		}
	}
	return nodes, nil
}

func fromHTML(n *html.Node) Node {
	switch n.Type {
	case html.TextNode:
		return &Text{Data: n.Data}
	case html.ElementNode:
		el := &Element{Name: n.Data}
		for _, a := range n.Attr {
			if a.Namespace != "" {
				continue
			}
			el.SetAttr(a.Key, a.Val)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if v := fromHTML(c); v != nil {
				el.Children = append(el.Children, v)
			}
		}
		return el
	default:
		return nil
	}
}

// Render serializes nodes as HTML. The class attribute is written first.
func Render(nodes ...Node) (string, error) {
	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, toHTML(n)); err != nil {
			return "", fmt.Errorf("failed to render markup: %w", err)
		}
	}
	return buf.String(), nil
}

func toHTML(n Node) *html.Node {
	switch n := n.(type) {
	case *Text:
		return &html.Node{Type: html.TextNode, Data: n.Data}
	case *Element:
		out := &html.Node{Type: html.ElementNode, Data: n.Name, DataAtom: atom.Lookup([]byte(n.Name))}
		if len(n.Classes) > 0 {
			out.Attr = append(out.Attr, html.Attribute{Key: "class", Val: strings.Join(n.Classes, " ")})
		}
		for _, a := range n.Attrs {
			out.Attr = append(out.Attr, html.Attribute{Key: a.Key, Val: a.Value})
		}
		for _, c := range n.Children {
			out.AppendChild(toHTML(c))
		}
		return out
	default:
		return &html.Node{Type: html.TextNode}
	}
}
