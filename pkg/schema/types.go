package schema

import (
	"slices"
	"strings"
)

// Generic items registered by NewRegistry.
const (
	Root         = "$root"
	Container    = "$container"
	Block        = "$block"
	BlockObject  = "$blockObject"
	InlineObject = "$inlineObject"
	Text         = "$text"
)

// AnyParent in AllowIn lets an item live under every registered item.
const AnyParent = "*"

// Descriptor declares a node type. Zero fields add nothing.
type Descriptor struct {
	Name string `yaml:"name" json:"name" mapstructure:"name"`

	// InheritAllFrom names a category whose placement, content, attributes and flags
	// are copied onto this item.
	InheritAllFrom string `yaml:"inherit_all_from,omitempty" json:"inherit_all_from,omitempty" mapstructure:"inherit_all_from"`

	// AllowIn lists the parents this item may be a child of.
	AllowIn []string `yaml:"allow_in,omitempty" json:"allow_in,omitempty" mapstructure:"allow_in"`

	// AllowWhere lets this item appear wherever the named items may appear.
	AllowWhere []string `yaml:"allow_where,omitempty" json:"allow_where,omitempty" mapstructure:"allow_where"`

	// AllowContentOf makes this item accept the children the named items accept.
	AllowContentOf []string `yaml:"allow_content_of,omitempty" json:"allow_content_of,omitempty" mapstructure:"allow_content_of"`

	// AllowAttributes lists the attribute keys allowed on this item.
	AllowAttributes []string `yaml:"allow_attributes,omitempty" json:"allow_attributes,omitempty" mapstructure:"allow_attributes"`

	// IsLimit marks a boundary: the caret can neither split nor leave it while editing.
	IsLimit  bool `yaml:"is_limit,omitempty" json:"is_limit,omitempty" mapstructure:"is_limit"`
	IsObject bool `yaml:"is_object,omitempty" json:"is_object,omitempty" mapstructure:"is_object"`
	IsBlock  bool `yaml:"is_block,omitempty" json:"is_block,omitempty" mapstructure:"is_block"`
	IsInline bool `yaml:"is_inline,omitempty" json:"is_inline,omitempty" mapstructure:"is_inline"`
}

// Definition is the compiled form of an item after Freeze.
type Definition struct {
	Name       string   `yaml:"name" json:"name"`
	AllowIn    []string `yaml:"allow_in" json:"allow_in"`
	Attributes []string `yaml:"attributes,omitempty" json:"attributes,omitempty"`
	IsLimit    bool     `yaml:"is_limit" json:"is_limit"`
	IsObject   bool     `yaml:"is_object" json:"is_object"`
	IsBlock    bool     `yaml:"is_block" json:"is_block"`
	IsInline   bool     `yaml:"is_inline" json:"is_inline"`
	Generic    bool     `yaml:"generic" json:"generic"`
}

// ContainmentRule is a custom child check. It receives the full ancestor chain of the
// prospective parent (root first, parent last) and the child item name, and returns
// false to deny the placement. Returning true only means "no objection".
type ContainmentRule func(ctx Context, child string) bool

// Context is an ancestor chain of item names, outermost first.
type Context []string

// Last returns the innermost item, or "" for an empty context.
func (c Context) Last() string {
	if len(c) == 0 {
		return ""
	}
	return c[len(c)-1]
}

// EndsWith reports whether the chain ends with the given items, e.g. EndsWith("a", "b").
func (c Context) EndsWith(names ...string) bool {
	if len(names) > len(c) {
		return false
	}
	return slices.Equal(c[len(c)-len(names):], names)
}

// Contains reports whether any ancestor in the chain has the given name.
func (c Context) Contains(name string) bool {
	return slices.Contains(c, name)
}

// Push returns a new context with name appended. The receiver is not modified.
func (c Context) Push(name string) Context {
	out := make(Context, len(c), len(c)+1)
	copy(out, c)
	return append(out, name)
}

func (c Context) String() string {
	return strings.Join(c, " > ")
}
