// Package schema declares which model node types exist and where they may appear.
//
// A Registry holds one Descriptor per item. Descriptors are declarative: an item names
// the parents it may live in (AllowIn), borrows the placement of another item
// (AllowWhere), borrows the children of another item (AllowContentOf), or inherits all
// of the above plus flags and attributes from a category (InheritAllFrom).
//
// The registry starts with a set of generic items that act as categories:
//
//	$root          the document root; a limit element
//	$container     a block container allowed wherever the root's content is
//	$block         a text block (a paragraph, a heading)
//	$blockObject   a self-contained block (an image, a widget); a limit element
//	$inlineObject  a self-contained inline element
//	$text          text, allowed in blocks
//
// Declarative rules only look at a single parent/child pair. Rules that need to
// inspect the whole ancestor chain are added with AddChildCheck; they run after the
// declarative rule and any of them can deny the placement:
//
//	reg := schema.NewRegistry()
//	_ = reg.Register(schema.Descriptor{Name: "callout", InheritAllFrom: schema.BlockObject})
//	_ = reg.Register(schema.Descriptor{Name: "calloutBody", AllowIn: []string{"callout"}, AllowContentOf: []string{schema.Root}, IsLimit: true})
//	reg.AddChildCheck(func(ctx schema.Context, child string) bool {
//	    return !(child == "callout" && ctx.Contains("calloutBody"))
//	})
//	if err := reg.Freeze(); err != nil {
//	    // a descriptor referenced an unknown item
//	}
//
//	reg.IsAllowedAt(schema.Context{"$root"}, "callout")                        // true
//	reg.IsAllowedAt(schema.Context{"$root", "callout", "calloutBody"}, "callout") // false
//
// Registration happens once, while the host editor initializes its plugins. Freeze
// resolves the inheritance graph and makes the registry immutable; from then on every
// query is a pure read and the registry may be shared freely.
package schema
