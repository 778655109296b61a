package schema

import (
	"slices"
)

// resolved is the working state of one item while compiling.
type resolved struct {
	allowIn      []string
	allowWhere   []string
	contentOf    []string
	attributesOf []string
	attributes   []string
	isLimit      bool
	isObject     bool
	isBlock      bool
	isInline     bool
}

func compile(items map[string]*Descriptor, order []string) (map[string]*Definition, error) {
	var errs []error
	for _, name := range order {
		d := items[name]
		for _, ref := range references(d) {
			if _, ok := items[ref]; !ok {
				errs = append(errs, &UnknownTypeError{Name: ref, By: name})
			}
		}
	}
	if len(errs) > 0 {
		return nil, &AggregateError{Errors: errs}
	}
	return build(items, order), nil
}

// compileLenient ignores references to unknown items.
func compileLenient(items map[string]*Descriptor, order []string) map[string]*Definition {
	known := func(refs []string) []string {
		out := refs[:0:0]
		for _, ref := range refs {
			if _, ok := items[ref]; ok || ref == AnyParent {
				out = append(out, ref)
			}
		}
		return out
	}

	filtered := make(map[string]*Descriptor, len(items))
	for name, d := range items {
		cp := cloneDescriptor(*d)
		cp.AllowIn = known(cp.AllowIn)
		cp.AllowWhere = known(cp.AllowWhere)
		cp.AllowContentOf = known(cp.AllowContentOf)
		if _, ok := items[cp.InheritAllFrom]; !ok {
			cp.InheritAllFrom = ""
		}
		filtered[name] = &cp
	}
	return build(filtered, order)
}

func references(d *Descriptor) []string {
	var refs []string
	if d.InheritAllFrom != "" {
		refs = append(refs, d.InheritAllFrom)
	}
	for _, p := range d.AllowIn {
		if p != AnyParent {
			refs = append(refs, p)
		}
	}
	refs = append(refs, d.AllowWhere...)
	refs = append(refs, d.AllowContentOf...)
	return refs
}

func build(items map[string]*Descriptor, order []string) map[string]*Definition {
	work := make(map[string]*resolved, len(items))
	for _, name := range order {
		d := items[name]
		work[name] = &resolved{
			allowIn:    slices.Clone(d.AllowIn),
			allowWhere: slices.Clone(d.AllowWhere),
			contentOf:  slices.Clone(d.AllowContentOf),
			attributes: slices.Clone(d.AllowAttributes),
			isLimit:    d.IsLimit,
			isObject:   d.IsObject,
			isBlock:    d.IsBlock,
			isInline:   d.IsInline,
		}
	}

	for _, name := range order {
		inherit(items, work, name, map[string]bool{})
	}

	// Placement, content and attributes feed into each other, so apply all three
	// rules until nothing changes. Every step only grows a set, so this terminates.
	for changed := true; changed; {
		changed = false
		for _, name := range order {
			item := work[name]

			for _, source := range item.contentOf {
				for _, other := range order {
					child := work[other]
					if slices.Contains(child.allowIn, source) && !slices.Contains(child.allowIn, name) {
						child.allowIn = append(child.allowIn, name)
						changed = true
					}
				}
			}

			for _, source := range item.allowWhere {
				for _, parent := range work[source].allowIn {
					if !slices.Contains(item.allowIn, parent) {
						item.allowIn = append(item.allowIn, parent)
						changed = true
					}
				}
			}

			for _, source := range item.attributesOf {
				for _, attr := range work[source].attributes {
					if !slices.Contains(item.attributes, attr) {
						item.attributes = append(item.attributes, attr)
						changed = true
					}
				}
			}
		}
	}

	generic := make(map[string]bool)
	for _, d := range genericItems() {
		generic[d.Name] = true
	}

	defs := make(map[string]*Definition, len(work))
	for _, name := range order {
		item := work[name]
		defs[name] = &Definition{
			Name:       name,
			AllowIn:    item.allowIn,
			Attributes: item.attributes,
			IsLimit:    item.isLimit || item.isObject,
			IsObject:   item.isObject,
			IsBlock:    item.isBlock,
			IsInline:   item.isInline,
			Generic:    generic[name],
		}
	}
	return defs
}

// inherit expands InheritAllFrom into placement, content, attribute and flag rules.
// Categories are expanded first so chains of inheritance resolve fully.
func inherit(items map[string]*Descriptor, work map[string]*resolved, name string, seen map[string]bool) {
	if seen[name] {
		return
	}
	seen[name] = true

	base := items[name].InheritAllFrom
	if base == "" {
		return
	}
	inherit(items, work, base, seen)

	item, from := work[name], work[base]
	item.allowWhere = appendUnique(item.allowWhere, base)
	item.contentOf = appendUnique(item.contentOf, base)
	item.attributesOf = appendUnique(item.attributesOf, base)
	item.isLimit = item.isLimit || from.isLimit
	item.isObject = item.isObject || from.isObject
	item.isBlock = item.isBlock || from.isBlock
	item.isInline = item.isInline || from.isInline
}
