package schema

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
)

// Registry holds the node type descriptors and custom containment rules of an editor.
// It is populated during initialization and frozen before first use; after Freeze it
// is read-only and safe for concurrent queries.
type Registry struct {
	mu     sync.RWMutex
	items  map[string]*Descriptor
	order  []string
	rules  []ContainmentRule
	defs   map[string]*Definition
	frozen atomic.Bool
}

// NewRegistry creates a registry holding the generic items.
func NewRegistry() *Registry {
	r := &Registry{
		items: make(map[string]*Descriptor),
	}
	for _, d := range genericItems() {
		d := d
		r.items[d.Name] = &d
		r.order = append(r.order, d.Name)
	}
	return r
}

func genericItems() []Descriptor {
	return []Descriptor{
		{Name: Root, IsLimit: true},
		{Name: Container, AllowIn: []string{Root, Container}, AllowContentOf: []string{Root}},
		{Name: Block, AllowIn: []string{Root, Container}, IsBlock: true},
		{Name: BlockObject, AllowWhere: []string{Block}, IsBlock: true, IsObject: true},
		{Name: InlineObject, AllowWhere: []string{Text}, IsInline: true, IsObject: true},
		{Name: Text, AllowIn: []string{Block}, IsInline: true},
	}
}

// Register adds a new item. It fails with *DuplicateTypeError if the name is taken.
func (r *Registry) Register(d Descriptor) error {
	return r.RegisterAll(d)
}

// RegisterAll adds several items at once. Either every descriptor is registered or,
// on the first empty or taken name, none is.
func (r *Registry) RegisterAll(descriptors ...Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen.Load() {
		return ErrFrozen
	}
	seen := make(map[string]bool, len(descriptors))
	for _, d := range descriptors {
		if d.Name == "" {
			return fmt.Errorf("schema: descriptor without a name")
		}
		if _, exists := r.items[d.Name]; exists || seen[d.Name] {
			return &DuplicateTypeError{Name: d.Name}
		}
		seen[d.Name] = true
	}

	for _, d := range descriptors {
		cp := cloneDescriptor(d)
		r.items[d.Name] = &cp
		r.order = append(r.order, d.Name)
	}
	return nil
}

// Extend merges additional rules into an already registered item.
// Flags can only be switched on; lists are appended.
func (r *Registry) Extend(d Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen.Load() {
		return ErrFrozen
	}
	cur, ok := r.items[d.Name]
	if !ok {
		return &UnknownTypeError{Name: d.Name}
	}

	if d.InheritAllFrom != "" {
		cur.InheritAllFrom = d.InheritAllFrom
	}
	cur.AllowIn = appendUnique(cur.AllowIn, d.AllowIn...)
	cur.AllowWhere = appendUnique(cur.AllowWhere, d.AllowWhere...)
	cur.AllowContentOf = appendUnique(cur.AllowContentOf, d.AllowContentOf...)
	cur.AllowAttributes = appendUnique(cur.AllowAttributes, d.AllowAttributes...)
	cur.IsLimit = cur.IsLimit || d.IsLimit
	cur.IsObject = cur.IsObject || d.IsObject
	cur.IsBlock = cur.IsBlock || d.IsBlock
	cur.IsInline = cur.IsInline || d.IsInline
	return nil
}

// AddChildCheck appends a custom containment rule. Rules run in registration order,
// after the declarative check, and the first denial wins.
func (r *Registry) AddChildCheck(rule ContainmentRule) error {
	if rule == nil {
		return fmt.Errorf("schema: nil containment rule")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen.Load() {
		return ErrFrozen
	}
	r.rules = append(r.rules, rule)
	return nil
}

// Freeze compiles the descriptors and makes the registry immutable.
// Calling it again is a no-op.
func (r *Registry) Freeze() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen.Load() {
		return nil
	}

	defs, err := compile(r.items, r.order)
	if err != nil {
		return err
	}
	r.defs = defs
	r.frozen.Store(true)
	return nil
}

// Frozen reports whether Freeze has completed.
func (r *Registry) Frozen() bool {
	return r.frozen.Load()
}

// definitions returns the compiled item table. Before Freeze the table is compiled on
// every call so that plugins can query the schema while still registering.
func (r *Registry) definitions() (map[string]*Definition, []ContainmentRule) {
	if r.frozen.Load() {
		return r.defs, r.rules
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	defs, err := compile(r.items, r.order)
	if err != nil {
		// Dangling references only drop the affected rules while registering.
		defs = compileLenient(r.items, r.order)
	}
	return defs, slices.Clone(r.rules)
}

// IsRegistered reports whether an item with this name exists.
func (r *Registry) IsRegistered(name string) bool {
	defs, _ := r.definitions()
	_, ok := defs[name]
	return ok
}

// Definition returns the compiled definition of an item.
func (r *Registry) Definition(name string) (Definition, bool) {
	defs, _ := r.definitions()
	def, ok := defs[name]
	if !ok {
		return Definition{}, false
	}
	out := *def
	out.AllowIn = slices.Clone(def.AllowIn)
	out.Attributes = slices.Clone(def.Attributes)
	return out, true
}

// Names returns every item name in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// IsAllowedAt reports whether child may be placed as the last child of ctx.
// The declarative rules decide first, then every custom rule may veto.
func (r *Registry) IsAllowedAt(ctx Context, child string) bool {
	if len(ctx) == 0 {
		return false
	}

	defs, rules := r.definitions()
	parent, ok := defs[ctx.Last()]
	if !ok {
		return false
	}
	def, ok := defs[child]
	if !ok {
		return false
	}
	if !slices.Contains(def.AllowIn, parent.Name) && !slices.Contains(def.AllowIn, AnyParent) {
		return false
	}

	for _, rule := range rules {
		if !rule(ctx, child) {
			return false
		}
	}
	return true
}

// FindNearestAllowedAncestor walks the chain from the innermost ancestor outwards and
// returns the index in ctx of the first ancestor that accepts child. The walk stops at
// the first limit element that does not accept the child, since the caret may not
// leave it.
func (r *Registry) FindNearestAllowedAncestor(ctx Context, child string) (int, bool) {
	for i := len(ctx) - 1; i >= 0; i-- {
		if r.IsAllowedAt(ctx[:i+1], child) {
			return i, true
		}
		if r.IsLimit(ctx[i]) {
			return -1, false
		}
	}
	return -1, false
}

// IsAttributeAllowed reports whether attr may be set on nodes of the given item.
func (r *Registry) IsAttributeAllowed(item, attr string) bool {
	defs, _ := r.definitions()
	def, ok := defs[item]
	if !ok {
		return false
	}
	return slices.Contains(def.Attributes, attr)
}

// IsLimit reports whether the item is a boundary for caret movement.
func (r *Registry) IsLimit(name string) bool {
	return r.flag(name, func(d *Definition) bool { return d.IsLimit })
}

// IsObject reports whether the item is a self-contained object.
func (r *Registry) IsObject(name string) bool {
	return r.flag(name, func(d *Definition) bool { return d.IsObject })
}

// IsBlock reports whether the item is a block.
func (r *Registry) IsBlock(name string) bool {
	return r.flag(name, func(d *Definition) bool { return d.IsBlock })
}

// IsInline reports whether the item is inline.
func (r *Registry) IsInline(name string) bool {
	return r.flag(name, func(d *Definition) bool { return d.IsInline })
}

func (r *Registry) flag(name string, get func(*Definition) bool) bool {
	defs, _ := r.definitions()
	def, ok := defs[name]
	return ok && get(def)
}

func cloneDescriptor(d Descriptor) Descriptor {
	d.AllowIn = slices.Clone(d.AllowIn)
	d.AllowWhere = slices.Clone(d.AllowWhere)
	d.AllowContentOf = slices.Clone(d.AllowContentOf)
	d.AllowAttributes = slices.Clone(d.AllowAttributes)
	return d
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		if !slices.Contains(dst, v) {
			dst = append(dst, v)
		}
	}
	return dst
}
