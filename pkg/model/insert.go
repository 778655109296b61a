package model

import "github.com/kadavr95/spoiler/pkg/schema"

// FindAllowedParent returns the element at or above pos that may hold an item called
// name, or nil. The search does not cross a limit element that refuses the item.
func FindAllowedParent(reg *schema.Registry, pos Position, name string) *Element {
	if pos.Parent == nil {
		return nil
	}
	i, ok := reg.FindNearestAllowedAncestor(pos.Parent.Context(), name)
	if !ok {
		return nil
	}
	return pos.Parent.Ancestors()[i]
}

// InsertObject inserts obj at pos, or as close above it as the schema allows.
// Elements between pos and the allowed parent are split at pos; an empty block the
// caret sits in is replaced by the object.
func InsertObject(w *Writer, reg *schema.Registry, obj Node, pos Position) error {
	parent := FindAllowedParent(reg, pos, obj.Name())
	if parent == nil {
		return &NotAllowedError{Name: obj.Name(), Position: pos}
	}

	cur := pos
	for cur.Parent != parent {
		el := cur.Parent
		switch {
		case el.IsEmpty() && reg.IsBlock(el.name) && !reg.IsLimit(el.name):
			cur = PositionBefore(el)
			if err := w.Remove(el); err != nil {
				return err
			}
		case cur.Offset == 0:
			cur = PositionBefore(el)
		case cur.Offset == el.MaxOffset():
			cur = PositionAfter(el)
		default:
			next, err := w.Split(cur)
			if err != nil {
				return err
			}
			cur = next
		}
	}
	return w.Insert(obj, cur)
}
