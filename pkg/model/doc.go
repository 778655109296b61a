// Package model implements the structural document tree that editor plugins operate on.
//
// A Document holds a tree of Elements and Texts rooted at a "$root" element and a
// collapsed caret. The tree is only changed through a Writer obtained from
// Document.Change:
//
//	err := doc.Change(func(w *model.Writer) error {
//		p := w.CreateElement("paragraph", nil)
//		if err := w.Append(p, w.Root()); err != nil {
//			return err
//		}
//		return w.Append(w.CreateText("hello", nil), p)
//	})
//
// A transaction is all or nothing. Nested Change calls join the outer one, and at
// commit the whole tree is checked against the schema and every invariant registered
// with AddInvariant. Listeners added with OnChange, OnSelectionChange and OnAbort run
// only after the transaction has finished.
package model
