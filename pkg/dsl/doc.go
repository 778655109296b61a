/*
Package dsl provides a fluent builder for model subtrees.

A blueprint describes elements, attributes and text without touching a document.
It is turned into real nodes with a model.Writer, so the result takes part in the
surrounding transaction and disappears with it on rollback.

Example usage:

	blueprint := dsl.Element("spoiler").Children(
		dsl.Element("spoilerTitle"),
		dsl.Element("spoilerDescription").Children(dsl.Element("paragraph")),
	)

	err := doc.Change(func(w *model.Writer) error {
		_, err := dsl.AppendTo(w, w.Root(), blueprint)
		return err
	})
*/
package dsl
