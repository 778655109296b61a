package editor

import (
	"github.com/kadavr95/spoiler/pkg/conversion"
	"github.com/kadavr95/spoiler/pkg/view"
)

// EditingView returns the current editing projection of the document. It is rebuilt
// after every committed change; callers must not modify it.
func (e *Editor) EditingView() *view.Element {
	return e.editing
}

// EditingHTML renders the editing view. It fails when the last projection failed.
func (e *Editor) EditingHTML() (string, error) {
	if e.renderErr != nil {
		return "", e.renderErr
	}
	return view.Render(e.editing)
}

// Renders counts how many times the editing view was rebuilt.
func (e *Editor) Renders() int { return e.renders }

func (e *Editor) render() {
	children, err := e.conversion.EditingDowncast().ConvertChildren(e.doc.Root())
	if err != nil {
		e.renderErr = err
		e.logger.Error("editing downcast failed", "error", err)
		return
	}

	root := view.NewElement("div", view.Attribute{Key: "role", Value: "textbox"})
	root.Kind = view.KindRoot
	root.AddClass(conversion.ClassEditable, "ck-editor__editable_inline", "ck-content")
	root.SetAttr(conversion.AttrContentEditable, "true")
	root.Append(children...)

	e.editing = root
	e.renderErr = nil
	e.renders++
}
