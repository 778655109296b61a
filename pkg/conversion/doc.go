// Package conversion translates between the model and the view.
//
// Upcast turns parsed markup into model nodes and never fails on markup it does not
// recognize: such elements are skipped and their content is kept where the schema
// allows it. The data downcast produces the persisted markup and must cover every
// registered item, which CheckTotal verifies. The editing downcast produces the
// interactive view, where widgets and nested editables carry their markers.
package conversion
