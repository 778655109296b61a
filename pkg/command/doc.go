// Package command holds the commands an editor exposes to its invocation surface,
// such as toolbar buttons or the HTTP adapter.
package command
