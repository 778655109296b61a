package spoiler

import (
	"io"
	"log/slog"

	"github.com/kadavr95/spoiler/pkg/command"
	"github.com/kadavr95/spoiler/pkg/conversion"
	"github.com/kadavr95/spoiler/pkg/dsl"
	"github.com/kadavr95/spoiler/pkg/model"
	"github.com/kadavr95/spoiler/pkg/schema"
)

// BuildFunc creates a detached spoiler subtree inside a transaction.
type BuildFunc func(w *model.Writer) (*model.Element, error)

// Blueprint describes a fresh spoiler: an empty title and a description holding
// one empty paragraph.
func Blueprint() *dsl.Builder {
	return dsl.Element(ModelSpoiler).Children(
		dsl.Element(ModelTitle),
		dsl.Element(ModelDescription).Children(dsl.Element(conversion.FallbackBlock)),
	)
}

// Build creates the subtree described by Blueprint.
func Build(w *model.Writer) (*model.Element, error) {
	return Blueprint().Build(w)
}

// InsertCommand inserts a spoiler at the caret. It is enabled while the schema
// allows a spoiler at or above the caret, and it follows every committed change
// and caret move of the document.
type InsertCommand struct {
	doc         *model.Document
	schema      *schema.Registry
	build       BuildFunc
	logger      *slog.Logger
	enabled     bool
	unsubscribe []func()
}

var _ command.Command = (*InsertCommand)(nil)

// CommandOption configures the InsertCommand.
type CommandOption func(*InsertCommand)

// WithBuild replaces the subtree factory.
func WithBuild(build BuildFunc) CommandOption {
	return func(c *InsertCommand) {
		c.build = build
	}
}

// WithCommandLogger sets a custom structured logger for the command.
func WithCommandLogger(logger *slog.Logger) CommandOption {
	return func(c *InsertCommand) {
		c.logger = logger
	}
}

// NewInsertCommand creates the command and subscribes it to doc.
func NewInsertCommand(doc *model.Document, reg *schema.Registry, opts ...CommandOption) *InsertCommand {
	c := &InsertCommand{
		doc:    doc,
		schema: reg,
		build:  Build,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	c.unsubscribe = []func(){
		doc.OnChange(func(*model.ChangeEvent) { c.Refresh() }),
		doc.OnSelectionChange(func(*model.SelectionEvent) { c.Refresh() }),
	}
	c.Refresh()
	return c
}

// IsEnabled reports the state computed by the last Refresh.
func (c *InsertCommand) IsEnabled() bool { return c.enabled }

// Refresh recomputes IsEnabled from the committed caret.
func (c *InsertCommand) Refresh() {
	c.enabled = model.FindAllowedParent(c.schema, c.doc.Selection(), ModelSpoiler) != nil
}

// Execute inserts a spoiler. It implements command.Command.
func (c *InsertCommand) Execute() (any, error) {
	return c.Insert()
}

// Insert builds a spoiler and inserts it at the caret in one transaction, then puts
// the caret at the start of its title. On any failure nothing is changed.
func (c *InsertCommand) Insert() (*model.Element, error) {
	if !c.enabled {
		return nil, &command.DisabledCommandError{Command: CommandName}
	}

	var created *model.Element
	err := c.doc.Change(func(w *model.Writer) error {
		el, err := c.build(w)
		if err != nil {
			return err
		}
		if err := model.InsertObject(w, c.schema, el, w.Selection()); err != nil {
			return err
		}
		if titles := el.ChildElements(ModelTitle); len(titles) > 0 {
			if err := w.SetSelection(model.Position{Parent: titles[0]}); err != nil {
				return err
			}
		}
		created = el
		return nil
	})
	if err != nil {
		c.logger.Warn("spoiler insertion aborted", "command", CommandName, "error", err)
		return nil, err
	}

	c.logger.Debug("spoiler inserted", "command", CommandName, "path", model.PositionBefore(created).Path())
	return created, nil
}

// Destroy stops following the document.
func (c *InsertCommand) Destroy() {
	for _, unsubscribe := range c.unsubscribe {
		unsubscribe()
	}
	c.unsubscribe = nil
}
