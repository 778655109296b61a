package editor

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/kadavr95/spoiler/pkg/command"
	"github.com/kadavr95/spoiler/pkg/conversion"
	"github.com/kadavr95/spoiler/pkg/model"
	"github.com/kadavr95/spoiler/pkg/observability"
	"github.com/kadavr95/spoiler/pkg/schema"
	"github.com/kadavr95/spoiler/pkg/view"
)

// Plugin extends an editor during construction. Init runs before the schema is
// frozen, so it may register items, rules, converters and commands.
type Plugin interface {
	Name() string
	Init(ed *Editor) error
}

// Requirer is implemented by plugins that must be initialized after others.
type Requirer interface {
	Requires() []string
}

// Editor composes the schema, the document, the conversion pipeline and the commands.
// An Editor is not safe for concurrent use.
type Editor struct {
	schema     *schema.Registry
	conversion *conversion.Conversion
	commands   *command.Collection
	doc        *model.Document
	logger     *slog.Logger
	metrics    *observability.Metrics
	plugins    []Plugin

	editing     *view.Element
	renderErr   error
	renders     int
	unsubscribe []func()
}

// Option defines a functional option for configuring the Editor.
type Option func(*Editor)

// WithPlugins appends plugins. They are initialized in order.
func WithPlugins(plugins ...Plugin) Option {
	return func(e *Editor) {
		e.plugins = append(e.plugins, plugins...)
	}
}

// WithLogger sets a custom structured logger for the editor.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

// WithMetrics records editor activity in m.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Editor) {
		e.metrics = m
	}
}

// New builds an editor. Any plugin error aborts construction.
func New(opts ...Option) (*Editor, error) {
	ed := &Editor{
		schema:   schema.NewRegistry(),
		commands: command.NewCollection(),
	}
	for _, opt := range opts {
		opt(ed)
	}
	if ed.logger == nil {
		ed.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	ed.conversion = conversion.New(ed.schema, ed.logger)
	ed.doc = model.NewDocument(ed.schema, model.WithLogger(ed.logger))

	if err := ed.initPlugins(); err != nil {
		return nil, err
	}
	if err := ed.schema.Freeze(); err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	if err := conversion.CheckTotal(ed.schema, ed.conversion.DataDowncast()); err != nil {
		return nil, fmt.Errorf("incomplete data conversion: %w", err)
	}
	if err := conversion.CheckTotal(ed.schema, ed.conversion.EditingDowncast()); err != nil {
		return nil, fmt.Errorf("incomplete editing conversion: %w", err)
	}

	ed.unsubscribe = append(ed.unsubscribe,
		ed.doc.OnChange(func(*model.ChangeEvent) {
			ed.metrics.TransactionCommitted()
			ed.render()
		}),
		ed.doc.OnAbort(func(*model.AbortEvent) {
			ed.metrics.TransactionAborted()
		}),
	)
	ed.commands.RefreshAll()
	ed.render()

	ed.logger.Debug("editor ready", "plugins", len(ed.plugins), "commands", ed.commands.Names())
	return ed, nil
}

func (e *Editor) initPlugins() error {
	seen := make(map[string]bool, len(e.plugins))
	for _, p := range e.plugins {
		name := p.Name()
		if seen[name] {
			return fmt.Errorf("plugin %s is loaded twice", name)
		}
		if r, ok := p.(Requirer); ok {
			for _, dep := range r.Requires() {
				if !seen[dep] {
					return fmt.Errorf("plugin %s requires %s to be loaded before it", name, dep)
				}
			}
		}
		if err := p.Init(e); err != nil {
			return fmt.Errorf("plugin %s: %w", name, err)
		}
		seen[name] = true
		e.logger.Debug("plugin initialized", "plugin", name)
	}
	return nil
}

// Schema returns the editor schema.
func (e *Editor) Schema() *schema.Registry { return e.schema }

// Conversion returns the conversion pipeline.
func (e *Editor) Conversion() *conversion.Conversion { return e.conversion }

// Commands returns the command collection.
func (e *Editor) Commands() *command.Collection { return e.commands }

// Document returns the model document.
func (e *Editor) Document() *model.Document { return e.doc }

// Logger returns the editor logger.
func (e *Editor) Logger() *slog.Logger { return e.logger }

// Plugins returns the plugin names in initialization order.
func (e *Editor) Plugins() []string {
	names := make([]string, len(e.plugins))
	for i, p := range e.plugins {
		names[i] = p.Name()
	}
	return names
}

// SetData replaces the document content with the upcast of markup and puts the
// caret at the first editable place.
func (e *Editor) SetData(markup string) (conversion.UpcastStats, error) {
	start := time.Now()
	defer e.metrics.ObserveConversion("upcast", start)

	nodes, err := view.Parse(markup)
	if err != nil {
		return conversion.UpcastStats{}, err
	}

	var stats conversion.UpcastStats
	err = e.doc.Change(func(w *model.Writer) error {
		w.Clear()
		var err error
		if stats, err = e.conversion.Upcast().Convert(w, w.Root(), nodes); err != nil {
			return err
		}
		if w.Root().IsEmpty() && e.schema.IsAllowedAt(w.Root().Context(), conversion.FallbackBlock) {
			if err := w.Append(w.CreateElement(conversion.FallbackBlock, nil), w.Root()); err != nil {
				return err
			}
		}
		return w.SetSelection(model.FirstEditablePosition(e.schema, w.Root()))
	})
	if err != nil {
		return stats, fmt.Errorf("failed to load data: %w", err)
	}

	e.metrics.Upcast(stats.Converted, stats.Skipped)
	e.logger.Debug("data loaded", "converted", stats.Converted, "skipped", stats.Skipped)
	return stats, nil
}

// GetData serializes the document with the data downcast.
func (e *Editor) GetData() (string, error) {
	start := time.Now()
	defer e.metrics.ObserveConversion("data", start)

	nodes, err := e.conversion.DataDowncast().ConvertChildren(e.doc.Root())
	if err != nil {
		return "", err
	}
	return view.Render(nodes...)
}

// SetSelection moves the caret to the position addressed by path.
func (e *Editor) SetSelection(path ...int) error {
	pos, err := model.PositionAt(e.doc.Root(), path...)
	if err != nil {
		return err
	}
	return e.doc.SetSelection(pos)
}

// Execute runs the named command.
func (e *Editor) Execute(name string) (any, error) {
	result, err := e.commands.Execute(name)

	outcome := observability.ResultOK
	if err != nil {
		outcome = observability.ResultError
		var disabled *command.DisabledCommandError
		if errors.As(err, &disabled) {
			outcome = observability.ResultDisabled
		}
		e.logger.Debug("command failed", "command", name, "result", outcome, "error", err)
	}
	e.metrics.CommandExecuted(name, outcome)
	return result, err
}

// Destroy detaches listeners and releases the commands.
func (e *Editor) Destroy() {
	for _, unsubscribe := range e.unsubscribe {
		unsubscribe()
	}
	e.unsubscribe = nil
	e.commands.Destroy()
}
