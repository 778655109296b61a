package model

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kadavr95/spoiler/pkg/schema"
)

// Invariant checks the structure of one element at commit time.
type Invariant func(el *Element) error

// Document owns the model tree and the caret. The tree is only mutated inside Change.
type Document struct {
	schema     *schema.Registry
	root       *Element
	selection  Position
	logger     *slog.Logger
	invariants map[string][]Invariant
	writer     *Writer
	version    int

	changeListeners    listeners[ChangeEvent]
	selectionListeners listeners[SelectionEvent]
	abortListeners     listeners[AbortEvent]
}

// Option defines a functional option for configuring the Document.
type Option func(*Document)

// WithLogger sets a custom structured logger for the document.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Document) {
		d.logger = logger
	}
}

// NewDocument creates an empty document validated against reg.
func NewDocument(reg *schema.Registry, opts ...Option) *Document {
	d := &Document{
		schema:     reg,
		root:       &Element{name: schema.Root},
		invariants: make(map[string][]Invariant),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	d.selection = Position{Parent: d.root}
	return d
}

// Root returns the root element.
func (d *Document) Root() *Element { return d.root }

// Schema returns the registry the document validates against.
func (d *Document) Schema() *schema.Registry { return d.schema }

// Selection returns the committed caret position.
func (d *Document) Selection() Position { return d.selection }

// Version counts committed transactions that modified the tree.
func (d *Document) Version() int { return d.version }

// InChange reports whether a transaction is open.
func (d *Document) InChange() bool { return d.writer != nil }

// AddInvariant registers a structural check for elements with the given name.
func (d *Document) AddInvariant(name string, check Invariant) {
	d.invariants[name] = append(d.invariants[name], check)
}

// SetSelection moves the caret in its own transaction.
func (d *Document) SetSelection(pos Position) error {
	return d.Change(func(w *Writer) error {
		return w.SetSelection(pos)
	})
}

// Change runs fn as one atomic transaction. A call made while another transaction is
// open joins it. When fn returns an error or panics, or the resulting tree fails
// validation, every operation is reverted and nothing is published except an abort
// event. A panic is re-raised after the rollback.
func (d *Document) Change(fn func(*Writer) error) (err error) {
	if d.writer != nil {
		return fn(d.writer)
	}

	w := &Writer{doc: d, batch: uuid.NewString(), selection: d.selection}
	d.writer = w

	defer func() {
		if r := recover(); r != nil {
			d.abort(w, fmt.Errorf("panic in change: %v", r))
			panic(r)
		}
	}()

	if err := fn(w); err != nil {
		d.abort(w, err)
		return err
	}
	if err := d.validate(); err != nil {
		d.abort(w, err)
		return err
	}

	d.commit(w)
	return nil
}

func (d *Document) abort(w *Writer, cause error) {
	ops := len(w.undo)
	w.rollback()
	d.writer = nil

	d.logger.Debug("change aborted", "batch_id", w.batch, "operations", ops, "error", cause)
	d.abortListeners.emit(&AbortEvent{
		EventBase:  EventBase{Timestamp: time.Now(), Type: EventAbort, BatchID: w.batch},
		Operations: ops,
		Err:        cause,
	})
}

func (d *Document) commit(w *Writer) {
	d.writer = nil
	ops := len(w.undo)

	prev := d.selection
	d.selection = d.normalizeSelection(w.selection)

	if ops > 0 {
		d.version++
		d.logger.Debug("change committed", "batch_id", w.batch, "operations", ops, "version", d.version)
		d.changeListeners.emit(&ChangeEvent{
			EventBase:  EventBase{Timestamp: time.Now(), Type: EventChange, BatchID: w.batch},
			Operations: ops,
			Version:    d.version,
		})
	}
	if !prev.Equal(d.selection) {
		d.selectionListeners.emit(&SelectionEvent{
			EventBase: EventBase{Timestamp: time.Now(), Type: EventSelection, BatchID: w.batch},
			Position:  d.selection,
			Path:      d.selection.Path(),
		})
	}
}

// normalizeSelection keeps a caret that still points into the tree and moves a stale
// one to the first editable place.
func (d *Document) normalizeSelection(pos Position) Position {
	if pos.Parent == nil || !IsAttached(pos.Parent, d.root) {
		return FirstEditablePosition(d.schema, d.root)
	}
	if pos.Offset < 0 {
		pos.Offset = 0
	}
	if end := pos.Parent.MaxOffset(); pos.Offset > end {
		pos.Offset = end
	}
	return pos
}

// validate checks the whole tree against the schema and the registered invariants.
func (d *Document) validate() error {
	return d.validateElement(d.root, d.root.Context())
}

func (d *Document) validateElement(el *Element, ctx schema.Context) error {
	for _, c := range el.children {
		name := c.Name()
		if !d.schema.IsAllowedAt(ctx, name) {
			return &SchemaViolationError{Context: ctx, Child: name, Reason: "not allowed here"}
		}
		for key := range c.attrs() {
			if !d.schema.IsAttributeAllowed(name, key) {
				return &SchemaViolationError{Context: ctx, Child: name, Reason: fmt.Sprintf("attribute %q not allowed", key)}
			}
		}
		if t, ok := c.(*Text); ok && t.data == "" {
			return &SchemaViolationError{Context: ctx, Child: name, Reason: "empty text node"}
		}
		if child, ok := c.(*Element); ok {
			if err := d.validateElement(child, ctx.Push(name)); err != nil {
				return err
			}
		}
	}

	for _, check := range d.invariants[el.name] {
		if err := check(el); err != nil {
			return &SchemaViolationError{Context: ctx, Child: el.name, Reason: "invariant failed", Cause: err}
		}
	}
	return nil
}
