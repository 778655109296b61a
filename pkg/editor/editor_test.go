package editor_test

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadavr95/spoiler/pkg/command"
	"github.com/kadavr95/spoiler/pkg/conversion"
	"github.com/kadavr95/spoiler/pkg/editor"
	"github.com/kadavr95/spoiler/pkg/essentials"
	"github.com/kadavr95/spoiler/pkg/model"
	"github.com/kadavr95/spoiler/pkg/observability"
	"github.com/kadavr95/spoiler/pkg/schema"
	"github.com/kadavr95/spoiler/pkg/view"
)

// stubPlugin runs init as its Init.
type stubPlugin struct {
	name     string
	requires []string
	init     func(ed *editor.Editor) error
}

func (p stubPlugin) Name() string       { return p.name }
func (p stubPlugin) Requires() []string { return p.requires }

func (p stubPlugin) Init(ed *editor.Editor) error {
	if p.init == nil {
		return nil
	}
	return p.init(ed)
}

// clearCommand empties the document.
type clearCommand struct {
	doc     *model.Document
	enabled bool
}

func (c *clearCommand) IsEnabled() bool { return c.enabled }
func (c *clearCommand) Refresh()        {}

func (c *clearCommand) Execute() (any, error) {
	if !c.enabled {
		return nil, &command.DisabledCommandError{Command: "clear"}
	}
	return nil, c.doc.Change(func(w *model.Writer) error {
		w.Clear()
		return nil
	})
}

func newEditor(t *testing.T, opts ...editor.Option) *editor.Editor {
	t.Helper()

	ed, err := editor.New(append([]editor.Option{editor.WithPlugins(essentials.All()...)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(ed.Destroy)
	return ed
}

func TestNew_Plugins(t *testing.T) {
	ed := newEditor(t)

	assert.Equal(t, []string{"Paragraph", "Heading", "Bold", "Italic", "List"}, ed.Plugins())
	assert.True(t, ed.Schema().Frozen())
	assert.True(t, ed.Schema().IsRegistered("paragraph"))
}

func TestNew_PluginErrors(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		plugins []editor.Plugin
		want    string
		target  error
	}{
		{
			name:    "loaded twice",
			plugins: []editor.Plugin{essentials.Paragraph{}, essentials.Paragraph{}},
			want:    "plugin Paragraph is loaded twice",
		},
		{
			name:    "missing requirement",
			plugins: []editor.Plugin{stubPlugin{name: "Table", requires: []string{"Paragraph"}}},
			want:    "plugin Table requires Paragraph",
		},
		{
			name: "init failure",
			plugins: []editor.Plugin{stubPlugin{name: "Broken", init: func(*editor.Editor) error {
				return boom
			}}},
			want:   "plugin Broken: boom",
			target: boom,
		},
		{
			name: "unknown schema reference",
			plugins: []editor.Plugin{stubPlugin{name: "Dangling", init: func(ed *editor.Editor) error {
				return ed.Schema().Register(schema.Descriptor{Name: "dangling", AllowIn: []string{"nowhere"}})
			}}},
			want: "failed to compile schema",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ed, err := editor.New(editor.WithPlugins(tt.plugins...))

			assert.Nil(t, ed)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestNew_IncompleteConversion(t *testing.T) {
	tests := []struct {
		name string
		init func(ed *editor.Editor) error
		want string
	}{
		{
			name: "element without converters",
			init: func(ed *editor.Editor) error {
				return ed.Schema().Register(schema.Descriptor{Name: "quote", InheritAllFrom: schema.Block})
			},
			want: "incomplete data conversion",
		},
		{
			name: "element without editing converter",
			init: func(ed *editor.Editor) error {
				if err := ed.Schema().Register(schema.Descriptor{Name: "quote", InheritAllFrom: schema.Block}); err != nil {
					return err
				}
				ed.Conversion().DataDowncast().Element("quote", func(*model.Element) *view.Element {
					return view.NewElement("blockquote")
				})
				return nil
			},
			want: "incomplete editing conversion",
		},
		{
			name: "text attribute without converter",
			init: func(ed *editor.Editor) error {
				return ed.Schema().Extend(schema.Descriptor{Name: schema.Text, AllowAttributes: []string{"underline"}})
			},
			want: "incomplete data conversion",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := editor.New(editor.WithPlugins(essentials.Paragraph{}, stubPlugin{name: "Partial", init: tt.init}))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			var missing *conversion.MissingConverterError
			assert.ErrorAs(t, err, &missing)
		})
	}
}

func TestSetData(t *testing.T) {
	ed := newEditor(t)

	stats, err := ed.SetData("<p>one</p><h3>two</h3>")
	require.NoError(t, err)
	assert.Equal(t, conversion.UpcastStats{Converted: 2}, stats)
	assert.Equal(t, "<paragraph>one</paragraph><heading2>two</heading2>", model.Stringify(ed.Document().Root()))
	assert.Equal(t, []int{0, 0}, ed.Document().Selection().Path())

	out, err := ed.GetData()
	require.NoError(t, err)
	assert.Equal(t, "<p>one</p><h3>two</h3>", out)
}

func TestSetData_EmptyGetsParagraph(t *testing.T) {
	for _, in := range []string{"", "   ", "<!-- note -->"} {
		ed := newEditor(t)

		_, err := ed.SetData(in)
		require.NoError(t, err)

		assert.Equal(t, "<paragraph></paragraph>", model.Stringify(ed.Document().Root()), "input %q", in)
		assert.Equal(t, []int{0, 0}, ed.Document().Selection().Path())
	}
}

func TestSetSelection(t *testing.T) {
	ed := newEditor(t)
	_, err := ed.SetData("<p>abc</p>")
	require.NoError(t, err)

	require.NoError(t, ed.SetSelection(0, 2))
	assert.Equal(t, []int{0, 2}, ed.Document().Selection().Path())

	var pathErr *model.PathError
	assert.ErrorAs(t, ed.SetSelection(0, 9), &pathErr)
	assert.ErrorAs(t, ed.SetSelection(3), &pathErr)
	assert.Equal(t, []int{0, 2}, ed.Document().Selection().Path())
}

func TestExecute(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	wipe := &clearCommand{enabled: true}
	ed := newEditor(t,
		editor.WithMetrics(metrics),
		editor.WithPlugins(stubPlugin{name: "Clear", init: func(ed *editor.Editor) error {
			wipe.doc = ed.Document()
			return ed.Commands().Add("clear", wipe)
		}}),
	)
	_, err = ed.SetData("<p>abc</p>")
	require.NoError(t, err)

	_, err = ed.Execute("clear")
	require.NoError(t, err)
	assert.True(t, ed.Document().Root().IsEmpty())

	wipe.enabled = false
	_, err = ed.Execute("clear")
	var disabled *command.DisabledCommandError
	assert.ErrorAs(t, err, &disabled)

	_, err = ed.Execute("missing")
	assert.ErrorIs(t, err, command.ErrCommandNotFound)

	assert.Equal(t, 1.0, counterValue(t, reg, "spoiler_command_executions_total", map[string]string{"command": "clear", "result": observability.ResultOK}))
	assert.Equal(t, 1.0, counterValue(t, reg, "spoiler_command_executions_total", map[string]string{"command": "clear", "result": observability.ResultDisabled}))
	assert.Equal(t, 1.0, counterValue(t, reg, "spoiler_command_executions_total", map[string]string{"command": "missing", "result": observability.ResultError}))
	assert.Equal(t, 2.0, counterValue(t, reg, "spoiler_transactions_total", map[string]string{"outcome": "committed"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "spoiler_upcast_elements_total", map[string]string{"result": "converted"}))
}

func TestEditingView(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	ed := newEditor(t, editor.WithMetrics(metrics))
	before := ed.Renders()

	_, err = ed.SetData("<p>a<b>b</b></p>")
	require.NoError(t, err)
	assert.Equal(t, before+1, ed.Renders())
	assert.Equal(t, view.KindRoot, ed.EditingView().Kind)

	html, err := ed.EditingHTML()
	require.NoError(t, err)
	assert.Equal(t,
		`<div class="ck-editor__editable ck-editor__editable_inline ck-content" role="textbox" contenteditable="true"><p>a<strong>b</strong></p></div>`,
		html)

	// Moving the caret alone does not rebuild the view.
	require.NoError(t, ed.SetSelection(0, 1))
	assert.Equal(t, before+1, ed.Renders())

	err = ed.Document().Change(func(w *model.Writer) error {
		return w.Append(w.CreateElement("heading1", nil), w.Root().Child(0).(*model.Element))
	})
	var violation *model.SchemaViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, before+1, ed.Renders())
	assert.Equal(t, 1.0, counterValue(t, reg, "spoiler_transactions_total", map[string]string{"outcome": "aborted"}))
}

func TestDestroy(t *testing.T) {
	ed := newEditor(t)
	before := ed.Renders()

	ed.Destroy()
	_, err := ed.SetData("<p>late</p>")
	require.NoError(t, err)

	assert.Equal(t, before, ed.Renders())
}

// counterValue returns the value of the series of name carrying labels.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	series:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if v, ok := labels[lp.GetName()]; ok && v != lp.GetValue() {
					continue series
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}
