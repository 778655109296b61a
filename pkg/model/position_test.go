package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionAt(t *testing.T) {
	doc := newTestDocument(t)
	load(t, doc)

	pos, err := PositionAt(doc.Root(), 1, 1, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, "paragraph", pos.Parent.Name())
	assert.Equal(t, 1, pos.Offset)
	assert.Equal(t, []int{1, 1, 0, 1}, pos.Path())
	assert.Equal(t, "[1/1/0/1]", pos.String())
	assert.Equal(t, "$root > box > body > paragraph", pos.Context().String())

	t.Run("through text", func(t *testing.T) {
		_, err := PositionAt(doc.Root(), 0, 1, 0)
		var pathErr *PathError
		require.ErrorAs(t, err, &pathErr)
		assert.Equal(t, 1, pathErr.Depth)
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := PositionAt(doc.Root(), 5)
		var pathErr *PathError
		require.ErrorAs(t, err, &pathErr)
		assert.Equal(t, 0, pathErr.Depth)
	})

	t.Run("empty path", func(t *testing.T) {
		root, err := PositionAt(doc.Root())
		require.NoError(t, err)
		assert.Equal(t, Position{Parent: doc.Root()}, root)
	})
}

func TestPosition_TextNode(t *testing.T) {
	doc := newTestDocument(t)
	load(t, doc)

	inside, err := PositionAt(doc.Root(), 0, 2)
	require.NoError(t, err)
	text, offset := inside.TextNode()
	require.NotNil(t, text)
	assert.Equal(t, "foo", text.Data())
	assert.Equal(t, 2, offset)

	edge, err := PositionAt(doc.Root(), 0, 0)
	require.NoError(t, err)
	text, _ = edge.TextNode()
	assert.Nil(t, text)
}

func TestPositionBeforeAfter(t *testing.T) {
	doc := newTestDocument(t)
	load(t, doc)
	box := doc.Root().Child(1)

	assert.Equal(t, Position{Parent: doc.Root(), Offset: 1}, PositionBefore(box))
	assert.Equal(t, Position{Parent: doc.Root(), Offset: 2}, PositionAfter(box))
	assert.Equal(t, -1, StartOffset(&Element{name: "paragraph"}))
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{"0/1/0", []int{0, 1, 0}, false},
		{"/2/", []int{2}, false},
		{"", nil, false},
		{"1/x", nil, true},
		{"-1", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePath(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFirstEditablePosition(t *testing.T) {
	doc := newTestDocument(t)
	assert.Equal(t, Position{Parent: doc.Root()}, FirstEditablePosition(doc.Schema(), doc.Root()))

	load(t, doc)
	pos := FirstEditablePosition(doc.Schema(), doc.Root())
	assert.Equal(t, "paragraph", pos.Parent.Name())
	assert.Equal(t, []int{0, 0}, pos.Path())
}

func TestStringify(t *testing.T) {
	doc := newTestDocument(t)
	require.NoError(t, doc.Change(func(w *Writer) error {
		p := w.CreateElement("paragraph", nil)
		if err := w.Append(p, w.Root()); err != nil {
			return err
		}
		if err := w.Append(w.CreateText(`a<b>&"c"`, nil), p); err != nil {
			return err
		}
		return w.Append(w.CreateText("d", map[string]any{"bold": true}), p)
	}))

	assert.Equal(t, `<paragraph>a&lt;b&gt;&amp;&quot;c&quot;<$text bold="true">d</$text></paragraph>`, Stringify(doc.Root()))
	assert.Equal(t, `<$text bold="true">d</$text>`, Stringify(doc.Root().Child(0).(*Element).Child(1)))
}
