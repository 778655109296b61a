package essentials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadavr95/spoiler/pkg/editor"
	"github.com/kadavr95/spoiler/pkg/model"
)

func TestEssentials_RoundTrip(t *testing.T) {
	ed, err := editor.New(editor.WithPlugins(All()...))
	require.NoError(t, err)

	in := `<h2>Title</h2><p>plain <strong>bold </strong><strong><i>both</i></strong> <i>italic</i></p><h4>small</h4>`
	stats, err := ed.SetData(in)
	require.NoError(t, err)
	assert.Zero(t, stats.Skipped)

	assert.Equal(t,
		`<heading1>Title</heading1>`+
			`<paragraph>plain <$text bold="true">bold </$text><$text bold="true" italic="true">both</$text> <$text italic="true">italic</$text></paragraph>`+
			`<heading3>small</heading3>`,
		model.Stringify(ed.Document().Root()))

	out, err := ed.GetData()
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestEssentials_AlternativeTags(t *testing.T) {
	ed, err := editor.New(editor.WithPlugins(All()...))
	require.NoError(t, err)

	_, err = ed.SetData(`<p><b>a</b><em>b</em></p>`)
	require.NoError(t, err)

	out, err := ed.GetData()
	require.NoError(t, err)
	assert.Equal(t, `<p><strong>a</strong><i>b</i></p>`, out)
}

func TestHeading_RequiresParagraph(t *testing.T) {
	_, err := editor.New(editor.WithPlugins(Heading{}))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires Paragraph")
}

func TestHeading_CustomOptions(t *testing.T) {
	ed, err := editor.New(editor.WithPlugins(Paragraph{}, Heading{Options: []HeadingOption{{Model: "title", Tag: "h1"}}}))
	require.NoError(t, err)

	_, err = ed.SetData("<h1>x</h1><h2>y</h2>")
	require.NoError(t, err)

	assert.Equal(t, "<title>x</title><paragraph>y</paragraph>", model.Stringify(ed.Document().Root()))
}
