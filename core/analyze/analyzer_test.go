package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/mdpipe/core"
)

func TestAnalyze(t *testing.T) {
	html := `<main>
  <h1>Intro</h1>
  <p>Hello <a href=" /a ">first   link</a></p>
  <ol><li>one</li><li>two</li></ol>
  <h2>Code</h2>
  <pre><code>x := 1</code></pre>
  <table><tr><td>cell</td></tr></table>
</main>`

	got, err := New().Analyze(html)
	require.NoError(t, err)

	assert.Equal(t, []core.Heading{
		{Level: 1, Text: "Intro"},
		{Level: 2, Text: "Code"},
	}, got.Structure.Headings)
	assert.Equal(t, []core.Link{{Text: "first link", Href: "/a"}}, got.Structure.Links)
	assert.Equal(t, 1, got.Structure.CodeBlocks)
	assert.Equal(t, 1, got.Structure.Tables)
	assert.Equal(t, 2, got.Structure.Lists)

	require.Len(t, got.Sections, 2)
	assert.Equal(t, "Intro", got.Sections[0].Heading)
	assert.Equal(t, "Hello first link onetwo", got.Sections[0].Text)
	assert.Equal(t, "x := 1 cell", got.Sections[1].Text)

	assert.Equal(t, "Intro Hello first link onetwo Code x := 1 cell", got.Text)
}

func TestAnalyzeEmpty(t *testing.T) {
	got, err := New().Analyze("")
	require.NoError(t, err)
	assert.Empty(t, got.Structure.Headings)
	assert.Empty(t, got.Sections)
	assert.Empty(t, got.Text)
}
