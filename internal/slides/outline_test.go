package slides

import (
	"testing"

	"github.com/dgallion1/slidedeck/internal/hast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutline(t *testing.T) {
	in := root(
		&hast.Import{ImportedName: "Sub", Source: "./sub.mdx"},
		heading(1, " Welcome "), para("x"),
		sep(), sep(),
		para("no heading"), hast.NewElement("div", nil, heading(3, "Nested")),
		sep(), &hast.Component{Name: "Sub", Children: []hast.Node{heading(2, "Sub deck")}},
	)
	out := Segment(in, DefaultConfig())
	outline := Outline(out)

	require.Len(t, outline, 4)
	assert.Equal(t, Summary{Index: 1, Anchor: "#1", Title: "Welcome", Kind: hast.KindElement}, outline[0])
	assert.Equal(t, Summary{Index: 2, Anchor: "#2", Kind: hast.KindElement, Empty: true}, outline[1])
	assert.Equal(t, "Nested", outline[2].Title)
	assert.Equal(t, hast.KindComponent, outline[3].Kind)
	assert.Equal(t, "Sub deck", outline[3].Title)
}

func TestOutline_Nil(t *testing.T) {
	assert.Nil(t, Outline(nil))
}

func TestSlideAt(t *testing.T) {
	out := Segment(root(para("a"), sep(), para("b")), DefaultConfig())

	s, ok := SlideAt(out, 2)
	require.True(t, ok)
	assert.Equal(t, "b", hast.TextContent(s))

	_, ok = SlideAt(out, 0)
	assert.False(t, ok)
	_, ok = SlideAt(out, 3)
	assert.False(t, ok)
}
