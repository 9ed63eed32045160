package hast

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalRoot_DecodesAllKinds(t *testing.T) {
	input := `{
		"type": "root",
		"children": [
			{"type": "import", "importedName": "Intro", "source": "./intro.mdx"},
			{"type": "element", "tagName": "h1", "properties": {"id": "title"}, "children": [
				{"type": "text", "value": "Hello"}
			]},
			{"type": "element", "tagName": "hr"},
			{"type": "component", "name": "Intro", "children": []}
		]
	}`

	root, err := UnmarshalRoot([]byte(input))
	require.NoError(t, err)
	require.Len(t, root.Children, 4)

	imp, ok := root.Children[0].(*Import)
	require.True(t, ok)
	assert.Equal(t, "Intro", imp.ImportedName)
	assert.Equal(t, "./intro.mdx", imp.Source)

	h1, ok := root.Children[1].(*Element)
	require.True(t, ok)
	assert.Equal(t, "h1", h1.TagName)
	assert.Equal(t, "title", h1.Properties.Get("id"))
	assert.Equal(t, "Hello", TextContent(h1))

	hr, ok := root.Children[2].(*Element)
	require.True(t, ok)
	assert.NotNil(t, hr.Children, "missing children must decode as an empty list")
	assert.Empty(t, hr.Children)

	comp, ok := root.Children[3].(*Component)
	require.True(t, ok)
	assert.Equal(t, "Intro", comp.Name)
}

func TestUnmarshalRoot_RejectsNonRoot(t *testing.T) {
	_, err := UnmarshalRoot([]byte(`{"type":"text","value":"x"}`))
	assert.ErrorIs(t, err, ErrNotRoot)
}

func TestUnmarshalRoot_UnknownType(t *testing.T) {
	_, err := UnmarshalRoot([]byte(`{"type":"root","children":[{"type":"doctype"}]}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownKind))
}

func TestUnmarshalRoot_FlattensHastClassArrays(t *testing.T) {
	input := `{"type":"root","children":[
		{"type":"element","tagName":"pre","properties":{"className":["language-js","line-numbers"],"hidden":true,"tabIndex":0}}
	]}`
	root, err := UnmarshalRoot([]byte(input))
	require.NoError(t, err)

	pre := root.Children[0].(*Element)
	assert.Equal(t, "language-js line-numbers", pre.Properties.Get("className"))
	assert.True(t, pre.Properties.HasClass("line-numbers"))
	assert.Equal(t, "true", pre.Properties.Get("hidden"))
	assert.Equal(t, "0", pre.Properties.Get("tabIndex"))
}

func TestMarshal_EmptyChildrenAreArrays(t *testing.T) {
	root := &Root{Children: []Node{&Element{TagName: "section"}}}
	data, err := json.Marshal(root)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"type":"root","children":[{"type":"element","tagName":"section","properties":{},"children":[]}]}`,
		string(data))
}

func TestWalk_SkipsChildrenWhenVisitorReturnsFalse(t *testing.T) {
	tree := &Root{Children: []Node{
		NewElement("div", nil, NewText("inside")),
		NewText("outside"),
	}}

	var seen []string
	Walk(tree, func(n Node, parent Parent) bool {
		switch v := n.(type) {
		case *Element:
			seen = append(seen, v.TagName)
			return false
		case *Text:
			seen = append(seen, v.Value)
		}
		return true
	})
	assert.Equal(t, []string{"div", "outside"}, seen)
}

func TestHeadingLevel(t *testing.T) {
	assert.Equal(t, 1, HeadingLevel(NewElement("h1", nil)))
	assert.Equal(t, 6, HeadingLevel(NewElement("h6", nil)))
	assert.Equal(t, 0, HeadingLevel(NewElement("p", nil)))
	assert.Equal(t, 0, HeadingLevel(&Component{Name: "h1"}))
}
