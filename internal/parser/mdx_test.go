package parser

import (
	"strings"
	"testing"

	"github.com/dgallion1/slidedeck/internal/hast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMDX_ImportsBecomeImportNodes(t *testing.T) {
	input := `import Intro from './intro.mdx'
import { Chart } from "../chart.jsx";
import './styles.css'
export const meta = { title: 'x' }

# Deck
`
	doc := parseMarkdown(t, input, "deck.en.mdx")

	require.Len(t, doc.Root.Children, 4)
	intro := doc.Root.Children[0].(*hast.Import)
	assert.Equal(t, "Intro", intro.ImportedName)
	assert.Equal(t, "./intro.mdx", intro.Source)

	chart := doc.Root.Children[1].(*hast.Import)
	assert.Equal(t, "{ Chart }", chart.ImportedName)
	assert.Equal(t, "../chart.jsx", chart.Source)

	css := doc.Root.Children[2].(*hast.Import)
	assert.Empty(t, css.ImportedName)
	assert.Equal(t, "./styles.css", css.Source)

	assert.Equal(t, "h1", doc.Root.Children[3].(*hast.Element).TagName)
}

func TestMDX_ProseStartingWithImportStaysAParagraph(t *testing.T) {
	doc := parseMarkdown(t, "import is a keyword in JavaScript.\n", "deck.mdx")
	require.Len(t, doc.Root.Children, 1)
	assert.Equal(t, "p", doc.Root.Children[0].(*hast.Element).TagName)
}

func TestMDX_ImportsAreIgnoredInPlainMarkdown(t *testing.T) {
	doc := parseMarkdown(t, "import Intro from './intro.mdx'\n", "deck.md")
	require.Len(t, doc.Root.Children, 1)
	assert.Equal(t, "p", doc.Root.Children[0].(*hast.Element).TagName)
}

func TestMDX_SelfClosingComponent(t *testing.T) {
	doc := parseMarkdown(t, "Before\n\n<Intro lang=\"en\" compact />\n\nAfter\n", "deck.mdx")

	assert.Equal(t, []string{"p", "<Intro>", "p"}, tags(doc.Root.Children))
	comp := doc.Root.Children[1].(*hast.Component)
	assert.Equal(t, "en", comp.Properties.Get("lang"))
	assert.Equal(t, "true", comp.Properties.Get("compact"))
	assert.NotNil(t, comp.Children)
	assert.Empty(t, comp.Children)
}

func TestMDX_ComponentCollectsSiblingsUntilClosingTag(t *testing.T) {
	input := "<Sandpack template=\"react\">\n\n```js App.js\nexport default 1\n```\n\n```css\nbody {}\n```\n\n</Sandpack>\n\nOutside\n"
	doc := parseMarkdown(t, input, "deck.mdx")

	require.Equal(t, []string{"<Sandpack>", "p"}, tags(doc.Root.Children))
	sp := doc.Root.Children[0].(*hast.Component)
	assert.Equal(t, "react", sp.Properties.Get("template"))
	assert.Equal(t, []string{"pre", "pre"}, tags(sp.Children))
	assert.Equal(t, "Outside", hast.TextContent(doc.Root.Children[1]))
}

func TestMDX_NestedComponents(t *testing.T) {
	input := "<Columns>\n\n<Column>\n\nLeft\n\n</Column>\n\n<Column>\n\nRight\n\n</Column>\n\n</Columns>\n"
	doc := parseMarkdown(t, input, "deck.mdx")

	require.Len(t, doc.Root.Children, 1)
	cols := doc.Root.Children[0].(*hast.Component)
	require.Equal(t, []string{"<Column>", "<Column>"}, tags(cols.Children))
	assert.Equal(t, "Right", hast.TextContent(cols.Children[1]))
}

func TestMDX_InlineComponentBody(t *testing.T) {
	doc := parseMarkdown(t, "<Note>Remember **this**</Note>\n", "deck.mdx")

	require.Len(t, doc.Root.Children, 1)
	note := doc.Root.Children[0].(*hast.Component)
	assert.Equal(t, "Note", note.Name)
	assert.Equal(t, []string{"#text", "strong"}, tags(note.Children))
}

func TestMDX_UnclosedComponentRunsToEnd(t *testing.T) {
	doc := parseMarkdown(t, "<Aside>\n\nA\n\nB\n", "deck.mdx")
	require.Len(t, doc.Root.Children, 1)
	aside := doc.Root.Children[0].(*hast.Component)
	assert.Equal(t, []string{"p", "p"}, tags(aside.Children))
}

func TestMDX_StrayClosingTagIsDropped(t *testing.T) {
	doc := parseMarkdown(t, "A\n\n</Aside>\n\nB\n", "deck.mdx")
	assert.Equal(t, []string{"p", "p"}, tags(doc.Root.Children))
}

func TestMDX_LowercaseJSXBecomesElement(t *testing.T) {
	doc := parseMarkdown(t, "<img src=\"/cat.png\" alt=\"cat\" />\n", "deck.mdx")
	require.Len(t, doc.Root.Children, 1)
	img := doc.Root.Children[0].(*hast.Element)
	assert.Equal(t, "img", img.TagName)
	assert.Equal(t, "/cat.png", img.Properties.Get("src"))
	assert.Equal(t, "cat", img.Properties.Get("alt"))
}

func TestParseJSXAttributes(t *testing.T) {
	props := parseJSXAttributes(` a="1" b='two' c={3 + 4} d `)
	assert.Equal(t, hast.Properties{"a": "1", "b": "two", "c": "3 + 4", "d": "true"}, props)
	assert.Nil(t, parseJSXAttributes("  "))
}

func TestMDX_DocumentTitleFromFrontMatterWithImports(t *testing.T) {
	input := strings.Join([]string{
		"---",
		"title: Routing",
		"---",
		"import Part from './part.mdx'",
		"",
		"<Part />",
	}, "\n")
	doc := parseMarkdown(t, input, "react-router.en.mdx")
	assert.Equal(t, "Routing", doc.Title)
	assert.Equal(t, []string{"import:Part", "<Part>"}, tags(doc.Root.Children))
}
