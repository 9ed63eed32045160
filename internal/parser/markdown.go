package parser

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/dgallion1/slidedeck/internal/hast"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	gmparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. With MDX set it
// also recognizes ESM imports and JSX component blocks.
type MarkdownParser struct {
	Options Options
	MDX     bool
}

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(gmparser.WithAutoHeadingID()),
	)
}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	meta, body, err := splitFrontMatter(src)
	if err != nil {
		return nil, err
	}

	c := &converter{md: newMarkdown(), mdx: p.MDX, sanitize: p.Options.SanitizeHTML}
	children, err := c.parse(body)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Title: titleFromFilename(filename),
		Lang:  metaString(meta, "lang"),
		Meta:  meta,
		Root:  &hast.Root{Children: children},
	}
	if t := metaString(meta, "title"); t != "" {
		doc.Title = t
	} else if t := firstH1(children); t != "" {
		doc.Title = t
	}
	return doc, nil
}

func firstH1(nodes []hast.Node) string {
	for _, n := range nodes {
		if hast.HeadingLevel(n) == 1 {
			return strings.TrimSpace(hast.TextContent(n))
		}
	}
	return ""
}

// converter turns a goldmark AST into hast nodes.
type converter struct {
	md       goldmark.Markdown
	src      []byte
	mdx      bool
	sanitize bool
}

// parse converts a standalone Markdown source. JSX component bodies are
// parsed through here as well.
func (c *converter) parse(src []byte) ([]hast.Node, error) {
	doc := c.md.Parser().Parse(text.NewReader(src))
	sub := *c
	sub.src = src
	nodes, err := sub.blocks(doc)
	if err != nil {
		return nil, err
	}
	if nodes == nil {
		nodes = []hast.Node{}
	}
	return nodes, nil
}

// blocks converts the block children of parent. In MDX mode an unclosed
// component tag swallows the following siblings until its closing tag.
func (c *converter) blocks(parent ast.Node) ([]hast.Node, error) {
	var out []hast.Node
	var open []*hast.Component

	emit := func(nodes ...hast.Node) {
		if len(open) > 0 {
			top := open[len(open)-1]
			top.Children = append(top.Children, nodes...)
			return
		}
		out = append(out, nodes...)
	}

	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		if c.mdx {
			var raw string
			switch b := n.(type) {
			case *ast.HTMLBlock:
				raw = c.htmlBlockSource(b)
			case *ast.Paragraph:
				if imports, ok := c.esm(b); ok {
					emit(imports...)
					continue
				}
				// <Note>inline body</Note> is not an HTML block for CommonMark.
				raw = c.rawLines(b)
			}
			if raw != "" {
				tag, ok, err := c.jsxBlock(raw)
				if err != nil {
					return nil, err
				}
				if ok {
					switch tag.state {
					case jsxClosing:
						open = closeComponent(open, tag.component.Name)
					case jsxUnclosed:
						emit(tag.component)
						open = append(open, tag.component)
					default:
						emit(tag.component)
					}
					emit(tag.trailing...)
					continue
				}
			}
		}

		nodes, err := c.block(n)
		if err != nil {
			return nil, err
		}
		emit(nodes...)
	}
	return out, nil
}

// closeComponent pops the innermost open component called name. A stray
// closing tag is ignored.
func closeComponent(open []*hast.Component, name string) []*hast.Component {
	for i := len(open) - 1; i >= 0; i-- {
		if open[i].Name == name {
			return open[:i]
		}
	}
	return open
}

func (c *converter) block(n ast.Node) ([]hast.Node, error) {
	switch node := n.(type) {
	case *ast.Heading:
		var props hast.Properties
		if id, ok := node.AttributeString("id"); ok {
			if b, ok := id.([]byte); ok {
				props = hast.Properties{"id": string(b)}
			}
		}
		return one(hast.NewElement("h"+strconv.Itoa(node.Level), props, c.inlines(node)...)), nil

	case *ast.Paragraph:
		return one(hast.NewElement("p", nil, c.inlines(node)...)), nil

	case *ast.TextBlock:
		return c.inlines(node), nil

	case *ast.ThematicBreak:
		return one(hast.NewElement("hr", nil)), nil

	case *ast.Blockquote:
		children, err := c.blocks(node)
		if err != nil {
			return nil, err
		}
		return one(hast.NewElement("blockquote", nil, children...)), nil

	case *ast.List:
		tag := "ul"
		var props hast.Properties
		if node.IsOrdered() {
			tag = "ol"
			if node.Start != 1 {
				props = hast.Properties{"start": strconv.Itoa(node.Start)}
			}
		}
		children, err := c.blocks(node)
		if err != nil {
			return nil, err
		}
		return one(hast.NewElement(tag, props, children...)), nil

	case *ast.ListItem:
		children, err := c.blocks(node)
		if err != nil {
			return nil, err
		}
		return one(hast.NewElement("li", nil, children...)), nil

	case *ast.FencedCodeBlock:
		var lang, meta string
		if node.Info != nil {
			info := strings.TrimSpace(string(node.Info.Segment.Value(c.src)))
			lang, meta, _ = strings.Cut(info, " ")
			meta = strings.TrimSpace(meta)
		}
		return one(codeBlock(lang, meta, c.rawLines(node))), nil

	case *ast.CodeBlock:
		return one(codeBlock("", "", c.rawLines(node))), nil

	case *ast.HTMLBlock:
		return parseHTMLFragment(c.htmlBlockSource(node), c.sanitize)

	case *east.Table:
		return one(c.table(node)), nil

	default:
		if n.Type() == ast.TypeBlock && n.HasChildren() {
			return c.blocks(n)
		}
	}
	return nil, nil
}

func codeBlock(lang, meta, code string) *hast.Element {
	var props hast.Properties
	if lang != "" || meta != "" {
		props = hast.Properties{}
		if lang != "" {
			props["className"] = "language-" + lang
		}
		if meta != "" {
			props["meta"] = meta
		}
	}
	return hast.NewElement("pre", nil, hast.NewElement("code", props, hast.NewText(code)))
}

func (c *converter) table(t *east.Table) *hast.Element {
	table := hast.NewElement("table", nil)
	var body *hast.Element

	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		switch r := row.(type) {
		case *east.TableHeader:
			table.Children = append(table.Children, hast.NewElement("thead", nil, c.tableRow(r, "th")))
		case *east.TableRow:
			if body == nil {
				body = hast.NewElement("tbody", nil)
				table.Children = append(table.Children, body)
			}
			body.Children = append(body.Children, c.tableRow(r, "td"))
		}
	}
	return table
}

func (c *converter) tableRow(row ast.Node, cellTag string) *hast.Element {
	tr := hast.NewElement("tr", nil)
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		var props hast.Properties
		if tc, ok := cell.(*east.TableCell); ok && tc.Alignment != east.AlignNone {
			props = hast.Properties{"align": tc.Alignment.String()}
		}
		tr.Children = append(tr.Children, hast.NewElement(cellTag, props, c.inlines(cell)...))
	}
	return tr
}

func (c *converter) inlines(n ast.Node) []hast.Node {
	var out []hast.Node
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		out = append(out, c.inline(ch)...)
	}
	return mergeText(out)
}

func (c *converter) inline(n ast.Node) []hast.Node {
	switch node := n.(type) {
	case *ast.Text:
		value := string(node.Segment.Value(c.src))
		if node.HardLineBreak() {
			return []hast.Node{hast.NewText(value), hast.NewElement("br", nil)}
		}
		if node.SoftLineBreak() {
			value += "\n"
		}
		return one(hast.NewText(value))

	case *ast.String:
		return one(hast.NewText(string(node.Value)))

	case *ast.CodeSpan:
		return one(hast.NewElement("code", nil, hast.NewText(c.plainText(node))))

	case *ast.Emphasis:
		tag := "em"
		if node.Level == 2 {
			tag = "strong"
		}
		return one(hast.NewElement(tag, nil, c.inlines(node)...))

	case *ast.Link:
		props := hast.Properties{"href": string(node.Destination)}
		if len(node.Title) > 0 {
			props["title"] = string(node.Title)
		}
		return one(hast.NewElement("a", props, c.inlines(node)...))

	case *ast.Image:
		props := hast.Properties{"src": string(node.Destination), "alt": c.plainText(node)}
		if len(node.Title) > 0 {
			props["title"] = string(node.Title)
		}
		return one(hast.NewElement("img", props))

	case *ast.AutoLink:
		href := string(node.URL(c.src))
		if node.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(href), "mailto:") {
			href = "mailto:" + href
		}
		return one(hast.NewElement("a", hast.Properties{"href": href}, hast.NewText(string(node.Label(c.src)))))

	case *ast.RawHTML:
		var buf bytes.Buffer
		for i := 0; i < node.Segments.Len(); i++ {
			seg := node.Segments.At(i)
			buf.Write(seg.Value(c.src))
		}
		return one(hast.NewText(buf.String()))

	case *east.Strikethrough:
		return one(hast.NewElement("del", nil, c.inlines(node)...))

	case *east.TaskCheckBox:
		props := hast.Properties{"type": "checkbox", "disabled": "true"}
		if node.IsChecked {
			props["checked"] = "true"
		}
		return one(hast.NewElement("input", props))
	}
	return c.inlines(n)
}

// plainText is the text of an inline subtree without markup.
func (c *converter) plainText(n ast.Node) string {
	var buf strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := child.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(c.src))
		case *ast.String:
			buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func (c *converter) rawLines(n ast.Node) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(c.src))
	}
	return buf.String()
}

func (c *converter) htmlBlockSource(b *ast.HTMLBlock) string {
	raw := c.rawLines(b)
	if b.HasClosure() {
		raw += string(b.ClosureLine.Value(c.src))
	}
	return raw
}

// mergeText joins adjacent text nodes produced by goldmark's segmenting.
func mergeText(nodes []hast.Node) []hast.Node {
	var out []hast.Node
	for _, n := range nodes {
		t, ok := n.(*hast.Text)
		if ok && len(out) > 0 {
			if prev, ok := out[len(out)-1].(*hast.Text); ok {
				prev.Value += t.Value
				continue
			}
		}
		out = append(out, n)
	}
	return out
}

func one(n hast.Node) []hast.Node {
	return []hast.Node{n}
}
