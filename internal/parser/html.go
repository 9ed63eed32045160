package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/slidedeck/internal/hast"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLParser handles HTML files. The children of <body> become the
// top-level nodes of the document tree.
type HTMLParser struct {
	Options Options
}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*Document, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	out := &Document{Title: titleFromFilename(filename)}
	if title := findTitle(doc); title != "" {
		out.Title = title
	}
	if lang := findLang(doc); lang != "" {
		out.Lang = lang
	}

	body := findBody(doc)
	if body == nil {
		body = doc
	}

	var children []hast.Node
	if p.Options.SanitizeHTML {
		var buf bytes.Buffer
		for c := body.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return nil, fmt.Errorf("render body: %w", err)
			}
		}
		children, err = parseHTMLFragment(buf.String(), true)
		if err != nil {
			return nil, err
		}
	} else {
		children = convertSiblings(body)
	}

	out.Root = &hast.Root{Children: children}
	return out, nil
}

// ugcPolicy is applied to raw HTML when sanitizing is enabled.
var ugcPolicy = newUGCPolicy()

func newUGCPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	p.AllowAttrs("width", "height", "loading").OnElements("img")
	return p
}

// parseHTMLFragment parses raw HTML found inside Markdown into hast nodes.
func parseHTMLFragment(raw string, sanitize bool) ([]hast.Node, error) {
	if sanitize {
		raw = ugcPolicy.Sanitize(raw)
	}
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(raw), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse html fragment: %w", err)
	}

	var out []hast.Node
	for _, n := range nodes {
		if n.Type == html.TextNode && strings.TrimSpace(n.Data) == "" {
			continue
		}
		if c := convertHTML(n); c != nil {
			out = append(out, c)
		}
	}
	return out, nil
}

// convertSiblings converts the children of n, dropping whitespace-only
// text between block elements.
func convertSiblings(n *html.Node) []hast.Node {
	out := []hast.Node{}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) == "" {
			continue
		}
		if h := convertHTML(c); h != nil {
			out = append(out, h)
		}
	}
	return out
}

func convertHTML(n *html.Node) hast.Node {
	switch n.Type {
	case html.TextNode:
		return hast.NewText(n.Data)
	case html.ElementNode:
		el := &hast.Element{
			TagName:    n.Data,
			Properties: attrsToProperties(n.Attr),
			Children:   []hast.Node{},
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if h := convertHTML(c); h != nil {
				el.Children = append(el.Children, h)
			}
		}
		return el
	}
	// Comments and doctypes carry no slide content.
	return nil
}

func attrsToProperties(attrs []html.Attribute) hast.Properties {
	if len(attrs) == 0 {
		return nil
	}
	props := make(hast.Properties, len(attrs))
	for _, a := range attrs {
		if a.Namespace != "" {
			continue
		}
		key := a.Key
		if key == "class" {
			key = "className"
		}
		props[key] = a.Val
	}
	return props
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findLang(doc *html.Node) string {
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "html" {
			for _, a := range c.Attr {
				if a.Key == "lang" {
					return a.Val
				}
			}
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
