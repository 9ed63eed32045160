package parser

import (
	"regexp"
	"strings"

	"github.com/dgallion1/slidedeck/internal/hast"
	"github.com/yuin/goldmark/ast"
)

var (
	importRe       = regexp.MustCompile(`^import\s+(.+?)\s+from\s+['"]([^'"]+)['"]\s*;?$`)
	sideEffectRe   = regexp.MustCompile(`^import\s+['"]([^'"]+)['"]\s*;?$`)
	exportRe       = regexp.MustCompile(`^export\s+(const|let|var|function|default|\{)`)
	jsxOpenRe      = regexp.MustCompile(`^<([A-Z][A-Za-z0-9_.]*)((?:\s+[^>]*?)?)\s*(/?)>`)
	jsxCloseRe     = regexp.MustCompile(`^</([A-Z][A-Za-z0-9_.]*)\s*>$`)
	jsxAttributeRe = regexp.MustCompile(`([A-Za-z_:][A-Za-z0-9_:.-]*)(?:\s*=\s*(?:"([^"]*)"|'([^']*)'|\{([^}]*)\}))?`)
)

// esm converts a paragraph made only of import/export statements. Import
// lines become Import nodes; export lines are dropped.
func (c *converter) esm(p *ast.Paragraph) ([]hast.Node, bool) {
	lines := p.Lines()
	if lines.Len() == 0 {
		return nil, false
	}

	var out []hast.Node
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		line := strings.TrimSpace(string(seg.Value(c.src)))
		switch {
		case line == "":
		case importRe.MatchString(line):
			m := importRe.FindStringSubmatch(line)
			out = append(out, &hast.Import{ImportedName: strings.TrimSpace(m[1]), Source: m[2]})
		case sideEffectRe.MatchString(line):
			m := sideEffectRe.FindStringSubmatch(line)
			out = append(out, &hast.Import{Source: m[1]})
		case exportRe.MatchString(line):
		default:
			return nil, false
		}
	}
	if out == nil {
		out = []hast.Node{}
	}
	return out, true
}

type jsxState int

const (
	jsxSelfClosing jsxState = iota
	jsxClosed
	jsxUnclosed
	jsxClosing
)

type jsxTag struct {
	state     jsxState
	component *hast.Component
	trailing  []hast.Node // Markdown after a self-closing tag in the same block.
}

// jsxBlock recognizes an HTML block that starts with a capitalised JSX tag.
// The block body, if any, is parsed as Markdown into the component.
func (c *converter) jsxBlock(raw string) (jsxTag, bool, error) {
	raw = strings.TrimSpace(raw)
	if m := jsxCloseRe.FindStringSubmatch(raw); m != nil {
		return jsxTag{state: jsxClosing, component: &hast.Component{Name: m[1]}}, true, nil
	}

	loc := jsxOpenRe.FindStringSubmatchIndex(raw)
	if loc == nil {
		return jsxTag{}, false, nil
	}
	name := raw[loc[2]:loc[3]]
	attrs := raw[loc[4]:loc[5]]
	selfClosing := loc[7] > loc[6]
	rest := raw[loc[1]:]

	comp := &hast.Component{
		Name:       name,
		Properties: parseJSXAttributes(attrs),
		Children:   []hast.Node{},
	}

	if selfClosing {
		tag := jsxTag{state: jsxSelfClosing, component: comp}
		if strings.TrimSpace(rest) != "" {
			trailing, err := c.parse([]byte(rest))
			if err != nil {
				return jsxTag{}, false, err
			}
			tag.trailing = trailing
		}
		return tag, true, nil
	}

	state := jsxUnclosed
	closing := "</" + name + ">"
	if trimmed := strings.TrimSpace(rest); strings.HasSuffix(trimmed, closing) {
		state = jsxClosed
		rest = strings.TrimSuffix(trimmed, closing)
	}
	if body := strings.TrimSpace(rest); body != "" {
		children, err := c.parse([]byte(body))
		if err != nil {
			return jsxTag{}, false, err
		}
		comp.Children = unwrapSingleParagraph(children)
	}
	return jsxTag{state: state, component: comp}, true, nil
}

// unwrapSingleParagraph keeps inline bodies like <Note>hi</Note> from
// gaining a paragraph wrapper.
func unwrapSingleParagraph(nodes []hast.Node) []hast.Node {
	if len(nodes) != 1 {
		return nodes
	}
	if p, ok := nodes[0].(*hast.Element); ok && p.TagName == "p" {
		return p.Children
	}
	return nodes
}

func parseJSXAttributes(s string) hast.Properties {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	props := hast.Properties{}
	for _, m := range jsxAttributeRe.FindAllStringSubmatch(s, -1) {
		key := m[1]
		switch {
		case m[2] != "":
			props[key] = m[2]
		case m[3] != "":
			props[key] = m[3]
		case m[4] != "":
			props[key] = strings.TrimSpace(m[4])
		default:
			props[key] = "true"
		}
	}
	return props
}
