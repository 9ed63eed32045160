package hast

import "strings"

// VisitFunc is called for each node in pre-order. parent is nil for the
// starting node. Returning false skips the node's children.
type VisitFunc func(n Node, parent Parent) bool

// Walk visits n and its descendants in document order.
func Walk(n Node, fn VisitFunc) {
	walk(n, nil, fn)
}

func walk(n Node, parent Parent, fn VisitFunc) {
	if n == nil || !fn(n, parent) {
		return
	}
	p, ok := n.(Parent)
	if !ok {
		return
	}
	for _, c := range p.ChildNodes() {
		walk(c, p, fn)
	}
}

// TextContent concatenates all text below n.
func TextContent(n Node) string {
	var buf strings.Builder
	Walk(n, func(c Node, _ Parent) bool {
		if t, ok := c.(*Text); ok {
			buf.WriteString(t.Value)
		}
		return true
	})
	return buf.String()
}

// HeadingLevel returns 1-6 for h1..h6 elements and 0 otherwise.
func HeadingLevel(n Node) int {
	el, ok := n.(*Element)
	if !ok {
		return 0
	}
	return TagHeadingLevel(el.TagName)
}

// TagHeadingLevel maps a heading tag name to its level.
func TagHeadingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func splitFields(s string) []string {
	return strings.Fields(s)
}
