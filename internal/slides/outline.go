package slides

import (
	"strconv"
	"strings"

	"github.com/dgallion1/slidedeck/internal/hast"
)

// Summary describes one slide of a segmented deck.
type Summary struct {
	Index  int       `json:"index"`  // 1-based position.
	Anchor string    `json:"anchor"` // URL hash used for navigation.
	Title  string    `json:"title,omitempty"`
	Kind   hast.Kind `json:"kind"`
	Empty  bool      `json:"empty"`
}

// Outline summarizes the slides of a segmented root.
func Outline(root *hast.Root) []Summary {
	if root == nil {
		return nil
	}
	out := make([]Summary, 0, len(root.Children))
	for i, s := range root.Children {
		sum := Summary{
			Index:  i + 1,
			Anchor: Anchor(i + 1),
			Kind:   s.Kind(),
		}
		if p, ok := s.(hast.Parent); ok {
			sum.Empty = len(p.ChildNodes()) == 0
		}
		sum.Title = firstHeading(s)
		out = append(out, sum)
	}
	return out
}

// Anchor returns the URL hash for a 1-based slide index.
func Anchor(index int) string {
	return "#" + strconv.Itoa(index)
}

// SlideAt returns the slide at a 1-based index.
func SlideAt(root *hast.Root, index int) (hast.Node, bool) {
	if root == nil || index < 1 || index > len(root.Children) {
		return nil, false
	}
	return root.Children[index-1], true
}

func firstHeading(n hast.Node) string {
	var title string
	hast.Walk(n, func(c hast.Node, _ hast.Parent) bool {
		if title != "" {
			return false
		}
		if hast.HeadingLevel(c) > 0 {
			title = strings.TrimSpace(hast.TextContent(c))
			return false
		}
		return true
	})
	return title
}
