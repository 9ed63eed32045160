package sandbox

import (
	"fmt"

	"github.com/dgallion1/slidedeck/internal/hast"
)

// DefaultComponents are the component names treated as playgrounds.
var DefaultComponents = []string{"Sandpack", "SandpackWithHTMLOutput"}

// Sandbox is one playground found in a segmented deck.
type Sandbox struct {
	Slide     int     `json:"slide"` // 1-based slide index.
	Component string  `json:"component"`
	Files     FileMap `json:"files"`
}

// Collect finds playground components in the slides of root and builds
// their file maps. The first file map error aborts the collection.
func Collect(root *hast.Root, names []string) ([]Sandbox, error) {
	if root == nil {
		return nil, nil
	}
	if len(names) == 0 {
		names = DefaultComponents
	}
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	var out []Sandbox
	for i, slide := range root.Children {
		var err error
		hast.Walk(slide, func(n hast.Node, _ hast.Parent) bool {
			if err != nil {
				return false
			}
			comp, ok := n.(*hast.Component)
			if !ok || !wanted[comp.Name] {
				return true
			}
			files, ferr := BuildFileMap(comp.Children)
			if ferr != nil {
				err = fmt.Errorf("slide %d: %s: %w", i+1, comp.Name, ferr)
				return false
			}
			out = append(out, Sandbox{Slide: i + 1, Component: comp.Name, Files: files})
			return false
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
