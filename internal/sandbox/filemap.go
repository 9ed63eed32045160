package sandbox

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgallion1/slidedeck/internal/hast"
)

// Default paths for snippets that carry no file name.
const (
	AppJSPath     = "/src/App.js"
	AppJSXPath    = "/src/App.jsx"
	StylesCSSPath = "/src/styles.css"
)

var (
	ErrMissingFilename = errors.New("code block is missing a filename")
	ErrDuplicateFile   = errors.New("file defined multiple times")
)

// File is one entry of a playground file map.
type File struct {
	Code   string `json:"code"`
	Hidden bool   `json:"hidden"`
	Active bool   `json:"active"`
}

// FileMap is keyed by absolute path inside the playground, e.g. "/src/App.js".
type FileMap map[string]File

// BuildFileMap turns the code snippets of a playground component into a file
// map. Only pre elements count; the code element's meta ("name hidden active")
// names the file, otherwise its language class picks a default path.
func BuildFileMap(snippets []hast.Node) (FileMap, error) {
	files := FileMap{}
	for _, n := range snippets {
		pre, ok := n.(*hast.Element)
		if !ok || pre.TagName != "pre" {
			continue
		}
		code := codeChild(pre)

		var props hast.Properties
		if code != nil {
			props = code.Properties
		}

		var path string
		var f File
		if meta := strings.Fields(props.Get("meta")); len(meta) > 0 {
			path = "/" + meta[0]
			for _, flag := range meta[1:] {
				switch flag {
				case "hidden":
					f.Hidden = true
				case "active":
					f.Active = true
				}
			}
		} else {
			switch props.Get("className") {
			case "language-js":
				path = AppJSPath
			case "language-jsx":
				path = AppJSXPath
			case "language-css":
				path = StylesCSSPath
			default:
				return nil, fmt.Errorf("%w: %q", ErrMissingFilename, snippetPreview(pre))
			}
		}

		if _, exists := files[path]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateFile, path)
		}
		if code != nil {
			f.Code = hast.TextContent(code)
		}
		files[path] = f
	}
	return files, nil
}

func codeChild(pre *hast.Element) *hast.Element {
	for _, c := range pre.Children {
		if el, ok := c.(*hast.Element); ok && el.TagName == "code" {
			return el
		}
	}
	return nil
}

func snippetPreview(n hast.Node) string {
	s := strings.TrimSpace(hast.TextContent(n))
	if len(s) > 40 {
		s = s[:40] + "..."
	}
	return s
}
