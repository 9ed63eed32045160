package slides

import (
	"strings"

	"github.com/dgallion1/slidedeck/internal/hast"
)

// FirstSlideClass marks the leading slide of a deck that has a top-level h1.
const FirstSlideClass = "first-slide"

// Config controls slide segmentation.
type Config struct {
	SlideSeparators       []string // Top-level tags that start a new slide.
	SlideContainerTag     string   // Tag of every generated slide container.
	SlideClassName        *string  // className of generated slides; nil omits it.
	SubDocumentExtensions []string // Import sources with these suffixes are sub-decks.
}

// DefaultConfig returns the stock configuration: hr separators, div
// containers with class "slide", .mdx sub-documents.
func DefaultConfig() Config {
	return Config{
		SlideSeparators:       []string{"hr"},
		SlideContainerTag:     "div",
		SlideClassName:        Class("slide"),
		SubDocumentExtensions: []string{".mdx"},
	}
}

// Class returns a pointer suitable for Config.SlideClassName.
func Class(name string) *string {
	return &name
}

// Segment groups the top-level children of root into slide containers.
//
// Only direct children of root are considered. The input is consumed: its
// children are moved into the returned tree. An empty root is returned as is.
func Segment(root *hast.Root, cfg Config) *hast.Root {
	if root == nil || len(root.Children) == 0 {
		return root
	}
	cfg = withDefaults(cfg)

	acc := start(root.Children, cfg)
	for _, child := range root.Children {
		acc = acc.step(child)
	}
	return &hast.Root{Children: acc.slides}
}

func withDefaults(cfg Config) Config {
	def := DefaultConfig()
	if len(cfg.SlideSeparators) == 0 {
		cfg.SlideSeparators = def.SlideSeparators
	}
	if cfg.SlideContainerTag == "" {
		cfg.SlideContainerTag = def.SlideContainerTag
	}
	if len(cfg.SubDocumentExtensions) == 0 {
		cfg.SubDocumentExtensions = def.SubDocumentExtensions
	}
	return cfg
}

// accumulator is the fold state of one Segment call. The last entry of
// slides is the current slide.
type accumulator struct {
	cfg      Config
	slides   []hast.Node
	bindings map[string]struct{}
}

func start(children []hast.Node, cfg Config) accumulator {
	acc := accumulator{
		cfg:      cfg,
		bindings: make(map[string]struct{}),
	}
	if !acc.isSeparator(children[0]) {
		// The h1 scan covers the whole top level, not the leading slide only.
		var marker string
		if hasTopLevelH1(children) {
			marker = FirstSlideClass
		}
		acc.slides = append(acc.slides, acc.newSlide(marker))
	}
	return acc
}

func (a accumulator) step(node hast.Node) accumulator {
	switch n := node.(type) {
	case *hast.Element:
		if a.isSeparator(n) {
			slide := a.newSlide("")
			slide.Children = append(slide.Children, n.Children...)
			a.slides = append(a.slides, slide)
			return a
		}
	case *hast.Import:
		if n.ImportedName != "" && a.isSubDocument(n.Source) {
			a.bindings[n.ImportedName] = struct{}{}
		}
	case *hast.Component:
		if _, ok := a.bindings[n.Name]; ok && n.Name != "" {
			return a.splice(n)
		}
	}

	a.current().SetChildNodes(append(a.current().ChildNodes(), node))
	return a
}

// splice replaces the current slide with the invoked sub-document,
// carrying the slide's content along as trailing children.
func (a accumulator) splice(invoked *hast.Component) accumulator {
	last := len(a.slides) - 1
	preamble := a.current().ChildNodes()
	a.slides = a.slides[:last]
	invoked.Children = append(invoked.Children, preamble...)
	a.slides = append(a.slides, invoked)
	return a
}

func (a accumulator) current() hast.Parent {
	return a.slides[len(a.slides)-1].(hast.Parent)
}

func (a accumulator) newSlide(marker string) *hast.Element {
	var classes []string
	if a.cfg.SlideClassName != nil && *a.cfg.SlideClassName != "" {
		classes = append(classes, *a.cfg.SlideClassName)
	}
	if marker != "" {
		classes = append(classes, marker)
	}

	slide := &hast.Element{
		TagName:    a.cfg.SlideContainerTag,
		Properties: hast.Properties{},
		Children:   []hast.Node{},
	}
	if len(classes) > 0 {
		slide.Properties["className"] = strings.Join(classes, " ")
	}
	return slide
}

func (a accumulator) isSeparator(n hast.Node) bool {
	el, ok := n.(*hast.Element)
	if !ok {
		return false
	}
	for _, tag := range a.cfg.SlideSeparators {
		if el.TagName == tag {
			return true
		}
	}
	return false
}

func (a accumulator) isSubDocument(source string) bool {
	for _, ext := range a.cfg.SubDocumentExtensions {
		if strings.HasSuffix(source, ext) {
			return true
		}
	}
	return false
}

func hasTopLevelH1(children []hast.Node) bool {
	for _, c := range children {
		if hast.HeadingLevel(c) == 1 {
			return true
		}
	}
	return false
}
