package hast

// Kind distinguishes the node variants of a document tree.
type Kind string

const (
	KindRoot      Kind = "root"
	KindElement   Kind = "element"
	KindText      Kind = "text"
	KindImport    Kind = "import"
	KindComponent Kind = "component"
)

// Node is one node of a parsed document tree.
type Node interface {
	Kind() Kind
}

// Parent is a node that owns an ordered list of children.
type Parent interface {
	Node
	ChildNodes() []Node
	SetChildNodes(children []Node)
}

// Properties holds element attributes. className is a single space-separated string.
type Properties map[string]string

// Root is the top of a document tree. Its children are in document order.
type Root struct {
	Children []Node
}

// Element is an HTML-like element (heading, paragraph, hr, section, ...).
type Element struct {
	TagName    string
	Properties Properties
	Children   []Node
}

// Text is raw text content.
type Text struct {
	Value string
}

// Import marks a module import in the source, e.g.
// `import Intro from './intro.mdx'`. ImportedName is the bound symbol.
type Import struct {
	ImportedName string
	Source       string
}

// Component is an embedded component invocation such as `<Intro />`.
// Name is compared against import bindings.
type Component struct {
	Name       string
	Properties Properties
	Children   []Node
}

func (*Root) Kind() Kind      { return KindRoot }
func (*Element) Kind() Kind   { return KindElement }
func (*Text) Kind() Kind      { return KindText }
func (*Import) Kind() Kind    { return KindImport }
func (*Component) Kind() Kind { return KindComponent }

func (n *Root) ChildNodes() []Node      { return n.Children }
func (n *Element) ChildNodes() []Node   { return n.Children }
func (n *Component) ChildNodes() []Node { return n.Children }

func (n *Root) SetChildNodes(c []Node)      { n.Children = c }
func (n *Element) SetChildNodes(c []Node)   { n.Children = c }
func (n *Component) SetChildNodes(c []Node) { n.Children = c }

// NewElement builds an element with the given children.
func NewElement(tag string, props Properties, children ...Node) *Element {
	if children == nil {
		children = []Node{}
	}
	return &Element{TagName: tag, Properties: props, Children: children}
}

// NewText builds a text node.
func NewText(v string) *Text {
	return &Text{Value: v}
}

// Get returns a property value, tolerating a nil map.
func (p Properties) Get(key string) string {
	if p == nil {
		return ""
	}
	return p[key]
}

// ClassNames splits the className property.
func (p Properties) ClassNames() []string {
	return splitFields(p.Get("className"))
}

// HasClass reports whether className contains class.
func (p Properties) HasClass(class string) bool {
	for _, c := range p.ClassNames() {
		if c == class {
			return true
		}
	}
	return false
}
