package hast

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrNotRoot is returned when a decoded tree does not start with a root node.
	ErrNotRoot = errors.New("hast: top-level node is not a root")
	// ErrUnknownKind is returned for a node type the codec does not know.
	ErrUnknownKind = errors.New("hast: unknown node type")
)

func (n *Root) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     Kind   `json:"type"`
		Children []Node `json:"children"`
	}{KindRoot, nonNilChildren(n.Children)})
}

func (n *Element) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       Kind       `json:"type"`
		TagName    string     `json:"tagName"`
		Properties Properties `json:"properties"`
		Children   []Node     `json:"children"`
	}{KindElement, n.TagName, nonNilProps(n.Properties), nonNilChildren(n.Children)})
}

func (n *Text) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  Kind   `json:"type"`
		Value string `json:"value"`
	}{KindText, n.Value})
}

func (n *Import) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type         Kind   `json:"type"`
		ImportedName string `json:"importedName,omitempty"`
		Source       string `json:"source,omitempty"`
	}{KindImport, n.ImportedName, n.Source})
}

func (n *Component) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       Kind       `json:"type"`
		Name       string     `json:"name"`
		Properties Properties `json:"properties"`
		Children   []Node     `json:"children"`
	}{KindComponent, n.Name, nonNilProps(n.Properties), nonNilChildren(n.Children)})
}

type wireNode struct {
	Type         Kind              `json:"type"`
	TagName      string            `json:"tagName"`
	Name         string            `json:"name"`
	Properties   map[string]any    `json:"properties"`
	Children     []json.RawMessage `json:"children"`
	Value        string            `json:"value"`
	ImportedName string            `json:"importedName"`
	Source       string            `json:"source"`
}

// UnmarshalRoot decodes a JSON document tree whose top node must be a root.
func UnmarshalRoot(data []byte) (*Root, error) {
	n, err := DecodeNode(data)
	if err != nil {
		return nil, err
	}
	root, ok := n.(*Root)
	if !ok {
		return nil, ErrNotRoot
	}
	return root, nil
}

// DecodeNode decodes a single JSON node and its descendants.
func DecodeNode(data []byte) (Node, error) {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode node: %w", err)
	}

	switch w.Type {
	case KindRoot:
		children, err := decodeChildren(w.Children)
		if err != nil {
			return nil, err
		}
		return &Root{Children: children}, nil
	case KindElement:
		children, err := decodeChildren(w.Children)
		if err != nil {
			return nil, err
		}
		return &Element{TagName: w.TagName, Properties: flattenProps(w.Properties), Children: children}, nil
	case KindComponent:
		children, err := decodeChildren(w.Children)
		if err != nil {
			return nil, err
		}
		return &Component{Name: w.Name, Properties: flattenProps(w.Properties), Children: children}, nil
	case KindText:
		return &Text{Value: w.Value}, nil
	case KindImport:
		return &Import{ImportedName: w.ImportedName, Source: w.Source}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, w.Type)
	}
}

func decodeChildren(raw []json.RawMessage) ([]Node, error) {
	children := make([]Node, 0, len(raw))
	for i, r := range raw {
		c, err := DecodeNode(r)
		if err != nil {
			return nil, fmt.Errorf("child %d: %w", i, err)
		}
		children = append(children, c)
	}
	return children, nil
}

// flattenProps accepts hast-style property values (strings, class arrays,
// booleans, numbers) and stores them as strings.
func flattenProps(in map[string]any) Properties {
	if len(in) == 0 {
		return nil
	}
	out := make(Properties, len(in))
	for k, v := range in {
		switch val := v.(type) {
		case string:
			out[k] = val
		case bool:
			if val {
				out[k] = "true"
			}
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case []any:
			parts := make([]string, 0, len(val))
			for _, item := range val {
				if s, ok := item.(string); ok {
					parts = append(parts, s)
				} else if item != nil {
					parts = append(parts, fmt.Sprint(item))
				}
			}
			out[k] = strings.Join(parts, " ")
		case nil:
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	return out
}

func nonNilChildren(c []Node) []Node {
	if c == nil {
		return []Node{}
	}
	return c
}

func nonNilProps(p Properties) Properties {
	if p == nil {
		return Properties{}
	}
	return p
}
