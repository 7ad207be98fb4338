package dom

import (
	"errors"
	"fmt"
)

// ErrUnknownClass reports a canonical form whose $class is not part of the
// node model.
var ErrUnknownClass = errors.New("dom: unknown node class")

// Encode serializes a node into its canonical map form. The map always
// carries a "$class" kind tag; optional fields are omitted when empty so the
// form survives JSON round trips unchanged.
func Encode(node Node) map[string]any {
	if node == nil {
		return nil
	}
	out := map[string]any{"$class": node.Class()}
	switch n := node.(type) {
	case *Document:
		if n.Xmlns != "" {
			out["xmlns"] = n.Xmlns
		}
		out["nodes"] = encodeChildren(n.Nodes)
	case *Paragraph:
		out["nodes"] = encodeChildren(n.Nodes)
	case *Heading:
		out["level"] = n.Level
		out["nodes"] = encodeChildren(n.Nodes)
	case *Text:
		out["text"] = n.Text
	case *Emphasis:
		out["nodes"] = encodeChildren(n.Nodes)
	case *Strong:
		out["nodes"] = encodeChildren(n.Nodes)
	case *Link:
		out["destination"] = n.Destination
		if n.Title != "" {
			out["title"] = n.Title
		}
		out["nodes"] = encodeChildren(n.Nodes)
	case *Code:
		out["text"] = n.Text
	case *Softbreak, *Linebreak, *ThematicBreak:
	case *BlockQuote:
		out["nodes"] = encodeChildren(n.Nodes)
	case *List:
		out["type"] = n.Type
		if n.Type == ListTypeOrdered {
			out["start"] = n.Start
			out["delimiter"] = n.Delimiter
		}
		out["tight"] = n.Tight
		out["nodes"] = encodeChildren(n.Nodes)
	case *Item:
		out["nodes"] = encodeChildren(n.Nodes)
	case *CodeBlock:
		out["text"] = n.Text
		if n.Info != "" {
			out["info"] = n.Info
		}
		if n.Tag != nil {
			out["tag"] = EncodeTag(n.Tag)
		}
	case *HtmlInline:
		out["text"] = n.Text
		if n.Tag != nil {
			out["tag"] = EncodeTag(n.Tag)
		}
	case *HtmlBlock:
		out["text"] = n.Text
		if n.Tag != nil {
			out["tag"] = EncodeTag(n.Tag)
		}
	case *Clause:
		out["src"] = n.Src
		out["clauseid"] = n.ClauseID
		out["nodes"] = encodeChildren(n.Nodes)
	case *ListVariable:
		out["type"] = n.Type
		if n.Type == ListTypeOrdered {
			out["start"] = n.Start
			out["delimiter"] = n.Delimiter
		}
		out["tight"] = n.Tight
		out["nodes"] = encodeChildren(n.Nodes)
	case *Variable:
		out["id"] = n.ID
		out["value"] = n.Value
		if n.Format != "" {
			out["format"] = n.Format
		}
	case *ComputedVariable:
		out["value"] = n.Value
		if n.Format != "" {
			out["format"] = n.Format
		}
	case *ConditionalVariable:
		out["id"] = n.ID
		out["value"] = n.Value
		out["whenTrue"] = n.WhenTrue
		out["whenFalse"] = n.WhenFalse
	}
	return out
}

// Decode rebuilds a node from its canonical map form. Numbers may arrive as
// int or float64 depending on whether the form passed through encoding/json.
func Decode(value map[string]any) (Node, error) {
	if value == nil {
		return nil, fmt.Errorf("dom: cannot decode nil form")
	}
	class := stringField(value, "$class")
	node, ok := New(class)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClass, class)
	}
	switch n := node.(type) {
	case *Document:
		n.Xmlns = stringField(value, "xmlns")
		nodes, err := decodeChildren(value)
		if err != nil {
			return nil, err
		}
		n.Nodes = nodes
	case *Paragraph:
		return decodeContainer(n, value, func(nodes []Node) { n.Nodes = nodes })
	case *Heading:
		n.Level = intField(value, "level")
		return decodeContainer(n, value, func(nodes []Node) { n.Nodes = nodes })
	case *Text:
		n.Text = stringField(value, "text")
	case *Emphasis:
		return decodeContainer(n, value, func(nodes []Node) { n.Nodes = nodes })
	case *Strong:
		return decodeContainer(n, value, func(nodes []Node) { n.Nodes = nodes })
	case *Link:
		n.Destination = stringField(value, "destination")
		n.Title = stringField(value, "title")
		return decodeContainer(n, value, func(nodes []Node) { n.Nodes = nodes })
	case *Code:
		n.Text = stringField(value, "text")
	case *Softbreak, *Linebreak, *ThematicBreak:
	case *BlockQuote:
		return decodeContainer(n, value, func(nodes []Node) { n.Nodes = nodes })
	case *List:
		n.Type = stringField(value, "type")
		n.Start = intField(value, "start")
		n.Tight = boolField(value, "tight")
		n.Delimiter = stringField(value, "delimiter")
		return decodeContainer(n, value, func(nodes []Node) { n.Nodes = nodes })
	case *Item:
		return decodeContainer(n, value, func(nodes []Node) { n.Nodes = nodes })
	case *CodeBlock:
		n.Text = stringField(value, "text")
		n.Info = stringField(value, "info")
		n.Tag = decodeTagField(value)
	case *HtmlInline:
		n.Text = stringField(value, "text")
		n.Tag = decodeTagField(value)
	case *HtmlBlock:
		n.Text = stringField(value, "text")
		n.Tag = decodeTagField(value)
	case *Clause:
		n.Src = stringField(value, "src")
		n.ClauseID = stringField(value, "clauseid")
		return decodeContainer(n, value, func(nodes []Node) { n.Nodes = nodes })
	case *ListVariable:
		n.Type = stringField(value, "type")
		n.Start = intField(value, "start")
		n.Tight = boolField(value, "tight")
		n.Delimiter = stringField(value, "delimiter")
		return decodeContainer(n, value, func(nodes []Node) { n.Nodes = nodes })
	case *Variable:
		n.ID = stringField(value, "id")
		n.Value = stringField(value, "value")
		n.Format = stringField(value, "format")
	case *ComputedVariable:
		n.Value = stringField(value, "value")
		n.Format = stringField(value, "format")
	case *ConditionalVariable:
		n.ID = stringField(value, "id")
		n.Value = stringField(value, "value")
		n.WhenTrue = stringField(value, "whenTrue")
		n.WhenFalse = stringField(value, "whenFalse")
	}
	return node, nil
}

func encodeChildren(nodes []Node) []any {
	out := make([]any, 0, len(nodes))
	for _, child := range nodes {
		out = append(out, Encode(child))
	}
	return out
}

func decodeChildren(value map[string]any) ([]Node, error) {
	raw, ok := value["nodes"]
	if !ok || raw == nil {
		return nil, nil
	}
	entries, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("dom: nodes field must be a list, got %T", raw)
	}
	nodes := make([]Node, 0, len(entries))
	for _, entry := range entries {
		form, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("dom: child node must be an object, got %T", entry)
		}
		child, err := Decode(form)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, child)
	}
	return nodes, nil
}

func decodeContainer(node Node, value map[string]any, assign func([]Node)) (Node, error) {
	nodes, err := decodeChildren(value)
	if err != nil {
		return nil, err
	}
	assign(nodes)
	return node, nil
}

func decodeTagField(value map[string]any) *TagInfo {
	raw, ok := value["tag"].(map[string]any)
	if !ok {
		return nil
	}
	return DecodeTag(raw)
}

func stringField(value map[string]any, key string) string {
	s, _ := value[key].(string)
	return s
}

func boolField(value map[string]any, key string) bool {
	b, _ := value[key].(bool)
	return b
}

func intField(value map[string]any, key string) int {
	switch v := value[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
