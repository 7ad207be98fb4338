// Package markdown ingests commonmark text into plain-schema document trees
// using the goldmark engine. Parsing annotated (template-aware) syntax is out
// of scope; reverse-parsing synthetic tags embedded in the output is the
// caller's responsibility.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"

	"github.com/goliatone/go-templatemark/internal/dom"
)

// Parser converts commonmark source into plain-schema trees. The parser is
// stateless so callers can reuse a single instance without locking.
type Parser struct {
	engine goldmark.Markdown
}

// NewParser constructs a parser with the default commonmark configuration.
func NewParser() *Parser {
	return &Parser{engine: goldmark.New()}
}

// Parse builds a plain-schema document tree from commonmark source.
func (p *Parser) Parse(source []byte) (*dom.Document, error) {
	root := p.engine.Parser().Parse(gtext.NewReader(source))
	nodes, err := convertChildren(root, source)
	if err != nil {
		return nil, fmt.Errorf("markdown parse: %w", err)
	}
	return &dom.Document{Xmlns: dom.DocumentNamespace, Nodes: nodes}, nil
}

func convertChildren(node gast.Node, source []byte) ([]dom.Node, error) {
	var nodes []dom.Node
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		converted, err := convertNode(child, source)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, converted...)
	}
	return nodes, nil
}

// convertNode maps a goldmark AST node onto the plain schema. Text nodes may
// expand into multiple dom nodes when they carry a trailing line break.
func convertNode(node gast.Node, source []byte) ([]dom.Node, error) {
	switch n := node.(type) {
	case *gast.Paragraph:
		nodes, err := convertChildren(n, source)
		if err != nil {
			return nil, err
		}
		return []dom.Node{&dom.Paragraph{Nodes: nodes}}, nil
	case *gast.TextBlock:
		// Tight list items hold text blocks; the plain schema only has
		// paragraphs.
		nodes, err := convertChildren(n, source)
		if err != nil {
			return nil, err
		}
		return []dom.Node{&dom.Paragraph{Nodes: nodes}}, nil
	case *gast.Heading:
		nodes, err := convertChildren(n, source)
		if err != nil {
			return nil, err
		}
		return []dom.Node{&dom.Heading{Level: n.Level, Nodes: nodes}}, nil
	case *gast.ThematicBreak:
		return []dom.Node{&dom.ThematicBreak{}}, nil
	case *gast.Blockquote:
		nodes, err := convertChildren(n, source)
		if err != nil {
			return nil, err
		}
		return []dom.Node{&dom.BlockQuote{Nodes: nodes}}, nil
	case *gast.List:
		return convertList(n, source)
	case *gast.ListItem:
		nodes, err := convertChildren(n, source)
		if err != nil {
			return nil, err
		}
		return []dom.Node{&dom.Item{Nodes: nodes}}, nil
	case *gast.FencedCodeBlock:
		block := &dom.CodeBlock{Text: linesText(n, source)}
		if n.Info != nil {
			block.Info = string(n.Info.Segment.Value(source))
		}
		return []dom.Node{block}, nil
	case *gast.CodeBlock:
		return []dom.Node{&dom.CodeBlock{Text: linesText(n, source)}}, nil
	case *gast.HTMLBlock:
		var buf bytes.Buffer
		buf.WriteString(linesText(n, source))
		if n.HasClosure() {
			buf.Write(n.ClosureLine.Value(source))
		}
		return []dom.Node{&dom.HtmlBlock{Text: buf.String()}}, nil
	case *gast.Text:
		return convertText(n, source), nil
	case *gast.String:
		return []dom.Node{&dom.Text{Text: string(n.Value)}}, nil
	case *gast.Emphasis:
		nodes, err := convertChildren(n, source)
		if err != nil {
			return nil, err
		}
		if n.Level >= 2 {
			return []dom.Node{&dom.Strong{Nodes: nodes}}, nil
		}
		return []dom.Node{&dom.Emphasis{Nodes: nodes}}, nil
	case *gast.CodeSpan:
		return []dom.Node{&dom.Code{Text: string(n.Text(source))}}, nil
	case *gast.Link:
		nodes, err := convertChildren(n, source)
		if err != nil {
			return nil, err
		}
		return []dom.Node{&dom.Link{
			Destination: string(n.Destination),
			Title:       string(n.Title),
			Nodes:       nodes,
		}}, nil
	case *gast.AutoLink:
		url := string(n.URL(source))
		return []dom.Node{&dom.Link{
			Destination: url,
			Nodes:       []dom.Node{&dom.Text{Text: string(n.Label(source))}},
		}}, nil
	case *gast.RawHTML:
		var buf bytes.Buffer
		for i := 0; i < n.Segments.Len(); i++ {
			segment := n.Segments.At(i)
			buf.Write(segment.Value(source))
		}
		return []dom.Node{&dom.HtmlInline{Text: buf.String()}}, nil
	default:
		return nil, fmt.Errorf("markdown: unsupported node kind %s", node.Kind())
	}
}

func convertText(n *gast.Text, source []byte) []dom.Node {
	nodes := []dom.Node{&dom.Text{Text: string(n.Segment.Value(source))}}
	if n.HardLineBreak() {
		nodes = append(nodes, &dom.Linebreak{})
	} else if n.SoftLineBreak() {
		nodes = append(nodes, &dom.Softbreak{})
	}
	return nodes
}

func convertList(n *gast.List, source []byte) ([]dom.Node, error) {
	nodes, err := convertChildren(n, source)
	if err != nil {
		return nil, err
	}
	list := &dom.List{
		Type:  dom.ListTypeBullet,
		Tight: n.IsTight,
		Nodes: nodes,
	}
	if n.IsOrdered() {
		list.Type = dom.ListTypeOrdered
		list.Start = n.Start
		list.Delimiter = dom.DelimiterPeriod
		if n.Marker == ')' {
			list.Delimiter = dom.DelimiterParen
		}
	}
	return []dom.Node{list}, nil
}

func linesText(node gast.Node, source []byte) string {
	var buf bytes.Buffer
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		buf.Write(segment.Value(source))
	}
	return buf.String()
}
