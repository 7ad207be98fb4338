// Package render serializes plain-schema document trees back into commonmark
// text. The output is deterministic: rendering the same tree always produces
// the same bytes, and rendering is idempotent on valid plain input.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-templatemark/internal/dom"
)

// Markdown renders plain-schema trees to commonmark text. The renderer is
// stateless; a single instance can be shared across conversions.
type Markdown struct{}

// NewMarkdown constructs a markdown renderer.
func NewMarkdown() *Markdown {
	return &Markdown{}
}

// Render turns a document-shaped subtree into literal markdown text. The
// result carries no trailing newline; callers append their own terminator.
func (m *Markdown) Render(node dom.Node) (string, error) {
	if node == nil {
		return "", fmt.Errorf("render: cannot render nil node")
	}
	if doc, ok := node.(*dom.Document); ok {
		return m.renderBlocks(doc.Nodes)
	}
	return m.renderBlock(node)
}

func (m *Markdown) renderBlocks(nodes []dom.Node) (string, error) {
	blocks := make([]string, 0, len(nodes))
	for _, node := range nodes {
		block, err := m.renderBlock(node)
		if err != nil {
			return "", err
		}
		blocks = append(blocks, block)
	}
	return strings.Join(blocks, "\n\n"), nil
}

func (m *Markdown) renderBlock(node dom.Node) (string, error) {
	switch n := node.(type) {
	case *dom.Paragraph:
		return m.renderInlines(n.Nodes)
	case *dom.Heading:
		level := n.Level
		if level < 1 {
			level = 1
		}
		if level > 6 {
			level = 6
		}
		text, err := m.renderInlines(n.Nodes)
		if err != nil {
			return "", err
		}
		return strings.Repeat("#", level) + " " + text, nil
	case *dom.ThematicBreak:
		return "---", nil
	case *dom.CodeBlock:
		return renderCodeBlock(n), nil
	case *dom.HtmlBlock:
		return strings.TrimRight(n.Text, "\n"), nil
	case *dom.BlockQuote:
		inner, err := m.renderBlocks(n.Nodes)
		if err != nil {
			return "", err
		}
		return prefixLines(inner, "> ", ">"), nil
	case *dom.List:
		return m.renderList(n)
	default:
		return "", fmt.Errorf("render: unsupported block kind %s", node.Class())
	}
}

func (m *Markdown) renderList(list *dom.List) (string, error) {
	start := list.Start
	if list.Type == dom.ListTypeOrdered && start < 1 {
		start = 1
	}
	delimiter := "."
	if list.Delimiter == dom.DelimiterParen {
		delimiter = ")"
	}

	items := make([]string, 0, len(list.Nodes))
	for i, child := range list.Nodes {
		item, ok := child.(*dom.Item)
		if !ok {
			return "", fmt.Errorf("render: list child must be an item, got %s", child.Class())
		}
		body, err := m.renderBlocks(item.Nodes)
		if err != nil {
			return "", err
		}
		marker := "-"
		if list.Type == dom.ListTypeOrdered {
			marker = strconv.Itoa(start+i) + delimiter
		}
		items = append(items, indentItem(body, marker))
	}

	separator := "\n"
	if !list.Tight {
		separator = "\n\n"
	}
	return strings.Join(items, separator), nil
}

func (m *Markdown) renderInlines(nodes []dom.Node) (string, error) {
	var builder strings.Builder
	for _, node := range nodes {
		text, err := m.renderInline(node)
		if err != nil {
			return "", err
		}
		builder.WriteString(text)
	}
	return builder.String(), nil
}

func (m *Markdown) renderInline(node dom.Node) (string, error) {
	switch n := node.(type) {
	case *dom.Text:
		return n.Text, nil
	case *dom.Emphasis:
		inner, err := m.renderInlines(n.Nodes)
		if err != nil {
			return "", err
		}
		return "*" + inner + "*", nil
	case *dom.Strong:
		inner, err := m.renderInlines(n.Nodes)
		if err != nil {
			return "", err
		}
		return "**" + inner + "**", nil
	case *dom.Code:
		return renderCodeSpan(n.Text), nil
	case *dom.Link:
		inner, err := m.renderInlines(n.Nodes)
		if err != nil {
			return "", err
		}
		if n.Title != "" {
			return fmt.Sprintf("[%s](%s %q)", inner, n.Destination, n.Title), nil
		}
		return fmt.Sprintf("[%s](%s)", inner, n.Destination), nil
	case *dom.HtmlInline:
		return n.Text, nil
	case *dom.Softbreak:
		return "\n", nil
	case *dom.Linebreak:
		return "\\\n", nil
	default:
		return "", fmt.Errorf("render: unsupported inline kind %s", node.Class())
	}
}

func renderCodeBlock(block *dom.CodeBlock) string {
	fence := "```"
	for strings.Contains(block.Text, fence) || strings.Contains(block.Info, fence) {
		fence += "`"
	}
	text := block.Text
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return fence + block.Info + "\n" + text + fence
}

func renderCodeSpan(text string) string {
	delimiter := "`"
	for strings.Contains(text, delimiter) {
		delimiter += "`"
	}
	if delimiter == "`" {
		return "`" + text + "`"
	}
	return delimiter + " " + text + " " + delimiter
}

// prefixLines marks every line of text, using the bare prefix for blank
// lines so block quotes do not gain trailing spaces.
func prefixLines(text, prefix, blankPrefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = blankPrefix
			continue
		}
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

// indentItem prefixes the first line of body with the list marker and aligns
// continuation lines beneath it.
func indentItem(body, marker string) string {
	indent := strings.Repeat(" ", len(marker)+1)
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		if i == 0 {
			lines[i] = marker + " " + line
			continue
		}
		if line == "" {
			continue
		}
		lines[i] = indent + line
	}
	return strings.Join(lines, "\n")
}
