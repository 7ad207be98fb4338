// Package dom defines the document node model shared by the annotated
// (template-aware) schema and the plain (commonmark) schema, along with the
// canonical map form used for validation and persistence.
//
// Every node carries a fully qualified class name. Annotated kinds live in the
// template namespace and plain kinds in the mark namespace; the transform
// rewrites the former into the latter.
package dom

// Namespaces for qualified node class names.
const (
	TemplateNamespace = "org.templatemark"
	MarkNamespace     = "org.commonmark"

	// DocumentNamespace marks synthetic document roots handed to the
	// markdown renderer.
	DocumentNamespace = "http://commonmark.org/xml/1.0"
)

// Annotated-schema kinds.
const (
	KindClause              = TemplateNamespace + ".Clause"
	KindListVariable        = TemplateNamespace + ".ListVariable"
	KindVariable            = TemplateNamespace + ".Variable"
	KindComputedVariable    = TemplateNamespace + ".ComputedVariable"
	KindConditionalVariable = TemplateNamespace + ".ConditionalVariable"
)

// Plain-schema kinds.
const (
	KindDocument      = MarkNamespace + ".Document"
	KindParagraph     = MarkNamespace + ".Paragraph"
	KindHeading       = MarkNamespace + ".Heading"
	KindText          = MarkNamespace + ".Text"
	KindEmphasis      = MarkNamespace + ".Emph"
	KindStrong        = MarkNamespace + ".Strong"
	KindLink          = MarkNamespace + ".Link"
	KindCode          = MarkNamespace + ".Code"
	KindSoftbreak     = MarkNamespace + ".Softbreak"
	KindLinebreak     = MarkNamespace + ".Linebreak"
	KindThematicBreak = MarkNamespace + ".ThematicBreak"
	KindBlockQuote    = MarkNamespace + ".BlockQuote"
	KindList          = MarkNamespace + ".List"
	KindItem          = MarkNamespace + ".Item"
	KindCodeBlock     = MarkNamespace + ".CodeBlock"
	KindHtmlInline    = MarkNamespace + ".HtmlInline"
	KindHtmlBlock     = MarkNamespace + ".HtmlBlock"
)

// List type and delimiter values carried by List and ListVariable nodes.
const (
	ListTypeBullet  = "bullet"
	ListTypeOrdered = "ordered"

	DelimiterPeriod = "period"
	DelimiterParen  = "paren"
)

// Node is implemented by every document node.
type Node interface {
	Class() string
}

// Parent is implemented by nodes that hold ordered children. SetChildren
// replaces the child slice so traversals can substitute converted nodes at
// the parent slot without reallocating the parent.
type Parent interface {
	Node
	Children() []Node
	SetChildren([]Node)
}

// Document is the root container. Xmlns identifies synthetic wrappers built
// for the renderer.
type Document struct {
	Xmlns string
	Nodes []Node
}

// Paragraph groups inline content.
type Paragraph struct {
	Nodes []Node
}

// Heading is an ATX heading with levels 1-6.
type Heading struct {
	Level int
	Nodes []Node
}

// Text is a literal text run.
type Text struct {
	Text string
}

// Emphasis is emphasised inline content.
type Emphasis struct {
	Nodes []Node
}

// Strong is strongly emphasised inline content.
type Strong struct {
	Nodes []Node
}

// Link is an inline link.
type Link struct {
	Destination string
	Title       string
	Nodes       []Node
}

// Code is an inline code span.
type Code struct {
	Text string
}

// Softbreak is a soft line break.
type Softbreak struct{}

// Linebreak is a hard line break.
type Linebreak struct{}

// ThematicBreak is a horizontal rule.
type ThematicBreak struct{}

// BlockQuote wraps block content in a quote.
type BlockQuote struct {
	Nodes []Node
}

// List is a plain-schema list container.
type List struct {
	Type      string
	Start     int
	Tight     bool
	Delimiter string
	Nodes     []Node
}

// Item is a single list item.
type Item struct {
	Nodes []Node
}

// CodeBlock is a fenced code block. Tag carries the synthetic tag descriptor
// when the block encodes a converted container; Info holds the fence info
// string.
type CodeBlock struct {
	Text string
	Info string
	Tag  *TagInfo
}

// HtmlInline is a literal inline HTML run. Tag carries the synthetic tag
// descriptor when the run encodes a converted leaf.
type HtmlInline struct {
	Text string
	Tag  *TagInfo
}

// HtmlBlock is a literal HTML block.
type HtmlBlock struct {
	Text string
	Tag  *TagInfo
}

// Clause is an annotated template clause: a container bound to a template
// reference (Src) with a stable instance identifier (ClauseID).
type Clause struct {
	Src      string
	ClauseID string
	Nodes    []Node
}

// ListVariable is an annotated bound list. It reuses the plain List field
// set so it can be retagged into a List before rendering.
type ListVariable struct {
	Type      string
	Start     int
	Tight     bool
	Delimiter string
	Nodes     []Node
}

// Variable is an annotated bound variable leaf.
type Variable struct {
	ID     string
	Value  string
	Format string
}

// ComputedVariable is an annotated computed value leaf. It has no stable
// identifier; Value holds the current textual form of the expression result.
type ComputedVariable struct {
	Value  string
	Format string
}

// ConditionalVariable is an annotated conditional text leaf. Value holds the
// textual form of the discriminant; WhenTrue and WhenFalse hold the literal
// replacement text per branch.
type ConditionalVariable struct {
	ID        string
	Value     string
	WhenTrue  string
	WhenFalse string
}

func (*Document) Class() string            { return KindDocument }
func (*Paragraph) Class() string           { return KindParagraph }
func (*Heading) Class() string             { return KindHeading }
func (*Text) Class() string                { return KindText }
func (*Emphasis) Class() string            { return KindEmphasis }
func (*Strong) Class() string              { return KindStrong }
func (*Link) Class() string                { return KindLink }
func (*Code) Class() string                { return KindCode }
func (*Softbreak) Class() string           { return KindSoftbreak }
func (*Linebreak) Class() string           { return KindLinebreak }
func (*ThematicBreak) Class() string       { return KindThematicBreak }
func (*BlockQuote) Class() string          { return KindBlockQuote }
func (*List) Class() string                { return KindList }
func (*Item) Class() string                { return KindItem }
func (*CodeBlock) Class() string           { return KindCodeBlock }
func (*HtmlInline) Class() string          { return KindHtmlInline }
func (*HtmlBlock) Class() string           { return KindHtmlBlock }
func (*Clause) Class() string              { return KindClause }
func (*ListVariable) Class() string        { return KindListVariable }
func (*Variable) Class() string            { return KindVariable }
func (*ComputedVariable) Class() string    { return KindComputedVariable }
func (*ConditionalVariable) Class() string { return KindConditionalVariable }

func (n *Document) Children() []Node      { return n.Nodes }
func (n *Paragraph) Children() []Node     { return n.Nodes }
func (n *Heading) Children() []Node       { return n.Nodes }
func (n *Emphasis) Children() []Node      { return n.Nodes }
func (n *Strong) Children() []Node        { return n.Nodes }
func (n *Link) Children() []Node          { return n.Nodes }
func (n *BlockQuote) Children() []Node    { return n.Nodes }
func (n *List) Children() []Node          { return n.Nodes }
func (n *Item) Children() []Node          { return n.Nodes }
func (n *Clause) Children() []Node        { return n.Nodes }
func (n *ListVariable) Children() []Node  { return n.Nodes }

func (n *Document) SetChildren(nodes []Node)     { n.Nodes = nodes }
func (n *Paragraph) SetChildren(nodes []Node)    { n.Nodes = nodes }
func (n *Heading) SetChildren(nodes []Node)      { n.Nodes = nodes }
func (n *Emphasis) SetChildren(nodes []Node)     { n.Nodes = nodes }
func (n *Strong) SetChildren(nodes []Node)       { n.Nodes = nodes }
func (n *Link) SetChildren(nodes []Node)         { n.Nodes = nodes }
func (n *BlockQuote) SetChildren(nodes []Node)   { n.Nodes = nodes }
func (n *List) SetChildren(nodes []Node)         { n.Nodes = nodes }
func (n *Item) SetChildren(nodes []Node)         { n.Nodes = nodes }
func (n *Clause) SetChildren(nodes []Node)       { n.Nodes = nodes }
func (n *ListVariable) SetChildren(nodes []Node) { n.Nodes = nodes }

// New returns an empty node of the given class. The boolean reports whether
// the class names a known kind.
func New(class string) (Node, bool) {
	switch class {
	case KindDocument:
		return &Document{}, true
	case KindParagraph:
		return &Paragraph{}, true
	case KindHeading:
		return &Heading{}, true
	case KindText:
		return &Text{}, true
	case KindEmphasis:
		return &Emphasis{}, true
	case KindStrong:
		return &Strong{}, true
	case KindLink:
		return &Link{}, true
	case KindCode:
		return &Code{}, true
	case KindSoftbreak:
		return &Softbreak{}, true
	case KindLinebreak:
		return &Linebreak{}, true
	case KindThematicBreak:
		return &ThematicBreak{}, true
	case KindBlockQuote:
		return &BlockQuote{}, true
	case KindList:
		return &List{}, true
	case KindItem:
		return &Item{}, true
	case KindCodeBlock:
		return &CodeBlock{}, true
	case KindHtmlInline:
		return &HtmlInline{}, true
	case KindHtmlBlock:
		return &HtmlBlock{}, true
	case KindClause:
		return &Clause{}, true
	case KindListVariable:
		return &ListVariable{}, true
	case KindVariable:
		return &Variable{}, true
	case KindComputedVariable:
		return &ComputedVariable{}, true
	case KindConditionalVariable:
		return &ConditionalVariable{}, true
	default:
		return nil, false
	}
}
