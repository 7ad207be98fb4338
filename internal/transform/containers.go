package transform

import (
	"fmt"

	"github.com/goliatone/go-templatemark/internal/dom"
)

// convertClause rewrites a template clause into a fenced code block. The
// clause's children are converted first, rendered to literal markdown, and
// the clause identity (src, clauseid) moves into the tag descriptor. Neither
// attribute is percent-encoded; both are identifier-safe by contract.
func convertClause(clause *dom.Clause, ctx *Context) (dom.Node, error) {
	if err := applyChildren(clause, ctx); err != nil {
		return nil, err
	}

	content, err := renderWrapped(ctx, clause.Nodes)
	if err != nil {
		return nil, err
	}

	attributeString := joinAttributes(
		attribute("src", clause.Src),
		attribute("clauseid", clause.ClauseID),
	)
	tag := &dom.TagInfo{
		TagName:         "clause",
		AttributeString: attributeString,
		Content:         content,
		Closed:          false,
		Attributes: []dom.Attribute{
			{Name: "src", Value: clause.Src},
			{Name: "clauseid", Value: clause.ClauseID},
		},
	}

	return codeBlockCandidate(ctx, content, tag)
}

// convertListVariable rewrites a bound list into a fenced code block. The
// node is retagged as a plain list through the registry (its list fields are
// valid plain-list fields) and rendered as the sole element of a synthetic
// document, so the literal text is plain markdown list syntax.
func convertListVariable(listVar *dom.ListVariable, ctx *Context) (dom.Node, error) {
	if ctx.Registry == nil {
		return nil, fmt.Errorf("transform: context requires a kind registry to retag lists")
	}
	if err := applyChildren(listVar, ctx); err != nil {
		return nil, err
	}

	kind, err := ctx.Registry.KindByName(dom.KindList)
	if err != nil {
		return nil, err
	}
	list, ok := kind.New().(*dom.List)
	if !ok {
		return nil, fmt.Errorf("transform: kind %s did not produce a list node", dom.KindList)
	}
	list.Type = listVar.Type
	list.Start = listVar.Start
	list.Tight = listVar.Tight
	list.Delimiter = listVar.Delimiter
	list.Nodes = listVar.Nodes

	content, err := renderWrapped(ctx, []dom.Node{list})
	if err != nil {
		return nil, err
	}

	tag := &dom.TagInfo{
		TagName:         "list",
		AttributeString: "",
		Content:         content,
		Closed:          false,
	}

	return codeBlockCandidate(ctx, content, tag)
}

// renderWrapped renders nodes beneath a synthetic document root so the
// renderer sees a complete markdown document.
func renderWrapped(ctx *Context, nodes []dom.Node) (string, error) {
	wrapper := &dom.Document{
		Xmlns: dom.DocumentNamespace,
		Nodes: nodes,
	}
	content, err := ctx.Renderer.Render(wrapper)
	if err != nil {
		return "", fmt.Errorf("transform: render container content: %w", err)
	}
	return content, nil
}

// codeBlockCandidate validates the converted container shape. The literal
// text always ends with exactly one trailing newline; the info string is the
// human-readable tag form.
func codeBlockCandidate(ctx *Context, content string, tag *dom.TagInfo) (dom.Node, error) {
	candidate := map[string]any{
		"$class": dom.KindCodeBlock,
		"text":   content + "\n",
		"info":   selfClosingTag(tag.TagName, tag.AttributeString),
		"tag":    dom.EncodeTag(tag),
	}
	return ctx.Validator.FromCandidate(candidate)
}
