package transform

import (
	"github.com/goliatone/go-templatemark/internal/dom"
)

// convertVariable rewrites a bound variable into an inline HTML run carrying
// a self-closing tag. Attribute order is fixed: id, value, then an optional
// format appended to the string form only. The id is identifier-safe and
// stays unencoded; value and format are percent-encoded in the string form
// while the attribute list keeps them unencoded.
func convertVariable(variable *dom.Variable, ctx *Context) (dom.Node, error) {
	attributeString := joinAttributes(
		attribute("id", variable.ID),
		encodedAttribute("value", variable.Value),
	)
	if variable.Format != "" {
		attributeString = joinAttributes(attributeString, encodedAttribute("format", variable.Format))
	}

	attrs := []dom.Attribute{
		{Name: "id", Value: variable.ID},
		{Name: "value", Value: variable.Value},
	}

	text := variable.Value
	if ctx.Options.WrapVariables {
		text = selfClosingTag("variable", attributeString)
	}

	return inlineCandidate(ctx, "variable", attributeString, attrs, text)
}

// convertComputedVariable rewrites a computed value into an inline HTML run.
// Computed values carry no stable identifier, so the attribute list holds
// only the value. The unwrapped form is the double-brace expression marker.
func convertComputedVariable(computed *dom.ComputedVariable, ctx *Context) (dom.Node, error) {
	attributeString := encodedAttribute("value", computed.Value)
	if computed.Format != "" {
		attributeString = joinAttributes(attributeString, encodedAttribute("format", computed.Format))
	}

	attrs := []dom.Attribute{
		{Name: "value", Value: computed.Value},
	}

	text := "{{" + computed.Value + "}}"
	if ctx.Options.WrapVariables {
		text = selfClosingTag("computed", attributeString)
	}

	return inlineCandidate(ctx, "computed", attributeString, attrs, text)
}

// convertConditionalVariable rewrites a conditional into an inline HTML run.
// All four attributes are always present in fixed order: id, value,
// whenTrue, whenFalse.
func convertConditionalVariable(conditional *dom.ConditionalVariable, ctx *Context) (dom.Node, error) {
	attributeString := joinAttributes(
		attribute("id", conditional.ID),
		encodedAttribute("value", conditional.Value),
		encodedAttribute("whenTrue", conditional.WhenTrue),
		encodedAttribute("whenFalse", conditional.WhenFalse),
	)

	attrs := []dom.Attribute{
		{Name: "id", Value: conditional.ID},
		{Name: "value", Value: conditional.Value},
		{Name: "whenTrue", Value: conditional.WhenTrue},
		{Name: "whenFalse", Value: conditional.WhenFalse},
	}

	text := conditional.Value
	if ctx.Options.WrapVariables {
		text = selfClosingTag("if", attributeString)
	}

	return inlineCandidate(ctx, "if", attributeString, attrs, text)
}

// inlineCandidate validates the converted leaf shape. Leaves need no
// document wrapper or render step; the tag is self-closing with empty
// content.
func inlineCandidate(ctx *Context, tagName, attributeString string, attrs []dom.Attribute, text string) (dom.Node, error) {
	tag := &dom.TagInfo{
		TagName:         tagName,
		AttributeString: attributeString,
		Content:         "",
		Closed:          true,
		Attributes:      attrs,
	}
	candidate := map[string]any{
		"$class": dom.KindHtmlInline,
		"text":   text,
		"tag":    dom.EncodeTag(tag),
	}
	return ctx.Validator.FromCandidate(candidate)
}
