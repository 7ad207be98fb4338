// Package transform rewrites annotated document trees into plain-schema
// trees. Template clauses and bound lists become fenced code blocks carrying
// the literal markdown of their children; bound variables become inline
// HTML-like self-closing tags. The semantic fields lost by the rewrite are
// preserved inside synthetic tag descriptors so the output stays
// round-trippable.
package transform

import (
	"fmt"

	"github.com/goliatone/go-templatemark/internal/dom"
)

// NodeValidator materialises schema-valid nodes from canonical forms.
type NodeValidator interface {
	ToCanonicalForm(node dom.Node) (map[string]any, error)
	FromCandidate(candidate map[string]any) (dom.Node, error)
}

// Renderer turns a document-shaped subtree into literal markdown text.
type Renderer interface {
	Render(node dom.Node) (string, error)
}

// Kind describes a registered node class.
type Kind interface {
	Name() string
	New() dom.Node
}

// KindRegistry resolves qualified class names to kinds; lookups for classes
// outside the closed set fail.
type KindRegistry interface {
	KindByName(name string) (Kind, error)
}

// Options tune the rewrite. WrapVariables selects between the self-closing
// tag form and the raw bound value for converted leaves.
type Options struct {
	WrapVariables bool
}

// DefaultOptions returns the options used when the caller supplies none.
func DefaultOptions() Options {
	return Options{WrapVariables: true}
}

// Context bundles the capabilities a conversion needs. Validator and
// Renderer are required; Registry is required to retag bound lists.
type Context struct {
	Validator NodeValidator
	Renderer  Renderer
	Registry  KindRegistry
	Options   Options
}

// NewContext builds a conversion context with default options.
func NewContext(validator NodeValidator, renderer Renderer, registry KindRegistry) *Context {
	return &Context{
		Validator: validator,
		Renderer:  renderer,
		Registry:  registry,
		Options:   DefaultOptions(),
	}
}

// Apply rewrites node and its descendants bottom-up and returns the
// replacement for node. Pass-through nodes keep their identity; converted
// nodes are rebuilt as plain-schema values, so callers must substitute the
// result at the parent slot (the root's caller included). On error the
// conversion aborts where it failed: descendants of the failing node may
// already be rewritten, ancestors are untouched. Callers needing atomicity
// must copy the tree first.
func Apply(node dom.Node, ctx *Context) (dom.Node, error) {
	if node == nil {
		return nil, fmt.Errorf("transform: cannot convert nil node")
	}
	if ctx == nil || ctx.Validator == nil || ctx.Renderer == nil {
		return nil, fmt.Errorf("transform: context requires a validator and a renderer")
	}

	switch n := node.(type) {
	case *dom.Clause:
		return convertClause(n, ctx)
	case *dom.ListVariable:
		return convertListVariable(n, ctx)
	case *dom.Variable:
		return convertVariable(n, ctx)
	case *dom.ComputedVariable:
		return convertComputedVariable(n, ctx)
	case *dom.ConditionalVariable:
		return convertConditionalVariable(n, ctx)
	default:
		if parent, ok := node.(dom.Parent); ok {
			if err := applyChildren(parent, ctx); err != nil {
				return nil, err
			}
		}
		return node, nil
	}
}

// applyChildren rewrites every child in order and substitutes the results at
// the parent's child slots. Children are converted before the parent renders
// them, so nested semantic nodes are already in plain form by the time an
// enclosing container builds its literal text.
func applyChildren(parent dom.Parent, ctx *Context) error {
	children := parent.Children()
	for i, child := range children {
		replacement, err := Apply(child, ctx)
		if err != nil {
			return err
		}
		children[i] = replacement
	}
	parent.SetChildren(children)
	return nil
}
