// Package schema maintains the kind registry: the closed set of node classes
// both schemas recognise, each paired with a factory and a JSON-schema shape
// used to validate canonical node forms.
package schema

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-templatemark/internal/dom"
)

// ErrUnknownKind reports a lookup for a class the registry does not define.
var ErrUnknownKind = errors.New("schema: unknown kind")

// Descriptor pairs a node class with its factory and shape.
type Descriptor struct {
	name  string
	shape map[string]any
}

// Name returns the fully qualified class name.
func (d *Descriptor) Name() string { return d.name }

// New returns an empty node of this kind.
func (d *Descriptor) New() dom.Node {
	node, _ := dom.New(d.name)
	return node
}

// Shape returns the JSON-schema document describing the kind's canonical
// form. Callers must not mutate the returned map.
func (d *Descriptor) Shape() map[string]any { return d.shape }

// Registry resolves qualified class names to kind descriptors.
type Registry struct {
	kinds map[string]*Descriptor
}

// NewRegistry builds a registry covering every annotated and plain kind.
func NewRegistry() *Registry {
	r := &Registry{kinds: make(map[string]*Descriptor, len(shapes))}
	for name, nodeShape := range shapes {
		r.kinds[name] = &Descriptor{name: name, shape: nodeShape}
	}
	return r
}

// KindByName resolves a qualified class name to its descriptor.
func (r *Registry) KindByName(name string) (*Descriptor, error) {
	desc, ok := r.kinds[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
	return desc, nil
}

// Names returns every registered class name. Order is unspecified.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}
	return names
}

var tagShape = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"tagName":         map[string]any{"type": "string"},
		"attributeString": map[string]any{"type": "string"},
		"content":         map[string]any{"type": "string"},
		"closed":          map[string]any{"type": "boolean"},
		"attributes": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":  map[string]any{"type": "string"},
					"value": map[string]any{"type": "string"},
				},
				"required":             []any{"name", "value"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []any{"tagName", "attributeString", "content", "closed"},
	"additionalProperties": false,
}

var nodesShape = map[string]any{
	"type":  "array",
	"items": map[string]any{"type": "object"},
}

func shape(required []any, properties map[string]any) map[string]any {
	props := map[string]any{
		"$class": map[string]any{"type": "string"},
	}
	for name, prop := range properties {
		props[name] = prop
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             append([]any{"$class"}, required...),
		"additionalProperties": false,
	}
}

func containerShape(required []any, properties map[string]any) map[string]any {
	props := map[string]any{"nodes": nodesShape}
	for name, prop := range properties {
		props[name] = prop
	}
	return shape(required, props)
}

var listProperties = map[string]any{
	"type":      map[string]any{"type": "string", "enum": []any{dom.ListTypeBullet, dom.ListTypeOrdered}},
	"start":     map[string]any{"type": "integer"},
	"tight":     map[string]any{"type": "boolean"},
	"delimiter": map[string]any{"type": "string", "enum": []any{dom.DelimiterPeriod, dom.DelimiterParen}},
}

var shapes = map[string]map[string]any{
	dom.KindDocument: containerShape(nil, map[string]any{
		"xmlns": map[string]any{"type": "string"},
	}),
	dom.KindParagraph: containerShape(nil, nil),
	dom.KindHeading: containerShape([]any{"level"}, map[string]any{
		"level": map[string]any{"type": "integer", "minimum": 1, "maximum": 6},
	}),
	dom.KindText: shape([]any{"text"}, map[string]any{
		"text": map[string]any{"type": "string"},
	}),
	dom.KindEmphasis: containerShape(nil, nil),
	dom.KindStrong:   containerShape(nil, nil),
	dom.KindLink: containerShape([]any{"destination"}, map[string]any{
		"destination": map[string]any{"type": "string"},
		"title":       map[string]any{"type": "string"},
	}),
	dom.KindCode: shape([]any{"text"}, map[string]any{
		"text": map[string]any{"type": "string"},
	}),
	dom.KindSoftbreak:     shape(nil, nil),
	dom.KindLinebreak:     shape(nil, nil),
	dom.KindThematicBreak: shape(nil, nil),
	dom.KindBlockQuote:    containerShape(nil, nil),
	dom.KindList:          containerShape([]any{"type", "tight"}, listProperties),
	dom.KindItem:          containerShape(nil, nil),
	dom.KindCodeBlock: shape([]any{"text"}, map[string]any{
		"text": map[string]any{"type": "string"},
		"info": map[string]any{"type": "string"},
		"tag":  tagShape,
	}),
	dom.KindHtmlInline: shape([]any{"text"}, map[string]any{
		"text": map[string]any{"type": "string"},
		"tag":  tagShape,
	}),
	dom.KindHtmlBlock: shape([]any{"text"}, map[string]any{
		"text": map[string]any{"type": "string"},
		"tag":  tagShape,
	}),
	dom.KindClause: containerShape([]any{"src", "clauseid"}, map[string]any{
		"src":      map[string]any{"type": "string"},
		"clauseid": map[string]any{"type": "string"},
	}),
	dom.KindListVariable: containerShape([]any{"type", "tight"}, listProperties),
	dom.KindVariable: shape([]any{"id", "value"}, map[string]any{
		"id":     map[string]any{"type": "string"},
		"value":  map[string]any{"type": "string"},
		"format": map[string]any{"type": "string"},
	}),
	dom.KindComputedVariable: shape([]any{"value"}, map[string]any{
		"value":  map[string]any{"type": "string"},
		"format": map[string]any{"type": "string"},
	}),
	dom.KindConditionalVariable: shape([]any{"id", "value", "whenTrue", "whenFalse"}, map[string]any{
		"id":        map[string]any{"type": "string"},
		"value":     map[string]any{"type": "string"},
		"whenTrue":  map[string]any{"type": "string"},
		"whenFalse": map[string]any{"type": "string"},
	}),
}
