// Package validation checks canonical node forms against the kind registry's
// JSON-schema shapes and materialises schema-valid nodes from candidates.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-templatemark/internal/dom"
	"github.com/goliatone/go-templatemark/internal/schema"
)

// ErrSchemaValidation is the sentinel wrapped by every candidate rejection.
var ErrSchemaValidation = errors.New("validation: schema validation failed")

// Issue captures a single validation failure.
type Issue struct {
	Location string
	Message  string
}

// CandidateError surfaces validation issues with schema-aware context.
type CandidateError struct {
	Class  string
	Issues []Issue
	Cause  error
}

func (e *CandidateError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return fmt.Sprintf("%s: %s", e.Class, strings.Join(parts, "; "))
}

func (e *CandidateError) Unwrap() error {
	return ErrSchemaValidation
}

// Validator materialises and validates nodes against the kind registry.
// Compiled schemas are cached per kind, so a single instance can be shared
// across conversions.
type Validator struct {
	registry *schema.Registry

	mu       sync.Mutex
	compiled map[string]*jsonschema.Schema
}

// New constructs a validator over the provided registry.
func New(registry *schema.Registry) *Validator {
	return &Validator{
		registry: registry,
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// ToCanonicalForm serializes a node into its canonical map form, including
// the $class kind tag.
func (v *Validator) ToCanonicalForm(node dom.Node) (map[string]any, error) {
	if node == nil {
		return nil, fmt.Errorf("validation: cannot serialize nil node")
	}
	return dom.Encode(node), nil
}

// FromCandidate validates a candidate canonical form against its kind's
// shape and decodes it into a concrete node. Unknown kinds surface
// schema.ErrUnknownKind; shape mismatches surface a CandidateError wrapping
// ErrSchemaValidation.
func (v *Validator) FromCandidate(candidate map[string]any) (dom.Node, error) {
	if candidate == nil {
		return nil, fmt.Errorf("validation: cannot validate nil candidate")
	}
	class, _ := candidate["$class"].(string)
	desc, err := v.registry.KindByName(class)
	if err != nil {
		return nil, err
	}

	compiled, err := v.schemaFor(desc)
	if err != nil {
		return nil, err
	}

	normalized, err := normalizeJSON(candidate)
	if err != nil {
		return nil, fmt.Errorf("validation: candidate not JSON-representable: %w", err)
	}
	if err := compiled.Validate(normalized); err != nil {
		return nil, &CandidateError{
			Class:  class,
			Issues: issuesFrom(err),
			Cause:  err,
		}
	}

	return dom.Decode(candidate)
}

func (v *Validator) schemaFor(desc *schema.Descriptor) (*jsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if compiled, ok := v.compiled[desc.Name()]; ok {
		return compiled, nil
	}
	compiled, err := compileShape(desc.Shape())
	if err != nil {
		return nil, fmt.Errorf("validation: compile shape for %s: %w", desc.Name(), err)
	}
	v.compiled[desc.Name()] = compiled
	return compiled, nil
}

func compileShape(shape map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(shape)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("shape.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("shape.json")
}

// normalizeJSON round-trips the candidate through encoding/json so numeric
// and nested values carry the types the schema engine expects.
func normalizeJSON(candidate map[string]any) (any, error) {
	encoded, err := json.Marshal(candidate)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(encoded, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func issuesFrom(err error) []Issue {
	if err == nil {
		return nil
	}
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) || validationErr == nil {
		return []Issue{{Message: err.Error()}}
	}

	issues := []Issue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(validationErr)
	return issues
}
