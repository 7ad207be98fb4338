// Package convertcmd exposes document conversion as go-command messages so
// dispatchers and CLI tooling share one execution path.
package convertcmd

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const convertDocumentMessageType = "templatemark.convert.document"

// ConvertDocumentCommand rewrites one annotated document tree. Source carries
// the canonical map form of the root node.
type ConvertDocumentCommand struct {
	// Source is the canonical form of the annotated tree to convert.
	Source map[string]any `json:"source"`
	// Slug names the document when the run is archived.
	Slug string `json:"slug,omitempty"`
	// WrapVariables overrides the service default when non-nil.
	WrapVariables *bool `json:"wrap_variables,omitempty"`
	// Archive persists the run to the conversion store when true.
	Archive bool `json:"archive,omitempty"`
}

// Type implements command.Message.
func (ConvertDocumentCommand) Type() string { return convertDocumentMessageType }

// Validate ensures the source tree is present and archive runs carry a slug.
func (cmd ConvertDocumentCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Source, validation.Required.Error("source tree is required")),
		validation.Field(&cmd.Slug, validation.Required.When(cmd.Archive).Error("slug is required when archiving")),
	)
}
