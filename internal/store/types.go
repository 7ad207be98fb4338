// Package store archives conversion runs: the canonical form of the source
// tree, the converted tree, and the rendered markdown, keyed by a
// deterministic digest so re-running a conversion updates its record.
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrStoreDisabled indicates archive operations on a service constructed
// without a database.
var ErrStoreDisabled = errors.New("store: archive disabled")

// NotFoundError reports a missing conversion record.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("store: conversion record %q not found", e.Key)
}

// ConversionRecord captures one conversion run.
type ConversionRecord struct {
	bun.BaseModel `bun:"table:conversion_records,alias:cr"`

	ID            uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	Slug          string         `bun:"slug,notnull" json:"slug"`
	SourceDigest  string         `bun:"source_digest,notnull" json:"source_digest"`
	Source        map[string]any `bun:"source,type:jsonb,notnull" json:"source"`
	Converted     map[string]any `bun:"converted,type:jsonb,notnull" json:"converted"`
	Markdown      string         `bun:"markdown,notnull" json:"markdown"`
	WrapVariables bool           `bun:"wrap_variables,notnull" json:"wrap_variables"`
	CreatedAt     time.Time      `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt     time.Time      `bun:"updated_at,notnull" json:"updated_at"`
}
