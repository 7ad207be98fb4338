package store

import (
	"github.com/google/uuid"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// NewConversionRepository builds the generic repository used by the archive.
func NewConversionRepository(db *bun.DB) repository.Repository[*ConversionRecord] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*ConversionRecord]{
		NewRecord:          func() *ConversionRecord { return &ConversionRecord{} },
		GetID:              func(r *ConversionRecord) uuid.UUID { return r.ID },
		SetID:              func(r *ConversionRecord, id uuid.UUID) { r.ID = id },
		GetIdentifier:      func() string { return "slug" },
		GetIdentifierValue: func(r *ConversionRecord) string { return r.Slug },
	})
}
