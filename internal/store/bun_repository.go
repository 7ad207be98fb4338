package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunConversionStore persists conversion records with optional caching.
type BunConversionStore struct {
	repo repository.Repository[*ConversionRecord]
}

// NewBunConversionStore creates an archive store without caching.
func NewBunConversionStore(db *bun.DB) *BunConversionStore {
	return NewBunConversionStoreWithCache(db, nil, nil)
}

// NewBunConversionStoreWithCache creates an archive store with caching
// services.
func NewBunConversionStoreWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunConversionStore {
	base := NewConversionRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunConversionStore{repo: base}
}

// Save inserts a conversion record, or updates the existing record when the
// same source digest was archived before.
func (s *BunConversionStore) Save(ctx context.Context, record *ConversionRecord) (*ConversionRecord, error) {
	now := time.Now().UTC()
	existing, err := s.GetByID(ctx, record.ID)
	if err != nil {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		record.CreatedAt = now
		record.UpdatedAt = now
		created, err := s.repo.Create(ctx, record)
		if err != nil {
			return nil, fmt.Errorf("conversion record create error: %w", err)
		}
		return created, nil
	}

	record.CreatedAt = existing.CreatedAt
	record.UpdatedAt = now
	updated, err := s.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"slug",
			"source_digest",
			"source",
			"converted",
			"markdown",
			"wrap_variables",
			"updated_at",
		),
	)
	if err != nil {
		return nil, fmt.Errorf("conversion record update error: %w", err)
	}
	return updated, nil
}

// GetByID fetches a conversion record by its deterministic identifier.
func (s *BunConversionStore) GetByID(ctx context.Context, id uuid.UUID) (*ConversionRecord, error) {
	record, err := s.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return record, nil
}

// GetBySlug fetches the most recent conversion record for a document slug.
func (s *BunConversionStore) GetBySlug(ctx context.Context, slug string) (*ConversionRecord, error) {
	record, err := s.repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, slug)
	}
	return record, nil
}

// List returns archived conversions ordered by most recent update.
func (s *BunConversionStore) List(ctx context.Context, limit int) ([]*ConversionRecord, error) {
	records, _, err := s.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			q = q.Order("updated_at DESC")
			if limit > 0 {
				q = q.Limit(limit)
			}
			return q
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("conversion record list error: %w", err)
	}
	return records, nil
}

// Delete removes a conversion record.
func (s *BunConversionStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, &ConversionRecord{ID: id})
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}

	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Key: key}
	}

	return fmt.Errorf("conversion record repository error: %w", err)
}
