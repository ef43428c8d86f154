package repository

import (
	"context"
	"errors"

	"github.com/soulpet-ai/soulpet-api/internal/domain/entity"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ListingRepository defines the interface for marketplace listing-book
// operations.
type ListingRepository interface {
	Create(ctx context.Context, l *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	ListActive(ctx context.Context, limit int) ([]*entity.Listing, error)
	Update(ctx context.Context, l *entity.Listing) error
}
