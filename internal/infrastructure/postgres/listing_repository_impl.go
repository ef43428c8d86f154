package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/soulpet-ai/soulpet-api/internal/domain/entity"
	"github.com/soulpet-ai/soulpet-api/internal/domain/repository"
)

// IsNotFound reports whether err is the repository's not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

type ListingRepository struct {
	pool *pgxpool.Pool
}

func NewListingRepository(pool *pgxpool.Pool) *ListingRepository {
	return &ListingRepository{pool: pool}
}

func (r *ListingRepository) Create(ctx context.Context, l *entity.Listing) error {
	pet, err := json.Marshal(l.Pet)
	if err != nil {
		return err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO listings (id, asset_id, seller, price, currency, listing_date, status, buy_tx_id, pet)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`, l.ID, l.AssetID, l.Seller, l.Price, l.Currency, l.ListingDate, l.Status, l.BuyTxID, pet)

	return row.Scan(&l.CreatedAt, &l.UpdatedAt)
}

func (r *ListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	l := &entity.Listing{}
	var pet []byte

	row := r.pool.QueryRow(ctx, `
		SELECT id, asset_id, seller, price, currency, listing_date, status, buy_tx_id, pet, created_at, updated_at
		FROM listings
		WHERE id = $1
	`, id)

	if err := row.Scan(&l.ID, &l.AssetID, &l.Seller, &l.Price, &l.Currency,
		&l.ListingDate, &l.Status, &l.BuyTxID, &pet, &l.CreatedAt, &l.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(pet, &l.Pet); err != nil {
		return nil, err
	}

	return l, nil
}

func (r *ListingRepository) ListActive(ctx context.Context, limit int) ([]*entity.Listing, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, asset_id, seller, price, currency, listing_date, status, buy_tx_id, pet, created_at, updated_at
		FROM listings
		WHERE status = 'active'
		ORDER BY listing_date DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Listing
	for rows.Next() {
		l := &entity.Listing{}
		var pet []byte
		if err := rows.Scan(&l.ID, &l.AssetID, &l.Seller, &l.Price, &l.Currency,
			&l.ListingDate, &l.Status, &l.BuyTxID, &pet, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(pet, &l.Pet); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *ListingRepository) Update(ctx context.Context, l *entity.Listing) error {
	pet, err := json.Marshal(l.Pet)
	if err != nil {
		return err
	}
	l.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE listings
		SET price = $1, currency = $2, status = $3, buy_tx_id = $4, pet = $5, updated_at = $6
		WHERE id = $7
	`, l.Price, l.Currency, l.Status, l.BuyTxID, pet, l.UpdatedAt, l.ID)
	if err != nil {
		return err
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ repository.ListingRepository = (*ListingRepository)(nil)
