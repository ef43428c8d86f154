package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulpet-ai/soulpet-api/internal/domain/entity"
	repo "github.com/soulpet-ai/soulpet-api/internal/domain/repository"
)

type memListings struct {
	listings map[string]*entity.Listing
}

func newMemListings() *memListings {
	return &memListings{listings: make(map[string]*entity.Listing)}
}

func (m *memListings) Create(ctx context.Context, l *entity.Listing) error {
	cp := *l
	m.listings[l.ID] = &cp
	return nil
}

func (m *memListings) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	l, ok := m.listings[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (m *memListings) ListActive(ctx context.Context, limit int) ([]*entity.Listing, error) {
	var out []*entity.Listing
	for _, l := range m.listings {
		if l.Status == entity.ListingActive {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memListings) Update(ctx context.Context, l *entity.Listing) error {
	if _, ok := m.listings[l.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *l
	m.listings[l.ID] = &cp
	return nil
}

func samplePet() *entity.Pet {
	return &entity.Pet{
		ID:          "pet-1",
		Name:        "Draco",
		Type:        "Dragon",
		Personality: "Wise",
		Backstory:   "An ancient dragon.",
		Image:       "https://example.com/draco.jpg",
		Level:       12,
		CreatedDate: "2024-01-20",
	}
}

func TestListForSale(t *testing.T) {
	svc := NewMarketplaceService(newMemListings(), nil)
	ctx := context.Background()

	l, err := svc.ListForSale(ctx, "SELLER", samplePet(), 4242, 12.5, "")
	require.NoError(t, err)

	assert.Contains(t, l.ID, "listing-4242-")
	assert.Equal(t, entity.ListingActive, l.Status)
	assert.Equal(t, "ALGO", l.Currency)
	assert.Equal(t, "SELLER", l.Seller)
	assert.Equal(t, uint64(4242), l.Pet.AssetID)
	assert.Equal(t, "Legendary", l.Pet.Attributes.Rarity) // level 12
	assert.True(t, l.Pet.ForSale)

	active, err := svc.ActiveListings(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestListForSaleRejectsBadPrice(t *testing.T) {
	svc := NewMarketplaceService(newMemListings(), nil)

	_, err := svc.ListForSale(context.Background(), "SELLER", samplePet(), 1, 0, "ALGO")
	assert.Error(t, err)
}

func TestBuyFlipsOwnership(t *testing.T) {
	svc := NewMarketplaceService(newMemListings(), nil)
	ctx := context.Background()

	l, err := svc.ListForSale(ctx, "SELLER", samplePet(), 4242, 12.5, "ALGO")
	require.NoError(t, err)

	txID, err := svc.Buy(ctx, l.ID, "BUYER")
	require.NoError(t, err)
	assert.NotEmpty(t, txID)

	got, err := svc.Get(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ListingSold, got.Status)
	assert.Equal(t, txID, got.BuyTxID)
	assert.Equal(t, "BUYER", got.Pet.Owner)
	assert.False(t, got.Pet.ForSale)

	// Sold listings cannot be bought again.
	_, err = svc.Buy(ctx, l.ID, "OTHER")
	assert.ErrorIs(t, err, ErrListingUnavailable)
}

func TestBuyUnknownListing(t *testing.T) {
	svc := NewMarketplaceService(newMemListings(), nil)

	_, err := svc.Buy(context.Background(), "listing-0-0", "BUYER")
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestCancelOnlyBySeller(t *testing.T) {
	svc := NewMarketplaceService(newMemListings(), nil)
	ctx := context.Background()

	l, err := svc.ListForSale(ctx, "SELLER", samplePet(), 7, 1, "ALGO")
	require.NoError(t, err)

	err = svc.Cancel(ctx, l.ID, "SOMEONE_ELSE")
	assert.ErrorIs(t, err, ErrNotSeller)

	require.NoError(t, svc.Cancel(ctx, l.ID, "SELLER"))

	got, err := svc.Get(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ListingCancelled, got.Status)

	active, _ := svc.ActiveListings(ctx, 10)
	assert.Empty(t, active)
}

func TestAlgoPriceUSD(t *testing.T) {
	svc := NewMarketplaceService(newMemListings(), nil)
	assert.InDelta(t, 0.25, svc.AlgoPriceUSD(), 1e-9)
}
