package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/soulpet-ai/soulpet-api/internal/domain/companion"
	"github.com/soulpet-ai/soulpet-api/internal/domain/entity"
	repo "github.com/soulpet-ai/soulpet-api/internal/domain/repository"
)

var (
	ErrListingNotFound    = errors.New("listing not found")
	ErrListingUnavailable = errors.New("listing is not active")
	ErrNotSeller          = errors.New("only the seller can cancel a listing")
)

// MockAlgoPrice is the USD quote served while no price oracle is wired.
const MockAlgoPrice = 0.25

// MarketplaceService maintains the off-chain listing book for pet
// NFTs. Payment settles in the buyer's wallet; the book only tracks
// offers and their outcomes.
type MarketplaceService struct {
	Listings repo.ListingRepository
	Logger   *logrus.Logger
}

func NewMarketplaceService(listings repo.ListingRepository, logger *logrus.Logger) *MarketplaceService {
	return &MarketplaceService{Listings: listings, Logger: logger}
}

// ListForSale opens a listing for a companion at the given price.
func (s *MarketplaceService) ListForSale(ctx context.Context, seller string, pet *entity.Pet, assetID uint64, price float64, currency string) (*entity.Listing, error) {
	if price <= 0 {
		return nil, errors.New("price must be positive")
	}
	if currency == "" {
		currency = "ALGO"
	}

	now := time.Now().UTC()
	l := &entity.Listing{
		ID:          fmt.Sprintf("listing-%d-%d", assetID, now.UnixMilli()),
		AssetID:     assetID,
		Seller:      seller,
		Price:       price,
		Currency:    currency,
		ListingDate: now,
		Status:      entity.ListingActive,
		Pet: entity.PetNFT{
			AssetID:     assetID,
			Name:        pet.Name,
			Description: pet.Backstory,
			Image:       pet.Image,
			Attributes: entity.NFTAttributes{
				Type:        pet.Type,
				Personality: pet.Personality,
				Level:       pet.Level,
				Rarity:      companion.Rarity(pet.Level),
				Creator:     seller,
				BirthDate:   pet.CreatedDate,
			},
			Owner:   seller,
			ForSale: true,
		},
	}
	if err := s.Listings.Create(ctx, l); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithField("listing_id", l.ID).WithField("price", price).Info("pet listed for sale")
	}
	return l, nil
}

// ActiveListings returns the open order book, newest first.
func (s *MarketplaceService) ActiveListings(ctx context.Context, limit int) ([]*entity.Listing, error) {
	return s.Listings.ListActive(ctx, limit)
}

// Get returns a single listing by id.
func (s *MarketplaceService) Get(ctx context.Context, id string) (*entity.Listing, error) {
	l, err := s.Listings.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return l, nil
}

// Buy settles an active listing: ownership flips to the buyer and the
// payment reference is recorded. Returns the transaction reference.
func (s *MarketplaceService) Buy(ctx context.Context, listingID, buyer string) (string, error) {
	l, err := s.Listings.GetByID(ctx, listingID)
	if err != nil {
		return "", mapNotFound(err)
	}
	if l.Status != entity.ListingActive {
		return "", ErrListingUnavailable
	}

	txID := "TX-" + strings.ToUpper(uuid.NewString()[:13])
	l.Status = entity.ListingSold
	l.BuyTxID = txID
	l.Pet.Owner = buyer
	l.Pet.ForSale = false
	if err := s.Listings.Update(ctx, l); err != nil {
		return "", err
	}
	if s.Logger != nil {
		s.Logger.WithField("listing_id", l.ID).WithField("tx_id", txID).Info("pet sold")
	}
	return txID, nil
}

// Cancel withdraws an active listing. Only the seller can cancel.
func (s *MarketplaceService) Cancel(ctx context.Context, listingID, caller string) error {
	l, err := s.Listings.GetByID(ctx, listingID)
	if err != nil {
		return mapNotFound(err)
	}
	if l.Status != entity.ListingActive {
		return ErrListingUnavailable
	}
	if l.Seller != caller {
		return ErrNotSeller
	}

	l.Status = entity.ListingCancelled
	l.Pet.ForSale = false
	return s.Listings.Update(ctx, l)
}

// AlgoPriceUSD quotes the ALGO/USD rate.
func (s *MarketplaceService) AlgoPriceUSD() float64 {
	return MockAlgoPrice
}

func mapNotFound(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrListingNotFound
	}
	return err
}
