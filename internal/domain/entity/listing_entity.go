package entity

import "time"

// Listing statuses.
const (
	ListingActive    = "active"
	ListingSold      = "sold"
	ListingCancelled = "cancelled"
)

// NFTAttributes is the trait set embedded in a pet NFT document.
type NFTAttributes struct {
	Type        string `json:"type"`
	Personality string `json:"personality"`
	Level       int    `json:"level"`
	Rarity      string `json:"rarity"`
	Creator     string `json:"creator"`
	BirthDate   string `json:"birthDate"`
}

// PetNFT is the marketplace-facing view of a companion. The asset
// itself lives on chain; this document is the listing-book copy.
type PetNFT struct {
	AssetID     uint64        `json:"assetId"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Image       string        `json:"image"`
	Attributes  NFTAttributes `json:"attributes"`
	Owner       string        `json:"owner"`
	ForSale     bool          `json:"forSale"`
}

// Listing is a marketplace sale offer for a pet NFT. Payment happens in
// the buyer's external wallet; BuyTxID records the resulting reference.
type Listing struct {
	ID          string    `json:"id"`
	AssetID     uint64    `json:"assetId"`
	Seller      string    `json:"seller"`
	Price       float64   `json:"price"`
	Currency    string    `json:"currency"` // ALGO or USDC
	ListingDate time.Time `json:"listingDate"`
	Status      string    `json:"status"`
	BuyTxID     string    `json:"buyTxId,omitempty"`
	Pet         PetNFT    `json:"pet"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
