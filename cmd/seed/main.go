package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/soulpet-ai/soulpet-api/config"
	"github.com/soulpet-ai/soulpet-api/internal/domain/companion"
	"github.com/soulpet-ai/soulpet-api/internal/domain/entity"
)

// Seeds a handful of demo marketplace listings so the storefront is not
// empty on a fresh install.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	dsn := cfg.PostgresDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	now := time.Now().UTC()
	listings := []entity.Listing{
		{
			ID:          fmt.Sprintf("listing-%d-%d", 730001, now.Add(-48*time.Hour).UnixMilli()),
			AssetID:     730001,
			Seller:      "MARKETPLACE7DEMO4SELLER2WALLET9ADDRESS5ALGORAND3XYZA",
			Price:       12.5,
			Currency:    "ALGO",
			ListingDate: now.Add(-48 * time.Hour),
			Status:      entity.ListingActive,
			Pet: entity.PetNFT{
				AssetID:     730001,
				Name:        "Stardust",
				Description: "A gentle unicorn companion raised on moonlight and kindness",
				Image:       "https://images.pexels.com/photos/45201/kitty-cat-kitten-pet-45201.jpeg",
				Attributes: entity.NFTAttributes{
					Type:        "Unicorn",
					Personality: "dreamy",
					Level:       8,
					Rarity:      companion.Rarity(8),
					Creator:     "SoulPet Genesis",
					BirthDate:   now.Add(-90 * 24 * time.Hour).Format("2006-01-02"),
				},
				Owner:   "MARKETPLACE7DEMO4SELLER2WALLET9ADDRESS5ALGORAND3XYZA",
				ForSale: true,
			},
		},
		{
			ID:          fmt.Sprintf("listing-%d-%d", 730002, now.Add(-12*time.Hour).UnixMilli()),
			AssetID:     730002,
			Seller:      "COLLECTOR6VAULT8WALLET1ADDRESS4ALGORAND2DEMO9SELLERB",
			Price:       30,
			Currency:    "ALGO",
			ListingDate: now.Add(-12 * time.Hour),
			Status:      entity.ListingActive,
			Pet: entity.PetNFT{
				AssetID:     730002,
				Name:        "Emberwing",
				Description: "A proud dragon companion with a warm heart and warmer breath",
				Image:       "https://images.pexels.com/photos/1108099/pexels-photo-1108099.jpeg",
				Attributes: entity.NFTAttributes{
					Type:        "Dragon",
					Personality: "bold",
					Level:       14,
					Rarity:      companion.Rarity(14),
					Creator:     "SoulPet Genesis",
					BirthDate:   now.Add(-200 * 24 * time.Hour).Format("2006-01-02"),
				},
				Owner:   "COLLECTOR6VAULT8WALLET1ADDRESS4ALGORAND2DEMO9SELLERB",
				ForSale: true,
			},
		},
		{
			ID:          fmt.Sprintf("listing-%d-%d", 730003, now.Add(-2*time.Hour).UnixMilli()),
			AssetID:     730003,
			Seller:      "BREEDER3NURSERY5WALLET7ADDRESS1ALGORAND8DEMO6SELLERC",
			Price:       4.75,
			Currency:    "ALGO",
			ListingDate: now.Add(-2 * time.Hour),
			Status:      entity.ListingActive,
			Pet: entity.PetNFT{
				AssetID:     730003,
				Name:        "Pebbles",
				Description: "A curious cat companion who naps in sunbeams and dreams big",
				Image:       "https://images.pexels.com/photos/416160/pexels-photo-416160.jpeg",
				Attributes: entity.NFTAttributes{
					Type:        "Cat",
					Personality: "curious",
					Level:       3,
					Rarity:      companion.Rarity(3),
					Creator:     "SoulPet Genesis",
					BirthDate:   now.Add(-20 * 24 * time.Hour).Format("2006-01-02"),
				},
				Owner:   "BREEDER3NURSERY5WALLET7ADDRESS1ALGORAND8DEMO6SELLERC",
				ForSale: true,
			},
		},
	}

	for _, l := range listings {
		pet, err := json.Marshal(l.Pet)
		if err != nil {
			log.Fatalf("failed to marshal pet for %s: %v", l.ID, err)
		}
		if _, err := db.Exec(`
			INSERT INTO listings (id, asset_id, seller, price, currency, listing_date, status, buy_tx_id, pet)
			VALUES ($1, $2, $3, $4, $5, $6, $7, '', $8)
			ON CONFLICT (id) DO NOTHING
		`, l.ID, l.AssetID, l.Seller, l.Price, l.Currency, l.ListingDate, l.Status, pet); err != nil {
			log.Fatalf("failed to seed listing %s: %v", l.ID, err)
		}
		fmt.Printf("seeded listing: id=%s pet=%s price=%.2f %s\n", l.ID, l.Pet.Name, l.Price, l.Currency)
	}
}
