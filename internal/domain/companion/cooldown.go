package companion

import (
	"fmt"

	"github.com/soulpet-ai/soulpet-api/internal/domain/entity"
)

const (
	// FeedCooldown and PetCooldown gate how often a companion can be
	// fed or petted. Both are 8 hours in ms.
	FeedCooldown int64 = 8 * 60 * 60 * 1000
	PetCooldown  int64 = 8 * 60 * 60 * 1000
)

// CanFeed reports whether the feed cooldown has elapsed. A pet that was
// never fed (LastFeedTime == 0) is always feedable.
func CanFeed(pet *entity.Pet, now int64) bool {
	return now-pet.LastFeedTime >= FeedCooldown
}

// CanPet reports whether the petting cooldown has elapsed.
func CanPet(pet *entity.Pet, now int64) bool {
	return now-pet.LastPetTime >= PetCooldown
}

// FeedCooldownRemaining returns the remaining wait as "{h}h {m}m", or
// "" when feeding is allowed. "Never fed" and "cooldown expired" both
// yield "", deliberately mirroring the reference behavior.
func FeedCooldownRemaining(pet *entity.Pet, now int64) string {
	return remaining(pet.LastFeedTime, FeedCooldown, now)
}

// PetCooldownRemaining is the petting counterpart of
// FeedCooldownRemaining.
func PetCooldownRemaining(pet *entity.Pet, now int64) string {
	return remaining(pet.LastPetTime, PetCooldown, now)
}

func remaining(lastAction, cooldown, now int64) string {
	if lastAction == 0 {
		return ""
	}
	left := cooldown - (now - lastAction)
	if left <= 0 {
		return ""
	}
	hours := left / (60 * 60 * 1000)
	minutes := (left % (60 * 60 * 1000)) / (60 * 1000)
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
