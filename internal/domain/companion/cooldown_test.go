package companion

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/soulpet-ai/soulpet-api/internal/domain/entity"
)

func TestCanFeedWindow(t *testing.T) {
	now := int64(100_000_000_000)

	// Never fed: always allowed.
	assert.True(t, CanFeed(&entity.Pet{LastFeedTime: 0}, now))

	// Inside the window: blocked at the boundary start and just before
	// the boundary end.
	assert.False(t, CanFeed(&entity.Pet{LastFeedTime: now}, now))
	assert.False(t, CanFeed(&entity.Pet{LastFeedTime: now - FeedCooldown + 1}, now))

	// Exactly at and past the cooldown: allowed.
	assert.True(t, CanFeed(&entity.Pet{LastFeedTime: now - FeedCooldown}, now))
	assert.True(t, CanFeed(&entity.Pet{LastFeedTime: now - FeedCooldown - 1}, now))
}

func TestCanPetWindow(t *testing.T) {
	now := int64(100_000_000_000)

	assert.True(t, CanPet(&entity.Pet{LastPetTime: 0}, now))
	assert.False(t, CanPet(&entity.Pet{LastPetTime: now - PetCooldown + 1}, now))
	assert.True(t, CanPet(&entity.Pet{LastPetTime: now - PetCooldown}, now))
}

func TestFeedCooldownRemaining(t *testing.T) {
	now := int64(100_000_000_000)

	// Never fed and fully elapsed both report no wait.
	assert.Equal(t, "", FeedCooldownRemaining(&entity.Pet{LastFeedTime: 0}, now))
	assert.Equal(t, "", FeedCooldownRemaining(&entity.Pet{LastFeedTime: now - FeedCooldown}, now))

	// Fed 1 hour ago: 7h 0m remaining.
	oneHour := int64(60 * 60 * 1000)
	assert.Equal(t, "7h 0m", FeedCooldownRemaining(&entity.Pet{LastFeedTime: now - oneHour}, now))

	// Fed 3.5 hours ago: 4h 30m remaining.
	assert.Equal(t, "4h 30m", FeedCooldownRemaining(&entity.Pet{LastFeedTime: now - 3*oneHour - oneHour/2}, now))
}

func TestPetCooldownRemaining(t *testing.T) {
	now := int64(100_000_000_000)
	oneHour := int64(60 * 60 * 1000)

	assert.Equal(t, "", PetCooldownRemaining(&entity.Pet{LastPetTime: 0}, now))
	assert.Equal(t, "7h 30m", PetCooldownRemaining(&entity.Pet{LastPetTime: now - oneHour/2}, now))
}
