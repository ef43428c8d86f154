package companion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImageForType(t *testing.T) {
	assert.Equal(t, petImages["dog"], ImageForType("Dog"))
	assert.Equal(t, petImages["dragon"], ImageForType("dragon"))
	assert.Equal(t, petImages["custom"], ImageForType("gryphon"))
}

func TestAuraForPersonality(t *testing.T) {
	assert.Equal(t, moodAuras["wise"], AuraForPersonality("Wise"))
	assert.Equal(t, moodAuras["playful"], AuraForPersonality("unknown"))
}

func TestVoiceType(t *testing.T) {
	assert.Equal(t, "male", VoiceType("Wise", "Deep & Wise", "Dragon"))
	assert.Equal(t, "female", VoiceType("Mischievous", "Cute & Sweet", "Cat"))
	// Feminine rules win on overlap: a gentle dragon speaks female.
	assert.Equal(t, "female", VoiceType("Gentle", "Soft", "Dragon"))
	// Default is female.
	assert.Equal(t, "female", VoiceType("Playful", "Cheerful", "Dog"))
}

func TestHeartLevel(t *testing.T) {
	assert.Equal(t, "transcendent", HeartLevel(95))
	assert.Equal(t, "maximum", HeartLevel(70))
	assert.Equal(t, "very high", HeartLevel(50))
	assert.Equal(t, "high", HeartLevel(30))
	assert.Equal(t, "medium", HeartLevel(10))
}

func TestRarity(t *testing.T) {
	assert.Equal(t, "Common", Rarity(1))
	assert.Equal(t, "Rare", Rarity(6))
	assert.Equal(t, "Legendary", Rarity(15))
	assert.Equal(t, "Mythic", Rarity(20))
}
