package companion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulpet-ai/soulpet-api/internal/domain/entity"
)

func newPet(happiness, hunger, affection int, lastDecay int64) *entity.Pet {
	return &entity.Pet{
		ID:            "p1",
		Name:          "Fluffy",
		Happiness:     happiness,
		Hunger:        hunger,
		Affection:     affection,
		Energy:        90,
		Mood:          "happy",
		LastDecayTime: lastDecay,
	}
}

func TestDecayBelowInterval(t *testing.T) {
	now := int64(10_000_000_000)
	pet := newPet(80, 70, 60, now-DecayInterval+1)

	touched := Decay([]*entity.Pet{pet}, now)

	assert.Empty(t, touched)
	assert.Equal(t, 80, pet.Happiness)
	assert.Equal(t, 70, pet.Hunger)
	assert.Equal(t, 60, pet.Affection)
	assert.Equal(t, now-DecayInterval+1, pet.LastDecayTime)
}

func TestDecaySingleInterval(t *testing.T) {
	now := int64(10_000_000_000)
	pet := newPet(80, 70, 60, now-DecayInterval)

	touched := Decay([]*entity.Pet{pet}, now)

	require.Len(t, touched, 1)
	assert.Equal(t, 75, pet.Happiness)
	assert.Equal(t, 65, pet.Hunger)
	assert.Equal(t, 55, pet.Affection)
	assert.Equal(t, now, pet.LastDecayTime)
	assert.Equal(t, "happy", pet.Mood)
}

func TestDecayCumulativeIntervals(t *testing.T) {
	now := int64(10_000_000_000)
	// Suspended for 3.5 intervals: only 3 full intervals count.
	pet := newPet(80, 70, 60, now-DecayInterval*3-DecayInterval/2)

	Decay([]*entity.Pet{pet}, now)

	assert.Equal(t, 65, pet.Happiness)
	assert.Equal(t, 55, pet.Hunger)
	assert.Equal(t, 45, pet.Affection)
}

func TestDecayFloorsAtZero(t *testing.T) {
	now := int64(10_000_000_000)
	pet := newPet(3, 2, 1, now-DecayInterval*10)

	Decay([]*entity.Pet{pet}, now)

	assert.Equal(t, 0, pet.Happiness)
	assert.Equal(t, 0, pet.Hunger)
	assert.Equal(t, 0, pet.Affection)
}

func TestDecayMoodPriority(t *testing.T) {
	now := int64(10_000_000_000)

	sad := newPet(30, 90, 90, now-DecayInterval)
	hungry := newPet(90, 30, 90, now-DecayInterval)
	lonely := newPet(90, 90, 30, now-DecayInterval)
	fine := newPet(90, 90, 90, now-DecayInterval)

	Decay([]*entity.Pet{sad, hungry, lonely, fine}, now)

	assert.Equal(t, "sad", sad.Mood)
	assert.Equal(t, "hungry", hungry.Mood)
	assert.Equal(t, "lonely", lonely.Mood)
	assert.Equal(t, "happy", fine.Mood)
}

func TestDecayZeroLastDecayTime(t *testing.T) {
	now := int64(10_000_000_000)
	pet := newPet(80, 70, 60, 0)

	touched := Decay([]*entity.Pet{pet}, now)

	// Fresh pets never decay retroactively.
	assert.Empty(t, touched)
	assert.Equal(t, 80, pet.Happiness)
}

func TestDecayIdempotentWithinInterval(t *testing.T) {
	t1 := int64(10_000_000_000)
	t2 := t1 + DecayInterval/2

	a := newPet(80, 70, 60, t1-DecayInterval*2)
	b := newPet(80, 70, 60, t1-DecayInterval*2)

	// decay(decay(pets, t1), t2) == decay(pets, t2) when t2-t1 is less
	// than one interval.
	Decay([]*entity.Pet{a}, t1)
	Decay([]*entity.Pet{a}, t2)
	Decay([]*entity.Pet{b}, t2)

	assert.Equal(t, b.Happiness, a.Happiness)
	assert.Equal(t, b.Hunger, a.Hunger)
	assert.Equal(t, b.Affection, a.Affection)
}

func TestNeedsCare(t *testing.T) {
	assert.False(t, NeedsCare(newPet(50, 50, 50, 0)))
	assert.True(t, NeedsCare(newPet(29, 50, 50, 0)))
	assert.True(t, NeedsCare(newPet(50, 29, 50, 0)))
	assert.True(t, NeedsCare(newPet(50, 50, 29, 0)))
}
