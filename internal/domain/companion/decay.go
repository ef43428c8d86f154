package companion

import (
	"github.com/soulpet-ai/soulpet-api/internal/domain/entity"
)

const (
	// DecayInterval is how often untended stats drop.
	DecayInterval int64 = 30 * 60 * 1000 // 30 minutes in ms
	// DecayAmount is subtracted from happiness, hunger and affection
	// per elapsed interval.
	DecayAmount = 5

	// LowStatThreshold is the point below which a companion's mood
	// flips and care reminders fire.
	LowStatThreshold = 30
)

// Decay applies time-based stat decay to pets in place and reports
// which pets crossed at least one full interval.
//
// For each pet: elapsed = now - lastDecayTime (a zero lastDecayTime
// counts as "now", so fresh pets never decay retroactively). When
// elapsed covers one or more intervals, happiness, hunger and affection
// each lose intervals*DecayAmount, floored at 0, and lastDecayTime is
// stamped. Calling Decay twice with the same now is a no-op the second
// time.
func Decay(pets []*entity.Pet, now int64) []*entity.Pet {
	var touched []*entity.Pet
	for _, pet := range pets {
		last := pet.LastDecayTime
		if last == 0 {
			last = now
		}
		elapsed := now - last
		if elapsed < DecayInterval {
			continue
		}
		intervals := elapsed / DecayInterval
		total := int(intervals) * DecayAmount

		// Mood compares the raw decremented values, before the zero
		// floor, matching the reference behavior.
		switch {
		case pet.Happiness-total < LowStatThreshold:
			pet.Mood = "sad"
		case pet.Hunger-total < LowStatThreshold:
			pet.Mood = "hungry"
		case pet.Affection-total < LowStatThreshold:
			pet.Mood = "lonely"
		}

		pet.Happiness = floor0(pet.Happiness - total)
		pet.Hunger = floor0(pet.Hunger - total)
		pet.Affection = floor0(pet.Affection - total)
		pet.LastDecayTime = now
		touched = append(touched, pet)
	}
	return touched
}

// NeedsCare reports whether any tended stat has fallen below the
// care-reminder threshold.
func NeedsCare(pet *entity.Pet) bool {
	return pet.Happiness < LowStatThreshold ||
		pet.Hunger < LowStatThreshold ||
		pet.Affection < LowStatThreshold
}

func floor0(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// Clamp100 bounds a stat to [0,100].
func Clamp100(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
