package companion

import "strings"

var petImages = map[string]string{
	"dog":     "https://images.pexels.com/photos/1108099/pexels-photo-1108099.jpeg?auto=compress&cs=tinysrgb&w=400",
	"cat":     "https://images.pexels.com/photos/45201/kitty-cat-kitten-pet-45201.jpeg?auto=compress&cs=tinysrgb&w=400",
	"dragon":  "https://images.pexels.com/photos/2835436/pexels-photo-2835436.jpeg?auto=compress&cs=tinysrgb&w=400",
	"unicorn": "https://images.pexels.com/photos/1996333/pexels-photo-1996333.jpeg?auto=compress&cs=tinysrgb&w=400",
	"phoenix": "https://images.pexels.com/photos/1591939/pexels-photo-1591939.jpeg?auto=compress&cs=tinysrgb&w=400",
	"custom":  "https://images.pexels.com/photos/1805164/pexels-photo-1805164.jpeg?auto=compress&cs=tinysrgb&w=400",
}

var moodAuras = map[string]string{
	"playful":     "from-yellow-300/40 via-orange-200/30 to-pink-300/40",
	"wise":        "from-blue-300/40 via-indigo-200/30 to-purple-300/40",
	"mischievous": "from-purple-300/40 via-pink-200/30 to-rose-300/40",
	"gentle":      "from-green-300/40 via-emerald-200/30 to-teal-300/40",
	"brave":       "from-red-300/40 via-orange-200/30 to-yellow-300/40",
	"quirky":      "from-indigo-300/40 via-purple-200/30 to-pink-300/40",
}

// ImageForType returns the stock portrait for a pet type, defaulting to
// the custom image for unknown types.
func ImageForType(petType string) string {
	if img, ok := petImages[strings.ToLower(petType)]; ok {
		return img
	}
	return petImages["custom"]
}

// AuraForPersonality maps a personality to its gradient aura string,
// defaulting to the playful aura.
func AuraForPersonality(personality string) string {
	if aura, ok := moodAuras[strings.ToLower(personality)]; ok {
		return aura
	}
	return moodAuras["playful"]
}

// VoiceType picks a synthesized voice for a companion. Dragons, brave
// personalities and deep/wise voices get the male voice; unicorns,
// cats, gentle personalities and cute/sweet voices the female one, with
// the feminine rules winning on overlap and female as the default.
func VoiceType(personality, voice, petType string) string {
	vt := "female"
	t := strings.ToLower(petType)
	p := strings.ToLower(personality)
	v := strings.ToLower(voice)

	if t == "dragon" || p == "brave" || strings.Contains(v, "deep") || strings.Contains(v, "wise") {
		vt = "male"
	}
	if t == "unicorn" || t == "cat" || p == "gentle" ||
		strings.Contains(v, "cute") || strings.Contains(v, "sweet") {
		vt = "female"
	}
	return vt
}

// HeartLevel grades the emotional bond for chat responses.
func HeartLevel(emotionalBond int) string {
	switch {
	case emotionalBond >= 90:
		return "transcendent"
	case emotionalBond >= 70:
		return "maximum"
	case emotionalBond >= 50:
		return "very high"
	case emotionalBond >= 30:
		return "high"
	default:
		return "medium"
	}
}

// Rarity grades a companion for marketplace NFT metadata by level.
func Rarity(level int) string {
	switch {
	case level >= 20:
		return "Mythic"
	case level >= 12:
		return "Legendary"
	case level >= 6:
		return "Rare"
	default:
		return "Common"
	}
}
