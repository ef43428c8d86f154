package entity

// Pet is a user-owned companion. Stats are integers clamped to [0,100].
// The three *Time fields are Unix epoch milliseconds; 0 means "never".
// LastFed/LastPetted are display strings only and never gate logic.
type Pet struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Personality string `json:"personality"`
	Voice       string `json:"voice"`
	Appearance  string `json:"appearance"`
	Backstory   string `json:"backstory"`
	Image       string `json:"image"`
	CreatedDate string `json:"createdDate"`

	Level         int    `json:"level"`
	Happiness     int    `json:"happiness"`
	Energy        int    `json:"energy"`
	Hunger        int    `json:"hunger"`
	Affection     int    `json:"affection"`
	Mood          string `json:"mood"`
	MoodAura      string `json:"moodAura"`
	Outfit        string `json:"outfit"`
	CoinsEarned   int    `json:"coinsEarned"`
	TotalChats    int    `json:"totalChats"`
	LastFed       string `json:"lastFed"`
	LastPetted    string `json:"lastPetted"`
	EmotionalBond int    `json:"emotionalBond"`
	Status        string `json:"status"`

	LastFeedTime  int64 `json:"lastFeedTime"`
	LastPetTime   int64 `json:"lastPetTime"`
	LastDecayTime int64 `json:"lastDecayTime"`
}
