package entity

// ChatMessage is one entry in a pet's conversation history.
// Text messages carry Message; voice messages carry AudioURL instead.
type ChatMessage struct {
	ID           string `json:"id"`
	Type         string `json:"type"` // user or pet
	Message      string `json:"message,omitempty"`
	AudioURL     string `json:"audioUrl,omitempty"`
	IsVoice      bool   `json:"isVoiceMessage,omitempty"`
	DurationSecs int    `json:"duration,omitempty"`
	Time         string `json:"time"`
	Emotion      string `json:"emotion,omitempty"`
	HeartLevel   string `json:"heartLevel,omitempty"`
	Timestamp    int64  `json:"timestamp"`
}
