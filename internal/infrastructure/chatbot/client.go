package chatbot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/soulpet-ai/soulpet-api/internal/domain/entity"
)

// FallbackReply is substituted whenever the remote brain cannot be
// reached; chat never surfaces transport errors to the user.
const FallbackReply = "I'm having a little trouble connecting to my thoughts right now, but I'm still here with you! Let's try again in a moment. 💕✨"

// FallbackEmotion accompanies FallbackReply.
const FallbackEmotion = "apologetic"

// PetContext describes the companion to the remote brain alongside a
// trailing window of recent messages.
type PetContext struct {
	PetName       string               `json:"petName"`
	PetType       string               `json:"petType"`
	Personality   string               `json:"personality"`
	Voice         string               `json:"voice"`
	Backstory     string               `json:"backstory"`
	Mood          string               `json:"mood"`
	Level         int                  `json:"level"`
	EmotionalBond int                  `json:"emotionalBond"`
	ChatHistory   []entity.ChatMessage `json:"chatHistory"`
}

type chatRequest struct {
	UserInput string     `json:"user_input"`
	Context   PetContext `json:"context"`
}

type chatResponse struct {
	Reply   string `json:"reply"`
	Emotion string `json:"emotion"`
}

// Client talks to the remote chat endpoint.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Logger  *logrus.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
		Logger:  logger,
	}
}

// Send posts the user input and pet context to the remote brain and
// returns (reply, emotion). Any failure degrades to the canned
// fallback; the returned error is always nil unless marshalling the
// request itself failed.
func (c *Client) Send(ctx context.Context, userInput string, pc PetContext) (string, string, error) {
	body, err := json.Marshal(chatRequest{UserInput: userInput, Context: pc})
	if err != nil {
		return "", "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return FallbackReply, FallbackEmotion, nil
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.logWarn(err, "chat request failed")
		return FallbackReply, FallbackEmotion, nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logWarn(fmt.Errorf("status %d", resp.StatusCode), "chat request failed")
		return FallbackReply, FallbackEmotion, nil
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.logWarn(err, "chat response decode failed")
		return FallbackReply, FallbackEmotion, nil
	}
	if out.Reply == "" {
		out.Reply = "I'm having trouble connecting right now, but I'm still here with you! 💕"
	}
	if out.Emotion == "" {
		out.Emotion = pc.Mood
	}
	return out.Reply, out.Emotion, nil
}

func (c *Client) logWarn(err error, msg string) {
	if c.Logger != nil {
		c.Logger.WithError(err).Warn(msg)
	}
}
