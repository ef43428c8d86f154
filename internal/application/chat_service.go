package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/soulpet-ai/soulpet-api/internal/domain/companion"
	"github.com/soulpet-ai/soulpet-api/internal/domain/entity"
	"github.com/soulpet-ai/soulpet-api/internal/infrastructure/chatbot"
	"github.com/soulpet-ai/soulpet-api/internal/infrastructure/voice"
)

const chatContextWindow = 5

// ChatService keeps per-pet conversation history in Redis and relays
// messages to the chatbot and voice backends. History persists across
// sessions so a pet remembers the conversation.
type ChatService struct {
	Chatbot   *chatbot.Client
	Voice     *voice.Client
	Companion *CompanionService
	Redis     *redis.Client
	Logger    *logrus.Logger
}

func NewChatService(cb *chatbot.Client, vc *voice.Client, companionSvc *CompanionService, rdb *redis.Client, logger *logrus.Logger) *ChatService {
	return &ChatService{Chatbot: cb, Voice: vc, Companion: companionSvc, Redis: rdb, Logger: logger}
}

func historyKey(userID, petID string) string {
	return "companion:chat:" + userID + ":" + petID
}

func clock() string {
	return time.Now().Format("15:04")
}

// History returns the stored conversation, seeding the pet's welcome
// message on first contact.
func (s *ChatService) History(ctx context.Context, userID string, pet *entity.Pet) ([]entity.ChatMessage, error) {
	msgs, err := s.loadHistory(ctx, userID, pet.ID)
	if err != nil {
		return nil, err
	}
	if len(msgs) > 0 {
		return msgs, nil
	}

	welcome := entity.ChatMessage{
		ID:         pet.ID + "-welcome",
		Type:       "pet",
		Message:    fmt.Sprintf("Hello! I'm %s, your %s companion! My heart is filled with joy to finally meet you! 😊💕✨", pet.Name, strings.ToLower(pet.Type)),
		Time:       clock(),
		Emotion:    "excited",
		HeartLevel: "high",
		Timestamp:  time.Now().UnixMilli(),
	}
	if err := s.appendHistory(ctx, userID, pet.ID, welcome); err != nil {
		return nil, err
	}
	return []entity.ChatMessage{welcome}, nil
}

// SendText relays a text message and returns the updated conversation.
// The pet's reply comes from the chatbot backend, or its canned
// fallback when the backend is down. Each exchange also earns coins
// and bond through the economy.
func (s *ChatService) SendText(ctx context.Context, userID string, pet *entity.Pet, userInput string) ([]entity.ChatMessage, error) {
	history, err := s.History(ctx, userID, pet)
	if err != nil {
		return nil, err
	}

	now := time.Now().UnixMilli()
	userMsg := entity.ChatMessage{
		ID:        fmt.Sprintf("%s-user-%d", pet.ID, now),
		Type:      "user",
		Message:   userInput,
		Time:      clock(),
		Timestamp: now,
	}
	if err := s.appendHistory(ctx, userID, pet.ID, userMsg); err != nil {
		return nil, err
	}

	pc := chatbot.PetContext{
		PetName:       pet.Name,
		PetType:       pet.Type,
		Personality:   pet.Personality,
		Voice:         pet.Voice,
		Backstory:     pet.Backstory,
		Mood:          pet.Mood,
		Level:         pet.Level,
		EmotionalBond: pet.EmotionalBond,
		ChatHistory:   tail(history, chatContextWindow),
	}
	reply, emotion, err := s.Chatbot.Send(ctx, userInput, pc)
	if err != nil {
		// Send already degrades to its fallback; an error here is a
		// context cancellation.
		return nil, err
	}

	petMsg := entity.ChatMessage{
		ID:         fmt.Sprintf("%s-pet-%d", pet.ID, time.Now().UnixMilli()),
		Type:       "pet",
		Message:    reply,
		Time:       clock(),
		Emotion:    emotion,
		HeartLevel: companion.HeartLevel(pet.EmotionalBond),
		Timestamp:  time.Now().UnixMilli(),
	}
	if err := s.appendHistory(ctx, userID, pet.ID, petMsg); err != nil {
		return nil, err
	}

	if s.Companion != nil {
		if _, _, cErr := s.Companion.RecordChat(ctx, userID, pet.ID, false); cErr != nil && s.Logger != nil {
			s.Logger.WithError(cErr).WithField("pet_id", pet.ID).Warn("chat reward failed")
		}
	}
	return append(append(history, userMsg), petMsg), nil
}

// SendVoice relays a recorded clip and returns the pet's reply audio
// with the updated conversation. The stored entries reference the
// audio by duration only; blobs are served inline by the handler.
func (s *ChatService) SendVoice(ctx context.Context, userID string, pet *entity.Pet, audio []byte) ([]byte, string, []entity.ChatMessage, error) {
	history, err := s.History(ctx, userID, pet)
	if err != nil {
		return nil, "", nil, err
	}

	now := time.Now().UnixMilli()
	userMsg := entity.ChatMessage{
		ID:        fmt.Sprintf("%s-user-%d", pet.ID, now),
		Type:      "user",
		IsVoice:   true,
		Time:      clock(),
		Timestamp: now,
	}
	if err := s.appendHistory(ctx, userID, pet.ID, userMsg); err != nil {
		return nil, "", nil, err
	}

	voiceType := companion.VoiceType(pet.Personality, pet.Voice, pet.Type)
	replyAudio, contentType := s.Voice.Send(ctx, audio, voiceType)

	petMsg := entity.ChatMessage{
		ID:         fmt.Sprintf("%s-pet-%d", pet.ID, time.Now().UnixMilli()),
		Type:       "pet",
		IsVoice:    true,
		Time:       clock(),
		Emotion:    pet.Mood,
		HeartLevel: companion.HeartLevel(pet.EmotionalBond),
		Timestamp:  time.Now().UnixMilli(),
	}
	if err := s.appendHistory(ctx, userID, pet.ID, petMsg); err != nil {
		return nil, "", nil, err
	}

	if s.Companion != nil {
		if _, _, cErr := s.Companion.RecordChat(ctx, userID, pet.ID, true); cErr != nil && s.Logger != nil {
			s.Logger.WithError(cErr).WithField("pet_id", pet.ID).Warn("voice chat reward failed")
		}
	}
	return replyAudio, contentType, append(append(history, userMsg), petMsg), nil
}

// ClearHistory drops a pet's conversation.
func (s *ChatService) ClearHistory(ctx context.Context, userID, petID string) error {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.Del(ctx, historyKey(userID, petID)).Err()
}

// MessageCount returns how many messages the user has sent to a pet.
func (s *ChatService) MessageCount(ctx context.Context, userID, petID string) (int, error) {
	msgs, err := s.loadHistory(ctx, userID, petID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, m := range msgs {
		if m.Type == "user" {
			n++
		}
	}
	return n, nil
}

func (s *ChatService) loadHistory(ctx context.Context, userID, petID string) ([]entity.ChatMessage, error) {
	if s.Redis == nil {
		return nil, nil
	}
	raw, err := s.Redis.LRange(ctx, historyKey(userID, petID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]entity.ChatMessage, 0, len(raw))
	for _, item := range raw {
		var m entity.ChatMessage
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			if s.Logger != nil {
				s.Logger.WithError(err).Warn("corrupt chat entry skipped")
			}
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *ChatService) appendHistory(ctx context.Context, userID, petID string, m entity.ChatMessage) error {
	if s.Redis == nil {
		return nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return s.Redis.RPush(ctx, historyKey(userID, petID), b).Err()
}

func tail(msgs []entity.ChatMessage, n int) []entity.ChatMessage {
	if len(msgs) <= n {
		return msgs
	}
	return msgs[len(msgs)-n:]
}
