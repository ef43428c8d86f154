package application

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulpet-ai/soulpet-api/internal/domain/entity"
	"github.com/soulpet-ai/soulpet-api/internal/infrastructure/chatbot"
)

func chatTestPet() *entity.Pet {
	return &entity.Pet{
		ID:            "pet-1",
		Name:          "Fluffy",
		Type:          "Cat",
		Personality:   "Mischievous",
		Voice:         "Cute & Sweet",
		Mood:          "happy",
		Level:         15,
		EmotionalBond: 95,
	}
}

func TestHistorySeedsWelcomeMessage(t *testing.T) {
	svc := NewChatService(nil, nil, nil, nil, nil)

	msgs, err := svc.History(context.Background(), "u1", chatTestPet())
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	welcome := msgs[0]
	assert.Equal(t, "pet", welcome.Type)
	assert.Contains(t, welcome.Message, "Fluffy")
	assert.Contains(t, welcome.Message, "cat companion")
	assert.Equal(t, "excited", welcome.Emotion)
	assert.Equal(t, "high", welcome.HeartLevel)
}

func TestSendTextReturnsConversation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"reply": "Meow!", "emotion": "playful"})
	}))
	defer srv.Close()

	cb := chatbot.NewClient(srv.URL, 2*time.Second, nil)
	svc := NewChatService(cb, nil, nil, nil, nil)

	msgs, err := svc.SendText(context.Background(), "u1", chatTestPet(), "hi there")
	require.NoError(t, err)
	require.Len(t, msgs, 3) // welcome, user, pet

	assert.Equal(t, "user", msgs[1].Type)
	assert.Equal(t, "hi there", msgs[1].Message)

	petMsg := msgs[2]
	assert.Equal(t, "pet", petMsg.Type)
	assert.Equal(t, "Meow!", petMsg.Message)
	assert.Equal(t, "playful", petMsg.Emotion)
	assert.Equal(t, "transcendent", petMsg.HeartLevel) // bond 95
}

func TestSendTextUsesFallbackWhenBrainIsDown(t *testing.T) {
	cb := chatbot.NewClient("http://127.0.0.1:1", 500*time.Millisecond, nil)
	svc := NewChatService(cb, nil, nil, nil, nil)

	msgs, err := svc.SendText(context.Background(), "u1", chatTestPet(), "hi")
	require.NoError(t, err)
	require.Len(t, msgs, 3)

	assert.Equal(t, chatbot.FallbackReply, msgs[2].Message)
	assert.Equal(t, chatbot.FallbackEmotion, msgs[2].Emotion)
}
