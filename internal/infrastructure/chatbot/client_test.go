package chatbot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendRelaysReply(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(map[string]string{"reply": "Purr!", "emotion": "joyful"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second, nil)
	reply, emotion, err := c.Send(context.Background(), "hello", PetContext{PetName: "Fluffy", Mood: "happy"})

	require.NoError(t, err)
	assert.Equal(t, "Purr!", reply)
	assert.Equal(t, "joyful", emotion)
	assert.Equal(t, "hello", gotReq.UserInput)
	assert.Equal(t, "Fluffy", gotReq.Context.PetName)
}

func TestSendFallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second, nil)
	reply, emotion, err := c.Send(context.Background(), "hello", PetContext{Mood: "happy"})

	require.NoError(t, err)
	assert.Equal(t, FallbackReply, reply)
	assert.Equal(t, FallbackEmotion, emotion)
}

func TestSendFallsBackWhenUnreachable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 500*time.Millisecond, nil)
	reply, emotion, err := c.Send(context.Background(), "hello", PetContext{Mood: "happy"})

	require.NoError(t, err)
	assert.Equal(t, FallbackReply, reply)
	assert.Equal(t, FallbackEmotion, emotion)
}

func TestSendDefaultsEmptyFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second, nil)
	reply, emotion, err := c.Send(context.Background(), "hello", PetContext{Mood: "wise"})

	require.NoError(t, err)
	assert.NotEmpty(t, reply)
	assert.Equal(t, "wise", emotion, "empty emotion falls back to the pet's mood")
}
