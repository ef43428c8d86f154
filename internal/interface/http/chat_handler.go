package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/soulpet-ai/soulpet-api/internal/application"
	"github.com/soulpet-ai/soulpet-api/internal/domain/entity"
	"github.com/soulpet-ai/soulpet-api/pkg/response"
	"github.com/soulpet-ai/soulpet-api/pkg/validation"
)

const maxVoiceUpload = 10 << 20 // 10 MiB

// ChatHandler relays conversations between a user and their pets.
type ChatHandler struct {
	Chat      *app.ChatService
	Companion *app.CompanionService
	Logger    *logrus.Logger
}

func NewChatHandler(chat *app.ChatService, companionSvc *app.CompanionService, logger *logrus.Logger) *ChatHandler {
	return &ChatHandler{Chat: chat, Companion: companionSvc, Logger: logger}
}

func (h *ChatHandler) pet(c *gin.Context) (*entity.Pet, bool) {
	uid := c.GetString("userID")
	u, err := h.Companion.Bootstrap(c.Request.Context(), uid)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return nil, false
	}
	pet := u.FindPet(c.Param("petId"))
	if pet == nil {
		response.Error[any](c, http.StatusNotFound, "pet not found", nil)
		return nil, false
	}
	return pet, true
}

// History returns the conversation with one pet.
func (h *ChatHandler) History(c *gin.Context) {
	pet, ok := h.pet(c)
	if !ok {
		return
	}
	msgs, err := h.Chat.History(c.Request.Context(), c.GetString("userID"), pet)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to load chat history", nil)
		return
	}
	response.Success(c, http.StatusOK, msgs, "chat history", map[string]any{"count": len(msgs)})
}

type sendMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

// Send relays a text message and returns the updated conversation.
func (h *ChatHandler) Send(c *gin.Context) {
	pet, ok := h.pet(c)
	if !ok {
		return
	}
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	msgs, err := h.Chat.SendText(c.Request.Context(), c.GetString("userID"), pet, req.Message)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Warn("text chat failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "chat failed", nil)
		return
	}
	response.Success(c, http.StatusOK, msgs, "message sent", map[string]any{"count": len(msgs)})
}

// SendVoice relays a recorded clip and streams back the pet's reply
// audio.
func (h *ChatHandler) SendVoice(c *gin.Context) {
	pet, ok := h.pet(c)
	if !ok {
		return
	}

	file, _, err := c.Request.FormFile("audio")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "missing audio file", nil)
		return
	}
	defer func() { _ = file.Close() }()

	audio, err := io.ReadAll(io.LimitReader(file, maxVoiceUpload))
	if err != nil || len(audio) == 0 {
		response.Error[any](c, http.StatusBadRequest, "empty audio file", nil)
		return
	}

	reply, contentType, _, err := h.Chat.SendVoice(c.Request.Context(), c.GetString("userID"), pet, audio)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Warn("voice chat failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "voice chat failed", nil)
		return
	}
	c.Data(http.StatusOK, contentType, reply)
}

// ClearHistory wipes the conversation with one pet.
func (h *ChatHandler) ClearHistory(c *gin.Context) {
	pet, ok := h.pet(c)
	if !ok {
		return
	}
	if err := h.Chat.ClearHistory(c.Request.Context(), c.GetString("userID"), pet.ID); err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to clear chat history", nil)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"cleared": true}, "chat history cleared", nil)
}
