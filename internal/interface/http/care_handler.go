package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/soulpet-ai/soulpet-api/config"
	app "github.com/soulpet-ai/soulpet-api/internal/application"
	"github.com/soulpet-ai/soulpet-api/pkg/helpers"
	"github.com/soulpet-ai/soulpet-api/pkg/response"
	"github.com/soulpet-ai/soulpet-api/pkg/validation"
)

// CareHandler enqueues care-reminder events by hand, mainly for
// verifying the worker pipeline end to end.
type CareHandler struct {
	Pub    *helpers.RabbitPublisher
	Logger *logrus.Logger
	Cfg    *config.Config
}

func NewCareHandler(pub *helpers.RabbitPublisher, logger *logrus.Logger, cfg *config.Config) *CareHandler {
	return &CareHandler{Pub: pub, Logger: logger, Cfg: cfg}
}

type careRemindRequest struct {
	Email     string `json:"email" binding:"required,email"`
	UserName  string `json:"userName"`
	PetName   string `json:"petName" binding:"required"`
	Mood      string `json:"mood"`
	Happiness int    `json:"happiness"`
	Hunger    int    `json:"hunger"`
	Affection int    `json:"affection"`
}

// Remind enqueues a care reminder for the worker.
func (h *CareHandler) Remind(c *gin.Context) {
	var req careRemindRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	if h.Cfg != nil && !h.Cfg.MailSendEnabled {
		response.Success[any](c, http.StatusAccepted, map[string]any{"enqueued": false, "disabled": true}, "care reminders disabled", nil)
		return
	}
	if h.Pub == nil {
		response.Error[any](c, http.StatusServiceUnavailable, "care queue unavailable", nil)
		return
	}

	ev := app.CareEvent{
		UserID:    c.GetString("userID"),
		Email:     req.Email,
		UserName:  req.UserName,
		PetName:   req.PetName,
		Mood:      req.Mood,
		Happiness: req.Happiness,
		Hunger:    req.Hunger,
		Affection: req.Affection,
		QueuedAt:  time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := h.Pub.PublishJSON(c.Request.Context(), ev); err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Warn("failed to publish care event")
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to enqueue", nil)
		return
	}
	response.Success[any](c, http.StatusAccepted, map[string]any{"enqueued": true}, "care reminder enqueued", nil)
}
