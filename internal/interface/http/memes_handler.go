package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/soulpet-ai/soulpet-api/internal/infrastructure/memes"
	"github.com/soulpet-ai/soulpet-api/pkg/response"
)

// MemesHandler serves the Wags & Giggles feed.
type MemesHandler struct {
	Client *memes.Client
	Logger *logrus.Logger
}

func NewMemesHandler(client *memes.Client, logger *logrus.Logger) *MemesHandler {
	return &MemesHandler{Client: client, Logger: logger}
}

// Feed returns the current meme feed for a category.
func (h *MemesHandler) Feed(c *gin.Context) {
	category := c.DefaultQuery("category", "all")
	feed, err := h.Client.Fetch(c.Request.Context(), category)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Warn("meme feed failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to load feed", nil)
		return
	}
	response.Success(c, http.StatusOK, feed, "meme feed", map[string]any{"count": len(feed)})
}

// Refresh drops the cached feed so the next fetch hits the upstreams.
func (h *MemesHandler) Refresh(c *gin.Context) {
	category := c.DefaultQuery("category", "all")
	if err := h.Client.ClearCache(c.Request.Context(), category); err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to refresh feed", nil)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"refreshed": true}, "feed cache cleared", nil)
}
