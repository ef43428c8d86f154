package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soulpet-ai/soulpet-api/internal/container"
	handlers "github.com/soulpet-ai/soulpet-api/internal/interface/http"
	"github.com/soulpet-ai/soulpet-api/internal/interface/middleware"
	"github.com/soulpet-ai/soulpet-api/pkg/helpers"
)

// MemesModule wires the community meme feed. The feed itself is public,
// forcing a refresh requires a session.

type MemesModule struct {
	Handler *handlers.MemesHandler
	JWT     *helpers.JWTManager
}

func NewMemesModule(h *handlers.MemesHandler, jwt *helpers.JWTManager) *MemesModule {
	return &MemesModule{Handler: h, JWT: jwt}
}

func (m *MemesModule) Register(rg *gin.RouterGroup) {
	feedLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), nil)

	rg.GET("/memes", feedLimiter, m.Handler.Feed)

	// Refresh only needs a valid token, not a full session lookup.
	rg.POST("/memes/refresh", middleware.JWTAuth(m.JWT), m.Handler.Refresh)
}
