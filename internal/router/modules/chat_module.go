package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soulpet-ai/soulpet-api/internal/container"
	handlers "github.com/soulpet-ai/soulpet-api/internal/interface/http"
	"github.com/soulpet-ai/soulpet-api/internal/interface/middleware"
	"github.com/soulpet-ai/soulpet-api/pkg/helpers"
)

// ChatModule wires text and voice conversations with a companion.

type ChatModule struct {
	Handler *handlers.ChatHandler
	JWT     *helpers.JWTManager
}

func NewChatModule(h *handlers.ChatHandler, jwt *helpers.JWTManager) *ChatModule {
	return &ChatModule{Handler: h, JWT: jwt}
}

func (m *ChatModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("/chat/:petId/history", m.Handler.History)
		auth.POST("/chat/:petId", m.Handler.Send)
		auth.POST("/chat/:petId/voice", m.Handler.SendVoice)
		auth.DELETE("/chat/:petId/history", m.Handler.ClearHistory)
	}
}
