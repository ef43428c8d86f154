package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soulpet-ai/soulpet-api/internal/container"
	handlers "github.com/soulpet-ai/soulpet-api/internal/interface/http"
	"github.com/soulpet-ai/soulpet-api/internal/interface/middleware"
	"github.com/soulpet-ai/soulpet-api/pkg/helpers"
)

type CareModule struct {
	Handler *handlers.CareHandler
	JWT     *helpers.JWTManager
}

func NewCareModule(h *handlers.CareHandler, jwt *helpers.JWTManager) *CareModule {
	return &CareModule{Handler: h, JWT: jwt}
}

func (m *CareModule) Register(rg *gin.RouterGroup) {
	// Protected care-reminder endpoints
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.POST("/care/remind", m.Handler.Remind)
	}
}
