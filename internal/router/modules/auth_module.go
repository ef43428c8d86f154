package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soulpet-ai/soulpet-api/internal/container"
	handlers "github.com/soulpet-ai/soulpet-api/internal/interface/http"
	"github.com/soulpet-ai/soulpet-api/internal/interface/middleware"
	"github.com/soulpet-ai/soulpet-api/pkg/helpers"
)

// AuthModule wires session endpoints.
// Public: POST /api/register, POST /api/login, POST /api/refresh
// Protected: POST /api/logout

type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIP(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/refresh", refreshLimiter, m.Handler.Refresh)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	{
		auth.POST("/logout", m.Handler.Logout)
	}
}
