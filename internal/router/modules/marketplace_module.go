package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soulpet-ai/soulpet-api/internal/container"
	handlers "github.com/soulpet-ai/soulpet-api/internal/interface/http"
	"github.com/soulpet-ai/soulpet-api/internal/interface/middleware"
	"github.com/soulpet-ai/soulpet-api/pkg/helpers"
)

// MarketplaceModule wires the NFT listing endpoints. Browsing is public,
// anything that moves ownership requires a session.

type MarketplaceModule struct {
	Handler *handlers.MarketplaceHandler
	JWT     *helpers.JWTManager
}

func NewMarketplaceModule(h *handlers.MarketplaceHandler, jwt *helpers.JWTManager) *MarketplaceModule {
	return &MarketplaceModule{Handler: h, JWT: jwt}
}

func (m *MarketplaceModule) Register(rg *gin.RouterGroup) {
	browseLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), nil)

	rg.GET("/marketplace/listings", browseLimiter, m.Handler.Active)
	rg.GET("/marketplace/listings/:listingId", browseLimiter, m.Handler.Get)
	rg.GET("/marketplace/algo-price", browseLimiter, m.Handler.AlgoPrice)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.POST("/marketplace/listings", m.Handler.List)
		auth.POST("/marketplace/listings/:listingId/buy", m.Handler.Buy)
		auth.POST("/marketplace/listings/:listingId/cancel", m.Handler.Cancel)
	}
}
