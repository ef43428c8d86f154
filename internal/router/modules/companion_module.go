package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soulpet-ai/soulpet-api/internal/container"
	handlers "github.com/soulpet-ai/soulpet-api/internal/interface/http"
	"github.com/soulpet-ai/soulpet-api/internal/interface/middleware"
	"github.com/soulpet-ai/soulpet-api/pkg/helpers"
)

// CompanionModule wires the profile, coin and pet-care routes. All of
// them require an active session.

type CompanionModule struct {
	Handler *handlers.CompanionHandler
	JWT     *helpers.JWTManager
}

func NewCompanionModule(h *handlers.CompanionHandler, jwt *helpers.JWTManager) *CompanionModule {
	return &CompanionModule{Handler: h, JWT: jwt}
}

func (m *CompanionModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("/me", m.Handler.Me)
		auth.DELETE("/me", m.Handler.Forget)
		auth.POST("/me/onboarding/complete", m.Handler.CompleteOnboarding)
		auth.POST("/me/coins", m.Handler.AdjustCoins)
		auth.POST("/me/purchase", m.Handler.PurchaseItem)

		auth.POST("/pets", m.Handler.CreatePet)
		auth.PATCH("/pets/:petId", m.Handler.UpdatePetStats)
		auth.POST("/pets/:petId/feed", m.Handler.FeedPet)
		auth.POST("/pets/:petId/pet", m.Handler.PetPet)
		auth.POST("/pets/:petId/portrait", m.Handler.UploadPortrait)
		auth.POST("/pets/boost", m.Handler.BoostAllPets)

		// Search pets via Elasticsearch
		auth.GET("/pets/search", m.Handler.SearchPets)
	}
}
