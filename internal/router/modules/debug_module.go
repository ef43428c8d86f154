package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soulpet-ai/soulpet-api/internal/container"
	"github.com/soulpet-ai/soulpet-api/internal/interface/middleware"
)

type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// Public metrics endpoint (expvar), rate-limited per IP.
	// Private addresses bypass the limit so internal scrapers can poll freely.
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
