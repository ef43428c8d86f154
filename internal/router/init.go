package router

import (
	app "github.com/soulpet-ai/soulpet-api/internal/application"
	"github.com/soulpet-ai/soulpet-api/internal/container"
	"github.com/soulpet-ai/soulpet-api/internal/infrastructure/chatbot"
	"github.com/soulpet-ai/soulpet-api/internal/infrastructure/memes"
	pginfra "github.com/soulpet-ai/soulpet-api/internal/infrastructure/postgres"
	"github.com/soulpet-ai/soulpet-api/internal/infrastructure/redisstore"
	"github.com/soulpet-ai/soulpet-api/internal/infrastructure/voice"
	handlers "github.com/soulpet-ai/soulpet-api/internal/interface/http"
	"github.com/soulpet-ai/soulpet-api/internal/router/modules"
)

// Deps holds every service constructed during wiring. main keeps a
// reference so it can run the decay sweeper next to the HTTP server.
type Deps struct {
	Companion   *app.CompanionService
	Identity    *app.IdentityService
	Chat        *app.ChatService
	Marketplace *app.MarketplaceService
	Sweeper     *app.DecaySweeper
}

func buildDeps() Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	store := redisstore.NewSnapshotStore(container.GetRedis())

	companionSvc := app.NewCompanionService(
		store,
		container.GetRedis(),
		logger,
		container.GetES(),
		cfg.ESPetsIndex,
		container.GetGCS(),
		cfg.GCSBucket,
	)

	identitySvc := app.NewIdentityService(
		companionSvc,
		container.GetJWT(),
		container.GetRedis(),
		logger,
	)

	chatSvc := app.NewChatService(
		chatbot.NewClient(cfg.ChatAPIBase, cfg.ChatTimeout, logger),
		voice.NewClient(cfg.VoiceAPIBase, cfg.VoiceTimeout, logger),
		companionSvc,
		container.GetRedis(),
		logger,
	)

	marketSvc := app.NewMarketplaceService(
		pginfra.NewListingRepository(container.GetPGPool()),
		logger,
	)

	// Typed nil would slip past the sweeper's interface nil check.
	var carePub app.CarePublisher
	if pub := container.GetRabbitPub(); pub != nil {
		carePub = pub
	}
	sweeper := app.NewDecaySweeper(store, carePub, logger, cfg.DecaySweepInterval)

	return Deps{
		Companion:   companionSvc,
		Identity:    identitySvc,
		Chat:        chatSvc,
		Marketplace: marketSvc,
		Sweeper:     sweeper,
	}
}

// InitModules wires every module into the registry and returns the
// constructed services for the caller to manage.
func InitModules(r *Registry) Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	jwt := container.GetJWT()

	deps := buildDeps()

	authHandler := handlers.NewAuthHandler(deps.Identity, logger, cfg.CookieDomain, cfg.CookieSecure)
	companionHandler := handlers.NewCompanionHandler(deps.Companion, logger)
	chatHandler := handlers.NewChatHandler(deps.Chat, deps.Companion, logger)
	marketHandler := handlers.NewMarketplaceHandler(deps.Marketplace, deps.Companion, logger)
	memesHandler := handlers.NewMemesHandler(
		memes.NewClient(cfg.MemeAPIURL, cfg.RedditMemeURL, cfg.MemeCacheTTL, container.GetRedis(), logger),
		logger,
	)
	careHandler := handlers.NewCareHandler(container.GetRabbitPub(), logger, cfg)

	r.Add(modules.NewAuthModule(authHandler, jwt))
	r.Add(modules.NewCompanionModule(companionHandler, jwt))
	r.Add(modules.NewChatModule(chatHandler, jwt))
	r.Add(modules.NewMarketplaceModule(marketHandler, jwt))
	r.Add(modules.NewMemesModule(memesHandler, jwt))
	r.Add(modules.NewCareModule(careHandler, jwt))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}

	return deps
}
