package main

import (
	"fmt"
	"log"
	"time"

	"github.com/MohdZaidRapid/BooksBackend/config"
	"github.com/MohdZaidRapid/BooksBackend/internal/cache"
	"github.com/MohdZaidRapid/BooksBackend/internal/handler"
	"github.com/MohdZaidRapid/BooksBackend/internal/registry"
	"github.com/MohdZaidRapid/BooksBackend/internal/repository"
	"github.com/MohdZaidRapid/BooksBackend/internal/server"
	"github.com/MohdZaidRapid/BooksBackend/internal/services"
	"github.com/MohdZaidRapid/BooksBackend/pkg/database"
	"github.com/MohdZaidRapid/BooksBackend/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	mode := logger.DevelopmentMode
	if cfg.AppMode == server.ReleaseMode {
		mode = logger.ProductionMode
	}
	l := logger.New(mode)
	logger.SetGlobalLogger(l)
	zap.ReplaceGlobals(l.Logger)

	database.Connect(cfg)

	redisClient := goredis.NewClient(&goredis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// Repositories
	bookRepo := repository.NewBookRepository(database.DB)
	conversationRepo := repository.NewConversationRepository(database.DB)
	messageRepo := repository.NewMessageRepository(database.DB)
	notificationRepo := repository.NewNotificationRepository(database.DB)

	// Presence registry, shared by the relay and the notifier
	reg := registry.New(l.Logger)

	// Services
	fanout := services.NewNotificationFanout(notificationRepo, reg, l.Logger)
	relay := services.NewMessageRelay(bookRepo, conversationRepo, messageRepo, fanout, reg, nil, l.Logger)

	listingCache := cache.New(
		cache.NewRedisStore(redisClient),
		time.Duration(cfg.CacheTTLSeconds)*time.Second,
		l.Logger,
	)
	listings := services.NewListingService(bookRepo, listingCache, fanout, l.Logger)

	// Transport
	hub := server.NewHub(reg, relay)

	srv := server.New(cfg, l)
	srv.SetupRoutes(&server.Handlers{
		Chat:          handler.NewChatHandler(relay),
		Notifications: handler.NewNotificationHandler(fanout),
		Listings:      handler.NewListingHandler(listings),
		Presence:      handler.NewPresenceHandler(hub.Registry()),
		WebSocket:     server.NewWebSocketHandler(hub, cfg.JWTSecret),
	})

	if err := srv.Start(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
