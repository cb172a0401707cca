package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MohdZaidRapid/BooksBackend/config"
	"github.com/MohdZaidRapid/BooksBackend/internal/handler"
	"github.com/MohdZaidRapid/BooksBackend/internal/middleware"
	"github.com/MohdZaidRapid/BooksBackend/internal/transport/httpdto"
	"github.com/MohdZaidRapid/BooksBackend/pkg/database"
	"github.com/MohdZaidRapid/BooksBackend/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

type Handlers struct {
	Chat          *handler.ChatHandler
	Notifications *handler.NotificationHandler
	Listings      *handler.ListingHandler
	Presence      *handler.PresenceHandler
	WebSocket     *WebSocketHandler
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.AppPort),
			Handler: engine,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

func (s *Server) SetupRoutes(handlers *Handlers) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.CORSMiddleware())
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	s.engine.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(); err != nil {
			c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse(err.Error(), "UNHEALTHY"))
			return
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"status": "healthy"}))
	})

	s.engine.GET("/ws", handlers.WebSocket.Handle)

	auth := middleware.AuthMiddleware(s.config.JWTSecret)

	chats := s.engine.Group("/v1/chats", auth)
	{
		chats.POST("/start", handlers.Chat.Start)
		chats.GET("", handlers.Chat.List)
		chats.GET("/:id/messages", handlers.Chat.Messages)
		chats.POST("/:id/messages", handlers.Chat.PostMessage)
	}

	notifications := s.engine.Group("/v1/notifications", auth)
	{
		notifications.GET("", handlers.Notifications.List)
		notifications.GET("/unread/count", handlers.Notifications.UnreadCount)
		notifications.GET("/unread/by-sender", handlers.Notifications.UnreadGrouped)
		notifications.PATCH("/:id/read", handlers.Notifications.MarkRead)
		notifications.PATCH("/read/all", handlers.Notifications.MarkAllRead)
		notifications.PATCH("/read/by-link", handlers.Notifications.MarkReadByLink)
	}

	presence := s.engine.Group("/v1/presence", auth)
	{
		presence.GET("", handlers.Presence.ListOnline)
		presence.GET("/:id", handlers.Presence.Status)
	}

	books := s.engine.Group("/v1/books")
	{
		books.GET("", handlers.Listings.Query)
		books.GET("/:id", handlers.Listings.Get)
		books.POST("", auth, handlers.Listings.Create)
		books.PUT("/:id", auth, handlers.Listings.Update)
		books.DELETE("/:id", auth, handlers.Listings.Delete)
	}
}

func (s *Server) Start() error {
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Errorf("Error in starting the server: %s", err)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	if s.logger != nil {
		s.logger.Infof("Server is running on :%s", s.config.AppPort)
	}

	<-quit

	if s.logger != nil {
		s.logger.Infof("Quitting signal received.. Shutting down after 5 seconds")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}
