package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kindredapp/kindred/internal/config"
	"github.com/kindredapp/kindred/internal/feed"
	"github.com/kindredapp/kindred/internal/handler"
	"github.com/kindredapp/kindred/internal/middleware"
	"github.com/kindredapp/kindred/internal/model"
	"github.com/kindredapp/kindred/internal/repository"
	"github.com/kindredapp/kindred/internal/service"
	"github.com/kindredapp/kindred/internal/ws"
	"github.com/kindredapp/kindred/migrations"
	"github.com/kindredapp/kindred/pkg/auth"
	"github.com/kindredapp/kindred/pkg/notification"
	"github.com/kindredapp/kindred/pkg/storage"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// @title           Kindred API
// @version         1.0
// @description     Dating app backend: discovery, swipes, matching and real-time chat with Go, Gin, WebSocket, Redis Pub/Sub.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.email  support@kindred.local

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      api.localhost
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// ==================== Load Config ====================
	cfg := config.Load()
	log.Printf("🚀 Starting Kindred API Server [env=%s]", cfg.App.Env)

	// ==================== Database (PostgreSQL) ====================
	gormLogger := logger.Default.LogMode(logger.Info)
	if cfg.App.Env == "production" {
		gormLogger = logger.Default.LogMode(logger.Warn)
	}

	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	log.Println("✅ Connected to PostgreSQL")

	// ==================== Run Migrations ====================
	if err := migrations.Run(cfg.DB.URL()); err != nil {
		log.Printf("⚠️  Migration warning: %v", err)
		log.Println("📦 Falling back to GORM AutoMigrate...")
		if err := db.AutoMigrate(
			&model.User{},
			&model.Profile{},
			&model.Swipe{},
			&model.Match{},
			&model.Message{},
		); err != nil {
			log.Fatalf("❌ Failed to migrate database: %v", err)
		}
	}
	log.Println("✅ Database migrated successfully")

	// ==================== Redis ====================
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("❌ Failed to connect to Redis: %v", err)
	}
	log.Println("✅ Connected to Redis")

	// ==================== Initialize Layers ====================
	// JWT Manager
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Expiry)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	swipeRepo := repository.NewSwipeRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// Push notifications (optional, disabled without Firebase credentials)
	notifier := notification.New(cfg.Firebase.CredentialsFile, profileRepo)

	// Message feed: every change to a match's messages re-delivers the full
	// snapshot to subscribers, across instances via Redis Pub/Sub
	msgFeed := feed.New(rdb, messageRepo.ForMatch)

	// Services
	authService := service.NewAuthService(userRepo, profileRepo, jwtManager, rdb, cfg.Google.ClientID)
	profileService := service.NewProfileService(profileRepo)
	discoveryService := service.NewDiscoveryService(profileRepo, swipeRepo, cfg.Discovery)
	swipeService := service.NewSwipeService(swipeRepo, matchRepo, notifier)
	chatService := service.NewChatService(matchRepo, messageRepo, profileRepo, msgFeed, notifier)

	// WebSocket Hub (with Redis Pub/Sub for horizontal scaling)
	hub := ws.NewHub(rdb, func(userID uuid.UUID, online bool) {
		if online {
			_ = profileRepo.TouchLastActive(context.Background(), userID)
		}
	})

	hubCtx, hubCancel := context.WithCancel(context.Background())
	defer hubCancel()
	go hub.Run(hubCtx)
	go msgFeed.Run(hubCtx)

	// MinIO Storage
	minioStorage, err := storage.NewMinIO(storage.Config{
		Endpoint:  cfg.MinIO.Endpoint,
		PublicURL: cfg.MinIO.PublicURL,
		AccessKey: cfg.MinIO.AccessKey,
		SecretKey: cfg.MinIO.SecretKey,
		Bucket:    cfg.MinIO.Bucket,
		UseSSL:    cfg.MinIO.UseSSL,
	})
	if err != nil {
		log.Printf("⚠️  MinIO not available: %v (photo upload disabled)", err)
	}
	if minioStorage != nil {
		log.Println("✅ Connected to MinIO")
	}

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	profileHandler := handler.NewProfileHandler(profileService)
	discoveryHandler := handler.NewDiscoveryHandler(discoveryService)
	swipeHandler := handler.NewSwipeHandler(swipeService, hub)
	chatHandler := handler.NewChatHandler(chatService)
	wsHandler := handler.NewWSHandler(hub, chatService, jwtManager)
	uploadHandler := handler.NewUploadHandler(minioStorage)

	// ==================== Gin Router ====================
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Serve swagger.json at /docs/swagger.json to avoid conflict with /swagger/* wildcard
	router.StaticFile("/docs/swagger.json", "./docs/swagger.json")

	url := ginSwagger.URL("/docs/swagger.json")
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, url))

	// Global middleware
	router.Use(middleware.CORSMiddleware(cfg.CORS.Origins))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "kindred-api",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	// ==================== API Routes ====================
	api := router.Group("/api/v1")
	{
		// Auth routes (public)
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/google", authHandler.GoogleLogin)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(jwtManager, rdb))
		{
			// Auth
			protected.POST("/auth/logout", authHandler.Logout)
			protected.GET("/auth/me", authHandler.Me)

			// Profile
			protected.PUT("/profile", profileHandler.SaveProfile)
			protected.GET("/profile", profileHandler.GetMyProfile)
			protected.PATCH("/profile", profileHandler.UpdateBasicInfo)
			protected.PATCH("/profile/preferences", profileHandler.UpdatePreferences)
			protected.POST("/profile/push-token", profileHandler.RegisterPushToken)
			protected.GET("/profile/:id", profileHandler.GetProfile)

			// Discovery
			protected.GET("/discovery", discoveryHandler.Discover)

			// Swipes
			protected.POST("/swipes", swipeHandler.Swipe)

			// Matches & chat
			protected.GET("/matches", chatHandler.GetMatches)
			protected.GET("/matches/recent", chatHandler.GetRecentMatches)
			protected.GET("/conversations", chatHandler.GetConversations)
			protected.GET("/matches/:id/messages", chatHandler.GetMessages)
			protected.POST("/matches/:id/messages", chatHandler.SendMessage)
			protected.POST("/matches/:id/read", chatHandler.MarkRead)

			// Upload
			protected.POST("/upload/photo", uploadHandler.UploadPhoto)
		}
	}

	// WebSocket endpoint (auth via query parameter)
	router.GET("/ws", wsHandler.HandleWebSocket)

	// ==================== Start Server ====================
	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	log.Printf("🌐 Kindred API running on http://0.0.0.0:%s", cfg.App.Port)
	log.Printf("📋 API docs: http://0.0.0.0:%s/swagger/index.html", cfg.App.Port)
	log.Printf("🔌 WebSocket: ws://0.0.0.0:%s/ws?token=<jwt>", cfg.App.Port)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	// Give ongoing requests 5 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	hubCancel()
	log.Println("✅ Server exited gracefully")
}
