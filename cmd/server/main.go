package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"
	"github.com/danny15002/doubleb/internal/cache"
	"github.com/danny15002/doubleb/internal/handlers"
	"github.com/danny15002/doubleb/internal/hub"
	"github.com/danny15002/doubleb/internal/middleware"
	"github.com/danny15002/doubleb/internal/push"
	"github.com/danny15002/doubleb/internal/repository"
	"github.com/danny15002/doubleb/internal/service"
)

func envDuration(key string, def time.Duration) time.Duration {
	if msStr := os.Getenv(key); msStr != "" {
		if ms, err := strconv.Atoi(msStr); err == nil && ms > 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return def
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName: "Doubleb Chat Backend",
	})

	// Middleware
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     os.Getenv("ALLOWED_ORIGINS"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// Initialize database connection
	db, err := repository.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize Redis cache
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if parsedDB, err := strconv.Atoi(dbStr); err == nil {
			redisDB = parsedDB
		}
	}

	redisCache := cache.NewRedisCache(redisAddr, redisPassword, redisDB)
	if err := redisCache.Ping(); err != nil {
		log.Printf("WARNING: Redis connection failed: %v. Running without cache.", err)
		redisCache = nil
	} else {
		log.Println("Redis cache connected successfully")
	}

	messageCache := cache.NewMessageCache(redisCache)
	presenceCache := cache.NewPresenceCache(redisCache)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	chatRepo := repository.NewChatRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	pushSubRepo := repository.NewPushSubscriptionRepository(db)

	// Connection registry / room fan-out. Built once and passed by
	// handle to everything that needs it.
	connHub := hub.NewHub(chatRepo)

	// Push delivery: gateway behind the per-recipient coalescer.
	pushSender := push.NewWebPushSender(
		os.Getenv("VAPID_SUBSCRIBER"),
		os.Getenv("VAPID_PUBLIC_KEY"),
		os.Getenv("VAPID_PRIVATE_KEY"),
	)
	coalesceWindow := envDuration("COALESCE_WINDOW_MS", push.DefaultCoalesceWindow)
	gateway := push.NewGateway(pushSubRepo, chatRepo, connHub, pushSender, coalesceWindow)
	defer gateway.Stop()

	// Initialize services
	messageService := service.NewMessageService(messageRepo, reactionRepo, chatRepo, connHub, connHub, gateway, messageCache)
	messageService.SetAdvanceDelay(envDuration("DELIVERY_ADVANCE_MS", service.DefaultDeliveryAdvanceDelay))
	defer messageService.Shutdown()
	chatService := service.NewChatService(chatRepo, messageRepo, connHub, gateway, messageCache)
	subscriptionService := service.NewPushSubscriptionService(pushSubRepo)

	dispatcher := hub.NewDispatcher(connHub, messageService, chatService, gateway.Pending(), subscriptionService, presenceCache)

	// Initialize handlers
	wsHandler := handlers.NewWebSocketHandler(connHub, dispatcher, userRepo, presenceCache)
	messageHandler := handlers.NewMessageHandler(messageService)
	chatHandler := handlers.NewChatHandler(chatService)
	pushHandler := handlers.NewPushHandler(subscriptionService)
	presenceHandler := handlers.NewPresenceHandler(presenceCache, connHub)

	// Protected routes
	api := app.Group("/api", middleware.OriginAllowed(), middleware.AuthRequired())
	api.Get("/chats", chatHandler.GetMyChats)
	api.Post("/chats", limiter.New(limiter.Config{
		Max:        30,
		Expiration: time.Minute,
	}), chatHandler.CreateChat)
	api.Delete("/chats/:id", chatHandler.DeleteChat)
	api.Get("/chats/:id/members", chatHandler.GetMembers)
	api.Get("/chats/:id/messages", messageHandler.GetChatMessages)
	api.Post("/push/subscriptions", pushHandler.Subscribe)
	api.Delete("/push/subscriptions", pushHandler.Unsubscribe)
	api.Get("/users/online", presenceHandler.GetOnlineUsers)
	api.Get("/users/:id/online", presenceHandler.GetUserOnline)

	// WebSocket route (websocket upgrade needs special handling)
	app.Use(
		"/ws",
		middleware.OriginAllowed(),
		middleware.AuthRequired(),
		func(c *fiber.Ctx) error {
			// Upgrade to WebSocket
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		},
	)
	app.Get("/ws", websocket.New(wsHandler.HandleWebSocket))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Chat backend is running",
		})
	})

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s...", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
