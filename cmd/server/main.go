package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Wiseramand/ce-angola-app-sub000/internal/config"
	"github.com/Wiseramand/ce-angola-app-sub000/internal/database"
	"github.com/Wiseramand/ce-angola-app-sub000/internal/handler"
	"github.com/Wiseramand/ce-angola-app-sub000/internal/middleware"
	"github.com/Wiseramand/ce-angola-app-sub000/internal/repository"
	"github.com/Wiseramand/ce-angola-app-sub000/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Database
	pool, err := database.NewPool(context.Background(), cfg.Conf.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := database.RunMigrations(context.Background(), pool); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations applied successfully")

	// Repositories
	accountRepo := repository.NewAccountRepository(pool)
	broadcastRepo := repository.NewBroadcastRepository(pool)
	chatRepo := repository.NewChatRepository(pool)

	// Seed default rows (master admin, broadcast config)
	if err := service.Bootstrap(context.Background(), accountRepo, broadcastRepo); err != nil {
		log.Fatalf("Failed to bootstrap defaults: %v", err)
	}

	// Services
	authSvc := service.NewAuthService(accountRepo, cfg.Conf.JWTSecret, cfg.Conf.OperatorUsername, cfg.Conf.OperatorPassword)
	broadcastSvc := service.NewBroadcastService(broadcastRepo)

	// Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
		BodyLimit:    1 * 1024 * 1024, // 1MB
	})

	app.Use(recover.New())
	app.Use(middleware.Logger(cfg.IsProduction()))
	app.Use(cors.New())

	// Health
	healthH := handler.NewHealthHandler(pool)
	app.Get("/health", healthH.Health)
	app.Get("/ready", healthH.Ready)

	// Auth (public)
	authH := handler.NewAuthHandler(authSvc)
	app.Post("/login", middleware.LoginRateLimit(), authH.Login)
	app.Post("/register", middleware.RegisterRateLimit(), authH.Register)
	app.Post("/heartbeat", authH.Heartbeat)
	app.Post("/logout", authH.Logout)

	// Broadcast config: reads are public, writes are admin-only
	broadcastH := handler.NewBroadcastHandler(broadcastSvc)
	app.Get("/system", broadcastH.GetConfig)
	app.Post("/system", middleware.RequireAdmin(authSvc), broadcastH.SetConfig)

	// Chat relay
	chatH := handler.NewChatHandler(chatRepo)
	app.Get("/chat", chatH.ListMessages)
	app.Post("/chat", chatH.PostMessage)

	// Admin console
	adminH := handler.NewAdminHandler(accountRepo, chatRepo)
	admin := app.Group("/admin", middleware.RequireAdmin(authSvc))
	admin.Get("/users", adminH.ListUsers)
	admin.Get("/users/:id", adminH.GetUser)
	admin.Post("/users/status", adminH.SetUserStatus)
	admin.Post("/users/delete", adminH.DeleteUser)
	admin.Get("/stats", adminH.Stats)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).JSON(fiber.Map{"error": "not_found"})
	})

	// Graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Conf.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()
	log.Printf("Server listening on :%s (env=%s)", cfg.Conf.Port, cfg.Conf.Env)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
