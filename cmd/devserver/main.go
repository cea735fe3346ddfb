package main

import (
	"context"
	"errors"
	"hostelcare/portal/internal/api/handler"
	"hostelcare/portal/internal/config"
	"hostelcare/portal/internal/events"
	"hostelcare/portal/internal/lifecycle"
	"hostelcare/portal/internal/localization"
	"hostelcare/portal/internal/models"
	"hostelcare/portal/internal/storage"
	"hostelcare/portal/internal/telegram"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg *config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: "",
			DB:       0,
		})
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Fatalf("Failed to connect Redis: %v", err)
		}
	}

	log.Println("Database connection established.")
	return db, rdb
}

func main() {
	log.Println("Starting hostel complaints dev server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Storage
	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db)
	if err := s.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := s.Seed(ctx); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	// 2. Events
	bus := events.NewBus()
	defer bus.Close()

	hub := events.NewHub()
	detachHub := hub.Attach(bus, models.TopicComplaintSubmitted, models.TopicRefreshNotifications)
	defer detachHub()
	go hub.Run(ctx)

	if rdb != nil {
		bridge := events.NewRedisBridge(rdb, bus, models.TopicComplaintSubmitted, models.TopicRefreshNotifications)
		go func() {
			if err := bridge.Run(ctx); err != nil {
				log.Printf("ERROR: Redis bridge stopped: %v", err)
			}
		}()
	}

	// 3. Telegram
	if cfg.TelegramToken != "" && cfg.AdminChatID != 0 {
		loc, err := localization.Default()
		if err != nil {
			log.Fatalf("Failed to load localization: %v", err)
		}
		notifier, err := telegram.NewNotifier(cfg.TelegramToken, cfg.AdminChatID, s, loc)
		if err != nil {
			log.Fatalf("Failed to start Telegram notifier: %v", err)
		}
		defer notifier.Attach(bus)()
	} else {
		log.Println("INFO: Telegram notifier disabled (TELEGRAM_BOT_TOKEN or TELEGRAM_ADMIN_CHAT_ID unset)")
	}

	// 4. HTTP
	r := gin.Default()
	h := handler.NewHandler(s, lifecycle.NewService(s, bus), hub, cfg.JWTSecret)
	h.Register(r)

	server := &http.Server{
		Addr:           cfg.ListenAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("ERROR: Shutdown: %v", err)
		}
	}()

	log.Printf("Listening on %s", cfg.ListenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
