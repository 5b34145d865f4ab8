package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"roomchat/backend/internal/api/handler"
	"roomchat/backend/internal/chat"
	"roomchat/backend/internal/chathub"
	"roomchat/backend/internal/config"
	"roomchat/backend/internal/models"
	"roomchat/backend/internal/storage"
)

func setupDependencies(cfg config.Config) (*gorm.DB, *redis.Client) {
	// TranslateError maps the postgres unique-violation onto
	// gorm.ErrDuplicatedKey, which the reaction toggle relies on.
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Room{},
		&models.Message{},
		&models.Reaction{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Fatalf("Failed to connect Redis: %v", err)
		}
	}

	log.Println("Database connection established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting RoomChat backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file loaded")
	}
	cfg := config.Load()

	db, rdb := setupDependencies(cfg)
	store := storage.NewService(db, cfg.UploadDir)
	ops := chat.NewService(store)

	// The registry is the single owner of room membership. The redis
	// bridge is only attached when an address is configured; without it
	// fan-out stays within this process.
	registry := chathub.NewRegistry()
	if rdb != nil {
		bridge := chathub.NewBridge(rdb)
		registry.SetBridge(bridge)
		go bridge.Listen(registry)
		log.Println("Cross-instance broadcast bridge enabled.")
	}

	r := gin.Default()
	h := handler.NewHandler(ops, registry, cfg.JWTSecret)

	r.GET("/api/rooms", h.ListRooms)
	r.POST("/api/rooms/create", h.CreateRoom)
	r.DELETE("/api/rooms/:name/delete", h.DeleteRoom)
	r.GET("/api/rooms/:name/messages", h.RoomMessages)
	r.POST("/api/upload-file", h.UploadFile)
	r.GET("/api/identity", h.GetIdentity)
	r.GET("/ws/chat/:room", h.ServeWebSocket)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static("/media", cfg.UploadDir)

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
