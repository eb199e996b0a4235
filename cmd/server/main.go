package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobmarket-backend/internal/auth"
	"jobmarket-backend/internal/config"
	"jobmarket-backend/internal/database"
	"jobmarket-backend/internal/server"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	var limiter auth.Limiter = auth.NewMemoryLimiter()
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Invalid REDIS_URL: %v", err)
		}
		client := redis.NewClient(redisOpts)
		defer client.Close()
		limiter = auth.NewRedisLimiter(client)
		log.Println("Login rate limiting backed by redis")
	}

	app := server.New(cfg, db, server.Options{Limiter: limiter})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	log.Println("Server listening on port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
