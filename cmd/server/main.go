package main

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
	"refillmap.com/gamification/internal/bootstrap"
	"refillmap.com/gamification/internal/config"
	"refillmap.com/gamification/internal/server"
	"refillmap.com/gamification/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := bootstrap.SeedAchievements(db); err != nil {
		log.Fatalf("failed to seed achievements: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Printf("redis unavailable, catalog caching disabled: %v", err)
			redisClient = nil
		}
	}

	srv := server.NewServer(cfg, db, redisClient)

	log.Printf("gamification service listening on :%s (%s)", cfg.Port, cfg.AppEnv)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}
