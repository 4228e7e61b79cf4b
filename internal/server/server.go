package server

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"refillmap.com/gamification/internal/config"
	"refillmap.com/gamification/internal/handler"
	"refillmap.com/gamification/internal/middleware"
	"refillmap.com/gamification/internal/repository"
	"refillmap.com/gamification/internal/service"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	profileRepo := repository.NewProfileRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)

	catalog := service.NewCatalogCache(redisClient, achievementRepo, cfg.CatalogCacheTTL)

	gamificationSvc := service.NewGamificationService(profileRepo, activityRepo, achievementRepo, catalog)
	profileSvc := service.NewProfileService(profileRepo, activityRepo, achievementRepo, catalog)
	statSvc := service.NewStatService(profileRepo)

	activityHandler := handler.NewActivityHandler(gamificationSvc, profileSvc)
	profileHandler := handler.NewProfileHandler(profileSvc)
	achievementHandler := handler.NewAchievementHandler(gamificationSvc, profileSvc)
	statHandler := handler.NewStatHandler(statSvc)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)

	api := router.Group("/api")

	// Public routes (no auth required)
	api.GET("/stats", statHandler.GetImpactStats)

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Profile routes
		protected.POST("/profiles", profileHandler.Register)
		protected.GET("/profiles/me", profileHandler.GetCurrentProfile)

		// Activity routes
		protected.POST("/activities", activityHandler.RecordActivity)
		protected.GET("/activities", activityHandler.ListActivities)

		// Achievement routes
		protected.GET("/achievements", achievementHandler.ListAchievements)
		protected.POST("/achievements/evaluate", achievementHandler.Evaluate)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
