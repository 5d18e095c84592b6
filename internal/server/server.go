// Package server wires configuration, storage, services and routes
// into a runnable HTTP server.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"tourbase/internal/config"
	"tourbase/internal/handler"
	authHandler "tourbase/internal/handler/auth"
	reviewHandler "tourbase/internal/handler/review"
	tourHandler "tourbase/internal/handler/tour"
	userHandler "tourbase/internal/handler/user"
	"tourbase/internal/model/user"
	"tourbase/internal/pkg/cache"
	"tourbase/internal/pkg/mongodb"
	reviewRepo "tourbase/internal/repository/review"
	tourRepo "tourbase/internal/repository/tour"
	userRepo "tourbase/internal/repository/user"
	"tourbase/internal/security"
	"tourbase/internal/server/middleware"
	"tourbase/internal/service"
)

// Server is the HTTP server.
type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	mongo  *mongodb.Client
	redis  *cache.RedisCache
}

// New creates a server instance, connects the stores and wires every
// route.
func New(cfg *config.Config) (*Server, error) {
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	mongoClient, err := mongodb.New(&cfg.Mongo)
	if err != nil {
		return nil, err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

	if err := mongodb.EnsureIndexes(mongoClient.Database()); err != nil {
		log.Warn().Err(err).Msg("failed to ensure indexes")
	}

	// Redis is optional; without it the rate limiter falls back to
	// process-local counters.
	var redisCache *cache.RedisCache
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without it")
		} else {
			redisCache = rc
			log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")
		}
	}

	srv := &Server{
		cfg:    cfg,
		engine: engine,
		mongo:  mongoClient,
		redis:  redisCache,
	}

	srv.setupRoutes()

	return srv, nil
}

func (s *Server) setupRoutes() {
	s.engine.Use(middleware.Recovery())
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger())
	s.engine.Use(middleware.ErrorHandler(s.cfg.Debug()))

	healthHandler := handler.NewHealthHandler()
	s.engine.GET("/health", healthHandler.Health)

	db := s.mongo.Database()
	users := userRepo.NewRepo(db)
	tours := tourRepo.NewRepo(db)
	reviews := reviewRepo.NewRepo(db)

	creds := security.NewManager()
	authSvc := service.NewAuthService(users, creds, s.cfg.Auth.JWTSecret, s.cfg.Auth.AccessTokenExpiry)
	tourSvc := service.NewTourService(tours, reviews)
	userSvc := service.NewUserService(users)
	reviewSvc := service.NewReviewService(reviews)

	authHdl := authHandler.NewHandler(authSvc, s.cfg.Debug())
	tourHdl := tourHandler.NewHandler(tourSvc)
	userHdl := userHandler.NewHandler(userSvc)
	reviewHdl := reviewHandler.NewHandler(reviewSvc)

	var rateStore middleware.RateStore
	if s.redis != nil {
		rateStore = middleware.NewRedisRateStore(s.redis)
	} else {
		rateStore = middleware.NewMemoryRateStore()
	}

	// Every /api route passes the input defense stack before routing.
	api := s.engine.Group("/api")
	api.Use(middleware.RateLimit(rateStore, s.cfg.RateLimit.Max, s.cfg.RateLimit.Window))
	api.Use(middleware.BodyLimit())
	api.Use(middleware.Sanitize())
	api.Use(middleware.PreventParamPollution())

	v1 := api.Group("/v1")
	{
		toursGroup := v1.Group("/tours")
		{
			toursGroup.GET("", tourHdl.ListTours)
			toursGroup.GET("/top-5-cheap", tourHandler.AliasTopTours(), tourHdl.ListTours)
			toursGroup.GET("/stats", tourHdl.TourStats)
			toursGroup.GET("/:id", tourHdl.GetTour)

			toursGroup.POST("", middleware.Protect(authSvc), middleware.RestrictTo(user.RoleAdmin, user.RoleLeadGuide), tourHdl.CreateTour)
			toursGroup.PATCH("/:id", middleware.Protect(authSvc), middleware.RestrictTo(user.RoleAdmin, user.RoleLeadGuide), tourHdl.UpdateTour)
			toursGroup.DELETE("/:id", middleware.Protect(authSvc), middleware.RestrictTo(user.RoleAdmin, user.RoleLeadGuide), tourHdl.DeleteTour)

			toursGroup.GET("/:id/reviews", reviewHdl.ListReviews)
			toursGroup.POST("/:id/reviews", middleware.Protect(authSvc), middleware.RestrictTo(user.RoleUser), reviewHdl.CreateReview)
		}

		usersGroup := v1.Group("/users")
		{
			usersGroup.POST("/signup", authHdl.Signup)
			usersGroup.POST("/login", authHdl.Login)
			usersGroup.POST("/forgot-password", authHdl.ForgotPassword)
			usersGroup.PATCH("/reset-password/:token", authHdl.ResetPassword)

			protected := usersGroup.Group("", middleware.Protect(authSvc))
			{
				protected.PATCH("/update-password", authHdl.UpdatePassword)
				protected.GET("/me", userHdl.GetMe)
				protected.PATCH("/me", userHdl.UpdateMe)
				protected.DELETE("/me", userHdl.DeleteMe)

				admin := protected.Group("", middleware.RestrictTo(user.RoleAdmin))
				{
					admin.GET("", userHdl.ListUsers)
					admin.GET("/:id", userHdl.GetUser)
					admin.PATCH("/:id", userHdl.UpdateUser)
					admin.DELETE("/:id", userHdl.DeleteUser)
				}
			}
		}

		reviewsGroup := v1.Group("/reviews")
		{
			reviewsGroup.GET("", reviewHdl.ListReviews)
		}
	}

	s.engine.NoRoute(middleware.NotFound())
}

// Run starts the server and blocks until the context is cancelled or
// the listener fails.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")

		if err := s.mongo.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to close MongoDB connection")
		}
		if s.redis != nil {
			if err := s.redis.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close Redis connection")
			}
		}

		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
