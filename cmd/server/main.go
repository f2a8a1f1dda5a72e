package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/skillswap/skillswap-api/internal/cache"
	"github.com/skillswap/skillswap-api/internal/config"
	"github.com/skillswap/skillswap-api/internal/database"
	"github.com/skillswap/skillswap-api/internal/handlers"
	"github.com/skillswap/skillswap-api/internal/jobs"
	"github.com/skillswap/skillswap-api/internal/repository"
	cronjobs "github.com/skillswap/skillswap-api/internal/scheduler"
	"github.com/skillswap/skillswap-api/internal/services"
	"github.com/skillswap/skillswap-api/pkg/logger"
	"github.com/skillswap/skillswap-api/pkg/middleware"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	// Redis leaderboard is optional; the top-rated listing falls back to
	// Mongo when it is absent.
	var ratingCache services.RatingCache
	if cfg.RedisAddr != "" {
		lb, err := cache.NewLeaderboardCache(context.Background(), cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Log.Warnf("Redis unavailable, leaderboard disabled: %v", err)
		} else {
			ratingCache = lb
		}
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	swapRepo := repository.NewSwapRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	if err := feedbackRepo.EnsureIndexes(context.Background()); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	// --- Services ---
	hub := handlers.NewNotificationHub()
	userService := services.NewUserService(userRepo, ratingCache, cfg.BaseURL)
	swapService := services.NewSwapService(swapRepo, userRepo)
	feedbackService := services.NewFeedbackService(feedbackRepo, swapRepo, userRepo, ratingCache)
	notificationService := services.NewNotificationService(notificationRepo, swapRepo, hub)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, cfg)
	swapHandler := handlers.NewSwapHandler(swapService, notificationService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService, notificationService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	wsHandler := handlers.NewWSNotificationHandler(hub, cfg.JWTSecret)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	// Public user routes
	router.HandleFunc("/users/register", userHandler.RegisterUserHandler).Methods("POST")
	router.HandleFunc("/users/login", userHandler.LoginUserHandler).Methods("POST")
	router.HandleFunc("/users/verify", userHandler.VerifyEmailHandler).Methods("GET")
	router.HandleFunc("/users/top", userHandler.TopRatedUsersHandler).Methods("GET")

	// Protected user routes
	protectedUserRoutes := router.PathPrefix("/users").Subrouter()
	protectedUserRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedUserRoutes.Use(middleware.UpdateLastActiveMiddleware(userService))
	protectedUserRoutes.HandleFunc("/me", userHandler.GetMeHandler).Methods("GET")
	protectedUserRoutes.HandleFunc("/search", userHandler.SearchUsersHandler).Methods("GET")
	protectedUserRoutes.HandleFunc("/deactivate", userHandler.DeactivateUserHandler).Methods("POST")
	protectedUserRoutes.HandleFunc("/{id}", userHandler.GetUserHandler).Methods("GET")
	protectedUserRoutes.HandleFunc("/{id}", userHandler.UpdateUserHandler).Methods("PATCH")
	protectedUserRoutes.HandleFunc("/{id}/feedback", feedbackHandler.GetUserFeedbackHandler).Methods("GET")

	// Swap request routes
	protectedSwapRoutes := router.PathPrefix("/swaps").Subrouter()
	protectedSwapRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedSwapRoutes.Use(middleware.UpdateLastActiveMiddleware(userService))
	protectedSwapRoutes.HandleFunc("", swapHandler.CreateSwapRequestHandler).Methods("POST")
	protectedSwapRoutes.HandleFunc("", swapHandler.GetSwapRequestsHandler).Methods("GET")
	protectedSwapRoutes.HandleFunc("/{id}", swapHandler.UpdateSwapRequestHandler).Methods("PUT")
	protectedSwapRoutes.HandleFunc("/{id}", swapHandler.DeleteSwapRequestHandler).Methods("DELETE")
	protectedSwapRoutes.HandleFunc("/{id}/complete", swapHandler.CompleteSwapHandler).Methods("POST")

	// Feedback routes
	protectedFeedbackRoutes := router.PathPrefix("/feedback").Subrouter()
	protectedFeedbackRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedFeedbackRoutes.HandleFunc("", feedbackHandler.SubmitFeedbackHandler).Methods("POST")

	// Notification routes
	protectedNotificationRoutes := router.PathPrefix("/notifications").Subrouter()
	protectedNotificationRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedNotificationRoutes.HandleFunc("", notificationHandler.GetUserNotificationsHandler).Methods("GET")
	protectedNotificationRoutes.HandleFunc("/{id}/read", notificationHandler.MarkAsReadHandler).Methods("POST")
	protectedNotificationRoutes.HandleFunc("/{id}", notificationHandler.DeleteNotificationHandler).Methods("DELETE")

	// Live notification stream (token passed as query param)
	router.HandleFunc("/ws/notifications", wsHandler.StreamHandler)

	// Admin routes
	adminRoutes := router.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	adminRoutes.Use(middleware.RequireRole("admin"))
	adminRoutes.HandleFunc("/users", userHandler.AdminGetAllUsersHandler).Methods("GET")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Background jobs
	reminder := jobs.NewSwapReminder(notificationService)
	cronjobs.StartCronJobs(reminder, notificationService)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handler))
}
