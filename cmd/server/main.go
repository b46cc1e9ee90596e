package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edutec/alunos-api/internal/aluno"
	"github.com/edutec/alunos-api/internal/audit"
	"github.com/edutec/alunos-api/internal/auth"
	"github.com/edutec/alunos-api/internal/config"
	"github.com/edutec/alunos-api/internal/database"
	"github.com/edutec/alunos-api/internal/middleware"
	"github.com/edutec/alunos-api/internal/policy"
	"github.com/edutec/alunos-api/internal/ratelimit"
	"github.com/edutec/alunos-api/internal/token"
	"github.com/edutec/alunos-api/internal/user"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.IsDevelopment() {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting alunos API", zap.String("env", cfg.Env))

	// Connect to PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer db.Close()
	logger.Info("Connected to PostgreSQL")

	// Apply schema
	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.Migrate(migrateCtx); err != nil {
		cancelMigrate()
		logger.Fatal("Failed to apply schema", zap.Error(err))
	}
	cancelMigrate()

	// Connect to Redis
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("Connected to Redis")

	// Initialize services
	userRepo := user.NewRepository(db.DB)
	alunoRepo := aluno.NewRepository(db.DB)
	recorder := audit.NewRecorder(db.DB, logger)
	tokenService := token.NewService(cfg.JWT.SecretKey, cfg.JWT.SessionTTL)
	rateLimiter := ratelimit.NewLimiter(
		redisClient.Client,
		cfg.RateLimit.Window,
		cfg.RateLimit.MaxAttempts,
		cfg.RateLimit.LockoutDuration,
	)
	authService := auth.NewService(userRepo, tokenService, rateLimiter, recorder, cfg.ResetTokenTTL, logger)

	// Ensure the default administrator credential exists
	bootstrapCtx, cancelBootstrap := context.WithTimeout(context.Background(), 10*time.Second)
	if err := authService.Bootstrap(bootstrapCtx); err != nil {
		cancelBootstrap()
		logger.Fatal("Failed to bootstrap administrator", zap.Error(err))
	}
	cancelBootstrap()

	// Initialize handlers
	authHandler := auth.NewHandler(authService)
	alunoHandler := aluno.NewHandler(alunoRepo, recorder)
	auditHandler := audit.NewHandler(recorder)

	// Set up Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	allowedOrigins := middleware.ParseAllowedOrigins(cfg.CORS.AllowedOrigins)
	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics())

	// Public routes
	router.GET("/health", authHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")

	// Auth routes
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/registro", authHandler.Registro)
		authGroup.POST("/esqueci-senha", authHandler.EsqueciSenha)
		authGroup.POST("/redefinir-senha", authHandler.RedefinirSenha)
	}

	// Protected routes: everything below passes the auth gate; admin-only
	// routes additionally go through the access policy middleware, and the
	// self-or-admin routes check the policy in their handlers where the
	// record id is known.
	protected := api.Group("")
	protected.Use(middleware.Auth(tokenService))
	{
		protected.GET("/alunos", alunoHandler.List)
		protected.GET("/alunos/busca", middleware.Require(policy.OpSearch), alunoHandler.Busca)
		protected.GET("/alunos/exportar", middleware.Require(policy.OpExport), alunoHandler.Exportar)
		protected.GET("/alunos/:id", alunoHandler.Get)
		protected.PUT("/alunos/:id", alunoHandler.Update)
		protected.POST("/alunos", middleware.Require(policy.OpCreate), alunoHandler.Create)
		protected.DELETE("/alunos/:id", middleware.Require(policy.OpDelete), alunoHandler.Delete)

		protected.GET("/estatisticas", middleware.Require(policy.OpStats), alunoHandler.Estatisticas)
		protected.GET("/logs", middleware.Require(policy.OpLogs), auditHandler.List)
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server stopped")
}
