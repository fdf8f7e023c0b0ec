package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"userpanel/internal/api"
	"userpanel/internal/app/service"
	"userpanel/internal/common/security"
	"userpanel/internal/domain/repository"
	"userpanel/internal/platform/blacklist"
	"userpanel/internal/platform/config"
	"userpanel/internal/platform/database"
	"userpanel/internal/platform/metrics"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Operational logging
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	if err := database.RunMigrations(config.AppConfig.DBURL); err != nil {
		log.Fatalf("Migrations failed: %v", err)
	}
	fmt.Println("Database connected and migrated.")

	// 4. Initialize Redis (token revocation store)
	blacklist.ConnectRedis()
	defer blacklist.CloseRedis()

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	auditRepo := repository.NewPgAuditRepository(database.DB)
	tokenBlacklist := blacklist.NewRedisStore(blacklist.RDB)

	// 6. Initialize Services
	jwtManager := security.NewJWTManager(
		config.AppConfig.JWTKey,
		config.AppConfig.JWTExp,
		config.AppConfig.JWTRefreshGrace,
	)
	auditService := service.NewAuditService(auditRepo)
	authService := service.NewAuthService(userRepo, tokenBlacklist, jwtManager, auditService)
	userService := service.NewUserService(userRepo, auditService)
	statsService := service.NewStatsService(userRepo, auditRepo, auditService, config.AppConfig.StatsWeeks)
	notificationService := service.NewNotificationService(userRepo, service.LogSender{}, auditService)

	// 7. Bootstrap admin account (no-op unless configured)
	bootstrapCtx, bootstrapCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := userService.EnsureBootstrapAdmin(
		bootstrapCtx,
		config.AppConfig.BootstrapAdminName,
		config.AppConfig.BootstrapAdminEmail,
		config.AppConfig.BootstrapAdminPassword,
	); err != nil {
		log.Fatalf("Bootstrap admin failed: %v", err)
	}
	bootstrapCancel()

	// 8. Initialize Router & HTTP Server
	collector := metrics.NewCollector()
	router := api.NewRouter(api.RouterDeps{
		JWT:                 jwtManager,
		UserRepo:            userRepo,
		Blacklist:           tokenBlacklist,
		Metrics:             collector,
		AuthService:         authService,
		UserService:         userService,
		AuditService:        auditService,
		StatsService:        statsService,
		NotificationService: notificationService,
		CORSAllowedOrigins:  config.AppConfig.CORSAllowedOrigins,
	})

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
