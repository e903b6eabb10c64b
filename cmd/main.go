package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	discordclient "rolebot/clients/discord"
	"rolebot/config"
	"rolebot/db"
	"rolebot/handlers"
	"rolebot/middleware"
	"rolebot/services/bindings"
	"rolebot/services/categories"
	"rolebot/services/joinroles"
	"rolebot/services/txmanager"
	"rolebot/usecases/dispatch"
	"rolebot/usecases/reconcile"
)

func main() {
	if err := run(); err != nil {
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	// Initialize error alert middleware
	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.AlertConfig{
		WebhookURL:  cfg.AlertConfig.WebhookURL,
		Environment: cfg.Environment,
		AppName:     "rolebot",
		LogsURL:     cfg.ServerLogsURL,
	})

	// Initialize database connection
	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	// Initialize repositories with shared connection
	bindingsRepo := db.NewPostgresBindingsRepository(dbConn, cfg.DatabaseSchema)
	categoriesRepo := db.NewPostgresCategoriesRepository(dbConn, cfg.DatabaseSchema)
	joinRolesRepo := db.NewPostgresJoinRolesRepository(dbConn, cfg.DatabaseSchema)

	// Initialize transaction manager
	txManager := txmanager.NewTransactionManager(dbConn)

	discordClient, err := discordclient.NewDiscordClient(cfg.DiscordConfig.BotToken)
	if err != nil {
		return err
	}

	bindingsService := bindings.NewBindingsService(bindingsRepo, discordClient, txManager)
	categoriesService := categories.NewCategoriesService(categoriesRepo, bindingsRepo, txManager)
	joinRolesService := joinroles.NewJoinRolesService(joinRolesRepo, discordClient, txManager)

	engineConfig := reconcile.DefaultConfig()
	engineConfig.MaxRetries = cfg.EngineConfig.MaxRetries
	engineConfig.RemoteTimeout = cfg.EngineConfig.RemoteTimeout

	reconcileUseCase := reconcile.NewReconcileUseCase(
		discordClient,
		bindingsService,
		categoriesService,
		joinRolesService,
		engineConfig,
	)
	dispatchUseCase := dispatch.NewDispatchUseCase(discordClient, categoriesService)

	statusHandler := handlers.NewStatusHTTPHandler(
		bindingsService,
		categoriesService,
		joinRolesService,
		dispatchUseCase,
	)

	// Create a new router
	router := mux.NewRouter()
	router.HandleFunc("/guilds/{guildID}/status", statusHandler.HandleGetGuildStatus).Methods("GET")
	router.HandleFunc("/categories/{categoryID}/seed", statusHandler.HandleSeedCategory).Methods("POST")

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			log.Printf("❌ Failed to write health check response: %v", err)
		}
	}).Methods("GET")

	// Start the Discord gateway only when a bot token is configured; the
	// HTTP surface stays up either way.
	if cfg.DiscordConfig.IsConfigured() {
		eventsHandler, err := handlers.NewDiscordEventsHandler(
			cfg.DiscordConfig.BotToken,
			reconcileUseCase,
			alertMiddleware,
			cfg.EngineConfig.PresenceRefresh,
		)
		if err != nil {
			return err
		}
		if err := eventsHandler.StartBot(); err != nil {
			return err
		}
		defer eventsHandler.StopBot()
	} else {
		log.Printf("⏭️ Discord integration not configured - skipping bot startup")
	}

	// Drain in-flight reconciliations before the process exits
	defer reconcileUseCase.Drain()

	// Setup CORS middleware
	allowedOrigins := strings.Split(cfg.CORSAllowedOrigins, ",")
	for i, origin := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(origin)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	// Setup and handle graceful shutdown
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           alertMiddleware.HTTPMiddleware(c.Handler(router)),
		ReadHeaderTimeout: 30 * time.Second,
	}

	return handleGracefulShutdown(server)
}

func handleGracefulShutdown(server *http.Server) error {
	// Channel to listen for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		log.Printf("✅ Listening on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("❌ Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	<-stop
	log.Printf("🛑 Shutdown signal received, cleaning up...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown server gracefully
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Server shutdown error: %v", err)
		return err
	}

	log.Printf("✅ Server stopped gracefully")
	return nil
}
