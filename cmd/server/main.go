package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/paysplit/internal/auth"
	"github.com/mmynk/paysplit/internal/config"
	"github.com/mmynk/paysplit/internal/i18n"
	"github.com/mmynk/paysplit/internal/metrics"
	"github.com/mmynk/paysplit/internal/middleware"
	"github.com/mmynk/paysplit/internal/plugin"
	"github.com/mmynk/paysplit/internal/service"
	"github.com/mmynk/paysplit/internal/splitmethod"
	"github.com/mmynk/paysplit/internal/storage/sqlite"
	"github.com/mmynk/paysplit/internal/web"
	"github.com/mmynk/paysplit/pkg/api/apiconnect"
	"github.com/mmynk/paysplit/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.LogLevel)

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	registry := plugin.NewRegistry()
	if err := plugin.RegisterBuiltins(registry); err != nil {
		slog.Error("Failed to register plugins", "error", err)
		os.Exit(1)
	}
	if cfg.PluginsPath != "" {
		n, err := plugin.LoadYAML(registry, cfg.PluginsPath)
		if err != nil {
			slog.Error("Failed to load plugins", "path", cfg.PluginsPath, "error", err)
			os.Exit(1)
		}
		slog.Info("Plugins loaded", "path", cfg.PluginsPath, "count", n)
	}

	translator, err := i18n.New(cfg.Language)
	if err != nil {
		slog.Error("Invalid language", "error", err)
		os.Exit(1)
	}

	authenticator := auth.NewPasswordAuthenticator(store)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)
	if cfg.AdminPassword != "" {
		created, err := auth.EnsureAdmin(context.Background(), authenticator, cfg.AdminUsername, cfg.AdminPassword)
		if err != nil {
			slog.Error("Failed to seed admin account", "username", cfg.AdminUsername, "error", err)
			os.Exit(1)
		}
		if created {
			slog.Info("Admin account created", "username", cfg.AdminUsername)
		}
	}

	m := metrics.New()
	mux := http.NewServeMux()

	// Register Connect services
	authPath, authHandler := apiconnect.NewAuthServiceHandler(
		service.NewAuthService(authenticator, jwtManager, logger),
		connect.WithInterceptors(middleware.LoggingInterceptor(), middleware.ValidateInterceptor()),
	)
	mux.Handle(authPath, authHandler)

	methodPath, methodHandler := apiconnect.NewMethodServiceHandler(
		service.NewMethodService(store, registry, m),
		connect.WithInterceptors(middleware.LoggingInterceptor(), middleware.RequireAuth(jwtManager), middleware.ValidateInterceptor()),
	)
	mux.Handle(methodPath, methodHandler)

	// Admin pages
	admin, err := web.NewServer(web.Options{
		Store:         store,
		Registry:      registry,
		Authenticator: authenticator,
		JWT:           jwtManager,
		Metrics:       m,
		Translator:    translator,
		DocsURL:       cfg.DocsURL,
		Secret:        cfg.JWTSecret,
		SecureCookies: cfg.SecureCookies,
	})
	if err != nil {
		slog.Error("Failed to initialize admin pages", "error", err)
		os.Exit(1)
	}
	admin.Register(mux)

	// Add logging and CORS middleware
	handler := middleware.Logging(m)(corsMiddleware(mux))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	slog.Info("Server starting",
		"address", cfg.Addr,
		"admin", admin.Routes().Path(splitmethod.RouteCollection),
		"language", translator.Language(),
	)
	if err := http.ListenAndServe(cfg.Addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// corsMiddleware adds CORS headers for browser access to the RPC API.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/paysplit.v1.") {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
