package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/deezprints/deezprints/internal/admin"
	carthttp "github.com/deezprints/deezprints/internal/cart/http"
	"github.com/deezprints/deezprints/internal/cart/infra/localstore"
	cartpg "github.com/deezprints/deezprints/internal/cart/infra/postgres"
	catalogapp "github.com/deezprints/deezprints/internal/catalog/app"
	cataloghttp "github.com/deezprints/deezprints/internal/catalog/http"
	catalogpg "github.com/deezprints/deezprints/internal/catalog/infra/postgres"
	"github.com/deezprints/deezprints/internal/chat"
	checkouthttp "github.com/deezprints/deezprints/internal/checkout/http"
	checkoutadapter "github.com/deezprints/deezprints/internal/checkout/infra/adapter"
	"github.com/deezprints/deezprints/internal/identity"
	"github.com/deezprints/deezprints/internal/notification"
	orderapp "github.com/deezprints/deezprints/internal/order/app"
	orderpg "github.com/deezprints/deezprints/internal/order/infra/postgres"
	"github.com/deezprints/deezprints/pkg/config"
	"github.com/deezprints/deezprints/pkg/logger"
	"github.com/deezprints/deezprints/pkg/postgres"
	"github.com/deezprints/deezprints/pkg/shutdown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{Service: "api", Env: cfg.AppEnv, Level: cfg.LogLevel, AddSource: true})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	db, err := postgres.Open(postgres.Config{
		Host: cfg.PostgresHost,
		Port: cfg.PostgresPort,
		User: cfg.PostgresUser,
		Pass: cfg.PostgresPass,
		DB:   cfg.PostgresDB,
	})
	if err != nil {
		log.Error("db open failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer db.Close()

	// Catalog
	catalogRepo := catalogpg.NewProductRepo(db)
	catalogSvc := catalogapp.NewService(catalogRepo)

	// Orders
	orderRepo := orderpg.NewOrderRepo(db)
	orderSvc := orderapp.NewService(orderRepo)

	// Cart: authenticated carts in Postgres, guest carts in local SQLite.
	cartRepo := cartpg.NewCartRepo(db)

	for _, m := range []interface {
		Migrate(context.Context) error
	}{catalogRepo, orderRepo, cartRepo} {
		if err := m.Migrate(ctx); err != nil {
			log.Error("migration failed", slog.Any("err", err))
			os.Exit(1)
		}
	}

	local, err := localstore.Open(cfg.GuestCartPath)
	if err != nil {
		log.Error("guest cart store open failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer local.Close()

	sessions := carthttp.NewSessions(local, cartRepo, cfg.CartSaveDebounce, cfg.CartSessionTTL, log)
	defer sessions.Close()
	cartHandler := carthttp.NewHandler(sessions)

	// Checkout
	verifier := identity.NewVerifier(cfg.JWTSecret)
	mailer := notification.NewMailer(cfg.SendgridAPIKey, cfg.EmailFrom, log)
	checkoutHandler := checkouthttp.NewHandler(
		cartHandler.Resolve,
		checkoutadapter.NewCatalogServiceReader(catalogSvc),
		checkoutadapter.NewOrderServiceWriter(orderSvc),
		checkoutadapter.NewMailNotifier(mailer),
		log,
	)

	chatHandler := chat.NewHandler(chat.Config{
		APIKey:  cfg.LLMAPIKey,
		BaseURL: cfg.LLMBaseURL,
		Model:   cfg.LLMModel,
	}, catalogSvc, log)

	adminHandler := admin.NewHandler(cfg.AdminPassword, verifier, orderSvc, log)
	catalogHandler := cataloghttp.NewHandler(catalogSvc)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Origin"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(verifier.Optional)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api", func(r chi.Router) {
		r.Mount("/products", catalogHandler.Routes())
		r.Mount("/cart", cartHandler.Routes())
		r.Mount("/checkout", checkoutHandler.Routes())
		r.Mount("/chat", chatHandler.Routes())
		r.Mount("/admin", adminHandler.Routes())
		r.With(verifier.RequireAdmin).Mount("/admin/products", catalogHandler.AdminRoutes())
	})

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	// No WriteTimeout: chat completions stream for longer than any
	// sane fixed limit.
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http server starting", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("graceful shutdown failed", slog.Any("err", err))
	}

	wg.Wait()
	log.Info("bye")
}
