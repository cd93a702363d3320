package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"storefront/internal/api/handlers"
	"storefront/internal/auth"
	"storefront/internal/cache"
	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/database"
	"storefront/internal/notify"
	"storefront/internal/repository"
)

func main() {
	cfg, err := database.LoadConfig()
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	pool, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("failed to connect database: ", err)
	}
	defer pool.Close()

	if err := database.Migrate(pool); err != nil {
		log.Fatal("migrations failed: ", err)
	}

	rdb, err := cache.ConnectRedis(cfg)
	if err != nil {
		log.Fatal("failed to connect redis: ", err)
	}
	defer rdb.Close()

	var verifier auth.Verifier
	if cfg.FirebaseCredentials != "" {
		verifier, err = auth.NewFirebaseVerifier(context.Background(), cfg.FirebaseCredentials)
		if err != nil {
			log.Fatal("failed to init firebase auth: ", err)
		}
	} else {
		log.Println("FIREBASE_CREDENTIALS not set, using static dev verifier")
		verifier = auth.StaticVerifier{
			"dev-admin": {UID: "dev-admin", Email: cfg.AdminEmail},
		}
	}

	productRepo := cache.NewCachedProductRepository(repository.NewProductRepository(pool), rdb)
	orderRepo := repository.NewOrderRepository(pool)
	offers := cache.NewOfferFeed(rdb)

	carts := cart.NewManager()
	checkoutSvc := checkout.NewService(carts, orderRepo, notify.NewWebhook(cfg.WebhookURL), notify.LogSender{})

	productHandler := handlers.NewProductHandler(productRepo)
	cartHandler := handlers.NewCartHandler(carts, productRepo)
	orderHandler := handlers.NewOrderHandler(checkoutSvc, orderRepo)
	offerHandler := handlers.NewOfferHandler(offers)

	router := setupRouter(cfg, verifier, productHandler, cartHandler, orderHandler, offerHandler)

	// No WriteTimeout: the offer SSE stream holds its response open.
	server := &http.Server{
		Addr:        cfg.HTTPAddr,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server shutdown complete")
}

func setupRouter(
	cfg *database.Config,
	verifier auth.Verifier,
	productHandler *handlers.ProductHandler,
	cartHandler *handlers.CartHandler,
	orderHandler *handlers.OrderHandler,
	offerHandler *handlers.OfferHandler,
) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(auth.Middleware(verifier))

	// Storefront
	r.Get("/products", productHandler.List)
	r.Get("/products/grouped", productHandler.ListGrouped)
	r.Get("/products/{id}", productHandler.GetByID)
	r.Get("/offer", offerHandler.Get)
	r.Get("/offer/stream", offerHandler.Stream)

	// Cart, keyed by the X-Session-ID header
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", cartHandler.Get)
		r.Post("/items", cartHandler.AddItem)
		r.Put("/items/{product_id}", cartHandler.UpdateItem)
		r.Delete("/items/{product_id}", cartHandler.RemoveItem)
	})
	r.Post("/checkout", orderHandler.Checkout)

	// Admin panel
	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.RequireAdmin(verifier, cfg.AdminEmail))

		r.Post("/products", productHandler.Create)
		r.Put("/products/{id}", productHandler.Update)
		r.Delete("/products/{id}", productHandler.Delete)
		r.Get("/products/category/{category}", productHandler.GetByCategory)

		r.Get("/orders", orderHandler.ListOrders)
		r.Post("/orders/{id}/cancel", orderHandler.CancelOrder)

		r.Put("/offer", offerHandler.Set)
	})

	return r
}
