package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/cache"
	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/cart"
	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/events"
	h "github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/http"
	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/imagestore"
	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/repository"
	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/service"
)

type Config struct {
	HTTPPort               string
	MongoURI               string
	MongoDatabase          string
	RedisAddr              string
	KafkaBrokers           []string
	KafkaTopic             string
	CloudinaryCloudName    string
	CloudinaryUploadPreset string
	BusinessPhone          string
	RequestTimeout         time.Duration
	ShutdownTimeout        time.Duration
}

func loadConfig() *Config {
	cfg := &Config{
		HTTPPort:               getEnv("HTTP_PORT", "8080"),
		MongoURI:               getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:          getEnv("MONGODB_DATABASE", "smartdevice"),
		RedisAddr:              getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaTopic:             getEnv("KAFKA_TOPIC", "storefront-orders"),
		CloudinaryCloudName:    os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryUploadPreset: os.Getenv("CLOUDINARY_UPLOAD_PRESET"),
		BusinessPhone:          getEnv("BUSINESS_PHONE", "+250780612354"),
		RequestTimeout:         30 * time.Second,
		ShutdownTimeout:        10 * time.Second,
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	db, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDatabase)
	cancel()
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	log.Printf("connected to MongoDB database %q", cfg.MongoDatabase)

	repo := repository.NewMongoRepository(db)
	if idx, ok := repo.(interface{ CreateIndexes(context.Context) error }); ok {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := idx.CreateIndexes(ctx); err != nil {
			log.Printf("failed to create indexes: %v", err)
		}
		cancel()
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()
	catalogCache := cache.NewRedisCache(redisClient)

	sessions := cart.NewSessionStore()
	defer sessions.Close()

	var publisher service.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()
		publisher = producer
		log.Printf("checkout events enabled on topic %q", cfg.KafkaTopic)
	} else {
		log.Println("KAFKA_BROKERS not set, checkout events disabled")
	}

	uploader := imagestore.NewCloudinaryClient(cfg.CloudinaryCloudName, cfg.CloudinaryUploadPreset, "")

	catalogSvc := service.NewCatalogService(repo, catalogCache)
	cartSvc := service.NewCartService(catalogSvc, sessions)
	checkoutSvc := service.NewCheckoutService(cartSvc, publisher, cfg.BusinessPhone)

	catalogHandler := h.NewCatalogHandler(catalogSvc, cfg.RequestTimeout)
	cartHandler := h.NewCartHandler(cartSvc, cfg.RequestTimeout)
	checkoutHandler := h.NewCheckoutHandler(checkoutSvc, cfg.RequestTimeout)
	adminHandler := h.NewAdminHandler(catalogSvc, uploader, cfg.RequestTimeout)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", catalogHandler.GetProducts)
			r.Get("/featured", catalogHandler.GetFeatured)
			r.Get("/{id}", catalogHandler.GetProduct)
		})
		r.Get("/facets", catalogHandler.GetFacets)

		r.Route("/cart", func(r chi.Router) {
			r.Use(h.SessionMiddleware)
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
			r.Post("/promo", cartHandler.ApplyPromo)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Use(h.SessionMiddleware)
			r.Post("/whatsapp", checkoutHandler.WhatsAppCheckout)
			r.Get("/call", checkoutHandler.CallToOrder)
		})
	})

	// Admin routes (mock auth, see MockAdminMiddleware)
	r.Route("/admin", func(r chi.Router) {
		r.Use(h.MockAdminMiddleware)
		r.Get("/products", adminHandler.ListProducts)
		r.Post("/products", adminHandler.CreateProduct)
		r.Put("/products/{id}", adminHandler.UpdateProduct)
		r.Delete("/products/{id}", adminHandler.DeleteProduct)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("storefront API starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
