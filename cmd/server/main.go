package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tavola-pos/api/internal/config"
	"github.com/tavola-pos/api/internal/enum"
	"github.com/tavola-pos/api/internal/notify"
	"github.com/tavola-pos/api/internal/recommend"
	"github.com/tavola-pos/api/internal/router"
	"github.com/tavola-pos/api/internal/service"
	"github.com/tavola-pos/api/internal/store"
	"github.com/tavola-pos/api/internal/ws"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo := openRepository(ctx, cfg)
	defer closeRepo()

	hub := ws.NewHub()
	go hub.Run(ctx)

	notifiers := notify.Multi{hub}
	if cfg.AMQPURL != "" {
		publisher, err := notify.DialPublisher(cfg.AMQPURL)
		if err != nil {
			log.Printf("WARN: AMQP unavailable, order notifications disabled: %v", err)
		} else {
			defer publisher.Close()
			notifiers = append(notifiers, publisher)
			log.Println("Publishing order notifications to RabbitMQ")
		}
	}

	restaurant := service.NewRestaurant(repo, notifiers)
	defer restaurant.Close()
	if err := restaurant.Load(ctx); err != nil {
		log.Fatalf("Unable to load restaurant state: %v", err)
	}
	if cfg.DatabaseURL == "" {
		bootstrapManager(ctx, restaurant)
	}

	var recommender recommend.Recommender = recommend.NewClient(cfg.AIAPIURL, cfg.AIAPIKey, cfg.AIModel, cfg.AITimeout)
	if cfg.RedisURL != "" {
		rdb, err := recommend.DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("WARN: Redis unavailable, recommendations will not be cached: %v", err)
		} else {
			defer rdb.Close()
			recommender = recommend.NewCached(recommender, rdb, cfg.RecommendationCacheTTL)
			log.Println("Caching recommendations in Redis")
		}
	}
	advisor := service.NewAdvisor(restaurant, recommender)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router.New(cfg, restaurant, advisor, hub),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("ERROR: shutdown: %v", err)
		}
	}()

	log.Printf("Starting server on :%s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	log.Println("Server stopped")
}

// openRepository connects to Postgres when DATABASE_URL is set and runs
// pending migrations; otherwise state lives in memory for the process
// lifetime.
func openRepository(ctx context.Context, cfg *config.Config) (store.Repository, func()) {
	if cfg.DatabaseURL == "" {
		log.Println("WARN: DATABASE_URL not set, using in-memory storage")
		return store.NewMemory(), func() {}
	}

	if err := store.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalf("Unable to run migrations: %v", err)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Unable to ping database: %v", err)
	}
	log.Println("Connected to database")
	return store.NewPostgres(pool), pool.Close
}

// bootstrapManager gives an in-memory instance a manager account so the
// API can be logged into without running cmd/seed.
func bootstrapManager(ctx context.Context, restaurant *service.Restaurant) {
	email := os.Getenv("SEED_EMAIL")
	if email == "" {
		email = "manager@tavola.local"
	}
	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "password123"
		log.Println("WARNING: Using default password 'password123' for the in-memory manager")
	}
	_, err := restaurant.CreateStaff(ctx, service.StaffInput{
		Name:     "Tavola Manager",
		Role:     enum.StaffRoleManager,
		Email:    email,
		Shift:    enum.ShiftMorning,
		Password: password,
	})
	if err != nil {
		log.Printf("ERROR: bootstrap manager: %v", err)
		return
	}
	log.Printf("Created in-memory manager '%s'", email)
}
