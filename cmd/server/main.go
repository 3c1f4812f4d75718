package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"online-library/internal/config"
	"online-library/internal/database"
	"online-library/internal/handler"
	"online-library/internal/middleware"
	"online-library/internal/queue"
	"online-library/internal/repository"
	"online-library/internal/router"
)

func main() {
	// Load .env when present; real deployments set the environment
	// directly and the file is optional.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatalf("migrate: %v", err)
	}
	cancel()

	users := repository.NewUserRepo(db)
	books := repository.NewBookRepo(db)
	loans := repository.NewLoanRepo(db)
	favorites := repository.NewFavoriteRepo(db, books)

	h := router.Handlers{
		Auth:    handler.NewAuthHandler(cfg, users),
		Books:   handler.NewBookHandler(books),
		Admin:   handler.NewAdminBookHandler(books),
		Lending: handler.NewLendingHandler(books, loans, favorites),
	}

	// Redis is optional; without it the auth endpoints run unlimited.
	var rateLimit echo.MiddlewareFunc
	if rdb := config.NewRedisClient(); rdb != nil {
		rateLimit = middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	} else {
		log.Println("redis unavailable, rate limiting disabled")
	}

	// The lending consumer reconnects on its own; it never stops the server.
	go func() {
		if err := queue.StartLendingConsumer(); err != nil {
			log.Printf("lending consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.Register(e, h, cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, rateLimit)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
