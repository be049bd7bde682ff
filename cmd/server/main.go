package main // Entry point package

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/stayhq/stay-rental-api/internal/auth"
	"github.com/stayhq/stay-rental-api/internal/config"
	"github.com/stayhq/stay-rental-api/internal/database"
	"github.com/stayhq/stay-rental-api/internal/handler"
	"github.com/stayhq/stay-rental-api/internal/middleware"
	"github.com/stayhq/stay-rental-api/internal/model"
	"github.com/stayhq/stay-rental-api/internal/queue"
	"github.com/stayhq/stay-rental-api/internal/repository"
	"github.com/stayhq/stay-rental-api/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Connect(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	idxCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureIndexes(idxCtx, db); err != nil {
		cancel()
		log.Fatalf("ensure indexes: %v", err)
	}
	cancel()

	accounts := repository.NewAccounts(db)
	properties := repository.NewPropertyRepo(db)
	inquiries := repository.NewInquiryRepo(db)
	reviews := repository.NewReviewRepo(db)
	blacklist := repository.NewBlacklistRepo(db)

	tokens := auth.NewTokenService(cfg.JWTSecret)
	google := auth.NewGoogleAuthenticator(
		auth.NewGoogleVerifier(cfg.GoogleClientID), tokens, accounts, cfg.BcryptCost)
	authmw := middleware.NewAuth(tokens, accounts, blacklist)

	userAuth := handler.NewAuthHandler(model.RoleSeeker, accounts, blacklist, tokens, google, cfg.BcryptCost)
	ownerAuth := handler.NewAuthHandler(model.RoleOwner, accounts, blacklist, tokens, google, cfg.BcryptCost)
	propHandler := handler.NewPropertyHandler(properties, accounts)
	inquiryHandler := handler.NewInquiryHandler(inquiries, properties, accounts)
	reviewHandler := handler.NewReviewHandler(reviews, properties, accounts)
	wishlistHandler := handler.NewWishlistHandler(accounts, properties)
	analyticsHandler := handler.NewAnalyticsHandler(properties)

	// Redis-backed limiter on the credential endpoints. With Redis down or
	// disabled the middleware degrades to a passthrough.
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), config.NewRedisClient())

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.ClientOrigin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowCredentials: true,
	}))

	router.RegisterRoutes(e, propHandler, reviewHandler)
	router.RegisterAuth(e, userAuth, ownerAuth, authmw, limiter)
	router.RegisterSeeker(e, inquiryHandler, reviewHandler, wishlistHandler, authmw)
	router.RegisterOwner(e, propHandler, inquiryHandler, analyticsHandler, authmw)

	// Background consumer writes inquiry events to logs/inquiry.log. It
	// reconnects on its own; a dead broker never takes the API down.
	go func() {
		if err := queue.StartInquiryConsumer(); err != nil {
			log.Printf("inquiry consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
