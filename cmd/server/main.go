package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/qdo10/loopin/internal/config"
	"github.com/qdo10/loopin/internal/database"
	"github.com/qdo10/loopin/internal/handler"
	"github.com/qdo10/loopin/internal/payment"
	"github.com/qdo10/loopin/internal/queue"
	"github.com/qdo10/loopin/internal/repository"
	"github.com/qdo10/loopin/internal/router"
	"github.com/qdo10/loopin/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	migCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := database.Migrate(migCtx, db); err != nil {
		cancel()
		log.Fatalf("migrations: %v", err)
	}
	cancel()

	store, err := storage.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("object storage: %v", err)
	}

	// Redis is optional: rate limiting and response caching degrade to
	// no-ops when it is down.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting and caching disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	projects := repository.NewProjectRepo(db)
	milestones := repository.NewMilestoneRepo(db)
	updates := repository.NewUpdateRepo(db)
	deliverables := repository.NewDeliverableRepo(db)
	comments := repository.NewCommentRepo(db)
	views := repository.NewPortalViewRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	ownerH := handler.NewOwnerHandler(cfg, users, projects, milestones, updates, deliverables, comments, views, rdb)
	portalH := handler.NewPortalHandler(cfg, projects, users, milestones, updates, deliverables, comments, views)
	billingH := handler.NewBillingHandler(users, payment.NewStripeProvider(cfg.StripeSecretKey, cfg.StripeProPrice, cfg.AppURL))
	uploadH := handler.NewUploadHandler(cfg, store, projects)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterOwner(e, ownerH, cfg.JWTSecret)
	router.RegisterBilling(e, billingH, cfg.JWTSecret)
	router.RegisterUpload(e, uploadH, cfg.JWTSecret)
	router.RegisterPortal(e, portalH, rdb)

	// Client notification consumer runs for the life of the process and
	// reconnects on broker failures.
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
