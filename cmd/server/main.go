package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/mstepanov/storefront/internal/config"
	"github.com/mstepanov/storefront/internal/db"
	"github.com/mstepanov/storefront/internal/es"
	"github.com/mstepanov/storefront/internal/httpserver"
	"github.com/mstepanov/storefront/internal/logging"
	loggingmw "github.com/mstepanov/storefront/internal/middleware/logging"
	"github.com/mstepanov/storefront/internal/mykafka"
	"github.com/mstepanov/storefront/internal/repo"
	"github.com/mstepanov/storefront/internal/service"
	"github.com/mstepanov/storefront/internal/service/search"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustNonEmptyBytes(cfg.JWTRefreshSecret, "JWT_REFRESH_SECRET")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	gormRepo := &repo.GormRepo{DB: gdb}

	var searchSvc *search.Service
	if cfg.ESURL != "" {
		esClient, err := es.NewClient(&cfg)
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		searchSvc = &search.Service{ES: esClient, Index: cfg.ESIndex, Repo: gormRepo}
	} else {
		logger.Warn("ES_URL not set, product search falls back to the database")
		searchSvc = &search.Service{Repo: gormRepo}
	}

	producer := mykafka.NewProducer(cfg.KafkaBrokers)
	if producer == nil {
		logger.Warn("KAFKA_BROKERS not set, domain events are disabled")
	}

	authSvc := &service.AuthService{
		Repo:          gormRepo,
		JWTSecret:     cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
	}
	couponSvc := &service.CouponService{Repo: gormRepo}
	cartSvc := &service.CartService{Repo: gormRepo, Coupons: couponSvc}
	checkoutSvc := &service.CheckoutService{
		Repo:             gormRepo,
		Carts:            cartSvc,
		ShippingFlatRate: cfg.ShippingFlatRate,
		FreeShippingOver: cfg.FreeShippingOver,
		TaxRate:          cfg.TaxRate,
	}

	deps := httpserver.NewDeps(
		authSvc,
		&service.CatalogService{Repo: gormRepo},
		cartSvc,
		&service.WishlistService{Repo: gormRepo},
		checkoutSvc,
		&service.OrderService{Repo: gormRepo},
		couponSvc,
		&service.UserService{Repo: gormRepo},
		searchSvc,
		producer,
		cfg.JWTAccessSecret,
	)

	e := echo.New()
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("storefront listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)

	if err := producer.Close(); err != nil {
		logger.Warn("kafka close", "error", err)
	}
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Println("storefront stopped")
}
