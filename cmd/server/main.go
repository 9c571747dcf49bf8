package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/gig-scheduler/internal/cache"
	"github.com/iliyamo/gig-scheduler/internal/clock"
	"github.com/iliyamo/gig-scheduler/internal/config"
	"github.com/iliyamo/gig-scheduler/internal/database"
	"github.com/iliyamo/gig-scheduler/internal/handler"
	"github.com/iliyamo/gig-scheduler/internal/logger"
	"github.com/iliyamo/gig-scheduler/internal/middleware"
	"github.com/iliyamo/gig-scheduler/internal/queue"
	"github.com/iliyamo/gig-scheduler/internal/repository"
	"github.com/iliyamo/gig-scheduler/internal/router"
	"github.com/iliyamo/gig-scheduler/internal/schedule"
	"github.com/iliyamo/gig-scheduler/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional
	cfg := config.Load()

	lcfg := logger.DefaultConfig()
	lcfg.Level = cfg.LogLevel
	lcfg.Development = cfg.Development()
	lg, err := logger.New(lcfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()
	zl := lg.Logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg)
	if err != nil {
		zl.Fatal("open database", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	defer db.Close()
	if err := database.Migrate(ctx, db, cfg.DBDriver); err != nil {
		zl.Fatal("migrate database", zap.Error(err))
	}
	store := repository.NewStore(db, cfg.DBDriver == config.DriverMySQL)

	rdb := config.NewRedisClient(zl)
	if rdb != nil {
		defer rdb.Close()
	}
	var schedCache service.ScheduleCache
	if c := cache.NewScheduleCache(rdb, config.LoadCacheConfig(), zl); c != nil {
		schedCache = c
	}

	var wg sync.WaitGroup
	var events service.EventPublisher
	if cfg.RabbitURL != "" {
		events = queue.NewPublisher(cfg.RabbitURL, zl)
		consumer := queue.NewConsumer(cfg.RabbitURL, cfg.NotificationLog, lg.Named("notifications").Logger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				zl.Error("notification consumer stopped", zap.Error(err))
			}
		}()
	} else {
		zl.Info("RABBITMQ_URL not set, cancellation events disabled")
	}

	validator := schedule.NewValidator(config.LoadScheduleRules())
	rules := validator.Rules()
	zl.Info("schedule rules",
		zap.Duration("min_gap", rules.MinGap),
		zap.Duration("max_gap", rules.MaxGap),
		zap.Duration("min_total", rules.MinTotal),
		zap.Int("earliest_hour", rules.EarliestStartHour),
		zap.Int("latest_hour", rules.LatestStartHour))
	gigs := service.NewGigService(store, validator, schedCache, zl)
	cancels := service.NewCancellationService(store, validator, schedCache, events, clock.NewSystem(), zl)
	tickets := service.NewTicketService(store, zl)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, zl)
	gigHandler := handler.NewGigHandler(gigs, cancels)
	router.RegisterRoutes(e, store.DB())
	router.RegisterAuth(e, handler.NewAuthHandler(cfg), limit)
	router.RegisterPublic(e, gigHandler, handler.NewTicketHandler(tickets), limit)
	router.RegisterOperator(e, gigHandler, cfg.JWTSecret)

	addr := ":" + cfg.Port
	go func() {
		zl.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zl.Error("shutdown", zap.Error(err))
	}
	wg.Wait()
	zl.Info("stopped")
}
