package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/skinsync/config"
	"github.com/oksasatya/skinsync/internal/application"
	pginfra "github.com/oksasatya/skinsync/internal/infrastructure/postgres"
	"github.com/oksasatya/skinsync/pkg/helpers"
)

// nextMidnight is the start of the day after now in loc.
func nextMidnight(now time.Time, loc *time.Location) time.Time {
	_, end := helpers.DayBounds(now, loc)
	return end
}

func resetOnce(ctx context.Context, svc *application.ProductService, logger *logrus.Logger) {
	c, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	n, err := svc.ResetAllUsage(c)
	if err != nil {
		helpers.LogError(logger, "usage reset failed", err, nil)
		return
	}
	helpers.LogInfo(logger, "usage reset completed", logrus.Fields{"products": n})
}

func main() {
	loop := flag.Bool("loop", false, "keep running and reset at every local midnight")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-usage-reset", cfg.Env, cfg.LogLevel)
	loc := cfg.ReportLocation()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pginfra.NewPool(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	svc := application.NewProductService(pginfra.NewProductRepository(pool), nil, loc, logger)
	if cfg.EventsEnabled {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEventsQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; usage reset event disabled")
		} else {
			pub.AppID = cfg.AppName + "-usage-reset"
			defer pub.Close()
			svc.Events = pub
		}
	}

	if !*loop {
		resetOnce(ctx, svc, logger)
		return
	}

	for {
		next := nextMidnight(time.Now(), loc)
		logger.WithField("next_run", next).Info("waiting for next reset")
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Info("usage reset stopped")
			return
		case <-timer.C:
			resetOnce(ctx, svc, logger)
		}
	}
}
