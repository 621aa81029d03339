package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/skinsync/config"
	"github.com/oksasatya/skinsync/internal/application"
	"github.com/oksasatya/skinsync/internal/domain/entity"
	"github.com/oksasatya/skinsync/internal/domain/repository"
	pginfra "github.com/oksasatya/skinsync/internal/infrastructure/postgres"
	"github.com/oksasatya/skinsync/pkg/helpers"
)

type seedProduct struct {
	name     string
	brand    string
	category entity.Category
	routine  entity.Routine
}

var demoShelf = []seedProduct{
	{"Gentle Foaming Cleanser", "CeraVe", entity.CategoryCleanser, entity.RoutineMorning},
	{"Vitamin C Serum", "The Ordinary", entity.CategorySerum, entity.RoutineMorning},
	{"Daily SPF 50", "La Roche-Posay", entity.CategorySunscreen, entity.RoutineMorning},
	{"Retinol Night Cream", "Neutrogena", entity.CategoryMoisturizer, entity.RoutineNight},
	{"Salicylic Spot Gel", "Paula's Choice", entity.CategorySpotTreatment, entity.RoutineNight},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)
	loc := cfg.ReportLocation()
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	users := application.NewUserService(pginfra.NewUserRepository(pool), helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.AccessTTL), nil, logger, nil)
	reports := application.NewReportService(pginfra.NewDailyReportRepository(pool), nil, loc, logger)
	products := application.NewProductService(pginfra.NewProductRepository(pool), nil, loc, logger)

	username, password := "demoUser", "password123"
	sess, err := users.Register(ctx, username, password)
	if errors.Is(err, application.ErrUsernameTaken) {
		sess, err = users.Login(ctx, username, password)
	}
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s username=%s password=%s\n", sess.UserID, username, password)

	existing, err := products.List(ctx, sess.UserID, repository.ProductFilter{IncludeArchived: true})
	if err != nil {
		log.Fatalf("failed to list shelf: %v", err)
	}
	if len(existing) == 0 {
		for _, sp := range demoShelf {
			p, err := products.Create(ctx, sess.UserID, application.CreateProductInput{
				Name: sp.name, Brand: sp.brand, Category: sp.category, Routine: sp.routine,
			})
			if err != nil {
				log.Fatalf("failed to seed product %q: %v", sp.name, err)
			}
			fmt.Printf("seeded product: id=%s name=%s\n", p.ID, p.Name)
		}
	}

	// a week of reports ending yesterday
	today, _ := helpers.DayBounds(time.Now(), loc)
	for i := 7; i >= 1; i-- {
		day := today.AddDate(0, 0, -i).Add(20 * time.Hour)
		_, err := reports.Submit(ctx, sess.UserID, &day, entity.ReportMetrics{
			Exercised:   i % 2,
			Stress:      1 + i%4,
			Acne:        i % 3,
			Sugar:       i % 2,
			Dairy:       1,
			WaterAmount: 1.5 + float64(i%3)*0.5,
			SleepHours:  6 + float64(i%3),
		})
		if err != nil {
			log.Fatalf("failed to seed report: %v", err)
		}
	}
	fmt.Println("seeded 7 daily reports")
}
