package router

import (
	"path"
	"time"

	"github.com/oksasatya/skinsync/config"
	"github.com/oksasatya/skinsync/internal/application"
	"github.com/oksasatya/skinsync/internal/container"
	handlers "github.com/oksasatya/skinsync/internal/interface/http"
	"github.com/oksasatya/skinsync/internal/interface/middleware"
	"github.com/oksasatya/skinsync/internal/router/modules"
	"github.com/oksasatya/skinsync/pkg/helpers"
	"github.com/oksasatya/skinsync/pkg/validation"
)

// Services are the application services built from the container.
type Services struct {
	Users    *application.UserService
	Reports  *application.ReportService
	Products *application.ProductService
	Catalog  *application.CatalogService
	Stats    *application.StatsService
}

// BuildServices wires the application layer from the container singletons.
// Optional backends (Redis, RabbitMQ, Elasticsearch, GCS) are attached only
// when they were configured.
func BuildServices() Services {
	cfg := container.GetConfig()
	if cfg == nil {
		cfg = config.Load()
	}
	logger := container.GetLogger()
	repos := container.GetRepositories()
	loc := container.GetLocation()
	rdb := container.GetRedis()

	locker := container.GetLocker()
	if locker == nil {
		locker = helpers.NewKeyedMutex()
		container.SetLocker(locker)
	}

	var events application.EventPublisher
	if pub := container.GetRabbitPub(); pub != nil {
		events = pub
	}

	stats := application.NewStatsService(repos.Reports, repos.Products, rdb, cfg.StatsCacheTTL, loc, logger)

	users := application.NewUserService(repos.Users, container.GetJWT(), rdb, logger, events)

	reports := application.NewReportService(repos.Reports, locker, loc, logger)
	reports.Stats = stats
	reports.Events = events

	products := application.NewProductService(repos.Products, locker, loc, logger)
	products.Stats = stats
	products.Events = events
	if es := container.GetES(); es != nil {
		products.ES = es
		products.ESIndex = cfg.ESProductsIndex
	}
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		products.Images = helpers.NewGCSStore(gcs, cfg.GCSBucket)
	}

	return Services{
		Users:    users,
		Reports:  reports,
		Products: products,
		Catalog:  application.NewCatalogService(),
		Stats:    stats,
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	validation.Init()

	cfg := container.GetConfig()
	if cfg == nil {
		cfg = config.Load()
	}
	logger := container.GetLogger()
	limits := helpers.NewWindowCounter(container.GetRedis())
	svc := BuildServices()

	auth := middleware.Auth(svc.Users, logger)

	// soft per-IP ceiling for the whole API; debug vars carry their own limiter
	r.Use(middleware.RateLimit(limits, middleware.Limit{
		Max: 300, Window: time.Minute, Key: middleware.KeyByIP(),
		Allow: middleware.AnyAllow(
			middleware.AllowPrivateIP(),
			middleware.AllowPathPrefix(path.Join(r.API.BasePath(), "debug")+"/"),
		),
	}))

	r.Add(modules.NewUserModule(
		handlers.NewUserHandler(svc.Users, logger, cfg.CookieDomain, cfg.CookieSecure, cfg.APIPrefix),
		auth, limits,
	))
	r.Add(modules.NewReportModule(handlers.NewReportHandler(svc.Reports, logger), auth, limits))
	r.Add(modules.NewProductModule(handlers.NewProductHandler(svc.Products, logger, cfg.MaxUploadBytes), auth, limits))
	r.Add(modules.NewCatalogModule(handlers.NewCatalogHandler(svc.Catalog), auth))
	r.Add(modules.NewStatsModule(handlers.NewStatsHandler(svc.Stats, logger), auth))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(limits))
	}
}
