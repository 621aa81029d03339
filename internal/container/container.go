package container

import (
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/skinsync/config"
	"github.com/oksasatya/skinsync/internal/domain/repository"
	"github.com/oksasatya/skinsync/pkg/helpers"
)

// app-level container to share constructed components across packages.
// The router wires modules from these singletons; optional clients stay nil
// when their backend is not configured.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	gcsClient   *storage.Client
	esClient    *elasticsearch.Client
	rabbitPub   *helpers.RabbitPublisher
	jwtManager  *helpers.JWTManager
	locker      helpers.Locker
	location    *time.Location

	repos Repositories
)

// Repositories groups the storage adapters selected by STORAGE_DRIVER.
type Repositories struct {
	Users    repository.UserRepository
	Reports  repository.DailyReportRepository
	Products repository.ProductRepository
}

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config  { return cfg }
func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger {
	if logger == nil {
		return helpers.NewNopLogger()
	}
	return logger
}
func SetPGPool(p *pgxpool.Pool)               { pgPool = p }
func GetPGPool() *pgxpool.Pool                { return pgPool }
func SetRedis(r *redis.Client)                { redisClient = r }
func GetRedis() *redis.Client                 { return redisClient }
func SetGCS(s *storage.Client)                { gcsClient = s }
func GetGCS() *storage.Client                 { return gcsClient }
func SetES(c *elasticsearch.Client)           { esClient = c }
func GetES() *elasticsearch.Client            { return esClient }
func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetJWT(m *helpers.JWTManager)            { jwtManager = m }
func GetJWT() *helpers.JWTManager             { return jwtManager }
func SetLocker(l helpers.Locker)              { locker = l }
func GetLocker() helpers.Locker               { return locker }
func SetRepositories(r Repositories)          { repos = r }
func GetRepositories() Repositories           { return repos }

func SetLocation(l *time.Location) { location = l }
func GetLocation() *time.Location {
	if location == nil {
		return time.UTC
	}
	return location
}

// Reset clears every singleton. Tests use it between setups.
func Reset() {
	cfg, logger, pgPool, redisClient, gcsClient = nil, nil, nil, nil, nil
	esClient, rabbitPub, jwtManager, locker, location = nil, nil, nil, nil, nil
	repos = Repositories{}
}
