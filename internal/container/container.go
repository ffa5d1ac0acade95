package container

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"reelsync/internal/config"
	"reelsync/internal/logger"
	"reelsync/internal/services"
	"reelsync/internal/sync"
)

type Container struct {
	DB        *pgxpool.Pool
	Redis     *redis.Client
	Logger    *logrus.Logger
	Tmdb      *services.TmdbClient
	Notion    *services.NotionClient
	Engine    *sync.Engine
	Users     *services.UserService
	Watchlist *services.WatchlistService
}

// New wires every client and service once at startup. Postgres and Redis
// are optional: without them the bot still syncs, it just loses the history
// command and the list cache.
func New(ctx context.Context) (*Container, error) {
	logger := logger.Get()

	db, err := newDatabase(ctx)
	if err != nil {
		logger.WithError(err).Warn("Running without Postgres, /history disabled")
		db = nil
	}

	redisClient, err := newRedis(ctx)
	if err != nil {
		logger.WithError(err).Warn("Running without Redis, list caching disabled")
		redisClient = nil
	}

	tmdbKey, tmdbRegion := config.TMDBConfig()
	notionToken, notionDB := config.NotionConfig()

	tmdbClient := services.NewTmdbClient(tmdbKey, tmdbRegion, logger)
	notionClient := services.NewNotionClient(notionToken, notionDB, logger)

	var users *services.UserService
	if db != nil {
		users = services.NewUserService(db, logger)
	}

	return &Container{
		DB:        db,
		Redis:     redisClient,
		Logger:    logger,
		Tmdb:      tmdbClient,
		Notion:    notionClient,
		Engine:    sync.NewEngine(tmdbClient, notionClient, logger),
		Users:     users,
		Watchlist: services.NewWatchlistService(notionClient, redisClient, logger),
	}, nil
}

func (c *Container) Close() {
	if c.Redis != nil {
		c.Redis.Close()
		c.Logger.Info("Redis connection closed")
	}
	if c.DB != nil {
		c.DB.Close()
		c.Logger.Info("Database connection closed")
	}
}

func newDatabase(ctx context.Context) (*pgxpool.Pool, error) {
	host, port, user, password, databaseName := config.DatabaseConfig()

	if host == "" || port == "" || user == "" || password == "" || databaseName == "" {
		return nil, fmt.Errorf("missing required database configuration")
	}

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, databaseName)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = time.Minute * 30
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Get().Info("Database connection successful")
	return pool, nil
}

func newRedis(ctx context.Context) (*redis.Client, error) {
	host, port, password := config.RedisConfig()

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: password,
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Get().Info("Redis connection successful")
	return client, nil
}
