package storage

import (
	"fmt"

	"github.com/annel0/robomaze/internal/config"
	"github.com/annel0/robomaze/internal/logging"
)

// Open создаёт таблицу рекордов по имени backend из конфигурации.
// Пустое имя равносильно "memory".
func Open(cfg config.StorageConfig) (Leaderboard, error) {
	logger := logging.GetStorageLogger()

	switch cfg.Backend {
	case "", "memory":
		logger.Info("💾 Leaderboard: memory")
		return NewMemoryLeaderboard(), nil
	case "badger":
		logger.Info("💾 Leaderboard: badger (%s)", cfg.BadgerPath)
		return NewBadgerLeaderboard(cfg.BadgerPath)
	case "redis":
		return NewRedisLeaderboard(&RedisConfig{Addr: cfg.RedisAddr, DB: cfg.RedisDB, KeyPrefix: "robomaze:"})
	case "maria", "mysql":
		logger.Info("💾 Leaderboard: MariaDB")
		return NewMariaLeaderboard(cfg.MariaDSN)
	case "postgres":
		logger.Info("💾 Leaderboard: PostgreSQL")
		return NewPostgresLeaderboard(cfg.PostgresDSN)
	case "mongo":
		logger.Info("💾 Leaderboard: MongoDB (%s)", cfg.MongoDB)
		return NewMongoLeaderboard(MongoConfig{URI: cfg.MongoURI, Database: cfg.MongoDB})
	default:
		return nil, fmt.Errorf("неизвестный backend хранилища: %q", cfg.Backend)
	}
}
