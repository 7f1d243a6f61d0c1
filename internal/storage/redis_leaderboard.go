package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/annel0/robomaze/internal/logging"
)

// RedisConfig содержит настройки подключения к Redis
type RedisConfig struct {
	Addr      string // Адрес Redis сервера
	Password  string // Пароль (пустой если не требуется)
	DB        int    // Номер базы данных
	KeyPrefix string // Префикс для ключей
}

// DefaultRedisConfig возвращает конфигурацию по умолчанию
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:      "localhost:6379",
		KeyPrefix: "robomaze:",
	}
}

// RedisLeaderboard хранит рейтинг в sorted set, а сами результаты
// в отдельных ключах <prefix>result:<sessionID>.
type RedisLeaderboard struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisLeaderboard подключается к Redis и проверяет соединение
func NewRedisLeaderboard(config *RedisConfig) (*RedisLeaderboard, error) {
	if config == nil {
		config = DefaultRedisConfig()
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = "robomaze:"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logging.GetStorageLogger().Info("🔴 Connected to Redis at %s", config.Addr)
	return &RedisLeaderboard{client: client, keyPrefix: config.KeyPrefix}, nil
}

func (rl *RedisLeaderboard) zsetKey() string {
	return rl.keyPrefix + "leaderboard"
}

func (rl *RedisLeaderboard) resultKey(sessionID string) string {
	return rl.keyPrefix + "result:" + sessionID
}

// Save записывает результат и его позицию в рейтинге одним пайплайном
func (rl *RedisLeaderboard) Save(ctx context.Context, r Result) error {
	if err := validate(r); err != nil {
		return err
	}

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	pipe := rl.client.TxPipeline()
	pipe.Set(ctx, rl.resultKey(r.SessionID), data, 0)
	pipe.ZAdd(ctx, rl.zsetKey(), &redis.Z{Score: float64(r.Score), Member: r.SessionID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	return nil
}

// Top берёт n лучших идентификаторов из sorted set и догружает результаты
func (rl *RedisLeaderboard) Top(ctx context.Context, n int) ([]Result, error) {
	if n == 0 {
		return []Result{}, nil
	}
	stop := int64(n - 1)
	if n < 0 {
		stop = -1
	}

	ids, err := rl.client.ZRevRange(ctx, rl.zsetKey(), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}
	if len(ids) == 0 {
		return []Result{}, nil
	}

	pipe := rl.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, rl.resultKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get results: %w", err)
	}

	results := make([]Result, 0, len(ids))
	for i, cmd := range cmds {
		data, err := cmd.Bytes()
		if err == redis.Nil {
			continue // Запись удалена, индекс устарел
		} else if err != nil {
			logging.GetStorageLogger().Warn("⚠️ Failed to get result %s: %v", ids[i], err)
			continue
		}

		var r Result
		if err := json.Unmarshal(data, &r); err != nil {
			logging.GetStorageLogger().Warn("⚠️ Failed to unmarshal result %s: %v", ids[i], err)
			continue
		}
		results = append(results, r)
	}

	return rank(results, n), nil
}

// Close закрывает соединение с Redis
func (rl *RedisLeaderboard) Close() error {
	return rl.client.Close()
}
