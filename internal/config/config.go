package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации приложения.
type Config struct {
	Game      GameConfig      `yaml:"game"`
	Logging   LoggingConfig   `yaml:"logging"`
	Server    ServerConfig    `yaml:"server"`
	Auth      AuthConfig      `yaml:"auth"`
	EventBus  EventBusConfig  `yaml:"eventbus"`
	Storage   StorageConfig   `yaml:"storage"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// GameConfig содержит параметры игровой сессии
type GameConfig struct {
	AssetsDir      string `yaml:"assets_dir"`       // Каталог с файлами levelNN.txt
	StartLevel     int    `yaml:"start_level"`      // Номер первого уровня
	Lives          int    `yaml:"lives"`            // Начальное количество жизней
	Seed           int64  `yaml:"seed"`             // Сид генератора случайных чисел
	TickIntervalMs int    `yaml:"tick_interval_ms"` // Длительность тика в миллисекундах
	KeyScript      string `yaml:"key_script"`       // Скрипт клавиш для headless-режима
	PlayerName     string `yaml:"player_name"`      // Имя для таблицы рекордов
	MaxTicks       int    `yaml:"max_ticks"`        // Ограничение на число тиков (0 - без ограничения)
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}

type ServerConfig struct {
	RESTPort int `yaml:"rest_port"`
}

type AuthConfig struct {
	JWTSecret      string `yaml:"jwt_secret"`
	OperatorSecret string `yaml:"operator_secret"`
	TokenTTLMin    int    `yaml:"token_ttl_minutes"`
}

type EventBusConfig struct {
	URL       string `yaml:"url"`
	Stream    string `yaml:"stream"`
	Retention int    `yaml:"retention_hours"`
}

// StorageConfig описывает хранилище таблицы рекордов.
// Backend: memory | badger | redis | maria | postgres | mongo
type StorageConfig struct {
	Backend     string `yaml:"backend"`
	BadgerPath  string `yaml:"badger_path"`
	RedisAddr   string `yaml:"redis_addr"`
	RedisDB     int    `yaml:"redis_db"`
	MariaDSN    string `yaml:"maria_dsn"`
	PostgresDSN string `yaml:"postgres_dsn"`
	MongoURI    string `yaml:"mongo_uri"`
	MongoDB     string `yaml:"mongo_db"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Game: GameConfig{
			AssetsDir:      "assets",
			StartLevel:     0,
			Lives:          3,
			Seed:           1,
			TickIntervalMs: 50,
			PlayerName:     "player",
		},
		Logging: LoggingConfig{Level: "info", Dir: "logs"},
		Auth:    AuthConfig{TokenTTLMin: 60},
		EventBus: EventBusConfig{
			Stream:    "ROBOMAZE",
			Retention: 24,
		},
		Storage: StorageConfig{
			Backend:    "memory",
			BadgerPath: "data",
			RedisAddr:  "localhost:6379",
			MongoDB:    "robomaze",
		},
		Telemetry: TelemetryConfig{ServiceName: "robomaze"},
	}
}

// TickInterval возвращает длительность тика
func (g *GameConfig) TickInterval() time.Duration {
	if g.TickIntervalMs <= 0 {
		return 50 * time.Millisecond
	}
	return time.Duration(g.TickIntervalMs) * time.Millisecond
}

// GetRESTPort возвращает REST API порт с поддержкой fallback значений
func (s *ServerConfig) GetRESTPort() int {
	return getPortWithEnvFallback(s.RESTPort, "GAME_REST_PORT", 8088)
}

// GetJWTSecret возвращает секрет подписи токенов: config -> env -> пусто
func (a *AuthConfig) GetJWTSecret() string {
	if a.JWTSecret != "" {
		return a.JWTSecret
	}
	return os.Getenv("GAME_JWT_SECRET")
}

// TokenTTL возвращает время жизни выдаваемых токенов
func (a *AuthConfig) TokenTTL() time.Duration {
	if a.TokenTTLMin <= 0 {
		return time.Hour
	}
	return time.Duration(a.TokenTTLMin) * time.Minute
}

// GetURL возвращает адрес NATS: config -> env GAME_NATS_URL. Пусто - in-memory шина.
func (e *EventBusConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	return os.Getenv("GAME_NATS_URL")
}

// RetentionDuration возвращает время хранения событий в стриме
func (e *EventBusConfig) RetentionDuration() time.Duration {
	if e.Retention <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(e.Retention) * time.Hour
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать путь из ENV GAME_CONFIG; если и он пуст,
// возвращает конфигурацию по умолчанию.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("GAME_CONFIG")
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
