package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/annel0/robomaze/internal/api"
	"github.com/annel0/robomaze/internal/auth"
	"github.com/annel0/robomaze/internal/config"
	"github.com/annel0/robomaze/internal/eventbus"
	"github.com/annel0/robomaze/internal/game"
	"github.com/annel0/robomaze/internal/host"
	"github.com/annel0/robomaze/internal/logging"
	"github.com/annel0/robomaze/internal/observability"
	"github.com/annel0/robomaze/internal/storage"
	"github.com/annel0/robomaze/internal/world/level"
)

func main() {
	configPath := flag.String("config", "", "Путь к YAML конфигурации (по умолчанию $GAME_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	// Инициализируем систему логирования
	logging.SetLogDir(cfg.Logging.Dir)
	if err := logging.InitDefaultLogger("server"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()
	defer logging.GetLoggerManager().CloseAll()

	lvl := logging.ParseLevel(cfg.Logging.Level)
	logging.SetDefaultLevel(lvl)
	for _, component := range []string{"game", "server", "storage", "eventbus"} {
		logging.GetComponentLogger(component).SetLevels(lvl, lvl)
	}

	logging.Info("🎮 Запуск robomaze: уровень %d, жизней %d, тик %s",
		cfg.Game.StartLevel, cfg.Game.Lives, cfg.Game.TickInterval())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === OBSERVABILITY ===
	if cfg.Telemetry.Enabled {
		shutdown, err := observability.InitTelemetry(ctx, cfg.Telemetry.ServiceName)
		if err != nil {
			logging.Warn("⚠️ OpenTelemetry не инициализирован: %v", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewGameMetrics(registry)

	// === ШИНА СОБЫТИЙ ===
	bus, err := eventbus.Open(cfg.EventBus)
	if err != nil {
		logging.Error("❌ Ошибка подключения к шине событий: %v", err)
		os.Exit(1)
	}
	defer bus.Close()

	if _, err := eventbus.StartLoggingListener(ctx, bus); err != nil {
		logging.Warn("⚠️ Логирование событий недоступно: %v", err)
	}
	busMetrics := eventbus.NewMetricsExporter(bus, registry, 5*time.Second)
	busMetrics.Start()
	defer busMetrics.Stop()

	// === ТАБЛИЦА РЕКОРДОВ ===
	leaderboard, err := storage.Open(cfg.Storage)
	if err != nil {
		logging.Error("❌ Ошибка открытия хранилища %q: %v", cfg.Storage.Backend, err)
		os.Exit(1)
	}
	defer leaderboard.Close()

	// === ВВОД ===
	// Скрипт клавиш из конфигурации заранее кладётся в очередь ввода
	script, err := host.ParseKeys(cfg.Game.KeyScript)
	if err != nil {
		logging.Error("❌ Неверный key_script: %v", err)
		os.Exit(1)
	}
	queue := host.NewQueue(max(64, len(script)))
	queue.Enqueue(script...)

	// === СЕССИЯ ===
	session := game.NewSession(game.Options{
		Player:      cfg.Game.PlayerName,
		StartLevel:  cfg.Game.StartLevel,
		Lives:       cfg.Game.Lives,
		MaxTicks:    cfg.Game.MaxTicks,
		Seed:        cfg.Game.Seed,
		Loader:      level.FileLoader{Dir: cfg.Game.AssetsDir},
		Host:        queue,
		Bus:         bus,
		Leaderboard: leaderboard,
		Metrics:     metrics,
	})

	// === REST API ===
	restPort := fmt.Sprintf(":%d", cfg.Server.GetRESTPort())
	rest := api.NewRestServer(api.Config{
		Port:        restPort,
		Session:     session,
		Input:       queue,
		Leaderboard: leaderboard,
		Issuer:      auth.NewIssuer(cfg.Auth.GetJWTSecret(), cfg.Auth.OperatorSecret, cfg.Auth.TokenTTL()),
		Registry:    registry,
	})
	go func() {
		if err := rest.Start(); err != nil {
			logging.Error("❌ Ошибка REST API: %v", err)
			stop()
		}
	}()

	logging.Info("✅ Все сервисы запущены")
	logging.Info("   🌐 REST API: http://localhost%s", restPort)
	logging.Info("   👀 Зрители: ws://localhost%s/ws", restPort)
	logging.Info("   ❤️  Health check: http://localhost%s/health", restPort)
	if cfg.Auth.OperatorSecret == "" {
		logging.Info("   🔒 Выдача токенов отключена (auth.operator_secret не задан)")
	}

	state, err := session.Run(ctx, cfg.Game.TickInterval())
	if err != nil && ctx.Err() == nil {
		logging.Error("❌ Сессия завершилась с ошибкой: %v", err)
	}
	if res, ok := session.Result(); ok {
		logging.Info("🏁 Итог: %s, игрок %s, счёт %d, уровень %d, тиков %d",
			state, res.Player, res.Score, res.Level, res.Ticks)
	}

	// === GRACEFUL SHUTDOWN ===
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rest.Stop(shutdownCtx); err != nil {
		logging.Error("❌ Ошибка остановки REST API: %v", err)
	}

	logging.Info("👋 Сервер успешно остановлен")
}
