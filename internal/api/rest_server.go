package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/annel0/robomaze/internal/auth"
	"github.com/annel0/robomaze/internal/game"
	"github.com/annel0/robomaze/internal/host"
	"github.com/annel0/robomaze/internal/logging"
	"github.com/annel0/robomaze/internal/middleware"
	"github.com/annel0/robomaze/internal/storage"
	"github.com/annel0/robomaze/internal/world"
)

// SessionView - то, что REST API читает из игровой сессии
type SessionView interface {
	Info() game.Info
	Snapshot() world.Snapshot
	Watch(buffer int) (<-chan world.Snapshot, func())
}

// InputSink принимает клавиши игрока
type InputSink interface {
	Enqueue(keys ...host.Key) int
}

// RestServer представляет REST API сервер
type RestServer struct {
	router      *gin.Engine
	httpServer  *http.Server
	session     SessionView
	input       InputSink
	leaderboard storage.Leaderboard
	issuer      *auth.Issuer
	metrics     *ServerMetrics
	logger      *logging.Logger
}

// Config содержит конфигурацию для REST сервера
type Config struct {
	Port        string              // порт для запуска сервера
	Session     SessionView         // текущая игровая сессия
	Input       InputSink           // очередь ввода
	Leaderboard storage.Leaderboard // таблица рекордов
	Issuer      *auth.Issuer        // выдача и проверка токенов
	Registry    *prometheus.Registry
	Logger      *logging.Logger
}

// NewRestServer создает новый REST API сервер
func NewRestServer(config Config) *RestServer {
	if config.Port == "" {
		config.Port = ":8088"
	}
	if config.Registry == nil {
		config.Registry = prometheus.NewRegistry()
	}
	if config.Logger == nil {
		config.Logger = logging.GetServerLogger()
	}
	if config.Issuer == nil {
		// без секрета оператора выдача токенов отключена
		config.Issuer = auth.NewIssuer("", "", 0)
	}

	// Устанавливаем режим релиза для gin
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	// === Observability middleware ===
	router.Use(otelgin.Middleware("rest_api"))

	loggerMw := middleware.NewRequestLogger(config.Logger)
	router.Use(loggerMw.Handler())

	promMw := middleware.NewPrometheusMiddleware("rest_api", config.Registry)
	router.Use(promMw.Handler())
	promMw.RegisterMetricsEndpoint(router, config.Registry)

	server := &RestServer{
		router:      router,
		session:     config.Session,
		input:       config.Input,
		leaderboard: config.Leaderboard,
		issuer:      config.Issuer,
		metrics:     NewServerMetrics(),
		logger:      config.Logger,
	}
	server.httpServer = &http.Server{
		Addr:              config.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Настраиваем маршруты
	server.setupRoutes()

	return server
}

// Handler возвращает http.Handler сервера (для тестов и встраивания)
func (rs *RestServer) Handler() http.Handler {
	return rs.router
}

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes() {
	// Middleware для CORS
	rs.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Группа API
	api := rs.router.Group("/api")
	{
		api.GET("/status", rs.handleStatus)
		api.GET("/snapshot", rs.handleSnapshot)
		api.GET("/leaderboard", rs.handleLeaderboard)
		api.GET("/server", rs.handleServerInfo)

		// Выдача токена по секрету оператора (без JWT защиты)
		api.POST("/token", rs.handleToken)
	}

	// Защищенные эндпоинты (требуют JWT с ролью игрока)
	protected := api.Group("/")
	protected.Use(rs.jwtMiddleware(), rs.roleMiddleware(auth.RolePlayer))
	{
		protected.POST("/input", rs.handleInput)
	}

	// Трансляция снимков зрителям
	rs.router.GET("/ws", rs.handleSpectator)

	// Health check
	rs.router.GET("/health", rs.handleHealth)
}

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// TokenRequest - запрос токена
type TokenRequest struct {
	Secret string `json:"secret" binding:"required"`
	Name   string `json:"name" binding:"required"`
	Role   string `json:"role"`
}

// InputRequest - клавиши в формате host.ParseKeys ("wwd.f" или "up up fire")
type InputRequest struct {
	Keys string `json:"keys" binding:"required"`
}

// handleStatus возвращает сводку сессии и строку статуса
func (rs *RestServer) handleStatus(c *gin.Context) {
	info := rs.session.Info()
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: rs.session.Snapshot().Status,
		Data:    info,
	})
}

// handleSnapshot возвращает последний снимок уровня
func (rs *RestServer) handleSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, rs.session.Snapshot())
}

// handleLeaderboard возвращает лучшие результаты (?limit=10, максимум 100)
func (rs *RestServer) handleLeaderboard(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 10
	}

	if rs.leaderboard == nil {
		c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Таблица рекордов отключена", Data: []storage.Result{}})
		return
	}

	top, err := rs.leaderboard.Top(c.Request.Context(), limit)
	if err != nil {
		rs.logger.Error("❌ Leaderboard: %v", err)
		c.JSON(http.StatusInternalServerError, GenericResponse{
			Success: false,
			Message: "Внутренняя ошибка сервера",
		})
		return
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Таблица рекордов",
		Data:    top,
	})
}

// handleToken выдаёт JWT тому, кто знает секрет оператора
func (rs *RestServer) handleToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{
			Success: false,
			Message: "Неверный формат запроса",
		})
		return
	}

	token, err := rs.issuer.Issue(req.Secret, req.Name, req.Role)
	switch {
	case errors.Is(err, auth.ErrDisabled):
		c.JSON(http.StatusForbidden, GenericResponse{Success: false, Message: "Выдача токенов отключена"})
		return
	case errors.Is(err, auth.ErrBadCredentials):
		rs.logger.Warn("🔒 Неверный секрет оператора от %s", c.ClientIP())
		c.JSON(http.StatusUnauthorized, GenericResponse{Success: false, Message: "Неверный секрет"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, GenericResponse{Success: false, Message: "Внутренняя ошибка сервера"})
		return
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Токен выдан",
		Data:    gin.H{"token": token},
	})
}

// handleInput ставит клавиши в очередь ввода
func (rs *RestServer) handleInput(c *gin.Context) {
	var req InputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{
			Success: false,
			Message: "Неверный формат запроса",
		})
		return
	}

	keys, err := host.ParseKeys(req.Keys)
	if err != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	if rs.input == nil {
		c.JSON(http.StatusServiceUnavailable, GenericResponse{
			Success: false,
			Message: "Ввод недоступен",
		})
		return
	}

	accepted := rs.input.Enqueue(keys...)
	c.JSON(http.StatusAccepted, GenericResponse{
		Success: true,
		Message: "Клавиши приняты",
		Data:    gin.H{"accepted": accepted, "dropped": len(keys) - accepted},
	})
}

// handleServerInfo возвращает информацию о сервере
func (rs *RestServer) handleServerInfo(c *gin.Context) {
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Информация о сервере",
		Data:    rs.metrics.Collect(),
	})
}

// handleHealth проверка состояния сервера
func (rs *RestServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Unix(),
		"uptime": rs.metrics.GetUptime(),
	})
}

// Start запускает REST сервер и блокируется до Stop
func (rs *RestServer) Start() error {
	rs.logger.Info("🌐 REST API слушает %s", rs.httpServer.Addr)
	if err := rs.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop останавливает REST сервер, дожидаясь завершения запросов
func (rs *RestServer) Stop(ctx context.Context) error {
	return rs.httpServer.Shutdown(ctx)
}
