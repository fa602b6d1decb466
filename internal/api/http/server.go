package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nschwinning/sleuth-2/internal/api/http/middlewares"
)

// ServerConfig задаёт настройки HTTP-сервера. Переменные: SLEUTH_SERVER_HOST, SLEUTH_SERVER_PORT, SLEUTH_SERVER_SHUTDOWN_TIMEOUT.
type ServerConfig struct {
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	Port            string        `envconfig:"PORT" default:"8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Controller регистрирует свои маршруты на роутере.
type Controller interface {
	RegisterRoutes(r gin.IRouter)
}

// Server собирает gin-роутер из мидлварей и контроллеров и обслуживает HTTP.
type Server struct {
	cfg         ServerConfig
	log         *slog.Logger
	middlewares []gin.HandlerFunc
	controllers []Controller
	srv         *http.Server
}

// NewServer создаёт сервер с конфигом.
func NewServer(cfg ServerConfig, log *slog.Logger) *Server {
	return &Server{cfg: cfg, log: log}
}

// Use добавляет глобальные мидлвари. Они выполняются в порядке добавления для каждого запроса, включая 404 и ответы cors.
func (s *Server) Use(mw ...gin.HandlerFunc) {
	s.middlewares = append(s.middlewares, mw...)
}

// AddController добавляет один или несколько контроллеров.
func (s *Server) AddController(c ...Controller) {
	s.controllers = append(s.controllers, c...)
}

// Handler строит роутер. Маршруты контроллеров оборачиваются в middlewares.Invocation.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	// Мидлвари приложения (трассировка, X-Correlation-Id) стоят до cors: cors сам отвечает на preflight
	// и на чужой Origin, и такие ответы тоже должны нести заголовок.
	r.Use(s.middlewares...)
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Accept", "traceparent", "tracestate"},
		ExposeHeaders:    []string{middlewares.CorrelationIDHeader},
		AllowCredentials: false,
	}))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	routes := r.Group("/", middlewares.Invocation(s.log))
	for _, c := range s.controllers {
		c.RegisterRoutes(routes)
	}
	return r
}

// Start запускает сервер и блокируется до отмены ctx (SIGINT/SIGTERM), затем делает graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:              s.cfg.Host + ":" + s.cfg.Port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}
