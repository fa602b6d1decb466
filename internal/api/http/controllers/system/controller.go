package system

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nschwinning/sleuth-2/internal/ports"
)

// readyTimeout ограничивает проверку брокера, чтобы readiness не висела при недоступной Kafka.
const readyTimeout = 2 * time.Second

// Controller отдаёт системные маршруты: liveness и readiness.
type Controller struct {
	broker ports.IHealthChecker
	log    *slog.Logger
}

// New создаёт системный контроллер. broker проверяется в readiness.
func New(broker ports.IHealthChecker, log *slog.Logger) *Controller {
	return &Controller{broker: broker, log: log}
}

// RegisterRoutes реализует http.Controller: регистрирует маршруты на роутере.
func (c *Controller) RegisterRoutes(r gin.IRouter) {
	r.GET("/liveness", c.live)
	r.GET("/readyness", c.ready)
}

func (c *Controller) live(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "alive"})
}

func (c *Controller) ready(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), readyTimeout)
	defer cancel()

	if err := c.broker.Ping(pingCtx); err != nil {
		c.log.WarnContext(pingCtx, "broker is not reachable", "error", err)
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ready"})
}
