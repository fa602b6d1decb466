package message

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nschwinning/sleuth-2/internal/domain"
	"github.com/nschwinning/sleuth-2/internal/ports"
)

// Acknowledge возвращается на каждый принятый запрос, независимо от результата публикации.
const Acknowledge = "Acknowledge"

// Controller принимает сообщения по HTTP и передаёт их диспетчеру.
type Controller struct {
	dispatcher ports.IDispatcher
	log        *slog.Logger
}

// New создаёт контроллер сообщений.
func New(dispatcher ports.IDispatcher, log *slog.Logger) *Controller {
	return &Controller{dispatcher: dispatcher, log: log}
}

// RegisterRoutes реализует http.Controller: регистрирует маршруты на роутере.
func (c *Controller) RegisterRoutes(r gin.IRouter) {
	api := r.Group("/api")

	api.GET("/test", c.test)
}

// @Summary Опубликовать сообщение
// @Description Ставит сообщение в фоновую публикацию в топик simple и сразу отвечает Acknowledge. Результат доставки только логируется.
// @Tags message
// @Produce plain
// @Param message query string true "Текст сообщения"
// @Success 200 {string} string "Acknowledge"
// @Failure 400 {object} ErrorResponse "Нет параметра message"
// @Router /api/test [get]
func (c *Controller) test(ctx *gin.Context) {
	message, ok := ctx.GetQuery("message")
	if !ok {
		_ = ctx.Error(domain.ErrMissingParameter).SetType(gin.ErrorTypeBind)
		ctx.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: domain.ErrMissingParameter.Error()})
		return
	}

	c.dispatcher.Dispatch(ctx.Request.Context(), message)

	ctx.String(http.StatusOK, Acknowledge)
}
