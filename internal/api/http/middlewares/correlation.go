package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nschwinning/sleuth-2/internal/ports"
)

// CorrelationIDHeader несёт trace id запроса в ответе.
const CorrelationIDHeader = "X-Correlation-Id"

// Correlation выставляет X-Correlation-Id до передачи управления дальше, поэтому заголовок
// есть в любом ответе, в том числе при ошибке или панике обработчика.
// Если активного спана нет, запрос завершается 500 с ошибкой провайдера в c.Errors.
func Correlation(tp ports.ITraceProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := tp.CurrentTraceID(c.Request.Context())
		if err != nil {
			_ = c.AbortWithError(http.StatusInternalServerError, err)
			return
		}
		c.Header(CorrelationIDHeader, id)
		c.Next()
	}
}
