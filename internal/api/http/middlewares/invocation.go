package middlewares

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	invocationEnter = "Rest Controller Invocation (ENTER)"
	invocationExit  = "Rest Controller Invocation (EXIT)"
)

// Invocation логирует вход в метод контроллера и выход из него.
// EXIT пишется всегда: после обычного возврата, при ошибках в c.Errors и при панике (паника пробрасывается дальше в Recovery).
// Ответ обработчика не меняется.
func Invocation(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		method := handlerMethod(c.HandlerName())
		ctx := c.Request.Context()
		log.InfoContext(ctx, invocationEnter, "method", method)

		defer func() {
			attrs := []any{"method", method}
			if len(c.Errors) > 0 {
				attrs = append(attrs, "errors", c.Errors.String())
			}
			if r := recover(); r != nil {
				log.ErrorContext(ctx, invocationExit, append(attrs, "panic", r)...)
				panic(r)
			}
			log.InfoContext(ctx, invocationExit, attrs...)
		}()

		c.Next()
	}
}

// handlerMethod превращает имя функции из gin ("pkg/message.(*Controller).test-fm") в имя метода ("test").
func handlerMethod(name string) string {
	name = strings.TrimSuffix(name, "-fm")
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}
