package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// statusTexts тексты ошибок, которые видит клиент, если ошибка не помечена как публичная.
var statusTexts = map[int]string{
	http.StatusBadRequest:          "bad request",
	http.StatusUnauthorized:        "unauthorized",
	http.StatusPaymentRequired:     "not enough balance",
	http.StatusForbidden:           "forbidden",
	http.StatusNotFound:            "not found",
	http.StatusConflict:            "order status changed, reload and retry",
	http.StatusUnprocessableEntity: "unprocessable entity",
}

func statusErrorText(status int) string {
	if text, ok := statusTexts[status]; ok {
		return text
	}
	return "internal server error"
}

// Errors отдает клиенту первую ошибку запроса. Приватные ошибки заменяются текстом по статусу ответа.
// JSON ответ содержит id запроса, чтобы ошибку можно было найти в логах.
func Errors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		firstErr := c.Errors[0]
		msg := statusErrorText(c.Writer.Status())
		if firstErr.IsType(gin.ErrorTypePublic) {
			msg = firstErr.Error()
		}

		wantsJSON := strings.Contains(c.GetHeader("Accept"), "application/json") ||
			strings.Contains(c.GetHeader("Content-Type"), "application/json")
		if wantsJSON {
			c.JSON(c.Writer.Status(), gin.H{
				"error":      msg,
				"request_id": c.GetString(RequestIDKey),
			})
		} else {
			c.String(c.Writer.Status(), msg)
		}
		c.Abort()
	}
}
