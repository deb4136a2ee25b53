// internal/api/responses/responses.go
package responses

import (
	"net/http"

	"forecast-service/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var logger *zap.Logger

// ForecastResponse is the success envelope for forecast requests.
type ForecastResponse struct {
	Status       string               `json:"status"`
	RowsReceived int                  `json:"rows_received"`
	Forecast     []domain.CombinedRow `json:"forecast"`
}

// ErrorResponse carries a request-scoped failure message.
type ErrorResponse struct {
	Error string `json:"error"`
}

// InitLogger wires the service's shared structured logger into API
// responses.
func InitLogger(l *zap.Logger) {
	logger = l
}

// Success sends the combined historical-plus-forecast result.
func Success(c *gin.Context, result *domain.ForecastResult) {
	resp := ForecastResponse{
		Status:       "success",
		RowsReceived: result.RowsReceived,
		Forecast:     result.Rows,
	}
	c.JSON(http.StatusOK, resp)
	logger.Info("API success",
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", http.StatusOK),
		zap.Int("rows_received", result.RowsReceived))
}

// Error sends an error response with the provided code and message.
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorResponse{Error: message})
	logger.Error("API error",
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", code),
		zap.String("error", message))
}
