package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"forecast-service/internal/api/responses"
	"forecast-service/internal/core/forecaster"
	"forecast-service/internal/domain"

	"github.com/gin-gonic/gin"
)

// ForecastHandler handles cashflow forecast API requests.
type ForecastHandler struct {
	service forecaster.Service
}

// NewForecastHandler creates a new forecast handler.
func NewForecastHandler(service forecaster.Service) *ForecastHandler {
	return &ForecastHandler{
		service: service,
	}
}

// HandleForecast accepts a multipart upload in the "file" field and
// responds with the historical series plus a 12-month forecast.
func (h *ForecastHandler) HandleForecast(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "No file uploaded")
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".csv" && ext != ".xls" && ext != ".xlsx" {
		responses.Error(c, http.StatusBadRequest, "Unsupported file format")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Could not open uploaded file")
		return
	}
	defer file.Close()

	result, err := h.service.Forecast(file, fileHeader.Filename)
	if err != nil {
		responses.Error(c, statusFor(err), err.Error())
		return
	}

	responses.Success(c, result)
}

// statusFor maps pipeline errors onto HTTP statuses: bad input and
// validation failures are client errors, everything else (model fit
// failures included) is a server error with the message passed through.
func statusFor(err error) int {
	var inputErr *domain.InputError
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &inputErr):
		return http.StatusBadRequest
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
