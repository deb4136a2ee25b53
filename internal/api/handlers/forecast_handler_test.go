package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"forecast-service/internal/api/responses"
	"forecast-service/internal/core/forecaster"
	"forecast-service/internal/core/ingest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleCSV = "Months,Cash Inflow,Cash Outflow\n" +
	"24-Jan,1000,-400\n" +
	"24-Feb,1100,-450\n" +
	"24-Mar,1050,-420\n"

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	responses.InitLogger(zap.NewNop())

	svc := forecaster.NewService(ingest.NewService(), zap.NewNop())
	handler := NewForecastHandler(svc)

	router := gin.New()
	router.POST("/api/v1/forecast", handler.HandleForecast)
	return router
}

func newUploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/forecast", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) responses.ErrorResponse {
	t.Helper()
	var resp responses.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandleForecastSuccess(t *testing.T) {
	router := newTestRouter()
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, newUploadRequest(t, "cashflow.csv", sampleCSV))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp responses.ForecastResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, 3, resp.RowsReceived)
	require.Len(t, resp.Forecast, 15)
	assert.Equal(t, "Jan-2024", resp.Forecast[0].Month)
	assert.Equal(t, "Apr-2024", resp.Forecast[3].Month)
}

func TestHandleForecastNoFile(t *testing.T) {
	router := newTestRouter()
	rec := httptest.NewRecorder()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/forecast", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No file uploaded", decodeError(t, rec).Error)
}

func TestHandleForecastUnsupportedExtension(t *testing.T) {
	router := newTestRouter()
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, newUploadRequest(t, "cashflow.txt", sampleCSV))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Unsupported file format", decodeError(t, rec).Error)
}

func TestHandleForecastInsufficientRows(t *testing.T) {
	router := newTestRouter()
	rec := httptest.NewRecorder()

	short := "Months,Cash Inflow,Cash Outflow\n24-Jan,1000,-400\n24-Feb,1100,-450\n"
	router.ServeHTTP(rec, newUploadRequest(t, "cashflow.csv", short))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Not enough valid rows for forecasting", decodeError(t, rec).Error)
}

func TestHandleForecastMissingColumnIsServerError(t *testing.T) {
	router := newTestRouter()
	rec := httptest.NewRecorder()

	noInflow := "Months,Cash Outflow\n24-Jan,-400\n24-Feb,-450\n24-Mar,-420\n"
	router.ServeHTTP(rec, newUploadRequest(t, "cashflow.csv", noInflow))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decodeError(t, rec).Error, "Inflow")
}
