package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/drivetest-api/internal/handler/dto"
	"github.com/yourusername/drivetest-api/internal/middleware"
	apperrors "github.com/yourusername/drivetest-api/internal/pkg/errors"
	"github.com/yourusername/drivetest-api/internal/service"
)

// ResultHandler обрабатывает запросы по результатам тестов
type ResultHandler struct {
	resultService *service.ResultService
}

// NewResultHandler создает новый обработчик результатов
func NewResultHandler(resultService *service.ResultService) *ResultHandler {
	return &ResultHandler{resultService: resultService}
}

// SaveResult сохраняет результат завершенного теста за текущим пользователем
func (h *ResultHandler) SaveResult(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	var req dto.ResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	result, err := h.resultService.SaveResult(req.ToEntity(userID))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, result)
}

// GetMyResults возвращает все результаты текущего пользователя
func (h *ResultHandler) GetMyResults(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	results, err := h.resultService.GetUserResults(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, results)
}

// GetLatestResult возвращает последний результат текущего пользователя
func (h *ResultHandler) GetLatestResult(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}
	mode := c.Query("mode")

	result, err := h.resultService.GetLatestResult(userID, mode)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, result)
}

// GetResult возвращает результат по ID с проверкой прав доступа
func (h *ResultHandler) GetResult(c *gin.Context) {
	id, ok := middleware.GetUintParam(c, "resultID")
	if !ok {
		respondError(c, apperrors.ErrValidation)
		return
	}
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	result, err := h.resultService.GetResultByID(id, userID, middleware.GetUserRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, result)
}

// GetMyStats возвращает статистику текущего пользователя за период
func (h *ResultHandler) GetMyStats(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}
	mode := c.DefaultQuery("mode", "all")

	from, err := parseDateQuery(c, "from")
	if err != nil {
		respondError(c, err)
		return
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		respondError(c, err)
		return
	}

	stats, err := h.resultService.GetUserStats(userID, mode, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, stats)
}

// parseDateQuery читает необязательный параметр даты в формате RFC3339 или YYYY-MM-DD
func parseDateQuery(c *gin.Context, name string) (*time.Time, error) {
	value := c.Query(name)
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, apperrors.ErrValidation
	}
	return &t, nil
}
