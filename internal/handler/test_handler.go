package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/drivetest-api/internal/domain/entity"
	"github.com/yourusername/drivetest-api/internal/handler/dto"
	"github.com/yourusername/drivetest-api/internal/middleware"
	apperrors "github.com/yourusername/drivetest-api/internal/pkg/errors"
	"github.com/yourusername/drivetest-api/internal/service"
)

// TestHandler обрабатывает запросы по тестам (темам)
type TestHandler struct {
	testService *service.TestService
}

// NewTestHandler создает новый обработчик тестов
func NewTestHandler(testService *service.TestService) *TestHandler {
	return &TestHandler{testService: testService}
}

// GetTests возвращает пагинированный список тестов
func (h *TestHandler) GetTests(c *gin.Context) {
	search := c.Query("search")
	mode := c.Query("mode")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	tests, total, err := h.testService.GetTests(search, mode, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, dto.PaginatedResponse{
		Items: tests,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetTest возвращает тест по ID
func (h *TestHandler) GetTest(c *gin.Context) {
	id, ok := middleware.GetUintParam(c, "testID")
	if !ok {
		respondError(c, apperrors.ErrValidation)
		return
	}

	test, err := h.testService.GetTestByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, test)
}

// GetTopics возвращает список всех тем для тематического режима
func (h *TestHandler) GetTopics(c *gin.Context) {
	topics, err := h.testService.GetTopics()
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, topics)
}

// CreateTest создает новый тест
func (h *TestHandler) CreateTest(c *gin.Context) {
	var req dto.TestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	test, err := h.testService.CreateTest(&entity.Test{
		Title:       req.Title,
		Description: req.Description,
		Mode:        req.Mode,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, test)
}

// UpdateTest обновляет тест
func (h *TestHandler) UpdateTest(c *gin.Context) {
	id, ok := middleware.GetUintParam(c, "testID")
	if !ok {
		respondError(c, apperrors.ErrValidation)
		return
	}

	var req dto.UpdateTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	test, err := h.testService.UpdateTest(id, &entity.Test{
		Title:       req.Title,
		Description: req.Description,
		Mode:        req.Mode,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, test)
}

// DeleteTest удаляет тест вместе с вопросами
func (h *TestHandler) DeleteTest(c *gin.Context) {
	id, ok := middleware.GetUintParam(c, "testID")
	if !ok {
		respondError(c, apperrors.ErrValidation)
		return
	}

	if err := h.testService.DeleteTest(id); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"deleted": true})
}
