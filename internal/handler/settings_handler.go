package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/drivetest-api/internal/handler/dto"
	"github.com/yourusername/drivetest-api/internal/service"
)

// SettingsHandler обрабатывает запросы по настройкам экзамена
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler создает новый обработчик настроек экзамена
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetSettings возвращает текущие настройки экзамена
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.GetSettings()
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, settings)
}

// UpdateSettings сохраняет настройки экзамена
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req dto.ExamSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	settings, err := h.settingsService.UpdateSettings(req.TimeLimit, req.QuestionCount, req.AttemptsAllowed)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, settings)
}
