package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yourusername/drivetest-api/internal/pkg/errors"
	"github.com/yourusername/drivetest-api/internal/service"
)

// UploadHandler обрабатывает загрузку изображений вопросов
type UploadHandler struct {
	uploadService *service.UploadService
}

// NewUploadHandler создает новый обработчик загрузки
func NewUploadHandler(uploadService *service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// UploadImage сохраняет изображение из multipart-формы (поле "image")
func (h *UploadHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondError(c, apperrors.ErrValidation)
		return
	}

	url, err := h.uploadService.SaveImage(fileHeader)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"url": url})
}

// DeleteImage удаляет ранее загруженное изображение по имени файла
func (h *UploadHandler) DeleteImage(c *gin.Context) {
	fileName := c.Param("fileName")
	if fileName == "" {
		respondError(c, apperrors.ErrValidation)
		return
	}

	if err := h.uploadService.DeleteImage(fileName); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"deleted": true})
}
