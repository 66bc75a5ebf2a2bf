package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yourusername/drivetest-api/internal/pkg/errors"
	"github.com/yourusername/drivetest-api/internal/quiz"
)

// Единый формат ответа API:
// успех  - {"success": true, "data": ...}
// ошибка - {"success": false, "error": "...", "toast_only": bool}

// respondSuccess отправляет успешный ответ в едином формате
func respondSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// respondError отправляет ошибку в едином формате, подбирая HTTP-статус
// по типу ошибки. Toast-only ошибки получают флаг toast_only: клиент
// показывает их уведомлением, не переходя на страницу ошибки.
func respondError(c *gin.Context, err error) {
	if apperrors.IsToastOnly(err) {
		c.JSON(http.StatusConflict, gin.H{
			"success":    false,
			"error":      err.Error(),
			"toast_only": true,
		})
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, apperrors.ErrValidation):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, apperrors.ErrForbidden):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, apperrors.ErrConflict):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, quiz.ErrInvalidTransition),
		errors.Is(err, quiz.ErrNoQuestions),
		errors.Is(err, quiz.ErrUnknownQuestion):
		status = http.StatusBadRequest
		message = err.Error()
	}

	c.JSON(status, gin.H{
		"success": false,
		"error":   message,
	})
}

// respondValidationError отправляет 400 с текстом ошибки привязки запроса
func respondValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   "Invalid request: " + err.Error(),
	})
}
