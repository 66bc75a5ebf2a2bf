package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/drivetest-api/internal/handler/dto"
	"github.com/yourusername/drivetest-api/internal/middleware"
	apperrors "github.com/yourusername/drivetest-api/internal/pkg/errors"
	"github.com/yourusername/drivetest-api/internal/quiz"
	"github.com/yourusername/drivetest-api/internal/service"
)

// QuizHandler обрабатывает запросы сессий прохождения тестов
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler создает новый обработчик сессий
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// GetSession возвращает состояние текущей сессии пользователя
func (h *QuizHandler) GetSession(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	session, err := h.quizService.GetSession(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, dto.NewSessionStateDTO(session))
}

// SelectMode выбирает режим теста
func (h *QuizHandler) SelectMode(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	var req dto.SelectModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	session, err := h.quizService.SelectMode(userID, req.Mode)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, dto.NewSessionStateDTO(session))
}

// UpdateSettings изменяет настройки сессии до запуска теста
func (h *QuizHandler) UpdateSettings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	var req dto.SessionSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	session, err := h.quizService.UpdateSessionSettings(userID, quiz.Settings{
		TimeLimit:       req.TimeLimit,
		QuestionCount:   req.QuestionCount,
		AttemptsAllowed: req.AttemptsAllowed,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, dto.NewSessionStateDTO(session))
}

// SetPracticeOverride включает/выключает режим практики "без ошибок"
func (h *QuizHandler) SetPracticeOverride(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	var req dto.PracticeOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	session, err := h.quizService.SetPracticeOverride(userID, req.Enabled)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, dto.NewSessionStateDTO(session))
}

// Start запускает тест
func (h *QuizHandler) Start(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	var req dto.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	session, err := h.quizService.StartSession(userID, req.TopicID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, dto.NewSessionStateDTO(session))
}

// Answer записывает ответ на вопрос
func (h *QuizHandler) Answer(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	var req dto.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	var err error
	if len(req.OptionIDs) > 0 {
		err = h.quizService.AnswerMultiple(userID, req.QuestionID, req.OptionIDs)
	} else {
		err = h.quizService.Answer(userID, req.QuestionID, req.OptionID)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"recorded": true})
}

// ConfirmAnswer подтверждает ответ на текущий вопрос
func (h *QuizHandler) ConfirmAnswer(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	correct, finished, err := h.quizService.ConfirmAnswer(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, dto.ConfirmAnswerResponse{
		Correct:  correct,
		Finished: finished,
	})
}

// Navigate переходит между вопросами
func (h *QuizHandler) Navigate(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	var req dto.NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	if err := h.quizService.Navigate(userID, req.Direction, req.Index); err != nil {
		respondError(c, err)
		return
	}

	session, err := h.quizService.GetSession(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"current_index": session.CurrentIndex()})
}

// Finish завершает тест и возвращает итог с сохраненным результатом
func (h *QuizHandler) Finish(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	summary, result, err := h.quizService.FinishSession(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{
		"summary": summary,
		"result":  result,
	})
}

// Cancel прерывает тест без сохранения результата
func (h *QuizHandler) Cancel(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	if err := h.quizService.CancelSession(userID); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"cancelled": true})
}
