package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/drivetest-api/internal/handler/dto"
	"github.com/yourusername/drivetest-api/internal/middleware"
	apperrors "github.com/yourusername/drivetest-api/internal/pkg/errors"
	"github.com/yourusername/drivetest-api/internal/service"
)

// QuestionHandler обрабатывает запросы по вопросам
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler создает новый обработчик вопросов
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// GetQuestions возвращает пагинированный список вопросов
func (h *QuestionHandler) GetQuestions(c *gin.Context) {
	search := c.Query("search")
	testID64, _ := strconv.ParseUint(c.DefaultQuery("test_id", "0"), 10, 32)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	questions, total, err := h.questionService.GetQuestions(uint(testID64), search, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, dto.PaginatedResponse{
		Items: questions,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetRandomQuestions возвращает count случайных вопросов по всем темам
func (h *QuestionHandler) GetRandomQuestions(c *gin.Context) {
	count, err := strconv.Atoi(c.DefaultQuery("count", "20"))
	if err != nil {
		respondError(c, apperrors.ErrValidation)
		return
	}

	questions, err := h.questionService.GetRandomQuestions(count)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, questions)
}

// GetTestQuestions возвращает вопросы одной темы (count <= 0 - все)
func (h *QuestionHandler) GetTestQuestions(c *gin.Context) {
	testID, ok := middleware.GetUintParam(c, "testID")
	if !ok {
		respondError(c, apperrors.ErrValidation)
		return
	}
	count, _ := strconv.Atoi(c.DefaultQuery("count", "0"))

	questions, err := h.questionService.GetTestQuestions(testID, count)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, questions)
}

// GetQuestion возвращает вопрос по ID
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	id, ok := middleware.GetUintParam(c, "questionID")
	if !ok {
		respondError(c, apperrors.ErrValidation)
		return
	}

	question, err := h.questionService.GetQuestionByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, question)
}

// CreateQuestion создает новый вопрос
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req dto.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	question, err := h.questionService.CreateQuestion(req.ToEntity())
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, question)
}

// UpdateQuestion обновляет вопрос
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	id, ok := middleware.GetUintParam(c, "questionID")
	if !ok {
		respondError(c, apperrors.ErrValidation)
		return
	}

	var req dto.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	question, err := h.questionService.UpdateQuestion(id, req.ToEntity())
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, question)
}

// DeleteQuestion удаляет вопрос
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	id, ok := middleware.GetUintParam(c, "questionID")
	if !ok {
		respondError(c, apperrors.ErrValidation)
		return
	}

	if err := h.questionService.DeleteQuestion(id); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"deleted": true})
}

// ExportQuestions выгружает вопросы темы в XLSX-файл
func (h *QuestionHandler) ExportQuestions(c *gin.Context) {
	testID64, _ := strconv.ParseUint(c.DefaultQuery("test_id", "0"), 10, 32)

	questions, err := h.questionService.GetQuestionsForExport(uint(testID64))
	if err != nil {
		respondError(c, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Questions"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Test ID", "Text", "Options", "Correct Options", "Multiple Choice", "Explanation"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, q := range questions {
		optionsText := ""
		correctText := ""
		for _, opt := range q.Options {
			if optionsText != "" {
				optionsText += "; "
			}
			optionsText += fmt.Sprintf("%d) %s", opt.ID, opt.Text)
			if opt.IsCorrect {
				if correctText != "" {
					correctText += ", "
				}
				correctText += strconv.FormatUint(uint64(opt.ID), 10)
			}
		}

		values := []interface{}{q.ID, q.TestID, q.Text, optionsText, correctText, q.IsMultipleChoice, q.Explanation}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	c.Header("Content-Disposition", `attachment; filename="questions.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		respondError(c, err)
		return
	}
}
