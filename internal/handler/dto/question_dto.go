package dto

import (
	"github.com/yourusername/drivetest-api/internal/domain/entity"
)

// OptionRequest представляет вариант ответа в запросе
type OptionRequest struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"is_correct"`
}

// QuestionRequest представляет запрос на создание вопроса
type QuestionRequest struct {
	TestID      uint            `json:"test_id" binding:"required"`
	Text        string          `json:"text" binding:"required"`
	ImageURL    string          `json:"image_url"`
	Explanation string          `json:"explanation"`
	Options     []OptionRequest `json:"options" binding:"required,min=2,dive"`
}

// UpdateQuestionRequest представляет частичное обновление вопроса
type UpdateQuestionRequest struct {
	TestID      uint            `json:"test_id"`
	Text        string          `json:"text"`
	ImageURL    string          `json:"image_url"`
	Explanation string          `json:"explanation"`
	Options     []OptionRequest `json:"options" binding:"omitempty,min=2,dive"`
}

// ToEntity преобразует запрос в сущность вопроса
func (r *QuestionRequest) ToEntity() *entity.Question {
	return &entity.Question{
		TestID:      r.TestID,
		Text:        r.Text,
		ImageURL:    r.ImageURL,
		Explanation: r.Explanation,
		Options:     optionsToEntity(r.Options),
	}
}

// ToEntity преобразует запрос обновления в сущность вопроса
func (r *UpdateQuestionRequest) ToEntity() *entity.Question {
	return &entity.Question{
		TestID:      r.TestID,
		Text:        r.Text,
		ImageURL:    r.ImageURL,
		Explanation: r.Explanation,
		Options:     optionsToEntity(r.Options),
	}
}

func optionsToEntity(options []OptionRequest) entity.OptionArray {
	if options == nil {
		return nil
	}
	result := make(entity.OptionArray, len(options))
	for i, opt := range options {
		result[i] = entity.Option{
			Text:      opt.Text,
			IsCorrect: opt.IsCorrect,
		}
	}
	return result
}
