package dto

import (
	"github.com/yourusername/drivetest-api/internal/domain/entity"
	"github.com/yourusername/drivetest-api/internal/quiz"
)

// SelectModeRequest представляет запрос на выбор режима теста
type SelectModeRequest struct {
	Mode string `json:"mode" binding:"required,oneof=practice thematic exam"`
}

// SessionSettingsRequest представляет запрос на изменение настроек сессии
type SessionSettingsRequest struct {
	TimeLimit       int `json:"time_limit" binding:"required,min=1,max=180"`
	QuestionCount   int `json:"question_count" binding:"required,min=1,max=200"`
	AttemptsAllowed int `json:"attempts_allowed" binding:"min=0"`
}

// PracticeOverrideRequest включает/выключает режим практики "без ошибок"
type PracticeOverrideRequest struct {
	Enabled bool `json:"enabled"`
}

// StartSessionRequest представляет запрос на запуск теста.
// TopicID обязателен для тематического режима.
type StartSessionRequest struct {
	TopicID uint `json:"topic_id"`
}

// AnswerRequest представляет запрос с ответом на вопрос.
// Для одиночного выбора заполняется OptionID, для множественного - OptionIDs.
type AnswerRequest struct {
	QuestionID uint   `json:"question_id" binding:"required"`
	OptionID   uint   `json:"option_id"`
	OptionIDs  []uint `json:"option_ids"`
}

// NavigateRequest представляет запрос на переход между вопросами
type NavigateRequest struct {
	Direction string `json:"direction" binding:"required,oneof=next prev goto"`
	Index     int    `json:"index"`
}

// SessionOptionDTO представляет вариант ответа без признака правильности.
// Правильные ответы не раскрываются клиенту во время теста.
type SessionOptionDTO struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

// SessionQuestionDTO представляет вопрос в активной сессии
type SessionQuestionDTO struct {
	ID               uint               `json:"id"`
	Text             string             `json:"text"`
	ImageURL         string             `json:"image_url,omitempty"`
	IsMultipleChoice bool               `json:"is_multiple_choice"`
	Options          []SessionOptionDTO `json:"options"`
}

// SessionStateDTO представляет текущее состояние сессии
type SessionStateDTO struct {
	State          string               `json:"state"`
	Mode           string               `json:"mode,omitempty"`
	Settings       quiz.Settings        `json:"settings"`
	CurrentIndex   int                  `json:"current_index"`
	TotalQuestions int                  `json:"total_questions"`
	TimeRemaining  int                  `json:"time_remaining"`
	Questions      []SessionQuestionDTO `json:"questions,omitempty"`
}

// ConfirmAnswerResponse представляет результат подтверждения ответа
type ConfirmAnswerResponse struct {
	Correct  bool `json:"correct"`
	Finished bool `json:"finished"`
}

// NewSessionQuestionDTO строит DTO вопроса, скрывая правильные варианты
func NewSessionQuestionDTO(q *entity.Question) SessionQuestionDTO {
	options := make([]SessionOptionDTO, len(q.Options))
	for i, opt := range q.Options {
		options[i] = SessionOptionDTO{ID: opt.ID, Text: opt.Text}
	}
	return SessionQuestionDTO{
		ID:               q.ID,
		Text:             q.Text,
		ImageURL:         q.ImageURL,
		IsMultipleChoice: q.IsMultipleChoice,
		Options:          options,
	}
}

// NewSessionStateDTO строит DTO состояния сессии
func NewSessionStateDTO(session *quiz.Session) SessionStateDTO {
	state := SessionStateDTO{
		State:         session.State().String(),
		Mode:          session.Mode(),
		Settings:      session.Settings(),
		CurrentIndex:  session.CurrentIndex(),
		TimeRemaining: session.TimeRemaining(),
	}

	questions := session.Questions()
	state.TotalQuestions = len(questions)
	if session.State() == quiz.StateActive {
		dtos := make([]SessionQuestionDTO, len(questions))
		for i := range questions {
			dtos[i] = NewSessionQuestionDTO(&questions[i])
		}
		state.Questions = dtos
	}
	return state
}
