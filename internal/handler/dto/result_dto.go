package dto

import "github.com/yourusername/drivetest-api/internal/domain/entity"

// AnswerRecord представляет один ответ в сохраняемом результате
type AnswerRecord struct {
	QuestionID       uint `json:"question_id" binding:"required"`
	SelectedOptionID uint `json:"selected_option_id"`
	IsCorrect        bool `json:"is_correct"`
}

// ResultRequest представляет запрос на сохранение результата теста
type ResultRequest struct {
	TestMode       string         `json:"test_mode" binding:"required,oneof=practice thematic exam"`
	TotalQuestions int            `json:"total_questions" binding:"required,min=1"`
	CorrectAnswers int            `json:"correct_answers" binding:"min=0"`
	Score          float64        `json:"score" binding:"min=0,max=100"`
	Passed         bool           `json:"passed"`
	TimeSpent      int            `json:"time_spent" binding:"min=0"`
	Answers        []AnswerRecord `json:"answers" binding:"omitempty,dive"`
}

// ToEntity преобразует запрос в сущность результата
func (r *ResultRequest) ToEntity(userID uint) *entity.TestResult {
	answers := make(entity.AnswerArray, 0, len(r.Answers))
	for _, a := range r.Answers {
		answers = append(answers, entity.Answer{
			QuestionID:       a.QuestionID,
			SelectedOptionID: a.SelectedOptionID,
			IsCorrect:        a.IsCorrect,
		})
	}
	return &entity.TestResult{
		UserID:         userID,
		TestMode:       r.TestMode,
		TotalQuestions: r.TotalQuestions,
		CorrectAnswers: r.CorrectAnswers,
		Score:          r.Score,
		Passed:         r.Passed,
		TimeSpent:      r.TimeSpent,
		Answers:        answers,
	}
}
