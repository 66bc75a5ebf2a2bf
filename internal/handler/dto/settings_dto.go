package dto

// ExamSettingsRequest представляет запрос на обновление настроек экзамена
type ExamSettingsRequest struct {
	TimeLimit       int `json:"time_limit" binding:"required,min=1,max=180"`
	QuestionCount   int `json:"question_count" binding:"required,min=1,max=200"`
	AttemptsAllowed int `json:"attempts_allowed" binding:"min=0"`
}
