package entity

import (
	"time"
)

// ExamSettings представляет глобальные настройки экзамена (единственная запись).
// Используются при запуске теста в режиме exam.
type ExamSettings struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	TimeLimit       int       `gorm:"not null;default:30" json:"time_limit"`     // в минутах
	QuestionCount   int       `gorm:"not null;default:20" json:"question_count"` // количество вопросов
	AttemptsAllowed int       `gorm:"not null;default:2" json:"attempts_allowed"` // допустимое число ошибок
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (ExamSettings) TableName() string {
	return "exam_settings"
}

// DefaultExamSettings возвращает настройки по умолчанию.
// Используются, пока администратор не сохранил собственные.
func DefaultExamSettings() ExamSettings {
	return ExamSettings{
		TimeLimit:       30,
		QuestionCount:   20,
		AttemptsAllowed: 2,
	}
}
