package entity

import (
	"time"
)

// Режимы прохождения тестов
const (
	ModePractice = "practice"
	ModeThematic = "thematic"
	ModeExam     = "exam"
)

// IsValidMode проверяет, является ли строка допустимым режимом теста
func IsValidMode(mode string) bool {
	return mode == ModePractice || mode == ModeThematic || mode == ModeExam
}

// Test представляет тему (категорию) вопросов ПДД
type Test struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null;uniqueIndex" json:"title"`
	Description string    `gorm:"size:1000;not null;default:''" json:"description"`
	Mode        string    `gorm:"size:20;not null" json:"mode"` // practice, thematic, exam
	ImageURL    string    `gorm:"size:255;not null;default:''" json:"image_url"`
	// Денормализованное количество вопросов, пересчитывается при выдаче списка
	QuestionCount int64     `gorm:"not null;default:0" json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Test) TableName() string {
	return "tests"
}
