package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Answer представляет один ответ пользователя в сохраненном результате
type Answer struct {
	QuestionID       uint `json:"question_id"`
	SelectedOptionID uint `json:"selected_option_id"`
	IsCorrect        bool `json:"is_correct"`
}

// AnswerArray - пользовательский тип для хранения ответов в JSONB
type AnswerArray []Answer

// Scan реализует интерфейс sql.Scanner для AnswerArray
func (a *AnswerArray) Scan(value interface{}) error {
	if value == nil {
		*a = AnswerArray{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*a = AnswerArray{}
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// Value реализует интерфейс driver.Valuer для AnswerArray
func (a AnswerArray) Value() (driver.Value, error) {
	if a == nil || len(a) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}

// TestResult представляет неизменяемую запись о завершенной попытке теста.
// Создается один раз при завершении теста и никогда не обновляется.
type TestResult struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	UserID         uint        `gorm:"not null;index" json:"user_id"`
	TestMode       string      `gorm:"size:20;not null;index" json:"test_mode"` // practice, thematic, exam
	TotalQuestions int         `gorm:"not null" json:"total_questions"`
	CorrectAnswers int         `gorm:"not null" json:"correct_answers"`
	Score          float64     `gorm:"not null" json:"score"` // процент правильных ответов
	Passed         bool        `gorm:"not null" json:"passed"`
	TimeSpent      int         `gorm:"not null" json:"time_spent"` // в секундах
	Answers        AnswerArray `gorm:"type:jsonb;not null" json:"answers"`
	CreatedAt      time.Time   `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (TestResult) TableName() string {
	return "test_results"
}
