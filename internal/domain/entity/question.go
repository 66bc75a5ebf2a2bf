package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Option представляет один вариант ответа на вопрос.
// ID присваивается последовательно (1..n) при создании/обновлении вопроса.
type Option struct {
	ID        uint   `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// OptionArray - пользовательский тип для хранения вариантов ответа в JSONB
type OptionArray []Option

// Scan реализует интерфейс sql.Scanner для OptionArray
// Используется GORM для чтения JSONB данных из базы
func (o *OptionArray) Scan(value interface{}) error {
	// Обработка NULL значений из базы данных
	if value == nil {
		*o = OptionArray{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	// Обработка пустого массива байтов
	if len(bytes) == 0 {
		*o = OptionArray{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для OptionArray
// Используется GORM для записи OptionArray в JSONB в базе
func (o OptionArray) Value() (driver.Value, error) {
	if o == nil || len(o) == 0 {
		return []byte("[]"), nil // Возвращаем пустой JSON массив вместо null
	}
	return json.Marshal(o)
}

// Question представляет вопрос теста ПДД
type Question struct {
	ID               uint        `gorm:"primaryKey" json:"id"`
	TestID           uint        `gorm:"not null;index" json:"test_id"`
	Text             string      `gorm:"size:1000;not null" json:"text"`
	ImageURL         string      `gorm:"size:255;not null;default:''" json:"image_url"`
	Explanation      string      `gorm:"size:2000;not null;default:''" json:"explanation"`
	IsMultipleChoice bool        `gorm:"not null;default:false" json:"is_multiple_choice"`
	Options          OptionArray `gorm:"type:jsonb;not null" json:"options"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// NormalizeOptions присваивает вариантам последовательные ID (1..n)
// и пересчитывает флаг IsMultipleChoice.
// Инвариант: IsMultipleChoice == (количество правильных вариантов > 1).
// Пересчитывается при каждом создании и обновлении вопроса.
func (q *Question) NormalizeOptions() {
	correct := 0
	for i := range q.Options {
		q.Options[i].ID = uint(i + 1)
		if q.Options[i].IsCorrect {
			correct++
		}
	}
	q.IsMultipleChoice = correct > 1
}

// CorrectOptionIDs возвращает ID всех правильных вариантов
func (q *Question) CorrectOptionIDs() []uint {
	ids := make([]uint, 0, len(q.Options))
	for _, opt := range q.Options {
		if opt.IsCorrect {
			ids = append(ids, opt.ID)
		}
	}
	return ids
}

// CheckAnswer проверяет ответ на вопрос с одним вариантом:
// ответ верен тогда и только тогда, когда выбранный вариант помечен как правильный
func (q *Question) CheckAnswer(optionID uint) bool {
	for _, opt := range q.Options {
		if opt.ID == optionID {
			return opt.IsCorrect
		}
	}
	return false
}

// CheckMultipleAnswer проверяет ответ на вопрос с несколькими вариантами.
// Ответ верен только при точном совпадении множества выбранных вариантов
// с множеством правильных: частичный выбор или лишний вариант = неверно.
func (q *Question) CheckMultipleAnswer(optionIDs []uint) bool {
	correct := make(map[uint]bool)
	for _, opt := range q.Options {
		if opt.IsCorrect {
			correct[opt.ID] = true
		}
	}
	if len(correct) == 0 || len(optionIDs) == 0 {
		return false
	}

	selected := make(map[uint]bool)
	for _, id := range optionIDs {
		selected[id] = true
	}
	if len(selected) != len(correct) {
		return false
	}
	for id := range selected {
		if !correct[id] {
			return false
		}
	}
	return true
}

// IsValidOption проверяет, существует ли вариант с таким ID
func (q *Question) IsValidOption(optionID uint) bool {
	for _, opt := range q.Options {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}

// OptionsCount возвращает количество вариантов ответа
func (q *Question) OptionsCount() int {
	return len(q.Options)
}
