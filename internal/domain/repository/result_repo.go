package repository

import (
	"time"

	"github.com/yourusername/drivetest-api/internal/domain/entity"
)

// UserStats представляет агрегированную статистику пользователя по результатам
type UserStats struct {
	TotalTests               int64   `json:"total_tests"`
	AverageScore             float64 `json:"average_score"`
	CorrectAnswerPercentage  float64 `json:"correct_answer_percentage"`
	TestsPassed              int64   `json:"tests_passed"`
}

// OverallStats представляет сводную статистику по всем пользователям
type OverallStats struct {
	TotalTests   int64   `json:"total_tests"`
	AverageScore float64 `json:"average_score"`
	PassRate     float64 `json:"pass_rate"`
}

// ResultRepository определяет методы для работы с результатами тестов
type ResultRepository interface {
	Save(result *entity.TestResult) error
	GetByID(id uint) (*entity.TestResult, error)
	GetByUserID(userID uint) ([]entity.TestResult, error)
	// GetLatest возвращает последний результат пользователя (mode == "" - любой режим)
	GetLatest(userID uint, mode string) (*entity.TestResult, error)
	// GetUserStats возвращает статистику пользователя за период (mode == "all" - все режимы)
	GetUserStats(userID uint, mode string, from, to *time.Time) (*UserStats, error)
	// GetOverallStats возвращает сводную статистику (mode == "" - все режимы)
	GetOverallStats(mode string) (*OverallStats, error)
}
