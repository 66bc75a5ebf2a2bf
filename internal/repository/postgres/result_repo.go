package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/drivetest-api/internal/domain/entity"
	"github.com/yourusername/drivetest-api/internal/domain/repository"
	apperrors "github.com/yourusername/drivetest-api/internal/pkg/errors"
)

// ResultRepo реализует repository.ResultRepository
type ResultRepo struct {
	db *gorm.DB
}

// NewResultRepo создает новый репозиторий результатов
func NewResultRepo(db *gorm.DB) *ResultRepo {
	return &ResultRepo{db: db}
}

// Save сохраняет результат теста
func (r *ResultRepo) Save(result *entity.TestResult) error {
	return r.db.Create(result).Error
}

// GetByID возвращает результат по ID
func (r *ResultRepo) GetByID(id uint) (*entity.TestResult, error) {
	var result entity.TestResult
	err := r.db.First(&result, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

// GetByUserID возвращает все результаты пользователя (новые первыми)
func (r *ResultRepo) GetByUserID(userID uint) ([]entity.TestResult, error) {
	var results []entity.TestResult
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// GetLatest возвращает последний результат пользователя (mode == "" - любой режим)
func (r *ResultRepo) GetLatest(userID uint, mode string) (*entity.TestResult, error) {
	var result entity.TestResult
	query := r.db.Where("user_id = ?", userID)
	if mode != "" {
		query = query.Where("test_mode = ?", mode)
	}
	err := query.Order("created_at DESC").First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

// GetUserStats возвращает агрегированную статистику пользователя за период
func (r *ResultRepo) GetUserStats(userID uint, mode string, from, to *time.Time) (*repository.UserStats, error) {
	query := r.db.Model(&entity.TestResult{}).Where("user_id = ?", userID)
	if mode != "" && mode != "all" {
		query = query.Where("test_mode = ?", mode)
	}
	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("created_at <= ?", *to)
	}

	var stats repository.UserStats
	err := query.Select(
		"COUNT(*) AS total_tests, " +
			"COALESCE(ROUND(AVG(score)::numeric, 1), 0) AS average_score, " +
			"COALESCE(ROUND(AVG(correct_answers::float / NULLIF(total_questions, 0) * 100)::numeric, 1), 0) AS correct_answer_percentage, " +
			"COALESCE(SUM(CASE WHEN passed THEN 1 ELSE 0 END), 0) AS tests_passed",
	).Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetOverallStats возвращает сводную статистику по всем пользователям
func (r *ResultRepo) GetOverallStats(mode string) (*repository.OverallStats, error) {
	query := r.db.Model(&entity.TestResult{})
	if mode != "" {
		query = query.Where("test_mode = ?", mode)
	}

	var stats repository.OverallStats
	err := query.Select(
		"COUNT(*) AS total_tests, " +
			"COALESCE(ROUND(AVG(score)::numeric, 2), 0) AS average_score, " +
			"COALESCE(ROUND(AVG(CASE WHEN passed THEN 100.0 ELSE 0 END)::numeric, 2), 0) AS pass_rate",
	).Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
