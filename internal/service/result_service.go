package service

import (
	"fmt"
	"time"

	"github.com/yourusername/drivetest-api/internal/domain/entity"
	"github.com/yourusername/drivetest-api/internal/domain/repository"
	apperrors "github.com/yourusername/drivetest-api/internal/pkg/errors"
)

// ResultService предоставляет методы для работы с результатами тестов
type ResultService struct {
	resultRepo repository.ResultRepository
}

// NewResultService создает новый сервис результатов
func NewResultService(resultRepo repository.ResultRepository) *ResultService {
	return &ResultService{resultRepo: resultRepo}
}

// SaveResult сохраняет результат прохождения теста.
// Результаты неизменяемы: только создание, без обновления.
func (s *ResultService) SaveResult(result *entity.TestResult) (*entity.TestResult, error) {
	if result.UserID == 0 {
		return nil, fmt.Errorf("%w: user id is required", apperrors.ErrValidation)
	}
	if !entity.IsValidMode(result.TestMode) {
		return nil, fmt.Errorf("%w: invalid mode %q", apperrors.ErrValidation, result.TestMode)
	}
	if result.TotalQuestions <= 0 {
		return nil, fmt.Errorf("%w: total questions must be positive", apperrors.ErrValidation)
	}
	if result.CorrectAnswers < 0 || result.CorrectAnswers > result.TotalQuestions {
		return nil, fmt.Errorf("%w: correct answers out of range", apperrors.ErrValidation)
	}
	if result.Score < 0 || result.Score > 100 {
		return nil, fmt.Errorf("%w: score must be between 0 and 100", apperrors.ErrValidation)
	}

	if err := s.resultRepo.Save(result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetResultByID возвращает результат, проверяя право доступа.
// Обычный пользователь видит только свои результаты, админ - любые.
func (s *ResultService) GetResultByID(id, requesterID uint, requesterRole string) (*entity.TestResult, error) {
	result, err := s.resultRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if result.UserID != requesterID && requesterRole != entity.RoleAdmin {
		return nil, fmt.Errorf("%w: нет доступа к этому результату", apperrors.ErrForbidden)
	}
	return result, nil
}

// GetUserResults возвращает все результаты пользователя
func (s *ResultService) GetUserResults(userID uint) ([]entity.TestResult, error) {
	return s.resultRepo.GetByUserID(userID)
}

// GetLatestResult возвращает последний результат пользователя (mode == "" - любой режим)
func (s *ResultService) GetLatestResult(userID uint, mode string) (*entity.TestResult, error) {
	if mode != "" && !entity.IsValidMode(mode) {
		return nil, fmt.Errorf("%w: invalid mode %q", apperrors.ErrValidation, mode)
	}
	return s.resultRepo.GetLatest(userID, mode)
}

// GetUserStats возвращает статистику пользователя за период
func (s *ResultService) GetUserStats(userID uint, mode string, from, to *time.Time) (*repository.UserStats, error) {
	if mode != "" && mode != "all" && !entity.IsValidMode(mode) {
		return nil, fmt.Errorf("%w: invalid mode %q", apperrors.ErrValidation, mode)
	}
	if mode == "all" {
		mode = ""
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, fmt.Errorf("%w: period end is before period start", apperrors.ErrValidation)
	}
	return s.resultRepo.GetUserStats(userID, mode, from, to)
}
