package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/drivetest-api/internal/domain/entity"
	"github.com/yourusername/drivetest-api/internal/domain/repository"
	apperrors "github.com/yourusername/drivetest-api/internal/pkg/errors"
)

// MockResultRepository реализует repository.ResultRepository
type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) Save(result *entity.TestResult) error {
	args := m.Called(result)
	return args.Error(0)
}

func (m *MockResultRepository) GetByID(id uint) (*entity.TestResult, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TestResult), args.Error(1)
}

func (m *MockResultRepository) GetByUserID(userID uint) ([]entity.TestResult, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.TestResult), args.Error(1)
}

func (m *MockResultRepository) GetLatest(userID uint, mode string) (*entity.TestResult, error) {
	args := m.Called(userID, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TestResult), args.Error(1)
}

func (m *MockResultRepository) GetUserStats(userID uint, mode string, from, to *time.Time) (*repository.UserStats, error) {
	args := m.Called(userID, mode, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.UserStats), args.Error(1)
}

func (m *MockResultRepository) GetOverallStats(mode string) (*repository.OverallStats, error) {
	args := m.Called(mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.OverallStats), args.Error(1)
}

// validResult возвращает корректный результат для тестов
func validResult() *entity.TestResult {
	return &entity.TestResult{
		UserID:         1,
		TestMode:       entity.ModeExam,
		TotalQuestions: 20,
		CorrectAnswers: 18,
		Score:          90,
		Passed:         true,
		TimeSpent:      600,
		Answers:        entity.AnswerArray{{QuestionID: 1, SelectedOptionID: 2, IsCorrect: true}},
	}
}

func TestResultService_SaveResult_Valid(t *testing.T) {
	// Arrange
	resultRepo := new(MockResultRepository)
	service := NewResultService(resultRepo)
	resultRepo.On("Save", mock.Anything).Return(nil)

	// Act
	saved, err := service.SaveResult(validResult())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, entity.ModeExam, saved.TestMode)
	resultRepo.AssertExpectations(t)
}

func TestResultService_SaveResult_Validation(t *testing.T) {
	// Arrange
	service := NewResultService(new(MockResultRepository))

	testCases := []struct {
		name   string
		mutate func(r *entity.TestResult)
	}{
		{"без пользователя", func(r *entity.TestResult) { r.UserID = 0 }},
		{"неизвестный режим", func(r *entity.TestResult) { r.TestMode = "marathon" }},
		{"ноль вопросов", func(r *entity.TestResult) { r.TotalQuestions = 0 }},
		{"верных больше, чем вопросов", func(r *entity.TestResult) { r.CorrectAnswers = 25 }},
		{"отрицательный счет верных", func(r *entity.TestResult) { r.CorrectAnswers = -1 }},
		{"процент вне диапазона", func(r *entity.TestResult) { r.Score = 101 }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := validResult()
			tc.mutate(result)

			// Act
			_, err := service.SaveResult(result)

			// Assert
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestResultService_GetResultByID_OwnerAccess(t *testing.T) {
	// Arrange
	resultRepo := new(MockResultRepository)
	service := NewResultService(resultRepo)

	stored := validResult()
	stored.ID = 7
	resultRepo.On("GetByID", uint(7)).Return(stored, nil)

	// Act: владелец читает свой результат
	result, err := service.GetResultByID(7, 1, entity.RoleStudent)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(7), result.ID)
}

func TestResultService_GetResultByID_ForbiddenForOtherUser(t *testing.T) {
	// Arrange
	resultRepo := new(MockResultRepository)
	service := NewResultService(resultRepo)

	stored := validResult()
	stored.ID = 7
	resultRepo.On("GetByID", uint(7)).Return(stored, nil)

	// Act: чужой результат без прав администратора
	_, err := service.GetResultByID(7, 2, entity.RoleStudent)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrForbidden, "Чужой результат должен быть недоступен обычному пользователю")
}

func TestResultService_GetResultByID_AdminAccess(t *testing.T) {
	// Arrange
	resultRepo := new(MockResultRepository)
	service := NewResultService(resultRepo)

	stored := validResult()
	stored.ID = 7
	resultRepo.On("GetByID", uint(7)).Return(stored, nil)

	// Act: администратор читает чужой результат
	result, err := service.GetResultByID(7, 99, entity.RoleAdmin)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(7), result.ID, "Администратору доступны любые результаты")
}

func TestResultService_GetLatestResult_InvalidMode(t *testing.T) {
	// Arrange
	service := NewResultService(new(MockResultRepository))

	// Act
	_, err := service.GetLatestResult(1, "marathon")

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestResultService_GetUserStats_PeriodValidation(t *testing.T) {
	// Arrange
	service := NewResultService(new(MockResultRepository))
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	// Act: конец периода раньше начала
	_, err := service.GetUserStats(1, "all", &from, &to)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestResultService_GetUserStats_ModeAllMapsToEmpty(t *testing.T) {
	// Arrange
	resultRepo := new(MockResultRepository)
	service := NewResultService(resultRepo)

	resultRepo.On("GetUserStats", uint(1), "", (*time.Time)(nil), (*time.Time)(nil)).
		Return(&repository.UserStats{TotalTests: 3}, nil)

	// Act
	stats, err := service.GetUserStats(1, "all", nil, nil)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalTests)
	resultRepo.AssertExpectations(t)
}
