package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/drivetest-api/internal/domain/entity"
	apperrors "github.com/yourusername/drivetest-api/internal/pkg/errors"
	"github.com/yourusername/drivetest-api/internal/quiz"
)

// MockSettingsRepository реализует repository.SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get() (*entity.ExamSettings, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ExamSettings), args.Error(1)
}

func (m *MockSettingsRepository) Create(settings *entity.ExamSettings) error {
	args := m.Called(settings)
	return args.Error(0)
}

func (m *MockSettingsRepository) Update(settings *entity.ExamSettings) error {
	args := m.Called(settings)
	return args.Error(0)
}

// newQuizServiceForTest собирает QuizService на моках репозиториев
func newQuizServiceForTest(t *testing.T, questionRepo *MockQuestionRepository, settingsRepo *MockSettingsRepository, resultRepo *MockResultRepository) *QuizService {
	t.Helper()
	questionService := NewQuestionService(questionRepo, new(MockTestRepository))
	settingsService := NewSettingsService(settingsRepo, nil)
	resultService := NewResultService(resultRepo)
	return NewQuizService(quiz.NewManager(), questionService, settingsService, resultService)
}

func TestQuizService_SelectMode_ExamUsesAdminSettings(t *testing.T) {
	// Arrange
	questionRepo := new(MockQuestionRepository)
	settingsRepo := new(MockSettingsRepository)
	resultRepo := new(MockResultRepository)
	service := newQuizServiceForTest(t, questionRepo, settingsRepo, resultRepo)

	settingsRepo.On("Get").Return(&entity.ExamSettings{
		ID: 1, TimeLimit: 45, QuestionCount: 40, AttemptsAllowed: 3,
	}, nil)

	// Act
	session, err := service.SelectMode(1, entity.ModeExam)

	// Assert: настройки сессии взяты из административных настроек экзамена
	require.NoError(t, err)
	assert.Equal(t, 45, session.Settings().TimeLimit)
	assert.Equal(t, 40, session.Settings().QuestionCount)
	assert.Equal(t, 3, session.Settings().AttemptsAllowed)
}

func TestQuizService_SelectMode_InvalidMode(t *testing.T) {
	// Arrange
	service := newQuizServiceForTest(t, new(MockQuestionRepository), new(MockSettingsRepository), new(MockResultRepository))

	// Act
	_, err := service.SelectMode(1, "marathon")

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestQuizService_UpdateSessionSettings_RejectedForExam(t *testing.T) {
	// Arrange
	questionRepo := new(MockQuestionRepository)
	settingsRepo := new(MockSettingsRepository)
	service := newQuizServiceForTest(t, questionRepo, settingsRepo, new(MockResultRepository))

	settingsRepo.On("Get").Return(&entity.ExamSettings{ID: 1, TimeLimit: 45, QuestionCount: 40, AttemptsAllowed: 3}, nil)
	_, err := service.SelectMode(1, entity.ModeExam)
	require.NoError(t, err)

	// Act: попытка изменить зафиксированные настройки экзамена
	_, err = service.UpdateSessionSettings(1, quiz.Settings{TimeLimit: 5, QuestionCount: 5, AttemptsAllowed: 0})

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation, "Настройки экзамена задаются только администратором")
}

func TestQuizService_StartSession_ThematicRequiresTopic(t *testing.T) {
	// Arrange
	service := newQuizServiceForTest(t, new(MockQuestionRepository), new(MockSettingsRepository), new(MockResultRepository))
	_, err := service.SelectMode(1, entity.ModeThematic)
	require.NoError(t, err)

	// Act
	_, err = service.StartSession(1, 0)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation, "Тематический режим без темы должен отклоняться")
}

func TestQuizService_FullPracticeFlow_SavesResult(t *testing.T) {
	// Arrange: практика на 4 вопроса, 3 верных ответа
	questionRepo := new(MockQuestionRepository)
	settingsRepo := new(MockSettingsRepository)
	resultRepo := new(MockResultRepository)
	service := newQuizServiceForTest(t, questionRepo, settingsRepo, resultRepo)

	pool := make([]entity.Question, 4)
	for i := range pool {
		pool[i] = entity.Question{
			ID: uint(i + 1),
			Options: entity.OptionArray{
				{ID: 1, Text: "Верный", IsCorrect: true},
				{ID: 2, Text: "Неверный"},
			},
		}
	}
	questionRepo.On("DistinctTestIDs").Return([]uint{}, nil)
	questionRepo.On("GetRandomExcluding", mock.Anything, mock.Anything).Return(pool, nil)

	var savedResult *entity.TestResult
	resultRepo.On("Save", mock.Anything).Run(func(args mock.Arguments) {
		savedResult = args.Get(0).(*entity.TestResult)
	}).Return(nil)

	_, err := service.SelectMode(1, entity.ModePractice)
	require.NoError(t, err)
	session, err := service.StartSession(1, 0)
	require.NoError(t, err)

	// Act: отвечаем на первые 3 вопроса верно, на последний неверно
	questions := session.Questions()
	for i := 0; i < 3; i++ {
		require.NoError(t, service.Answer(1, questions[i].ID, 1))
	}
	require.NoError(t, service.Answer(1, questions[3].ID, 2))

	summary, result, err := service.FinishSession(1)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, 3, summary.CorrectAnswers)
	assert.InDelta(t, 75.0, summary.Score, 0.001)

	require.NotNil(t, savedResult, "Итог должен сохраняться в репозиторий")
	assert.Equal(t, entity.ModePractice, savedResult.TestMode)
	assert.Equal(t, uint(1), savedResult.UserID)
	assert.Equal(t, result.TotalQuestions, savedResult.TotalQuestions)
}

func TestQuizService_CancelSession_NoResultSaved(t *testing.T) {
	// Arrange
	questionRepo := new(MockQuestionRepository)
	resultRepo := new(MockResultRepository)
	service := newQuizServiceForTest(t, questionRepo, new(MockSettingsRepository), resultRepo)

	pool := []entity.Question{{
		ID:      1,
		Options: entity.OptionArray{{ID: 1, IsCorrect: true}, {ID: 2}},
	}}
	questionRepo.On("DistinctTestIDs").Return([]uint{}, nil)
	questionRepo.On("GetRandomExcluding", mock.Anything, mock.Anything).Return(pool, nil)

	_, err := service.SelectMode(1, entity.ModePractice)
	require.NoError(t, err)
	_, err = service.StartSession(1, 0)
	require.NoError(t, err)

	// Act
	err = service.CancelSession(1)

	// Assert: сессия удалена, результат не сохранялся
	require.NoError(t, err)
	resultRepo.AssertNotCalled(t, "Save", mock.Anything)
	_, err = service.GetSession(1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestQuizService_GetSession_NotFound(t *testing.T) {
	// Arrange
	service := newQuizServiceForTest(t, new(MockQuestionRepository), new(MockSettingsRepository), new(MockResultRepository))

	// Act
	_, err := service.GetSession(77)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
