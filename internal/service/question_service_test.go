package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/drivetest-api/internal/domain/entity"
	apperrors "github.com/yourusername/drivetest-api/internal/pkg/errors"
)

// ============================================================================
// Моки репозиториев для тестов сервисов
// ============================================================================

// MockQuestionRepository реализует repository.QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(question *entity.Question) error {
	args := m.Called(question)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByID(id uint) (*entity.Question, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) List(testID uint, search string, limit, offset int) ([]entity.Question, int64, error) {
	args := m.Called(testID, search, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.Question), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuestionRepository) GetByTestID(testID uint, limit int) ([]entity.Question, error) {
	args := m.Called(testID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) ListAll() ([]entity.Question, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) Update(question *entity.Question) error {
	args := m.Called(question)
	return args.Error(0)
}

func (m *MockQuestionRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockQuestionRepository) DeleteByTestID(testID uint) error {
	args := m.Called(testID)
	return args.Error(0)
}

func (m *MockQuestionRepository) CountByTestID(testID uint) (int64, error) {
	args := m.Called(testID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuestionRepository) DistinctTestIDs() ([]uint, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockQuestionRepository) GetRandomByTestID(testID uint, limit int, excludeIDs []uint) ([]entity.Question, error) {
	args := m.Called(testID, limit, excludeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetRandomExcluding(limit int, excludeIDs []uint) ([]entity.Question, error) {
	args := m.Called(limit, excludeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

// MockTestRepository реализует repository.TestRepository
type MockTestRepository struct {
	mock.Mock
}

func (m *MockTestRepository) Create(test *entity.Test) error {
	args := m.Called(test)
	return args.Error(0)
}

func (m *MockTestRepository) GetByID(id uint) (*entity.Test, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Test), args.Error(1)
}

func (m *MockTestRepository) GetByTitle(title string) (*entity.Test, error) {
	args := m.Called(title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Test), args.Error(1)
}

func (m *MockTestRepository) List(search, mode string, limit, offset int) ([]entity.Test, int64, error) {
	args := m.Called(search, mode, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.Test), args.Get(1).(int64), args.Error(2)
}

func (m *MockTestRepository) ListAll() ([]entity.Test, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Test), args.Error(1)
}

func (m *MockTestRepository) Update(test *entity.Test) error {
	args := m.Called(test)
	return args.Error(0)
}

func (m *MockTestRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// questionsForTopic создает count вопросов темы testID с ID начиная со startID
func questionsForTopic(testID uint, startID uint, count int) []entity.Question {
	questions := make([]entity.Question, count)
	for i := 0; i < count; i++ {
		questions[i] = entity.Question{
			ID:     startID + uint(i),
			TestID: testID,
			Text:   "Вопрос",
		}
	}
	return questions
}

// ============================================================================
// Тесты стратифицированной выборки
// ============================================================================

func TestQuestionService_GetRandomQuestions_ProportionalAllocation(t *testing.T) {
	// Arrange: 3 темы, запрошено 6 вопросов - по 2 из каждой темы
	questionRepo := new(MockQuestionRepository)
	testRepo := new(MockTestRepository)
	service := NewQuestionService(questionRepo, testRepo)

	questionRepo.On("DistinctTestIDs").Return([]uint{1, 2, 3}, nil)
	questionRepo.On("GetRandomByTestID", uint(1), 2, mock.Anything).Return(questionsForTopic(1, 10, 2), nil)
	questionRepo.On("GetRandomByTestID", uint(2), 2, mock.Anything).Return(questionsForTopic(2, 20, 2), nil)
	questionRepo.On("GetRandomByTestID", uint(3), 2, mock.Anything).Return(questionsForTopic(3, 30, 2), nil)

	// Act
	questions, err := service.GetRandomQuestions(6)

	// Assert
	require.NoError(t, err)
	assert.Len(t, questions, 6, "Должно вернуться ровно 6 вопросов")

	perTopic := map[uint]int{}
	for _, q := range questions {
		perTopic[q.TestID]++
	}
	assert.Equal(t, map[uint]int{1: 2, 2: 2, 3: 2}, perTopic, "Вопросы должны распределяться по темам равномерно")
	questionRepo.AssertExpectations(t)
}

func TestQuestionService_GetRandomQuestions_RemainderDistribution(t *testing.T) {
	// Arrange: 3 темы, запрошено 5 вопросов - квоты 2, 2, 1
	questionRepo := new(MockQuestionRepository)
	testRepo := new(MockTestRepository)
	service := NewQuestionService(questionRepo, testRepo)

	questionRepo.On("DistinctTestIDs").Return([]uint{1, 2, 3}, nil)
	questionRepo.On("GetRandomByTestID", uint(1), 2, mock.Anything).Return(questionsForTopic(1, 10, 2), nil)
	questionRepo.On("GetRandomByTestID", uint(2), 2, mock.Anything).Return(questionsForTopic(2, 20, 2), nil)
	questionRepo.On("GetRandomByTestID", uint(3), 1, mock.Anything).Return(questionsForTopic(3, 30, 1), nil)

	// Act
	questions, err := service.GetRandomQuestions(5)

	// Assert
	require.NoError(t, err)
	assert.Len(t, questions, 5)
	questionRepo.AssertExpectations(t)
}

func TestQuestionService_GetRandomQuestions_TopicSubsetWhenCountLessThanTopics(t *testing.T) {
	// Arrange: 4 темы, запрошено 2 вопроса - выбираются 2 случайные темы по 1 вопросу
	questionRepo := new(MockQuestionRepository)
	testRepo := new(MockTestRepository)
	service := NewQuestionService(questionRepo, testRepo)

	questionRepo.On("DistinctTestIDs").Return([]uint{1, 2, 3, 4}, nil)
	// Какие именно темы выберутся - случайность, поэтому допускаем любые
	questionRepo.On("GetRandomByTestID", uint(1), 1, mock.Anything).Return(questionsForTopic(1, 10, 1), nil).Maybe()
	questionRepo.On("GetRandomByTestID", uint(2), 1, mock.Anything).Return(questionsForTopic(2, 20, 1), nil).Maybe()
	questionRepo.On("GetRandomByTestID", uint(3), 1, mock.Anything).Return(questionsForTopic(3, 30, 1), nil).Maybe()
	questionRepo.On("GetRandomByTestID", uint(4), 1, mock.Anything).Return(questionsForTopic(4, 40, 1), nil).Maybe()

	// Act
	questions, err := service.GetRandomQuestions(2)

	// Assert
	require.NoError(t, err)
	assert.Len(t, questions, 2, "Должно вернуться по одному вопросу из двух случайных тем")

	topics := map[uint]bool{}
	for _, q := range questions {
		topics[q.TestID] = true
	}
	assert.Len(t, topics, 2, "Вопросы должны прийти из двух разных тем")
}

func TestQuestionService_GetRandomQuestions_TopUpOnShortfall(t *testing.T) {
	// Arrange: в теме 2 меньше вопросов, чем квота - недобор добирается из общего пула
	questionRepo := new(MockQuestionRepository)
	testRepo := new(MockTestRepository)
	service := NewQuestionService(questionRepo, testRepo)

	questionRepo.On("DistinctTestIDs").Return([]uint{1, 2}, nil)
	questionRepo.On("GetRandomByTestID", uint(1), 3, mock.Anything).Return(questionsForTopic(1, 10, 3), nil)
	questionRepo.On("GetRandomByTestID", uint(2), 3, mock.Anything).Return(questionsForTopic(2, 20, 1), nil)
	// Не хватает 2 вопросов, добор исключает уже выбранные
	questionRepo.On("GetRandomExcluding", 2, mock.MatchedBy(func(excludeIDs []uint) bool {
		return len(excludeIDs) == 4
	})).Return(questionsForTopic(1, 50, 2), nil)

	// Act
	questions, err := service.GetRandomQuestions(6)

	// Assert
	require.NoError(t, err)
	assert.Len(t, questions, 6)
	questionRepo.AssertExpectations(t)
}

func TestQuestionService_GetRandomQuestions_PoolSmallerThanCount(t *testing.T) {
	// Arrange: во всем пуле только 3 вопроса при запросе 10
	questionRepo := new(MockQuestionRepository)
	testRepo := new(MockTestRepository)
	service := NewQuestionService(questionRepo, testRepo)

	questionRepo.On("DistinctTestIDs").Return([]uint{1}, nil)
	questionRepo.On("GetRandomByTestID", uint(1), 10, mock.Anything).Return(questionsForTopic(1, 10, 3), nil)
	questionRepo.On("GetRandomExcluding", 7, mock.Anything).Return([]entity.Question{}, nil)

	// Act
	questions, err := service.GetRandomQuestions(10)

	// Assert: возвращается min(count, пул) без дубликатов
	require.NoError(t, err)
	assert.Len(t, questions, 3, "При нехватке вопросов возвращается весь пул без дубликатов")

	seen := map[uint]bool{}
	for _, q := range questions {
		assert.False(t, seen[q.ID], "Вопросы не должны дублироваться")
		seen[q.ID] = true
	}
}

func TestQuestionService_GetRandomQuestions_NoTopics(t *testing.T) {
	// Arrange: тем с вопросами нет - глобальная случайная выборка
	questionRepo := new(MockQuestionRepository)
	testRepo := new(MockTestRepository)
	service := NewQuestionService(questionRepo, testRepo)

	questionRepo.On("DistinctTestIDs").Return([]uint{}, nil)
	questionRepo.On("GetRandomExcluding", 5, mock.Anything).Return(questionsForTopic(0, 1, 5), nil)

	// Act
	questions, err := service.GetRandomQuestions(5)

	// Assert
	require.NoError(t, err)
	assert.Len(t, questions, 5)
	questionRepo.AssertExpectations(t)
}

func TestQuestionService_GetRandomQuestions_InvalidCount(t *testing.T) {
	// Arrange
	service := NewQuestionService(new(MockQuestionRepository), new(MockTestRepository))

	// Act
	_, err := service.GetRandomQuestions(0)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation, "Нулевой count должен давать ошибку валидации")
}

// ============================================================================
// Тесты CRUD вопросов
// ============================================================================

func TestQuestionService_CreateQuestion_NormalizesOptions(t *testing.T) {
	// Arrange
	questionRepo := new(MockQuestionRepository)
	testRepo := new(MockTestRepository)
	service := NewQuestionService(questionRepo, testRepo)

	testRepo.On("GetByID", uint(1)).Return(&entity.Test{ID: 1, Title: "Знаки"}, nil)
	questionRepo.On("Create", mock.Anything).Return(nil)

	question := &entity.Question{
		TestID: 1,
		Text:   "Что означает этот знак?",
		Options: entity.OptionArray{
			{Text: "A", IsCorrect: true},
			{Text: "B", IsCorrect: true},
			{Text: "C"},
		},
	}

	// Act
	created, err := service.CreateQuestion(question)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(1), created.Options[0].ID, "Вариантам должны присвоиться последовательные ID")
	assert.Equal(t, uint(3), created.Options[2].ID)
	assert.True(t, created.IsMultipleChoice, "Два правильных варианта должны дать IsMultipleChoice=true")
	questionRepo.AssertExpectations(t)
}

func TestQuestionService_CreateQuestion_RequiresCorrectOption(t *testing.T) {
	// Arrange
	service := NewQuestionService(new(MockQuestionRepository), new(MockTestRepository))

	question := &entity.Question{
		TestID: 1,
		Text:   "Вопрос без правильного ответа",
		Options: entity.OptionArray{
			{Text: "A"},
			{Text: "B"},
		},
	}

	// Act
	_, err := service.CreateQuestion(question)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation, "Вопрос без правильного варианта должен отклоняться")
}

func TestQuestionService_CreateQuestion_UnknownTest(t *testing.T) {
	// Arrange
	questionRepo := new(MockQuestionRepository)
	testRepo := new(MockTestRepository)
	service := NewQuestionService(questionRepo, testRepo)

	testRepo.On("GetByID", uint(99)).Return(nil, apperrors.ErrNotFound)

	question := &entity.Question{
		TestID: 99,
		Text:   "Вопрос",
		Options: entity.OptionArray{
			{Text: "A", IsCorrect: true},
			{Text: "B"},
		},
	}

	// Act
	_, err := service.CreateQuestion(question)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "Вопрос для несуществующего теста должен отклоняться")
}
