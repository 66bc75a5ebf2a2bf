package service

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/yourusername/drivetest-api/internal/domain/entity"
	"github.com/yourusername/drivetest-api/internal/domain/repository"
	apperrors "github.com/yourusername/drivetest-api/internal/pkg/errors"
)

// QuestionService предоставляет методы для работы с вопросами
type QuestionService struct {
	questionRepo repository.QuestionRepository
	testRepo     repository.TestRepository
}

// NewQuestionService создает новый сервис вопросов
func NewQuestionService(questionRepo repository.QuestionRepository, testRepo repository.TestRepository) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		testRepo:     testRepo,
	}
}

// GetQuestions возвращает вопросы с фильтрами и общее количество
func (s *QuestionService) GetQuestions(testID uint, search string, page, limit int) ([]entity.Question, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	} else if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit
	return s.questionRepo.List(testID, search, limit, offset)
}

// GetQuestionByID возвращает вопрос по ID
func (s *QuestionService) GetQuestionByID(id uint) (*entity.Question, error) {
	return s.questionRepo.GetByID(id)
}

// GetTestQuestions возвращает вопросы темы (count <= 0 - все)
func (s *QuestionService) GetTestQuestions(testID uint, count int) ([]entity.Question, error) {
	if _, err := s.testRepo.GetByID(testID); err != nil {
		return nil, err
	}
	return s.questionRepo.GetByTestID(testID, count)
}

// GetQuestionsForExport возвращает все вопросы для выгрузки
// (testID == 0 - вопросы всех тем)
func (s *QuestionService) GetQuestionsForExport(testID uint) ([]entity.Question, error) {
	if testID != 0 {
		if _, err := s.testRepo.GetByID(testID); err != nil {
			return nil, err
		}
		return s.questionRepo.GetByTestID(testID, 0)
	}
	return s.questionRepo.ListAll()
}

// GetRandomQuestions возвращает count случайных вопросов, распределенных
// по темам максимально равномерно (стратифицированная выборка).
//
// Алгоритм:
//  1. Собираем ID всех тем, у которых есть вопросы.
//  2. Если count меньше числа тем - случайно выбираем count тем.
//  3. Базовая квота = count / тем, остаток распределяется по одному
//     первым (count % тем) темам.
//  4. Из каждой темы берем случайные вопросы по квоте.
//  5. Недобор (в теме меньше вопросов, чем квота) добираем глобальной
//     случайной выборкой, исключая уже выбранные вопросы.
//  6. Перемешиваем итоговый список.
//
// Если пул меньше count, возвращается min(count, пул) уникальных вопросов.
func (s *QuestionService) GetRandomQuestions(count int) ([]entity.Question, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: count must be positive", apperrors.ErrValidation)
	}

	topicIDs, err := s.questionRepo.DistinctTestIDs()
	if err != nil {
		return nil, err
	}

	// Нет ни одной темы с вопросами - чисто глобальная случайная выборка
	if len(topicIDs) == 0 {
		questions, err := s.questionRepo.GetRandomExcluding(count, nil)
		if err != nil {
			return nil, err
		}
		shuffleQuestions(questions)
		return questions, nil
	}

	// Если вопросов запрошено меньше, чем тем - выбираем случайные темы
	effectiveTopics := topicIDs
	if count < len(topicIDs) {
		shuffled := make([]uint, len(topicIDs))
		copy(shuffled, topicIDs)
		rand.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		effectiveTopics = shuffled[:count]
	}

	perTopic := count / len(effectiveTopics)
	remainder := count % len(effectiveTopics)

	questions := make([]entity.Question, 0, count)
	pickedIDs := make([]uint, 0, count)

	for i, topicID := range effectiveTopics {
		quota := perTopic
		if i < remainder {
			quota++
		}
		if quota == 0 {
			continue
		}

		topicQuestions, err := s.questionRepo.GetRandomByTestID(topicID, quota, pickedIDs)
		if err != nil {
			return nil, err
		}
		for _, q := range topicQuestions {
			questions = append(questions, q)
			pickedIDs = append(pickedIDs, q.ID)
		}
	}

	// Добираем недостающее из общего пула, исключая уже выбранные вопросы.
	// Если пул исчерпан, вернется меньше, чем запрошено - без дубликатов.
	if len(questions) < count {
		additional, err := s.questionRepo.GetRandomExcluding(count-len(questions), pickedIDs)
		if err != nil {
			return nil, err
		}
		questions = append(questions, additional...)
	}

	shuffleQuestions(questions)
	return questions, nil
}

// CreateQuestion создает новый вопрос
func (s *QuestionService) CreateQuestion(question *entity.Question) (*entity.Question, error) {
	if err := s.validateQuestion(question); err != nil {
		return nil, err
	}
	if _, err := s.testRepo.GetByID(question.TestID); err != nil {
		return nil, err
	}

	// Присваиваем вариантам ID и выводим isMultipleChoice из числа правильных
	question.NormalizeOptions()

	if err := s.questionRepo.Create(question); err != nil {
		return nil, err
	}
	return question, nil
}

// UpdateQuestion обновляет существующий вопрос
func (s *QuestionService) UpdateQuestion(id uint, update *entity.Question) (*entity.Question, error) {
	existing, err := s.questionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if update.Text != "" {
		existing.Text = update.Text
	}
	if update.Explanation != "" {
		existing.Explanation = update.Explanation
	}
	if update.TestID != 0 {
		if _, err := s.testRepo.GetByID(update.TestID); err != nil {
			return nil, err
		}
		existing.TestID = update.TestID
	}
	existing.ImageURL = update.ImageURL

	if len(update.Options) > 0 {
		existing.Options = update.Options
	}
	if err := s.validateQuestion(existing); err != nil {
		return nil, err
	}

	// Флаг isMultipleChoice всегда пересчитывается по вариантам
	existing.NormalizeOptions()

	if err := s.questionRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteQuestion удаляет вопрос
func (s *QuestionService) DeleteQuestion(id uint) error {
	return s.questionRepo.Delete(id)
}

// validateQuestion проверяет базовые инварианты вопроса
func (s *QuestionService) validateQuestion(q *entity.Question) error {
	if q.Text == "" {
		return fmt.Errorf("%w: question text is required", apperrors.ErrValidation)
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("%w: question must have at least 2 options", apperrors.ErrValidation)
	}
	hasCorrect := false
	for _, opt := range q.Options {
		if opt.Text == "" {
			return fmt.Errorf("%w: option text is required", apperrors.ErrValidation)
		}
		if opt.IsCorrect {
			hasCorrect = true
		}
	}
	if !hasCorrect {
		log.Printf("[QuestionService] Вопрос без правильного варианта: %q", q.Text)
		return fmt.Errorf("%w: question must have at least one correct option", apperrors.ErrValidation)
	}
	return nil
}

// shuffleQuestions перемешивает список вопросов на месте
func shuffleQuestions(questions []entity.Question) {
	rand.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
}
