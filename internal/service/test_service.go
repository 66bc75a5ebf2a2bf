package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/drivetest-api/internal/domain/entity"
	"github.com/yourusername/drivetest-api/internal/domain/repository"
	apperrors "github.com/yourusername/drivetest-api/internal/pkg/errors"
)

const (
	topicsCacheKey = "tests:topics"
	topicsCacheTTL = 5 * time.Minute
)

// TestService предоставляет методы для работы с тестами (темами)
type TestService struct {
	testRepo     repository.TestRepository
	questionRepo repository.QuestionRepository
	cacheRepo    repository.CacheRepository
}

// NewTestService создает новый сервис тестов
func NewTestService(
	testRepo repository.TestRepository,
	questionRepo repository.QuestionRepository,
	cacheRepo repository.CacheRepository,
) *TestService {
	return &TestService{
		testRepo:     testRepo,
		questionRepo: questionRepo,
		cacheRepo:    cacheRepo,
	}
}

// GetTests возвращает тесты с фильтрами и актуальным числом вопросов
func (s *TestService) GetTests(search, mode string, page, limit int) ([]entity.Test, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	} else if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	tests, total, err := s.testRepo.List(search, mode, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	if err := s.fillQuestionCounts(tests); err != nil {
		return nil, 0, err
	}
	return tests, total, nil
}

// GetTestByID возвращает тест по ID с актуальным числом вопросов
func (s *TestService) GetTestByID(id uint) (*entity.Test, error) {
	test, err := s.testRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	count, err := s.questionRepo.CountByTestID(id)
	if err != nil {
		return nil, err
	}
	test.QuestionCount = count
	return test, nil
}

// GetTopics возвращает список всех тем для выбора в тематическом режиме.
// Результат кешируется в Redis.
func (s *TestService) GetTopics() ([]entity.Test, error) {
	if s.cacheRepo != nil {
		var cached []entity.Test
		if err := s.cacheRepo.GetJSON(topicsCacheKey, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[TestService] Ошибка чтения кеша тем: %v", err)
		}
	}

	topics, err := s.testRepo.ListAll()
	if err != nil {
		return nil, err
	}
	if err := s.fillQuestionCounts(topics); err != nil {
		return nil, err
	}

	if s.cacheRepo != nil {
		if err := s.cacheRepo.SetJSON(topicsCacheKey, topics, topicsCacheTTL); err != nil {
			log.Printf("[TestService] Ошибка записи кеша тем: %v", err)
		}
	}
	return topics, nil
}

// CreateTest создает новый тест с уникальным названием
func (s *TestService) CreateTest(test *entity.Test) (*entity.Test, error) {
	if err := s.validateTest(test); err != nil {
		return nil, err
	}

	existing, err := s.testRepo.GetByTitle(test.Title)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		// Дубликат названия показывается клиенту как toast
		return nil, apperrors.NewToastOnly("Тест с таким названием уже существует")
	}

	if err := s.testRepo.Create(test); err != nil {
		return nil, err
	}
	s.invalidateTopicsCache()
	return test, nil
}

// UpdateTest обновляет существующий тест
func (s *TestService) UpdateTest(id uint, update *entity.Test) (*entity.Test, error) {
	existing, err := s.testRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if update.Title != "" && update.Title != existing.Title {
		other, err := s.testRepo.GetByTitle(update.Title)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, apperrors.NewToastOnly("Тест с таким названием уже существует")
		}
		existing.Title = update.Title
	}
	if update.Description != "" {
		existing.Description = update.Description
	}
	if update.Mode != "" {
		if !entity.IsValidMode(update.Mode) {
			return nil, fmt.Errorf("%w: invalid test mode %q", apperrors.ErrValidation, update.Mode)
		}
		existing.Mode = update.Mode
	}
	if update.ImageURL != "" {
		existing.ImageURL = update.ImageURL
	}

	if err := s.testRepo.Update(existing); err != nil {
		return nil, err
	}
	s.invalidateTopicsCache()
	return existing, nil
}

// DeleteTest удаляет тест вместе со всеми его вопросами
func (s *TestService) DeleteTest(id uint) error {
	if _, err := s.testRepo.GetByID(id); err != nil {
		return err
	}
	if err := s.questionRepo.DeleteByTestID(id); err != nil {
		return err
	}
	if err := s.testRepo.Delete(id); err != nil {
		return err
	}
	s.invalidateTopicsCache()
	log.Printf("[TestService] Тест ID=%d удален вместе с вопросами", id)
	return nil
}

// fillQuestionCounts подставляет актуальное число вопросов в каждый тест
func (s *TestService) fillQuestionCounts(tests []entity.Test) error {
	for i := range tests {
		count, err := s.questionRepo.CountByTestID(tests[i].ID)
		if err != nil {
			return err
		}
		tests[i].QuestionCount = count
	}
	return nil
}

func (s *TestService) validateTest(test *entity.Test) error {
	if test.Title == "" {
		return fmt.Errorf("%w: test title is required", apperrors.ErrValidation)
	}
	if test.Mode == "" {
		test.Mode = entity.ModeThematic
	}
	if !entity.IsValidMode(test.Mode) {
		return fmt.Errorf("%w: invalid test mode %q", apperrors.ErrValidation, test.Mode)
	}
	return nil
}

func (s *TestService) invalidateTopicsCache() {
	if s.cacheRepo == nil {
		return
	}
	if err := s.cacheRepo.Delete(topicsCacheKey); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		log.Printf("[TestService] Ошибка инвалидации кеша тем: %v", err)
	}
}
