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
	settingsCacheKey = "exam:settings"
	settingsCacheTTL = 10 * time.Minute
)

// SettingsService предоставляет методы для работы с настройками экзамена.
// Настройки хранятся одной записью; при её отсутствии возвращаются умолчания.
type SettingsService struct {
	settingsRepo repository.SettingsRepository
	cacheRepo    repository.CacheRepository
}

// NewSettingsService создает новый сервис настроек экзамена
func NewSettingsService(settingsRepo repository.SettingsRepository, cacheRepo repository.CacheRepository) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		cacheRepo:    cacheRepo,
	}
}

// GetSettings возвращает текущие настройки экзамена.
// Порядок: кеш, база, значения по умолчанию.
func (s *SettingsService) GetSettings() (*entity.ExamSettings, error) {
	if s.cacheRepo != nil {
		var cached entity.ExamSettings
		if err := s.cacheRepo.GetJSON(settingsCacheKey, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[SettingsService] Ошибка чтения кеша настроек: %v", err)
		}
	}

	settings, err := s.settingsRepo.Get()
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			defaults := entity.DefaultExamSettings()
			return &defaults, nil
		}
		return nil, err
	}

	if s.cacheRepo != nil {
		if err := s.cacheRepo.SetJSON(settingsCacheKey, settings, settingsCacheTTL); err != nil {
			log.Printf("[SettingsService] Ошибка записи кеша настроек: %v", err)
		}
	}
	return settings, nil
}

// UpdateSettings сохраняет настройки экзамена (создает запись при первом вызове)
func (s *SettingsService) UpdateSettings(timeLimit, questionCount, attemptsAllowed int) (*entity.ExamSettings, error) {
	if timeLimit < 1 || timeLimit > 180 {
		return nil, fmt.Errorf("%w: time limit must be between 1 and 180 minutes", apperrors.ErrValidation)
	}
	if questionCount < 1 || questionCount > 200 {
		return nil, fmt.Errorf("%w: question count must be between 1 and 200", apperrors.ErrValidation)
	}
	if attemptsAllowed < 0 {
		return nil, fmt.Errorf("%w: attempts allowed must not be negative", apperrors.ErrValidation)
	}

	settings, err := s.settingsRepo.Get()
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		settings = &entity.ExamSettings{
			TimeLimit:       timeLimit,
			QuestionCount:   questionCount,
			AttemptsAllowed: attemptsAllowed,
		}
		if err := s.settingsRepo.Create(settings); err != nil {
			return nil, err
		}
	} else {
		settings.TimeLimit = timeLimit
		settings.QuestionCount = questionCount
		settings.AttemptsAllowed = attemptsAllowed
		if err := s.settingsRepo.Update(settings); err != nil {
			return nil, err
		}
	}

	s.invalidateCache()
	log.Printf("[SettingsService] Настройки экзамена обновлены: time=%d, questions=%d, attempts=%d",
		timeLimit, questionCount, attemptsAllowed)
	return settings, nil
}

func (s *SettingsService) invalidateCache() {
	if s.cacheRepo == nil {
		return
	}
	if err := s.cacheRepo.Delete(settingsCacheKey); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		log.Printf("[SettingsService] Ошибка инвалидации кеша настроек: %v", err)
	}
}
