package repository

import (
	"github.com/yourusername/drivetest-api/internal/domain/entity"
)

// SettingsRepository определяет методы для работы с настройками экзамена
type SettingsRepository interface {
	// Get возвращает единственную запись настроек (ErrNotFound, если её нет)
	Get() (*entity.ExamSettings, error)
	Create(settings *entity.ExamSettings) error
	Update(settings *entity.ExamSettings) error
}
