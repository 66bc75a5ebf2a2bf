package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/drivetest-api/internal/domain/entity"
	apperrors "github.com/yourusername/drivetest-api/internal/pkg/errors"
)

// SettingsRepo реализует repository.SettingsRepository
type SettingsRepo struct {
	db *gorm.DB
}

// NewSettingsRepo создает новый репозиторий настроек экзамена
func NewSettingsRepo(db *gorm.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// Get возвращает единственную запись настроек
func (r *SettingsRepo) Get() (*entity.ExamSettings, error) {
	var settings entity.ExamSettings
	err := r.db.First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &settings, nil
}

// Create создает запись настроек
func (r *SettingsRepo) Create(settings *entity.ExamSettings) error {
	return r.db.Create(settings).Error
}

// Update обновляет запись настроек
func (r *SettingsRepo) Update(settings *entity.ExamSettings) error {
	return r.db.Save(settings).Error
}
