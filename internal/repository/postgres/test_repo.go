package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/drivetest-api/internal/domain/entity"
	apperrors "github.com/yourusername/drivetest-api/internal/pkg/errors"
)

// TestRepo реализует repository.TestRepository
type TestRepo struct {
	db *gorm.DB
}

// NewTestRepo создает новый репозиторий тестов
func NewTestRepo(db *gorm.DB) *TestRepo {
	return &TestRepo{db: db}
}

// Create создает новый тест
func (r *TestRepo) Create(test *entity.Test) error {
	return r.db.Create(test).Error
}

// GetByID возвращает тест по ID
func (r *TestRepo) GetByID(id uint) (*entity.Test, error) {
	var test entity.Test
	err := r.db.First(&test, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &test, nil
}

// GetByTitle возвращает тест по названию
func (r *TestRepo) GetByTitle(title string) (*entity.Test, error) {
	var test entity.Test
	err := r.db.Where("title = ?", title).First(&test).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &test, nil
}

// List возвращает тесты с фильтрами и общее количество
func (r *TestRepo) List(search, mode string, limit, offset int) ([]entity.Test, int64, error) {
	var tests []entity.Test
	var total int64

	query := r.db.Model(&entity.Test{})
	if search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}
	if mode != "" {
		query = query.Where("mode = ?", mode)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&tests).Error
	if err != nil {
		return nil, 0, err
	}
	return tests, total, nil
}

// ListAll возвращает все тесты без пагинации
func (r *TestRepo) ListAll() ([]entity.Test, error) {
	var tests []entity.Test
	err := r.db.Order("title").Find(&tests).Error
	if err != nil {
		return nil, err
	}
	return tests, nil
}

// Update обновляет информацию о тесте
func (r *TestRepo) Update(test *entity.Test) error {
	return r.db.Save(test).Error
}

// Delete удаляет тест
func (r *TestRepo) Delete(id uint) error {
	result := r.db.Delete(&entity.Test{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
