package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/drivetest-api/internal/domain/entity"
	apperrors "github.com/yourusername/drivetest-api/internal/pkg/errors"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// Create создает новый вопрос
func (r *QuestionRepo) Create(question *entity.Question) error {
	return r.db.Create(question).Error
}

// GetByID возвращает вопрос по ID
func (r *QuestionRepo) GetByID(id uint) (*entity.Question, error) {
	var question entity.Question
	err := r.db.First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// List возвращает вопросы с фильтрами и общее количество
func (r *QuestionRepo) List(testID uint, search string, limit, offset int) ([]entity.Question, int64, error) {
	var questions []entity.Question
	var total int64

	query := r.db.Model(&entity.Question{})
	if testID != 0 {
		query = query.Where("test_id = ?", testID)
	}
	if search != "" {
		query = query.Where("text ILIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("id").Limit(limit).Offset(offset).Find(&questions).Error
	if err != nil {
		return nil, 0, err
	}
	return questions, total, nil
}

// GetByTestID возвращает до limit вопросов темы (limit <= 0 - все)
func (r *QuestionRepo) GetByTestID(testID uint, limit int) ([]entity.Question, error) {
	var questions []entity.Question
	query := r.db.Where("test_id = ?", testID).Order("id")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// ListAll возвращает все вопросы без пагинации
func (r *QuestionRepo) ListAll() ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.Order("test_id, id").Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// Update обновляет информацию о вопросе
func (r *QuestionRepo) Update(question *entity.Question) error {
	return r.db.Save(question).Error
}

// Delete удаляет вопрос
func (r *QuestionRepo) Delete(id uint) error {
	result := r.db.Delete(&entity.Question{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteByTestID удаляет все вопросы темы
func (r *QuestionRepo) DeleteByTestID(testID uint) error {
	return r.db.Where("test_id = ?", testID).Delete(&entity.Question{}).Error
}

// CountByTestID возвращает количество вопросов темы
func (r *QuestionRepo) CountByTestID(testID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Question{}).Where("test_id = ?", testID).Count(&count).Error
	return count, err
}

// DistinctTestIDs возвращает ID всех тем, у которых есть вопросы
func (r *QuestionRepo) DistinctTestIDs() ([]uint, error) {
	var ids []uint
	err := r.db.Model(&entity.Question{}).
		Distinct("test_id").
		Where("test_id IS NOT NULL").
		Pluck("test_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// GetRandomByTestID возвращает случайные вопросы темы, исключая excludeIDs
func (r *QuestionRepo) GetRandomByTestID(testID uint, limit int, excludeIDs []uint) ([]entity.Question, error) {
	var questions []entity.Question
	query := r.db.Where("test_id = ?", testID)
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}
	err := query.Order("RANDOM()").Limit(limit).Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// GetRandomExcluding возвращает случайные вопросы из всего пула, исключая excludeIDs
func (r *QuestionRepo) GetRandomExcluding(limit int, excludeIDs []uint) ([]entity.Question, error) {
	var questions []entity.Question
	query := r.db.Model(&entity.Question{})
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}
	err := query.Order("RANDOM()").Limit(limit).Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}
