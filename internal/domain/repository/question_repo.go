package repository

import (
	"github.com/yourusername/drivetest-api/internal/domain/entity"
)

// QuestionRepository определяет методы для работы с вопросами
type QuestionRepository interface {
	Create(question *entity.Question) error
	GetByID(id uint) (*entity.Question, error)
	// List возвращает вопросы с фильтрами и общее количество
	List(testID uint, search string, limit, offset int) ([]entity.Question, int64, error)
	// GetByTestID возвращает до limit вопросов темы (limit <= 0 - все)
	GetByTestID(testID uint, limit int) ([]entity.Question, error)
	// ListAll возвращает все вопросы без пагинации (для экспорта)
	ListAll() ([]entity.Question, error)
	Update(question *entity.Question) error
	Delete(id uint) error
	// DeleteByTestID удаляет все вопросы темы (каскад при удалении теста)
	DeleteByTestID(testID uint) error
	CountByTestID(testID uint) (int64, error)

	// Методы стратифицированной выборки
	// DistinctTestIDs возвращает ID всех тем, у которых есть вопросы
	DistinctTestIDs() ([]uint, error)
	// GetRandomByTestID возвращает случайные вопросы темы, исключая excludeIDs
	GetRandomByTestID(testID uint, limit int, excludeIDs []uint) ([]entity.Question, error)
	// GetRandomExcluding возвращает случайные вопросы из всего пула, исключая excludeIDs
	GetRandomExcluding(limit int, excludeIDs []uint) ([]entity.Question, error)
}
