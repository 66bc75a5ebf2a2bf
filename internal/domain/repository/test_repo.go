package repository

import (
	"github.com/yourusername/drivetest-api/internal/domain/entity"
)

// TestRepository определяет методы для работы с тестами (темами)
type TestRepository interface {
	Create(test *entity.Test) error
	GetByID(id uint) (*entity.Test, error)
	GetByTitle(title string) (*entity.Test, error)
	// List возвращает тесты с фильтрами и общее количество
	List(search, mode string, limit, offset int) ([]entity.Test, int64, error)
	// ListAll возвращает все тесты без пагинации (для списка тем)
	ListAll() ([]entity.Test, error)
	Update(test *entity.Test) error
	Delete(id uint) error
}
