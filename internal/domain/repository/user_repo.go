package repository

import (
	"github.com/yourusername/drivetest-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	// List возвращает пользователей с фильтрами и общее количество
	List(search, role string, limit, offset int) ([]entity.User, int64, error)
	Update(user *entity.User) error
	Delete(id uint) error
}
