package service

import (
	"errors"
	"fmt"
	"log"

	"github.com/yourusername/drivetest-api/internal/domain/entity"
	"github.com/yourusername/drivetest-api/internal/domain/repository"
	apperrors "github.com/yourusername/drivetest-api/internal/pkg/errors"
)

// UserService предоставляет административные методы для работы с пользователями
type UserService struct {
	userRepo   repository.UserRepository
	resultRepo repository.ResultRepository
}

// NewUserService создает новый сервис пользователей
func NewUserService(userRepo repository.UserRepository, resultRepo repository.ResultRepository) *UserService {
	return &UserService{
		userRepo:   userRepo,
		resultRepo: resultRepo,
	}
}

// GetUsers возвращает пользователей с фильтрами и общее количество
func (s *UserService) GetUsers(search, role string, page, limit int) ([]entity.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	} else if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit
	return s.userRepo.List(search, role, limit, offset)
}

// GetUserByID возвращает пользователя по ID
func (s *UserService) GetUserByID(id uint) (*entity.User, error) {
	return s.userRepo.GetByID(id)
}

// CreateUser создает пользователя (административная операция)
func (s *UserService) CreateUser(name, email, password, role string) (*entity.User, error) {
	if role == "" {
		role = entity.RoleStudent
	}
	if !entity.IsValidRole(role) {
		return nil, fmt.Errorf("%w: invalid role %q", apperrors.ErrValidation, role)
	}

	existing, err := s.userRepo.GetByEmail(email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewToastOnly("Email уже используется другим пользователем")
	}

	user := &entity.User{
		Name:     name,
		Email:    email,
		Password: password, // хешируется в BeforeSave
		Role:     role,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser обновляет пользователя (административная операция)
func (s *UserService) UpdateUser(id uint, name, email, password, role string) (*entity.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if email != "" && email != user.Email {
		other, err := s.userRepo.GetByEmail(email)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, apperrors.NewToastOnly("Email уже используется другим пользователем")
		}
		user.Email = email
	}
	if name != "" {
		user.Name = name
	}
	if password != "" {
		user.Password = password // хешируется в BeforeSave
	}
	if role != "" {
		if !entity.IsValidRole(role) {
			return nil, fmt.Errorf("%w: invalid role %q", apperrors.ErrValidation, role)
		}
		user.Role = role
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser удаляет пользователя
func (s *UserService) DeleteUser(id uint) error {
	if _, err := s.userRepo.GetByID(id); err != nil {
		return err
	}
	if err := s.userRepo.Delete(id); err != nil {
		return err
	}
	log.Printf("[UserService] Пользователь ID=%d удален", id)
	return nil
}

// GetOverallStats возвращает сводную статистику по результатам всех пользователей
func (s *UserService) GetOverallStats(mode string) (*repository.OverallStats, error) {
	if mode != "" && mode != "all" && !entity.IsValidMode(mode) {
		return nil, fmt.Errorf("%w: invalid mode %q", apperrors.ErrValidation, mode)
	}
	if mode == "all" {
		mode = ""
	}
	return s.resultRepo.GetOverallStats(mode)
}
