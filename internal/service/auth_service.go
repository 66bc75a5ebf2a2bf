package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/yourusername/drivetest-api/internal/domain/entity"
	"github.com/yourusername/drivetest-api/internal/domain/repository"
	apperrors "github.com/yourusername/drivetest-api/internal/pkg/errors"
	"github.com/yourusername/drivetest-api/pkg/auth"
)

// AuthService предоставляет методы для аутентификации и работы с профилем
type AuthService struct {
	userRepo     repository.UserRepository
	jwtService   *auth.JWTService
	emailService EmailService
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, emailService EmailService) (*AuthService, error) {
	if userRepo == nil || jwtService == nil {
		return nil, fmt.Errorf("userRepo and jwtService are required for AuthService")
	}
	if emailService == nil {
		emailService = &NoopEmailService{}
	}
	return &AuthService{
		userRepo:     userRepo,
		jwtService:   jwtService,
		emailService: emailService,
	}, nil
}

// Register регистрирует нового пользователя и возвращает его вместе с токеном
func (s *AuthService) Register(name, email, password string) (*entity.User, string, error) {
	existing, err := s.userRepo.GetByEmail(email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, "", err
	}
	if existing != nil {
		// Дубликат email показывается клиенту как toast, форма остается открытой
		return nil, "", apperrors.NewToastOnly("Email уже используется другим пользователем")
	}

	user := &entity.User{
		Name:     name,
		Email:    email,
		Password: password, // хешируется в BeforeSave
		Role:     entity.RoleStudent,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, "", err
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", err
	}

	log.Printf("[AuthService] Пользователь ID=%d (%s) успешно зарегистрирован", user.ID, user.Email)
	return user, token, nil
}

// Login проверяет учетные данные и возвращает пользователя вместе с токеном
func (s *AuthService) Login(email, password string) (*entity.User, string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: неверный логин или пароль", apperrors.ErrUnauthorized)
		}
		return nil, "", err
	}
	if !user.CheckPassword(password) {
		return nil, "", fmt.Errorf("%w: неверный логин или пароль", apperrors.ErrUnauthorized)
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GetMe возвращает профиль текущего пользователя
func (s *AuthService) GetMe(userID uint) (*entity.User, error) {
	return s.userRepo.GetByID(userID)
}

// UpdateProfile обновляет профиль пользователя. При смене пароля
// отправляется почтовое уведомление. Возвращает пользователя и новый токен.
func (s *AuthService) UpdateProfile(userID uint, name, email, password string) (*entity.User, string, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, "", err
	}

	// Проверка уникальности нового email
	if email != "" && email != user.Email {
		other, err := s.userRepo.GetByEmail(email)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", err
		}
		if other != nil && other.ID != userID {
			return nil, "", apperrors.NewToastOnly("Email уже используется другим пользователем")
		}
		user.Email = email
	}
	if name != "" {
		user.Name = name
	}

	passwordChanged := false
	if password != "" {
		user.Password = password // хешируется в BeforeSave
		passwordChanged = true
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, "", err
	}

	// Уведомляем о смене пароля; сбой отправки не откатывает обновление
	if passwordChanged {
		if err := s.emailService.SendPasswordChanged(context.Background(), user.Email); err != nil {
			log.Printf("[AuthService] Не удалось отправить уведомление о смене пароля для %s: %v", user.Email, err)
		}
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
