package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок авторизации (неверный токен, нет прав).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у пользователя недостаточно прав для действия.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для конфликтов состояния
	// (например, попытка создать вторую запись настроек экзамена).
	ErrConflict = errors.New("resource state conflict")
)

// ToastOnlyError помечает ошибку, которую клиент показывает как toast-уведомление,
// не переводя форму в состояние failed (дубликат email, дубликат названия теста).
// Тип ошибки вместо динамической формы payload: обработчики различают её через errors.As.
type ToastOnlyError struct {
	Message string
}

func (e *ToastOnlyError) Error() string {
	return e.Message
}

// NewToastOnly создает toast-only ошибку с сообщением для пользователя
func NewToastOnly(message string) error {
	return &ToastOnlyError{Message: message}
}

// IsToastOnly проверяет, является ли ошибка toast-only
func IsToastOnly(err error) bool {
	var te *ToastOnlyError
	return errors.As(err, &te)
}
