package service

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/yourusername/drivetest-api/internal/pkg/errors"
)

// Допустимые расширения загружаемых изображений
var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// UploadService предоставляет методы для загрузки изображений вопросов
type UploadService struct {
	dir      string
	maxBytes int64
}

// NewUploadService создает сервис загрузки и каталог для файлов
func NewUploadService(dir string, maxSizeMB int) (*UploadService, error) {
	if dir == "" {
		dir = "uploads/images"
	}
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %q: %w", dir, err)
	}
	return &UploadService{
		dir:      dir,
		maxBytes: int64(maxSizeMB) * 1024 * 1024,
	}, nil
}

// SaveImage сохраняет загруженное изображение под случайным именем
// и возвращает относительный URL файла.
func (s *UploadService) SaveImage(fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader.Size > s.maxBytes {
		return "", fmt.Errorf("%w: file size %d exceeds limit %d bytes",
			apperrors.ErrValidation, fileHeader.Size, s.maxBytes)
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedImageExtensions[ext] {
		return "", fmt.Errorf("%w: unsupported image type %q", apperrors.ErrValidation, ext)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	// Случайное имя исключает коллизии и перезапись чужих файлов
	filename := uuid.NewString() + ext
	dstPath := filepath.Join(s.dir, filename)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file %q: %w", dstPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dstPath)
		return "", fmt.Errorf("failed to write uploaded file: %w", err)
	}

	log.Printf("[UploadService] Файл сохранен: %s (%d bytes)", filename, fileHeader.Size)
	return "/uploads/images/" + filename, nil
}

// DeleteImage удаляет ранее загруженное изображение по его URL
func (s *UploadService) DeleteImage(imageURL string) error {
	filename := filepath.Base(imageURL)
	if filename == "." || filename == "/" || filename == "" {
		return fmt.Errorf("%w: invalid image url", apperrors.ErrValidation)
	}

	path := filepath.Join(s.dir, filename)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: image %q", apperrors.ErrNotFound, filename)
		}
		return fmt.Errorf("failed to delete image %q: %w", filename, err)
	}
	return nil
}

// Dir возвращает каталог с загруженными файлами (для раздачи статики)
func (s *UploadService) Dir() string {
	return s.dir
}
