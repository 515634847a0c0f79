package service

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"shiine-academy-backend/pkg/validator"
)

var errUploadServiceMissing = errors.New("upload service is not configured")

// UploadService stores course thumbnails on local disk and serves them from
// /uploads/. Filenames are randomized; the original name only contributes its
// extension.
type UploadService struct {
	uploadDir    string
	maxSize      int64
	allowedTypes []string
}

func NewUploadService(uploadDir string, maxSize int64) *UploadService {
	if _, err := os.Stat(uploadDir); os.IsNotExist(err) {
		os.MkdirAll(uploadDir, 0755)
	}

	return &UploadService{
		uploadDir:    uploadDir,
		maxSize:      maxSize,
		allowedTypes: []string{".jpg", ".jpeg", ".png", ".gif", ".webp"},
	}
}

// UploadImage writes the file under a fresh uuid name and returns its public
// URL.
func (s *UploadService) UploadImage(file *multipart.FileHeader) (string, error) {
	if s == nil {
		return "", errUploadServiceMissing
	}
	if file == nil {
		return "", newValidationError("image file is required")
	}

	if !validator.ValidateFileSize(file.Size, s.maxSize) {
		return "", newValidationError("file size exceeds maximum allowed size")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !s.isAllowedType(ext) {
		return "", newValidationError("file type not allowed")
	}

	filename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	filePath := filepath.Join(s.uploadDir, filename)

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(filePath)
		return "", err
	}
	if err := dst.Close(); err != nil {
		os.Remove(filePath)
		return "", err
	}

	return "/uploads/" + filename, nil
}

// DeleteImage removes a previously uploaded file. Paths outside the upload
// directory are rejected; a missing file is not an error.
func (s *UploadService) DeleteImage(url string) error {
	if s == nil {
		return errUploadServiceMissing
	}

	filename := filepath.Base(url)
	filePath := filepath.Join(s.uploadDir, filename)

	uploadDirAbs, err := filepath.Abs(s.uploadDir)
	if err != nil {
		return err
	}
	filePathAbs, err := filepath.Abs(filePath)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(filePathAbs, uploadDirAbs) {
		return errors.New("invalid file path")
	}

	if err := os.Remove(filePathAbs); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// IsManagedURL reports whether the URL points into the upload directory.
func (s *UploadService) IsManagedURL(url string) bool {
	return strings.HasPrefix(strings.TrimSpace(url), "/uploads/")
}

func (s *UploadService) isAllowedType(ext string) bool {
	for _, allowed := range s.allowedTypes {
		if ext == allowed {
			return true
		}
	}
	return false
}
