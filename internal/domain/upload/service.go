// internal/domain/upload/service.go
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jaipurgadget/ecommerce-backend/internal/config"
	"github.com/jaipurgadget/ecommerce-backend/internal/pkg/apperr"
)

const maxUploadSize = 5 << 20 // 5 MB

var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// Service stores product images on local disk
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new upload service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// SaveImage validates and stores one uploaded image, returning its record
func (s *Service) SaveImage(header *multipart.FileHeader, uploadedBy uint) (*UploadedFile, error) {
	if header.Size > maxUploadSize {
		return nil, apperr.Validation("file exceeds the 5 MB limit")
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	mimeType, ok := allowedExtensions[ext]
	if !ok {
		return nil, apperr.Validation("only jpg, png and webp images are allowed")
	}

	src, err := header.Open()
	if err != nil {
		return nil, apperr.Internal("failed to open uploaded file", err)
	}
	defer src.Close()

	filename := uuid.New().String() + ext
	fullPath := filepath.Join(s.config.Store.UploadPath, filename)

	if err := os.MkdirAll(s.config.Store.UploadPath, 0o755); err != nil {
		return nil, apperr.Internal("failed to create upload directory", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return nil, apperr.Internal("failed to create file", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(fullPath)
		return nil, apperr.Internal("failed to save file", err)
	}

	record := UploadedFile{
		OriginalName: header.Filename,
		Filename:     filename,
		URL:          fmt.Sprintf("/uploads/%s", filename),
		MimeType:     mimeType,
		Size:         header.Size,
		UploadedBy:   uploadedBy,
	}

	if err := s.db.Create(&record).Error; err != nil {
		os.Remove(fullPath)
		return nil, apperr.Internal("failed to save file record", err)
	}

	return &record, nil
}

// DeleteImage removes an uploaded image and its file
func (s *Service) DeleteImage(imageID uint) error {
	var record UploadedFile
	if err := s.db.First(&record, imageID).Error; err != nil {
		return apperr.NotFound("image")
	}

	fullPath := filepath.Join(s.config.Store.UploadPath, record.Filename)
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return apperr.Internal("failed to delete file", err)
	}

	if err := s.db.Delete(&record).Error; err != nil {
		return apperr.Internal("failed to delete file record", err)
	}

	return nil
}

// ListImages pages through uploaded images, newest first
func (s *Service) ListImages(page, limit int) ([]UploadedFile, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := s.db.Model(&UploadedFile{}).Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal("failed to count images", err)
	}

	var files []UploadedFile
	offset := (page - 1) * limit
	if err := s.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&files).Error; err != nil {
		return nil, 0, apperr.Internal("failed to list images", err)
	}

	return files, total, nil
}
