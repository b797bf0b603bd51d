package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"emenu-backend/internal/config"

	"github.com/google/uuid"
)

// PublicPrefix: fotoğrafların statik olarak sunulduğu route prefix'i.
// main.go'daki app.Static mount'u ile aynı olmalı.
const PublicPrefix = "/menu-images"

type Store struct {
	basePath      string
	publicBaseURL string
}

func New(cfg *config.Config) *Store {
	return &Store{
		basePath:      cfg.MenuImagePath,
		publicBaseURL: cfg.PublicBaseURL,
	}
}

// SaveImage: yüklenen menü fotoğrafını yeni üretilmiş benzersiz bir dosya
// adıyla diske yazar ve public URL'ini döndürür. UUID çakışma ihtimali ihmal
// edilebilir olduğundan çakışma kontrolü yapılmaz.
func (s *Store) SaveImage(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("yüklenen dosya açılamadı: %w", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	fileName := uuid.NewString() + ext

	// Klasörü oluştur (yoksa)
	if err := os.MkdirAll(s.basePath, 0755); err != nil {
		return "", fmt.Errorf("klasör oluşturulamadı: %w", err)
	}

	dst, err := os.Create(filepath.Join(s.basePath, fileName))
	if err != nil {
		return "", fmt.Errorf("dosya oluşturulamadı: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("fotoğraf yazılamadı: %w", err)
	}

	return s.publicBaseURL + PublicPrefix + "/" + fileName, nil
}

// BasePath: statik mount için klasör yolu.
func (s *Store) BasePath() string {
	return s.basePath
}
