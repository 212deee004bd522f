package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"memories/models"

	"github.com/google/uuid"
)

type DiskStorage struct {
	// BasePath is a directory writable by the current process
	BasePath string
}

func NewDiskStorage(basePath string) *DiskStorage {
	if err := os.MkdirAll(basePath, 0777); err != nil {
		panic(err)
	}
	return &DiskStorage{BasePath: basePath}
}

func (s *DiskStorage) path(fileID uuid.UUID) string {
	return filepath.Join(s.BasePath, fileID.String())
}

func (s *DiskStorage) Upload(ctx context.Context, reader io.Reader, contentType string) (uuid.UUID, error) {
	fileID := uuid.New()
	file, err := os.Create(s.path(fileID))
	if err != nil {
		return uuid.Nil, err
	}
	if _, err = io.Copy(file, reader); err != nil {
		file.Close()
		_ = os.Remove(s.path(fileID))
		return uuid.Nil, err
	}
	if err = file.Close(); err != nil {
		return uuid.Nil, err
	}
	// Content type lives in a sidecar file; S3 keeps it natively
	if err = os.WriteFile(s.path(fileID)+".type", []byte(contentType), 0666); err != nil {
		_ = os.Remove(s.path(fileID))
		return uuid.Nil, err
	}
	return fileID, nil
}

func (s *DiskStorage) Open(ctx context.Context, fileID uuid.UUID) (io.ReadCloser, string, error) {
	file, err := os.Open(s.path(fileID))
	if os.IsNotExist(err) {
		return nil, "", models.ErrImageNotFound
	}
	if err != nil {
		return nil, "", err
	}
	contentType := "application/octet-stream"
	if meta, err := os.ReadFile(s.path(fileID) + ".type"); err == nil {
		contentType = strings.TrimSpace(string(meta))
	}
	return file, contentType, nil
}

func (s *DiskStorage) Delete(ctx context.Context, fileID uuid.UUID) error {
	_ = os.Remove(s.path(fileID) + ".type")
	err := os.Remove(s.path(fileID))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
