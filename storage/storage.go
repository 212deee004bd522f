package storage

import (
	"context"
	"io"
	"log"

	"memories/config"

	"github.com/google/uuid"
)

// FileStorage keeps uploaded image files under opaque ids. Implementations
// must tolerate deletes of missing files (no-op).
type FileStorage interface {
	Upload(ctx context.Context, reader io.Reader, contentType string) (uuid.UUID, error)
	Open(ctx context.Context, fileID uuid.UUID) (io.ReadCloser, string, error)
	Delete(ctx context.Context, fileID uuid.UUID) error
}

var instance FileStorage

func Init() {
	if config.S3_BUCKET != "" {
		instance = NewS3Storage(config.S3_BUCKET, config.S3_REGION, config.S3_ENDPOINT)
		log.Printf("Storage: S3 bucket %s", config.S3_BUCKET)
		return
	}
	dir := config.STORAGE_DIR
	if dir == "" {
		dir = "./data"
	}
	instance = NewDiskStorage(dir)
	log.Printf("Storage: local dir %s", dir)
}

func Get() FileStorage {
	if instance == nil {
		panic("storage not initialised")
	}
	return instance
}
