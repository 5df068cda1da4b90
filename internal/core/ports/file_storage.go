package ports

//go:generate mockgen -source=file_storage.go -destination=../../mocks/mock_file_storage.go -package=mocks

import (
	"context"
	"io"
)

// FileStorage описывает объектное хранилище (S3/MinIO).
type FileStorage interface {
	UploadFile(ctx context.Context, objectKey string, content io.Reader, contentType string) (string, error)
	GetFile(ctx context.Context, objectKey string) (io.ReadCloser, error)
}
