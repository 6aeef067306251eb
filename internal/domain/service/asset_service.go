package service

import (
	"context"
	"io"
)

// AssetStore hosts uploaded binaries and hands back public URLs. Only the
// returned URL strings are persisted on records.
type AssetStore interface {
	UploadFile(ctx context.Context, file io.Reader, contentType, folder string) (string, error)
	DeleteFile(ctx context.Context, fileURL string) error
	Close() error
}
