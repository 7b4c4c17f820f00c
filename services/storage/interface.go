package storage

import (
	"context"
	"io"
)

// ProfilePictureFolder is where doctor profile pictures are uploaded.
const ProfilePictureFolder = "doctors/profile"

// StorageService defines the interface for storage operations.
type StorageService interface {
	// UploadImage stores file under destFolder/publicID, replacing any previous upload,
	// and returns its public HTTPS URL.
	UploadImage(ctx context.Context, file io.Reader, destFolder, publicID string) (string, error)
	// DeleteFile removes an upload by its public ID.
	DeleteFile(ctx context.Context, publicID string) error
}
