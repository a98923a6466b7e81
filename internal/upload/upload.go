package upload

import (
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/Ardalan81/elyassi-exchange/internal/models"
)

const MaxDocumentSize = 5 << 20 // 5 MiB

var (
	ErrFileTooLarge    = errors.New("document exceeds the 5 MB limit")
	ErrInvalidFileType = errors.New("invalid file type, upload PDF or JPG/PNG image")
)

var allowedMimeTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
}

// SaveDocument stores an uploaded identity document under dir with a random
// name plus the original extension and returns its stored reference.
func SaveDocument(dir string, file multipart.File, header *multipart.FileHeader) (models.DocumentFile, error) {
	if header.Size > MaxDocumentSize {
		return models.DocumentFile{}, ErrFileTooLarge
	}
	mimeType := header.Header.Get("Content-Type")
	if !allowedMimeTypes[mimeType] {
		return models.DocumentFile{}, ErrInvalidFileType
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return models.DocumentFile{}, err
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return models.DocumentFile{}, err
	}
	defer dst.Close()

	written, err := io.Copy(dst, io.LimitReader(file, MaxDocumentSize+1))
	if err != nil {
		os.Remove(dst.Name())
		return models.DocumentFile{}, err
	}
	if written > MaxDocumentSize {
		os.Remove(dst.Name())
		return models.DocumentFile{}, ErrFileTooLarge
	}

	return models.DocumentFile{
		OriginalName: header.Filename,
		FileName:     name,
		MimeType:     mimeType,
		Size:         written,
	}, nil
}
