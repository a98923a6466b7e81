package upload

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type memoryFile struct {
	*bytes.Reader
}

func (memoryFile) Close() error { return nil }

func newUpload(name, mimeType string, content []byte) (multipart.File, *multipart.FileHeader) {
	header := &multipart.FileHeader{
		Filename: name,
		Size:     int64(len(content)),
		Header:   textproto.MIMEHeader{"Content-Type": []string{mimeType}},
	}
	return memoryFile{bytes.NewReader(content)}, header
}

func TestSaveDocument(t *testing.T) {
	dir := t.TempDir()
	file, header := newUpload("Passport Scan.PNG", "image/png", []byte("png-bytes"))

	ref, err := SaveDocument(dir, file, header)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if ref.OriginalName != "Passport Scan.PNG" {
		t.Fatalf("unexpected original name: %q", ref.OriginalName)
	}
	if !strings.HasSuffix(ref.FileName, ".png") {
		t.Fatalf("expected lowercased extension, got %q", ref.FileName)
	}
	if ref.FileName == header.Filename {
		t.Fatalf("stored name must not reuse the client name")
	}
	if ref.Size != int64(len("png-bytes")) || ref.MimeType != "image/png" {
		t.Fatalf("unexpected reference: %+v", ref)
	}

	data, err := os.ReadFile(filepath.Join(dir, ref.FileName))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("stored content mismatch: %q", data)
	}
}

func TestSaveDocumentRejectsMimeType(t *testing.T) {
	file, header := newUpload("notes.txt", "text/plain", []byte("hello"))
	if _, err := SaveDocument(t.TempDir(), file, header); !errors.Is(err, ErrInvalidFileType) {
		t.Fatalf("expected ErrInvalidFileType, got %v", err)
	}
}

func TestSaveDocumentRejectsOversize(t *testing.T) {
	file, header := newUpload("big.pdf", "application/pdf", []byte("x"))
	header.Size = MaxDocumentSize + 1
	if _, err := SaveDocument(t.TempDir(), file, header); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
}
