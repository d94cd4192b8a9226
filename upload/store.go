// Package upload keeps multipart wardrobe images on disk for the lifetime of
// a single request.
package upload

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"wardrobe-matcher/apperror"
	"wardrobe-matcher/models"
)

// FieldName is the multipart field carrying the images.
const FieldName = "wardrobe"

const formOverhead = 1 << 20

// Store writes uploads under dir/<request id>-<random>/<original filename>.
// Each Save gets its own directory even when request ids repeat.
type Store struct {
	dir      string
	maxFiles int
	maxSize  int64
}

// NewStore creates a Store rooted at dir
func NewStore(dir string, maxFiles int, maxSize int64) *Store {
	return &Store{dir: dir, maxFiles: maxFiles, maxSize: maxSize}
}

// Dir returns the upload root
func (s *Store) Dir() string {
	return s.dir
}

// Batch is the set of images saved for one request.
type Batch struct {
	Images []models.UploadedImage
	dir    string
}

// Dir returns the directory holding the batch's files, empty when nothing
// was written.
func (b *Batch) Dir() string {
	return b.dir
}

// Cleanup removes the request's files. Safe to call on a nil Batch.
func (b *Batch) Cleanup() {
	if b == nil || b.dir == "" {
		return
	}
	if err := os.RemoveAll(b.dir); err != nil {
		log.WithError(err).Warnf("Failed to remove upload dir %s", b.dir)
	}
}

// Save validates and stores the files, then reads each one back into memory.
// On error nothing is left on disk.
func (s *Store) Save(c *gin.Context, requestID string, files []*multipart.FileHeader) (*Batch, error) {
	if len(files) > s.maxFiles {
		return nil, apperror.NewValidation(FieldName, "at most %d files are allowed, got %d", s.maxFiles, len(files))
	}

	seen := make(map[string]bool, len(files))
	for _, fh := range files {
		if err := s.check(fh); err != nil {
			return nil, err
		}
		name := filepath.Base(fh.Filename)
		if seen[name] {
			return nil, apperror.NewValidation(FieldName, "duplicate filename %q", name)
		}
		seen[name] = true
	}

	batch := &Batch{}
	if len(files) == 0 {
		return batch, nil
	}
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	dir, err := os.MkdirTemp(s.dir, dirPattern(requestID))
	if err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	batch.dir = dir

	for _, fh := range files {
		dst := filepath.Join(batch.dir, filepath.Base(fh.Filename))
		if err := c.SaveUploadedFile(fh, dst); err != nil {
			batch.Cleanup()
			return nil, fmt.Errorf("failed to save %s: %w", fh.Filename, err)
		}
		data, err := os.ReadFile(dst)
		if err != nil {
			batch.Cleanup()
			return nil, fmt.Errorf("failed to read %s: %w", dst, err)
		}
		batch.Images = append(batch.Images, models.UploadedImage{
			Filename: filepath.Base(fh.Filename),
			MimeType: fh.Header.Get("Content-Type"),
			Data:     data,
		})
	}
	return batch, nil
}

// MaxRequestBytes bounds a whole multipart body: every file at its limit
// plus room for the form fields. Zero means unbounded.
func (s *Store) MaxRequestBytes() int64 {
	if s.maxSize <= 0 {
		return 0
	}
	return int64(s.maxFiles)*s.maxSize + formOverhead
}

func dirPattern(requestID string) string {
	if requestID == "" || strings.ContainsAny(requestID, `/\`) {
		return "upload-*"
	}
	return requestID + "-*"
}

func (s *Store) check(fh *multipart.FileHeader) error {
	name := filepath.Base(fh.Filename)
	if name == "." || name == string(filepath.Separator) || strings.TrimSpace(name) == "" {
		return apperror.NewValidation(FieldName, "file without a name")
	}
	if !strings.HasPrefix(strings.ToLower(fh.Header.Get("Content-Type")), "image/") {
		return apperror.NewValidation(FieldName, "Only image uploads are allowed (%s)", name)
	}
	if s.maxSize > 0 && fh.Size > s.maxSize {
		return apperror.NewValidation(FieldName, "%s exceeds the %d MB limit", name, s.maxSize>>20)
	}
	return nil
}
