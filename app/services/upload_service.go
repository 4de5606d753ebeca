package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"

	"github.com/storefront/backend/pkg/apperr"
	"github.com/storefront/backend/pkg/storage"
)

// Upload limits.
const (
	MaxUploadBytes = 5 << 20
	MaxUploadFiles = 5
)

// UploadedImage is what the API hands back per stored file: a public URL
// and the storage key needed to delete it later.
type UploadedImage struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// UploadService stores product images on the configured disk.
type UploadService struct {
	disk storage.Disk
}

func NewUploadService(disk storage.Disk) *UploadService {
	return &UploadService{disk: disk}
}

// Single stores one image.
func (s *UploadService) Single(fh *multipart.FileHeader) (*UploadedImage, error) {
	if err := checkImage(fh); err != nil {
		return nil, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	key, err := imageKey(fh.Filename)
	if err != nil {
		return nil, err
	}
	if err := s.disk.PutStream(key, io.LimitReader(f, MaxUploadBytes)); err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	return &UploadedImage{URL: s.disk.URL(key), PublicID: key}, nil
}

// Multiple stores up to MaxUploadFiles images. All-or-nothing: a failure
// part way removes the files already stored.
func (s *UploadService) Multiple(fhs []*multipart.FileHeader) ([]UploadedImage, error) {
	if len(fhs) == 0 {
		return nil, apperr.New(apperr.InvalidInput, "No files uploaded")
	}
	if len(fhs) > MaxUploadFiles {
		return nil, apperr.New(apperr.InvalidInput, "Cannot upload more than %d images", MaxUploadFiles)
	}

	images := make([]UploadedImage, 0, len(fhs))
	for _, fh := range fhs {
		img, err := s.Single(fh)
		if err != nil {
			for _, stored := range images {
				_ = s.disk.Delete(stored.PublicID)
			}
			return nil, err
		}
		images = append(images, *img)
	}
	return images, nil
}

// Delete removes a stored image by its public id.
func (s *UploadService) Delete(publicID string) error {
	if !s.disk.Exists(publicID) {
		return apperr.New(apperr.NotFound, "Image not found")
	}
	return s.disk.Delete(publicID)
}

func checkImage(fh *multipart.FileHeader) error {
	if fh.Size > MaxUploadBytes {
		return apperr.New(apperr.InvalidInput, "Image must not exceed %d MB", MaxUploadBytes>>20)
	}
	ct := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") {
		return apperr.New(apperr.InvalidInput, "Only image files are allowed")
	}
	return nil
}

// imageKey builds a collision-free storage key, keeping the original
// extension so the object store serves the right content type.
func imageKey(filename string) (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	return "products/" + hex.EncodeToString(buf) + ext, nil
}
