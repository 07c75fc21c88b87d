package utils

import (
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/gamehive/backend/config"
)

const (
	// MaxImageBytes caps uploads at 2MB before decoding.
	MaxImageBytes = 2 * 1024 * 1024
	maxImageEdge  = 1200
)

// ErrImageInvalid covers rejected uploads: wrong type, too large, undecodable.
var ErrImageInvalid = errors.New("invalid image upload")

var allowedImageExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
}

// SaveImage validates, resizes and stores an uploaded image under the storage
// root and returns its public /storage URL. Images larger than 1200x1200 are
// scaled down preserving aspect ratio; smaller ones are stored as-is.
func SaveImage(header *multipart.FileHeader, subdir string) (string, error) {
	if header.Size > MaxImageBytes {
		return "", fmt.Errorf("%w: file exceeds 2MB", ErrImageInvalid)
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		return "", fmt.Errorf("%w: only jpeg, png, jpg and gif are accepted", ErrImageInvalid)
	}

	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageInvalid, err)
	}
	bounds := img.Bounds()
	if bounds.Dx() > maxImageEdge || bounds.Dy() > maxImageEdge {
		img = imaging.Fit(img, maxImageEdge, maxImageEdge, imaging.Lanczos)
	}

	baseDir := filepath.Join(config.Get().StorageDir, subdir)
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", err
	}

	name := uuid.NewString() + ext
	dst := filepath.Join(baseDir, name)
	if err := imaging.Save(img, dst, imaging.JPEGQuality(80)); err != nil {
		return "", err
	}

	return "/storage/" + subdir + "/" + name, nil
}

// DeleteImage removes a previously stored image given its /storage URL.
// Missing files are not an error.
func DeleteImage(url string) {
	rel, ok := strings.CutPrefix(url, "/storage/")
	if !ok || rel == "" {
		return
	}
	path := filepath.Join(config.Get().StorageDir, filepath.FromSlash(rel))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) && Sugar != nil {
		Sugar.Warnf("failed to delete image %s: %v", path, err)
	}
}
