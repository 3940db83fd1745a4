// Package uploads validates and stores user-supplied images (payment proofs
// and field photos) on local disk or Cloudinary.
package uploads

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"fieldbook/internal/shared/apperror"
	"fieldbook/internal/shared/config"
	"fieldbook/pkg/logger"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

const (
	FolderPaymentProofs = "payment-proofs"
	FolderFieldImages   = "field-images"

	// PublicPrefix is where the disk backend is served from
	PublicPrefix = "/uploads"
)

var (
	ErrFileMissing     = apperror.BadRequest("File not found")
	ErrUnsupportedType = apperror.BadRequest("Unsupported file format. Use JPG, PNG or WEBP")
	ErrFileTooLarge    = apperror.BadRequest("File is too large")
)

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Storage persists an uploaded file and returns its public URL.
// Delete removes a file previously returned by Save; unknown URLs are ignored.
type Storage interface {
	Save(ctx context.Context, file *multipart.FileHeader, folder string) (string, error)
	Delete(ctx context.Context, url string) error
}

// New picks Cloudinary when the driver asks for it and credentials exist,
// otherwise disk under cfg.Upload.Path.
func New(cfg *config.Config, log *logger.Logger) (Storage, error) {
	if strings.EqualFold(cfg.Upload.Driver, "cloudinary") {
		if !cfg.Cloudinary.Enabled() {
			log.Warn("UPLOAD_DRIVER=cloudinary but credentials are missing, falling back to disk")
		} else {
			return NewCloudinaryStorage(cfg.Cloudinary, cfg.Upload.MaxSize)
		}
	}
	return NewDiskStorage(cfg.Upload.Path, cfg.BaseURL, cfg.Upload.MaxSize), nil
}

// Validate checks presence, size and sniffed content type, returning the
// file extension to store it under.
func Validate(file *multipart.FileHeader, maxSize int64) (string, error) {
	if file == nil {
		return "", ErrFileMissing
	}
	if maxSize > 0 && file.Size > maxSize {
		return "", apperror.Wrapf(ErrFileTooLarge, "File must not exceed %dMB", maxSize/(1024*1024))
	}

	f, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	ext, ok := allowedTypes[http.DetectContentType(head[:n])]
	if !ok {
		return "", ErrUnsupportedType
	}
	return ext, nil
}

// DiskStorage writes files below root and serves them under PublicPrefix
type DiskStorage struct {
	root    string
	baseURL string
	maxSize int64
}

func NewDiskStorage(root, baseURL string, maxSize int64) *DiskStorage {
	return &DiskStorage{root: root, baseURL: strings.TrimRight(baseURL, "/"), maxSize: maxSize}
}

func (d *DiskStorage) Save(_ context.Context, file *multipart.FileHeader, folder string) (string, error) {
	ext, err := Validate(file, d.maxSize)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(d.root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	name := uuid.NewString() + ext
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return fmt.Sprintf("%s%s/%s/%s", d.baseURL, PublicPrefix, folder, name), nil
}

func (d *DiskStorage) Delete(_ context.Context, url string) error {
	rel, ok := strings.CutPrefix(url, d.baseURL+PublicPrefix+"/")
	if !ok || rel == "" || strings.Contains(rel, "..") {
		return nil
	}
	if err := os.Remove(filepath.Join(d.root, filepath.FromSlash(rel))); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}

// CloudinaryStorage uploads into <folder>/<subfolder> on Cloudinary
type CloudinaryStorage struct {
	cld     *cloudinary.Cloudinary
	folder  string
	maxSize int64
}

func NewCloudinaryStorage(cfg config.CloudinaryConfig, maxSize int64) (*CloudinaryStorage, error) {
	cld, err := cloudinary.NewFromURL(cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return &CloudinaryStorage{cld: cld, folder: cfg.Folder, maxSize: maxSize}, nil
}

func (c *CloudinaryStorage) Save(ctx context.Context, file *multipart.FileHeader, folder string) (string, error) {
	if _, err := Validate(file, c.maxSize); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	overwrite := false
	uniqueFilename := true
	result, err := c.cld.Upload.Upload(ctx, src, uploader.UploadParams{
		Folder:         strings.Trim(c.folder+"/"+folder, "/"),
		PublicID:       uuid.NewString(),
		Overwrite:      &overwrite,
		UniqueFilename: &uniqueFilename,
		ResourceType:   "image",
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload failed: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload failed: %s", result.Error.Message)
	}

	return result.SecureURL, nil
}

func (c *CloudinaryStorage) Delete(ctx context.Context, url string) error {
	publicID := cloudinaryPublicID(url)
	if publicID == "" {
		return nil
	}
	result, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("cloudinary destroy failed: %w", err)
	}
	if result.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy failed: %s", result.Error.Message)
	}
	return nil
}

// cloudinaryPublicID extracts "<folder>/<id>" from a delivery URL such as
// https://res.cloudinary.com/<cloud>/image/upload/v123/<folder>/<id>.png
func cloudinaryPublicID(url string) string {
	_, rest, ok := strings.Cut(url, "/upload/")
	if !ok {
		return ""
	}
	if first, tail, found := strings.Cut(rest, "/"); found && len(first) > 1 && first[0] == 'v' && isDigits(first[1:]) {
		rest = tail
	}
	return strings.TrimSuffix(rest, filepath.Ext(rest))
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
