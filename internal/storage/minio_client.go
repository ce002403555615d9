package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"blogcms/internal/config"
)

const (
	PrefixPosts   = "posts"
	PrefixAvatars = "avatars"
)

type Storage interface {
	UploadImage(ctx context.Context, prefix, fileName string, file io.Reader, size int64) (string, error)
	DeleteImage(ctx context.Context, objectName string) error
	ImageURL(objectName string) string
}

type MinIOClient struct {
	client *minio.Client
	config config.MinIO
}

func NewMinIOClient(cfg config.MinIO) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &MinIOClient{client: client, config: cfg}, nil
}

// EnsureBucket creates the configured bucket when it does not exist yet.
func (m *MinIOClient) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.config.BucketName)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", m.config.BucketName, err)
	}
	if exists {
		return nil
	}

	err = m.client.MakeBucket(ctx, m.config.BucketName, minio.MakeBucketOptions{Region: m.config.Region})
	if err != nil {
		return fmt.Errorf("create bucket %s: %w", m.config.BucketName, err)
	}
	return nil
}

func (m *MinIOClient) UploadImage(ctx context.Context, prefix, fileName string, file io.Reader, size int64) (string, error) {
	now := time.Now()
	objectName := ObjectName(prefix, fileName, now)

	contentType := mime.TypeByExtension(filepath.Ext(objectName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := m.client.PutObject(ctx, m.config.BucketName, objectName, file, size,
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"original-filename": fileName,
				"uploaded-at":       now.Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", objectName, err)
	}

	return objectName, nil
}

func (m *MinIOClient) DeleteImage(ctx context.Context, objectName string) error {
	err := m.client.RemoveObject(ctx, m.config.BucketName, objectName,
		minio.RemoveObjectOptions{
			GovernanceBypass: true,
		})
	if err != nil {
		return fmt.Errorf("delete %s: %w", objectName, err)
	}
	return nil
}

// ImageURL is the public address of an object. PublicURL wins over the
// endpoint when set.
func (m *MinIOClient) ImageURL(objectName string) string {
	return PublicURL(m.config, objectName)
}

func PublicURL(cfg config.MinIO, objectName string) string {
	base := strings.TrimSuffix(cfg.PublicURL, "/")
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = scheme + "://" + cfg.Endpoint
	}
	return fmt.Sprintf("%s/%s/%s", base, cfg.BucketName, objectName)
}

// ObjectName places post images under posts/<year>/<month>/<day>/ and
// avatars directly under avatars/. The file name is slugged and suffixed so
// two uploads of the same name never collide.
func ObjectName(prefix, fileName string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		ext = ".jpg"
	}

	base := slug.Make(strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName)))
	if base == "" {
		base = "image"
	}
	name := fmt.Sprintf("%s-%s%s", base, uuid.New().String()[:8], ext)

	if prefix == PrefixPosts {
		return fmt.Sprintf("%s/%d/%02d/%02d/%s", prefix, now.Year(), now.Month(), now.Day(), name)
	}
	return prefix + "/" + name
}
