package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Itish41/InnovationTracker/initializers"
	"github.com/Itish41/InnovationTracker/models"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// ObjectStorage stores uploaded attachment files under a key.
type ObjectStorage interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	// URL is where clients can fetch the object, empty if not public.
	URL(key string) string
	Provider() string
}

// NewObjectStorage picks S3 when it is configured and the local disk otherwise.
func NewObjectStorage(cfg initializers.StorageConfig) (ObjectStorage, error) {
	if cfg.S3Enabled() {
		return NewS3Storage(cfg)
	}
	return NewLocalStorage(cfg.UploadDir), nil
}

// S3Storage keeps attachments in an S3 compatible bucket.
type S3Storage struct {
	client    *s3.S3
	bucket    string
	publicURL string
}

func NewS3Storage(cfg initializers.StorageConfig) (*S3Storage, error) {
	awsCfg := &aws.Config{
		Region:           aws.String(cfg.S3Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if cfg.S3Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.S3Endpoint)
	}
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.S3AccessKey, cfg.S3SecretKey, "")
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return &S3Storage{
		client:    s3.New(sess),
		bucket:    cfg.S3Bucket,
		publicURL: strings.TrimRight(cfg.S3PublicURL, "/"),
	}, nil
}

func (s *S3Storage) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	// PutObject needs a seekable body.
	rs, ok := body.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(body)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        rs,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload file to S3: %w", err)
	}
	return nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s from S3: %w", key, err)
	}
	return nil
}

func (s *S3Storage) URL(key string) string {
	if s.publicURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, key)
}

func (s *S3Storage) Provider() string { return models.StorageS3 }

// LocalStorage writes attachments below a root directory served at
// /uploads/initiatives.
type LocalStorage struct {
	root string
}

// LocalURLPrefix is the route the API serves local uploads from.
const LocalURLPrefix = "/uploads/initiatives"

func NewLocalStorage(root string) *LocalStorage {
	if root == "" {
		root = filepath.Join("uploads", "initiatives")
	}
	return &LocalStorage{root: root}
}

func (l *LocalStorage) Root() string { return l.root }

func (l *LocalStorage) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(l.root, clean), nil
}

func (l *LocalStorage) Put(_ context.Context, key string, body io.Reader, _ string) error {
	dst, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create upload directory: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(dst)
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return f.Close()
}

func (l *LocalStorage) Delete(_ context.Context, key string) error {
	dst, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", dst, err)
	}
	return nil
}

func (l *LocalStorage) URL(key string) string {
	return LocalURLPrefix + "/" + strings.TrimLeft(filepath.ToSlash(key), "/")
}

func (l *LocalStorage) Provider() string { return models.StorageLocal }
