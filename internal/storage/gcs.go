package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path"
	"path/filepath"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

const publicBaseURL = "https://storage.googleapis.com"

type GCSOptions struct {
	Bucket        string
	Prefix        string
	BackgroundDir string
	CacheDir      string
}

// GCSStorage serves background images from a bucket and uploads rendered
// artifacts under Prefix.
type GCSStorage struct {
	client *storage.Client
	opts   GCSOptions
}

func NewGCSStorage(ctx context.Context, opts GCSOptions) (*GCSStorage, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSStorage{client: client, opts: opts}, nil
}

func (s *GCSStorage) Close() error {
	return s.client.Close()
}

func (s *GCSStorage) RandomBackground(ctx context.Context) (string, error) {
	images, err := s.listBackgrounds(ctx)
	if err != nil {
		return "", err
	}

	if len(images) == 0 {
		return "", fmt.Errorf("no background images found in gs://%s/%s", s.opts.Bucket, s.opts.BackgroundDir)
	}

	remotePath := images[rand.Intn(len(images))]
	localPath := filepath.Join(s.opts.CacheDir, filepath.Base(remotePath))

	if _, err := os.Stat(localPath); err == nil {
		return localPath, nil
	}

	if err := s.downloadFile(ctx, remotePath, localPath); err != nil {
		return "", fmt.Errorf("failed to download background: %w", err)
	}

	return localPath, nil
}

func (s *GCSStorage) Upload(ctx context.Context, localPath, name string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open artifact: %w", err)
	}
	defer func() { _ = f.Close() }()

	objectName := objectPath(s.opts.Prefix, name)
	w := s.client.Bucket(s.opts.Bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = contentType(name)

	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to upload %s: %w", objectName, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize %s: %w", objectName, err)
	}

	return objectURL(s.opts.Bucket, objectName), nil
}

func (s *GCSStorage) listBackgrounds(ctx context.Context) ([]string, error) {
	bkt := s.client.Bucket(s.opts.Bucket)
	query := &storage.Query{Prefix: s.opts.BackgroundDir}

	var images []string
	it := bkt.Objects(ctx, query)
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}

		if isBackgroundImage(attrs.Name) {
			images = append(images, attrs.Name)
		}
	}

	return images, nil
}

func (s *GCSStorage) downloadFile(ctx context.Context, remotePath, localPath string) error {
	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	r, err := s.client.Bucket(s.opts.Bucket).Object(remotePath).NewReader(ctx)
	if err != nil {
		return fmt.Errorf("failed to create reader: %w", err)
	}
	defer func() { _ = r.Close() }()

	f, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create local file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("failed to download file: %w", err)
	}

	return nil
}

func (s *GCSStorage) EnsureCacheDir() error {
	return os.MkdirAll(s.opts.CacheDir, 0755)
}

func objectPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

func objectURL(bucket, object string) string {
	return fmt.Sprintf("%s/%s/%s", publicBaseURL, bucket, object)
}

func contentType(name string) string {
	switch filepath.Ext(name) {
	case ".gif":
		return "image/gif"
	case ".png":
		return "image/png"
	case ".json":
		return "application/json"
	case ".txt":
		return "text/plain; charset=utf-8"
	}
	return "application/octet-stream"
}
