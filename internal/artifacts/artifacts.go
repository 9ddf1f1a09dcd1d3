// Package artifacts archives the raw Kythe JSON artifact and syntax
// diagnostic bundle produced by each ingest run to object storage, for
// offline debugging of a specific run after the fact. It is an optional
// enrichment: a nil *Store disables archival without changing call sites.
package artifacts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/diplomat-ls/diplomat/internal/config"
)

type Store struct {
	mc     *minio.Client
	bucket string
}

func NewStore(cfg config.MinIOConfig) (*Store, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("artifacts: create minio client: %w", err)
	}
	return &Store{mc: mc, bucket: cfg.Bucket}, nil
}

func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.mc.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("artifacts: check bucket: %w", err)
	}
	if !exists {
		if err := s.mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("artifacts: create bucket: %w", err)
		}
	}
	return nil
}

// ArchiveFile uploads the file at localPath under objectName.
func (s *Store) ArchiveFile(ctx context.Context, objectName, localPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("artifacts: open %s: %w", localPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("artifacts: stat %s: %w", localPath, err)
	}

	_, err = s.mc.PutObject(ctx, s.bucket, objectName, f, info.Size(), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("artifacts: upload %s: %w", objectName, err)
	}
	return nil
}

// ArchiveBytes uploads raw content under objectName.
func (s *Store) ArchiveBytes(ctx context.Context, objectName string, content []byte) error {
	_, err := s.mc.PutObject(ctx, s.bucket, objectName, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("artifacts: upload %s: %w", objectName, err)
	}
	return nil
}

func (s *Store) Fetch(ctx context.Context, objectName string) (io.ReadCloser, error) {
	obj, err := s.mc.GetObject(ctx, s.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("artifacts: fetch %s: %w", objectName, err)
	}
	return obj, nil
}
