// Package storage adapts a bucket in an S3-compatible object store.
package storage

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DefaultSignTTL bounds signed download URLs; links are never permanent.
const DefaultSignTTL = time.Hour

// ErrObjectNotFound indicates the storage path addresses no blob.
var ErrObjectNotFound = errors.New("object not found")

// ObjectInfo is blob metadata reported by the store.
type ObjectInfo struct {
	Size         int64
	ContentType  string
	LastModified time.Time
}

// Config is the object store connection information.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Storage owns the blob lifecycle for one bucket.
type Storage struct {
	cli    *minio.Client
	bucket string
}

func New(cfg Config) (*Storage, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("empty bucket")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "new minio client")
	}

	return &Storage{cli: cli, bucket: cfg.Bucket}, nil
}

// objectKey derives an opaque storage path scoped under the owner.
// The raw display name never reaches the key, only its extension,
// so colliding uploads across users cannot share a path.
func objectKey(ownerUID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return ownerUID + "/" + uuid.NewString() + ext
}

// Put uploads the blob and returns its generated storage path.
func (s *Storage) Put(ctx context.Context,
	ownerUID, fileName string, content []byte, contentType string) (string, error) {
	key := objectKey(ownerUID, fileName)
	_, err := s.cli.PutObject(ctx, s.bucket, key,
		bytes.NewReader(content), int64(len(content)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return "", errors.Wrapf(err, "put object `%s`", key)
	}

	return key, nil
}

// Delete removes the blob. Deleting a missing path is not an error.
func (s *Storage) Delete(ctx context.Context, storagePath string) error {
	err := s.cli.RemoveObject(ctx, s.bucket, storagePath, minio.RemoveObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil
		}

		return errors.Wrapf(err, "remove object `%s`", storagePath)
	}

	return nil
}

// SignDownloadURL mints a time-limited download link for the blob.
// Non-positive ttl falls back to DefaultSignTTL.
func (s *Storage) SignDownloadURL(ctx context.Context,
	storagePath string, ttl time.Duration) (url string, expiry time.Time, err error) {
	if ttl <= 0 {
		ttl = DefaultSignTTL
	}

	signed, err := s.cli.PresignedGetObject(ctx, s.bucket, storagePath, ttl, nil)
	if err != nil {
		return "", time.Time{}, errors.Wrapf(err, "presign object `%s`", storagePath)
	}

	return signed.String(), time.Now().Add(ttl), nil
}

// Exists reports whether the storage path addresses a blob.
func (s *Storage) Exists(ctx context.Context, storagePath string) (bool, error) {
	_, err := s.Stat(ctx, storagePath)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

// Stat returns blob metadata, or ErrObjectNotFound.
func (s *Storage) Stat(ctx context.Context, storagePath string) (*ObjectInfo, error) {
	info, err := s.cli.StatObject(ctx, s.bucket, storagePath, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, errors.WithStack(ErrObjectNotFound)
		}

		return nil, errors.Wrapf(err, "stat object `%s`", storagePath)
	}

	return &ObjectInfo{
		Size:         info.Size,
		ContentType:  info.ContentType,
		LastModified: info.LastModified,
	}, nil
}
