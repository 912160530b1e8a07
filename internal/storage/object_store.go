package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"vms/api/internal/config"
)

// ObjectStore holds company assets (logos) and backup snapshots in an
// S3-compatible bucket pair. It is optional: when no endpoint is
// configured the dependent endpoints report storage_unavailable.
type ObjectStore struct {
	client *minio.Client
	cfg    config.StorageConfig
}

func NewObjectStore(cfg config.StorageConfig) (*ObjectStore, error) {
	if cfg.Endpoint == "" {
		return nil, nil
	}

	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL

	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	return &ObjectStore{client: client, cfg: cfg}, nil
}

func (s *ObjectStore) EnsureBuckets(ctx context.Context) error {
	for _, bucket := range []string{s.cfg.BucketAssets, s.cfg.BucketBackups} {
		exists, err := s.client.BucketExists(ctx, bucket)
		if err != nil {
			return fmt.Errorf("bucket exists %s: %w", bucket, err)
		}
		if !exists {
			if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
				return fmt.Errorf("create bucket %s: %w", bucket, err)
			}
		}
	}
	return nil
}

// PutLogo stores a company logo and returns its object URL.
func (s *ObjectStore) PutLogo(ctx context.Context, name string, contentType string, size int64, r io.Reader) (string, error) {
	key := "logos/" + name
	_, err := s.client.PutObject(ctx, s.cfg.BucketAssets, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put logo: %w", err)
	}
	return s.client.EndpointURL().String() + "/" + s.cfg.BucketAssets + "/" + key, nil
}

// PutBackup stores a JSON snapshot and returns its object key.
func (s *ObjectStore) PutBackup(ctx context.Context, takenAt time.Time, payload []byte) (string, error) {
	key := "snapshots/" + takenAt.UTC().Format("20060102T150405Z") + ".json"
	_, err := s.client.PutObject(ctx, s.cfg.BucketBackups, key,
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", fmt.Errorf("put backup: %w", err)
	}
	return key, nil
}

type BackupObject struct {
	Key          string    `json:"key"`
	SizeBytes    int64     `json:"size_bytes"`
	LastModified time.Time `json:"last_modified"`
}

func (s *ObjectStore) ListBackups(ctx context.Context) ([]BackupObject, error) {
	var backups []BackupObject
	for object := range s.client.ListObjects(ctx, s.cfg.BucketBackups, minio.ListObjectsOptions{
		Prefix:    "snapshots/",
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, fmt.Errorf("list backups: %w", object.Err)
		}
		backups = append(backups, BackupObject{
			Key:          object.Key,
			SizeBytes:    object.Size,
			LastModified: object.LastModified,
		})
	}
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].LastModified.After(backups[j].LastModified)
	})
	return backups, nil
}
