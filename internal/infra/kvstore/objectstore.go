package kvstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/domain/insight"
)

// ObjectStore keeps KV entries as JSON objects in Cloudflare R2 (or any
// S3-compatible bucket). Object stores have no native TTL, so each object
// carries Cache-Control and Expires and expired objects read as misses.
type ObjectStore struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
	now    func() time.Time
}

// NewObjectStore constructs the store adapter.
func NewObjectStore(endpoint, accessKey, secretKey, bucket, region string, logger *slog.Logger) (*ObjectStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cleanEndpoint := sanitizeEndpoint(endpoint)
	useSSL := !strings.HasPrefix(strings.ToLower(strings.TrimSpace(endpoint)), "http://")
	client, err := minio.New(cleanEndpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       useSSL,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init object store client: %w", err)
	}
	return &ObjectStore{
		client: client,
		bucket: bucket,
		logger: logger.With("component", "kvstore.object"),
		now:    time.Now,
	}, nil
}

// EnsureBucket creates the bucket when missing.
func (s *ObjectStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err == nil && exists {
		return nil
	}
	err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
		return err
	}
	return nil
}

func (s *ObjectStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return missing(err)
	}
	defer obj.Close()

	info, err := obj.Stat()
	if err != nil {
		return missing(err)
	}
	if !info.Expires.IsZero() && info.Expires.Before(s.now()) {
		s.logger.Debug("object expired", "key", key, "expires", info.Expires)
		return nil, false, nil
	}
	payload, err := io.ReadAll(obj)
	if err != nil {
		return missing(err)
	}
	return payload, true, nil
}

func (s *ObjectStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	opts := minio.PutObjectOptions{
		ContentType:      "application/json; charset=utf-8",
		DisableMultipart: true,
	}
	if ttl > 0 {
		opts.CacheControl = fmt.Sprintf("max-age=%d", int(ttl.Seconds()))
		opts.Expires = s.now().Add(ttl).UTC()
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(value), int64(len(value)), opts)
	return err
}

func (s *ObjectStore) Delete(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

// missing reports a NoSuchKey response as a plain cache miss.
func missing(err error) ([]byte, bool, error) {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return nil, false, nil
	}
	return nil, false, err
}

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if idx := strings.Index(raw, "/"); idx >= 0 {
		raw = raw[:idx]
	}
	return raw
}

var _ insight.KVStore = (*ObjectStore)(nil)
