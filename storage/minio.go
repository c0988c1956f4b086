package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"moodfm/config"
	"moodfm/logger"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StoredObject describes one durably stored audio object: the retrieval URL
// handed to clients and the opaque key used for later deletion.
type StoredObject struct {
	URL      string
	ObjectID string
}

// Store uploads and deletes audio objects in a MinIO bucket. Uploads are
// independent of each other; Store holds no mutable state after New.
type Store struct {
	client        *minio.Client
	bucket        string
	publicURL     string
	uploadTimeout time.Duration
}

// New creates the MinIO client and makes sure the bucket exists.
func New(cfg *config.Config) (*Store, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.MinioBucket, err)
	}
	if !exists {
		err = client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{Region: cfg.MinioRegion})
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.MinioBucket, err)
		}
		logger.Info("Created storage bucket", logger.String("bucket", cfg.MinioBucket))
	}

	publicURL := cfg.MinioPublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.MinioUseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s", scheme, cfg.MinioEndpoint)
	}

	return &Store{
		client:        client,
		bucket:        cfg.MinioBucket,
		publicURL:     publicURL,
		uploadTimeout: cfg.UploadTimeout,
	}, nil
}

// Upload streams audio bytes into the bucket under songs/<mood>/<uuid><ext>
// and blocks until the store confirms the object is written. The returned
// object is only valid once Upload returns without error; callers must not
// persist a reference to it on failure.
func (s *Store) Upload(ctx context.Context, reader io.Reader, size int64, contentType, moodFolder, ext string) (*StoredObject, error) {
	objectID := path.Join("songs", moodFolder, uuid.NewString()+ext)

	ctx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
	defer cancel()

	start := time.Now()
	info, err := s.client.PutObject(ctx, s.bucket, objectID, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload object %s: %w", objectID, err)
	}

	logger.Info("Audio object stored",
		logger.String("objectId", objectID),
		logger.Int64("size", info.Size),
		logger.Duration("elapsed", time.Since(start)))

	return &StoredObject{
		URL:      fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, objectID),
		ObjectID: objectID,
	}, nil
}

// Delete removes an object and reports whether the removal succeeded.
// Deletion tolerates remote failure, so this returns a flag instead of an
// error; the caller decides whether a leftover object matters.
func (s *Store) Delete(ctx context.Context, objectID string) bool {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := s.client.RemoveObject(ctx, s.bucket, objectID, minio.RemoveObjectOptions{}); err != nil {
		logger.Warn("Failed to delete audio object",
			logger.String("objectId", objectID),
			logger.ErrorField(err))
		return false
	}
	return true
}
