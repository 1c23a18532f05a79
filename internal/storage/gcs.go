package storage

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/config"
	"google.golang.org/api/option"
)

type gcsBackend struct {
	bucket    *storage.BucketHandle
	projectID string
}

func newGCSBackend(ctx context.Context, cfg config.GCSConfig) (*gcsBackend, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("gcs export needs GCS_BUCKET")
	}

	var opts []option.ClientOption
	if strings.TrimSpace(cfg.CredentialsFile) != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &gcsBackend{
		bucket:    client.Bucket(cfg.Bucket),
		projectID: cfg.ProjectID,
	}, nil
}

// EnsureBucket creates a missing bucket when a project id is configured.
func (g *gcsBackend) EnsureBucket(ctx context.Context) error {
	_, err := g.bucket.Attrs(ctx)
	if !errors.Is(err, storage.ErrBucketNotExist) {
		return err
	}
	if strings.TrimSpace(g.projectID) == "" {
		return errors.New("gcs bucket does not exist and GCS_PROJECT_ID is not set to create it")
	}
	return g.bucket.Create(ctx, g.projectID, nil)
}

// Put writes the object in a single request; snapshots are small.
func (g *gcsBackend) Put(ctx context.Context, obj Object) error {
	writer := g.bucket.Object(obj.Key).NewWriter(ctx)
	writer.ChunkSize = 0
	writer.ContentType = obj.ContentType
	writer.ContentDisposition = obj.ContentDisposition
	writer.Metadata = obj.Metadata

	if _, err := writer.Write(obj.Body); err != nil {
		_ = writer.Close()
		return err
	}
	return writer.Close()
}
