package storage

import (
	"bytes"
	"context"
	"time"

	gcs "cloud.google.com/go/storage"

	"github.com/oksasatya/go-ddd-worktime/pkg/helpers"
)

// GCSUploader writes exports into a single bucket.
type GCSUploader struct {
	client *gcs.Client
	bucket string
}

func NewGCSUploader(client *gcs.Client, bucket string) *GCSUploader {
	return &GCSUploader{client: client, bucket: bucket}
}

func (u *GCSUploader) Upload(ctx context.Context, objectPath, contentType string, body []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return helpers.UploadObject(ctx, u.client, u.bucket, objectPath, contentType, bytes.NewReader(body))
}
