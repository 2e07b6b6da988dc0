package i18n

import (
	"context"
	"io"
	"path"

	"github.com/minio/minio-go/v7"
)

// Bucket is a Source backed by objects in a MinIO/S3 bucket, so operators can
// ship custom overrides without touching the application image.
type Bucket struct {
	client *minio.Client
	bucket string
	prefix string
}

func NewBucket(client *minio.Client, bucket, prefix string) *Bucket {
	return &Bucket{client: client, bucket: bucket, prefix: prefix}
}

func (b *Bucket) Read(ctx context.Context, name string) ([]byte, bool, error) {
	obj, err := b.client.GetObject(ctx, b.bucket, path.Join(b.prefix, name), minio.GetObjectOptions{})
	if err != nil {
		return nil, false, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

func (b *Bucket) Name() string { return "s3://" + path.Join(b.bucket, b.prefix) }
