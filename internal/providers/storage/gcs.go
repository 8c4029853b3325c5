package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type GCSProvider struct {
	client *gcs.Client
	bucket string
}

func NewGCS(ctx context.Context, bucket string, opts ...option.ClientOption) (*GCSProvider, error) {
	if bucket == "" {
		return nil, errors.New("gcs bucket is empty")
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GCSProvider{client: client, bucket: bucket}, nil
}

// Upload writes data to <bucket>/<name>; the object name is the file id.
func (p *GCSProvider) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	obj := p.client.Bucket(p.bucket).Object(name)
	objWriter := obj.NewWriter(ctx)
	objWriter.ContentType = contentType

	if _, err := objWriter.Write(data); err != nil {
		_ = objWriter.Close()
		return "", err
	}
	if err := objWriter.Close(); err != nil {
		return "", fmt.Errorf("gcs upload %s: %w", name, err)
	}
	return name, nil
}

func (p *GCSProvider) Download(ctx context.Context, fileID string) ([]byte, error) {
	reader, err := p.client.Bucket(p.bucket).Object(fileID).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer reader.Close()

	return io.ReadAll(reader)
}

func (p *GCSProvider) Close() error {
	return p.client.Close()
}
