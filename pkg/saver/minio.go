package saver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectPutter is the part of *minio.Client a MinioSaver needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

var _ ObjectPutter = (*minio.Client)(nil)

// MinioSaver stores payloads in a bucket on an S3-compatible server
// such as MinIO or Ceph, addressed by endpoint rather than AWS region.
type MinioSaver struct {
	client ObjectPutter
	bucket string
	prefix string
}

// NewMinioSaver creates a MinioSaver. A non-empty prefix should end in "/".
func NewMinioSaver(client ObjectPutter, bucket, prefix string) *MinioSaver {
	return &MinioSaver{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// NewMinioClient connects to endpoint with static credentials. The
// endpoint is "host:port" (TLS) or an http:// or https:// URL.
func NewMinioClient(endpoint, accessKey, secretKey string) (*minio.Client, error) {
	host, secure, err := parseEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("saver: connect %s: %w", endpoint, err)
	}
	return client, nil
}

func parseEndpoint(endpoint string) (host string, secure bool, err error) {
	if !strings.Contains(endpoint, "://") {
		if endpoint == "" {
			return "", false, fmt.Errorf("saver: empty endpoint")
		}
		return endpoint, true, nil
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("saver: parse endpoint %q: %w", endpoint, err)
	}
	switch u.Scheme {
	case "https":
		secure = true
	case "http":
	default:
		return "", false, fmt.Errorf("saver: endpoint %q must use http or https", endpoint)
	}
	if u.Host == "" {
		return "", false, fmt.Errorf("saver: endpoint %q has no host", endpoint)
	}
	return u.Host, secure, nil
}

// Bucket returns the target bucket.
func (s *MinioSaver) Bucket() string {
	return s.bucket
}

// Key returns the object name a payload named name is stored under.
func (s *MinioSaver) Key(name string) (string, error) {
	return objectKey(s.prefix, name)
}

// Save uploads data to the bucket.
func (s *MinioSaver) Save(ctx context.Context, name string, data []byte, contentType string) error {
	if len(data) == 0 {
		return ErrEmpty
	}
	key, err := s.Key(name)
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"original-filename": name,
			"saved-time":        time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return fmt.Errorf("saver: put %s/%s: %w", s.bucket, key, err)
	}
	return nil
}
