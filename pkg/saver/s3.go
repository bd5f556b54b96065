package saver

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI is the part of *s3.Client an S3Saver needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var _ PutObjectAPI = (*s3.Client)(nil)

// S3Saver stores payloads as objects in an S3 bucket.
//
// Example usage:
//
//	cfg, _ := config.LoadDefaultConfig(context.Background())
//	s := saver.NewS3Saver(s3.NewFromConfig(cfg), "my-bucket", "downloads/")
type S3Saver struct {
	client PutObjectAPI
	bucket string
	prefix string
}

// NewS3Saver creates an S3Saver.
//
// Parameters:
//   - client: S3 client from aws-sdk-go-v2
//   - bucket: bucket name
//   - prefix: key prefix (e.g., "downloads/")
func NewS3Saver(client PutObjectAPI, bucket, prefix string) *S3Saver {
	return &S3Saver{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// Bucket returns the target bucket.
func (s *S3Saver) Bucket() string {
	return s.bucket
}

// Key returns the object key a payload named name is stored under.
func (s *S3Saver) Key(name string) (string, error) {
	return objectKey(s.prefix, name)
}

// Save uploads data to the bucket.
func (s *S3Saver) Save(ctx context.Context, name string, data []byte, contentType string) error {
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

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
		Metadata: map[string]string{
			"original-filename": name,
			"saved-time":        time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return fmt.Errorf("saver: s3 put %s/%s: %w", s.bucket, key, err)
	}
	return nil
}

// ParseS3URL splits "s3://bucket/prefix" into bucket and prefix. A
// non-empty prefix always ends in "/".
func ParseS3URL(raw string) (bucket, prefix string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("saver: parse %q: %w", raw, err)
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("saver: %q is not an s3://bucket[/prefix] URL", raw)
	}
	prefix = strings.TrimPrefix(u.Path, "/")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return u.Host, prefix, nil
}

// IsS3URL reports whether target names an S3 location.
func IsS3URL(target string) bool {
	return strings.HasPrefix(target, "s3://")
}
