package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync/atomic"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3API is the subset of the S3 client used by S3Store.
// *s3.Client satisfies it.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store keeps one object per key in an S3 (or S3-compatible) bucket.
// Atomic creation relies on conditional writes (If-None-Match: *).
type S3Store struct {
	client S3API
	bucket string
	prefix string
	closed atomic.Bool
}

// S3StoreOption configures S3Store behavior.
type S3StoreOption func(*S3Store)

// WithS3Prefix sets the object key prefix.
// Default: "hxstate/".
func WithS3Prefix(prefix string) S3StoreOption {
	return func(s *S3Store) {
		s.prefix = prefix
	}
}

// NewS3Store creates a store backed by bucket.
func NewS3Store(client S3API, bucket string, opts ...S3StoreOption) *S3Store {
	s := &S3Store{
		client: client,
		bucket: bucket,
		prefix: "hxstate/",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *S3Store) objectKey(key string) string {
	return s.prefix + key
}

// Load fetches the object for key.
func (s *S3Store) Load(ctx context.Context, key string) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrStoreClosed{}
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		if s3ErrorCode(err) == "NoSuchKey" || s3ErrorCode(err) == "NotFound" {
			return nil, nil
		}
		return nil, storeError("s3", "get", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, storeError("s3", "read", key, err)
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

// Save overwrites the object for key.
func (s *S3Store) Save(ctx context.Context, key string, data []byte) error {
	if s.closed.Load() {
		return ErrStoreClosed{}
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(key)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	return storeError("s3", "put", key, err)
}

// SaveIfAbsent writes the object only if it does not exist yet.
func (s *S3Store) SaveIfAbsent(ctx context.Context, key string, data []byte) ([]byte, bool, error) {
	if s.closed.Load() {
		return nil, false, ErrStoreClosed{}
	}

	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(s.objectKey(key)),
			Body:        bytes.NewReader(data),
			ContentType: aws.String("application/json"),
			IfNoneMatch: aws.String("*"),
		})
		if err == nil {
			return cloneBytes(data), true, nil
		}
		switch s3ErrorCode(err) {
		case "PreconditionFailed":
			current, err := s.Load(ctx, key)
			if err != nil {
				return nil, false, err
			}
			if current != nil {
				return current, false, nil
			}
		case "ConditionalRequestConflict":
			// A concurrent conditional write is in flight; try again.
		default:
			return nil, false, storeError("s3", "put-if-absent", key, err)
		}
	}
	return nil, false, storeError("s3", "put-if-absent", key, errCreateRace)
}

// Delete removes the object for key. S3 deletes are idempotent.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	if s.closed.Load() {
		return ErrStoreClosed{}
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	return storeError("s3", "delete", key, err)
}

// Close marks the store as closed. The S3 client is not owned by the store.
func (s *S3Store) Close() error {
	s.closed.Store(true)
	return nil
}

func s3ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
