package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/kirillkom/estate-docs/internal/core/domain"
	"github.com/kirillkom/estate-docs/internal/infrastructure/resilience"
)

type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool

	ResilienceExecutor *resilience.Executor
}

// Storage keeps uploaded files in an S3-compatible bucket.
type Storage struct {
	client   *minio.Client
	bucket   string
	executor *resilience.Executor
}

func New(ctx context.Context, options Options) (*Storage, error) {
	client, err := minio.New(options.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(options.AccessKey, options.SecretKey, ""),
		Secure: options.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	s := &Storage{
		client:   client,
		bucket:   options.Bucket,
		executor: options.ResilienceExecutor,
	}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Storage) ensureBucket(ctx context.Context) error {
	return s.execute(ctx, "minio.ensure_bucket", func(ctx context.Context) error {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			return fmt.Errorf("check bucket: %w", err)
		}
		if exists {
			return nil
		}
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		slog.Info("minio_bucket_created", "bucket", s.bucket)
		return nil
	}, classifyMinioError)
}

// Save streams the body once; a consumed reader cannot be replayed, so puts are not retried.
func (s *Storage) Save(ctx context.Context, key string, data io.Reader) error {
	return s.execute(ctx, "minio.put", func(ctx context.Context) error {
		_, err := s.client.PutObject(ctx, s.bucket, key, data, -1, minio.PutObjectOptions{
			ContentType: "application/octet-stream",
		})
		if err != nil {
			return fmt.Errorf("put object: %w", err)
		}
		return nil
	}, func(err error) resilience.ErrorClassification {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: classifyMinioError(err).RecordFailure}
	})
}

func (s *Storage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	var obj *minio.Object
	err := s.execute(ctx, "minio.get", func(ctx context.Context) error {
		o, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
		if err != nil {
			return fmt.Errorf("get object: %w", err)
		}
		// GetObject is lazy; Stat surfaces missing keys before the caller reads.
		if _, err := o.Stat(); err != nil {
			_ = o.Close()
			return fmt.Errorf("stat object: %w", err)
		}
		obj = o
		return nil
	}, classifyMinioError)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "open object", err)
		}
		return nil, wrapTemporaryIfNeeded(err)
	}
	return obj, nil
}

func (s *Storage) execute(
	ctx context.Context,
	operation string,
	fn func(context.Context) error,
	classifier resilience.ErrorClassifier,
) error {
	if s.executor == nil {
		return fn(ctx)
	}
	return s.executor.Execute(ctx, operation, fn, classifier)
}

func classifyMinioError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || isNotFound(err) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}
	if resilience.IsCircuitOpen(err) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}
	resp := errorResponse(err)
	if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}
	return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
}

func isNotFound(err error) bool {
	resp := errorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}

func wrapTemporaryIfNeeded(err error) error {
	if err == nil || domain.IsKind(err, domain.ErrTemporary) {
		return err
	}
	if classifyMinioError(err).Retryable {
		return domain.WrapError(domain.ErrTemporary, "minio", err)
	}
	return err
}

func errorResponse(err error) minio.ErrorResponse {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		return resp
	}
	return minio.ErrorResponse{}
}
