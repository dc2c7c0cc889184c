package minio

import (
	"context"
	"fmt"
	"testing"

	"github.com/minio/minio-go/v7"

	"github.com/kirillkom/estate-docs/internal/core/domain"
)

func TestClassifyMinioError(t *testing.T) {
	unavailable := fmt.Errorf("put object: %w", minio.ErrorResponse{StatusCode: 503, Code: "SlowDown"})
	if class := classifyMinioError(unavailable); !class.Retryable || !class.RecordFailure {
		t.Fatalf("expected retryable 503, got %+v", class)
	}

	missing := fmt.Errorf("stat object: %w", minio.ErrorResponse{StatusCode: 404, Code: "NoSuchKey"})
	if class := classifyMinioError(missing); class.Retryable || class.RecordFailure {
		t.Fatalf("expected missing key to be neither retried nor recorded, got %+v", class)
	}

	denied := minio.ErrorResponse{StatusCode: 403, Code: "AccessDenied"}
	if class := classifyMinioError(denied); class.Retryable {
		t.Fatalf("expected access denied to be permanent")
	}

	if class := classifyMinioError(context.Canceled); class.RecordFailure {
		t.Fatalf("expected cancellation not to trip the breaker")
	}
}

func TestWrapTemporaryIfNeeded(t *testing.T) {
	err := wrapTemporaryIfNeeded(minio.ErrorResponse{StatusCode: 500, Code: "InternalError"})
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected temporary kind, got %v", err)
	}
	if wrapTemporaryIfNeeded(nil) != nil {
		t.Fatalf("expected nil passthrough")
	}
}
