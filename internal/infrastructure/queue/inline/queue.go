// Package inline delivers upload events to an in-process subscriber, for
// single-binary deployments without a broker.
package inline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/kirillkom/estate-docs/internal/core/domain"
)

var errQueueFull = errors.New("inline queue is full")

type Queue struct {
	events chan string
}

func New(buffer int) *Queue {
	if buffer <= 0 {
		buffer = 64
	}
	return &Queue{events: make(chan string, buffer)}
}

// PublishDocumentUploaded enqueues without blocking; a full buffer is reported as temporary.
func (q *Queue) PublishDocumentUploaded(ctx context.Context, documentID string) error {
	select {
	case q.events <- documentID:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return domain.WrapError(domain.ErrTemporary, "inline publish", errQueueFull)
	}
}

// SubscribeDocumentUploaded handles events sequentially until ctx is done.
func (q *Queue) SubscribeDocumentUploaded(ctx context.Context, handler func(context.Context, string) error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case id := <-q.events:
			if err := handler(ctx, id); err != nil {
				slog.Error("worker_handler_error", "document_id", id, "error", err)
			}
		}
	}
}

func (q *Queue) Close() {}
