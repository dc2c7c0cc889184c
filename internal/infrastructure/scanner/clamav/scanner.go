package clamav

import (
	"context"
	"errors"
	"fmt"
	"io"

	clamd "github.com/dutchcoders/go-clamd"

	"github.com/kirillkom/estate-docs/internal/core/domain"
)

// streamScanner is the subset of *clamd.Clamd the scanner needs.
type streamScanner interface {
	ScanStream(r io.Reader, abort chan bool) (chan *clamd.ScanResult, error)
}

type Scanner struct {
	client streamScanner
}

func New(address string) *Scanner {
	return &Scanner{client: clamd.NewClamd(address)}
}

func newWithClient(client streamScanner) *Scanner {
	return &Scanner{client: client}
}

// Scan streams content to clamd. A positive match returns domain.ErrInfected;
// transport failures are reported as domain.ErrTemporary so the job can be retried.
func (s *Scanner) Scan(ctx context.Context, content io.Reader) error {
	abort := make(chan bool, 1)
	results, err := s.client.ScanStream(content, abort)
	if err != nil {
		return domain.WrapError(domain.ErrTemporary, "clamav scan", err)
	}

	for {
		select {
		case <-ctx.Done():
			abort <- true
			return ctx.Err()
		case res, ok := <-results:
			if !ok {
				return nil
			}
			if res == nil {
				continue
			}
			switch res.Status {
			case clamd.RES_FOUND:
				abort <- true
				return domain.WrapError(domain.ErrInfected, "clamav scan", errors.New(res.Description))
			case clamd.RES_ERROR, clamd.RES_PARSE_ERROR:
				abort <- true
				return domain.WrapError(domain.ErrTemporary, "clamav scan", fmt.Errorf("clamd: %s", res.Raw))
			}
		}
	}
}
