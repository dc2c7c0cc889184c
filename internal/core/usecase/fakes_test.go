package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/kirillkom/estate-docs/internal/core/domain"
)

type repoFake struct {
	docs      []domain.Document
	sequences map[string]int
	updated   []domain.Document
	verified  []domain.Verification
	createErr error
	listErr   error
}

func newRepoFake(docs ...domain.Document) *repoFake {
	return &repoFake{docs: docs, sequences: map[string]int{}}
}

func (f *repoFake) Create(_ context.Context, doc *domain.Document) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.docs = append(f.docs, *doc)
	return nil
}

func (f *repoFake) GetByID(_ context.Context, id string) (*domain.Document, error) {
	for _, doc := range f.docs {
		if doc.ID == id {
			copyDoc := doc
			return &copyDoc, nil
		}
	}
	return nil, domain.WrapError(domain.ErrDocumentNotFound, "get", fmt.Errorf("id=%s", id))
}

func (f *repoFake) List(context.Context) ([]domain.Document, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return slices.Clone(f.docs), nil
}

func (f *repoFake) Update(_ context.Context, doc *domain.Document) error {
	for i := range f.docs {
		if f.docs[i].ID == doc.ID {
			if f.docs[i].Version != doc.Version-1 {
				return domain.WrapError(domain.ErrConflict, "update", fmt.Errorf("id=%s", doc.ID))
			}
			f.docs[i] = *doc
			f.updated = append(f.updated, *doc)
			return nil
		}
	}
	return domain.WrapError(domain.ErrDocumentNotFound, "update", fmt.Errorf("id=%s", doc.ID))
}

func (f *repoFake) UpdateVerification(_ context.Context, id string, v domain.Verification) error {
	for i := range f.docs {
		if f.docs[i].ID == id {
			f.docs[i].ApplyVerification(v)
			f.verified = append(f.verified, v)
			return nil
		}
	}
	return domain.WrapError(domain.ErrDocumentNotFound, "update verification", fmt.Errorf("id=%s", id))
}

func (f *repoFake) NextSequence(_ context.Context, category domain.Category, fiscalYear string) (int, error) {
	key := string(category) + "/" + fiscalYear
	f.sequences[key]++
	return f.sequences[key], nil
}

type storageFake struct {
	objects map[string][]byte
	err     error
}

func newStorageFake() *storageFake {
	return &storageFake{objects: map[string][]byte{}}
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.err != nil {
		return f.err
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.objects[key] = raw
	return nil
}

func (f *storageFake) Open(_ context.Context, key string) (io.ReadCloser, error) {
	raw, ok := f.objects[key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(raw)), nil
}

type queueFake struct {
	published []string
	err       error
}

func (f *queueFake) PublishDocumentUploaded(_ context.Context, documentID string) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, documentID)
	return nil
}

func (f *queueFake) SubscribeDocumentUploaded(context.Context, func(context.Context, string) error) error {
	return errors.New("not implemented")
}

type graphFake struct {
	links   map[string][]string
	linkErr error
}

func newGraphFake() *graphFake {
	return &graphFake{links: map[string][]string{}}
}

func (f *graphFake) LinkReferences(_ context.Context, documentID string, references []string) error {
	if f.linkErr != nil {
		return f.linkErr
	}
	f.links[documentID] = append(f.links[documentID], references...)
	return nil
}

func (f *graphFake) ReferencedBy(_ context.Context, keys ...string) ([]string, error) {
	var out []string
	for source, refs := range f.links {
		for _, ref := range refs {
			if slices.Contains(keys, ref) {
				out = append(out, source)
				break
			}
		}
	}
	slices.Sort(out)
	return out, nil
}

func mustDay(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}
