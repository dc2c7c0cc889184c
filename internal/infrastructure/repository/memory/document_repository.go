package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/kirillkom/estate-docs/internal/core/domain"
)

// DocumentRepository keeps documents in insertion order behind a RWMutex.
type DocumentRepository struct {
	mu        sync.RWMutex
	docs      []domain.Document
	index     map[string]int
	sequences map[string]int
}

func NewDocumentRepository(seed ...domain.Document) *DocumentRepository {
	r := &DocumentRepository{
		index:     make(map[string]int),
		sequences: make(map[string]int),
	}
	for i := range seed {
		r.insert(seed[i])
	}
	return r
}

func (r *DocumentRepository) Create(_ context.Context, doc *domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[doc.ID]; exists {
		return domain.WrapError(domain.ErrInvalidInput, "create document", fmt.Errorf("duplicate id %s", doc.ID))
	}
	r.insert(*doc)
	return nil
}

func (r *DocumentRepository) GetByID(_ context.Context, id string) (*domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("id=%s", id))
	}
	doc := cloneDocument(r.docs[i])
	return &doc, nil
}

func (r *DocumentRepository) List(_ context.Context) ([]domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Document, 0, len(r.docs))
	for _, doc := range r.docs {
		out = append(out, cloneDocument(doc))
	}
	return out, nil
}

func (r *DocumentRepository) Update(_ context.Context, doc *domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[doc.ID]
	if !ok {
		return domain.WrapError(domain.ErrDocumentNotFound, "update document", fmt.Errorf("id=%s", doc.ID))
	}
	stored := &r.docs[i]
	if stored.Version != doc.Version-1 {
		return domain.WrapError(domain.ErrConflict, "update document",
			fmt.Errorf("id=%s stored version %d, got %d", doc.ID, stored.Version, doc.Version))
	}
	stored.Status = doc.Status
	stored.ApprovedBy = doc.ApprovedBy
	stored.Tags = slices.Clone(doc.Tags)
	stored.CrossReferences = slices.Clone(doc.CrossReferences)
	stored.Notes = doc.Notes
	stored.Version = doc.Version
	stored.UpdatedAt = doc.UpdatedAt
	return nil
}

func (r *DocumentRepository) UpdateVerification(_ context.Context, id string, v domain.Verification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return domain.WrapError(domain.ErrDocumentNotFound, "update verification", fmt.Errorf("id=%s", id))
	}
	r.docs[i].ApplyVerification(v)
	return nil
}

func (r *DocumentRepository) NextSequence(_ context.Context, category domain.Category, fiscalYear string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := sequenceKey(category, fiscalYear)
	r.sequences[key]++
	return r.sequences[key], nil
}

func (r *DocumentRepository) insert(doc domain.Document) {
	r.index[doc.ID] = len(r.docs)
	r.docs = append(r.docs, cloneDocument(doc))

	// Numbered seed documents advance the counter so new uploads do not reuse their numbers.
	var seq int
	if _, err := fmt.Sscanf(doc.DocumentNumber, "%d", &seq); err == nil {
		key := sequenceKey(doc.Category, doc.FiscalYear)
		if seq > r.sequences[key] {
			r.sequences[key] = seq
		}
	}
}

func sequenceKey(category domain.Category, fiscalYear string) string {
	return string(category) + "/" + fiscalYear
}

func cloneDocument(doc domain.Document) domain.Document {
	doc.Tags = slices.Clone(doc.Tags)
	doc.CrossReferences = slices.Clone(doc.CrossReferences)
	return doc
}
