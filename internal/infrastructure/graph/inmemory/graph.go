package inmemory

import (
	"context"
	"slices"
	"sync"
)

// Graph keeps cross-reference edges in process. Edges point from a document ID
// to whatever identifier the document cited.
type Graph struct {
	mu    sync.RWMutex
	edges map[string][]string
}

func New() *Graph {
	return &Graph{edges: make(map[string][]string)}
}

// LinkReferences replaces the outbound edges of documentID.
func (g *Graph) LinkReferences(_ context.Context, documentID string, references []string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(references) == 0 {
		delete(g.edges, documentID)
		return nil
	}
	g.edges[documentID] = slices.Clone(references)
	return nil
}

// ReferencedBy returns the sorted IDs of documents citing any of keys.
func (g *Graph) ReferencedBy(_ context.Context, keys ...string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]string, 0)
	for source, targets := range g.edges {
		for _, key := range keys {
			if slices.Contains(targets, key) {
				out = append(out, source)
				break
			}
		}
	}
	slices.Sort(out)
	return out, nil
}
