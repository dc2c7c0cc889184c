package neo4j

import (
	"context"
	"errors"
	"fmt"
	"slices"

	neo4jdriver "github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/kirillkom/estate-docs/internal/core/domain"
	"github.com/kirillkom/estate-docs/internal/infrastructure/resilience"
)

const (
	linkReferencesCypher = `
MERGE (s:Document {key: $id})
WITH s
OPTIONAL MATCH (s)-[old:REFERENCES]->()
DELETE old
WITH DISTINCT s
UNWIND $refs AS ref
MERGE (t:Document {key: ref})
MERGE (s)-[:REFERENCES]->(t)
`
	referencedByCypher = `
MATCH (s:Document)-[:REFERENCES]->(t:Document)
WHERE t.key IN $keys
RETURN DISTINCT s.key AS id
ORDER BY id
`
)

type queryFunc func(ctx context.Context, cypher string, params map[string]any) (*neo4jdriver.EagerResult, error)

// Graph stores cross-reference edges as (:Document)-[:REFERENCES]->(:Document).
type Graph struct {
	driver   neo4jdriver.DriverWithContext
	query    queryFunc
	executor *resilience.Executor
}

type Options struct {
	URI                string
	Username           string
	Password           string
	Database           string
	ResilienceExecutor *resilience.Executor
}

func New(ctx context.Context, opts Options) (*Graph, error) {
	driver, err := neo4jdriver.NewDriverWithContext(opts.URI, neo4jdriver.BasicAuth(opts.Username, opts.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verify neo4j connectivity: %w", err)
	}

	database := opts.Database
	if database == "" {
		database = "neo4j"
	}
	query := func(ctx context.Context, cypher string, params map[string]any) (*neo4jdriver.EagerResult, error) {
		return neo4jdriver.ExecuteQuery(ctx, driver, cypher, params,
			neo4jdriver.EagerResultTransformer,
			neo4jdriver.ExecuteQueryWithDatabase(database),
		)
	}
	return &Graph{driver: driver, query: query, executor: opts.ResilienceExecutor}, nil
}

func (g *Graph) Close(ctx context.Context) error {
	if g.driver == nil {
		return nil
	}
	return g.driver.Close(ctx)
}

func (g *Graph) LinkReferences(ctx context.Context, documentID string, references []string) error {
	refs := references
	if refs == nil {
		refs = []string{}
	}
	_, err := resilience.Call(ctx, g.executor, "neo4j.link_references", func(ctx context.Context) (*neo4jdriver.EagerResult, error) {
		return g.query(ctx, linkReferencesCypher, map[string]any{"id": documentID, "refs": refs})
	}, classifyNeo4jError)
	if err != nil {
		return wrapTemporaryIfNeeded("neo4j link references", err)
	}
	return nil
}

func (g *Graph) ReferencedBy(ctx context.Context, keys ...string) ([]string, error) {
	if len(keys) == 0 {
		return []string{}, nil
	}
	result, err := resilience.Call(ctx, g.executor, "neo4j.referenced_by", func(ctx context.Context) (*neo4jdriver.EagerResult, error) {
		return g.query(ctx, referencedByCypher, map[string]any{"keys": keys})
	}, classifyNeo4jError)
	if err != nil {
		return nil, wrapTemporaryIfNeeded("neo4j referenced by", err)
	}

	out := make([]string, 0, len(result.Records))
	for _, record := range result.Records {
		raw, ok := record.Get("id")
		if !ok {
			continue
		}
		if id, ok := raw.(string); ok && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out, nil
}

func classifyNeo4jError(err error) resilience.ErrorClassification {
	switch {
	case err == nil:
		return resilience.ErrorClassification{}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	case resilience.IsCircuitOpen(err), neo4jdriver.IsRetryable(err):
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	default:
		return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
	}
}

func wrapTemporaryIfNeeded(op string, err error) error {
	if err == nil || domain.IsKind(err, domain.ErrTemporary) {
		return err
	}
	if classifyNeo4jError(err).Retryable {
		return domain.WrapError(domain.ErrTemporary, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
