package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/kirillkom/estate-docs/internal/config"
	"github.com/kirillkom/estate-docs/internal/core/domain"
	"github.com/kirillkom/estate-docs/internal/core/ports"
	"github.com/kirillkom/estate-docs/internal/core/usecase"
	graphinmemory "github.com/kirillkom/estate-docs/internal/infrastructure/graph/inmemory"
	graphneo4j "github.com/kirillkom/estate-docs/internal/infrastructure/graph/neo4j"
	"github.com/kirillkom/estate-docs/internal/infrastructure/inspector"
	"github.com/kirillkom/estate-docs/internal/infrastructure/queue/inline"
	"github.com/kirillkom/estate-docs/internal/infrastructure/queue/nats"
	"github.com/kirillkom/estate-docs/internal/infrastructure/repository/memory"
	"github.com/kirillkom/estate-docs/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/estate-docs/internal/infrastructure/resilience"
	"github.com/kirillkom/estate-docs/internal/infrastructure/scanner/clamav"
	"github.com/kirillkom/estate-docs/internal/infrastructure/seed"
	"github.com/kirillkom/estate-docs/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/estate-docs/internal/infrastructure/storage/minio"
)

type App struct {
	Config config.Config

	Queue   ports.MessageQueue
	Repo    ports.DocumentRepository
	Storage ports.ObjectStorage
	Graph   ports.ReferenceGraph

	// Resilience guards the NATS, MinIO and Neo4j adapters; binaries export its breaker states.
	Resilience *resilience.Executor

	Catalog    *usecase.CatalogUseCase
	Uploader   *usecase.UploadUseCase
	Reviewer   *usecase.ReviewUseCase
	Downloader *usecase.DownloadUseCase
	Verifier   *usecase.VerifyUseCase

	closers []func()
}

// Options carries process-specific hooks into the wiring.
type Options struct {
	// OnDeliveryLag is passed to the NATS consumer; nil disables lag reporting.
	OnDeliveryLag func(time.Duration)
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	return NewWithOptions(ctx, cfg, Options{})
}

func NewWithOptions(ctx context.Context, cfg config.Config, opts Options) (app *App, err error) {
	app = &App{Config: cfg}
	defer func() {
		if err != nil {
			app.Close()
			app = nil
		}
	}()

	executor := resilience.NewExecutor(resiliencePolicy(cfg))
	app.Resilience = executor

	seedDocs, err := seed.Load(cfg.SeedFile)
	if err != nil {
		return app, fmt.Errorf("load seed documents: %w", err)
	}

	if err := app.initRepository(ctx, cfg, seedDocs); err != nil {
		return app, err
	}
	if err := app.initStorage(ctx, cfg, executor); err != nil {
		return app, err
	}
	if err := app.initQueue(cfg, executor, opts); err != nil {
		return app, err
	}
	if err := app.initGraph(ctx, cfg, executor); err != nil {
		return app, err
	}
	if err := linkSeedReferences(ctx, app.Graph, seedDocs); err != nil {
		return app, err
	}

	var scanner ports.MalwareScanner
	if cfg.ClamAVAddress != "" {
		scanner = clamav.New(cfg.ClamAVAddress)
	}

	app.Catalog = usecase.NewCatalogUseCase(app.Repo, app.Graph, cfg.FiscalYearStartMonth)
	app.Uploader = usecase.NewUploadUseCase(app.Repo, app.Storage, app.Queue, app.Graph, cfg.FiscalYearStartMonth)
	app.Reviewer = usecase.NewReviewUseCase(app.Repo)
	app.Downloader = usecase.NewDownloadUseCase(app.Repo, app.Storage)
	app.Verifier = usecase.NewVerifyUseCase(app.Repo, app.Storage, inspector.New(), scanner, cfg.UploadMaxBytes)
	return app, nil
}

// InlineQueue reports whether upload events are delivered in-process, in which
// case the API binary also runs verification.
func (a *App) InlineQueue() bool {
	_, ok := a.Queue.(*inline.Queue)
	return ok
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) initRepository(ctx context.Context, cfg config.Config, seedDocs []domain.Document) error {
	switch cfg.RepositoryBackend {
	case "memory":
		a.Repo = memory.NewDocumentRepository(seedDocs...)
		return nil
	case "postgres":
		db, err := postgres.OpenDB(cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		a.closers = append(a.closers, func() { _ = db.Close() })

		repo := postgres.NewDocumentRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
		if err := seedPostgres(ctx, repo, seedDocs); err != nil {
			return err
		}
		a.Repo = repo
		return nil
	default:
		return fmt.Errorf("unknown repository backend %q", cfg.RepositoryBackend)
	}
}

// seedPostgres files the seed set into an empty database only.
func seedPostgres(ctx context.Context, repo *postgres.DocumentRepository, docs []domain.Document) error {
	n, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count documents: %w", err)
	}
	if n > 0 {
		return nil
	}
	for i := range docs {
		doc := docs[i]
		if err := repo.Create(ctx, &doc); err != nil {
			return fmt.Errorf("seed document %s: %w", doc.ID, err)
		}
		if seq, err := strconv.Atoi(doc.DocumentNumber); err == nil {
			if err := repo.AdvanceSequence(ctx, doc.Category, doc.FiscalYear, seq); err != nil {
				return fmt.Errorf("seed sequence %s: %w", doc.ID, err)
			}
		}
	}
	slog.Info("seeded_documents", "count", len(docs))
	return nil
}

func (a *App) initStorage(ctx context.Context, cfg config.Config, executor *resilience.Executor) error {
	switch cfg.StorageBackend {
	case "localfs":
		storage, err := localfs.New(cfg.StoragePath)
		if err != nil {
			return fmt.Errorf("init object storage: %w", err)
		}
		a.Storage = storage
		return nil
	case "minio":
		storage, err := minio.New(ctx, minio.Options{
			Endpoint:           cfg.MinIOEndpoint,
			AccessKey:          cfg.MinIOAccessKey,
			SecretKey:          cfg.MinIOSecretKey,
			Bucket:             cfg.MinIOBucket,
			UseSSL:             cfg.MinIOUseSSL,
			ResilienceExecutor: executor,
		})
		if err != nil {
			return fmt.Errorf("init minio storage: %w", err)
		}
		a.Storage = storage
		return nil
	default:
		return fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func (a *App) initQueue(cfg config.Config, executor *resilience.Executor, opts Options) error {
	switch cfg.QueueBackend {
	case "inline":
		a.Queue = inline.New(0)
		return nil
	case "nats":
		queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
			ResilienceExecutor: executor,
			OnDeliveryLag:      opts.OnDeliveryLag,
		})
		if err != nil {
			return fmt.Errorf("init message queue: %w", err)
		}
		a.closers = append(a.closers, queue.Close)
		a.Queue = queue
		return nil
	default:
		return fmt.Errorf("unknown queue backend %q", cfg.QueueBackend)
	}
}

func (a *App) initGraph(ctx context.Context, cfg config.Config, executor *resilience.Executor) error {
	if cfg.Neo4jURI == "" {
		a.Graph = graphinmemory.New()
		return nil
	}
	graph, err := graphneo4j.New(ctx, graphneo4j.Options{
		URI:                cfg.Neo4jURI,
		Username:           cfg.Neo4jUser,
		Password:           cfg.Neo4jPassword,
		Database:           cfg.Neo4jDatabase,
		ResilienceExecutor: executor,
	})
	if err != nil {
		return fmt.Errorf("init reference graph: %w", err)
	}
	a.closers = append(a.closers, func() { _ = graph.Close(context.Background()) })
	a.Graph = graph
	return nil
}

func linkSeedReferences(ctx context.Context, graph ports.ReferenceGraph, docs []domain.Document) error {
	for _, doc := range docs {
		if len(doc.CrossReferences) == 0 {
			continue
		}
		if err := graph.LinkReferences(ctx, doc.ID, doc.CrossReferences); err != nil {
			return fmt.Errorf("link seed references %s: %w", doc.ID, err)
		}
	}
	return nil
}

func resiliencePolicy(cfg config.Config) resilience.Policy {
	policy := resilience.DefaultPolicy()
	if cfg.ResilienceRetryMaxAttempts > 0 {
		policy.RetryMaxAttempts = cfg.ResilienceRetryMaxAttempts
	}
	if cfg.ResilienceRetryInitialBackoff > 0 {
		policy.RetryInitialBackoff = cfg.ResilienceRetryInitialBackoff
	}
	policy.BreakerEnabled = cfg.ResilienceBreakerEnabled
	return policy
}
