package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kirillkom/estate-docs/internal/core/domain"
)

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *DocumentRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2025011501)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	file_name TEXT NOT NULL,
	original_name TEXT NOT NULL,
	category TEXT NOT NULL,
	subcategory TEXT NOT NULL DEFAULT '',
	project_name TEXT NOT NULL,
	legal_entity TEXT NOT NULL,
	document_date DATE NOT NULL,
	upload_date TIMESTAMPTZ NOT NULL,
	fiscal_year TEXT NOT NULL,
	document_number TEXT NOT NULL,
	status TEXT NOT NULL,
	file_size BIGINT NOT NULL DEFAULT 0,
	file_type TEXT NOT NULL DEFAULT '',
	is_authenticated BOOLEAN NOT NULL DEFAULT FALSE,
	uploaded_by TEXT NOT NULL,
	approved_by TEXT NOT NULL DEFAULT '',
	tags JSONB NOT NULL DEFAULT '[]'::jsonb,
	cross_references JSONB NOT NULL DEFAULT '[]'::jsonb,
	notes TEXT NOT NULL DEFAULT '',
	version INTEGER NOT NULL DEFAULT 1,
	qr_code TEXT NOT NULL DEFAULT '',
	barcode TEXT NOT NULL DEFAULT '',
	storage_path TEXT NOT NULL DEFAULT '',
	checksum TEXT NOT NULL DEFAULT '',
	page_count INTEGER NOT NULL DEFAULT 0,
	verification_note TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMPTZ NOT NULL,
	created_seq BIGSERIAL
);

CREATE TABLE IF NOT EXISTS document_sequences (
	category TEXT NOT NULL,
	fiscal_year TEXT NOT NULL,
	last_value INTEGER NOT NULL,
	PRIMARY KEY (category, fiscal_year)
);

CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);
CREATE INDEX IF NOT EXISTS idx_documents_category ON documents(category);
CREATE UNIQUE INDEX IF NOT EXISTS idx_documents_file_name ON documents(file_name);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

const selectDocumentColumns = `
SELECT id, file_name, original_name, category, subcategory, project_name, legal_entity,
	document_date, upload_date, fiscal_year, document_number, status, file_size, file_type,
	is_authenticated, uploaded_by, approved_by, tags, cross_references, notes, version,
	qr_code, barcode, storage_path, checksum, page_count, verification_note, updated_at
FROM documents`

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	tagsJSON, refsJSON, err := marshalLists(doc)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO documents (
	id, file_name, original_name, category, subcategory, project_name, legal_entity,
	document_date, upload_date, fiscal_year, document_number, status, file_size, file_type,
	is_authenticated, uploaded_by, approved_by, tags, cross_references, notes, version,
	qr_code, barcode, storage_path, checksum, page_count, verification_note, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28)
`,
		doc.ID, doc.FileName, doc.OriginalName, string(doc.Category), doc.Subcategory, doc.ProjectName, doc.LegalEntity,
		doc.DocumentDate, doc.UploadDate, doc.FiscalYear, doc.DocumentNumber, string(doc.Status), doc.FileSize, doc.FileType,
		doc.IsAuthenticated, doc.UploadedBy, doc.ApprovedBy, tagsJSON, refsJSON, doc.Notes, doc.Version,
		doc.QRCode, doc.Barcode, doc.StoragePath, doc.Checksum, doc.PageCount, doc.VerificationNote, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, selectDocumentColumns+`
WHERE id = $1
`, id)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("id=%s", id))
		}
		return nil, err
	}
	return doc, nil
}

func (r *DocumentRepository) List(ctx context.Context) ([]domain.Document, error) {
	rows, err := r.db.QueryContext(ctx, selectDocumentColumns+`
ORDER BY created_seq
`)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}

// Update writes the reviewer-owned fields, guarded by the previous version.
func (r *DocumentRepository) Update(ctx context.Context, doc *domain.Document) error {
	tagsJSON, refsJSON, err := marshalLists(doc)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET status = $2, approved_by = $3, tags = $4, cross_references = $5, notes = $6,
	version = $7, updated_at = $8
WHERE id = $1 AND version = $9
`,
		doc.ID, string(doc.Status), doc.ApprovedBy, tagsJSON, refsJSON, doc.Notes,
		doc.Version, doc.UpdatedAt, doc.Version-1,
	)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update document rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	exists, err := r.exists(ctx, doc.ID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.WrapError(domain.ErrDocumentNotFound, "update document", fmt.Errorf("id=%s", doc.ID))
	}
	return domain.WrapError(domain.ErrConflict, "update document",
		fmt.Errorf("id=%s version %d is stale", doc.ID, doc.Version-1))
}

// UpdateVerification writes the worker-owned columns only; lifecycle columns are untouched.
func (r *DocumentRepository) UpdateVerification(ctx context.Context, id string, v domain.Verification) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET checksum = $2, page_count = $3, is_authenticated = $4, verification_note = $5, updated_at = $6
WHERE id = $1
`, id, v.Checksum, v.PageCount, v.IsAuthenticated, v.Note, v.CheckedAt)
	if err != nil {
		return fmt.Errorf("update verification: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update verification rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, "update verification", fmt.Errorf("id=%s", id))
	}
	return nil
}

func (r *DocumentRepository) exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM documents WHERE id = $1)`, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("check document exists: %w", err)
	}
	return ok, nil
}

func (r *DocumentRepository) NextSequence(ctx context.Context, category domain.Category, fiscalYear string) (int, error) {
	var next int
	err := r.db.QueryRowContext(ctx, `
INSERT INTO document_sequences (category, fiscal_year, last_value)
VALUES ($1, $2, 1)
ON CONFLICT (category, fiscal_year)
DO UPDATE SET last_value = document_sequences.last_value + 1
RETURNING last_value
`, string(category), fiscalYear).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("allocate document sequence: %w", err)
	}
	return next, nil
}

// AdvanceSequence raises the (category, fiscal year) counter to at least value,
// so imported documents keep their numbers unique.
func (r *DocumentRepository) AdvanceSequence(ctx context.Context, category domain.Category, fiscalYear string, value int) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO document_sequences (category, fiscal_year, last_value)
VALUES ($1, $2, $3)
ON CONFLICT (category, fiscal_year)
DO UPDATE SET last_value = GREATEST(document_sequences.last_value, EXCLUDED.last_value)
`, string(category), fiscalYear, value)
	if err != nil {
		return fmt.Errorf("advance document sequence: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var category, status string
	var tagsRaw, refsRaw []byte

	err := row.Scan(
		&doc.ID, &doc.FileName, &doc.OriginalName, &category, &doc.Subcategory, &doc.ProjectName, &doc.LegalEntity,
		&doc.DocumentDate, &doc.UploadDate, &doc.FiscalYear, &doc.DocumentNumber, &status, &doc.FileSize, &doc.FileType,
		&doc.IsAuthenticated, &doc.UploadedBy, &doc.ApprovedBy, &tagsRaw, &refsRaw, &doc.Notes, &doc.Version,
		&doc.QRCode, &doc.Barcode, &doc.StoragePath, &doc.Checksum, &doc.PageCount, &doc.VerificationNote, &doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}

	if err := json.Unmarshal(tagsRaw, &doc.Tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}
	if err := json.Unmarshal(refsRaw, &doc.CrossReferences); err != nil {
		return nil, fmt.Errorf("unmarshal cross references: %w", err)
	}
	doc.Category = domain.Category(category)
	doc.Status = domain.DocumentStatus(status)
	return &doc, nil
}

func marshalLists(doc *domain.Document) ([]byte, []byte, error) {
	tags := doc.Tags
	if tags == nil {
		tags = []string{}
	}
	refs := doc.CrossReferences
	if refs == nil {
		refs = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal tags: %w", err)
	}
	refsJSON, err := json.Marshal(refs)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal cross references: %w", err)
	}
	return tagsJSON, refsJSON, nil
}
