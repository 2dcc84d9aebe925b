package vectorstore

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/didi/gendry/builder"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/nyaysetu/nyaysetu/internal/model"
)

const insertBatchSize = 200

var collectionNameRe = regexp.MustCompile(`^[a-z][a-z0-9_]{0,62}$`)

type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func validCollection(name string) error {
	if !collectionNameRe.MatchString(name) {
		return fmt.Errorf("invalid collection name: %q", name)
	}
	return nil
}

func (s *PostgresStore) ReplaceCollection(ctx context.Context, name string, dim int, chunks []model.Chunk) error {
	if err := validCollection(name); err != nil {
		return err
	}
	if dim <= 0 {
		return fmt.Errorf("collection dimension must be positive, got %d", dim)
	}
	logger := logutil.GetLogger(ctx).With(zap.String("collection", name), zap.Int("dim", dim))

	staging := name + "_staging"
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, staging)); err != nil {
		return fmt.Errorf("drop staging table: %w", err)
	}
	createStmt := fmt.Sprintf(`
		CREATE TABLE %s (
			id            TEXT PRIMARY KEY,
			document_id   TEXT NOT NULL,
			source        TEXT NOT NULL,
			title         TEXT NOT NULL DEFAULT '',
			section       TEXT NOT NULL DEFAULT '',
			content       TEXT NOT NULL,
			chunk_offset  INT NOT NULL,
			chunk_length  INT NOT NULL,
			embedding     vector(%d) NOT NULL
		)`, staging, dim)
	if _, err := s.db.ExecContext(ctx, createStmt); err != nil {
		return fmt.Errorf("create staging table: %w", err)
	}

	for start := 0; start < len(chunks); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		if err := s.insertBatch(ctx, staging, chunks[start:end]); err != nil {
			return err
		}
	}

	// The swap is the only step readers can race with; one transaction
	// makes old and new never interleave mid-read.
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, name)); err != nil {
		return fmt.Errorf("drop previous collection: %w", err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`ALTER TABLE %s RENAME TO %s`, staging, name)); err != nil {
		return fmt.Errorf("swap collection: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO vector_collections (name, dim, chunks, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE SET
			dim = EXCLUDED.dim,
			chunks = EXCLUDED.chunks,
			updated_at = EXCLUDED.updated_at
	`, name, dim, len(chunks), time.Now().Unix()); err != nil {
		return fmt.Errorf("record collection meta: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	logger.Info("collection replaced", zap.Int("chunks", len(chunks)))
	return nil
}

func (s *PostgresStore) insertBatch(ctx context.Context, table string, chunks []model.Chunk) error {
	rows := make([]map[string]interface{}, 0, len(chunks))
	for _, c := range chunks {
		rows = append(rows, map[string]interface{}{
			"id":           c.ID,
			"document_id":  c.DocumentID,
			"source":       c.Source,
			"title":        c.Title,
			"section":      c.Section,
			"content":      c.Text,
			"chunk_offset": c.Offset,
			"chunk_length": c.Length,
			"embedding":    pgvector.NewVector(c.Embedding),
		})
	}
	sqlStr, args, err := builder.BuildInsert(table, rows)
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(sqlStr), args...); err != nil {
		return fmt.Errorf("insert chunks: %w", err)
	}
	return nil
}

type chunkRow struct {
	ID          string  `db:"id"`
	DocumentID  string  `db:"document_id"`
	Source      string  `db:"source"`
	Title       string  `db:"title"`
	Section     string  `db:"section"`
	Content     string  `db:"content"`
	ChunkOffset int     `db:"chunk_offset"`
	ChunkLength int     `db:"chunk_length"`
	Distance    float64 `db:"distance"`
}

func (s *PostgresStore) Search(ctx context.Context, name string, vec []float32, k int, sources []string) ([]SearchResult, error) {
	if err := validCollection(name); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`
		SELECT id, document_id, source, title, section, content, chunk_offset, chunk_length,
		       embedding <=> $1 AS distance
		FROM %s`, name)
	args := []interface{}{pgvector.NewVector(vec)}
	if len(sources) > 0 {
		query += ` WHERE source = ANY($2)`
		args = append(args, pq.Array(sources))
	}
	query += fmt.Sprintf(` ORDER BY distance LIMIT %d`, k)

	var rows []chunkRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("search collection %s: %w", name, err)
	}
	out := make([]SearchResult, 0, len(rows))
	for _, row := range rows {
		out = append(out, SearchResult{
			Chunk: model.Chunk{
				ID:         row.ID,
				DocumentID: row.DocumentID,
				Source:     row.Source,
				Title:      row.Title,
				Section:    row.Section,
				Text:       row.Content,
				Offset:     row.ChunkOffset,
				Length:     row.ChunkLength,
			},
			// cosine distance -> similarity
			Score: 1 - row.Distance,
		})
	}
	return out, nil
}

func (s *PostgresStore) Dimension(ctx context.Context, name string) (int, error) {
	if err := validCollection(name); err != nil {
		return 0, err
	}
	var dim int
	err := s.db.GetContext(ctx, &dim, `SELECT dim FROM vector_collections WHERE name = $1`, name)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("collection %s has not been built", name)
	}
	if err != nil {
		return 0, err
	}
	return dim, nil
}

func (s *PostgresStore) Count(ctx context.Context, name string) (int64, error) {
	if err := validCollection(name); err != nil {
		return 0, err
	}
	var count int64
	if err := s.db.GetContext(ctx, &count, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, name)); err != nil {
		if strings.Contains(err.Error(), "does not exist") {
			return 0, nil
		}
		return 0, err
	}
	return count, nil
}
