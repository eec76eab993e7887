package cord

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	"go.uber.org/zap"
)

// insertBatchSize is how many article rows share one transaction.
const insertBatchSize = 200

const insertArticleSQL = `
	INSERT INTO article (created, updated, id, external_id, meta, body, status, source, message)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT DO NOTHING`

// Loader inserts prepared article rows into Postgres.
type Loader struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewLoader opens a Postgres connection using the given DSN.
func NewLoader(ctx context.Context, dsn string) (*Loader, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Loader{db: db, logger: zap.NewNop()}, nil
}

// SetLogger sets the logger for batch progress.
func (l *Loader) SetLogger(log *zap.Logger) {
	l.logger = log
}

// Load inserts the articles in batches, skipping rows that already exist.
// Returns the number of rows sent to the database.
func (l *Loader) Load(ctx context.Context, articles []Article) (int, error) {
	inserted := 0
	for start := 0; start < len(articles); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(articles) {
			end = len(articles)
		}
		if err := l.loadBatch(ctx, articles[start:end]); err != nil {
			return inserted, err
		}
		inserted = end
		l.logger.Debug("inserted article batch",
			zap.Int("done", inserted),
			zap.Int("total", len(articles)))
	}
	return inserted, nil
}

func (l *Loader) loadBatch(ctx context.Context, batch []Article) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin article transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertArticleSQL)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare article insert: %w", err)
	}

	for _, a := range batch {
		_, err := stmt.ExecContext(ctx,
			a.Created, a.Created, a.ID, a.ExternalID,
			a.Meta, a.Body, a.Status, a.Source, a.Message)
		if err != nil {
			stmt.Close()
			tx.Rollback()
			return fmt.Errorf("insert article %s: %w", a.ExternalID, err)
		}
	}
	stmt.Close()

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit article transaction: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (l *Loader) Close() error {
	return l.db.Close()
}
