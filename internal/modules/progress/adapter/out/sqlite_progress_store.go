package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"ereader/internal/modules/progress/domain"
	progressout "ereader/internal/modules/progress/port/out"
	apperrors "ereader/internal/platform/errors"

	_ "modernc.org/sqlite"
)

const (
	maxRetries  = 5
	initialWait = 50 * time.Millisecond
	busyTimeout = 5000 // milliseconds
)

// writeOp is one mutation queued for the writer goroutine.
type writeOp struct {
	ctx  context.Context
	fn   func(ctx context.Context, tx *sql.Tx) error
	done chan error
}

// SQLiteProgressStore keeps reading progress in a single SQLite table. All
// mutations go through one writer goroutine, so they are applied one at a
// time and in the order they were submitted. Reads run directly against the
// pool; each is a single statement and sees a consistent row.
type SQLiteProgressStore struct {
	db   *sql.DB
	ops  chan writeOp
	quit chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

func NewSQLiteProgressStore(dbPath string) (progressout.ProgressStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create db dir: %w", apperrors.ErrStorageFailure, err)
	}
	source, err := dsn(dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve db path: %w", apperrors.ErrStorageFailure, err)
	}
	db, err := sql.Open("sqlite", source)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite: %w", apperrors.ErrStorageFailure, err)
	}
	s := &SQLiteProgressStore{
		db:   db,
		ops:  make(chan writeOp),
		quit: make(chan struct{}),
	}
	if err := s.pingWithRetry(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := s.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	s.wg.Add(1)
	go s.writer()
	return s, nil
}

// dsn builds a file URI for dbPath with the WAL and busy_timeout pragmas.
// The path is escaped, so '?' and '#' in directory names stay part of it.
func dsn(dbPath string) (string, error) {
	abs, err := filepath.Abs(dbPath)
	if err != nil {
		return "", err
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	query := url.Values{}
	query.Add("_pragma", "journal_mode(WAL)")
	query.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeout))
	u := url.URL{Scheme: "file", Path: p, RawQuery: query.Encode()}
	return u.String(), nil
}

// failure wraps err as a storage failure. A cancelled or expired ctx is
// returned as is: the caller gave up, the store did not fail.
func failure(ctx context.Context, what string, err error) error {
	if cerr := ctx.Err(); cerr != nil {
		return cerr
	}
	return fmt.Errorf("%w: %s: %w", apperrors.ErrStorageFailure, what, err)
}

func (s *SQLiteProgressStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS reading_progress (
  document_id TEXT PRIMARY KEY,
  last_access REAL NOT NULL,
  chapter_index INTEGER NOT NULL DEFAULT 0,
  subrange_index INTEGER NOT NULL DEFAULT 0,
  progress REAL NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_reading_progress_recency ON reading_progress(last_access DESC, document_id ASC);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("%w: create reading_progress table: %w", apperrors.ErrStorageFailure, err)
	}
	return nil
}

func (s *SQLiteProgressStore) pingWithRetry(ctx context.Context) error {
	wait := initialWait
	var err error
	for i := 0; i < maxRetries; i++ {
		if err = s.db.PingContext(ctx); err == nil {
			return nil
		}
		if i < maxRetries-1 {
			time.Sleep(wait)
			wait *= 2
		}
	}
	return fmt.Errorf("%w: ping sqlite after %d retries: %w", apperrors.ErrStorageFailure, maxRetries, err)
}

func (s *SQLiteProgressStore) writer() {
	defer s.wg.Done()
	for {
		select {
		case op := <-s.ops:
			op.done <- s.apply(op)
		case <-s.quit:
			return
		}
	}
}

func (s *SQLiteProgressStore) apply(op writeOp) error {
	if err := op.ctx.Err(); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(op.ctx, nil)
	if err != nil {
		return failure(op.ctx, "begin", err)
	}
	if err := op.fn(op.ctx, tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return failure(op.ctx, "commit", err)
	}
	return nil
}

// submit hands fn to the writer and waits for it to finish.
func (s *SQLiteProgressStore) submit(ctx context.Context, fn func(context.Context, *sql.Tx) error) error {
	op := writeOp{ctx: ctx, fn: fn, done: make(chan error, 1)}
	select {
	case s.ops <- op:
	case <-s.quit:
		return fmt.Errorf("%w: store is closed", apperrors.ErrStorageFailure)
	case <-ctx.Done():
		return ctx.Err()
	}
	return <-op.done
}

func (s *SQLiteProgressStore) UpsertAccess(ctx context.Context, documentID string, lastAccess float64) error {
	const stmt = `
INSERT INTO reading_progress (document_id, last_access)
VALUES (?, ?)
ON CONFLICT(document_id) DO UPDATE SET
  last_access=excluded.last_access;
`
	return s.submit(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, stmt, documentID, lastAccess); err != nil {
			return failure(ctx, "upsert access", err)
		}
		return nil
	})
}

func (s *SQLiteProgressStore) UpdatePosition(ctx context.Context, documentID string, position domain.Position) error {
	const stmt = `
UPDATE reading_progress
SET chapter_index = ?, subrange_index = ?, progress = ?
WHERE document_id = ?;
`
	return s.submit(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, stmt, position.ChapterIndex, position.SubrangeIndex, position.Progress, documentID)
		if err != nil {
			return failure(ctx, "update position", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return failure(ctx, "update position rows", err)
		}
		if n == 0 {
			return fmt.Errorf("%w: %s", apperrors.ErrUnknownDocument, documentID)
		}
		return nil
	})
}

func (s *SQLiteProgressStore) GetPosition(ctx context.Context, documentID string) (domain.Position, error) {
	record, ok, err := s.Get(ctx, documentID)
	if err != nil || !ok {
		return domain.Position{}, err
	}
	return record.Position, nil
}

func (s *SQLiteProgressStore) Get(ctx context.Context, documentID string) (domain.Record, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Record{}, false, err
	}
	row := s.db.QueryRowContext(ctx, `
SELECT last_access, chapter_index, subrange_index, progress
FROM reading_progress
WHERE document_id = ?;
`, documentID)
	record := domain.Record{DocumentID: documentID}
	err := row.Scan(&record.LastAccess, &record.Position.ChapterIndex, &record.Position.SubrangeIndex, &record.Position.Progress)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Record{}, false, nil
	}
	if err != nil {
		return domain.Record{}, false, failure(ctx, "get progress", err)
	}
	return record, true, nil
}

func (s *SQLiteProgressStore) Remove(ctx context.Context, documentID string) error {
	return s.submit(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM reading_progress WHERE document_id = ?`, documentID); err != nil {
			return failure(ctx, "remove progress", err)
		}
		return nil
	})
}

func (s *SQLiteProgressStore) ListByRecency(ctx context.Context) ([]domain.Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT document_id, last_access, progress
FROM reading_progress
ORDER BY last_access DESC, document_id ASC;
`)
	if err != nil {
		return nil, failure(ctx, "list progress", err)
	}
	defer rows.Close()

	out := make([]domain.Summary, 0)
	for rows.Next() {
		item := domain.Summary{}
		if err := rows.Scan(&item.DocumentID, &item.LastAccess, &item.Progress); err != nil {
			return nil, failure(ctx, "scan progress", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, failure(ctx, "iterate progress", err)
	}
	return out, nil
}

// Close stops the writer and closes the database. Calls after the first are no-ops.
func (s *SQLiteProgressStore) Close() error {
	var err error
	s.once.Do(func() {
		close(s.quit)
		s.wg.Wait()
		if cerr := s.db.Close(); cerr != nil {
			err = fmt.Errorf("%w: close sqlite: %w", apperrors.ErrStorageFailure, cerr)
		}
	})
	return err
}
