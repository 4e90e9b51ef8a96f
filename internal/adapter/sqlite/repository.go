package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/rkissoon/randomart/internal/domain"

	_ "modernc.org/sqlite" // Register SQLite driver.
)

//go:embed migrations/*.sql
var migrations embed.FS

// VisitRepository implements domain.VisitRepository using SQLite.
type VisitRepository struct {
	db *sql.DB
}

// Compile-time check: VisitRepository implements domain.VisitRepository.
var _ domain.VisitRepository = (*VisitRepository)(nil)

// New opens a SQLite database, runs migrations, and returns a ready repository.
func New(dataSourceName string) (*VisitRepository, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// An in-memory database lives and dies with its connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	return NewFromDB(db)
}

// NewFromDB wraps an existing database connection, runs migrations, and returns a ready repository.
// Use this when the *sql.DB has been pre-configured (e.g., with otelsql instrumentation).
func NewFromDB(db *sql.DB) (*VisitRepository, error) {
	if err := runMigrations(db); err != nil {
		return nil, err
	}

	return &VisitRepository{db: db}, nil
}

// Close closes the underlying database connection.
func (r *VisitRepository) Close() error {
	return r.db.Close()
}

// DB returns the underlying database connection for use by other adapters (e.g., river).
func (r *VisitRepository) DB() *sql.DB {
	return r.db
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

// Fixed-width nanosecond timestamps sort lexically in time order.
const timeFormat = "2006-01-02T15:04:05.000000000Z"

func (r *VisitRepository) Create(ctx context.Context, v domain.Visit) error {
	data, err := json.Marshal(v.Data)
	if err != nil {
		return fmt.Errorf("encoding visit data: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO visits (id, visitor_id, event_type, event_data, occurred_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		v.ID, v.VisitorID, v.EventType, string(data),
		v.OccurredAt.UTC().Format(timeFormat),
		v.CreatedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("inserting visit: %w", err)
	}
	return nil
}

func (r *VisitRepository) GetByID(ctx context.Context, id string) (domain.Visit, error) {
	v, err := scanVisit(r.db.QueryRowContext(ctx,
		`SELECT id, visitor_id, event_type, event_data, occurred_at, created_at
		 FROM visits WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Visit{}, domain.ErrVisitNotFound
	}
	return v, err
}

// FirstVisits returns the earliest visit of every visitor, most recent
// visitor first. Ties on time are broken by visit ID.
func (r *VisitRepository) FirstVisits(ctx context.Context, filter domain.GalleryFilter) ([]domain.Visit, error) {
	query := `SELECT v.id, v.visitor_id, v.event_type, v.event_data, v.occurred_at, v.created_at
		FROM visits v
		WHERE v.id = (
			SELECT w.id FROM visits w
			WHERE w.visitor_id = v.visitor_id
			ORDER BY w.occurred_at ASC, w.id ASC
			LIMIT 1
		)
		ORDER BY v.occurred_at DESC, v.id ASC`
	var args []any

	limit := filter.Limit
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing first visits: %w", err)
	}
	defer rows.Close()

	var visits []domain.Visit
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, err
		}
		visits = append(visits, v)
	}

	return visits, rows.Err()
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanVisit(row scanner) (domain.Visit, error) {
	var v domain.Visit
	var data, occurredAt, createdAt string

	if err := row.Scan(&v.ID, &v.VisitorID, &v.EventType, &data, &occurredAt, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Visit{}, err
		}
		return domain.Visit{}, fmt.Errorf("scanning visit: %w", err)
	}

	if err := json.Unmarshal([]byte(data), &v.Data); err != nil {
		return domain.Visit{}, fmt.Errorf("decoding visit data: %w", err)
	}
	v.OccurredAt, _ = time.Parse(timeFormat, occurredAt)
	v.CreatedAt, _ = time.Parse(timeFormat, createdAt)

	return v, nil
}
