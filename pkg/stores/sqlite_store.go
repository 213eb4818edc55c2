package stores

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	// SQLite driver
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// SQLiteStore implements ProfileStore using SQLite
type SQLiteStore struct {
	db     *sql.DB
	path   string
	config Config
}

// Config holds SQLite store configuration
type Config struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewSQLiteStore creates a new SQLite store instance
func NewSQLiteStore(cfg Config) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	// An in-memory database lives as long as its single connection.
	if cfg.Path == MemoryPath {
		cfg.MaxOpenConns = 1
		cfg.MaxIdleConns = 1
		cfg.ConnMaxLifetime = 0
	} else {
		if cfg.MaxOpenConns == 0 {
			cfg.MaxOpenConns = 25
		}
		if cfg.MaxIdleConns == 0 {
			cfg.MaxIdleConns = 5
		}
		if cfg.ConnMaxLifetime == 0 {
			cfg.ConnMaxLifetime = 5 * time.Minute
		}
	}

	return &SQLiteStore{
		path:   cfg.Path,
		config: cfg,
	}, nil
}

// OpenSQLiteStore creates, initializes and migrates a store in one step.
func OpenSQLiteStore(ctx context.Context, cfg Config) (*SQLiteStore, error) {
	store, err := NewSQLiteStore(cfg)
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// Init initializes the database connection.
func (s *SQLiteStore) Init(ctx context.Context) error {
	// Open database with SQLite-specific connection parameters
	pragmas := []string{"_pragma=foreign_keys(1)", "_pragma=busy_timeout(5000)"}
	if s.path != MemoryPath {
		pragmas = append(pragmas, "_pragma=journal_mode(WAL)", "_pragma=synchronous(NORMAL)")
	}
	dsn := s.path + "?" + strings.Join(pragmas, "&")

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(s.config.MaxOpenConns)
	db.SetMaxIdleConns(s.config.MaxIdleConns)
	db.SetConnMaxLifetime(s.config.ConnMaxLifetime)

	// Verify connection and set PRAGMAs
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	// Ensure foreign keys are enabled (connection-level setting)
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s.db = db
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Migrate runs database migrations.
func (s *SQLiteStore) Migrate(_ context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}

	// Create migration source from embedded FS
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	// Create database driver
	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	// Create migration instance
	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	// Run migrations
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// withTx runs fn inside a transaction, committing only when fn succeeds.
func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Exists reports whether a profile with the given id is committed.
func (s *SQLiteStore) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM profiles WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check profile: %w", err)
	}
	return true, nil
}

// Resolve retrieves a profile by ID
func (s *SQLiteStore) Resolve(ctx context.Context, id string) (*Record, error) {
	query := `
		SELECT id, name, code, family, params, revision, created_at, updated_at
		FROM profiles
		WHERE id = ?
	`

	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return rec, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	rec := &Record{}
	var params string
	err := row.Scan(
		&rec.ID,
		&rec.Name,
		&rec.Code,
		&rec.Family,
		&params,
		&rec.Revision,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Params = []byte(params)
	return rec, nil
}

// Save inserts or replaces a profile together with its outgoing edges.
func (s *SQLiteStore) Save(ctx context.Context, rec *Record, edges []Edge, audit *AuditEntry) error {
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("profile id is required")
	}

	now := time.Now().UTC()
	revision := int64(1)
	createdAt := now

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var current int64
		var created time.Time
		err := tx.QueryRowContext(ctx,
			`SELECT revision, created_at FROM profiles WHERE id = ?`, rec.ID,
		).Scan(&current, &created)

		switch {
		case errors.Is(err, sql.ErrNoRows):
			_, err = tx.ExecContext(ctx, `
				INSERT INTO profiles (id, name, code, family, params, revision, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, rec.ID, rec.Name, rec.Code, rec.Family, string(rec.Params), revision, createdAt, now)
			if err != nil {
				return fmt.Errorf("failed to insert profile: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to read profile: %w", err)
		default:
			revision = current + 1
			createdAt = created
			_, err = tx.ExecContext(ctx, `
				UPDATE profiles
				SET name = ?, code = ?, family = ?, params = ?, revision = ?, updated_at = ?
				WHERE id = ?
			`, rec.Name, rec.Code, rec.Family, string(rec.Params), revision, now, rec.ID)
			if err != nil {
				return fmt.Errorf("failed to update profile: %w", err)
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM profile_references WHERE source_id = ?`, rec.ID); err != nil {
			return fmt.Errorf("failed to clear references: %w", err)
		}

		for _, edge := range edges {
			var one int
			err := tx.QueryRowContext(ctx, `SELECT 1 FROM profiles WHERE id = ?`, edge.TargetID).Scan(&one)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: %s references %s", ErrNotFound, edge.Role, edge.TargetID)
			}
			if err != nil {
				return fmt.Errorf("failed to check reference target: %w", err)
			}

			_, err = tx.ExecContext(ctx,
				`INSERT INTO profile_references (source_id, role, target_id) VALUES (?, ?, ?)`,
				rec.ID, edge.Role, edge.TargetID,
			)
			if err != nil {
				return fmt.Errorf("failed to insert reference %s: %w", edge.Role, err)
			}
		}

		return insertAudit(ctx, tx, audit)
	})
	if err != nil {
		return err
	}

	rec.Revision = revision
	rec.CreatedAt = createdAt
	rec.UpdatedAt = now
	return nil
}

// Delete removes a profile unless another profile references it.
func (s *SQLiteStore) Delete(ctx context.Context, id string, audit *AuditEntry) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		referrers, err := queryEdges(ctx, tx, `
			SELECT source_id, role, target_id FROM profile_references
			WHERE target_id = ? AND source_id <> ?
			ORDER BY source_id, role
		`, id, id)
		if err != nil {
			return err
		}
		if len(referrers) > 0 {
			return fmt.Errorf("%w: %s is referenced by %s", ErrReferenced, id, describeEdges(referrers))
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM profile_references WHERE source_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete references: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete profile: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}

		return insertAudit(ctx, tx, audit)
	})
}

// Referrers lists the edges that target id.
func (s *SQLiteStore) Referrers(ctx context.Context, id string) ([]Edge, error) {
	return queryEdges(ctx, s.db, `
		SELECT source_id, role, target_id FROM profile_references
		WHERE target_id = ? AND source_id <> ?
		ORDER BY source_id, role
	`, id, id)
}

// Edges lists every committed edge.
func (s *SQLiteStore) Edges(ctx context.Context) ([]Edge, error) {
	return queryEdges(ctx, s.db, `
		SELECT source_id, role, target_id FROM profile_references
		ORDER BY source_id, role
	`)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func queryEdges(ctx context.Context, q querier, query string, args ...any) ([]Edge, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list references: %w", err)
	}
	defer rows.Close()

	edges := []Edge{}
	for rows.Next() {
		var e Edge
		if err := rows.Scan(&e.SourceID, &e.Role, &e.TargetID); err != nil {
			return nil, fmt.Errorf("failed to scan reference: %w", err)
		}
		edges = append(edges, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating references: %w", err)
	}

	return edges, nil
}

// List lists profiles with an optional family filter and pagination.
func (s *SQLiteStore) List(ctx context.Context, family *string, limit, offset int) ([]*Record, error) {
	if limit <= 0 {
		limit = -1
	}

	query := `
		SELECT id, name, code, family, params, revision, created_at, updated_at
		FROM profiles
		WHERE (? IS NULL OR family = ?)
		ORDER BY id
		LIMIT ? OFFSET ?
	`

	rows, err := s.db.QueryContext(ctx, query, family, family, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	records := []*Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profiles: %w", err)
	}

	return records, nil
}

func insertAudit(ctx context.Context, tx *sql.Tx, entry *AuditEntry) error {
	if entry == nil {
		return nil
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO audit (action, actor, target_id, details, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`,
		entry.Action,
		entry.Actor,
		entry.TargetID,
		entry.Details,
		entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit entry: %w", err)
	}

	// Get the auto-generated ID
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get audit entry ID: %w", err)
	}

	entry.ID = id
	return nil
}

// ListAuditEntries lists audit entries with an optional action filter and pagination
func (s *SQLiteStore) ListAuditEntries(ctx context.Context, action *string, limit, offset int) ([]*AuditEntry, error) {
	if limit <= 0 {
		limit = -1
	}

	query := `
		SELECT id, action, actor, target_id, details, timestamp
		FROM audit
		WHERE (? IS NULL OR action = ?)
		ORDER BY timestamp DESC, id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := s.db.QueryContext(ctx, query, action, action, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	entries := []*AuditEntry{}
	for rows.Next() {
		entry := &AuditEntry{}
		err := rows.Scan(
			&entry.ID,
			&entry.Action,
			&entry.Actor,
			&entry.TargetID,
			&entry.Details,
			&entry.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit entries: %w", err)
	}

	return entries, nil
}

// HealthCheck verifies the database connection is healthy
func (s *SQLiteStore) HealthCheck(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}

	return s.db.PingContext(ctx)
}

func describeEdges(edges []Edge) string {
	parts := make([]string, len(edges))
	for i, e := range edges {
		parts[i] = e.SourceID + "." + e.Role
	}
	return strings.Join(parts, ", ")
}
