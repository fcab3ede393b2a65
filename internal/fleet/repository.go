package fleet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines the interface for machine record persistence.
// This abstraction allows for different implementations (SQLite, mock)
// and enables unit testing without database dependencies.
type Repository interface {
	// GetByID retrieves a record by its unique identifier.
	// Returns ErrMachineNotFound if the record does not exist.
	GetByID(ctx context.Context, id string) (*Record, error)

	// List retrieves all records, ordered by make then model.
	List(ctx context.Context) ([]Record, error)

	// ListByKind retrieves all records of a specific kind.
	ListByKind(ctx context.Context, kind string) ([]Record, error)

	// Create inserts a new record.
	// Returns ErrMachineExists if a record with the same ID already exists.
	Create(ctx context.Context, record *Record) error

	// Update modifies an existing record.
	// Returns ErrMachineNotFound if the record does not exist.
	Update(ctx context.Context, record *Record) error

	// Delete removes a record by ID.
	// Returns ErrMachineNotFound if the record does not exist.
	Delete(ctx context.Context, id string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
// The db parameter should be an open SQLite connection with the
// machines table migrated.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// GetByID retrieves a record by its unique identifier.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, kind, make, model, location, created_at, updated_at
		FROM machines
		WHERE id = ?`, id)

	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMachineNotFound
		}
		return nil, fmt.Errorf("querying machine by id: %w", err)
	}
	return record, nil
}

// List retrieves all records, ordered by make then model.
func (r *SQLiteRepository) List(ctx context.Context) ([]Record, error) {
	return r.queryRecords(ctx, `
		SELECT id, kind, make, model, location, created_at, updated_at
		FROM machines
		ORDER BY make, model`)
}

// ListByKind retrieves all records of a specific kind.
func (r *SQLiteRepository) ListByKind(ctx context.Context, kind string) ([]Record, error) {
	return r.queryRecords(ctx, `
		SELECT id, kind, make, model, location, created_at, updated_at
		FROM machines
		WHERE kind = ?
		ORDER BY make, model`, kind)
}

// Create inserts a new record.
func (r *SQLiteRepository) Create(ctx context.Context, record *Record) error {
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO machines (id, kind, make, model, location, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Kind,
		record.Make,
		record.Model,
		record.Location,
		record.CreatedAt.Format(time.RFC3339),
		record.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrMachineExists
		}
		return fmt.Errorf("inserting machine: %w", err)
	}

	return nil
}

// Update modifies an existing record.
func (r *SQLiteRepository) Update(ctx context.Context, record *Record) error {
	record.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, `
		UPDATE machines
		SET kind = ?, make = ?, model = ?, location = ?, updated_at = ?
		WHERE id = ?`,
		record.Kind,
		record.Make,
		record.Model,
		record.Location,
		record.UpdatedAt.Format(time.RFC3339),
		record.ID,
	)
	if err != nil {
		return fmt.Errorf("updating machine: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrMachineNotFound
	}

	return nil
}

// Delete removes a record by ID.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM machines WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting machine: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrMachineNotFound
	}

	return nil
}

// queryRecords executes a query and returns a slice of records.
func (r *SQLiteRepository) queryRecords(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying machines: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning machine: %w", err)
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating machines: %w", err)
	}

	return records, nil
}

// rowScanner is an interface that sql.Row and sql.Rows both implement.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord scans a row into a Record.
func scanRecord(scanner rowScanner) (*Record, error) {
	var rec Record
	var createdAt, updatedAt string

	err := scanner.Scan(
		&rec.ID,
		&rec.Kind,
		&rec.Make,
		&rec.Model,
		&rec.Location,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	rec.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return &rec, nil
}

// isUniqueConstraintError checks if an error is a SQLite unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "unique constraint")
}
