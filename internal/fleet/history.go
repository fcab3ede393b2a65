package fleet

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/brewlogic/brewfleet-core/internal/controller"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// Operation outcome labels stored in history and tagged on telemetry.
const (
	// OutcomeOK means the brew and all optional capabilities succeeded.
	OutcomeOK = "ok"

	// OutcomeBrewFailed means the mandatory brew failed and optionals
	// were skipped.
	OutcomeBrewFailed = "brew_failed"

	// OutcomePartial means the brew succeeded but at least one optional
	// capability failed.
	OutcomePartial = "partial"
)

// ReportOutcome classifies an operation report into an outcome label.
func ReportOutcome(report *controller.OperationReport) string {
	switch {
	case report.BrewFailed():
		return OutcomeBrewFailed
	case report.OptionalFailures() > 0:
		return OutcomePartial
	default:
		return OutcomeOK
	}
}

// HistoryEntry represents a single recorded operation.
//
// Each entry stores the full operation report as JSON. This provides a
// local audit trail even when telemetry is disabled.
type HistoryEntry struct {
	// ID is the auto-incremented primary key for the history row.
	ID int64 `json:"id"`

	// MachineID is the unique identifier of the machine operated.
	MachineID string `json:"machine_id"`

	// Outcome is the classification of the run (ok, brew_failed, partial).
	Outcome string `json:"outcome"`

	// Report is the full operation report.
	Report controller.OperationReport `json:"report"`

	// CreatedAt is the timestamp of the operation (UTC).
	CreatedAt time.Time `json:"created_at"`
}

// HistoryRepository stores and retrieves operation history.
//
// Implementations must be thread-safe and use UTC timestamps.
type HistoryRepository interface {
	// Record appends an operation report to the history log.
	Record(ctx context.Context, machineID string, report *controller.OperationReport) error

	// List returns recent history for the machine, ordered newest first.
	// The limit is clamped to [1, 200]; zero or negative means 50.
	List(ctx context.Context, machineID string, limit int) ([]HistoryEntry, error)

	// PruneToRetention deletes all but the newest keep entries for the
	// machine. A keep of zero or less disables pruning.
	// Returns the number of rows deleted.
	PruneToRetention(ctx context.Context, machineID string, keep int) (int64, error)
}

// SQLiteHistoryRepository implements HistoryRepository using SQLite.
//
// It stores report snapshots as JSON in the operation_history table.
type SQLiteHistoryRepository struct {
	db *sql.DB
}

// NewSQLiteHistoryRepository creates a new SQLite history repository.
func NewSQLiteHistoryRepository(db *sql.DB) *SQLiteHistoryRepository {
	return &SQLiteHistoryRepository{db: db}
}

// Record appends an operation report to the history log.
func (r *SQLiteHistoryRepository) Record(ctx context.Context, machineID string, report *controller.OperationReport) error {
	if machineID == "" {
		return fmt.Errorf("machine id is required")
	}
	if report == nil {
		return fmt.Errorf("report is required")
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshalling report: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO operation_history (machine_id, outcome, report, created_at) VALUES (?, ?, ?, ?)",
		machineID,
		ReportOutcome(report),
		string(reportJSON),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting operation history: %w", err)
	}

	return nil
}

// List returns recent history entries for a machine, ordered newest first.
func (r *SQLiteHistoryRepository) List(ctx context.Context, machineID string, limit int) ([]HistoryEntry, error) {
	if machineID == "" {
		return nil, fmt.Errorf("machine id is required")
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, machine_id, outcome, report, created_at
		 FROM operation_history
		 WHERE machine_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		machineID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying operation history: %w", err)
	}
	defer rows.Close()

	entries := make([]HistoryEntry, 0, limit)
	for rows.Next() {
		var entry HistoryEntry
		var reportJSON string
		var createdAt string

		if err := rows.Scan(&entry.ID, &entry.MachineID, &entry.Outcome, &reportJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning operation history: %w", err)
		}

		if err := json.Unmarshal([]byte(reportJSON), &entry.Report); err != nil {
			return nil, fmt.Errorf("unmarshalling report: %w", err)
		}

		entry.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating operation history: %w", err)
	}

	return entries, nil
}

// PruneToRetention deletes all but the newest keep entries for a machine.
func (r *SQLiteHistoryRepository) PruneToRetention(ctx context.Context, machineID string, keep int) (int64, error) {
	if machineID == "" {
		return 0, fmt.Errorf("machine id is required")
	}
	if keep <= 0 {
		return 0, nil
	}

	result, err := r.db.ExecContext(ctx,
		`DELETE FROM operation_history
		 WHERE machine_id = ?
		 AND id NOT IN (
		     SELECT id FROM operation_history
		     WHERE machine_id = ?
		     ORDER BY id DESC
		     LIMIT ?
		 )`,
		machineID,
		machineID,
		keep,
	)
	if err != nil {
		return 0, fmt.Errorf("pruning operation history: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}

	return rowsAffected, nil
}
