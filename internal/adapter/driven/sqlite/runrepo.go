package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/awakzdev/stockfeed/internal/domain/model"
	"github.com/awakzdev/stockfeed/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.RunStore = (*RunRepo)(nil)

// RunRepo is the SQLite implementation of the RunStore port interface.
type RunRepo struct {
	db *DB
}

// NewRunRepo creates a new RunRepo backed by the given DB.
func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

// Begin records the start of an invocation and returns its ledger ID.
func (r *RunRepo) Begin(ctx context.Context, inv model.Invocation) (int64, error) {
	const query = `INSERT INTO runs (trigger_kind, operation, symbol, started_at) VALUES (?, ?, ?, ?)`

	startedAt := inv.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now().UTC()
	}

	result, err := r.db.Writer.ExecContext(ctx, query, string(inv.Trigger), string(inv.Operation), inv.Symbol, startedAt)
	if err != nil {
		return 0, fmt.Errorf("begin run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("begin run: %w", err)
	}
	return id, nil
}

// Finish records the terminal status of a previously begun invocation.
func (r *RunRepo) Finish(ctx context.Context, id int64, status model.RunStatus, errText string) error {
	const query = `UPDATE runs SET finished_at = ?, status = ?, error = ? WHERE id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, time.Now().UTC(), string(status), errText, id)
	if err != nil {
		return fmt.Errorf("finish run %d: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run %d: %w", id, err)
	}
	if rows == 0 {
		return fmt.Errorf("finish run %d: no such run", id)
	}

	return nil
}

// ListRecent returns the most recent invocations, newest first.
func (r *RunRepo) ListRecent(ctx context.Context, limit int) ([]model.Invocation, error) {
	const query = `
		SELECT id, trigger_kind, operation, symbol, started_at, finished_at, status, error
		FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`

	rows, err := r.db.Reader.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var invocations []model.Invocation
	for rows.Next() {
		var inv model.Invocation
		var trigger, operation, status, startedAt string
		var finishedAt sql.NullString
		if err := rows.Scan(&inv.ID, &trigger, &operation, &inv.Symbol, &startedAt, &finishedAt, &status, &inv.Error); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}

		inv.Trigger = model.TriggerKind(trigger)
		inv.Operation = model.OperationKind(operation)
		inv.Status = model.RunStatus(status)

		inv.StartedAt, err = parseTime(startedAt)
		if err != nil {
			return nil, fmt.Errorf("parse started_at for run %d: %w", inv.ID, err)
		}
		if finishedAt.Valid {
			inv.FinishedAt, err = parseTime(finishedAt.String)
			if err != nil {
				return nil, fmt.Errorf("parse finished_at for run %d: %w", inv.ID, err)
			}
		}

		invocations = append(invocations, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return invocations, nil
}
