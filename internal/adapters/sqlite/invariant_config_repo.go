package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/example/covenant/internal/ports/secondary"
)

// InvariantConfigRepository implements secondary.InvariantConfigRepository
// with SQLite.
type InvariantConfigRepository struct {
	db *sql.DB
}

// NewInvariantConfigRepository creates a new SQLite invariant config repository.
func NewInvariantConfigRepository(db *sql.DB) *InvariantConfigRepository {
	return &InvariantConfigRepository{db: db}
}

const invariantConfigSelectCols = "invariant_id, project_id, name, enabled, blocking, check_type, params, error_message"

func scanInvariantConfig(scanner interface {
	Scan(dest ...any) error
}) (*secondary.InvariantConfigRecord, error) {
	var (
		enabled    int
		blocking   int
		paramsJSON string
		errMsg     sql.NullString
	)

	record := &secondary.InvariantConfigRecord{}
	err := scanner.Scan(
		&record.InvariantID, &record.ProjectID, &record.Name,
		&enabled, &blocking, &record.CheckType, &paramsJSON, &errMsg,
	)
	if err != nil {
		return nil, err
	}

	record.Enabled = enabled != 0
	record.Blocking = blocking != 0
	record.ErrorMessage = errMsg.String
	if paramsJSON != "" {
		if err := json.Unmarshal([]byte(paramsJSON), &record.Params); err != nil {
			return nil, fmt.Errorf("failed to decode params for %s: %w", record.InvariantID, err)
		}
	}
	return record, nil
}

// FindEnabled returns the effective enabled configs for a project scope:
// project rows shadow global rows with the same invariant id, and the
// enabled filter applies after shadowing. A disabled project override
// therefore hides an enabled global row.
func (r *InvariantConfigRepository) FindEnabled(ctx context.Context, projectID string) ([]*secondary.InvariantConfigRecord, error) {
	merged, err := r.effectiveConfigs(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var enabled []*secondary.InvariantConfigRecord
	for _, rec := range merged {
		if rec.Enabled {
			enabled = append(enabled, rec)
		}
	}
	return enabled, nil
}

// FindByInvariantID returns the effective config for one invariant in a
// project scope, preferring the project row over the global row. Returns
// (nil, nil) when neither scope has a row.
func (r *InvariantConfigRepository) FindByInvariantID(ctx context.Context, invariantID, projectID string) (*secondary.InvariantConfigRecord, error) {
	query := "SELECT " + invariantConfigSelectCols + ` FROM invariant_configs
		 WHERE invariant_id = ? AND project_id IN ('', ?)
		 ORDER BY project_id DESC LIMIT 1`

	row := r.db.QueryRowContext(ctx, query, invariantID, projectID)
	record, err := scanInvariantConfig(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invariant config: %w", err)
	}
	return record, nil
}

// List returns the effective configs for a project scope regardless of the
// enabled flag, ordered by invariant id.
func (r *InvariantConfigRepository) List(ctx context.Context, projectID string) ([]*secondary.InvariantConfigRecord, error) {
	return r.effectiveConfigs(ctx, projectID)
}

// Upsert inserts or replaces the config row for its exact scope.
func (r *InvariantConfigRepository) Upsert(ctx context.Context, rec *secondary.InvariantConfigRecord) error {
	params := rec.Params
	if params == nil {
		params = map[string]string{}
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to encode params: %w", err)
	}

	var errMsg sql.NullString
	if rec.ErrorMessage != "" {
		errMsg = sql.NullString{String: rec.ErrorMessage, Valid: true}
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO invariant_configs (invariant_id, project_id, name, enabled, blocking, check_type, params, error_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(invariant_id, project_id) DO UPDATE SET
			name = excluded.name,
			enabled = excluded.enabled,
			blocking = excluded.blocking,
			check_type = excluded.check_type,
			params = excluded.params,
			error_message = excluded.error_message,
			updated_at = CURRENT_TIMESTAMP`,
		rec.InvariantID, rec.ProjectID, rec.Name,
		boolToInt(rec.Enabled), boolToInt(rec.Blocking),
		rec.CheckType, string(paramsJSON), errMsg,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert invariant config: %w", err)
	}
	return nil
}

// SetEnabled flips the enabled flag on an existing row in its exact scope.
func (r *InvariantConfigRepository) SetEnabled(ctx context.Context, invariantID, projectID string, enabled bool) error {
	return r.setFlag(ctx, "enabled", invariantID, projectID, enabled)
}

// SetBlocking flips the blocking flag on an existing row in its exact scope.
func (r *InvariantConfigRepository) SetBlocking(ctx context.Context, invariantID, projectID string, blocking bool) error {
	return r.setFlag(ctx, "blocking", invariantID, projectID, blocking)
}

func (r *InvariantConfigRepository) setFlag(ctx context.Context, column, invariantID, projectID string, value bool) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE invariant_configs SET "+column+" = ?, updated_at = CURRENT_TIMESTAMP WHERE invariant_id = ? AND project_id = ?",
		boolToInt(value), invariantID, projectID,
	)
	if err != nil {
		return fmt.Errorf("failed to update invariant config: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("invariant %s not found", invariantID)
	}
	return nil
}

// Delete removes a config row from its exact scope.
func (r *InvariantConfigRepository) Delete(ctx context.Context, invariantID, projectID string) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM invariant_configs WHERE invariant_id = ? AND project_id = ?",
		invariantID, projectID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete invariant config: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("invariant %s not found", invariantID)
	}
	return nil
}

// effectiveConfigs merges global and project rows, project winning per
// invariant id.
func (r *InvariantConfigRepository) effectiveConfigs(ctx context.Context, projectID string) ([]*secondary.InvariantConfigRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+invariantConfigSelectCols+" FROM invariant_configs WHERE project_id IN ('', ?) ORDER BY invariant_id, project_id",
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query invariant configs: %w", err)
	}
	defer rows.Close()

	// Rows arrive global-first per invariant id; later project rows shadow.
	byID := map[string]int{}
	var merged []*secondary.InvariantConfigRecord
	for rows.Next() {
		record, err := scanInvariantConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invariant config: %w", err)
		}
		if idx, seen := byID[record.InvariantID]; seen {
			merged[idx] = record
			continue
		}
		byID[record.InvariantID] = len(merged)
		merged = append(merged, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read invariant configs: %w", err)
	}
	return merged, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
