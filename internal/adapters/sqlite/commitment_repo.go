package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/example/covenant/internal/ports/secondary"
)

// CommitmentRepository implements secondary.CommitmentRepository with SQLite.
type CommitmentRepository struct {
	db *sql.DB
}

// NewCommitmentRepository creates a new SQLite commitment repository.
func NewCommitmentRepository(db *sql.DB) *CommitmentRepository {
	return &CommitmentRepository{db: db}
}

const commitmentSelectCols = "id, project_id, canonical_json, committed_by, committed_at, check_results, override_justification, supersedes, superseded_by, status, metadata"

// scanCommitment scans a commitment row into a CommitmentRecord.
func scanCommitment(scanner interface {
	Scan(dest ...any) error
}) (*secondary.CommitmentRecord, error) {
	var (
		projectID    sql.NullString
		committedAt  time.Time
		override     sql.NullString
		supersedes   sql.NullString
		supersededBy sql.NullString
		metadataJSON string
	)

	record := &secondary.CommitmentRecord{}
	err := scanner.Scan(
		&record.ID, &projectID, &record.CanonicalJSON, &record.CommittedBy, &committedAt,
		&record.CheckResults, &override, &supersedes, &supersededBy, &record.Status, &metadataJSON,
	)
	if err != nil {
		return nil, err
	}

	record.ProjectID = projectID.String
	record.CommittedAt = committedAt.UTC().Format(time.RFC3339)
	record.OverrideJustification = override.String
	record.SupersedesID = supersedes.String
	record.SupersededByID = supersededBy.String
	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &record.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode metadata for %s: %w", record.ID, err)
		}
	}
	return record, nil
}

// Create persists a new commitment as one atomic unit: id allocation, the
// commitment row, the atom associations, the atom status flips, and (when
// superseding) the original's forward link all happen in one transaction.
// The id is computed inside the INSERT itself, so there is no
// read-then-increment window between concurrent creates.
func (r *CommitmentRepository) Create(ctx context.Context, rec *secondary.CommitmentRecord, atomIDs []string) error {
	if len(atomIDs) == 0 {
		return fmt.Errorf("commitment must reference at least one atom")
	}

	committedAt, err := time.Parse(time.RFC3339, rec.CommittedAt)
	if err != nil {
		return fmt.Errorf("invalid commit timestamp %q: %w", rec.CommittedAt, err)
	}
	metadataJSON, err := encodeMetadata(rec.Metadata)
	if err != nil {
		return err
	}

	var projectID, override, supersedes sql.NullString
	if rec.ProjectID != "" {
		projectID = sql.NullString{String: rec.ProjectID, Valid: true}
	}
	if rec.OverrideJustification != "" {
		override = sql.NullString{String: rec.OverrideJustification, Valid: true}
	}
	if rec.SupersedesID != "" {
		supersedes = sql.NullString{String: rec.SupersedesID, Valid: true}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO commitments (id, project_id, canonical_json, committed_by, committed_at, check_results, override_justification, supersedes, status, metadata)
		 SELECT 'COM-' || printf('%03d', COALESCE(MAX(CAST(SUBSTR(id, 5) AS INTEGER)), 0) + 1), ?, ?, ?, ?, ?, ?, ?, ?, ?
		 FROM commitments`,
		projectID, rec.CanonicalJSON, rec.CommittedBy, committedAt,
		rec.CheckResults, override, supersedes, rec.Status, metadataJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to insert commitment: %w", err)
	}

	err = tx.QueryRowContext(ctx,
		"SELECT id FROM commitments ORDER BY CAST(SUBSTR(id, 5) AS INTEGER) DESC LIMIT 1",
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("failed to read allocated commitment id: %w", err)
	}

	for _, atomID := range atomIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO commitment_atoms (commitment_id, atom_id) VALUES (?, ?)",
			rec.ID, atomID,
		); err != nil {
			return fmt.Errorf("failed to associate atom %s: %w", atomID, err)
		}
	}

	// Only draft and proposed atoms may flip; anything else means the atom
	// crossed the boundary concurrently and the whole commit rolls back.
	placeholders := strings.Repeat("?,", len(atomIDs)-1) + "?"
	args := make([]any, 0, len(atomIDs))
	for _, id := range atomIDs {
		args = append(args, id)
	}
	result, err := tx.ExecContext(ctx,
		"UPDATE atoms SET status = 'committed', committed_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP WHERE id IN ("+placeholders+") AND status IN ('draft', 'proposed')",
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to flip atom statuses: %w", err)
	}
	flipped, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check status flips: %w", err)
	}
	if flipped != int64(len(atomIDs)) {
		return fmt.Errorf("commit aborted: %d of %d atoms were no longer committable", int64(len(atomIDs))-flipped, len(atomIDs))
	}

	if rec.SupersedesID != "" {
		result, err := tx.ExecContext(ctx,
			"UPDATE commitments SET superseded_by = ?, status = 'superseded' WHERE id = ? AND superseded_by IS NULL",
			rec.ID, rec.SupersedesID,
		)
		if err != nil {
			return fmt.Errorf("failed to link superseded commitment: %w", err)
		}
		linked, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check supersession link: %w", err)
		}
		if linked != 1 {
			return fmt.Errorf("commit aborted: commitment %s was superseded concurrently", rec.SupersedesID)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetByID retrieves a commitment by its ID. Returns (nil, nil) when absent.
func (r *CommitmentRepository) GetByID(ctx context.Context, id string) (*secondary.CommitmentRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+commitmentSelectCols+" FROM commitments WHERE id = ?",
		id,
	)

	record, err := scanCommitment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get commitment: %w", err)
	}
	return record, nil
}

// GetAtomIDs returns the live atom association for a commitment.
func (r *CommitmentRepository) GetAtomIDs(ctx context.Context, id string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT atom_id FROM commitment_atoms WHERE commitment_id = ? ORDER BY atom_id",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query commitment atoms: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var atomID string
		if err := rows.Scan(&atomID); err != nil {
			return nil, fmt.Errorf("failed to scan atom id: %w", err)
		}
		ids = append(ids, atomID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read commitment atoms: %w", err)
	}
	return ids, nil
}

// List retrieves commitments matching the given filters, newest first.
func (r *CommitmentRepository) List(ctx context.Context, filters secondary.CommitmentFilters) ([]*secondary.CommitmentRecord, error) {
	query := "SELECT " + commitmentSelectCols + " FROM commitments WHERE 1=1"
	args := []any{}

	if filters.ProjectID != "" {
		query += " AND project_id = ?"
		args = append(args, filters.ProjectID)
	}
	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}
	if filters.CommittedBy != "" {
		query += " AND committed_by = ?"
		args = append(args, filters.CommittedBy)
	}

	query += " ORDER BY CAST(SUBSTR(id, 5) AS INTEGER) DESC"
	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
		if filters.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filters.Offset)
		}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list commitments: %w", err)
	}
	defer rows.Close()

	var records []*secondary.CommitmentRecord
	for rows.Next() {
		record, err := scanCommitment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan commitment: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read commitments: %w", err)
	}
	return records, nil
}
