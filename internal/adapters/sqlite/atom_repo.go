// Package sqlite contains SQLite implementations of repository interfaces.
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

// AtomRepository implements secondary.AtomRepository with SQLite.
type AtomRepository struct {
	db *sql.DB
}

// NewAtomRepository creates a new SQLite atom repository.
func NewAtomRepository(db *sql.DB) *AtomRepository {
	return &AtomRepository{db: db}
}

const atomSelectCols = "id, description, category, quality_score, status, tags, parent_intent, created_by, refinement_history, metadata, created_at, updated_at, committed_at"

// scanAtom scans an atom row into an AtomRecord.
func scanAtom(scanner interface {
	Scan(dest ...any) error
}) (*secondary.AtomRecord, error) {
	var (
		qualityScore      sql.NullInt64
		tagsJSON          string
		parentIntent      sql.NullString
		createdBy         sql.NullString
		refinementHistory sql.NullString
		metadataJSON      string
		createdAt         time.Time
		updatedAt         time.Time
		committedAt       sql.NullTime
	)

	record := &secondary.AtomRecord{}
	err := scanner.Scan(
		&record.ID, &record.Description, &record.Category, &qualityScore, &record.Status,
		&tagsJSON, &parentIntent, &createdBy, &refinementHistory, &metadataJSON,
		&createdAt, &updatedAt, &committedAt,
	)
	if err != nil {
		return nil, err
	}

	if qualityScore.Valid {
		score := int(qualityScore.Int64)
		record.QualityScore = &score
	}
	if tagsJSON != "" {
		if err := json.Unmarshal([]byte(tagsJSON), &record.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags for %s: %w", record.ID, err)
		}
	}
	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &record.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode metadata for %s: %w", record.ID, err)
		}
	}
	record.ParentIntent = parentIntent.String
	record.CreatedBy = createdBy.String
	record.RefinementHistory = refinementHistory.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)
	if committedAt.Valid {
		record.CommittedAt = committedAt.Time.Format(time.RFC3339)
	}

	return record, nil
}

// Create persists a new atom.
func (r *AtomRepository) Create(ctx context.Context, atom *secondary.AtomRecord) error {
	tagsJSON, err := encodeTags(atom.Tags)
	if err != nil {
		return err
	}
	metadataJSON, err := encodeMetadata(atom.Metadata)
	if err != nil {
		return err
	}

	var parentIntent, createdBy, refinementHistory sql.NullString
	if atom.ParentIntent != "" {
		parentIntent = sql.NullString{String: atom.ParentIntent, Valid: true}
	}
	if atom.CreatedBy != "" {
		createdBy = sql.NullString{String: atom.CreatedBy, Valid: true}
	}
	if atom.RefinementHistory != "" {
		refinementHistory = sql.NullString{String: atom.RefinementHistory, Valid: true}
	}

	var qualityScore sql.NullInt64
	if atom.QualityScore != nil {
		qualityScore = sql.NullInt64{Int64: int64(*atom.QualityScore), Valid: true}
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO atoms (id, description, category, quality_score, status, tags, parent_intent, created_by, refinement_history, metadata) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		atom.ID, atom.Description, atom.Category, qualityScore, atom.Status,
		tagsJSON, parentIntent, createdBy, refinementHistory, metadataJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to create atom: %w", err)
	}
	return nil
}

// GetByID retrieves an atom by its ID. Returns (nil, nil) when absent.
func (r *AtomRepository) GetByID(ctx context.Context, id string) (*secondary.AtomRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+atomSelectCols+" FROM atoms WHERE id = ?",
		id,
	)

	record, err := scanAtom(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get atom: %w", err)
	}
	return record, nil
}

// GetByIDs retrieves atoms for the given id set. Missing ids are simply
// absent from the result.
func (r *AtomRepository) GetByIDs(ctx context.Context, ids []string) ([]*secondary.AtomRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids)-1) + "?"
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+atomSelectCols+" FROM atoms WHERE id IN ("+placeholders+") ORDER BY id",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query atoms: %w", err)
	}
	defer rows.Close()

	return collectAtoms(rows)
}

// List retrieves atoms matching the given filters.
func (r *AtomRepository) List(ctx context.Context, filters secondary.AtomFilters) ([]*secondary.AtomRecord, error) {
	query := "SELECT " + atomSelectCols + " FROM atoms WHERE 1=1"
	args := []any{}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}
	if filters.Category != "" {
		query += " AND category = ?"
		args = append(args, filters.Category)
	}

	query += " ORDER BY id"
	if filters.Limit > 0 && filters.Tag == "" {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list atoms: %w", err)
	}
	defer rows.Close()

	records, err := collectAtoms(rows)
	if err != nil {
		return nil, err
	}

	// Tags are stored as a JSON array; tag filtering happens here.
	if filters.Tag != "" {
		filtered := records[:0]
		for _, rec := range records {
			for _, t := range rec.Tags {
				if t == filters.Tag {
					filtered = append(filtered, rec)
					break
				}
			}
		}
		records = filtered
		if filters.Limit > 0 && len(records) > filters.Limit {
			records = records[:filters.Limit]
		}
	}

	return records, nil
}

// Update updates an existing atom's mutable fields.
func (r *AtomRepository) Update(ctx context.Context, atom *secondary.AtomRecord) error {
	tagsJSON, err := encodeTags(atom.Tags)
	if err != nil {
		return err
	}
	metadataJSON, err := encodeMetadata(atom.Metadata)
	if err != nil {
		return err
	}

	var qualityScore sql.NullInt64
	if atom.QualityScore != nil {
		qualityScore = sql.NullInt64{Int64: int64(*atom.QualityScore), Valid: true}
	}

	var refinementHistory sql.NullString
	if atom.RefinementHistory != "" {
		refinementHistory = sql.NullString{String: atom.RefinementHistory, Valid: true}
	}

	result, err := r.db.ExecContext(ctx,
		"UPDATE atoms SET description = ?, category = ?, quality_score = ?, tags = ?, refinement_history = ?, metadata = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		atom.Description, atom.Category, qualityScore, tagsJSON, refinementHistory, metadataJSON, atom.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update atom: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("atom %s not found", atom.ID)
	}
	return nil
}

// UpdateStatusByIDs flips the status of every atom in the id set.
func (r *AtomRepository) UpdateStatusByIDs(ctx context.Context, ids []string, status string, stampCommitted bool) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?,", len(ids)-1) + "?"
	query := "UPDATE atoms SET status = ?, updated_at = CURRENT_TIMESTAMP"
	if stampCommitted {
		query += ", committed_at = CURRENT_TIMESTAMP"
	}
	query += " WHERE id IN (" + placeholders + ")"

	args := make([]any, 0, len(ids)+1)
	args = append(args, status)
	for _, id := range ids {
		args = append(args, id)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update atom statuses: %w", err)
	}
	return nil
}

// Delete removes an atom from persistence.
func (r *AtomRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM atoms WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete atom: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("atom %s not found", id)
	}
	return nil
}

// GetNextID returns the next available atom ID (IA-###).
func (r *AtomRepository) GetNextID(ctx context.Context) (string, error) {
	var maxSeq sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		"SELECT MAX(CAST(SUBSTR(id, 4) AS INTEGER)) FROM atoms",
	).Scan(&maxSeq)
	if err != nil {
		return "", fmt.Errorf("failed to get next atom ID: %w", err)
	}
	return fmt.Sprintf("IA-%03d", maxSeq.Int64+1), nil
}

func collectAtoms(rows *sql.Rows) ([]*secondary.AtomRecord, error) {
	var records []*secondary.AtomRecord
	for rows.Next() {
		record, err := scanAtom(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan atom: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read atoms: %w", err)
	}
	return records, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("failed to encode tags: %w", err)
	}
	return string(data), nil
}

func encodeMetadata(metadata map[string]string) (string, error) {
	if metadata == nil {
		metadata = map[string]string{}
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("failed to encode metadata: %w", err)
	}
	return string(data), nil
}
