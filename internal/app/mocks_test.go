package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/example/covenant/internal/ports/secondary"
)

// mockAtomRepo is an in-memory AtomRepository for service tests.
type mockAtomRepo struct {
	atoms  map[string]*secondary.AtomRecord
	nextID int
}

func newMockAtomRepo() *mockAtomRepo {
	return &mockAtomRepo{atoms: make(map[string]*secondary.AtomRecord), nextID: 1}
}

func (m *mockAtomRepo) add(rec *secondary.AtomRecord) {
	if rec.CreatedAt == "" {
		rec.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	if rec.UpdatedAt == "" {
		rec.UpdatedAt = rec.CreatedAt
	}
	m.atoms[rec.ID] = rec
}

func (m *mockAtomRepo) Create(_ context.Context, atom *secondary.AtomRecord) error {
	if _, exists := m.atoms[atom.ID]; exists {
		return fmt.Errorf("atom %s already exists", atom.ID)
	}
	cp := *atom
	m.add(&cp)
	return nil
}

func (m *mockAtomRepo) GetByID(_ context.Context, id string) (*secondary.AtomRecord, error) {
	rec, ok := m.atoms[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (m *mockAtomRepo) GetByIDs(_ context.Context, ids []string) ([]*secondary.AtomRecord, error) {
	var out []*secondary.AtomRecord
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	for _, id := range sorted {
		if rec, ok := m.atoms[id]; ok {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockAtomRepo) List(_ context.Context, filters secondary.AtomFilters) ([]*secondary.AtomRecord, error) {
	var ids []string
	for id := range m.atoms {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []*secondary.AtomRecord
	for _, id := range ids {
		rec := m.atoms[id]
		if filters.Status != "" && rec.Status != filters.Status {
			continue
		}
		if filters.Category != "" && rec.Category != filters.Category {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockAtomRepo) Update(_ context.Context, atom *secondary.AtomRecord) error {
	if _, ok := m.atoms[atom.ID]; !ok {
		return fmt.Errorf("atom %s not found", atom.ID)
	}
	cp := *atom
	m.atoms[atom.ID] = &cp
	return nil
}

func (m *mockAtomRepo) UpdateStatusByIDs(_ context.Context, ids []string, status string, stampCommitted bool) error {
	for _, id := range ids {
		rec, ok := m.atoms[id]
		if !ok {
			continue
		}
		rec.Status = status
		if stampCommitted {
			rec.CommittedAt = time.Now().UTC().Format(time.RFC3339)
		}
	}
	return nil
}

func (m *mockAtomRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.atoms[id]; !ok {
		return fmt.Errorf("atom %s not found", id)
	}
	delete(m.atoms, id)
	return nil
}

func (m *mockAtomRepo) GetNextID(_ context.Context) (string, error) {
	id := fmt.Sprintf("IA-%03d", m.nextID)
	m.nextID++
	return id, nil
}

// mockCommitmentRepo is an in-memory CommitmentRepository mirroring the SQLite
// adapter's atomic create semantics.
type mockCommitmentRepo struct {
	commitments map[string]*secondary.CommitmentRecord
	atomIDs     map[string][]string
	atomRepo    *mockAtomRepo
	seq         int
}

func newMockCommitmentRepo(atomRepo *mockAtomRepo) *mockCommitmentRepo {
	return &mockCommitmentRepo{
		commitments: make(map[string]*secondary.CommitmentRecord),
		atomIDs:     make(map[string][]string),
		atomRepo:    atomRepo,
	}
}

func (m *mockCommitmentRepo) Create(_ context.Context, rec *secondary.CommitmentRecord, atomIDs []string) error {
	for _, id := range atomIDs {
		atom, ok := m.atomRepo.atoms[id]
		if !ok || (atom.Status != "draft" && atom.Status != "proposed") {
			return fmt.Errorf("commit aborted: 1 of %d atoms were no longer committable", len(atomIDs))
		}
	}
	if rec.SupersedesID != "" {
		orig, ok := m.commitments[rec.SupersedesID]
		if !ok || orig.SupersededByID != "" {
			return fmt.Errorf("commit aborted: commitment %s was superseded concurrently", rec.SupersedesID)
		}
	}

	m.seq++
	rec.ID = fmt.Sprintf("COM-%03d", m.seq)
	cp := *rec
	m.commitments[rec.ID] = &cp
	m.atomIDs[rec.ID] = append([]string(nil), atomIDs...)

	now := time.Now().UTC().Format(time.RFC3339)
	for _, id := range atomIDs {
		atom := m.atomRepo.atoms[id]
		atom.Status = "committed"
		atom.CommittedAt = now
	}
	if rec.SupersedesID != "" {
		orig := m.commitments[rec.SupersedesID]
		orig.SupersededByID = rec.ID
		orig.Status = "superseded"
	}
	return nil
}

func (m *mockCommitmentRepo) GetByID(_ context.Context, id string) (*secondary.CommitmentRecord, error) {
	rec, ok := m.commitments[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (m *mockCommitmentRepo) GetAtomIDs(_ context.Context, id string) ([]string, error) {
	return append([]string(nil), m.atomIDs[id]...), nil
}

func (m *mockCommitmentRepo) List(_ context.Context, filters secondary.CommitmentFilters) ([]*secondary.CommitmentRecord, error) {
	var ids []string
	for id := range m.commitments {
		ids = append(ids, id)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(ids)))

	var out []*secondary.CommitmentRecord
	for _, id := range ids {
		rec := m.commitments[id]
		if filters.ProjectID != "" && rec.ProjectID != filters.ProjectID {
			continue
		}
		if filters.Status != "" && rec.Status != filters.Status {
			continue
		}
		if filters.CommittedBy != "" && rec.CommittedBy != filters.CommittedBy {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

// mockConfigRepo is an in-memory InvariantConfigRepository with the same
// project-over-global shadowing as the SQLite adapter.
type mockConfigRepo struct {
	configs map[string]*secondary.InvariantConfigRecord // key: invariantID + "\x00" + projectID
}

func newMockConfigRepo() *mockConfigRepo {
	return &mockConfigRepo{configs: make(map[string]*secondary.InvariantConfigRecord)}
}

func configKey(invariantID, projectID string) string {
	return invariantID + "\x00" + projectID
}

func (m *mockConfigRepo) add(rec *secondary.InvariantConfigRecord) {
	cp := *rec
	m.configs[configKey(rec.InvariantID, rec.ProjectID)] = &cp
}

func (m *mockConfigRepo) FindEnabled(ctx context.Context, projectID string) ([]*secondary.InvariantConfigRecord, error) {
	all, err := m.List(ctx, projectID)
	if err != nil {
		return nil, err
	}
	var out []*secondary.InvariantConfigRecord
	for _, rec := range all {
		if rec.Enabled {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *mockConfigRepo) FindByInvariantID(_ context.Context, invariantID, projectID string) (*secondary.InvariantConfigRecord, error) {
	if rec, ok := m.configs[configKey(invariantID, projectID)]; ok {
		cp := *rec
		return &cp, nil
	}
	if rec, ok := m.configs[configKey(invariantID, "")]; ok {
		cp := *rec
		return &cp, nil
	}
	return nil, nil
}

func (m *mockConfigRepo) List(_ context.Context, projectID string) ([]*secondary.InvariantConfigRecord, error) {
	effective := make(map[string]*secondary.InvariantConfigRecord)
	for _, rec := range m.configs {
		if rec.ProjectID == "" {
			if _, ok := effective[rec.InvariantID]; !ok {
				effective[rec.InvariantID] = rec
			}
		}
	}
	if projectID != "" {
		for _, rec := range m.configs {
			if rec.ProjectID == projectID {
				effective[rec.InvariantID] = rec
			}
		}
	}

	var ids []string
	for id := range effective {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []*secondary.InvariantConfigRecord
	for _, id := range ids {
		cp := *effective[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockConfigRepo) Upsert(_ context.Context, rec *secondary.InvariantConfigRecord) error {
	cp := *rec
	m.configs[configKey(rec.InvariantID, rec.ProjectID)] = &cp
	return nil
}

func (m *mockConfigRepo) SetEnabled(_ context.Context, invariantID, projectID string, enabled bool) error {
	rec, ok := m.configs[configKey(invariantID, projectID)]
	if !ok {
		return fmt.Errorf("invariant %s not found", invariantID)
	}
	rec.Enabled = enabled
	return nil
}

func (m *mockConfigRepo) SetBlocking(_ context.Context, invariantID, projectID string, blocking bool) error {
	rec, ok := m.configs[configKey(invariantID, projectID)]
	if !ok {
		return fmt.Errorf("invariant %s not found", invariantID)
	}
	rec.Blocking = blocking
	return nil
}

func (m *mockConfigRepo) Delete(_ context.Context, invariantID, projectID string) error {
	key := configKey(invariantID, projectID)
	if _, ok := m.configs[key]; !ok {
		return fmt.Errorf("invariant %s not found", invariantID)
	}
	delete(m.configs, key)
	return nil
}
