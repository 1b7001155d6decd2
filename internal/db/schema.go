package db

// SchemaSQL is the complete schema for fresh Covenant installs.
//
// # Schema Drift Protection
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All tests use
// this schema via GetSchemaSQL(): if repository code references a column that
// doesn't exist here, tests fail immediately with "no such column". Do not
// hardcode CREATE TABLE statements in test files.
const SchemaSQL = `
-- Atoms (candidate requirement records)
CREATE TABLE IF NOT EXISTS atoms (
	id TEXT PRIMARY KEY,
	description TEXT NOT NULL,
	category TEXT NOT NULL CHECK(category IN ('functional', 'performance', 'security', 'compliance', 'usability', 'reliability')),
	quality_score INTEGER CHECK(quality_score BETWEEN 0 AND 100),
	status TEXT NOT NULL CHECK(status IN ('draft', 'proposed', 'committed', 'superseded', 'abandoned')) DEFAULT 'draft',
	tags TEXT NOT NULL DEFAULT '[]',
	parent_intent TEXT,
	created_by TEXT,
	refinement_history TEXT,
	metadata TEXT NOT NULL DEFAULT '{}',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	committed_at DATETIME
);

-- Commitments (immutable snapshots of committed atoms)
CREATE TABLE IF NOT EXISTS commitments (
	id TEXT PRIMARY KEY,
	project_id TEXT,
	canonical_json TEXT NOT NULL,
	committed_by TEXT NOT NULL,
	committed_at DATETIME NOT NULL,
	check_results TEXT NOT NULL DEFAULT '[]',
	override_justification TEXT,
	supersedes TEXT REFERENCES commitments(id),
	superseded_by TEXT REFERENCES commitments(id),
	status TEXT NOT NULL CHECK(status IN ('active', 'superseded')) DEFAULT 'active',
	metadata TEXT NOT NULL DEFAULT '{}'
);

-- Live association between commitments and their source atoms.
-- Traceability navigation only; point-in-time values live in canonical_json.
CREATE TABLE IF NOT EXISTS commitment_atoms (
	commitment_id TEXT NOT NULL,
	atom_id TEXT NOT NULL,
	PRIMARY KEY (commitment_id, atom_id),
	FOREIGN KEY (commitment_id) REFERENCES commitments(id),
	FOREIGN KEY (atom_id) REFERENCES atoms(id)
);

-- Invariant configurations, one row per invariant per scope.
-- project_id '' is the global scope; project rows override it.
CREATE TABLE IF NOT EXISTS invariant_configs (
	invariant_id TEXT NOT NULL,
	project_id TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL,
	enabled INTEGER NOT NULL DEFAULT 1,
	blocking INTEGER NOT NULL DEFAULT 0,
	check_type TEXT NOT NULL CHECK(check_type IN ('builtin', 'custom')),
	params TEXT NOT NULL DEFAULT '{}',
	error_message TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (invariant_id, project_id)
);

CREATE INDEX IF NOT EXISTS idx_atoms_status ON atoms(status);
CREATE INDEX IF NOT EXISTS idx_commitments_status ON commitments(status);
CREATE INDEX IF NOT EXISTS idx_commitments_project ON commitments(project_id);
CREATE INDEX IF NOT EXISTS idx_commitment_atoms_atom ON commitment_atoms(atom_id);
`

// GetSchemaSQL returns the authoritative schema for test setup.
func GetSchemaSQL() string {
	return SchemaSQL
}
