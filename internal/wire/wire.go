// Package wire provides dependency injection for the Covenant application.
// It creates singleton services with lazy initialization.
package wire

import (
	"io"
	"log"
	"os"
	"sync"

	cliadapter "github.com/example/covenant/internal/adapters/cli"
	"github.com/example/covenant/internal/adapters/sqlite"
	"github.com/example/covenant/internal/app"
	"github.com/example/covenant/internal/core/invariant"
	"github.com/example/covenant/internal/db"
	"github.com/example/covenant/internal/ports/primary"
)

var (
	atomService       primary.AtomService
	commitmentService primary.CommitmentService
	invariantService  primary.InvariantService
	registry          *invariant.Registry
	once              sync.Once
)

// AtomService returns the singleton AtomService instance.
func AtomService() primary.AtomService {
	once.Do(initServices)
	return atomService
}

// CommitmentService returns the singleton CommitmentService instance.
func CommitmentService() primary.CommitmentService {
	once.Do(initServices)
	return commitmentService
}

// InvariantService returns the singleton InvariantService instance.
func InvariantService() primary.InvariantService {
	once.Do(initServices)
	return invariantService
}

// Registry returns the shared checker registry, for custom checker plugins.
func Registry() *invariant.Registry {
	once.Do(initServices)
	return registry
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Repository adapters (secondary ports) with injected DB
	atomRepo := sqlite.NewAtomRepository(database)
	commitmentRepo := sqlite.NewCommitmentRepository(database)
	configRepo := sqlite.NewInvariantConfigRepository(database)

	// Checking machinery: registry of builtin checkers and the engine over it
	registry = invariant.NewDefaultRegistry()
	engine := invariant.NewEngine(registry, app.NewConfigSourceAdapter(configRepo))

	// Services (primary port implementations)
	atomService = app.NewAtomService(atomRepo)
	commitmentService = app.NewCommitmentService(atomRepo, commitmentRepo, engine)
	invariantService = app.NewInvariantService(configRepo, atomRepo, registry, engine)
}

// CommitmentAdapter returns a new CommitmentAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func CommitmentAdapter() *cliadapter.CommitmentAdapter {
	return CommitmentAdapterWithOutput(os.Stdout)
}

// CommitmentAdapterWithOutput returns a new CommitmentAdapter writing to the
// given output. This variant allows testing or alternate output destinations.
func CommitmentAdapterWithOutput(out io.Writer) *cliadapter.CommitmentAdapter {
	once.Do(initServices)
	return cliadapter.NewCommitmentAdapter(commitmentService, out)
}
