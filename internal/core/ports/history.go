package ports

import "github.com/shihabhasan/nextflow/internal/core/domain"

// History is the append-only log mapping (sessionId, runName) -> commandLine, per §4.9.
//
//go:generate mockgen -source=history.go -destination=mocks/mock_history.go -package=mocks
type History interface {
	// Append writes one new entry.
	Append(sessionID, runName, commandLine string) error

	// FindByIDPrefix returns every entry whose sessionId starts with prefix.
	FindByIDPrefix(prefix string) ([]domain.HistoryEntry, error)

	// FindByName returns the entry with the given runName, or nil.
	FindByName(runName string) (*domain.HistoryEntry, error)

	// FindBy resolves a token: "last" maps to the last entry, a uuid-shaped
	// token to FindByIDPrefix (erroring if ambiguous), else FindByName.
	FindBy(token string) (*domain.HistoryEntry, error)

	// FindBefore/FindAfter/FindBut return entries in history order relative to the match on token.
	FindBefore(token string) ([]domain.HistoryEntry, error)
	FindAfter(token string) ([]domain.HistoryEntry, error)
	FindBut(token string) ([]domain.HistoryEntry, error)

	// All returns every entry in history order.
	All() ([]domain.HistoryEntry, error)

	// DeleteEntry rewrites the file without the given entry.
	DeleteEntry(entry domain.HistoryEntry) error
}
