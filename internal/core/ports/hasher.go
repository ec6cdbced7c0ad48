package ports

import "github.com/shihabhasan/nextflow/internal/core/domain"

// Binding is one resolved tuple of input values for a process invocation,
// already expanded through the each-input forwarding operator.
type Binding struct {
	ProcessName string
	Source      string // raw body text
	SessionID   string
	Values      map[string]string   // scalar/each inputs, by parameter name
	Files       map[string][]string // file inputs, by parameter name, unordered bag of staged paths
	FreeVars    map[string]string   // free variables referenced by the body but not declared as inputs
	Mode        domain.HashMode
}

// Hasher computes the task fingerprint of §4.5 and the content hashes that
// feed it.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// Fingerprint computes the 128-bit fingerprint for one binding.
	Fingerprint(b Binding) (domain.Fingerprint, error)

	// ComputeFileHash hashes one file's content (deep mode) or its (size,
	// modTime, path) triple (standard mode).
	ComputeFileHash(path string, mode domain.HashMode) (string, error)
}
