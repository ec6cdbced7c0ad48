package ports

import "github.com/shihabhasan/nextflow/internal/core/domain"

// ConfigLoader loads a pipeline definition (the narrow external-collaborator
// interface §6 reserves for the pipeline DSL, which is itself out of scope)
// into the in-core Pipeline model.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the pipeline definition from the given working directory.
	Load(cwd string) (*domain.Pipeline, error)

	// DiscoverRoot walks up from cwd to find the directory containing the pipeline definition.
	DiscoverRoot(cwd string) (string, error)
}
