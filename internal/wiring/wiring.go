// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/shihabhasan/nextflow/internal/adapters/cache"
	_ "github.com/shihabhasan/nextflow/internal/adapters/config"
	_ "github.com/shihabhasan/nextflow/internal/adapters/executor/local"
	_ "github.com/shihabhasan/nextflow/internal/adapters/fs"
	_ "github.com/shihabhasan/nextflow/internal/adapters/history"
	_ "github.com/shihabhasan/nextflow/internal/adapters/logger"
	_ "github.com/shihabhasan/nextflow/internal/adapters/render"
	_ "github.com/shihabhasan/nextflow/internal/adapters/telemetry"
	// Register the app node.
	_ "github.com/shihabhasan/nextflow/internal/app"
)
