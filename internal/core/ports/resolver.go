package ports

import "github.com/shihabhasan/nextflow/internal/core/domain"

// InputResolver normalizes file input values and expands wildcard name
// patterns per the table in §4.3.
//
//go:generate mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type InputResolver interface {
	// NormalizeAndStage materializes each value into workDir (copying existing
	// regular files from outside workDir, writing any other value as its string
	// form) and returns the staged absolute paths in binding order.
	NormalizeAndStage(values []string, workDir string) ([]string, error)

	// ExpandNames computes the destination file name(s) for a staged value
	// list against a formal name pattern, per the §4.3 expansion table.
	ExpandNames(pattern string, staged []string) ([]string, error)
}

// OutputCollector collects declared outputs after a task completes, per §4.4.
//
//go:generate mockgen -source=resolver.go -destination=mocks/mock_output_collector.go -package=mocks
type OutputCollector interface {
	// CollectStdout reads the captured stdout file.
	CollectStdout(workDir string) (string, error)

	// CollectFile resolves a glob or literal pattern against workDir, honoring
	// opts, and drops entries matching staged input basenames unless
	// opts.IncludeInputs is set.
	CollectFile(workDir, pattern string, opts domain.WalkOptions, stagedInputs []string) ([]string, error)

	// CollectValue evaluates expr against ctx; returns ErrMissingValue if unresolved.
	CollectValue(ctx *domain.TaskContext, expr string) (string, error)
}
