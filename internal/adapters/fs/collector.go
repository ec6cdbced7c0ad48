package fs

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/shihabhasan/nextflow/internal/core/domain"
	"github.com/shihabhasan/nextflow/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.OutputCollector = (*Collector)(nil)

// Collector implements §4.4's output collection: stdout, glob/literal file
// patterns walked through Walker, and context-expression values.
type Collector struct {
	walker *Walker
}

// NewCollector creates a new Collector.
func NewCollector() *Collector {
	return &Collector{walker: NewWalker()}
}

// CollectStdout reads the task's captured stdout file.
func (c *Collector) CollectStdout(workDir string) (string, error) {
	path := filepath.Join(workDir, domain.CommandOutFile)
	data, err := os.ReadFile(path) //nolint:gosec // path built from the task's own workDir
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to read captured stdout"), "path", path)
	}
	return string(data), nil
}

// CollectFile resolves pattern against workDir. Glob metacharacters trigger a
// walk honoring opts; a literal pattern resolves directly. Entries whose
// basename matches a staged input are dropped unless opts.IncludeInputs.
func (c *Collector) CollectFile(workDir, pattern string, opts domain.WalkOptions, stagedInputs []string) ([]string, error) {
	inputBasenames := make(map[string]bool, len(stagedInputs))
	for _, p := range stagedInputs {
		inputBasenames[filepath.Base(p)] = true
	}

	var matches []string
	if isGlobPattern(pattern) {
		for path := range c.walker.WalkFiles(workDir, opts) {
			rel, err := filepath.Rel(workDir, path)
			if err != nil {
				continue
			}
			ok, err := filepath.Match(pattern, rel)
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, "invalid output glob pattern"), "pattern", pattern)
			}
			if !ok {
				ok, err = filepath.Match(pattern, filepath.Base(path))
				if err != nil {
					return nil, zerr.With(zerr.Wrap(err, "invalid output glob pattern"), "pattern", pattern)
				}
			}
			if ok {
				matches = append(matches, path)
			}
		}
	} else {
		path := filepath.Join(workDir, pattern)
		if _, err := os.Stat(path); err == nil {
			matches = append(matches, path)
		}
	}

	if !opts.IncludeInputs {
		filtered := matches[:0]
		for _, m := range matches {
			if !inputBasenames[filepath.Base(m)] {
				filtered = append(filtered, m)
			}
		}
		matches = filtered
	}

	if len(matches) == 0 {
		return nil, zerr.With(domain.ErrMissingOutput, "pattern", pattern)
	}
	return matches, nil
}

// CollectValue evaluates expr against ctx: a bare name looks itself up
// directly; ErrMissingValue is returned when the name is unresolved.
func (c *Collector) CollectValue(ctx *domain.TaskContext, expr string) (string, error) {
	name := strings.TrimSpace(expr)
	v, ok := ctx.Get(name)
	if !ok {
		return "", zerr.With(domain.ErrMissingValue, "expr", expr)
	}
	return v, nil
}

func isGlobPattern(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}
