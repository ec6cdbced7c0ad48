// Package config provides the pipeline definition loader.
package config

import (
	"path/filepath"

	"github.com/shihabhasan/nextflow/internal/core/domain"
	"github.com/shihabhasan/nextflow/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader over a YAML pipeline definition file.
// Filesystem access is routed through FileSystem rather than the os package
// directly so tests can substitute an in-memory fstest.MapFS tree via
// MapFSAdapter instead of touching disk.
type Loader struct {
	Logger ports.Logger
	fs     FileSystem
}

// NewLoader creates a new Loader with the given logger, reading from disk.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, fs: NewOSFS()}
}

// NewLoaderWithFS creates a Loader reading through a custom FileSystem, for
// tests that exercise DiscoverRoot/Load against an in-memory tree.
func NewLoaderWithFS(logger ports.Logger, fsys FileSystem) *Loader {
	return &Loader{Logger: logger, fs: fsys}
}

// DiscoverRoot walks upward from cwd looking for a pipeline.yaml, returning
// the directory that contains it.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	dir := cwd
	for {
		path := filepath.Join(dir, domain.PipelineFileName)
		if _, err := l.fs.Stat(path); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
		}
		dir = parent
	}
}

// Load discovers and parses the pipeline definition reachable from cwd.
func (l *Loader) Load(cwd string) (*domain.Pipeline, error) {
	root, err := l.DiscoverRoot(cwd)
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(root, domain.PipelineFileName)
	raw, err := l.fs.ReadFile(configPath)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", configPath)
	}

	var dto PipelineDTO
	if err := yaml.Unmarshal(raw, &dto); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", configPath)
	}

	pipeline := &domain.Pipeline{
		Name:    dto.Name,
		BaseDir: root,
	}

	seen := make(map[string]bool, len(dto.Processes))
	for i := range dto.Processes {
		proc, err := buildProcess(&dto.Processes[i])
		if err != nil {
			return nil, err
		}
		if seen[proc.Name.String()] {
			return nil, zerr.With(domain.ErrTaskAlreadyExists, "process", proc.Name.String())
		}
		seen[proc.Name.String()] = true
		pipeline.Processes = append(pipeline.Processes, proc)
	}

	return pipeline, nil
}

func buildProcess(dto *ProcessDTO) (*domain.Process, error) {
	if err := validateProcessName(dto.Name); err != nil {
		return nil, err
	}

	directives, err := buildDirectives(&dto.Directives)
	if err != nil {
		return nil, zerr.With(err, "process", dto.Name)
	}

	inputs := make([]domain.InputParam, 0, len(dto.Inputs))
	for _, in := range dto.Inputs {
		kind, err := parseInputKind(in.Kind)
		if err != nil {
			return nil, zerr.With(zerr.With(err, "process", dto.Name), "input", in.Name)
		}
		inputs = append(inputs, domain.InputParam{
			Name:    domain.NewInternedString(in.Name),
			Kind:    kind,
			Pattern: in.Pattern,
			Values:  in.Values,
		})
	}

	outputs := make([]domain.OutputParam, 0, len(dto.Outputs))
	for _, out := range dto.Outputs {
		source, err := parseOutputSource(out.Source)
		if err != nil {
			return nil, zerr.With(zerr.With(err, "process", dto.Name), "output", out.Name)
		}
		mode, err := parseOutputMode(out.Mode)
		if err != nil {
			return nil, zerr.With(zerr.With(err, "process", dto.Name), "output", out.Name)
		}
		outputs = append(outputs, domain.OutputParam{
			Name:   domain.NewInternedString(out.Name),
			Source: source,
			Spec:   out.Spec,
			Mode:   mode,
			Walk: domain.WalkOptions{
				Hidden:        out.Walk.Hidden,
				FollowLinks:   out.Walk.FollowLinks,
				MaxDepth:      out.Walk.MaxDepth,
				Type:          out.Walk.Type,
				IncludeInputs: out.Walk.IncludeInputs,
			},
		})
	}

	return &domain.Process{
		Name:       domain.NewInternedString(dto.Name),
		Inputs:     inputs,
		Outputs:    outputs,
		When:       dto.When,
		Source:     processSource(dto),
		IsValue:    dto.Script == "" && dto.Value != "",
		Directives: directives,
	}, nil
}

func processSource(dto *ProcessDTO) string {
	if dto.Script != "" {
		return dto.Script
	}
	return dto.Value
}

func buildDirectives(dto *DirectivesDTO) (domain.Directives, error) {
	strategy := domain.ErrorStrategyTerminate
	if dto.ErrorStrategy != "" {
		s, err := domain.ParseErrorStrategy(dto.ErrorStrategy)
		if err != nil {
			return domain.Directives{}, err
		}
		strategy = s
	}

	hashMode := domain.HashModeStandard
	if dto.HashMode != "" {
		hashMode = domain.HashMode(dto.HashMode)
	}

	cache := true
	if dto.Cache != nil {
		cache = *dto.Cache
	}

	maxErrors := dto.MaxErrors
	if maxErrors == 0 {
		maxErrors = -1
	}

	return domain.Directives{
		CPUs:           dto.CPUs,
		Memory:         dto.Memory,
		Time:           dto.Time,
		Queue:          dto.Queue,
		ClusterOptions: dto.ClusterOptions,
		Container:      dto.Container,
		Executor:       defaultString(dto.Executor, "local"),
		MaxForks:       dto.MaxForks,
		MaxRetries:     dto.MaxRetries,
		MaxErrors:      maxErrors,
		ErrorStrategy:  strategy,
		StoreDir:       dto.StoreDir,
		PublishDir:     dto.PublishDir,
		PublishMode:    defaultString(dto.PublishMode, "copy"),
		Cache:          cache,
		HashMode:       hashMode,
	}, nil
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func parseInputKind(kind string) (domain.InputKind, error) {
	switch kind {
	case "", "value":
		return domain.InputKindValue, nil
	case "file":
		return domain.InputKindFile, nil
	case "each":
		return domain.InputKindEach, nil
	default:
		return 0, zerr.With(domain.ErrInvalidTaskName, "kind", kind)
	}
}

func parseOutputSource(source string) (domain.OutputSourceKind, error) {
	switch source {
	case "", "stdout":
		return domain.OutputSourceStdout, nil
	case "file":
		return domain.OutputSourceFile, nil
	case "value":
		return domain.OutputSourceValue, nil
	default:
		return 0, zerr.With(domain.ErrInvalidTaskName, "source", source)
	}
}

func parseOutputMode(mode string) (domain.OutputMode, error) {
	switch mode {
	case "", "standard":
		return domain.OutputModeStandard, nil
	case "flatten":
		return domain.OutputModeFlatten, nil
	case "combine":
		return domain.OutputModeCombine, nil
	default:
		return 0, zerr.With(domain.ErrInvalidTaskName, "mode", mode)
	}
}

func validateProcessName(name string) error {
	if name == "" {
		return domain.ErrMissingProjectName
	}
	if name == "all" {
		return zerr.With(domain.ErrReservedTaskName, "process", name)
	}
	return nil
}
