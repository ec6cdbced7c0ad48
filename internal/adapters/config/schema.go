package config

// PipelineDTO is the on-disk YAML shape of a pipeline definition: a named
// collection of processes. No channel wiring between processes is declared
// here; each process carries its own input values. The grammar
// of the pipeline DSL proper is out of scope (spec.md §1 Non-goals); this is
// the narrow structured-definition interface §6 reserves for it.
type PipelineDTO struct {
	Name      string       `yaml:"name"`
	Processes []ProcessDTO `yaml:"processes"`
}

// ProcessDTO is one process definition: its inputs, outputs, directives, and body.
type ProcessDTO struct {
	Name       string        `yaml:"name"`
	Inputs     []InputDTO    `yaml:"inputs"`
	Outputs    []OutputDTO   `yaml:"outputs"`
	When       string        `yaml:"when"`
	Script     string        `yaml:"script"`
	Value      string        `yaml:"value"`
	Directives DirectivesDTO `yaml:"directives"`
}

// InputDTO is one formal input parameter.
type InputDTO struct {
	Name    string   `yaml:"name"`
	Kind    string   `yaml:"kind"` // "value", "file", "each"
	Pattern string   `yaml:"pattern"`
	Values  []string `yaml:"values"`
}

// OutputDTO is one formal output parameter.
type OutputDTO struct {
	Name   string      `yaml:"name"`
	Source string      `yaml:"source"` // "stdout", "file", "value"
	Spec   string      `yaml:"spec"`
	Mode   string      `yaml:"mode"` // "standard", "flatten", "combine"
	Walk   WalkOptsDTO `yaml:"walk"`
}

// WalkOptsDTO mirrors domain.WalkOptions for glob-based file output collection.
type WalkOptsDTO struct {
	Hidden        bool   `yaml:"hidden"`
	FollowLinks   bool   `yaml:"followLinks"`
	MaxDepth      int    `yaml:"maxDepth"`
	Type          string `yaml:"type"`
	IncludeInputs bool   `yaml:"includeInputs"`
}

// DirectivesDTO is the subset of per-process directives the executor and
// error-strategy layers need.
type DirectivesDTO struct {
	CPUs           int    `yaml:"cpus"`
	Memory         string `yaml:"memory"`
	Time           string `yaml:"time"`
	Queue          string `yaml:"queue"`
	ClusterOptions string `yaml:"clusterOptions"`
	Container      string `yaml:"container"`
	Executor       string `yaml:"executor"`
	MaxForks       int    `yaml:"maxForks"`
	MaxRetries     int    `yaml:"maxRetries"`
	MaxErrors      int    `yaml:"maxErrors"`
	ErrorStrategy  string `yaml:"errorStrategy"`
	StoreDir       string `yaml:"storeDir"`
	PublishDir     string `yaml:"publishDir"`
	PublishMode    string `yaml:"publishMode"`
	Cache          *bool  `yaml:"cache"`
	HashMode       string `yaml:"hashMode"`
}
