package domain

// InputKind distinguishes the three input parameter flavors a process declares.
type InputKind int

const (
	// InputKindValue binds a scalar value by name into the task context.
	InputKindValue InputKind = iota
	// InputKindFile normalizes and stages one or more files (see §4.3 of the normalization table).
	InputKindFile
	// InputKindEach marks an iterable-expanding input; the Cartesian product over
	// all each-positions is computed once by the processor's forwarding operator.
	InputKindEach
)

// InputParam is one formal parameter of a process's input block.
type InputParam struct {
	Name    InternedString
	Kind    InputKind
	Pattern string // file-name pattern with optional * / ? wildcards; only meaningful for InputKindFile
	// Values is the literal channel content bound to this parameter: one
	// entry per binding for InputKindValue/InputKindEach, or a comma-joined
	// bag of file values per binding for InputKindFile. The pipeline DSL
	// that would normally synthesize a channel's contents from upstream
	// process outputs is out of scope (spec.md §1 Non-goals); Values is the
	// narrow structured-definition substitute reserved by §6.
	Values []string
}

// OutputMode selects how a collected output value is bound onto its output channel.
type OutputMode int

const (
	// OutputModeStandard binds one value (or one list) to the channel.
	OutputModeStandard OutputMode = iota
	// OutputModeFlatten recursively flattens the value tree and binds each leaf.
	OutputModeFlatten
	// OutputModeCombine computes the Cartesian product over the declared tuple.
	OutputModeCombine
)

// OutputSourceKind distinguishes the three ways an output value can be produced.
type OutputSourceKind int

const (
	// OutputSourceStdout reads the task's captured stdout file.
	OutputSourceStdout OutputSourceKind = iota
	// OutputSourceFile resolves a glob or literal path against the task workDir.
	OutputSourceFile
	// OutputSourceValue evaluates an expression against the task context.
	OutputSourceValue
)

// WalkOptions controls glob-based output collection per §4.4.
type WalkOptions struct {
	Hidden        bool
	FollowLinks   bool
	MaxDepth      int // 0 means unlimited
	Type          string // "file", "dir", or "any"
	IncludeInputs bool
}

// OutputParam is one formal parameter of a process's output block.
type OutputParam struct {
	Name   InternedString
	Source OutputSourceKind
	Spec   string // glob pattern, literal path, or value expression, depending on Source
	Mode   OutputMode
	Walk   WalkOptions
}

// Directives captures the subset of per-process directives the executor family
// needs to render scheduler headers or apply local resource limits.
type Directives struct {
	CPUs            int
	Memory          string // e.g. "200M", "4GB"; executor-specific parsing
	Time            string // e.g. "2h", "30m"
	Queue           string
	ClusterOptions  string
	Container       string
	Executor        string // "local", "slurm", "sge", "lsf", "pbs", "kubernetes"
	MaxForks        int    // 0 or less runs one binding at a time
	MaxRetries      int
	MaxErrors       int // -1 means unbounded
	ErrorStrategy   ErrorStrategy
	StoreDir        string
	PublishDir      string
	PublishMode     string // "copy" (default), "move", or "rsync"; see adapters/stage
	Cache           bool
	HashMode        HashMode
	Attempt         int // 1-based attempt number; bumped to failCount+1 on each RETRY resubmission
}

// Process is one user-defined unit of the pipeline: a named operator consuming
// typed input channels and producing typed output channels, driven by a body
// of either a shell script or a value-computing expression.
type Process struct {
	Name    InternedString
	Inputs  []InputParam
	Outputs []OutputParam
	When    string // guard expression source; empty means always-true
	Source  string // raw body text, fed verbatim into the fingerprint
	IsValue bool   // true for value-block (non-script) processes
	Directives
}

// Pipeline is the top-level collection of processes, as loaded from a
// pipeline definition file. It declares no channel wiring between processes;
// each process's inputs carry their own literal Values.
type Pipeline struct {
	Name      string
	BaseDir   string
	Processes []*Process
}

// FindProcess returns the process with the given name, or nil.
func (p *Pipeline) FindProcess(name string) *Process {
	for _, proc := range p.Processes {
		if proc.Name.String() == name {
			return proc
		}
	}
	return nil
}
