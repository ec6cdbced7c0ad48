package domain

import "math"

// UnknownExitStatus is the sentinel exit status for a TaskRun whose process
// has not yet completed (spec: "sentinel MAX_INT means unknown").
const UnknownExitStatus = math.MaxInt32

// RunType distinguishes a fresh submission from a retry attempt.
type RunType int

const (
	// RunTypeSubmit is an ordinary first attempt.
	RunTypeSubmit RunType = iota
	// RunTypeRetry is a re-submission created by the RETRY error strategy.
	RunTypeRetry
)

// TaskContext is an ordered mapping name -> value captured at resolve time. It
// must be serializable bit-for-bit for cache keying and is either empty (no
// context cached) or carries every free variable and input binding evaluated
// for the run.
type TaskContext struct {
	Keys   []string
	Values map[string]string
}

// NewTaskContext creates an empty, ready-to-populate TaskContext.
func NewTaskContext() *TaskContext {
	return &TaskContext{Values: make(map[string]string)}
}

// Set binds name to value, preserving first-insertion order in Keys.
func (c *TaskContext) Set(name, value string) {
	if _, exists := c.Values[name]; !exists {
		c.Keys = append(c.Keys, name)
	}
	c.Values[name] = value
}

// Get returns the value bound to name and whether it was present.
func (c *TaskContext) Get(name string) (string, bool) {
	v, ok := c.Values[name]
	return v, ok
}

// TaskRun is one attempt at invoking a process's body over one binding of
// input values. Allocated on receipt of an input binding; mutated only by its
// owning processor up to submission, then only by the executor/monitor.
type TaskRun struct {
	ID          int64
	Index       int64 // per-processor monotonic
	ProcessorID int64
	ProcessName string
	Hash        Fingerprint
	BaseHash    Fingerprint // the un-rehashed fingerprint, kept so a retry's tries=1 rehash starts from the true base
	WorkDir     string
	Inputs      *TaskContext
	Outputs     map[string]any
	Config      Directives
	Context     *TaskContext
	ExitStatus  int
	FailCount   int
	ErrorCount  int
	Cached      bool
	Failed      bool
	Skipped     bool
	RunType     RunType
}

// Name renders the TaskRun's display name as "process (index)".
func (t *TaskRun) Name() string {
	return t.ProcessName + " (" + itoa(int(t.Index)) + ")"
}

// NewTaskRun allocates a TaskRun for the given binding, leaving Hash/WorkDir
// for the caller to fill in once the fingerprint is computed.
func NewTaskRun(id, index, processorID int64, processName string, runType RunType) *TaskRun {
	return &TaskRun{
		ID:          id,
		Index:       index,
		ProcessorID: processorID,
		ProcessName: processName,
		Inputs:      NewTaskContext(),
		Outputs:     make(map[string]any),
		ExitStatus:  UnknownExitStatus,
		RunType:     runType,
	}
}
