package domain

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Session is the process-wide singleton for one run: its identity, workDir,
// and the monotonic counters every TaskProcessor and TaskRun derive their ids
// from. sessionId is stable across resume attempts of the same logical run.
type Session struct {
	SessionID  uuid.UUID
	RunName    string
	WorkDir    string
	BaseDir    string
	ResumeMode bool
	Cacheable  bool

	aborted     atomic.Bool
	firstFault  atomic.Value // error
	nextTaskID  atomic.Int64
	nextProcID  atomic.Int64

	mu         sync.Mutex
	processors map[int64]*ProcessorState
	wg         sync.WaitGroup
}

// ProcessorState tracks one TaskProcessor's lifecycle counts, mirroring the
// (submitted, completed, terminated) invariant of §3: completed <= submitted,
// and the processor is terminal only once it has seen poison AND completed == submitted.
type ProcessorState struct {
	ID         int64
	Name       string
	Submitted  atomic.Int64
	Completed  atomic.Int64
	Terminated atomic.Int64 // count of bindings that finished via finalizeFault, not finalizeSuccess
	Poisoned   atomic.Bool
}

// Terminal reports whether the processor has reached its terminal state.
func (p *ProcessorState) Terminal() bool {
	return p.Poisoned.Load() && p.Completed.Load() == p.Submitted.Load()
}

// NewSession allocates a fresh Session. runName is generated by the caller
// (see the run-name generator) when the user does not supply one.
func NewSession(baseDir, workDir, runName string, resumeMode bool) *Session {
	return &Session{
		SessionID:  uuid.New(),
		RunName:    runName,
		WorkDir:    workDir,
		BaseDir:    baseDir,
		ResumeMode: resumeMode,
		Cacheable:  true,
		processors: make(map[int64]*ProcessorState),
	}
}

// NewResumedSession allocates a Session reusing a prior run's sessionID, per
// the invariant that sessionId is stable across resume attempts of the same
// logical run (the caller looks the prior id up by runName in the HistoryFile).
func NewResumedSession(baseDir, workDir, runName string, sessionID uuid.UUID) *Session {
	s := NewSession(baseDir, workDir, runName, true)
	s.SessionID = sessionID
	return s
}

// RegisterProcessor allocates a new monotonic processor id and state entry.
func (s *Session) RegisterProcessor(name string) *ProcessorState {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextProcID.Add(1)
	ps := &ProcessorState{ID: id, Name: name}
	s.processors[id] = ps
	s.wg.Add(1)
	return ps
}

// DeregisterProcessor marks a processor as finished for Await's bookkeeping.
func (s *Session) DeregisterProcessor(_ *ProcessorState) {
	s.wg.Done()
}

// NextTaskID returns the next global monotonic TaskRun id.
func (s *Session) NextTaskID() int64 {
	return s.nextTaskID.Add(1)
}

// Abort sets the aborted flag, records the first fault, and returns whether
// this call was the one that transitioned the session (so the caller only
// propagates poison once).
func (s *Session) Abort(err error) bool {
	if !s.aborted.CompareAndSwap(false, true) {
		return false
	}
	s.firstFault.Store(err)
	return true
}

// Aborted reports whether the session has been aborted.
func (s *Session) Aborted() bool {
	return s.aborted.Load()
}

// Fault records the first fault and initiates abort; equivalent to Abort but
// named per §4.1's fault(taskFault) operation.
func (s *Session) Fault(err error) bool {
	return s.Abort(err)
}

// FirstFault returns the first recorded fault, or nil.
func (s *Session) FirstFault() error {
	v := s.firstFault.Load()
	if v == nil {
		return nil
	}
	return v.(error) //nolint:errcheck // only errors are ever stored
}

// DefaultAbortGrace is the bounded grace period Await waits for quiescence
// after Abort, per §4.1.
const DefaultAbortGrace = 30 * time.Second

// Await blocks until every registered processor has deregistered, or the
// grace period elapses after an abort.
func (s *Session) Await() {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	if !s.Aborted() {
		<-done
		return
	}

	select {
	case <-done:
	case <-time.After(DefaultAbortGrace):
	}
}
