// Package session implements the Session orchestration operations of §4.1:
// opening the run's Cache and HistoryFile, wiring one processor.Processor per
// declared process, and driving them concurrently to completion.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shihabhasan/nextflow/internal/adapters/cache"
	"github.com/shihabhasan/nextflow/internal/adapters/history"
	"github.com/shihabhasan/nextflow/internal/core/domain"
	"github.com/shihabhasan/nextflow/internal/core/ports"
	"github.com/shihabhasan/nextflow/internal/engine/processor"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// ExecutorResolver returns the ports.Executor for a process's declared
// directives (executor kind "local", "slurm", "sge", "lsf", "pbs",
// "kubernetes", plus whatever else the kind needs, e.g. Kubernetes' container image).
type ExecutorResolver func(directives domain.Directives) (ports.Executor, error)

// Options carries the collaborators every wired processor.Processor shares.
type Options struct {
	Hasher         ports.Hasher
	Resolver       ports.InputResolver
	Collector      ports.OutputCollector
	Logger         ports.Logger
	Tracer         ports.Tracer
	CacheFactory   cache.Factory
	HistoryFactory history.Factory
	Executors      ExecutorResolver
	// PollInterval overrides each processor's executor poll interval; zero
	// keeps the processor package's own default.
	PollInterval time.Duration
}

// Session drives one run of a loaded Pipeline: it owns the domain state
// machine plus the per-run Cache and HistoryFile. The Cache is opened when
// the Session is created (New or Resume); Start appends this run's entry to
// the HistoryFile.
type Session struct {
	Domain  *domain.Session
	Cache   ports.Cache
	History ports.History

	opts Options
}

// New allocates a fresh Session and opens its Cache and HistoryFile.
func New(baseDir, workDir, runName string, opts Options) (*Session, error) {
	dom := domain.NewSession(baseDir, workDir, runName, false)
	return open(dom, opts)
}

// Resume allocates a Session for the run resolved from token ("last", a
// session id prefix, or a run name), reusing its prior sessionID looked up in
// the HistoryFile, satisfying the invariant that sessionId is stable across
// resume attempts of the same logical run.
func Resume(baseDir, workDir, token string, opts Options) (*Session, error) {
	hist := opts.HistoryFactory(baseDir)
	entry, err := hist.FindBy(token)
	if err != nil {
		return nil, err
	}
	sessionID, err := uuid.Parse(entry.SessionID)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to parse prior session id")
	}

	dom := domain.NewResumedSession(baseDir, workDir, entry.RunName, sessionID)
	return open(dom, opts)
}

func open(dom *domain.Session, opts Options) (*Session, error) {
	store := opts.CacheFactory(dom.BaseDir, dom.SessionID.String(), dom.RunName)
	if err := store.Open(); err != nil {
		return nil, err
	}

	return &Session{
		Domain:  dom,
		Cache:   store,
		History: opts.HistoryFactory(dom.BaseDir),
		opts:    opts,
	}, nil
}

// Start records the invocation in the history file, per §4.1's
// start(commandLine, runName) operation.
func (s *Session) Start(commandLine string) error {
	return s.History.Append(s.Domain.SessionID.String(), s.Domain.RunName, commandLine)
}

// Run wires one processor.Processor per pipeline process and drives them
// concurrently, blocking until every processor reaches its terminal state or
// the session aborts. The first task fault to occur cancels every other
// processor's context, matching the "abort propagates as poison" behavior of
// §4.1/§5.
func (s *Session) Run(ctx context.Context, pipeline *domain.Pipeline) error {
	if s.opts.Tracer != nil {
		names := make([]string, len(pipeline.Processes))
		for i, p := range pipeline.Processes {
			names[i] = p.Name.String()
		}
		s.opts.Tracer.EmitPlan(ctx, names)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, proc := range pipeline.Processes {
		proc := proc
		exec, err := s.opts.Executors(proc.Directives)
		if err != nil {
			return zerr.With(err, "process", proc.Name.String())
		}

		p := processor.New(s.Domain, proc, s.Cache, s.opts.Hasher, s.opts.Resolver,
			s.opts.Collector, exec, s.opts.Tracer, s.opts.Logger)
		if s.opts.PollInterval > 0 {
			p.PollInterval = s.opts.PollInterval
		}
		g.Go(func() error {
			return p.Run(gctx)
		})
	}

	err := g.Wait()
	s.Domain.Await()
	if err != nil {
		return err
	}
	return s.Domain.FirstFault()
}

// Abort records err as the session's first fault and marks the session
// aborted; it does not cancel any processor's context.
func (s *Session) Abort(err error) bool {
	return s.Domain.Abort(err)
}
