package processor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/shihabhasan/nextflow/internal/adapters/stage"
	"github.com/shihabhasan/nextflow/internal/core/domain"
	"github.com/shihabhasan/nextflow/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// workDirLock is the process-wide lock of §5 serializing observation and
// creation of a candidate task workDir during collision resolution.
var workDirLock = newDirLock()

// Processor drives one process definition's dataflow operator: it computes
// every binding once (the forwarding operator of §4.2 runs exactly once)
// then dispatches invokeTask for each binding, bounded by maxForks.
type Processor struct {
	Proc     *domain.Process
	Session  *domain.Session
	State    *domain.ProcessorState
	Cache    ports.Cache
	Hasher   ports.Hasher
	Resolver ports.InputResolver
	Collector ports.OutputCollector
	Executor ports.Executor
	Tracer   ports.Tracer
	Logger   ports.Logger

	PollInterval time.Duration

	// quiescing and quiesceErr implement the FINISH error strategy of §7:
	// once set, Run stops launching new bindings but lets in-flight ones
	// drain, then surfaces quiesceErr as its own return value.
	quiescing  atomic.Bool
	quiesceErr atomic.Value
}

// New creates a Processor for proc, registering it with session.
func New(session *domain.Session, proc *domain.Process, cache ports.Cache, hasher ports.Hasher,
	resolver ports.InputResolver, collector ports.OutputCollector, executor ports.Executor,
	tracer ports.Tracer, logger ports.Logger) *Processor {
	return &Processor{
		Proc:      proc,
		Session:   session,
		State:     session.RegisterProcessor(proc.Name.String()),
		Cache:     cache,
		Hasher:    hasher,
		Resolver:  resolver,
		Collector: collector,
		Executor:  executor,
		Tracer:    tracer,
		Logger:    logger,
		PollInterval: 5 * time.Second,
	}
}

// Run computes every binding of the processor's inputs and drives
// invokeTask for each, honoring maxForks-bounded concurrency (§4.2). It
// deregisters the processor's session slot once every binding has settled,
// mirroring the poison-pill-then-drain termination of the source operator.
func (p *Processor) Run(ctx context.Context) error {
	defer p.Session.DeregisterProcessor(p.State)

	bindings, err := computeBindings(p.Proc)
	if err != nil {
		return err
	}

	maxForks := p.Proc.Directives.MaxForks
	if maxForks <= 0 {
		maxForks = 1
	}

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(maxForks)
	slots := make(chan struct{}, maxForks)

	for _, b := range bindings {
		slots <- struct{}{} // wait for a free slot before deciding to launch
		if p.quiescing.Load() {
			<-slots
			break // FINISH strategy: stop launching new bindings once a sibling has quiesced
		}
		b := b
		p.State.Submitted.Add(1)
		group.Go(func() error {
			defer func() { <-slots }()
			defer p.State.Completed.Add(1)
			if err := p.invokeTask(gctx, b); err != nil {
				if p.Session.Fault(err) {
					p.Logger.Error(err)
				}
				return err
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}
	p.State.Poisoned.Store(true)

	if p.quiescing.Load() {
		if err, _ := p.quiesceErr.Load().(error); err != nil {
			p.Session.Fault(err)
			return err
		}
	}
	return nil
}

// invokeTask realizes §4.2's invokeTask: allocate, bind value/each inputs
// (context stage 1), evaluate the guard, stage file inputs (context stage 2),
// try the storeDir short-circuit, fingerprint, then run the cache
// probe/submit loop. The guard runs before file inputs are staged, so file
// input names are not bound in the context it sees.
func (p *Processor) invokeTask(ctx context.Context, b Binding) error {
	run := domain.NewTaskRun(p.Session.NextTaskID(), int64(b.Index), p.State.ID, p.Proc.Name.String(), domain.RunTypeSubmit)
	run.Config = p.Proc.Directives
	run.Config.Attempt = 1

	// Context stage 1: value/each inputs bind directly by name.
	for _, in := range p.Proc.Inputs {
		if in.Kind == domain.InputKindFile {
			continue
		}
		run.Context = ensureContext(run.Context)
		run.Context.Set(in.Name.String(), b.Values[in.Name.String()])
	}

	if p.Proc.When != "" {
		ok, err := evalGuard(p.Proc.When, run.Context)
		if err != nil {
			run.Failed = true
			return nil //nolint:nilerr // guard failure is terminal for the task, not the processor (§7 kind 6)
		}
		if !ok {
			run.Skipped = true
			return nil
		}
	}

	// Context stage 2: normalize and stage file inputs, expand wildcard names.
	stagingRoot := filepath.Join(p.Session.WorkDir, ".staging", strconv.FormatInt(run.ID, 10))
	if err := os.MkdirAll(stagingRoot, domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create staging directory")
	}

	fileBag := map[string][]string{}
	for _, in := range p.Proc.Inputs {
		if in.Kind != domain.InputKindFile {
			continue
		}
		staged, err := p.Resolver.NormalizeAndStage(b.Files[in.Name.String()], stagingRoot)
		if err != nil {
			return zerr.With(err, "input", in.Name.String())
		}
		names, err := p.Resolver.ExpandNames(in.Pattern, staged)
		if err != nil {
			return zerr.With(err, "input", in.Name.String())
		}
		run.Context = ensureContext(run.Context)
		run.Context.Set(in.Name.String(), strings.Join(names, ","))
		fileBag[in.Name.String()] = staged
	}

	// storeDir short-circuit (§4.2 step 5 / §4.4).
	if p.Proc.StoreDir != "" {
		if hit, err := p.tryStoreDir(run); err != nil {
			return err
		} else if hit {
			return nil
		}
	}

	// §4.5(5): free variables are names the body references that are NOT
	// declared inputs/outputs. run.Context holds exactly the declared input
	// bindings (set in the two context stages above), so it contributes
	// nothing here — only workDir/baseDir are genuinely free.
	freeVars := map[string]string{
		"workDir": p.Session.WorkDir,
		"baseDir": p.Session.BaseDir,
	}

	hash, err := p.Hasher.Fingerprint(ports.Binding{
		ProcessName: p.Proc.Name.String(),
		Source:      p.Proc.Source,
		SessionID:   p.Session.SessionID.String(),
		Values:      b.Values,
		Files:       fileBag,
		FreeVars:    freeVars,
		Mode:        p.Proc.HashMode,
	})
	if err != nil {
		return zerr.Wrap(err, "failed to compute task fingerprint")
	}
	run.Hash = hash
	run.BaseHash = hash

	return p.checkCachedOrLaunch(ctx, run, fileBag, 0)
}

func ensureContext(c *domain.TaskContext) *domain.TaskContext {
	if c == nil {
		return domain.NewTaskContext()
	}
	return c
}

// tryStoreDir implements the storeDir short-circuit of §4.2 step 5: if the
// declared outputs are already present under StoreDir, the task is marked
// cached without ever computing a fingerprint.
func (p *Processor) tryStoreDir(run *domain.TaskRun) (bool, error) {
	for _, out := range p.Proc.Outputs {
		if out.Source != domain.OutputSourceFile {
			continue
		}
		if _, err := p.Collector.CollectFile(p.Proc.StoreDir, out.Spec, out.Walk, nil); err != nil {
			return false, nil //nolint:nilerr // not all outputs present, fall through to the normal path
		}
	}
	run.Cached = true
	run.WorkDir = p.Proc.StoreDir
	return true, nil
}

// checkCachedOrLaunch is the cache probe & submit loop of §4.6: rehash on
// workDir collision, resume on a verified cache hit, otherwise submit fresh.
// startTries lets a RETRY resubmission enter the loop already at tries=1, per
// §7's "rehashes (tries=1) for cache/workDir".
func (p *Processor) checkCachedOrLaunch(ctx context.Context, run *domain.TaskRun, fileBag map[string][]string, startTries int) error {
	shouldTryCache := p.Proc.Cache

	hash := run.BaseHash
	for tries := startTries; ; tries++ {
		if tries > 0 {
			hash = domain.Rehash(run.BaseHash, tries)
		}
		folder := domain.TaskWorkDir(p.Session.WorkDir, hash.String())

		exists, created := workDirLock.ensure(folder)
		if created {
			if err := os.MkdirAll(folder, domain.DirPerm); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to create task workDir"), "path", folder)
			}
		}

		if shouldTryCache && exists {
			if hit, err := p.checkCachedOutput(run, folder, hash); err != nil {
				return err
			} else if hit {
				run.Cached = true
				run.WorkDir = folder
				if err := p.Cache.IncEntry(hash); err != nil {
					return err
				}
				return p.Cache.WriteIndex(hash, true)
			}
		}

		if exists {
			continue // collision with a different task's fingerprint at this shard: rehash and retry
		}

		run.WorkDir = folder
		run.Hash = hash
		if err := p.stageFinal(run, fileBag); err != nil {
			return err
		}
		return p.submitAndAwait(ctx, run, fileBag)
	}
}

// checkCachedOutput implements §4.6's checkCachedOutput predicate: a cache
// entry must exist and its outputs must still be collectible.
func (p *Processor) checkCachedOutput(run *domain.TaskRun, folder string, hash domain.Fingerprint) (bool, error) {
	entry, err := p.Cache.GetEntry(hash)
	if err != nil {
		return false, err
	}
	if entry == nil {
		return false, nil
	}
	if entry.Trace.Exit != 0 {
		return false, nil
	}
	for _, out := range p.Proc.Outputs {
		if out.Source != domain.OutputSourceFile {
			continue
		}
		if _, err := p.Collector.CollectFile(folder, out.Spec, out.Walk, nil); err != nil {
			return false, nil //nolint:nilerr // stale entry, outputs no longer present
		}
	}
	run.Outputs = contextToOutputs(entry.Context)
	return true, nil
}

// stageFinal copies each staged file input into the task's final workDir,
// the point at which the ephemeral staging area created for fingerprinting
// becomes the durable task directory of §6.
func (p *Processor) stageFinal(run *domain.TaskRun, fileBag map[string][]string) error {
	for _, files := range fileBag {
		if _, err := p.Resolver.NormalizeAndStage(files, run.WorkDir); err != nil {
			return err
		}
	}
	return writeCommandScript(run, p.Proc.Source)
}

func writeCommandScript(run *domain.TaskRun, source string) error {
	path := filepath.Join(run.WorkDir, domain.CommandScriptFile)
	return os.WriteFile(path, []byte(source), domain.FilePerm)
}

// submitAndAwait dispatches run to the executor and polls until it settles,
// then applies §4.4's output collection and §7's error classification.
func (p *Processor) submitAndAwait(ctx context.Context, run *domain.TaskRun, fileBag map[string][]string) error {
	spanCtx, span := p.startSpan(ctx, run)
	defer span.End()

	handle, err := p.Executor.Submit(spanCtx, run)
	if err != nil {
		return p.finalizeFault(ctx, run, fileBag, domain.ErrorKindAbort, err)
	}

	ticker := time.NewTicker(p.pollInterval())
	defer ticker.Stop()

	for {
		select {
		case <-spanCtx.Done():
			_ = p.Executor.Kill(context.Background(), handle)
			return p.finalizeFault(ctx, run, fileBag, domain.ErrorKindAbort, spanCtx.Err())
		case <-ticker.C:
			status, err := p.Executor.Poll(spanCtx, handle)
			if err != nil {
				return p.finalizeFault(ctx, run, fileBag, domain.ErrorKindAbort, err)
			}
			switch status {
			case ports.StatusDone:
				return p.finalizeSuccess(ctx, run, fileBag)
			case ports.StatusError:
				return p.finalizeFault(ctx, run, fileBag, domain.ErrorKindProcessFailed, domain.ErrProcessFailed)
			}
		}
	}
}

func (p *Processor) pollInterval() time.Duration {
	if p.PollInterval <= 0 {
		return 5 * time.Second
	}
	return p.PollInterval
}

func (p *Processor) startSpan(ctx context.Context, run *domain.TaskRun) (context.Context, ports.Span) {
	if p.Tracer == nil {
		return ctx, noopSpan{}
	}
	return p.Tracer.Start(ctx, run.Name())
}

// finalizeSuccess reads the exit code, collects declared outputs, and
// records the task into the cache and its run index.
func (p *Processor) finalizeSuccess(ctx context.Context, run *domain.TaskRun, fileBag map[string][]string) error {
	exitCode, err := readExitCode(run.WorkDir)
	if err != nil {
		return p.finalizeFault(ctx, run, fileBag, domain.ErrorKindAbort, err)
	}
	run.ExitStatus = exitCode
	if exitCode != 0 {
		return p.finalizeFault(ctx, run, fileBag, domain.ErrorKindProcessFailed, domain.ErrProcessFailed)
	}

	outputs, err := p.collectOutputs(run)
	if err != nil {
		return p.finalizeFault(ctx, run, fileBag, domain.ErrorKindMissingOutput, err)
	}
	run.Outputs = outputs

	if err := p.publishOutputs(run, outputs); err != nil {
		return p.finalizeFault(ctx, run, fileBag, domain.ErrorKindMissingOutput, err)
	}

	trace := domain.TraceRecord{
		TaskID:   run.ID,
		Process:  run.ProcessName,
		Exit:     run.ExitStatus,
		Complete: time.Now(),
		Folder:   run.WorkDir,
	}
	if err := p.Cache.PutEntry(run.Hash, trace, run.Context); err != nil {
		return err
	}
	return p.Cache.WriteIndex(run.Hash, false)
}

func (p *Processor) collectOutputs(run *domain.TaskRun) (map[string]any, error) {
	outputs := make(map[string]any, len(p.Proc.Outputs))
	for _, out := range p.Proc.Outputs {
		var value any
		var err error
		switch out.Source {
		case domain.OutputSourceStdout:
			value, err = p.Collector.CollectStdout(run.WorkDir)
		case domain.OutputSourceFile:
			value, err = p.Collector.CollectFile(run.WorkDir, out.Spec, out.Walk, nil)
		case domain.OutputSourceValue:
			value, err = p.Collector.CollectValue(run.Context, out.Spec)
		}
		if err != nil {
			return nil, zerr.With(err, "output", out.Name.String())
		}
		outputs[out.Name.String()] = value
	}
	return outputs, nil
}

// publishOutputs copies each collected file output into the process's
// publishDir, per spec.md §6's copy/move/rsync strategies (adapters/stage).
// A no-op when the process declares no publishDir.
func (p *Processor) publishOutputs(run *domain.TaskRun, outputs map[string]any) error {
	dir := p.Proc.Directives.PublishDir
	if dir == "" {
		return nil
	}

	var files []stage.File
	for _, out := range p.Proc.Outputs {
		if out.Source != domain.OutputSourceFile {
			continue
		}
		paths, _ := outputs[out.Name.String()].([]string)
		for _, path := range paths {
			files = append(files, stage.File{Source: path, Target: filepath.Join(dir, filepath.Base(path))})
		}
	}
	if len(files) == 0 {
		return nil
	}

	script := "#!/bin/bash\nset -u\n" + stage.RenderUnstage(files, stage.CopyMode(p.Proc.Directives.PublishMode))
	scriptPath := filepath.Join(run.WorkDir, domain.PublishScriptFile)
	if err := os.WriteFile(scriptPath, []byte(script), domain.FilePerm); err != nil {
		return zerr.Wrap(err, "failed to write publish script")
	}

	cmd := exec.Command("/bin/bash", scriptPath) //nolint:gosec // scriptPath is rooted under the task workDir
	cmd.Dir = run.WorkDir
	if out, err := cmd.CombinedOutput(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to publish outputs"), "output", string(out))
	}
	return nil
}

// finalizeFault classifies the error against the process's configured
// strategy (§7) and either retries, quiesces, terminates, or ignores.
func (p *Processor) finalizeFault(ctx context.Context, run *domain.TaskRun, fileBag map[string][]string, kind domain.ErrorKind, cause error) error {
	run.Failed = true
	decision := domain.Classify(kind, p.Proc.ErrorStrategy, run.FailCount, p.Proc.MaxRetries, run.ErrorCount, p.Proc.MaxErrors)

	if decision.Retry {
		run.FailCount++
		run.ErrorCount++
		return p.retry(ctx, run, fileBag)
	}

	p.State.Terminated.Add(1)

	if decision.LogOnly {
		p.Logger.Warn(fmt.Sprintf("task %s failed (ignored): %v", run.Name(), cause))
		return nil
	}
	if decision.Quiesce {
		faultErr := zerr.With(zerr.Wrap(cause, domain.ErrTaskExecutionFailed.Error()), "task", run.Name())
		if p.quiescing.CompareAndSwap(false, true) {
			p.quiesceErr.Store(faultErr)
		}
		p.Logger.Error(fmt.Errorf("task %s failed, finishing in-flight tasks then quiescing: %w", run.Name(), cause))
		return nil // let sibling in-flight bindings drain; Run() surfaces faultErr once they do
	}
	if decision.Terminate {
		return zerr.With(zerr.Wrap(cause, domain.ErrTaskExecutionFailed.Error()), "task", run.Name())
	}
	return nil
}

// retry implements §7's RETRY strategy: a fresh TaskRun with runType=RETRY,
// config.attempt=failCount+1, rehashed at tries=1, re-entering the cache
// probe/submit loop of §4.6.
func (p *Processor) retry(ctx context.Context, run *domain.TaskRun, fileBag map[string][]string) error {
	next := domain.NewTaskRun(p.Session.NextTaskID(), run.Index, run.ProcessorID, run.ProcessName, domain.RunTypeRetry)
	next.Context = run.Context
	next.Config = run.Config
	next.Config.Attempt = run.FailCount + 1
	next.FailCount = run.FailCount
	next.ErrorCount = run.ErrorCount
	next.BaseHash = run.BaseHash

	return p.checkCachedOrLaunch(ctx, next, fileBag, 1)
}

func readExitCode(workDir string) (int, error) {
	data, err := os.ReadFile(filepath.Join(workDir, domain.ExitCodeFile)) //nolint:gosec // path is the task's own workDir
	if err != nil {
		return domain.UnknownExitStatus, zerr.Wrap(err, "failed to read exit code")
	}
	code, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return domain.UnknownExitStatus, zerr.Wrap(err, "malformed exit code file")
	}
	return code, nil
}

func contextToOutputs(ctx *domain.TaskContext) map[string]any {
	if ctx == nil {
		return nil
	}
	out := make(map[string]any, len(ctx.Keys))
	for _, k := range ctx.Keys {
		out[k] = ctx.Values[k]
	}
	return out
}

type noopSpan struct{}

func (noopSpan) Write(p []byte) (int, error)   { return len(p), nil }
func (noopSpan) End()                          {}
func (noopSpan) RecordError(error)             {}
func (noopSpan) SetAttribute(string, any)      {}
