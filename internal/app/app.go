// Package app implements the top-level nextflow operations (run, log,
// clean, history) described in spec.md §4.1/§4.10 on top of the engine and
// adapter layers.
package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/shihabhasan/nextflow/internal/adapters/cache"
	"github.com/shihabhasan/nextflow/internal/adapters/history"
	"github.com/shihabhasan/nextflow/internal/adapters/namegen"
	"github.com/shihabhasan/nextflow/internal/core/domain"
	"github.com/shihabhasan/nextflow/internal/core/ports"
	"github.com/shihabhasan/nextflow/internal/engine/session"
	"go.trai.ch/zerr"
)

// App wires the engine and adapters into the operations exposed by the CLI.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	hasher       ports.Hasher
	resolver     ports.InputResolver
	collector    ports.OutputCollector
	renderer     ports.Renderer
	tracer       ports.Tracer

	cacheFactory   cache.Factory
	historyFactory history.Factory
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	logger ports.Logger,
	hasher ports.Hasher,
	resolver ports.InputResolver,
	collector ports.OutputCollector,
	renderer ports.Renderer,
	tracer ports.Tracer,
) *App {
	return &App{
		configLoader:   loader,
		logger:         logger,
		hasher:         hasher,
		resolver:       resolver,
		collector:      collector,
		renderer:       renderer,
		tracer:         tracer,
		cacheFactory:   cache.NewStore,
		historyFactory: history.NewFile,
	}
}

// RunOptions configures the Run operation.
type RunOptions struct {
	// Name is the run name; a fresh adjective_surname name is minted when empty.
	Name string
	// Resume reopens the named run's prior session, reusing its cache namespace.
	Resume bool
	// WorkDir overrides the default <baseDir>/work task workDir root.
	WorkDir string
	// CommandLine is recorded verbatim into the HistoryFile.
	CommandLine string
}

// Run loads the pipeline definition reachable from cwd and drives every
// declared process to completion, per §4.1's start/registerProcessor/await
// lifecycle.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	pipeline, err := a.configLoader.Load(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load pipeline definition")
	}

	workDir := opts.WorkDir
	if workDir == "" {
		workDir = filepath.Join(pipeline.BaseDir, "work")
	}

	sessOpts := session.Options{
		Hasher:         a.hasher,
		Resolver:       a.resolver,
		Collector:      a.collector,
		Logger:         a.logger,
		Tracer:         a.tracer,
		CacheFactory:   a.cacheFactory,
		HistoryFactory: a.historyFactory,
		Executors:      NewExecutorResolver(a.logger),
	}

	var sess *session.Session
	if opts.Resume {
		token := opts.Name
		if token == "" {
			token = "last"
		}
		sess, err = session.Resume(pipeline.BaseDir, workDir, token, sessOpts)
	} else {
		runName := opts.Name
		if runName == "" {
			runName = namegen.Generate()
		}
		sess, err = session.New(pipeline.BaseDir, workDir, runName, sessOpts)
	}
	if err != nil {
		return zerr.Wrap(err, "failed to open session")
	}

	if err := sess.Start(opts.CommandLine); err != nil {
		return zerr.Wrap(err, "failed to record history entry")
	}

	if a.renderer != nil {
		if err := a.renderer.Start(ctx); err != nil {
			return zerr.Wrap(err, "failed to start renderer")
		}
		defer func() {
			_ = a.renderer.Stop()
			_ = a.renderer.Wait()
		}()
	}

	if err := sess.Run(ctx, pipeline); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrBuildExecutionFailed.Error()), "run", sess.Domain.RunName)
	}
	return nil
}

// History returns every recorded run, oldest first, for the bare `history` command.
func (a *App) History(baseDir string) ([]domain.HistoryEntry, error) {
	return a.historyFactory(baseDir).All()
}

// BaseDir discovers the pipeline root reachable from cwd, so the log/clean/
// history commands can resolve the HistoryFile/Cache location without
// loading the whole pipeline definition.
func (a *App) BaseDir(cwd string) (string, error) {
	return a.configLoader.DiscoverRoot(cwd)
}

// LogOptions configures the Log operation of §4.10.
type LogOptions struct {
	Token    string // "last", a session id prefix, a run name, or empty for "last"
	Fields   []string
	Template string
	Filter   string
	PathOnly bool // -l: print only the task workDir path per record
	Before   string
	After    string
	But      string
}

// Log resolves the selected history entries, opens each entry's cache for
// read, and prints one line per cache record, per §4.10.
func (a *App) Log(baseDir string, opts LogOptions, out io.Writer) error {
	entries, err := a.selectHistoryEntries(baseDir, opts.Token, opts.Before, opts.After, opts.But)
	if err != nil {
		return err
	}

	filterFn, err := compileFilter(opts.Filter)
	if err != nil {
		return err
	}

	tmpl, err := compileTemplate(opts.Fields, opts.Template)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		store := a.cacheFactory(baseDir, entry.SessionID, entry.RunName)
		if err := store.OpenForRead(); err != nil {
			continue // no cache for this run (e.g. it never launched a task)
		}

		walkErr := store.EachRecord(func(hash domain.Fingerprint, trace domain.TraceRecord, refCount int32) error {
			fields := traceFields(hash, trace, refCount)
			if !filterFn(fields, trace.Folder) {
				return nil
			}
			if opts.PathOnly {
				_, _ = fmt.Fprintln(out, trace.Folder)
				return nil
			}
			return tmpl.Execute(out, fields)
		})
		if walkErr != nil {
			return walkErr
		}
	}
	return nil
}

// CleanOptions configures the Clean operation of §4.10.
type CleanOptions struct {
	Token  string
	DryRun bool
	Force  bool
	Quiet  bool
	Before string
	After  string
	But    string
}

// Clean deletes (or, in dry-run mode, reports) the workDirs and cache
// entries of the selected history entries, per §4.10.
func (a *App) Clean(baseDir string, opts CleanOptions, out io.Writer) error {
	if !opts.DryRun && !opts.Force {
		return domain.ErrCleanRefused
	}

	entries, err := a.selectHistoryEntries(baseDir, opts.Token, opts.Before, opts.After, opts.But)
	if err != nil {
		return err
	}

	allEntries, err := a.historyFactory(baseDir).All()
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if err := a.cleanEntry(baseDir, entry, allEntries, opts, out); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) cleanEntry(baseDir string, entry domain.HistoryEntry, allEntries []domain.HistoryEntry, opts CleanOptions, out io.Writer) error {
	store := a.cacheFactory(baseDir, entry.SessionID, entry.RunName)
	if err := store.OpenForRead(); err != nil {
		return a.forgetHistoryEntry(baseDir, entry, opts, out)
	}

	walkErr := store.EachRecord(func(hash domain.Fingerprint, trace domain.TraceRecord, refCount int32) error {
		if opts.DryRun {
			if !opts.Quiet {
				_, _ = fmt.Fprintf(out, "Would remove %s (refCount %d -> %d)\n", trace.Folder, refCount, refCount-1)
			}
			return nil
		}
		if !opts.Quiet {
			_, _ = fmt.Fprintf(out, "Removing %s\n", trace.Folder)
		}
		if err := os.RemoveAll(trace.Folder); err != nil {
			return zerr.Wrap(err, "failed to remove task workDir")
		}
		return store.DecEntry(hash)
	})
	if walkErr != nil {
		return walkErr
	}
	if opts.DryRun {
		return nil
	}

	if err := store.DropIndex(); err != nil {
		return err
	}

	shared := false
	for _, other := range allEntries {
		if other.SessionID == entry.SessionID && other.RunName != entry.RunName {
			shared = true
			break
		}
	}
	if !shared {
		if err := store.Drop(); err != nil {
			return err
		}
	}

	return a.forgetHistoryEntry(baseDir, entry, opts, out)
}

func (a *App) forgetHistoryEntry(baseDir string, entry domain.HistoryEntry, opts CleanOptions, out io.Writer) error {
	if opts.DryRun {
		return nil
	}
	if !opts.Quiet {
		_, _ = fmt.Fprintf(out, "Removing history entry for %s\n", entry.RunName)
	}
	return a.historyFactory(baseDir).DeleteEntry(entry)
}

func (a *App) selectHistoryEntries(baseDir, token, before, after, but string) ([]domain.HistoryEntry, error) {
	hist := a.historyFactory(baseDir)
	switch {
	case before != "":
		return hist.FindBefore(before)
	case after != "":
		return hist.FindAfter(after)
	case but != "":
		return hist.FindBut(but)
	default:
		entry, err := hist.FindBy(token)
		if err != nil {
			return nil, err
		}
		return []domain.HistoryEntry{*entry}, nil
	}
}

func traceFields(hash domain.Fingerprint, trace domain.TraceRecord, refCount int32) map[string]string {
	return map[string]string{
		"hash":     hash.String(),
		"taskId":   strconv.FormatInt(trace.TaskID, 10),
		"process":  trace.Process,
		"exit":     strconv.Itoa(trace.Exit),
		"folder":   trace.Folder,
		"refCount": strconv.Itoa(int(refCount)),
		"complete": trace.Complete.Format("2006-01-02 15:04:05"),
		"realtime": trace.Realtime.String(),
	}
}

func compileTemplate(fields []string, tpl string) (*template.Template, error) {
	if tpl != "" {
		return template.New("log").Parse(tpl + "\n")
	}
	if len(fields) == 0 {
		fields = []string{"taskId", "hash", "process", "exit", "folder"}
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = "{{." + f + "}}"
	}
	return template.New("log").Parse(strings.Join(parts, "\t") + "\n")
}

// logFilterMaxLines is the default number of lines the -filter special keys
// stdout/stderr/log/env read from a task's workDir, per spec.md §4.10.
const logFilterMaxLines = 100

// logFilterFiles maps -filter's lazy special keys to the workDir file each
// one reads from (§6's per-task working directory layout).
var logFilterFiles = map[string]string{
	"stdout": domain.CommandOutFile,
	"stderr": domain.CommandErrFile,
	"log":    domain.CommandLogFile,
	"env":    domain.CommandEnvFile,
}

// compileFilter parses the single "name==literal" / "name!=literal" form of
// -filter used by log (the pipeline DSL's full expression grammar is out of
// scope, per spec.md §1 Non-goals). An empty filter always matches. name may
// be a trace field or one of the lazy special keys stdout/stderr/log/env,
// which are only read from the task's workDir when the filter references
// them, per spec.md §4.10.
func compileFilter(expr string) (func(fields map[string]string, folder string) bool, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return func(map[string]string, string) bool { return true }, nil
	}
	for _, op := range []string{"!=", "=="} {
		if idx := strings.Index(expr, op); idx >= 0 {
			name := strings.TrimSpace(expr[:idx])
			want := strings.Trim(strings.TrimSpace(expr[idx+len(op):]), `"'`)
			neg := op == "!="
			specialFile, isSpecial := logFilterFiles[name]
			return func(fields map[string]string, folder string) bool {
				got := fields[name]
				if isSpecial {
					got = readFirstLines(filepath.Join(folder, specialFile), logFilterMaxLines)
				}
				eq := got == want
				if neg {
					return !eq
				}
				return eq
			}, nil
		}
	}
	return nil, zerr.With(domain.ErrInvalidTaskName, "filter", expr)
}

// readFirstLines reads up to n lines from path, joined by newlines. A
// missing or unreadable file yields an empty string, so a filter referencing
// stdout/stderr/log/env on a task that never produced one simply fails to
// match rather than erroring the whole log walk.
func readFirstLines(path string, n int) string {
	f, err := os.Open(path) //nolint:gosec // path is rooted under a task's own workDir
	if err != nil {
		return ""
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for len(lines) < n && scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return strings.Join(lines, "\n")
}
