package commands_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shihabhasan/nextflow/cmd/nf/commands"
	"github.com/shihabhasan/nextflow/internal/app"
	"github.com/shihabhasan/nextflow/internal/core/domain"
)

// fakeApp records every call made through the Application interface so tests
// can assert on the options the CLI layer derived from flags/args.
type fakeApp struct {
	runOpts   app.RunOptions
	runErr    error
	logOpts   app.LogOptions
	logErr    error
	cleanOpts app.CleanOptions
	cleanErr  error
	history   []domain.HistoryEntry
	historyErr error
	baseDir   string
	baseDirErr error
}

func (f *fakeApp) Run(_ context.Context, opts app.RunOptions) error {
	f.runOpts = opts
	return f.runErr
}

func (f *fakeApp) History(string) ([]domain.HistoryEntry, error) {
	return f.history, f.historyErr
}

func (f *fakeApp) Log(_ string, opts app.LogOptions, out io.Writer) error {
	f.logOpts = opts
	_, _ = out.Write([]byte("logged\n"))
	return f.logErr
}

func (f *fakeApp) Clean(_ string, opts app.CleanOptions, out io.Writer) error {
	f.cleanOpts = opts
	_, _ = out.Write([]byte("cleaned\n"))
	return f.cleanErr
}

func (f *fakeApp) BaseDir(string) (string, error) {
	return f.baseDir, f.baseDirErr
}

func newTestCLI(f *fakeApp) *commands.CLI {
	cli := commands.New(f)
	var out, errOut bytes.Buffer
	cli.SetOutput(&out, &errOut)
	return cli
}

func TestRunCommand_DefaultsToFreshRun(t *testing.T) {
	f := &fakeApp{}
	cli := newTestCLI(f)
	cli.SetArgs([]string{"run"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.False(t, f.runOpts.Resume)
	assert.Equal(t, "", f.runOpts.Name)
}

func TestRunCommand_ResumeWithNoArgDefaultsToLast(t *testing.T) {
	f := &fakeApp{}
	cli := newTestCLI(f)
	cli.SetArgs([]string{"run", "--resume"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.True(t, f.runOpts.Resume)
	assert.Equal(t, "last", f.runOpts.Name)
}

func TestRunCommand_ResumeWithExplicitToken(t *testing.T) {
	f := &fakeApp{}
	cli := newTestCLI(f)
	cli.SetArgs([]string{"run", "--resume=wise_turing"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.True(t, f.runOpts.Resume)
	assert.Equal(t, "wise_turing", f.runOpts.Name)
}

func TestRunCommand_RecordsCommandLine(t *testing.T) {
	f := &fakeApp{}
	cli := newTestCLI(f)
	cli.SetArgs([]string{"run", "--name=demo"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, f.runOpts.CommandLine, "-name=demo")
}

func TestLogCommand_DefaultsTokenToLast(t *testing.T) {
	f := &fakeApp{baseDir: "/pipelines/demo"}
	cli := newTestCLI(f)
	cli.SetArgs([]string{"log"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, "last", f.logOpts.Token)
}

func TestLogCommand_ParsesFieldsAndFilter(t *testing.T) {
	f := &fakeApp{baseDir: "/pipelines/demo"}
	cli := newTestCLI(f)
	cli.SetArgs([]string{"log", "wise_turing", "-f", "process,exit", "-F", `process=="align"`})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, "wise_turing", f.logOpts.Token)
	assert.Equal(t, []string{"process", "exit"}, f.logOpts.Fields)
	assert.Equal(t, `process=="align"`, f.logOpts.Filter)
}

func TestCleanCommand_DryRunDefaultsTokenToLast(t *testing.T) {
	f := &fakeApp{baseDir: "/pipelines/demo"}
	cli := newTestCLI(f)
	cli.SetArgs([]string{"clean", "-n"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.True(t, f.cleanOpts.DryRun)
	assert.Equal(t, "last", f.cleanOpts.Token)
}

func TestCleanCommand_ForceFlagAndExplicitToken(t *testing.T) {
	f := &fakeApp{baseDir: "/pipelines/demo"}
	cli := newTestCLI(f)
	cli.SetArgs([]string{"clean", "-f", "-q", "wise_turing"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.True(t, f.cleanOpts.Force)
	assert.True(t, f.cleanOpts.Quiet)
	assert.Equal(t, "wise_turing", f.cleanOpts.Token)
}

func TestHistoryCommand_PrintsSortedTable(t *testing.T) {
	f := &fakeApp{
		baseDir: "/pipelines/demo",
		history: []domain.HistoryEntry{
			{Timestamp: time.Unix(200, 0), RunName: "later", SessionID: "s2", CommandLine: "nf run"},
			{Timestamp: time.Unix(100, 0), RunName: "earlier", SessionID: "s1", CommandLine: "nf run"},
		},
	}
	cli := commands.New(f)
	var out bytes.Buffer
	cli.SetOutput(&out, &bytes.Buffer{})
	cli.SetArgs([]string{"history"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, out.String(), "RUN NAME")
	assert.Contains(t, out.String(), "later")
	assert.Contains(t, out.String(), "earlier")
	assert.Less(t, strings.Index(out.String(), "earlier"), strings.Index(out.String(), "later"))
}

func TestVersionCommand(t *testing.T) {
	f := &fakeApp{}
	cli := commands.New(f)
	var out bytes.Buffer
	cli.SetOutput(&out, &bytes.Buffer{})
	cli.SetArgs([]string{"version"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, out.String(), "nf version")
}
