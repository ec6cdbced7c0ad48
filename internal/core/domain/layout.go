package domain

import "path/filepath"

const (
	// SameDirName is the name of the internal run metadata directory.
	SameDirName = ".nextflow"

	// StoreDirName is the name of the content addressable cache directory.
	StoreDirName = "cache"

	// CacheDirName is the parent directory holding per-session cache trees.
	CacheDirName = ".cache"

	// HistoryFileName is the name of the run history file.
	HistoryFileName = ".nextflow.history"

	// DebugLogFile is the name of the debug log file.
	DebugLogFile = "debug.log"

	// CommandScriptFile is the user script copied verbatim into the task workDir.
	CommandScriptFile = ".command.sh"

	// CommandRunFile is the driver script the executor actually invokes.
	CommandRunFile = ".command.run"

	// CommandOutFile captures stdout.
	CommandOutFile = ".command.out"

	// CommandErrFile captures stderr.
	CommandErrFile = ".command.err"

	// CommandLogFile captures the merged stdout/stderr log.
	CommandLogFile = ".command.log"

	// CommandEnvFile records the resolved environment dump.
	CommandEnvFile = ".command.env"

	// ExitCodeFile records the task's exit status as an ASCII integer.
	ExitCodeFile = ".exitcode"

	// CommandYamlFile holds the Kubernetes Job manifest, when applicable.
	CommandYamlFile = ".command.yaml"

	// CommandContextFile holds the serialized TaskContext for resume.
	CommandContextFile = ".command.context"

	// PublishScriptFile holds the rendered publishDir copy/move/rsync script.
	PublishScriptFile = ".command.publish"

	// DBDirName is the KV store subdirectory of a session's cache tree.
	DBDirName = "db"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600

	// HashPrefixLen is the number of leading hex characters used as the workDir shard prefix.
	HashPrefixLen = 2

	// PipelineFileName is the name of the pipeline definition file discovered in or above cwd.
	PipelineFileName = "pipeline.yaml"
)

// DefaultBaseDir returns the default root directory for run metadata, rooted at cwd.
func DefaultBaseDir(cwd string) string {
	return cwd
}

// SessionCacheDir returns <baseDir>/.cache/<sessionId>.
func SessionCacheDir(baseDir, sessionID string) string {
	return filepath.Join(baseDir, ".cache", sessionID)
}

// SessionDBDir returns <baseDir>/.cache/<sessionId>/db.
func SessionDBDir(baseDir, sessionID string) string {
	return filepath.Join(SessionCacheDir(baseDir, sessionID), DBDirName)
}

// SessionIndexPath returns <baseDir>/.cache/<sessionId>/index.<runName>.
func SessionIndexPath(baseDir, sessionID, runName string) string {
	return filepath.Join(SessionCacheDir(baseDir, sessionID), "index."+runName)
}

// DefaultHistoryPath returns <baseDir>/.nextflow.history.
func DefaultHistoryPath(baseDir string) string {
	return filepath.Join(baseDir, HistoryFileName)
}

// TaskWorkDir returns <workDir>/<hash[0:2]>/<hash[2:]>.
func TaskWorkDir(workDir string, hexHash string) string {
	if len(hexHash) <= HashPrefixLen {
		return filepath.Join(workDir, hexHash)
	}
	return filepath.Join(workDir, hexHash[:HashPrefixLen], hexHash[HashPrefixLen:])
}
