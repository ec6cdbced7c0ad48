package domain

import "go.trai.ch/zerr"

var (
	// ErrTaskAlreadyExists is returned when attempting to add a process with a name that already exists.
	ErrTaskAlreadyExists = zerr.New("process already exists")

	// ErrMissingDependency is returned when a process references a channel that is never produced.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrMissingProjectName is returned in workspace mode when a pipeline file is missing a name.
	ErrMissingProjectName = zerr.New("missing pipeline name")

	// ErrInvalidProjectName is returned when a pipeline name is invalid.
	ErrInvalidProjectName = zerr.New("pipeline name can only contain alphanumeric characters, hyphens and underscores")

	// ErrDuplicateProjectName is returned when multiple pipelines share the same name in a workspace.
	ErrDuplicateProjectName = zerr.New("duplicate pipeline name")

	// ErrCycleDetected is returned when a cycle is detected in the process dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTaskNotFound is returned when a requested process is not found in the graph.
	ErrTaskNotFound = zerr.New("process not found")

	// ErrNoTargetsSpecified is returned when no targets are specified for the run command.
	ErrNoTargetsSpecified = zerr.New("no targets specified")

	// ErrOutputPathOutsideRoot is returned when an output path is outside the session workDir.
	ErrOutputPathOutsideRoot = zerr.New("output path is outside workDir")

	// ErrInputNotFound is returned when a declared input file or directory is not found.
	ErrInputNotFound = zerr.New("input not found")

	// ErrReservedTaskName is returned when a process uses a reserved name (e.g., "all").
	ErrReservedTaskName = zerr.New("process name 'all' is reserved")

	// ErrInvalidTaskName is returned when a process name contains invalid characters.
	ErrInvalidTaskName = zerr.New("invalid process name")

	// ErrInvalidRebuildStrategy is returned when an error strategy name is invalid.
	ErrInvalidRebuildStrategy = zerr.New("invalid error strategy, expected 'terminate', 'finish', 'ignore' or 'retry'")

	// ErrStoreCreateFailed is returned when the cache directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create cache directory")

	// ErrStoreReadFailed is returned when a cache entry cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read cache entry")

	// ErrStoreUnmarshalFailed is returned when a cache entry cannot be decoded.
	ErrStoreUnmarshalFailed = zerr.New("failed to decode cache entry")

	// ErrStoreMarshalFailed is returned when a cache entry cannot be encoded.
	ErrStoreMarshalFailed = zerr.New("failed to encode cache entry")

	// ErrStoreWriteFailed is returned when a cache entry cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write cache entry")

	// ErrConfigReadFailed is returned when the pipeline file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read pipeline file")

	// ErrConfigParseFailed is returned when the pipeline file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse pipeline file")

	// ErrConfigNotFound is returned when no pipeline file can be found.
	ErrConfigNotFound = zerr.New("could not find a pipeline definition")

	// ErrBuildExecutionFailed is returned when the run fails.
	ErrBuildExecutionFailed = zerr.New("run execution failed")

	// ErrTaskExecutionFailed is returned when a task execution fails.
	ErrTaskExecutionFailed = zerr.New("task execution failed")

	// ErrInputResolutionFailed is returned when input resolution fails.
	ErrInputResolutionFailed = zerr.New("failed to resolve inputs")

	// ErrInputHashComputationFailed is returned when input hash computation fails.
	ErrInputHashComputationFailed = zerr.New("failed to compute input hash")

	// ErrOutputHashComputationFailed is returned when output hash computation fails.
	ErrOutputHashComputationFailed = zerr.New("failed to compute output hash")

	// ErrBuildInfoUpdateFailed is returned when updating the cache fails.
	ErrBuildInfoUpdateFailed = zerr.New("failed to update cache")

	// ErrFailedToGetRoot is returned when the session workDir cannot be determined.
	ErrFailedToGetRoot = zerr.New("failed to get absolute path of workDir")

	// ErrFailedToGetOutputPath is returned when an output path cannot be determined.
	ErrFailedToGetOutputPath = zerr.New("failed to get absolute path of output")

	// ErrFailedToResolveRelativePath is returned when a relative path cannot be resolved.
	ErrFailedToResolveRelativePath = zerr.New("failed to resolve relative path")

	// ErrFailedToCleanOutput is returned when cleaning an output file fails.
	ErrFailedToCleanOutput = zerr.New("failed to clean output file")

	// ErrFileOpenFailed is returned when a file cannot be opened.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrPathStatFailed is returned when stating a path fails.
	ErrPathStatFailed = zerr.New("failed to stat path")

	// ErrWriteHashFailed is returned when writing the hash to the digest fails.
	ErrWriteHashFailed = zerr.New("failed to write hash to digest")

	// ErrMissingTool is returned when a task references a tool alias that is not defined.
	ErrMissingTool = zerr.New("tool not found")

	// ErrEnvironmentNotCached is returned when an environment should have been cached but wasn't.
	ErrEnvironmentNotCached = zerr.New("environment not found in cache")

	// ErrCacheMiss is returned when a requested item is not found in the cache.
	ErrCacheMiss = zerr.New("cache miss")

	// ErrMissingOutput is returned when a declared output is not collectible after a task completes.
	ErrMissingOutput = zerr.New("missing output")

	// ErrMissingValue is returned when a declared value output references an unknown name.
	ErrMissingValue = zerr.New("missing value")

	// ErrProcessNotRecoverable is returned when the task body itself cannot be evaluated (terminal).
	ErrProcessNotRecoverable = zerr.New("process not recoverable")

	// ErrProcessFailed is returned when a task exits with a non-zero or disallowed status.
	ErrProcessFailed = zerr.New("process failed")

	// ErrGuardFailed is returned when evaluating the when guard raises an error.
	ErrGuardFailed = zerr.New("guard evaluation failed")

	// ErrAborted is returned for infrastructure faults that terminate the session.
	ErrAborted = zerr.New("session aborted")

	// ErrMaxErrorsExceeded is returned when the RETRY strategy's errorCount exceeds maxErrors.
	ErrMaxErrorsExceeded = zerr.New("maximum error count exceeded")

	// ErrMaxRetriesExceeded is returned when a task has been retried more than maxRetries times.
	ErrMaxRetriesExceeded = zerr.New("maximum retry count exceeded")

	// ErrAmbiguousHistoryID is returned when a session id prefix matches more than one history entry.
	ErrAmbiguousHistoryID = zerr.New("ambiguous session id prefix")

	// ErrHistoryEntryNotFound is returned when a history lookup token resolves to nothing.
	ErrHistoryEntryNotFound = zerr.New("history entry not found")

	// ErrCleanRefused is returned when clean is invoked without -f or -n.
	ErrCleanRefused = zerr.New("refusing to clean without -f (force) or -n (dry-run)")

	// ErrIndexCorrupt is returned when a cache index file has a malformed trailing record.
	ErrIndexCorrupt = zerr.New("cache index file is corrupt")

	// ErrUnknownScheduler is returned when an executor kind has no registered grid adapter.
	ErrUnknownScheduler = zerr.New("unknown scheduler")

	// ErrSubmitFailed is returned when a scheduler's submit command fails or its output is unparsable.
	ErrSubmitFailed = zerr.New("failed to submit task to scheduler")

	// ErrPollFailed is returned when a scheduler's status command fails.
	ErrPollFailed = zerr.New("failed to poll scheduler status")
)
