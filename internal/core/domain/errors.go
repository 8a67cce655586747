package domain

import "go.trai.ch/zerr"

var (
	// ErrConfigNotFound is returned when no configuration file or directory can be found.
	ErrConfigNotFound = zerr.New("could not find .zuul.yaml or zuul.d")

	// ErrConfigReadFailed is returned when a configuration file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when a configuration file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrUnknownDirective is returned when a configuration entry has a key other
	// than job, nodeset or project.
	ErrUnknownDirective = zerr.New("unknown configuration directive")

	// ErrInvalidJobName is returned when a job name contains invalid characters.
	ErrInvalidJobName = zerr.New("invalid job name")

	// ErrInvalidNodesetName is returned when a nodeset name contains invalid characters.
	ErrInvalidNodesetName = zerr.New("invalid nodeset name")

	// ErrDuplicateJob is returned when two job definitions share a name.
	ErrDuplicateJob = zerr.New("duplicate job definition")

	// ErrDuplicateNodeset is returned when two nodeset definitions share a name.
	ErrDuplicateNodeset = zerr.New("duplicate nodeset definition")

	// ErrUnknownJob is returned when a pipeline references a job that is not defined.
	ErrUnknownJob = zerr.New("job not defined")

	// ErrUnknownParent is returned when a job names a parent that is not defined.
	ErrUnknownParent = zerr.New("parent job not defined")

	// ErrUnknownNodeset is returned when a job references a nodeset that is neither
	// defined in the configuration nor a known label.
	ErrUnknownNodeset = zerr.New("nodeset not defined")

	// ErrUnknownPipeline is returned when a project references a pipeline outside
	// the supported set.
	ErrUnknownPipeline = zerr.New("unknown pipeline")

	// ErrParentCycle is returned when job parent links form a cycle.
	ErrParentCycle = zerr.New("parent cycle detected")

	// ErrAbstractJob is returned when a pipeline references an abstract job directly.
	ErrAbstractJob = zerr.New("abstract job cannot run in a pipeline")

	// ErrInvalidTimeout is returned when a job timeout is not positive or exceeds the maximum.
	ErrInvalidTimeout = zerr.New("invalid job timeout")

	// ErrMissingPlaybook is returned when a job references a playbook path that does not exist.
	ErrMissingPlaybook = zerr.New("playbook not found")

	// ErrPlaybookParseFailed is returned when a playbook cannot be parsed.
	ErrPlaybookParseFailed = zerr.New("failed to parse playbook")

	// ErrInvalidTask is returned when a task has zero or more than one action.
	ErrInvalidTask = zerr.New("task must have exactly one action")

	// ErrBadGuard is returned when a when expression does not match any supported form.
	ErrBadGuard = zerr.New("unsupported when expression")

	// ErrUnknownVariable is returned when a when expression references a variable
	// that no prior task registered.
	ErrUnknownVariable = zerr.New("unknown registered variable")

	// ErrUnknownHost is returned when a play targets a host that is not in the inventory.
	ErrUnknownHost = zerr.New("host not in inventory")

	// ErrPlaybookFailed is returned when a playbook run leaves at least one host failed.
	ErrPlaybookFailed = zerr.New("playbook run failed")

	// ErrValidationFailed is returned when a configuration tree fails validation.
	ErrValidationFailed = zerr.New("configuration validation failed")

	// ErrNoJobsMatched is returned when a jobs query matches nothing.
	ErrNoJobsMatched = zerr.New("no jobs matched")

	// ErrStoreCreateFailed is returned when the verdict store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create verdict store directory")

	// ErrStoreReadFailed is returned when the verdict store cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read verdict store")

	// ErrStoreUnmarshalFailed is returned when the verdict store cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal verdict store")

	// ErrStoreMarshalFailed is returned when the verdict store cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal verdict store")

	// ErrStoreWriteFailed is returned when the verdict store cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write verdict store")

	// ErrFingerprintFailed is returned when the configuration fingerprint cannot be computed.
	ErrFingerprintFailed = zerr.New("failed to fingerprint configuration")

	// ErrFileOpenFailed is returned when a file cannot be opened.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrWriteHashFailed is returned when writing to the digest fails.
	ErrWriteHashFailed = zerr.New("failed to write hash to digest")

	// ErrWatchFailed is returned when the configuration watcher cannot be started.
	ErrWatchFailed = zerr.New("failed to watch configuration")
)
