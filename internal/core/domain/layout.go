package domain

import "path/filepath"

const (
	// PregateDirName is the name of the internal state directory.
	PregateDirName = ".pregate"

	// CacheDirName is the name of the cache directory.
	CacheDirName = "cache"

	// VerdictFileName is the name of the file holding cached check verdicts.
	VerdictFileName = "verdicts.json"

	// ConfigFileName is the name of the single-file project configuration.
	ConfigFileName = ".zuul.yaml"

	// ConfigDirName is the name of the split configuration directory.
	// Fragments inside it are merged in lexical order.
	ConfigDirName = "zuul.d"

	// PlaybookDirName is the conventional directory for playbooks referenced
	// by job definitions.
	PlaybookDirName = "playbooks"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultPregatePath returns the default root directory for pregate metadata.
func DefaultPregatePath() string {
	return PregateDirName
}

// DefaultVerdictPath returns the default path for the check verdict cache.
// It joins .pregate, cache, and verdicts.json.
func DefaultVerdictPath() string {
	return filepath.Join(PregateDirName, CacheDirName, VerdictFileName)
}
