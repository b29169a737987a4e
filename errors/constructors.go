package errors

import (
	"fmt"
)

// NoWorkspace is returned when there is no workspace root to aggregate from.
func NoWorkspace() *PreviewError {
	return New(ErrCodeNoWorkspace, "No workspace folder open")
}

// SpecsFolderMissing is returned when the workspace has no specs folder.
func SpecsFolderMissing(dir string) *PreviewError {
	return New(ErrCodeSpecsFolderMissing, `No "specs" folder found in workspace`).
		WithDetail("path", dir)
}

// UnexpectedIO wraps any other failure hit while listing, reading or decoding.
func UnexpectedIO(err error) *PreviewError {
	return Wrap(err, ErrCodeUnexpectedIO, fmt.Sprintf("Error loading specs: %v", err))
}

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *PreviewError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *PreviewError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// PortConflict creates a listen address conflict error
func PortConflict(addr string, err error) *PreviewError {
	return Wrap(err, ErrCodePortConflict, fmt.Sprintf("address %s is already in use", addr)).
		WithDetail("addr", addr)
}

// EditorUnavailable is returned when the editor RPC endpoint cannot be reached.
func EditorUnavailable(addr string, err error) *PreviewError {
	return Wrap(err, ErrCodeEditorUnavailable, fmt.Sprintf("cannot connect to editor at %s", addr)).
		WithDetail("addr", addr)
}
