// Package exitcode defines exit codes for the snapguard CLI.
package exitcode

import (
	"github.com/felixgeelhaar/snapguard/internal/domain/snapshot"
)

// Exit codes follow a standard convention:
// 0 = every snapshot matched
// 1 = at least one snapshot did not match, was recorded or was deleted
// 2 = tool, storage or configuration error
const (
	// Success indicates every resolution was a match.
	Success = 0

	// SnapshotFailure indicates at least one failing result kind.
	SnapshotFailure = 1

	// Error indicates a tool or configuration error.
	Error = 2
)

// FromKind converts one result kind to an exit code. KindUnknown means
// the resolution was aborted and maps to Error.
func FromKind(k snapshot.Kind) int {
	switch {
	case k.Passed():
		return Success
	case k == snapshot.KindUnknown:
		return Error
	default:
		return SnapshotFailure
	}
}

// FromResults returns the most severe code over all results. No results
// is a success.
func FromResults(results []snapshot.Result) int {
	code := Success
	for _, r := range results {
		if c := FromKind(r.Kind); c > code {
			code = c
		}
	}
	return code
}

// FromError maps an error returned by a command: nil is Success, anything
// else is Error.
func FromError(err error) int {
	if err == nil {
		return Success
	}
	return Error
}

// Description returns a human-readable description of the exit code.
func Description(code int) string {
	switch code {
	case Success:
		return "All snapshots match"
	case SnapshotFailure:
		return "Snapshot mismatch or state change"
	case Error:
		return "Tool, storage or configuration error"
	default:
		return "Unknown exit code"
	}
}

// IsSuccess returns true if the exit code indicates success.
func IsSuccess(code int) bool {
	return code == Success
}

// IsFailure returns true if the exit code indicates a failing snapshot.
func IsFailure(code int) bool {
	return code == SnapshotFailure
}

// IsError returns true if the exit code indicates an error.
func IsError(code int) bool {
	return code == Error
}
