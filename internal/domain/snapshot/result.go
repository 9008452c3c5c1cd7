package snapshot

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind is the outcome of resolving one snapshot.
type Kind int

const (
	KindUnknown Kind = iota
	KindNoBaselineFound
	KindMatch
	KindMismatch
	KindRecorded
	KindDeleted
	KindDebugSaved
	KindDebugMismatch
	KindDebugSaveFailed
)

var kindNames = map[Kind]string{
	KindUnknown:         "UNKNOWN",
	KindNoBaselineFound: "NO_BASELINE",
	KindMatch:           "MATCH",
	KindMismatch:        "MISMATCH",
	KindRecorded:        "RECORDED",
	KindDeleted:         "DELETED",
	KindDebugSaved:      "DEBUG_SAVED",
	KindDebugMismatch:   "DEBUG_MISMATCH",
	KindDebugSaveFailed: "DEBUG_SAVE_FAILED",
}

var kindMessages = map[Kind]string{
	KindNoBaselineFound: "failed to find an existing snapshot; new snapshot saved as baseline",
	KindMatch:           "snapshot matches",
	KindMismatch:        "snapshots do not match",
	KindRecorded:        "successfully recorded new snapshot",
	KindDeleted:         "snapshots successfully deleted",
	KindDebugSaved:      "debug mode: new snapshot saved and matches",
	KindDebugMismatch:   "debug mode: snapshots do not match",
	KindDebugSaveFailed: "debug mode: failed to find an existing snapshot",
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseKind converts a string to a Kind value.
func ParseKind(s string) (Kind, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == upper {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("invalid result kind: %q", s)
}

// Message returns the human-readable message reported for the kind.
func (k Kind) Message() string {
	if msg, ok := kindMessages[k]; ok {
		return msg
	}
	return "unknown snapshot result"
}

// Passed reports whether the kind lets a test pass. Only a match passes;
// every mode that rewrites storage fails so it cannot be left on unnoticed.
func (k Kind) Passed() bool {
	return k == KindMatch
}

// IsHardFailure reports whether the kind signals a storage inconsistency
// rather than an ordinary comparison failure.
func (k Kind) IsHardFailure() bool {
	return k == KindDebugMismatch || k == KindDebugSaveFailed
}

// MarshalJSON implements json.Marshaler.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseKind(str)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// AllKinds returns every known kind except KindUnknown.
func AllKinds() []Kind {
	return []Kind{
		KindNoBaselineFound,
		KindMatch,
		KindMismatch,
		KindRecorded,
		KindDeleted,
		KindDebugSaved,
		KindDebugMismatch,
		KindDebugSaveFailed,
	}
}

// Result is the outcome of one resolution.
type Result struct {
	Kind       Kind
	Identity   Identity
	Modes      Modes
	Message    string
	Path       string
	FailedPath string

	// Baseline is the stored bitmap the new render was compared with, when
	// one was loaded.
	Baseline *Bitmap
	// Actual is the freshly rendered bitmap.
	Actual *Bitmap
}

// NewResult creates a result carrying the kind's standard message.
func NewResult(kind Kind, id Identity) Result {
	return Result{Kind: kind, Identity: id, Message: kind.Message()}
}

// Passed reports whether the result lets a test pass.
func (r Result) Passed() bool {
	return r.Kind.Passed()
}

// FailedVariantSaved reports whether a failed variant was written.
func (r Result) FailedVariantSaved() bool {
	return r.FailedPath != ""
}
