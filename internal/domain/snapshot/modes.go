package snapshot

import "strings"

// Modes holds the operator switches for one resolution. It is passed
// explicitly on every call; nothing in the package keeps mode state.
type Modes struct {
	RecordNew         bool `yaml:"record" json:"record"`
	Debug             bool `yaml:"debug" json:"debug"`
	DeleteExisting    bool `yaml:"delete" json:"delete"`
	SaveFailedVariant bool `yaml:"save_failed" json:"save_failed"`
}

// Mode names reported by Active.
const (
	ModeDefault = "default"
	ModeDebug   = "debug"
	ModeDelete  = "delete"
	ModeRecord  = "record"
)

// Merge returns the union of both mode sets. Harness defaults are merged
// with per-assertion overrides this way.
func (m Modes) Merge(other Modes) Modes {
	return Modes{
		RecordNew:         m.RecordNew || other.RecordNew,
		Debug:             m.Debug || other.Debug,
		DeleteExisting:    m.DeleteExisting || other.DeleteExisting,
		SaveFailedVariant: m.SaveFailedVariant || other.SaveFailedVariant,
	}
}

// Active returns the mode that wins the priority order
// debug > delete > record > default.
func (m Modes) Active() string {
	switch {
	case m.Debug:
		return ModeDebug
	case m.DeleteExisting:
		return ModeDelete
	case m.RecordNew:
		return ModeRecord
	default:
		return ModeDefault
	}
}

// IsZero reports whether no switch is set.
func (m Modes) IsZero() bool {
	return m == Modes{}
}

// String lists the enabled switches, e.g. "record+save_failed".
func (m Modes) String() string {
	var parts []string
	if m.Debug {
		parts = append(parts, ModeDebug)
	}
	if m.DeleteExisting {
		parts = append(parts, ModeDelete)
	}
	if m.RecordNew {
		parts = append(parts, ModeRecord)
	}
	if m.SaveFailedVariant {
		parts = append(parts, "save_failed")
	}
	if len(parts) == 0 {
		return ModeDefault
	}
	return strings.Join(parts, "+")
}
