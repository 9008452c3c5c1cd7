package snapshot

// State describes what the store holds for an identity.
type State int

const (
	// StateMissing means no baseline file exists.
	StateMissing State = iota
	// StatePresent means a decodable baseline exists.
	StatePresent
	// StateCorrupt means a file exists but is not a decodable PNG.
	StateCorrupt
)

func (s State) String() string {
	switch s {
	case StatePresent:
		return "present"
	case StateCorrupt:
		return "corrupt"
	default:
		return "missing"
	}
}
