package snapshot

import "time"

// Entry is one stored snapshot file discovered on disk.
type Entry struct {
	Path    string    `json:"path"`
	Group   string    `json:"group"`
	Name    string    `json:"name"`
	Failed  bool      `json:"failed"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// CountFailed returns how many entries are failed variants.
func CountFailed(entries []Entry) int {
	n := 0
	for _, e := range entries {
		if e.Failed {
			n++
		}
	}
	return n
}
