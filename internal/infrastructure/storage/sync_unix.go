//go:build !windows

package storage

import "os"

// syncDir best-effort fsyncs the parent directory so the rename is durable.
func syncDir(dir string) error {
	f, err := os.Open(dir) // #nosec G304 - dir is the snapshot group directory
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
