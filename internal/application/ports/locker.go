package ports

// Locker serializes bulk operations across processes.
type Locker interface {
	// TryLock acquires the named lock without blocking. It returns false
	// when another process holds it.
	TryLock(name string) (bool, error)

	// Unlock releases the named lock.
	Unlock(name string)
}
