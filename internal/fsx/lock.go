package fsx

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// LockTimeout bounds how long LockExclusive blocks before giving up.
const LockTimeout = 2 * time.Second

const lockPerms = 0o644

// Lock is a held advisory exclusive lock. Call Close to release it.
type Lock struct {
	path string
	file *os.File
	mu   *sync.Mutex // set only on the process-local fallback path
}

// Close releases the lock. It is safe to call once; a second call is a
// no-op.
func (l *Lock) Close() error {
	if l.mu != nil {
		l.mu.Unlock()
		l.mu = nil

		return nil
	}

	if l.file == nil {
		return nil
	}

	// Remove the lock file before unlocking so a racing acquirer that
	// opens the path between removal and unlock gets a fresh inode and
	// correctly retries instead of sharing our fd's flock state.
	_ = os.Remove(l.path)
	_ = unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	err := l.file.Close()
	l.file = nil

	return err
}

// processLocks backs the fallback path for platforms without advisory
// file locks: a process-local mutex keyed by canonicalized path.
var (
	processLocksMu sync.Mutex
	processLocks   = map[string]*sync.Mutex{}
)

// LockExclusive acquires an advisory exclusive lock associated with path,
// blocking until it is acquired or LockTimeout elapses. The lock itself
// lives in a sibling ".locks" directory so acquiring it never perturbs
// path's own parent directory mtime (which would otherwise look like a
// spurious watcher event) and never collides with a real ticket or plan
// file that happens to share path's stem.
func LockExclusive(path string) (*Lock, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	dir := filepath.Dir(abs)
	base := filepath.Base(abs)
	locksDir := filepath.Join(dir, ".locks")
	lockPath := filepath.Join(locksDir, base+".lock")

	deadline := time.Now().Add(LockTimeout)

	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, os.ErrDeadlineExceeded
		}

		if err := os.MkdirAll(locksDir, dirPerms); err != nil {
			return nil, err
		}

		file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, lockPerms)
		if err != nil {
			return nil, err
		}

		var openStat unix.Stat_t
		if err := unix.Fstat(int(file.Fd()), &openStat); err != nil {
			file.Close()

			return nil, err
		}

		fd := int(file.Fd())
		done := make(chan error, 1)

		go func() {
			done <- unix.Flock(fd, unix.LOCK_EX)
		}()

		select {
		case err := <-done:
			if err != nil {
				file.Close()

				return nil, err
			}

			var pathStat unix.Stat_t
			if err := unix.Stat(lockPath, &pathStat); err != nil || pathStat.Ino != openStat.Ino {
				// The lock file was deleted and recreated by a racing
				// acquirer between our open and our flock; our fd's lock
				// is now meaningless, retry from scratch.
				unix.Flock(fd, unix.LOCK_UN)
				file.Close()

				continue
			}

			return &Lock{path: lockPath, file: file}, nil

		case <-time.After(remaining):
			file.Close()

			return nil, os.ErrDeadlineExceeded
		}
	}
}

// LockExclusiveProcessLocal is the degrade path for platforms whose file
// locks are unavailable or not respected: a mutex keyed by canonicalized
// path, scoped to this process only. It gives up the cross-process
// guarantee documented in the design notes but keeps same-process callers
// correctly serialized. LockExclusive never falls back to it; a caller has
// to choose it explicitly.
func LockExclusiveProcessLocal(path string) *Lock {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	processLocksMu.Lock()
	mu, ok := processLocks[abs]

	if !ok {
		mu = &sync.Mutex{}
		processLocks[abs] = mu
	}

	processLocksMu.Unlock()

	mu.Lock()

	return &Lock{mu: mu}
}
