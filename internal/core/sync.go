package core

import (
	"errors"
	"syscall"
)

// isStdSyncError reports the errors zap returns when syncing a terminal or
// pipe on stderr, which are not failures.
func isStdSyncError(err error) bool {
	return errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.EBADF)
}
