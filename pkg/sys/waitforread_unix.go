//go:build unix

package sys

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// WaitForRead blocks until any of the given files is ready to be read or
// timeout. A negative timeout means no timeout. It returns a boolean slice
// indicating which files are ready to be read and any possible error.
//
// A file whose other end has been closed is reported as ready, so that the
// subsequent read can observe EOF.
func WaitForRead(timeout time.Duration, files ...*os.File) (ready []bool, err error) {
	fds := make([]unix.PollFd, len(files))
	for i, file := range files {
		fds[i] = unix.PollFd{Fd: int32(file.Fd()), Events: unix.POLLIN}
	}
	ms := -1
	if timeout >= 0 {
		ms = int(timeout / time.Millisecond)
	}
	_, err = unix.Poll(fds, ms)
	ready = make([]bool, len(files))
	for i, fd := range fds {
		ready[i] = fd.Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0
	}
	return ready, err
}
