//go:build linux

package staticsvc

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// readinessWaiter blocks until the delegation listener's file descriptor is
// readable, using epoll. spec.md §4.2 permits ("is permitted") an
// epoll-backed readiness notifier ahead of Accept; the algorithm stays
// serial within one session regardless — this only replaces the blocking
// Accept() call's wait with an explicit epoll_wait.
type readinessWaiter struct {
	epfd int
	fd   int
}

// newReadinessWaiter registers fd (the delegation listener) with a fresh
// epoll instance for read readiness.
func newReadinessWaiter(fd int) (*readinessWaiter, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("staticsvc: epoll_create1: %w", err)
	}
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)}
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		unix.Close(epfd)
		return nil, fmt.Errorf("staticsvc: epoll_ctl: %w", err)
	}
	return &readinessWaiter{epfd: epfd, fd: fd}, nil
}

// wait blocks until fd is readable or an error occurs. A return of nil
// means the caller should proceed to Accept.
func (r *readinessWaiter) wait() error {
	events := make([]unix.EpollEvent, 1)
	for {
		n, err := unix.EpollWait(r.epfd, events, -1)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return err
		}
		if n > 0 {
			return nil
		}
	}
}

func (r *readinessWaiter) close() error {
	return unix.Close(r.epfd)
}
