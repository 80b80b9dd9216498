package staticsvc

import (
	"fmt"
	"net"
	"os"
)

// SocketPath returns the filesystem path of the delegation socket for a
// supervisor with the given pid, matching spec.md §3's
// "/tmp/<prefix>_<pid>.sock" naming.
func SocketPath(pid int) string {
	return fmt.Sprintf("/tmp/nibiru_static_%d.sock", pid)
}

// NewDelegationListener creates, unlinks-then-binds, and listens on the Unix
// domain socket at path (spec.md §3, §5: "the Static Responder unlinks any
// prior file of that name before binding").
func NewDelegationListener(path string) (*net.UnixListener, error) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("staticsvc: unlinking stale socket %q: %w", path, err)
	}

	addr, err := net.ResolveUnixAddr("unix", path)
	if err != nil {
		return nil, fmt.Errorf("staticsvc: resolving %q: %w", path, err)
	}

	l, err := net.ListenUnix("unix", addr)
	if err != nil {
		return nil, fmt.Errorf("staticsvc: listening on %q: %w", path, err)
	}
	return l, nil
}
