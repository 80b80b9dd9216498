package supervisor

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/mblayman/nibiru/internal/config"
)

// spawnStatic re-execs the current binary as the Static Responder,
// inheriting sock (the delegation listener) at fd 3. This is the Go
// substitute for the original's fork(): Go offers no safe
// fork-and-continue primitive for a multi-threaded process, so the
// supervisor instead starts a fresh child process and hands it the
// already-bound descriptor it needs, the same trick the SocketHandoff
// and tbflip experiments use for their listening sockets.
func spawnStatic(cfg *config.Server, sock *os.File) (*exec.Cmd, error) {
	args := []string{
		"--" + RoleFlag, RoleStatic,
		"--" + StaticRootFlag, cfg.StaticRoot,
		"--" + StaticPrefixFlag, cfg.StaticURLPrefix,
	}
	if useEpoll() {
		args = append(args, "--"+UseEpollFlag)
	}
	return spawnChild(args, sock)
}

// spawnWorker re-execs the current binary as Application Worker idx,
// inheriting the shared listening socket ln at fd 3.
func spawnWorker(cfg *config.Server, idx int, delegationPath string, ln *os.File) (*exec.Cmd, error) {
	args := []string{
		"--" + RoleFlag, RoleWorker,
		"--" + WorkerIndexFlag, fmt.Sprintf("%d", idx),
		"--" + AppModuleFlag, cfg.AppModule,
		"--" + AppCallableFlag, cfg.AppCallable,
		"--" + StaticPrefixFlag, cfg.StaticURLPrefix,
		"--" + DelegationPathFlag, delegationPath,
	}
	if cfg.TrustProxyProtocol {
		args = append(args, "--"+TrustProxyProtocolFlag)
	}
	return spawnChild(args, ln)
}

// spawnChild starts os.Args[0] again with args appended and inheritedFD
// placed at fd 3 of the new process (exec.Cmd.ExtraFiles guarantees
// contiguous placement starting at fd 3).
func spawnChild(args []string, inheritedFD *os.File) (*exec.Cmd, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("supervisor: resolving own executable path: %w", err)
	}
	cmd := exec.Command(exe, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.ExtraFiles = []*os.File{inheritedFD}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("supervisor: starting child %v: %w", args, err)
	}
	return cmd, nil
}

// useEpoll reports whether the static responder should use the epoll
// readiness waiter ahead of Accept. It always does; if the waiter cannot be
// created, the responder logs a warning and falls back to a blocking Accept.
func useEpoll() bool {
	return true
}
