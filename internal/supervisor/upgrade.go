package supervisor

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudflare/tableflip"
)

// RunUpgradeable runs the supervisor under a tableflip.Upgrader instead of
// calling Run directly. SIGHUP triggers upg.Upgrade(), which re-execs the
// binary; the new process's Supervisor acquires the listening socket through
// the same upg.Fds, inheriting the file descriptor from this generation
// instead of racing it to bind the same port (see bindListener). Only once
// that new supervisor calls upg.Ready() does this one stop accepting new
// signals and tear its own children down — the same upg.Ready()/upg.Exit()
// handshake the tbflip experiment used for its one listener, generalized
// here to the whole spawned process tree.
func RunUpgradeable(s *Supervisor) error {
	upg, err := tableflip.New(tableflip.Options{})
	if err != nil {
		return fmt.Errorf("supervisor: tableflip.New: %w", err)
	}
	defer upg.Stop()

	s.UseUpgrader(upg)

	// The listening socket must be acquired (via upg.Fds.Listen) before
	// upg.Ready() is called, so tableflip can hand it to the next generation
	// on the next upgrade; Run's own acquireListener call below is then a
	// no-op and reuses this same listener.
	if err := s.preflight(); err != nil {
		return err
	}
	if err := s.acquireListener(); err != nil {
		return err
	}

	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	go func() {
		for range sighup {
			s.log.Info("SIGHUP received, requesting upgrade")
			if err := upg.Upgrade(); err != nil {
				s.log.WithError(err).Warn("tableflip upgrade failed")
			}
		}
	}()

	if err := upg.Ready(); err != nil {
		s.log.WithError(err).Warn("tableflip readiness signal failed")
	}

	runErrs := make(chan error, 1)
	go func() { runErrs <- s.Run() }()

	select {
	case err := <-runErrs:
		return err
	case <-upg.Exit():
		s.log.Info("tableflip requested exit; tearing down this generation's children")
		s.teardown()
		return nil
	}
}
