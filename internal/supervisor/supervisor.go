// Package supervisor implements the top-level process described in spec.md
// §4.4: it binds the single listening socket, spawns the Static Responder
// and the Application Worker pool as separate processes sharing that
// socket, and owns the worker-pool table and teardown sequence. Go gives a
// multi-threaded process no safe fork()-and-continue primitive, so where
// the original forks, nibiru re-execs itself (os.Args[0]) with the needed
// socket passed through exec.Cmd.ExtraFiles and a hidden role flag
// selecting which loop the new process enters — see internal/supervisor's
// spawn.go and child.go, and SPEC_FULL.md's REDESIGN note.
package supervisor

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"strconv"
	"syscall"
	"time"

	"github.com/cloudflare/tableflip"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/mblayman/nibiru/internal/adminserver"
	"github.com/mblayman/nibiru/internal/appruntime"
	"github.com/mblayman/nibiru/internal/config"
	"github.com/mblayman/nibiru/internal/procpool"
	"github.com/mblayman/nibiru/internal/staticsvc"
)

// shutdownGrace bounds how long the supervisor waits for spawned children
// to exit on their own after SIGTERM before it gives up waiting (it never
// sends SIGKILL itself; spec.md leaves a child that ignores SIGTERM as an
// operator concern).
const shutdownGrace = 10 * time.Second

// Supervisor owns the listening socket, the delegation socket, the
// worker-pool table, and the lifetime of every process nibiru spawns.
type Supervisor struct {
	cfg  *config.Server
	log  *logrus.Entry
	pool *procpool.Pool

	// upg is non-nil only under RunUpgradeable. When set, the listening
	// socket is acquired through upg.Fds instead of a fresh bind, so a
	// tableflip-triggered successor generation inherits the predecessor's
	// already-open descriptor rather than racing to rebind the same port.
	upg         *tableflip.Upgrader
	listener    *net.TCPListener
	preflighted bool

	staticCmd  *exec.Cmd
	workerCmds []*exec.Cmd

	delegationPath string
	admin          *adminserver.Server
}

// New builds a Supervisor for cfg.
func New(cfg *config.Server, log *logrus.Entry) *Supervisor {
	return &Supervisor{
		cfg:  cfg,
		log:  log,
		pool: procpool.New(cfg.Workers),
	}
}

// UseUpgrader routes the listening-socket acquisition in Run (and
// preflight's caller, RunUpgradeable) through upg.Fds rather than a direct
// bind. Called by RunUpgradeable before the socket is acquired.
func (s *Supervisor) UseUpgrader(upg *tableflip.Upgrader) {
	s.upg = upg
}

// acquireListener binds (or, under an upgrader, inherits) the listening
// socket exactly once; later calls are a no-op so RunUpgradeable can acquire
// it ahead of upg.Ready() and Run can reuse that same listener without
// racing a second bind of the same port.
func (s *Supervisor) acquireListener() error {
	if s.listener != nil {
		return nil
	}
	ln, err := bindListener(s.upg, s.cfg.Port)
	if err != nil {
		return err
	}
	s.listener = ln
	s.log.WithField("port", s.cfg.Port).Info("listening")
	return nil
}

// Run binds the listening socket, spawns the static responder and the
// worker pool, starts the admin sidecar, and blocks until a termination
// signal is received and every child has been asked to exit.
func (s *Supervisor) Run() error {
	if err := s.preflight(); err != nil {
		return err
	}
	if err := s.acquireListener(); err != nil {
		return err
	}
	listener := s.listener
	defer listener.Close()

	s.delegationPath = staticsvc.SocketPath(os.Getpid())
	delegationListener, err := staticsvc.NewDelegationListener(s.delegationPath)
	if err != nil {
		return err
	}
	defer delegationListener.Close()
	defer os.Remove(s.delegationPath)

	listenerFD, err := listener.File()
	if err != nil {
		return fmt.Errorf("supervisor: duplicating listener fd: %w", err)
	}
	defer listenerFD.Close()

	delegationFD, err := delegationListener.File()
	if err != nil {
		return fmt.Errorf("supervisor: duplicating delegation listener fd: %w", err)
	}
	defer delegationFD.Close()

	if err := s.spawnAll(listenerFD, delegationFD); err != nil {
		s.teardown()
		return err
	}

	reg := prometheus.NewRegistry()
	s.admin = adminserver.New(":"+adminPort(s.cfg.Port), reg, s.pool)
	adminErrs := make(chan error, 1)
	s.admin.Start(adminErrs)

	stop := make(chan struct{})
	installStopSignal(func() { close(stop) })

	select {
	case <-stop:
		s.log.Info("shutdown signal received")
	case err := <-adminErrs:
		s.log.WithError(err).Error("admin sidecar failed")
	}

	s.teardown()
	return nil
}

// preflight validates the application specifier before any process is
// spawned (spec.md §4.4 step 2): it constructs a throwaway Application
// exactly as an Application Worker would at startup (§4.3 "Startup") and
// closes it immediately. A bad module or callable must fail here, not after
// the listener is bound and the worker pool has already been forked. It only
// runs once per Supervisor; RunUpgradeable calls it ahead of upg.Ready(), so
// Run's own call below is a no-op in that path.
func (s *Supervisor) preflight() error {
	if s.preflighted {
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("supervisor: preflight: resolving own executable path: %w", err)
	}
	appruntime.AugmentPluginPath(exe)

	loader := appruntime.PluginLoader{}
	app, err := loader.Load(s.cfg.AppModule, s.cfg.AppCallable)
	if err != nil {
		return fmt.Errorf("supervisor: preflight: loading application %q: %w", s.cfg.AppModule, err)
	}
	if err := app.Close(); err != nil {
		return err
	}
	s.preflighted = true
	return nil
}

// spawnAll starts the static responder and every application worker,
// recording each pid in the pool as it comes up. listenerFD and
// delegationFD are dup'd descriptors (via (*net.TCPListener).File and
// (*net.UnixListener).File); each spawnX call dups them again into its
// child's ExtraFiles, so closing these two after spawnAll returns does not
// affect the children's copies.
func (s *Supervisor) spawnAll(listenerFD, delegationFD *os.File) error {
	staticCmd, err := spawnStatic(s.cfg, delegationFD)
	if err != nil {
		return err
	}
	s.staticCmd = staticCmd
	s.pool.SetStatic(staticCmd.Process.Pid)
	s.log.WithField("pid", staticCmd.Process.Pid).Info("static responder started")

	for i := 0; i < s.cfg.Workers; i++ {
		cmd, err := spawnWorker(s.cfg, i, s.delegationPath, listenerFD)
		if err != nil {
			return fmt.Errorf("supervisor: spawning worker %d: %w", i, err)
		}
		s.workerCmds = append(s.workerCmds, cmd)
		s.pool.SetWorker(i, cmd.Process.Pid)
		s.log.WithFields(logrus.Fields{"index": i, "pid": cmd.Process.Pid}).Info("worker started")
	}
	return nil
}

// teardown signals every recorded pid and waits up to shutdownGrace for
// them to exit (spec.md §5 "the supervisor signals every worker and the
// static responder, then waits for them to exit before exiting itself").
func (s *Supervisor) teardown() {
	if s.admin != nil {
		ctx, cancel := shutdownContext()
		defer cancel()
		if err := s.admin.Shutdown(ctx); err != nil {
			s.log.WithError(err).Warn("admin sidecar shutdown error")
		}
	}

	for _, pid := range s.pool.AllPIDs() {
		if err := syscall.Kill(pid, syscall.SIGTERM); err != nil {
			s.log.WithError(err).WithField("pid", pid).Warn("signaling child")
		}
	}

	done := make(chan struct{})
	go func() {
		if s.staticCmd != nil {
			s.staticCmd.Wait()
		}
		for _, cmd := range s.workerCmds {
			cmd.Wait()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(shutdownGrace):
		s.log.Warn("timed out waiting for children to exit")
	}
}

// adminPort derives the admin sidecar's port from the main listen port by
// adding 1000, so a single Server config needs no separate admin-port flag.
func adminPort(mainPort string) string {
	n, err := strconv.Atoi(mainPort)
	if err != nil {
		return "9080"
	}
	return strconv.Itoa(n + 1000)
}

func shutdownContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}
