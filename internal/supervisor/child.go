package supervisor

import (
	"fmt"
	"net"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mblayman/nibiru/internal/appruntime"
	"github.com/mblayman/nibiru/internal/logging"
	"github.com/mblayman/nibiru/internal/staticsvc"
	"github.com/mblayman/nibiru/internal/telemetry"
	"github.com/mblayman/nibiru/internal/worker"
)

// WorkerChildConfig holds the flags a re-exec'd worker child parses out of
// its own argv (internalflags.go); it never reads the supervisor's original
// Server config because it isn't a child of that in-process value, only of
// the re-exec'd binary.
type WorkerChildConfig struct {
	Index              int
	AppModule          string
	AppCallable        string
	StaticURLPrefix    string
	DelegationPath     string
	TrustProxyProtocol bool
}

// RunWorkerChild is the entry point internal/cli calls when argv carries
// --nibiru-internal-role=worker. It reconstructs the shared listening
// socket from fd 3, loads the application plugin, and runs the worker's
// accept loop until the process is signaled to stop.
func RunWorkerChild(cfg WorkerChildConfig) error {
	log := logging.New("worker", cfg.Index)

	ln, err := net.FileListener(os.NewFile(uintptr(childFD), "shared-listener"))
	if err != nil {
		return fmt.Errorf("worker child: reconstructing listener from fd %d: %w", childFD, err)
	}

	if exe, exeErr := os.Executable(); exeErr == nil {
		appruntime.AugmentPluginPath(exe)
	} else {
		log.WithError(exeErr).Warn("worker child: resolving own executable path for plugin-path augmentation")
	}

	loader := appruntime.PluginLoader{}
	app, err := loader.Load(cfg.AppModule, cfg.AppCallable)
	if err != nil {
		return fmt.Errorf("worker child: loading application %q: %w", cfg.AppModule, err)
	}
	defer app.Close()

	reg := prometheus.NewRegistry()
	metrics := telemetry.NewCollectors(reg)

	w := &worker.Worker{
		Listener:           ln,
		DelegationPath:     cfg.DelegationPath,
		StaticURLPrefix:    cfg.StaticURLPrefix,
		App:                app,
		Log:                log,
		Metrics:            metrics,
		TrustProxyProtocol: cfg.TrustProxyProtocol,
	}

	installStopSignal(func() {
		log.Info("worker received shutdown signal")
		w.Shutdown()
		ln.Close()
	})

	log.Info("worker ready")
	return w.Run()
}

// StaticChildConfig holds the flags a re-exec'd static responder child
// parses out of its own argv.
type StaticChildConfig struct {
	Root      string
	URLPrefix string
	UseEpoll  bool
}

// RunStaticChild is the entry point internal/cli calls when argv carries
// --nibiru-internal-role=static.
func RunStaticChild(cfg StaticChildConfig) error {
	log := logging.New("static", -1)

	f := os.NewFile(uintptr(childFD), "delegation-listener")
	fl, err := net.FileListener(f)
	if err != nil {
		return fmt.Errorf("static child: reconstructing delegation listener from fd %d: %w", childFD, err)
	}
	ul, ok := fl.(*net.UnixListener)
	if !ok {
		return fmt.Errorf("static child: inherited listener at fd %d is not a Unix listener", childFD)
	}

	r := &staticsvc.Responder{
		Listener:  ul,
		Root:      cfg.Root,
		URLPrefix: cfg.URLPrefix,
		UseEpoll:  cfg.UseEpoll,
		Log:       log,
	}

	installStopSignal(func() {
		log.Info("static responder received shutdown signal")
		ul.Close()
	})

	log.Info("static responder ready")
	return r.Run()
}
