// Package appruntime defines the narrow contract between the worker and the
// embedded application callable (spec.md §4.5, §9 design note). The core
// dispatch fabric is runtime-agnostic: it knows only this interface.
package appruntime

import "context"

// Application is the trait-like abstraction spec.md §9 asks for in place of
// the original's manual scripting-stack discipline. A single
// implementation backs one worker process for its entire lifetime.
type Application interface {
	// Handle invokes the application callable for one connection. method,
	// target and version are the parsed request-line fields; rest is every
	// byte of the worker's first read that followed the first CRLF. The
	// returned byte slice is a complete, already-framed HTTP response; it is
	// written to the client verbatim.
	Handle(ctx context.Context, method, target, version, rest []byte) ([]byte, error)

	// Close releases any resources the runtime holds (loaded plugin,
	// subprocess, interpreter state). Called once at worker shutdown.
	Close() error
}

// Loader constructs an Application from a module specifier and a callable
// name (spec.md §3's "application specifier"). Exactly one Loader
// implementation is selected per process at startup; which one is a
// deployment choice, not a core-dispatch concern.
type Loader interface {
	Load(module, callable string) (Application, error)
}
