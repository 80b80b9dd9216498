//go:build linux

package appruntime

import (
	"context"
	"fmt"
	"plugin"
)

// HandlerFunc is the exported-symbol shape a .so built for nibiru must
// provide: the callable itself, matching Application.Handle's signature
// minus the receiver.
type HandlerFunc func(ctx context.Context, method, target, version, rest []byte) ([]byte, error)

// pluginApplication adapts a loaded .so's exported callable to Application.
type pluginApplication struct {
	plug    *plugin.Plugin
	handler HandlerFunc
}

// PluginLoader loads module as a Go plugin (.so) and resolves callable as an
// exported symbol of type HandlerFunc, or of type interface{ Handle(...) }
// satisfying a `__call`-equivalent metatable entry in spec.md's words.
type PluginLoader struct{}

// Load implements Loader.
func (PluginLoader) Load(module, callable string) (Application, error) {
	plug, err := plugin.Open(module)
	if err != nil {
		return nil, fmt.Errorf("appruntime: opening plugin %q: %w", module, err)
	}

	sym, err := plug.Lookup(callable)
	if err != nil {
		return nil, fmt.Errorf("appruntime: looking up callable %q in %q: %w", callable, module, err)
	}

	switch v := sym.(type) {
	case HandlerFunc:
		return &pluginApplication{plug: plug, handler: v}, nil
	case func(context.Context, []byte, []byte, []byte, []byte) ([]byte, error):
		return &pluginApplication{plug: plug, handler: HandlerFunc(v)}, nil
	case interface {
		Handle(context.Context, []byte, []byte, []byte, []byte) ([]byte, error)
	}:
		// The "directly, or via a __call-equivalent" clause of spec.md §4.3:
		// the symbol may itself be a value exposing a Handle method rather
		// than a bare function.
		return &pluginApplication{plug: plug, handler: v.Handle}, nil
	default:
		return nil, fmt.Errorf("appruntime: callable %q in %q is not callable (got %T)", callable, module, sym)
	}
}

func (a *pluginApplication) Handle(ctx context.Context, method, target, version, rest []byte) ([]byte, error) {
	return a.handler(ctx, method, target, version, rest)
}

func (a *pluginApplication) Close() error {
	// plugin.Plugin exposes no Close; once loaded a .so stays mapped for the
	// life of the process. Nothing to release here.
	return nil
}
