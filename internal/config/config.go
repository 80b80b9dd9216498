// Package config holds the immutable Server Configuration built once from
// parsed CLI flags (spec.md §3).
package config

import (
	"fmt"
	"strings"
)

// Server is the immutable-after-startup configuration for one supervisor
// process and everything it spawns.
type Server struct {
	// Port is the listen port as a string, e.g. "8080"; the listener binds
	// ":"+Port.
	Port string
	// Workers is the size of the worker pool.
	Workers int
	// StaticRoot is the filesystem directory static requests resolve under.
	StaticRoot string
	// StaticURLPrefix is the URL path prefix that marks a request static.
	StaticURLPrefix string
	// AppModule is the module half of the application specifier
	// ("module.path:callable").
	AppModule string
	// AppCallable is the callable half, defaulting to "app".
	AppCallable string
	// Upgradeable opts into tableflip-based zero-downtime binary upgrades.
	Upgradeable bool
	// TrustProxyProtocol opts every worker into expecting a PROXY protocol
	// v1 header ahead of the HTTP request line.
	TrustProxyProtocol bool
}

const (
	DefaultPort            = "8080"
	DefaultWorkers         = 2
	DefaultStaticRoot      = "static"
	DefaultStaticURLPrefix = "/static"
	DefaultAppCallableName = "app"
)

// ParseAppSpecifier splits "module.path:callable" into its two halves. When
// no ":callable" suffix is present, the callable half defaults to "app".
func ParseAppSpecifier(spec string) (module, callable string, err error) {
	if spec == "" {
		return "", "", fmt.Errorf("config: empty application specifier")
	}
	if idx := strings.LastIndexByte(spec, ':'); idx >= 0 {
		module = spec[:idx]
		callable = spec[idx+1:]
		if module == "" {
			return "", "", fmt.Errorf("config: empty module in application specifier %q", spec)
		}
		if callable == "" {
			callable = DefaultAppCallableName
		}
		return module, callable, nil
	}
	return spec, DefaultAppCallableName, nil
}
