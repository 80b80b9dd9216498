package supervisor

import (
	"fmt"
	"net"

	"github.com/cloudflare/tableflip"
	"github.com/coreos/go-systemd/v22/activation"
)

// bindListener returns the single TCP listener every worker will share.
//
// When upg is non-nil (the --upgradeable path), the socket is acquired
// through upg.Fds.Listen instead: the first generation binds it normally,
// and every generation upg.Upgrade() re-execs afterward instead inherits the
// already-open descriptor from its parent. That inheritance is what makes
// the upgrade a live handoff rather than two generations racing to bind the
// same port, the same trick the tbflip experiment used for its one
// listener.
//
// Without an upgrader, systemd socket activation (LISTEN_FDS set in the
// environment) is tried first, so a unit file can hand nibiru a privileged
// port without the binary needing elevated privileges itself, falling back
// to a fresh bind.
func bindListener(upg *tableflip.Upgrader, port string) (*net.TCPListener, error) {
	if upg != nil {
		ln, err := upg.Fds.Listen("tcp", ":"+port)
		if err != nil {
			return nil, fmt.Errorf("supervisor: tableflip acquiring :%s: %w", port, err)
		}
		tl, ok := ln.(*net.TCPListener)
		if !ok {
			return nil, fmt.Errorf("supervisor: tableflip listener on :%s is not a TCP listener", port)
		}
		return tl, nil
	}

	listeners, err := activation.Listeners()
	if err != nil {
		return nil, fmt.Errorf("supervisor: querying systemd activation: %w", err)
	}
	for _, l := range listeners {
		if tl, ok := l.(*net.TCPListener); ok {
			return tl, nil
		}
	}

	ln, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return nil, fmt.Errorf("supervisor: binding :%s: %w", port, err)
	}
	tl, ok := ln.(*net.TCPListener)
	if !ok {
		return nil, fmt.Errorf("supervisor: listener on :%s is not a TCP listener", port)
	}
	return tl, nil
}
