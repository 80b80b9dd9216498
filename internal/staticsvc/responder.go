package staticsvc

import (
	"net"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/mblayman/nibiru/internal/frame"
)

// oobBufSize bounds the ancillary-data buffer passed to ReadMsgUnix; it only
// ever needs to hold one SCM_RIGHTS cmsg carrying a single descriptor.
const oobBufSize = 64

// msgBufSize bounds the delegated request frame itself.
const msgBufSize = 1024

// Responder runs the Static Responder's main loop (spec.md §4.2). It
// accepts sessions on a Unix domain listener, receives one delegated
// request frame plus a duplicated client descriptor per session, serves the
// matching file (or a 404), and releases both descriptors.
type Responder struct {
	Listener  *net.UnixListener
	Root      string
	URLPrefix string
	UseEpoll  bool
	Log       *logrus.Entry
}

// Run enters the event loop and blocks until the listener is closed or an
// unrecoverable error occurs.
func (r *Responder) Run() error {
	var waiter *readinessWaiter
	if r.UseEpoll {
		rawConn, err := r.Listener.SyscallConn()
		if err == nil {
			var lfd int
			_ = rawConn.Control(func(fd uintptr) { lfd = int(fd) })
			if w, werr := newReadinessWaiter(lfd); werr == nil {
				waiter = w
				defer waiter.close()
			} else if r.Log != nil {
				r.Log.WithError(werr).Warn("epoll readiness waiter unavailable, falling back to blocking accept")
			}
		}
	}

	for {
		if waiter != nil {
			if err := waiter.wait(); err != nil {
				return err
			}
		}

		sess, err := r.Listener.AcceptUnix()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Temporary() { //nolint:staticcheck
				continue
			}
			return err
		}
		r.handleSession(sess)
	}
}

// handleSession serves exactly one delegated request and releases both the
// session descriptor and the duplicated client descriptor. No two sessions
// are processed concurrently on this goroutine (spec.md §4.2 "no
// interleaving of two in-flight static responses").
func (r *Responder) handleSession(sess *net.UnixConn) {
	defer sess.Close()

	buf := make([]byte, msgBufSize)
	oob := make([]byte, oobBufSize)

	n, oobn, _, _, err := sess.ReadMsgUnix(buf, oob)
	if err != nil {
		if r.Log != nil {
			r.Log.WithError(err).Warn("recv in static responder")
		}
		return
	}

	clientFile, ferr := extractClientFile(oob[:oobn])
	if ferr != nil {
		if r.Log != nil {
			r.Log.WithError(ferr).Warn("no client descriptor in delegated frame")
		}
		return
	}
	defer clientFile.Close()

	method, target, _, derr := frame.Decode(buf[:n])
	if derr != nil {
		if r.Log != nil {
			r.Log.WithError(derr).Warn("malformed delegated request frame")
		}
		return
	}
	_ = method // method is currently unused by the static path; retained for parity with the frame's contract.

	if err := ServeFile(clientFile, target, r.URLPrefix, r.Root); err != nil && r.Log != nil {
		r.Log.WithError(err).Debug("static responder write error")
	}
}

// extractClientFile parses oob for a single SCM_RIGHTS cmsg and returns the
// duplicated client descriptor as an *os.File. This is the authoritative
// descriptor (spec.md §3): the 4-byte legacy payload in the frame is never
// trusted for this purpose.
func extractClientFile(oob []byte) (*os.File, error) {
	fds, err := parseUnixRights(oob)
	if err != nil {
		return nil, err
	}
	return os.NewFile(uintptr(fds[0]), "delegated-client"), nil
}
