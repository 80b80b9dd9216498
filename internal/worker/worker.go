// Package worker implements the Application Worker of spec.md §4.3: the
// accept-and-serve loop that shares the listening socket with its siblings,
// classifies each request, and either delegates it to the Static Responder
// or invokes the embedded application callable.
package worker

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mblayman/nibiru/internal/appruntime"
	"github.com/mblayman/nibiru/internal/classify"
	"github.com/mblayman/nibiru/internal/delegate"
	"github.com/mblayman/nibiru/internal/proxyproto"
	"github.com/mblayman/nibiru/internal/reqline"
	"github.com/mblayman/nibiru/internal/telemetry"
)

// ReadBufferSize is the size of the single recv the worker performs per
// connection (spec.md §4.3 step 3: "at least 10000 bytes"). The parser works
// on the length-bearing slice buf[:n], so no NUL terminator is written even
// when a read fills the whole buffer (spec.md §8 boundary behavior).
const ReadBufferSize = 10001

// Worker runs the accept loop for one application-worker process.
type Worker struct {
	Listener        net.Listener
	DelegationPath  string
	StaticURLPrefix string
	App             appruntime.Application
	Log             *logrus.Entry
	Metrics         *telemetry.Collectors

	// TrustProxyProtocol, when set, makes the worker expect a PROXY
	// protocol v1 header as the first bytes of every connection (spec.md
	// §6 deployment note: nibiru sits behind a TCP load balancer that
	// prepends one). The recovered source address is attached to the
	// connection's log lines only; it never changes dispatch behavior.
	TrustProxyProtocol bool

	shutdown atomic.Bool
}

// Shutdown sets the flag Run consults when Accept fails. It does not
// interrupt an in-flight request; that request completes at its own pace
// (spec.md §5 "no mid-request cancellation").
func (w *Worker) Shutdown() {
	w.shutdown.Store(true)
}

// Run blocks, accepting and serving connections one at a time, until Accept
// returns an error after Shutdown has been called. A connection that Accept
// returns after Shutdown is still served.
func (w *Worker) Run() error {
	for {
		conn, err := w.Listener.Accept()
		if err != nil {
			if w.shutdown.Load() {
				return nil
			}
			if isTemporary(err) {
				continue
			}
			return err
		}
		w.handleConnection(conn)
	}
}

// handleConnection implements spec.md §4.3 steps 2-7 for a single accepted
// connection. Exactly one connection is in flight at a time per worker
// (spec.md §5).
func (w *Worker) handleConnection(conn net.Conn) {
	defer conn.Close()

	if w.Metrics != nil {
		w.Metrics.ConnectionsAccepted.Inc()
	}

	log := w.Log
	if w.TrustProxyProtocol {
		hdr, err := proxyproto.ReadV1(conn)
		if err != nil {
			w.logError(log, "proxy protocol", err)
			return
		}
		if log != nil && hdr.Protocol != "UNKNOWN" {
			log = log.WithField("client_ip", hdr.SrcIP.String())
		}
	}

	buf := make([]byte, ReadBufferSize)
	n, err := conn.Read(buf)
	if err != nil {
		if err == io.EOF && n == 0 {
			// spec.md §8: an empty request closes without response.
			return
		}
		if n == 0 {
			w.logError(log, "recv", err)
			return
		}
		// Partial read followed by an error is still parsed on a
		// best-effort basis below.
	}
	if n == 0 {
		return
	}

	line, status := reqline.Parse(buf, n)
	if status.IsMalformed() {
		w.respondStatus(conn, log, statusBadRequest)
		return
	}
	switch status {
	case reqline.UnsupportedMethod:
		w.respondStatus(conn, log, statusNotImplemented)
		return
	case reqline.UnsupportedVersion:
		w.respondStatus(conn, log, statusVersionUnsupport)
		return
	}

	target := string(line.Target)

	if classify.IsStatic(target, w.StaticURLPrefix) {
		w.delegateStatic(conn, log, string(line.Method), target)
		return
	}

	rest := reqline.RestAfterFirstLine(buf, n)
	w.invokeApp(conn, log, line.Method, line.Target, line.Version, rest)
}

// delegateStatic hands the connection off to the Static Responder. The
// worker never invokes the application runtime for a static request
// (spec.md §4.3 step 5).
func (w *Worker) delegateStatic(conn net.Conn, log *logrus.Entry, method, target string) {
	if w.Metrics != nil {
		w.Metrics.StaticDelegations.Inc()
	}
	fc, ok := conn.(fileConn)
	if !ok {
		w.respondStatus(conn, log, statusInternalError)
		return
	}
	if err := delegate.Send(w.DelegationPath, method, target, fc); err != nil {
		w.logError(log, "delegate", err)
		// The delegation failed; the worker closes the client and
		// continues (spec.md §7 "Delegation failures").
	}
}

// fileConn mirrors delegate.fileConn; net.TCPConn satisfies it.
type fileConn interface {
	File() (*os.File, error)
}

// invokeApp calls the embedded application callable and writes its response
// verbatim, or a 500 if the callable errored (spec.md §4.3 step 6, §7
// "Runtime callable errors").
func (w *Worker) invokeApp(conn net.Conn, log *logrus.Entry, method, target, version, rest []byte) {
	start := time.Now()
	resp, err := w.App.Handle(context.Background(), method, target, version, rest)
	if w.Metrics != nil {
		w.Metrics.AppCallableDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		if w.Metrics != nil {
			w.Metrics.AppCallableErrors.Inc()
		}
		w.logError(log, "app callable", err)
		w.respondStatus(conn, log, statusInternalError)
		return
	}
	if _, werr := conn.Write(resp); werr != nil {
		w.logError(log, "send", werr)
	}
}

func (w *Worker) respondStatus(conn net.Conn, log *logrus.Entry, statusLine string) {
	if err := writeStatus(conn, statusLine); err != nil {
		w.logError(log, "send", err)
	}
	if w.Metrics != nil {
		w.Metrics.ResponsesByStatus.WithLabelValues(statusLine[:3]).Inc()
	}
}

func (w *Worker) logError(log *logrus.Entry, op string, err error) {
	if log != nil {
		log.WithError(err).Warnf("%s error", op)
	}
}

func isTemporary(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) {
		return ne.Temporary() //nolint:staticcheck
	}
	return false
}
