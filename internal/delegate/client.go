// Package delegate implements the worker side of the delegation protocol:
// dialing the Static Responder's Unix domain socket, sending a framed
// request together with the client descriptor as SCM_RIGHTS ancillary data,
// and the bounded fallback drain described in spec.md §9.
package delegate

import (
	"io"
	"net"
	"os"
	"time"

	"github.com/mblayman/nibiru/internal/frame"
)

// drainTimeout bounds how long the worker waits for the fallback-forward
// path before giving up; the delegation session is expected to close
// (EOF) immediately after writing directly to the client, so in the
// primary pattern this almost always returns instantly with zero bytes.
const drainTimeout = 2 * time.Second

// fileConn is satisfied by both *net.TCPConn and *net.UnixConn: both expose
// File(), which returns a dup'd *os.File wrapping the connection's
// descriptor, safe to pass across a sendmsg/SCM_RIGHTS call.
type fileConn interface {
	File() (*os.File, error)
}

// Send connects to the delegation socket at socketPath, sends a delegated
// request frame for method/target carrying clientConn's descriptor via
// SCM_RIGHTS, then drains and forwards any bytes the static responder writes
// back on the same session before it closes. The primary pattern (spec.md
// §9) has the responder write directly to the duplicated client descriptor
// and close the session with no payload, so drainFallback almost always returns
// immediately with zero bytes forwarded; it exists purely as a compatibility
// fallback with a hard termination condition (EOF or drainTimeout).
func Send(socketPath string, method, target string, clientConn fileConn) error {
	sess, err := net.Dial("unix", socketPath)
	if err != nil {
		return err
	}
	defer sess.Close()

	unixSess, ok := sess.(*net.UnixConn)
	if !ok {
		return os.ErrInvalid
	}

	clientFile, err := clientConn.File()
	if err != nil {
		return err
	}
	defer clientFile.Close()

	payload := frame.Encode(method, target, int32(clientFile.Fd()))

	rights := unixRights(int(clientFile.Fd()))
	if _, _, err := unixSess.WriteMsgUnix(payload, rights, nil); err != nil {
		return err
	}

	return drainFallback(unixSess, clientFile)
}

// drainFallback reads whatever bytes the responder writes back on sess (if
// any) until EOF or drainTimeout, forwarding them to client; the
// authoritative write happens directly to the client descriptor, so this
// path only matters for responder implementations that still use the legacy
// forward-back behavior documented in spec.md §9.
func drainFallback(sess *net.UnixConn, client io.Writer) error {
	_ = sess.SetReadDeadline(time.Now().Add(drainTimeout))
	buf := make([]byte, 4096)
	for {
		n, err := sess.Read(buf)
		if n > 0 {
			if _, werr := client.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			// Read deadline or any other error just ends the drain; the
			// session is released either way.
			return nil
		}
	}
}
