package worker

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"
)

// fakeApp is a stub appruntime.Application used to exercise the worker's
// dispatch logic without a real plugin-backed runtime.
type fakeApp struct {
	resp []byte
	err  error
}

func (a *fakeApp) Handle(ctx context.Context, method, target, version, rest []byte) ([]byte, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.resp, nil
}

func (a *fakeApp) Close() error { return nil }

func startWorker(t *testing.T, app *fakeApp) (addr string, w *Worker) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	w = &Worker{
		Listener:        ln,
		StaticURLPrefix: "/static",
		App:             app,
	}
	go w.Run()
	return ln.Addr().String(), w
}

func roundTrip(t *testing.T, addr, request string) string {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	if _, err := conn.Write([]byte(request)); err != nil {
		t.Fatal(err)
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	reader := bufio.NewReader(conn)
	buf := make([]byte, 4096)
	n, _ := reader.Read(buf)
	return string(buf[:n])
}

func TestWorkerServesAppResponse(t *testing.T) {
	app := &fakeApp{resp: []byte("HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nhello")}
	addr, w := startWorker(t, app)
	defer w.Listener.Close()

	got := roundTrip(t, addr, "GET /hello HTTP/1.1\r\n\r\n")
	want := "HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nhello"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWorkerNotStaticInvokesApp(t *testing.T) {
	app := &fakeApp{resp: []byte("HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nok")}
	addr, w := startWorker(t, app)
	defer w.Listener.Close()

	got := roundTrip(t, addr, "POST /api HTTP/1.1\r\nContent-Length: 0\r\n\r\n")
	if got == "" {
		t.Fatal("empty response")
	}
	if got[:15] != "HTTP/1.1 200 OK" {
		t.Errorf("got %q", got)
	}
}

func TestWorkerUnsupportedMethod(t *testing.T) {
	addr, w := startWorker(t, &fakeApp{})
	defer w.Listener.Close()

	got := roundTrip(t, addr, "FROBNICATE / HTTP/1.1\r\n\r\n")
	want := "HTTP/1.1 501 Not Implemented\r\n\r\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWorkerUnsupportedVersion(t *testing.T) {
	addr, w := startWorker(t, &fakeApp{})
	defer w.Listener.Close()

	got := roundTrip(t, addr, "GET / HTTP/2.0\r\n\r\n")
	want := "HTTP/1.1 505 HTTP Version Not Supported\r\n\r\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWorkerMalformedRequest(t *testing.T) {
	addr, w := startWorker(t, &fakeApp{})
	defer w.Listener.Close()

	got := roundTrip(t, addr, "GET / HTTP/1.1")
	want := "HTTP/1.1 400 Bad Request\r\n\r\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWorkerAppError(t *testing.T) {
	app := &fakeApp{err: context.DeadlineExceeded}
	addr, w := startWorker(t, app)
	defer w.Listener.Close()

	got := roundTrip(t, addr, "GET / HTTP/1.1\r\n\r\n")
	want := "HTTP/1.1 500 Internal Server Error\r\n\r\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
