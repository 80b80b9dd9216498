package staticsvc

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestServeFileSuccess(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "x.txt"), []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := ServeFile(&buf, "/static/x.txt", "/static", dir); err != nil {
		t.Fatalf("ServeFile: %v", err)
	}
	got := buf.String()
	want := "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: 3\r\n\r\nabc"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestServeFileNotFound(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	if err := ServeFile(&buf, "/static/missing.txt", "/static", dir); err != nil {
		t.Fatalf("ServeFile: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "HTTP/1.1 404 Not Found\r\n") {
		t.Errorf("got %q", buf.String())
	}
	if !strings.HasSuffix(buf.String(), "404 Not Found") {
		t.Errorf("got %q", buf.String())
	}
}

func TestServeFileTraversalIs404(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	if err := ServeFile(&buf, "/static/../etc/passwd", "/static", dir); err != nil {
		t.Fatalf("ServeFile: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "HTTP/1.1 404 Not Found\r\n") {
		t.Errorf("got %q", buf.String())
	}
}

func TestServeFileDirectoryIs404(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := ServeFile(&buf, "/static/sub", "/static", dir); err != nil {
		t.Fatalf("ServeFile: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "HTTP/1.1 404 Not Found\r\n") {
		t.Errorf("got %q", buf.String())
	}
}
