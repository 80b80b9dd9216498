package reqline

import "testing"

func TestParseValidGet(t *testing.T) {
	buf := []byte("GET / HTTP/1.1\r\n\r\n")
	line, status := Parse(buf, len(buf))
	if status != OK {
		t.Fatalf("status = %v, want OK", status)
	}
	if string(line.Method) != "GET" {
		t.Errorf("method = %q", line.Method)
	}
	if string(line.Target) != "/" {
		t.Errorf("target = %q", line.Target)
	}
	if string(line.Version) != "HTTP/1.1" {
		t.Errorf("version = %q", line.Version)
	}
}

func TestParseValidPost(t *testing.T) {
	buf := []byte("POST /api HTTP/1.1\r\nContent-Length: 0\r\n\r\n")
	line, status := Parse(buf, len(buf))
	if status != OK {
		t.Fatalf("status = %v, want OK", status)
	}
	if string(line.Target) != "/api" {
		t.Errorf("target = %q", line.Target)
	}
}

func TestParseNoTerminator(t *testing.T) {
	buf := []byte("GET / HTTP/1.1")
	_, status := Parse(buf, len(buf))
	if status != NoTerminator {
		t.Fatalf("status = %v, want NoTerminator", status)
	}
}

func TestParseLeadingWhitespace(t *testing.T) {
	buf := []byte(" GET / HTTP/1.1\r\n\r\n")
	_, status := Parse(buf, len(buf))
	if status != LeadingWhitespace {
		t.Fatalf("status = %v, want LeadingWhitespace", status)
	}
}

func TestParseEmptyLine(t *testing.T) {
	buf := []byte("\r\n")
	_, status := Parse(buf, len(buf))
	if status != LeadingWhitespace {
		t.Fatalf("status = %v, want LeadingWhitespace", status)
	}
}

func TestParseNoTarget(t *testing.T) {
	buf := []byte("GET \r\n\r\n")
	_, status := Parse(buf, len(buf))
	if status != NoTarget {
		t.Fatalf("status = %v, want NoTarget", status)
	}
}

func TestParseNoVersion(t *testing.T) {
	buf := []byte("GET /\r\n\r\n")
	_, status := Parse(buf, len(buf))
	if status != NoVersion {
		t.Fatalf("status = %v, want NoVersion", status)
	}
}

func TestParseUnsupportedMethod(t *testing.T) {
	buf := []byte("FROBNICATE / HTTP/1.1\r\n\r\n")
	_, status := Parse(buf, len(buf))
	if status != UnsupportedMethod {
		t.Fatalf("status = %v, want UnsupportedMethod", status)
	}
}

func TestParseUnsupportedVersion(t *testing.T) {
	buf := []byte("GET / HTTP/2.0\r\n\r\n")
	_, status := Parse(buf, len(buf))
	if status != UnsupportedVersion {
		t.Fatalf("status = %v, want UnsupportedVersion", status)
	}
}

func TestParseInvalidCRLF(t *testing.T) {
	buf := []byte("GET / HTTP/1.1\rJUNK\r\n")
	_, status := Parse(buf, len(buf))
	if status != InvalidCRLF {
		t.Fatalf("status = %v, want InvalidCRLF", status)
	}
}

func TestParseWrongCaseMethod(t *testing.T) {
	buf := []byte("get / HTTP/1.1\r\n\r\n")
	_, status := Parse(buf, len(buf))
	if status != UnsupportedMethod {
		t.Fatalf("status = %v, want UnsupportedMethod", status)
	}
}

func TestParseAllMethods(t *testing.T) {
	for m := range SupportedMethods {
		buf := []byte(m + " / HTTP/1.1\r\n\r\n")
		_, status := Parse(buf, len(buf))
		if status != OK {
			t.Errorf("method %q: status = %v, want OK", m, status)
		}
	}
}

func TestParseMutualExclusivity(t *testing.T) {
	cases := [][]byte{
		[]byte("GET / HTTP/1.1"),
		[]byte(" GET / HTTP/1.1\r\n\r\n"),
		[]byte("GET\r\n\r\n"),
		[]byte("GET \r\n\r\n"),
		[]byte("GET / \r\n\r\n"),
		[]byte("GET / HTTP/1.1\r\n\r\n"),
		[]byte("FOO / HTTP/1.1\r\n\r\n"),
		[]byte("GET / HTTP/2.0\r\n\r\n"),
	}
	seen := map[Status]bool{}
	for _, c := range cases {
		_, status := Parse(c, len(c))
		seen[status] = true
	}
	if len(seen) < 5 {
		t.Errorf("expected a good spread of distinct statuses, got %d: %v", len(seen), seen)
	}
}

func TestRestAfterFirstLine(t *testing.T) {
	buf := []byte("GET / HTTP/1.1\r\nHost: x\r\n\r\nbody")
	rest := RestAfterFirstLine(buf, len(buf))
	if string(rest) != "Host: x\r\n\r\nbody" {
		t.Errorf("rest = %q", rest)
	}
}

func TestRestAfterFirstLineNoTerminator(t *testing.T) {
	buf := []byte("GET / HTTP/1.1")
	rest := RestAfterFirstLine(buf, len(buf))
	if rest != nil {
		t.Errorf("rest = %q, want nil", rest)
	}
}

func TestBoundaryExactBufferSize(t *testing.T) {
	// A request line filling the buffer exactly up to the terminator must
	// not read past n.
	buf := make([]byte, 16)
	copy(buf, []byte("GET / HTTP/1.1\r\n"))
	line, status := Parse(buf, 16)
	if status != OK {
		t.Fatalf("status = %v, want OK", status)
	}
	if string(line.Target) != "/" {
		t.Errorf("target = %q", line.Target)
	}
}
