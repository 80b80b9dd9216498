package frame

import "testing"

func TestRoundTrip(t *testing.T) {
	buf := Encode("GET", "/static/x.txt", 42)
	method, target, fd, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if method != "GET" {
		t.Errorf("method = %q", method)
	}
	if target != "/static/x.txt" {
		t.Errorf("target = %q", target)
	}
	if fd != 42 {
		t.Errorf("fd = %d, want 42", fd)
	}
}

func TestRoundTripEmptyTarget(t *testing.T) {
	buf := Encode("GET", "", 0)
	method, target, fd, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if method != "GET" || target != "" || fd != 0 {
		t.Errorf("got (%q, %q, %d)", method, target, fd)
	}
}

func TestDecodeTruncated(t *testing.T) {
	cases := [][]byte{
		{},
		[]byte("GET"),
		[]byte("GET\x00"),
		[]byte("GET\x00/x"),
		[]byte("GET\x00/x\x00\x01\x02"),
	}
	for _, c := range cases {
		if _, _, _, err := Decode(c); err != ErrTruncated {
			t.Errorf("Decode(%q) err = %v, want ErrTruncated", c, err)
		}
	}
}
