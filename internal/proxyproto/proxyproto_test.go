package proxyproto

import (
	"bytes"
	"testing"
)

func TestReadV1TCP4(t *testing.T) {
	r := bytes.NewBufferString("PROXY TCP4 192.168.1.1 192.168.1.2 56324 443\r\nGET / HTTP/1.1\r\n\r\n")
	h, err := ReadV1(r)
	if err != nil {
		t.Fatalf("ReadV1: %v", err)
	}
	if h.Protocol != "TCP4" {
		t.Errorf("Protocol = %q, want TCP4", h.Protocol)
	}
	if h.SrcIP.String() != "192.168.1.1" {
		t.Errorf("SrcIP = %v", h.SrcIP)
	}
	if h.SrcPort != 56324 || h.DstPort != 443 {
		t.Errorf("ports = %d/%d", h.SrcPort, h.DstPort)
	}
	rest := make([]byte, r.Len())
	r.Read(rest)
	if string(rest) != "GET / HTTP/1.1\r\n\r\n" {
		t.Errorf("leftover bytes corrupted: %q", rest)
	}
}

func TestReadV1Unknown(t *testing.T) {
	r := bytes.NewBufferString("PROXY UNKNOWN\r\n")
	h, err := ReadV1(r)
	if err != nil {
		t.Fatalf("ReadV1: %v", err)
	}
	if h.Protocol != "UNKNOWN" {
		t.Errorf("Protocol = %q, want UNKNOWN", h.Protocol)
	}
}

func TestReadV1NotProxyProtocol(t *testing.T) {
	r := bytes.NewBufferString("GET / HTTP/1.1\r\n\r\n")
	if _, err := ReadV1(r); err == nil {
		t.Fatal("expected error for non-PROXY input")
	}
}

func TestReadV1BadPort(t *testing.T) {
	r := bytes.NewBufferString("PROXY TCP4 1.2.3.4 1.2.3.5 99999 443\r\n")
	if _, err := ReadV1(r); err == nil {
		t.Fatal("expected error for out-of-range port")
	}
}
