// Package proxyproto parses the PROXY protocol v1 header
// (https://www.haproxy.org/download/1.8/doc/proxy-protocol.txt) a load
// balancer sends immediately after opening a TCP connection, ahead of any
// application bytes, so the worker can recover the real client address
// instead of the balancer's. Only v1 (the US-ASCII form) is implemented;
// nibiru is deployed behind TCP load balancers, not the wider set of
// protocols v2's binary framing also covers.
package proxyproto

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// maxHeaderLen bounds a v1 header at 107 bytes plus the trailing CRLF, the
// worst case the spec calls out for an IPv6 address pair.
const maxHeaderLen = 107 + 2

// ErrNotProxyProtocol means the connection's first bytes are not a
// recognizable PROXY protocol v1 header.
var ErrNotProxyProtocol = errors.New("proxyproto: missing PROXY v1 signature")

// Header is the address information a v1 PROXY line carries.
type Header struct {
	Protocol string // "TCP4", "TCP6", or "UNKNOWN"
	SrcIP    net.IP
	DstIP    net.IP
	SrcPort  uint16
	DstPort  uint16
}

// byteReader is satisfied by net.Conn and anything else exposing Read.
type byteReader interface {
	Read(p []byte) (int, error)
}

// ReadV1 reads a PROXY protocol v1 header from r one byte at a time,
// stopping at the terminating CRLF. It must be called before any other
// read on the connection: the protocol requires the header be the very
// first bytes sent.
func ReadV1(r byteReader) (*Header, error) {
	var line []byte
	one := make([]byte, 1)
	for len(line) < maxHeaderLen {
		n, err := r.Read(one)
		if n == 0 || err != nil {
			return nil, fmt.Errorf("proxyproto: reading header: %w", err)
		}
		line = append(line, one[0])
		if len(line) >= 2 && line[len(line)-2] == '\r' && line[len(line)-1] == '\n' {
			return parseV1(line)
		}
	}
	return nil, fmt.Errorf("proxyproto: header exceeded %d bytes without CRLF", maxHeaderLen)
}

func parseV1(line []byte) (*Header, error) {
	s := strings.TrimSuffix(string(line), "\r\n")
	if !strings.HasPrefix(s, "PROXY ") {
		return nil, ErrNotProxyProtocol
	}

	fields := strings.Fields(s)
	if len(fields) == 2 && strings.ToUpper(fields[1]) == "UNKNOWN" {
		return &Header{Protocol: "UNKNOWN"}, nil
	}
	if len(fields) != 6 {
		return nil, fmt.Errorf("proxyproto: expected 6 fields, got %d", len(fields))
	}

	protocol := strings.ToUpper(fields[1])
	if protocol != "TCP4" && protocol != "TCP6" {
		return nil, fmt.Errorf("proxyproto: unsupported protocol %q", fields[1])
	}

	srcIP := net.ParseIP(fields[2])
	if srcIP == nil {
		return nil, fmt.Errorf("proxyproto: invalid source address %q", fields[2])
	}
	dstIP := net.ParseIP(fields[3])
	if dstIP == nil {
		return nil, fmt.Errorf("proxyproto: invalid destination address %q", fields[3])
	}

	srcPort, err := parsePort(fields[4])
	if err != nil {
		return nil, fmt.Errorf("proxyproto: invalid source port: %w", err)
	}
	dstPort, err := parsePort(fields[5])
	if err != nil {
		return nil, fmt.Errorf("proxyproto: invalid destination port: %w", err)
	}

	return &Header{
		Protocol: protocol,
		SrcIP:    srcIP,
		DstIP:    dstIP,
		SrcPort:  srcPort,
		DstPort:  dstPort,
	}, nil
}

func parsePort(s string) (uint16, error) {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, err
	}
	return uint16(n), nil
}
