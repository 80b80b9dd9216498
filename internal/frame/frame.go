// Package frame implements the wire layout of a delegated request frame: the
// byte payload a worker sends to the static responder over the delegation
// socket, described in spec.md §3 and §6.
//
// Layout: NUL-terminated method, NUL-terminated target, then a 4-byte legacy
// payload carrying the client descriptor as an int32 for symmetry with older
// clients. The authoritative descriptor is never carried in this payload —
// it rides along on the same sendmsg call as SCM_RIGHTS ancillary data; see
// internal/delegate and internal/staticsvc.
package frame

import (
	"bytes"
	"encoding/binary"
	"errors"
)

// ErrTruncated is returned by Decode when buf does not contain a complete
// frame.
var ErrTruncated = errors.New("frame: truncated")

// Encode writes method, target and the legacy descriptor payload into a
// single byte slice suitable for sending over the delegation socket.
func Encode(method, target string, legacyFD int32) []byte {
	buf := make([]byte, 0, len(method)+1+len(target)+1+4)
	buf = append(buf, method...)
	buf = append(buf, 0)
	buf = append(buf, target...)
	buf = append(buf, 0)
	var fdBytes [4]byte
	binary.LittleEndian.PutUint32(fdBytes[:], uint32(legacyFD))
	buf = append(buf, fdBytes[:]...)
	return buf
}

// Decode parses a frame previously produced by Encode. It returns the
// method, the target, and the legacy descriptor payload value.
func Decode(buf []byte) (method, target string, legacyFD int32, err error) {
	i := bytes.IndexByte(buf, 0)
	if i < 0 {
		return "", "", 0, ErrTruncated
	}
	method = string(buf[:i])
	rest := buf[i+1:]

	j := bytes.IndexByte(rest, 0)
	if j < 0 {
		return "", "", 0, ErrTruncated
	}
	target = string(rest[:j])
	rest = rest[j+1:]

	if len(rest) < 4 {
		return "", "", 0, ErrTruncated
	}
	legacyFD = int32(binary.LittleEndian.Uint32(rest[:4]))
	return method, target, legacyFD, nil
}
