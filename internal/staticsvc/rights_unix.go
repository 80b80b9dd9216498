//go:build !windows

package staticsvc

import (
	"errors"

	"golang.org/x/sys/unix"
)

// errNoRights is returned when oob contains no SCM_RIGHTS control message.
var errNoRights = errors.New("staticsvc: no SCM_RIGHTS control message present")

// parseUnixRights extracts the descriptors carried in a raw ancillary-data
// buffer produced by ReadMsgUnix.
func parseUnixRights(oob []byte) ([]int, error) {
	msgs, err := unix.ParseSocketControlMessage(oob)
	if err != nil {
		return nil, err
	}
	for _, m := range msgs {
		fds, err := unix.ParseUnixRights(&m)
		if err != nil {
			continue
		}
		if len(fds) > 0 {
			return fds, nil
		}
	}
	return nil, errNoRights
}
