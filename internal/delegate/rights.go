package delegate

import "golang.org/x/sys/unix"

// unixRights builds the SCM_RIGHTS ancillary-data payload carrying fd, ready
// to pass as the oob argument of (*net.UnixConn).WriteMsgUnix.
func unixRights(fd int) []byte {
	return unix.UnixRights(fd)
}
