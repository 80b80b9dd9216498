//go:build !linux

package staticsvc

import (
	"io"
	"os"
)

// copyFile copies f's bytes to w using the portable chunked path; the
// zero-copy sendfile(2) fast path in sendfile_linux.go is Linux-only.
func copyFile(w io.Writer, f *os.File, size int64) error {
	return copyChunked(w, f)
}
