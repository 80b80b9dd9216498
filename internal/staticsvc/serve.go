package staticsvc

import (
	"fmt"
	"io"
	"os"

	"github.com/mblayman/nibiru/internal/mimetable"
)

// notFoundBody is the fixed 404 body spec.md §4.2 specifies verbatim.
const notFoundBody = "404 Not Found"

// chunkSize bounds each read/write while copying a file's bytes to the
// client, per spec.md §4.2 "copied in fixed-size chunks".
const chunkSize = 32 * 1024

// writeNotFound writes the fixed 404 response spec.md §4.2 and §8 scenario 4
// require.
func writeNotFound(w io.Writer) error {
	resp := "HTTP/1.1 404 Not Found\r\n" +
		"Content-Type: text/plain\r\n" +
		fmt.Sprintf("Content-Length: %d\r\n\r\n", len(notFoundBody)) +
		notFoundBody
	_, err := io.WriteString(w, resp)
	return err
}

// ServeFile resolves target under root/prefix and writes a complete
// HTTP/1.1 response to w: a 404 if the path cannot be opened, does not
// exist, or is not a regular file; otherwise a 200 with Content-Type,
// Content-Length and the file's bytes.
func ServeFile(w io.Writer, target, prefix, root string) error {
	fullPath, err := Resolve(target, prefix, root)
	if err != nil {
		return writeNotFound(w)
	}

	f, err := os.Open(fullPath)
	if err != nil {
		return writeNotFound(w)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		return writeNotFound(w)
	}

	mime := mimetable.Lookup(fullPath)
	header := fmt.Sprintf(
		"HTTP/1.1 200 OK\r\nContent-Type: %s\r\nContent-Length: %d\r\n\r\n",
		mime, info.Size(),
	)
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}

	return copyFile(w, f, info.Size())
}
