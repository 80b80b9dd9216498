package worker

import "io"

// writeStatus writes a bare status-line-plus-blank-line response with no
// body, matching spec.md §8 scenarios 5 and 6 exactly ("client receives
// HTTP/1.1 501 Not Implemented\r\n\r\n").
func writeStatus(w io.Writer, statusLine string) error {
	_, err := io.WriteString(w, "HTTP/1.1 "+statusLine+"\r\n\r\n")
	return err
}

const (
	statusBadRequest       = "400 Bad Request"
	statusNotImplemented   = "501 Not Implemented"
	statusVersionUnsupport = "505 HTTP Version Not Supported"
	statusInternalError    = "500 Internal Server Error"
)
