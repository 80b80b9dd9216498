// Package mimetable holds the fixed extension-to-MIME-type table used by the
// static responder. It is deliberately data, not code, so that extending it
// is a one-line change (spec design note: "Keep the table as data").
package mimetable

import "strings"

// table maps a lower-cased, dot-prefixed extension to its MIME type.
var table = map[string]string{
	".html": "text/html",
	".htm":  "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
	".json": "application/json",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
	".txt":  "text/plain",
	".xml":  "application/xml",
}

// DefaultType is returned for any extension not present in the table.
const DefaultType = "application/octet-stream"

// Lookup returns the MIME type for path based on its final dot-separated
// extension, matched case-sensitively against the table. Unknown extensions
// always map to DefaultType.
func Lookup(path string) string {
	idx := strings.LastIndexByte(path, '.')
	if idx < 0 {
		return DefaultType
	}
	ext := path[idx:]
	if mime, ok := table[ext]; ok {
		return mime
	}
	return DefaultType
}
