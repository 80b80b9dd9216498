package mimetable

import "testing"

func TestLookup(t *testing.T) {
	cases := map[string]string{
		"index.html":     "text/html",
		"a.b.c.htm":      "text/html",
		"style.css":      "text/css",
		"app.js":         "application/javascript",
		"data.json":      "application/json",
		"pic.png":        "image/png",
		"pic.jpg":        "image/jpeg",
		"pic.jpeg":       "image/jpeg",
		"pic.gif":        "image/gif",
		"vector.svg":     "image/svg+xml",
		"fav.ico":        "image/x-icon",
		"readme.txt":     "text/plain",
		"doc.xml":        "application/xml",
		"noext":          DefaultType,
		"file.unknownxt": DefaultType,
		"file.HTML":      DefaultType, // case-sensitive, unknown as-is
	}
	for path, want := range cases {
		if got := Lookup(path); got != want {
			t.Errorf("Lookup(%q) = %q, want %q", path, got, want)
		}
	}
}
