// Command nibiru serves an application callable over HTTP/1.1 using a
// prefork supervisor, a shared worker pool, and a separate static file
// responder. See spec.md for the wire protocol and process architecture.
package main

import "github.com/mblayman/nibiru/internal/cli"

func main() {
	cli.Execute()
}
