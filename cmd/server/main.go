// Standalone server entry point. The keysncaps CLI's "serve" command is the
// usual way to run the backend; this binary exists for container images that
// only need the HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/keysncaps/keysncaps/internal/server"
)

func main() {
	if err := server.Start(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
