// Command dirtree displays a directory tree annotated with sizes.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/dirtree/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
//
//nolint:gochecknoglobals // Build-time variable
var version = "unknown - unofficial & generated by unknown"

func main() {
	if err := cli.New(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "dirtree: %v\n", err)
		os.Exit(1)
	}
}
