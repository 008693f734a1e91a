// Command hwpxspec extracts a style-resolved document specification from HWPX files.
package main

import (
	"os"

	"github.com/roboco-io/hwpxspec/internal/cli"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	cli.SetVersion(Version)
	os.Exit(cli.Main())
}
