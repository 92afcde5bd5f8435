package version

import (
	"fmt"
	"io"
	"os"
)

var (
	// Package is filled at link time.
	Package = "github.com/dcos/portassign"

	// Version is filled at link time from git describe.
	Version = "v0.1.0+unknown"

	// Revision is filled at link time with the git commit.
	Revision = ""
)

// FprintVersion writes the name, package, version and revision to w.
func FprintVersion(w io.Writer) {
	fmt.Fprintln(w, os.Args[0], Package, Version, Revision)
}

// PrintVersion writes the version information to stdout.
func PrintVersion() {
	FprintVersion(os.Stdout)
}
