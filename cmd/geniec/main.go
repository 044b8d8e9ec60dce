// Command geniec is a thin CLI harness around package genie: it loads a
// JSON-described System and runs it through Compile, mirroring the way
// cmd/main.go in the teacher wraps the core caddy package in a cobra
// command tree (it is explicitly not GENIE's scripting/object-construction
// front end, out of scope per spec.md §1).
package main

import (
	"fmt"
	"os"

	"github.com/jonathanscottrose/genie/internal/cli"
)

func main() {
	root := cli.NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
