// Command pyjinn runs a pre-parsed Pyjinn AST file: a thin main.go
// delegating to a cmd package built on cobra.
package main

import (
	"fmt"
	"os"

	"github.com/maxuser0/pyjinn/cmd/pyjinn/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
