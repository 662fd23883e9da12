package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version is overwritten by -ldflags at release build time.
	Version = "0.1.0-dev"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "pyjinn",
	Short: "Pyjinn AST interpreter",
	Long: `pyjinn runs a pre-parsed Pyjinn AST: a Python-subset scripting
language whose programs are compiled elsewhere into a JSON syntax tree
and handed to this interpreter to execute against a host-interop
runtime.`,
	Version: Version,
}

// Execute runs the root command; main.go's only job is to report its
// returned error and set the process exit code.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("pyjinn version %s\n", Version))
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose diagnostic output")
}
