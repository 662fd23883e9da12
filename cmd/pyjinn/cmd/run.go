package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/maxuser0/pyjinn/internal/interp"
	"github.com/maxuser0/pyjinn/pkg/pyjinn"
)

var callFunc string

var runCmd = &cobra.Command{
	Use:   "run [ast.json]",
	Short: "Decode and execute a Pyjinn AST file",
	Long: `Execute a Pyjinn program from its JSON AST representation.

Examples:
  # Run a compiled AST file
  pyjinn run program.json

  # Run, then call a top-level function and print its result
  pyjinn run --call main program.json`,
	Args: cobra.ExactArgs(1),
	RunE: runAST,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&callFunc, "call", "", "after executing top-level statements, invoke this function with no arguments and print its result")
}

func runAST(_ *cobra.Command, args []string) error {
	filename := args[0]
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	script := pyjinn.New(nil)
	if err := script.Parse(data); err != nil {
		return reportScriptError(filename, err)
	}
	if err := script.Exec(); err != nil {
		return reportScriptError(filename, err)
	}

	if callFunc != "" {
		fn, err := script.GetFunction(callFunc)
		if err != nil {
			return reportScriptError(filename, err)
		}
		result, err := script.Invoke(fn)
		if err != nil {
			return reportScriptError(filename, err)
		}
		fmt.Println(result)
	}
	return nil
}

// reportScriptError prints err's ScriptError kind/message, colorized
// when stderr is a real terminal.
func reportScriptError(filename string, err error) error {
	colorize := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	se, ok := err.(*interp.ScriptError)
	if !ok {
		if colorize {
			fmt.Fprintf(os.Stderr, "\x1b[31m%s: %v\x1b[0m\n", filename, err)
		} else {
			fmt.Fprintf(os.Stderr, "%s: %v\n", filename, err)
		}
		return fmt.Errorf("failed")
	}
	if colorize {
		fmt.Fprintf(os.Stderr, "\x1b[31m%s: %s: %s\x1b[0m\n", filename, se.Kind, se.Message)
	} else {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", filename, se.Kind, se.Message)
	}
	return fmt.Errorf("execution failed")
}
