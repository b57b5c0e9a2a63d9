// Package cmd implements the CLI surface: one optional script-path
// argument, loaded before the REPL starts.
package cmd

import (
	"fmt"
	"os"

	"github.com/bmatsuo/golisp/lisp"
	"github.com/bmatsuo/golisp/parser"
	"github.com/bmatsuo/golisp/repl"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "golisp [script]",
	Short: "A small homoiconic Lisp interpreter",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env := lisp.NewRoot(lisp.WithReader(parser.NewReader()))

		if len(args) == 1 {
			if result := env.LoadFile(args[0]); lisp.Eq(result, lisp.Nil()) {
				return fmt.Errorf("could not load %s", args[0])
			}
		}

		if !isatty.IsTerminal(os.Stdin.Fd()) {
			return nil
		}
		return repl.Run(env)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
