package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string
	cmd := &cobra.Command{
		Use:           "jsonform",
		Short:         "Compile JSON Schema forms",
		Long:          "jsonform builds the layout, control templates and validated data of a JSON Schema form.\nForm options are read from JSONFORM_* environment variables and --option flags.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	cmd.AddCommand(newCompileCmd(&logLevel), newFrameworksCmd())
	return cmd
}
