package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reoring/jsonform/framework"
)

func newFrameworksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "frameworks",
		Short: "List the built-in frameworks and their themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := framework.NewRegistry()
			w := cmd.OutOrStdout()
			for _, name := range reg.Names() {
				if err := reg.SetFramework(name); err != nil {
					return err
				}
				var themes []string
				for _, t := range reg.Themes() {
					themes = append(themes, t.Name)
				}
				line := name
				if len(themes) > 0 {
					line += "\tthemes: " + strings.Join(themes, ", ")
				}
				if _, err := fmt.Fprintln(w, line); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
