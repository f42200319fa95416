package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/popframe/internal/cli/styles"
)

var aboutShort bool

var aboutCmd = &cobra.Command{
	Use:   "about",
	Short: "Show version and build information",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		info := app.BuildInfo.Normalize()
		if aboutShort {
			_, err = fmt.Fprintln(cmd.OutOrStdout(), info)
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), styles.NewAboutRenderer(app.Theme).Render(info))
		return err
	},
}

func init() {
	aboutCmd.Flags().BoolVarP(&aboutShort, "short", "s", false, "print a single line")
	rootCmd.AddCommand(aboutCmd)
}
