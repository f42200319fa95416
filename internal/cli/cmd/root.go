// Package cmd provides Cobra CLI commands for popframe.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/popframe/internal/cli"
	"github.com/bnema/popframe/internal/domain/build"
)

var (
	app       *cli.App
	buildInfo build.Info
	rootCmd   = &cobra.Command{
		Use:   "popframe",
		Short: "Hover previews that pop out of the page",
		Long: `Popframe - hover previews that pop out of the page.

Rest the pointer on a reference and a small frame opens next to it,
showing what the reference points to. Frames nest, fade when the
pointer leaves, and can be pinned, dragged, resized or zoomed to a
region of the screen.

Use 'popframe preview' to read a footnoted document in the terminal
with hover previews, or 'popframe simulate' to replay a scripted
hover session and print what the engine did.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion":
				return nil
			}

			var err error
			app, err = cli.NewApp(cmd.Context())
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			app.BuildInfo = buildInfo
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

// Execute runs the root command. Canceling ctx stops long-running
// commands.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
}

func requireApp() (*cli.App, error) {
	a := GetApp()
	if a == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	return a, nil
}
