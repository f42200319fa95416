package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/popframe/internal/simulate"
)

var simulateOutput string

var simulateCmd = &cobra.Command{
	Use:   "simulate <scenario.yaml>",
	Short: "Replay a scripted hover session",
	Long: `Replay pointer and keyboard input against the pop-frame engine on a
virtual clock and print one line per event: spawns, despawns, frame
rects and expectation results. The command fails when an expectation
does not hold.

Examples:
  popframe simulate hover.yaml
  popframe simulate hover.yaml -o replay.log`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().StringVarP(&simulateOutput, "output", "o", "", "write the event log to a file instead of stdout")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	sc, err := simulate.Load(args[0])
	if err != nil {
		return err
	}

	result, runErr := simulate.Run(app.Ctx(), sc)
	if result == nil {
		return runErr
	}

	var out io.Writer = cmd.OutOrStdout()
	if simulateOutput != "" {
		f, err := os.Create(simulateOutput)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", simulateOutput, err)
		}
		defer f.Close()
		out = f
	}
	if _, err := result.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write event log: %w", err)
	}
	return runErr
}
