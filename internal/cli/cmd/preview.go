package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/popframe/internal/domain/entity"
	"github.com/bnema/popframe/internal/infrastructure/config"
	"github.com/bnema/popframe/internal/infrastructure/scripting"
	"github.com/bnema/popframe/internal/logging"
	"github.com/bnema/popframe/internal/ui/preview"
)

var previewScript string

var previewCmd = &cobra.Command{
	Use:   "preview <document>",
	Short: "Read a footnoted document with hover previews",
	Long: `Open a plain-text document in the terminal. Footnote references
written as [^id] open a frame with the note when the pointer rests on
them; notes may reference further notes.

Notes are defined on their own line as "[^id]: text", with indented
continuation lines. A first line starting with "# " is the title.

Mouse: hover a reference to preview it, drag a title bar to move and pin
a frame, drag a pinned frame's border to resize it, double-click a title
bar to collapse it. Escape closes the focused frame; tiling keys (see
'popframe keys') zoom it. Logs go to a file in the log directory.

Examples:
  popframe preview notes.txt
  popframe preview notes.txt --script notes.js`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().StringVar(&previewScript, "script", "", "JavaScript content provider (overrides preview.script)")
}

func runPreview(_ *cobra.Command, args []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}
	logPath, err := app.LogToFile("preview.log")
	if err != nil {
		return err
	}
	ctx := app.Ctx()
	log := logging.FromContext(ctx)
	log.Info().Str("document", args[0]).Str("log", logPath).Msg("starting preview")

	doc, err := preview.LoadDocument(args[0])
	if err != nil {
		return err
	}

	keys, err := app.TilingKeysUC.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("tiling keys unavailable, only Escape is bound")
		keys = entity.TilingKeys{}
	}

	var script *scripting.Provider
	scriptPath := previewScript
	if scriptPath == "" {
		scriptPath = app.Config.Preview.Script
	}
	if scriptPath != "" {
		if script, err = scripting.Load(ctx, scriptPath); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p, err := preview.NewProgram(ctx, doc, preview.Options{
		Config:     app.Config,
		TilingKeys: keys,
		Script:     script,
		Theme:      app.Theme,
	})
	if err != nil {
		return err
	}

	// The manager only notifies for configurations that validate. Keep
	// the latest one while the program is busy.
	reloads := make(chan *config.Config, 1)
	app.ConfigMgr.OnConfigChange(func(cfg *config.Config) {
		select {
		case <-reloads:
		default:
		}
		reloads <- cfg
	})
	if err := app.ConfigMgr.Watch(ctx); err != nil {
		log.Warn().Err(err).Msg("config watching unavailable")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return p.Run()
	})
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case cfg := <-reloads:
				p.ApplyConfig(cfg)
			}
		}
	})

	err = g.Wait()
	log.Info().Err(err).Msg("preview closed")
	return err
}
