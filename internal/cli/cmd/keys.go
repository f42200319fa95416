package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/popframe/internal/cli/styles"
	"github.com/bnema/popframe/internal/domain/entity"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage tiling control keys",
	Long: `Tiling keys act on the focused frame: the n-th key of the binding
string triggers the n-th action (zoom left, bottom, top, right, the four
corners, full screen, toggle pin, toggle collapse). With no stored
binding, tiling keys are off and only Escape is handled.`,
}

var keysGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the stored bindings",
	RunE:  runKeysGet,
}

var keysSetCmd = &cobra.Command{
	Use:   "set [keys]",
	Short: "Store a binding string",
	Long: `Store a binding string. Without an argument the defaults ("` + entity.DefaultTilingKeys + `")
are enabled.

Examples:
  popframe keys set             # enable the defaults
  popframe keys set hjklyubnfpc # vi-style`,
	Args: cobra.MaximumNArgs(1),
	RunE: runKeysSet,
}

var keysDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Remove the stored bindings",
	RunE:  runKeysDisable,
}

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.AddCommand(keysGetCmd)
	keysCmd.AddCommand(keysSetCmd)
	keysCmd.AddCommand(keysDisableCmd)
}

func tilingActionNames() []string {
	actions := entity.TilingActions()
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = a.String()
	}
	return names
}

func runKeysGet(_ *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}
	renderer := styles.NewConfigRenderer(app.Theme)

	keys, err := app.TilingKeysUC.Load(app.Ctx())
	if err != nil {
		return err
	}
	fmt.Println(renderer.RenderTilingKeys(keys.String(), keys.Enabled(), tilingActionNames()))
	return nil
}

func runKeysSet(_ *cobra.Command, args []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}
	renderer := styles.NewConfigRenderer(app.Theme)

	value := ""
	if len(args) == 1 {
		value = args[0]
	}
	keys, err := app.TilingKeysUC.Save(app.Ctx(), value)
	if err != nil {
		return err
	}
	fmt.Print(renderer.RenderSaved("Tiling keys"))
	fmt.Println(renderer.RenderTilingKeys(keys.String(), keys.Enabled(), tilingActionNames()))
	return nil
}

func runKeysDisable(_ *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}
	renderer := styles.NewConfigRenderer(app.Theme)

	if err := app.TilingKeysUC.Disable(app.Ctx()); err != nil {
		return err
	}
	fmt.Println(renderer.RenderTilingKeys("", false, nil))
	return nil
}
