package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TEL1N/pokemon-adb-bot/internal/search"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Force the game back to the intermediate difficulty screen",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		if wipe, _ := cmd.Flags().GetBool("progress"); wipe {
			d.store.Reset()
			fmt.Println("Progress cleared")
		}
		nav := search.NewNavigator(d.dev, d.cfg, d.log)
		return nav.UniversalReset()
	},
}

func init() {
	resetCmd.Flags().Bool("progress", false, "Also clear stored search progress for this device")
}
