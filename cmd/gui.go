package cmd

import (
	fyneapp "fyne.io/fyne/v2/app"

	"fyne.io/fyne/v2"
	"github.com/spf13/cobra"

	"github.com/TEL1N/pokemon-adb-bot/app/control"
	"github.com/TEL1N/pokemon-adb-bot/internal/search"
)

var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Open the desktop control panel",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, _ := cmd.Flags().GetString("config")
		adbPath, _ := cmd.Flags().GetString("adb")
		dbPath, _ := cmd.Flags().GetString("progress-db")
		scan, _ := cmd.Flags().GetString("scan")

		mode := search.ScanBottom
		if scan == "stepwise" {
			mode = search.ScanStepwise
		}

		myApp := fyneapp.New()
		myWindow := myApp.NewWindow("Pocket Reward Grinder")
		myWindow.Resize(fyne.NewSize(500, 600))
		myWindow.SetContent(control.NewControlPanel(control.Options{
			ConfigPath: cfgPath,
			ADBPath:    adbPath,
			ProgressDB: dbPath,
			Mode:       mode,
		}))
		myWindow.ShowAndRun()
		return nil
	},
}
