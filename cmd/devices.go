package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TEL1N/pokemon-adb-bot/internal/device"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List connected ADB devices",
	RunE: func(cmd *cobra.Command, args []string) error {
		adbPath, _ := cmd.Flags().GetString("adb")
		if mumu, _ := cmd.Flags().GetBool("discover-mumu"); mumu {
			for _, serial := range device.DiscoverMuMu(adbPath) {
				fmt.Println(serial)
			}
		}
		serials, err := device.ListDevices(adbPath)
		if err != nil {
			return err
		}
		if len(serials) == 0 {
			fmt.Println("No devices connected")
			return nil
		}
		for _, s := range serials {
			fmt.Println(s)
		}
		return nil
	},
}

func init() {
	devicesCmd.Flags().Bool("discover-mumu", false, "Probe local MuMu emulator ports and connect before listing")
}
