package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TEL1N/pokemon-adb-bot/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run a single traversal and print where a reward battle was found",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		_, orch := d.orchestrator()
		res, err := orch.Run()
		if err != nil {
			return err
		}
		switch res.Outcome {
		case search.OutcomeFound:
			if res.Location != nil {
				fmt.Printf("Found reward battle in %s at (%d, %d)\n", res.Location, res.Click.X, res.Click.Y)
			} else {
				fmt.Printf("Found reward battle on current screen at (%d, %d)\n", res.Click.X, res.Click.Y)
			}
		case search.OutcomeExhausted:
			fmt.Println("No reward battles left in the catalog")
		}
		return nil
	},
}
