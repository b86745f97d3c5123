package cmd

import (
	"fmt"
	"image"

	"github.com/spf13/cobra"

	"github.com/TEL1N/pokemon-adb-bot/internal/config"
	"github.com/TEL1N/pokemon-adb-bot/internal/device"
	"github.com/TEL1N/pokemon-adb-bot/internal/logger"
	"github.com/TEL1N/pokemon-adb-bot/internal/progress"
	"github.com/TEL1N/pokemon-adb-bot/internal/search"
	"github.com/TEL1N/pokemon-adb-bot/internal/vision"
)

var rootCmd = &cobra.Command{
	Use:   "pocketbot",
	Short: "Reward battle finder for Pokemon TCG Pocket",
	Long:  "Pocketbot drives an Android emulator over ADB, scanning solo battle expansions for reward battles and grinding them until none remain.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLoop(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "adb_config.json", "Path to the calibrated coordinate config (.json or .yaml)")
	rootCmd.PersistentFlags().String("device", "", "ADB device serial (defaults to the first connected device)")
	rootCmd.PersistentFlags().String("adb", "adb", "Path to the adb binary")
	rootCmd.PersistentFlags().String("progress-db", "", "SQLite file for durable progress (in-memory when empty)")
	rootCmd.PersistentFlags().String("scan", "bottom", "In-expansion scan policy: bottom or stepwise")
	rootCmd.PersistentFlags().Int("display", -1, "Drive a visible emulator window on this host display instead of ADB")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(guiCmd)
}

// deps bundles everything a command needs to talk to one device.
type deps struct {
	cfg   *config.Config
	dev   device.Device
	store progress.Store
	log   *logger.AppLogger

	region image.Rectangle
	mode   search.ScanMode

	closers []func() error
}

func (d *deps) Close() {
	for _, c := range d.closers {
		_ = c()
	}
}

func (d *deps) orchestrator() (*search.Navigator, *search.Orchestrator) {
	nav := search.NewNavigator(d.dev, d.cfg, d.log)
	orch := search.NewOrchestrator(d.dev, nav, vision.New(), d.store, d.log, search.Options{
		Region: d.region,
		Mode:   d.mode,
	})
	return nav, orch
}

func buildDeps(cmd *cobra.Command) (*deps, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	serial, _ := cmd.Flags().GetString("device")
	adbPath, _ := cmd.Flags().GetString("adb")
	dbPath, _ := cmd.Flags().GetString("progress-db")
	scan, _ := cmd.Flags().GetString("scan")
	display, _ := cmd.Flags().GetInt("display")

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	region, err := cfg.RewardDetection()
	if err != nil {
		return nil, err
	}

	mode := search.ScanBottom
	switch scan {
	case "bottom":
	case "stepwise":
		mode = search.ScanStepwise
	default:
		return nil, fmt.Errorf("unknown scan policy %q", scan)
	}

	var dev device.Device
	if display >= 0 {
		dev, err = device.NewDesktop(display)
	} else {
		dev, err = device.NewADB(adbPath, serial)
	}
	if err != nil {
		return nil, fmt.Errorf("connect device: %w", err)
	}

	d := &deps{
		cfg:    cfg,
		dev:    dev,
		log:    logger.NewConsoleLogger(),
		region: region.Rect(),
		mode:   mode,
	}
	if dbPath != "" {
		st, err := progress.OpenSQLite(dbPath, dev.ID())
		if err != nil {
			return nil, fmt.Errorf("open progress db: %w", err)
		}
		d.store = st
		d.closers = append(d.closers, st.Close)
	} else {
		d.store = progress.NewMemory()
	}
	return d, nil
}
