package control

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/widget"

	"github.com/TEL1N/pokemon-adb-bot/internal/config"
	"github.com/TEL1N/pokemon-adb-bot/internal/device"
	"github.com/TEL1N/pokemon-adb-bot/internal/logger"
	"github.com/TEL1N/pokemon-adb-bot/internal/progress"
	"github.com/TEL1N/pokemon-adb-bot/internal/search"
	"github.com/TEL1N/pokemon-adb-bot/internal/session"
	"github.com/TEL1N/pokemon-adb-bot/internal/vision"
)

// Options carries the CLI-level settings into the panel.
type Options struct {
	ConfigPath string
	ADBPath    string
	ProgressDB string
	Mode       search.ScanMode
}

// NewControlPanel creates the grind control panel: device selector,
// start/stop buttons, live status and a scrolling log.
func NewControlPanel(opts Options) fyne.CanvasObject {
	// --- Data Binding ---
	logData := binding.NewStringList()
	statusData := binding.NewString()
	statusData.Set("Status: Ready")

	appLogger := logger.NewAppLogger(logData)

	// --- Device Selector ---
	listSerials := func() []string {
		serials, err := device.ListDevices(opts.ADBPath)
		if err != nil {
			appLogger.Error("Listing devices failed: %v", err)
		}
		if len(serials) == 0 {
			serials = []string{"(no devices)"}
		}
		return serials
	}

	deviceSelect := widget.NewSelect(listSerials(), nil)
	if len(deviceSelect.Options) > 0 {
		deviceSelect.SetSelected(deviceSelect.Options[0])
	}

	refreshBtn := widget.NewButton("Refresh", func() {
		device.DiscoverMuMu(opts.ADBPath)
		deviceSelect.Options = listSerials()
		deviceSelect.SetSelected(deviceSelect.Options[0])
		deviceSelect.Refresh()
	})

	// --- Status & Logs ---
	statusLabel := widget.NewLabelWithData(statusData)
	statusLabel.TextStyle = fyne.TextStyle{Bold: true}

	logList := widget.NewListWithData(
		logData,
		func() fyne.CanvasObject { return widget.NewLabel("Log entry template") },
		func(i binding.DataItem, o fyne.CanvasObject) { o.(*widget.Label).Bind(i.(binding.String)) },
	)

	// Auto-scroll
	logData.AddListener(binding.NewDataListener(func() {
		list, _ := logData.Get()
		if len(list) > 0 {
			logList.ScrollToBottom()
		}
	}))

	// --- Buttons ---
	startBtn := widget.NewButton("Start Grind", nil)
	stopBtn := widget.NewButton("Stop", nil)
	stopBtn.Disable()

	var cancel context.CancelFunc

	idle := func() {
		stopBtn.Disable()
		startBtn.Enable()
		deviceSelect.Enable()
		refreshBtn.Enable()
	}

	startBtn.OnTapped = func() {
		serial := deviceSelect.Selected
		if serial == "" || serial == "(no devices)" {
			appLogger.Error("No device selected")
			return
		}

		runner, closeDeps, err := buildRunner(opts, serial, appLogger)
		if err != nil {
			appLogger.Error("Start failed: %v", err)
			return
		}
		runner.StatusFunc = func(s string) { statusData.Set("Status: " + s) }

		statusData.Set("Status: Running")
		startBtn.Disable()
		stopBtn.Enable()
		deviceSelect.Disable()
		refreshBtn.Disable()

		var ctx context.Context
		ctx, cancel = context.WithCancel(context.Background())
		go func() {
			defer closeDeps()
			if err := runner.Run(ctx); err != nil && ctx.Err() == nil {
				appLogger.Error("Session ended: %v", err)
			}
			statusData.Set(fmt.Sprintf("Status: Stopped (%d battles)", runner.Battles()))
			idle()
		}()
	}

	stopBtn.OnTapped = func() {
		if cancel != nil {
			cancel()
		}
		statusData.Set("Status: Stopping...")
	}

	// --- Layout ---
	controls := container.NewVBox(
		widget.NewLabel("Reward battle grind:"),
		container.NewHBox(widget.NewLabel("Device:"), deviceSelect, refreshBtn),
		statusLabel,
		container.NewHBox(startBtn, stopBtn),
		widget.NewSeparator(),
		widget.NewLabel("Log:"),
	)

	return container.NewBorder(controls, nil, nil, nil, logList)
}

func buildRunner(opts Options, serial string, log *logger.AppLogger) (*session.Runner, func(), error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	region, err := cfg.RewardDetection()
	if err != nil {
		return nil, nil, err
	}
	dev, err := device.NewADB(opts.ADBPath, serial)
	if err != nil {
		return nil, nil, err
	}

	var store progress.Store = progress.NewMemory()
	closeDeps := func() {}
	if opts.ProgressDB != "" {
		st, err := progress.OpenSQLite(opts.ProgressDB, dev.ID())
		if err != nil {
			return nil, nil, err
		}
		store = st
		closeDeps = func() { st.Close() }
	}

	nav := search.NewNavigator(dev, cfg, log)
	orch := search.NewOrchestrator(dev, nav, vision.New(), store, log, search.Options{
		Region: region.Rect(),
		Mode:   opts.Mode,
	})
	return session.NewRunner(dev, nav, orch, log), closeDeps, nil
}
