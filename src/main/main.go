package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"draw-on-screen/src/annotate"
	"draw-on-screen/src/config"
	"draw-on-screen/src/eventloop"
	"draw-on-screen/src/gui"
	"draw-on-screen/src/hotkey"
	"draw-on-screen/src/logutil"
	"draw-on-screen/src/messages"
	"draw-on-screen/src/notification"
	"draw-on-screen/src/overlay"
	"draw-on-screen/src/pen"
	"draw-on-screen/src/runtimeinit"
	"draw-on-screen/src/screenshot"
	"draw-on-screen/src/session"
	"draw-on-screen/src/singleinstance"
	"draw-on-screen/src/storage"
	"draw-on-screen/src/tray"
	"draw-on-screen/src/worker"
)

type mainOptions struct {
	outputDir string
	envFile   string
	backend   string
}

func main() {
	// Ensure DPI awareness before creating any windows or querying metrics
	enableDPIAwareness()

	// fyne owns the main goroutine for its event loop
	runtime.LockOSThread()

	opts := &mainOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(normalizeLegacyArgs(os.Args)[1:])
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(opts *mainOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "draw-on-screen",
		Short:         "Draw over a snapshot of the screen and save the result",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResident(*opts)
		},
	}

	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "Directory for saved drawings (overrides OUTPUT_DIR)")
	cmd.Flags().StringVar(&opts.envFile, "env-file", "", "Path to the .env file (highest precedence)")
	cmd.Flags().StringVar(&opts.backend, "backend", "", "Hotkey backend: hook or grab")

	return cmd
}

func (o mainOptions) loadOptions() config.LoadOptions {
	return config.LoadOptions{
		EnvFileOverride:   o.envFile,
		OutputDirOverride: o.outputDir,
		BackendOverride:   o.backend,
	}
}

// normalizeLegacyArgs maps single-dash long flags to the double-dash form
// cobra expects.
func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return []string{"draw-on-screen"}
	}

	normalized := make([]string, len(args))
	copy(normalized, args)

	for i := 1; i < len(normalized); i++ {
		arg := normalized[i]
		for _, name := range []string{"output-dir", "env-file", "backend"} {
			switch {
			case arg == "-"+name:
				normalized[i] = "--" + name
			case strings.HasPrefix(arg, "-"+name+"="):
				normalized[i] = "-" + arg
			}
		}
	}

	return normalized
}

// preflight refuses to start a second resident.
func preflight(ctx context.Context, detect func(context.Context) (int, bool)) error {
	if port, ok := detect(ctx); ok {
		log.Printf("Pre-flight: resident answers on port %d", port)
		return fmt.Errorf("draw-on-screen is already running on port %d", port)
	}
	start, end := singleinstance.PortRange()
	log.Printf("Pre-flight: no resident in ports %d-%d", start, end)
	return nil
}

func runResident(opts mainOptions) error {
	// Load .env early so SINGLEINSTANCE_PORT_* apply to the pre-flight scan
	_, _ = config.LoadWithOptions(opts.loadOptions())
	if err := preflight(context.Background(), singleinstance.DetectResidentPort); err != nil {
		return err
	}

	cfg, err := runtimeinit.Bootstrap(runtimeinit.Options{
		LoadOptions:  opts.loadOptions(),
		SetupLogging: logutil.Setup,
	})
	if err != nil {
		return err
	}
	logDisplays()

	ui := gui.New()

	sess := session.New(annotate.NewCanvas(initialSnapshot()), ui, pen.NewStateWith(cfg.PenColor, cfg.PenWidth))
	store := storage.New(cfg.OutputDir, cfg.FilePrefix)
	ann := overlay.New(ui, sess, overlay.Options{
		Store:     store,
		DoubleTap: cfg.DoubleEscape,
	})
	ui.Bind(sess, ann)
	ui.Present(sess.Canvas().Image())

	settler := screenshot.NewSettler(screenshot.Screen{})
	settler.Interval = cfg.SettleInterval
	settler.Min = cfg.SettleMin
	settler.Timeout = cfg.SettleTimeout

	defaultTooltip := fmt.Sprintf("Draw on Screen - %s capture, %s save and clear, double %s exit",
		cfg.CaptureHotkey, cfg.SaveClearHotkey, cfg.EscapeHotkey)

	var trayIcon *tray.Tray
	loop := eventloop.New(eventloop.Options{
		Annotator:      ann,
		Settler:        settler,
		UI:             ui,
		Server:         singleinstance.NewServer(),
		Pool:           worker.NewWithQueue(1, eventloop.ExportQueue),
		Exports:        buildExports(cfg, ui),
		DefaultTooltip: defaultTooltip,
		Tooltip: func(s string) {
			if trayIcon != nil {
				trayIcon.UpdateTooltip(s)
			}
		},
	})

	if cfg.EnableTray && tray.Supported() {
		trayIcon = tray.New(tray.Config{
			Title:           gui.Title,
			Tooltip:         defaultTooltip,
			CaptureHotkey:   cfg.CaptureHotkey,
			SaveClearHotkey: cfg.SaveClearHotkey,
			OnCommand:       func(c messages.Command) { loop.Post(c, messages.SourceTray) },
			OnOpenFolder:    func() { ui.OpenFolder(store.Abs()) },
		})
		go trayIcon.Run()
		defer trayIcon.Quit()
	} else if cfg.EnableTray {
		log.Printf("Tray icon is not supported on %s", runtime.GOOS)
	}

	listener, err := hotkey.New(cfg.HotkeyBackend)
	if err != nil {
		return err
	}
	if err := listener.Start(loop.Bindings(cfg.CaptureHotkey, cfg.SaveClearHotkey, cfg.EscapeHotkey)); err != nil {
		return fmt.Errorf("register hotkeys: %w", err)
	}
	defer listener.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loopDone := make(chan error, 1)
	go func() { loopDone <- loop.Run(ctx) }()

	log.Printf("Draw on Screen ready, saving to %s", store.Abs())
	ui.Run()

	// The window was closed or the loop quit the app.
	stop()
	select {
	case err := <-loopDone:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("event loop stopped: %v", err)
		}
	case <-time.After(5 * time.Second):
		log.Printf("event loop did not stop in time")
	}
	return nil
}

// initialSnapshot grabs the primary display before the overlay is first
// shown. A failed grab leaves an empty canvas until the next capture.
func initialSnapshot() *image.RGBA {
	r, err := screenshot.PrimaryBounds()
	if err != nil {
		log.Printf("Initial capture skipped: %v", err)
		return nil
	}
	img, err := screenshot.CaptureRect(r)
	if err != nil {
		log.Printf("Initial capture failed: %v", err)
		return nil
	}
	return img
}

func buildExports(cfg *config.Config, sender notification.Sender) []eventloop.Export {
	var exports []eventloop.Export
	if exp, ok := eventloop.ClipboardExport(cfg.ClipboardExport); ok {
		exports = append(exports, exp)
	}
	if cfg.EnableNotifications {
		exports = append(exports, eventloop.NotifyExport(notification.New(notification.PlatformSender(sender))))
	}
	return exports
}

func logDisplays() {
	bounds, err := screenshot.DisplayBounds()
	if err != nil {
		log.Printf("MONITOR: %v", err)
		return
	}
	log.Printf("MONITOR: Detected %d displays", len(bounds))
	for i, b := range bounds {
		log.Printf("MONITOR: #%d x:%d y:%d w:%d h:%d", i, b.Min.X, b.Min.Y, b.Dx(), b.Dy())
	}
}
