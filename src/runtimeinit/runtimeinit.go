// Package runtimeinit loads configuration and brings up the process-wide
// services shared by the resident and its tests.
package runtimeinit

import (
	"fmt"
	"log"

	"draw-on-screen/src/clipboard"
	"draw-on-screen/src/config"
)

type Options struct {
	LoadOptions  config.LoadOptions
	SetupLogging func(bool)
	// InitClipboard replaces clipboard.Init in tests.
	InitClipboard func() error
}

func Bootstrap(opts Options) (*config.Config, error) {
	cfg, err := config.LoadWithOptions(opts.LoadOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if opts.SetupLogging != nil {
		opts.SetupLogging(cfg.EnableFileLogging)
	}

	if cfg.ClipboardExport != config.ClipboardNone {
		initClipboard := opts.InitClipboard
		if initClipboard == nil {
			initClipboard = clipboard.Init
		}
		if err := initClipboard(); err != nil {
			log.Printf("Clipboard unavailable, export disabled: %v", err)
			cfg.ClipboardExport = config.ClipboardNone
		}
	}

	log.Printf("Config: env=%q output=%q prefix=%q", cfg.EnvPath, cfg.OutputDir, cfg.FilePrefix)
	log.Printf("Config: hotkeys capture=%s save-clear=%s escape=%s backend=%s",
		cfg.CaptureHotkey, cfg.SaveClearHotkey, cfg.EscapeHotkey, cfg.HotkeyBackend)
	log.Printf("Config: pen %s/%d, clipboard=%s, tray=%t, notifications=%t",
		cfg.PenColor, cfg.PenWidth, cfg.ClipboardExport, cfg.EnableTray, cfg.EnableNotifications)

	return cfg, nil
}
