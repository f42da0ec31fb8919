package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"draw-on-screen/src/pen"
	"draw-on-screen/src/storage"
)

const (
	// EnvPathEnvVar names an alternative .env file when none sits next to
	// the executable.
	EnvPathEnvVar = "DRAW_ON_SCREEN_ENV"

	ClipboardNone  = "none"
	ClipboardImage = "image"
	ClipboardPath  = "path"
)

type LoadOptions struct {
	EnvFileOverride   string
	OutputDirOverride string
	BackendOverride   string
}

type Config struct {
	EnvPath string

	OutputDir  string
	FilePrefix string

	CaptureHotkey   string
	SaveClearHotkey string
	EscapeHotkey    string
	HotkeyBackend   string

	DoubleEscape   time.Duration
	SettleTimeout  time.Duration
	SettleInterval time.Duration
	SettleMin      time.Duration

	PenColor string
	PenWidth int

	ClipboardExport     string
	EnableTray          bool
	EnableNotifications bool
	EnableFileLogging   bool
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// Load configuration from sources in priority order:
	// 1) an explicit --env-file
	// 2) .env in the application (executable) directory
	// 3) the file named by DRAW_ON_SCREEN_ENV
	// godotenv never overrides variables already set in the process.
	envPath := resolveEnvPath(opts.EnvFileOverride)
	if envPath != "" {
		_ = godotenv.Load(envPath)
	}

	cfg := &Config{
		EnvPath:    envPath,
		OutputDir:  getEnvWithDefault("OUTPUT_DIR", storage.DefaultDir),
		FilePrefix: getEnvWithDefault("FILE_PREFIX", storage.DefaultPrefix),

		CaptureHotkey:   getEnvWithDefault("CAPTURE_HOTKEY", "F1"),
		SaveClearHotkey: getEnvWithDefault("SAVE_CLEAR_HOTKEY", "F2"),
		EscapeHotkey:    getEnvWithDefault("ESCAPE_HOTKEY", "Esc"),
		HotkeyBackend:   resolveBackend(os.Getenv("HOTKEY_BACKEND")),

		DoubleEscape:   getMillis("DOUBLE_ESCAPE_MS", 1000),
		SettleTimeout:  getMillis("SETTLE_TIMEOUT_MS", 1000),
		SettleInterval: getMillis("SETTLE_INTERVAL_MS", 50),
		SettleMin:      getMillis("SETTLE_MIN_MS", 200),

		PenColor: resolvePenColor(os.Getenv("PEN_COLOR")),
		PenWidth: resolvePenWidth(os.Getenv("PEN_WIDTH")),

		ClipboardExport:     resolveClipboardExport(os.Getenv("CLIPBOARD_EXPORT")),
		EnableTray:          getBool("ENABLE_TRAY", true),
		EnableNotifications: getBool("ENABLE_NOTIFICATIONS", false),
		EnableFileLogging:   getBool("ENABLE_FILE_LOGGING", false),
	}

	if dir := strings.TrimSpace(opts.OutputDirOverride); dir != "" {
		cfg.OutputDir = dir
	}
	if backend := strings.TrimSpace(opts.BackendOverride); backend != "" {
		cfg.HotkeyBackend = resolveBackend(backend)
	}

	return cfg, nil
}

func resolveEnvPath(override string) string {
	if override = strings.TrimSpace(override); override != "" {
		return override
	}

	if execPath, err := os.Executable(); err == nil {
		exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}

	if alt := os.Getenv(EnvPathEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}

func getMillis(key string, defaultMs int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			return time.Duration(n) * time.Millisecond
		}
	}
	return time.Duration(defaultMs) * time.Millisecond
}

// resolveBackend keeps known backends and leaves everything else empty,
// which selects the platform default.
func resolveBackend(value string) string {
	switch v := strings.ToLower(strings.TrimSpace(value)); v {
	case "hook", "grab":
		return v
	default:
		return ""
	}
}

func resolvePenColor(value string) string {
	if sw, err := pen.ParseColor(value); err == nil {
		return sw.Name
	}
	return pen.DefaultColorName
}

// resolvePenWidth accepts any positive width for the startup pen; the
// toolbar only offers the fixed set.
func resolvePenWidth(value string) int {
	if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && n > 0 && n <= 64 {
		return n
	}
	return pen.DefaultWidth
}

func resolveClipboardExport(value string) string {
	switch v := strings.ToLower(strings.TrimSpace(value)); v {
	case ClipboardImage, ClipboardPath:
		return v
	default:
		return ClipboardNone
	}
}
