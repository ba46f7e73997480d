package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mobile-next/desktopcli/computer"
	"github.com/mobile-next/desktopcli/utils"
	"github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. DESKTOPCLI_SERVER_LISTEN.
	EnvPrefix = "DESKTOPCLI_"

	DefaultListen = "localhost:12000"

	configDirName  = ".desktopcli"
	configFileName = "config.ini"
)

type ServerConfig struct {
	Listen string `ini:"listen"`
	CORS   bool   `ini:"cors"`
	Token  string `ini:"token"`
}

type ExecutorConfig struct {
	NormalFactor     float64 `ini:"normal_factor"`
	CoordinatePolicy string  `ini:"coordinate_policy"`
	Admission        string  `ini:"admission"`
	Display          int     `ini:"display"`
	ChordCacheSize   int     `ini:"chord_cache_size"`
}

// TimingConfig holds every delay in milliseconds.
type TimingConfig struct {
	SettleDelayMs           int `ini:"settle_delay_ms"`
	DragPauseMs             int `ini:"drag_pause_ms"`
	TrailingDelayMs         int `ini:"trailing_delay_ms"`
	WaitMs                  int `ini:"wait_ms"`
	MoveTimeoutMs           int `ini:"move_timeout_ms"`
	TypingKeystrokeDelayMs  int `ini:"typing_keystroke_delay_ms"`
	DefaultKeystrokeDelayMs int `ini:"default_keystroke_delay_ms"`
}

type ScreenshotConfig struct {
	Format   string `ini:"format"`
	Quality  int    `ini:"quality"`
	MaxWidth int    `ini:"max_width"`
}

type LogConfig struct {
	Level  string `ini:"level"`
	Format string `ini:"format"`
}

// Config is the merged result of defaults, the ini file and the environment.
type Config struct {
	Server     ServerConfig     `ini:"server"`
	Executor   ExecutorConfig   `ini:"executor"`
	Timing     TimingConfig     `ini:"timing"`
	Screenshot ScreenshotConfig `ini:"screenshot"`
	Log        LogConfig        `ini:"log"`

	// Path is the file the config was read from, empty when none existed.
	Path string `ini:"-"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Listen: DefaultListen,
		},
		Executor: ExecutorConfig{
			NormalFactor:     1000,
			CoordinatePolicy: string(computer.PolicyDegrade),
			Admission:        string(computer.AdmissionQueue),
			ChordCacheSize:   computer.DefaultChordCacheSize,
		},
		Timing: TimingConfig{
			SettleDelayMs:           100,
			DragPauseMs:             100,
			TrailingDelayMs:         300,
			WaitMs:                  500,
			MoveTimeoutMs:           3000,
			TypingKeystrokeDelayMs:  2,
			DefaultKeystrokeDelayMs: 300,
		},
		Screenshot: ScreenshotConfig{
			Format:  utils.FormatPNG,
			Quality: utils.DefaultJPEGQuality,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultPath returns ~/.desktopcli/config.ini.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, configDirName, configFileName), nil
}

// Load reads path (or DefaultPath when empty) over the defaults, then applies
// .env and DESKTOPCLI_* overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	file := ini.Empty()
	if err := ini.ReflectFrom(file, cfg); err != nil {
		return nil, fmt.Errorf("failed to reflect defaults: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		if err := file.Append(path); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		cfg.Path = path
		utils.Verbose("Loaded config from %s", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
	}

	applyEnv(file)

	if err := file.MapTo(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil {
		utils.Verbose("Loaded environment from %s", path)
		return nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", path, err)
}

// EnvName returns the environment variable overriding key in section.
func EnvName(section, key string) string {
	return EnvPrefix + strings.ToUpper(section) + "_" + strings.ToUpper(key)
}

func applyEnv(file *ini.File) {
	for _, section := range file.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}
		for _, key := range section.Keys() {
			name := EnvName(section.Name(), key.Name())
			if value, ok := os.LookupEnv(name); ok {
				key.SetValue(value)
				utils.WithFields(logrus.Fields{"env": name}).Debug("config overridden from environment")
			}
		}
	}
}

// Validate rejects values the executor or transport cannot run with.
func (c *Config) Validate() error {
	if c.Server.Listen == "" {
		return fmt.Errorf("server.listen must not be empty")
	}
	if _, err := utils.NormalizeListenAddr(c.Server.Listen); err != nil {
		return fmt.Errorf("server.listen: %w", err)
	}

	if c.Executor.NormalFactor <= 0 {
		return fmt.Errorf("executor.normal_factor must be positive, got %v", c.Executor.NormalFactor)
	}
	switch computer.CoordinatePolicy(c.Executor.CoordinatePolicy) {
	case computer.PolicyDegrade, computer.PolicyStrict:
	default:
		return fmt.Errorf("executor.coordinate_policy must be degrade or strict, got %q", c.Executor.CoordinatePolicy)
	}
	switch computer.Admission(c.Executor.Admission) {
	case computer.AdmissionQueue, computer.AdmissionReject:
	default:
		return fmt.Errorf("executor.admission must be queue or reject, got %q", c.Executor.Admission)
	}
	if c.Executor.Display < 0 {
		return fmt.Errorf("executor.display must not be negative")
	}
	if c.Executor.ChordCacheSize <= 0 {
		return fmt.Errorf("executor.chord_cache_size must be positive")
	}

	delays := map[string]int{
		"settle_delay_ms":            c.Timing.SettleDelayMs,
		"drag_pause_ms":              c.Timing.DragPauseMs,
		"trailing_delay_ms":          c.Timing.TrailingDelayMs,
		"wait_ms":                    c.Timing.WaitMs,
		"move_timeout_ms":            c.Timing.MoveTimeoutMs,
		"typing_keystroke_delay_ms":  c.Timing.TypingKeystrokeDelayMs,
		"default_keystroke_delay_ms": c.Timing.DefaultKeystrokeDelayMs,
	}
	for name, ms := range delays {
		if ms < 0 {
			return fmt.Errorf("timing.%s must not be negative, got %d", name, ms)
		}
	}

	switch c.Screenshot.Format {
	case utils.FormatPNG, utils.FormatJPEG:
	default:
		return fmt.Errorf("screenshot.format must be png or jpeg, got %q", c.Screenshot.Format)
	}
	if c.Screenshot.Quality < 1 || c.Screenshot.Quality > 100 {
		return fmt.Errorf("screenshot.quality must be between 1 and 100, got %d", c.Screenshot.Quality)
	}
	if c.Screenshot.MaxWidth < 0 {
		return fmt.Errorf("screenshot.max_width must not be negative")
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "text", "console", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	return nil
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

// ExecutorOptions converts the executor and timing sections.
func (c *Config) ExecutorOptions() computer.Options {
	return computer.Options{
		Timing: computer.Timing{
			Settle:               ms(c.Timing.SettleDelayMs),
			DragPause:            ms(c.Timing.DragPauseMs),
			Trailing:             ms(c.Timing.TrailingDelayMs),
			Wait:                 ms(c.Timing.WaitMs),
			MoveTimeout:          ms(c.Timing.MoveTimeoutMs),
			TypingKeystrokeDelay: ms(c.Timing.TypingKeystrokeDelayMs),
		},
		Coordinates:    computer.CoordinatePolicy(c.Executor.CoordinatePolicy),
		Admission:      computer.Admission(c.Executor.Admission),
		ChordCacheSize: c.Executor.ChordCacheSize,
	}
}

// DefaultKeystrokeDelay is the device delay outside of the type action.
func (c *Config) DefaultKeystrokeDelay() time.Duration {
	return ms(c.Timing.DefaultKeystrokeDelayMs)
}
