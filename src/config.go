package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds process configuration. User color preferences live in the
// settings file, not here.
type Config struct {
	LogLevel  string
	LogPretty bool
	LogPath   string

	SettingsPath  string
	FramePath     string // PNG written on every presented frame, empty to disable
	SnapshotScale int

	HTTPAddr  string // empty disables the config server
	PublicURL string // base URL encoded in the config QR code

	ScreenWidth  int
	ScreenHeight int
	Round        bool

	RedrawSchedule string
	LineWidth      float64

	AreaTolerance float64
	MaxIterations int
}

// LoadConfig reads configuration from environment variables, with an
// optional .env file in the working directory.
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:       getEnv("PARTIAL_LOG_LEVEL", "info"),
		LogPretty:      getEnvAsBool("PARTIAL_LOG_PRETTY", false),
		LogPath:        getEnv("PARTIAL_LOG_PATH", "./partial.log"),
		SettingsPath:   getEnv("PARTIAL_SETTINGS_PATH", "./.partial_settings.json"),
		FramePath:      getEnv("PARTIAL_FRAME_PATH", "./frame.png"),
		SnapshotScale:  getEnvAsInt("PARTIAL_SNAPSHOT_SCALE", 1),
		HTTPAddr:       getEnv("PARTIAL_HTTP_ADDR", ":8180"),
		PublicURL:      getEnv("PARTIAL_PUBLIC_URL", ""),
		ScreenWidth:    getEnvAsInt("PARTIAL_SCREEN_WIDTH", SCREEN_WIDTH),
		ScreenHeight:   getEnvAsInt("PARTIAL_SCREEN_HEIGHT", SCREEN_HEIGHT),
		Round:          getEnvAsBool("PARTIAL_ROUND", true),
		RedrawSchedule: getEnv("PARTIAL_REDRAW_SCHEDULE", DEFAULT_SCHEDULE),
		LineWidth:      getEnvAsFloat("PARTIAL_LINE_WIDTH", LINE_WIDTH),
		AreaTolerance:  getEnvAsFloat("PARTIAL_AREA_TOLERANCE", AREA_TOLERANCE),
		MaxIterations:  getEnvAsInt("PARTIAL_MAX_ITERATIONS", MAX_SOLVER_ITERATIONS),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and the cron expression
func (c *Config) Validate() error {
	if c.ScreenWidth <= 0 || c.ScreenHeight <= 0 {
		return fmt.Errorf("invalid screen size %dx%d", c.ScreenWidth, c.ScreenHeight)
	}
	if c.SnapshotScale < 1 || c.SnapshotScale > 16 {
		return fmt.Errorf("snapshot scale must be between 1 and 16, got %d", c.SnapshotScale)
	}
	if c.LineWidth <= 0 {
		return fmt.Errorf("line width must be positive, got %v", c.LineWidth)
	}
	if c.AreaTolerance <= 0 || c.AreaTolerance >= 1 {
		return fmt.Errorf("area tolerance must be in (0, 1), got %v", c.AreaTolerance)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("max iterations must be positive, got %d", c.MaxIterations)
	}
	if _, err := cron.ParseStandard(c.RedrawSchedule); err != nil {
		return fmt.Errorf("invalid redraw schedule %q: %w", c.RedrawSchedule, err)
	}
	return nil
}

// RenderContext builds the initial render context for a palette
func (c *Config) RenderContext(p Palette) RenderContext {
	return RenderContext{
		Palette:   p,
		LineWidth: c.LineWidth,
		Solver: SolverOptions{
			AreaTolerance: c.AreaTolerance,
			MaxIterations: c.MaxIterations,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
