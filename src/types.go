package main

import (
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// App metadata
const (
	APP_VERSION = "0.1.0"
	APP_NAME    = "Partial"
)

// Display constants - round 180x180 panel
const SCREEN_WIDTH = 180
const SCREEN_HEIGHT = 180

const (
	LINE_WIDTH       = 1.0
	DEFAULT_SCHEDULE = "* * * * *" // top of every minute
)

// Theme is a named two-color palette
type Theme struct {
	Name       string
	Background string
	Line       string
}

func (t Theme) Palette() Palette {
	return Palette{
		Background: colorFromHex(t.Background),
		Line:       colorFromHex(t.Line),
	}
}

// Name used for palettes that don't match a preset
const CUSTOM_THEME = "Custom"

// Available themes
var (
	ThemePartial   = Theme{Name: "Partial", Background: "#FF0000", Line: "#00FF00"}
	ThemeClassic   = Theme{Name: "Classic", Background: "#B8B8B8", Line: "#4A90E2"}
	ThemeDark      = Theme{Name: "Dark", Background: "#1C1C1C", Line: "#FFFFFF"}
	ThemeGreen     = Theme{Name: "Matrix Green", Background: "#0D0D0D", Line: "#00FF41"}
	ThemeRetro     = Theme{Name: "Retro Amber", Background: "#1A0F00", Line: "#FFAA00"}
	ThemeLight     = Theme{Name: "Light", Background: "#FFFFFF", Line: "#007AFF"}
	ThemeNord      = Theme{Name: "Nord", Background: "#2E3440", Line: "#88C0D0"}
	ThemeSolarized = Theme{Name: "Solarized Dark", Background: "#002B36", Line: "#2AA198"}
	ThemeOcean     = Theme{Name: "Ocean", Background: "#001F3F", Line: "#00D4FF"}
	ThemeGruvbox   = Theme{Name: "Gruvbox", Background: "#282828", Line: "#FABD2F"}
)

// AllThemes returns all available themes in order
func AllThemes() []Theme {
	return []Theme{
		ThemePartial,
		ThemeClassic,
		ThemeDark,
		ThemeGreen,
		ThemeRetro,
		ThemeLight,
		ThemeNord,
		ThemeSolarized,
		ThemeOcean,
		ThemeGruvbox,
	}
}

// FaceState is the read-only view of the face published for the HTTP side
type FaceState struct {
	InstallationID string  `json:"installation_id"`
	Theme          string  `json:"theme"`
	Palette        Palette `json:"palette"`
	Version        string  `json:"version"`
}

// --- Main application ---

type PartialFace struct {
	Running bool

	Config *Config
	Log    zerolog.Logger

	// Display
	Surface   *GGSurface
	Presenter *Presenter
	Clock     Clock

	// Current render context; replaced, never edited, on config changes
	Render    RenderContext
	ThemeName string

	InstallationID string

	Scheduler *Scheduler
	Server    *Server

	// RedrawChan asks the main loop to draw a frame, RefreshChan hands a
	// finished frame to the presenter, ConfigChan carries config messages
	// into the main loop.
	RedrawChan  chan struct{}
	RefreshChan chan frame
	ConfigChan  chan configRequest

	state   atomic.Pointer[FaceState]
	done    chan struct{} // closed when the main loop exits
	logFile *os.File
}
