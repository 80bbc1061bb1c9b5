package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type Settings struct {
	InstallationID  string `json:"installation_id,omitempty"`
	Theme           string `json:"theme,omitempty"`
	BackgroundColor *Color `json:"background_color,omitempty"`
	LineColor       *Color `json:"line_color,omitempty"`
}

func readSettings(path string) (Settings, error) {
	var settings Settings
	data, err := os.ReadFile(path)
	if err != nil {
		return settings, err
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("failed to parse settings: %w", err)
	}
	return settings, nil
}

func writeSettings(path string, settings Settings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}

	// Write next to the target and rename so a crash never leaves half a file
	tmp, err := os.CreateTemp(filepath.Dir(path), ".settings-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// loadSettings restores the palette and installation ID. A missing file is
// created with the defaults; a broken one leaves the defaults in place and
// returns the error for logging.
func (app *PartialFace) loadSettings() error {
	settings, err := readSettings(app.Config.SettingsPath)
	if errors.Is(err, fs.ErrNotExist) {
		// First run: persist defaults along with a fresh installation ID
		app.ensureInstallationID()
		app.Log.Info().Str("path", app.Config.SettingsPath).Msg("No settings file, writing defaults")
		return app.saveSettings()
	}
	if err != nil {
		app.ensureInstallationID()
		return err
	}

	// Generate installation ID if it doesn't exist
	if settings.InstallationID == "" {
		app.ensureInstallationID()
		if err := app.saveSettings(); err != nil {
			app.Log.Warn().Err(err).Msg("Failed to save settings")
		}
	} else {
		app.InstallationID = settings.InstallationID
		app.Log.Info().Str("installation_id", app.InstallationID).Msg("Loaded installation ID")
	}

	app.applySettings(settings)
	return nil
}

// restoreSettings applies the saved palette without writing anything back.
// A missing file keeps the defaults.
func (app *PartialFace) restoreSettings() error {
	settings, err := readSettings(app.Config.SettingsPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if app.InstallationID == "" {
		app.InstallationID = settings.InstallationID
	}
	app.applySettings(settings)
	return nil
}

// applySettings restores the theme, then lets saved colors override it
func (app *PartialFace) applySettings(settings Settings) {
	palette := app.Render.Palette
	theme := app.ThemeName
	if settings.Theme != "" {
		if t, ok := findTheme(settings.Theme); ok {
			palette = t.Palette()
			theme = t.Name
		}
	}
	if settings.BackgroundColor != nil {
		palette.Background = *settings.BackgroundColor
	}
	if settings.LineColor != nil {
		palette.Line = *settings.LineColor
	}
	theme = themeNameFor(palette, theme)

	app.setPalette(theme, palette)
	app.Log.Info().
		Str("theme", theme).
		Str("background", palette.Background.Hex()).
		Str("line", palette.Line.Hex()).
		Msg("Restored palette")
}

// saveSettings saves the current palette
func (app *PartialFace) saveSettings() error {
	bg := app.Render.Palette.Background
	line := app.Render.Palette.Line
	settings := Settings{
		InstallationID:  app.InstallationID,
		Theme:           app.ThemeName,
		BackgroundColor: &bg,
		LineColor:       &line,
	}
	return writeSettings(app.Config.SettingsPath, settings)
}

func (app *PartialFace) ensureInstallationID() {
	if app.InstallationID != "" {
		return
	}
	app.InstallationID = uuid.New().String()
	app.Log.Info().Str("installation_id", app.InstallationID).Msg("Generated new installation ID")
}
