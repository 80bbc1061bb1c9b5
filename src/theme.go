package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ConfigMessage is an inbound configuration update. Every field is optional;
// a theme is applied first and explicit colors override it.
type ConfigMessage struct {
	Theme           string `json:"Theme,omitempty"`
	BackgroundColor *Color `json:"BackgroundColor,omitempty"`
	LineColor       *Color `json:"LineColor,omitempty"`
}

var (
	ErrEmptyConfig = errors.New("config message has no theme or colors")
	ErrStopped     = errors.New("face is shutting down")
)

// Validate rejects empty messages and unknown theme names
func (m ConfigMessage) Validate() error {
	if m.Theme == "" && m.BackgroundColor == nil && m.LineColor == nil {
		return ErrEmptyConfig
	}
	if m.Theme != "" {
		if _, ok := findTheme(m.Theme); !ok {
			return fmt.Errorf("unknown theme %q", m.Theme)
		}
	}
	return nil
}

// Apply returns the palette and theme name that result from applying m on
// top of the current palette. m must already be valid.
func (m ConfigMessage) Apply(current Palette) (string, Palette) {
	palette := current
	name := ""
	if t, ok := findTheme(m.Theme); ok {
		palette = t.Palette()
		name = t.Name
	}
	if m.BackgroundColor != nil {
		palette.Background = *m.BackgroundColor
	}
	if m.LineColor != nil {
		palette.Line = *m.LineColor
	}
	return themeNameFor(palette, name), palette
}

func findTheme(name string) (Theme, bool) {
	for _, theme := range AllThemes() {
		if strings.EqualFold(theme.Name, name) {
			return theme, true
		}
	}
	return Theme{}, false
}

// themeNameFor keeps the preferred name if it still describes the palette,
// otherwise looks for a matching preset and falls back to Custom.
func themeNameFor(p Palette, preferred string) string {
	if t, ok := findTheme(preferred); ok && t.Palette() == p {
		return t.Name
	}
	for _, theme := range AllThemes() {
		if theme.Palette() == p {
			return theme.Name
		}
	}
	return CUSTOM_THEME
}

// setPalette swaps in a new render context and publishes the state
func (app *PartialFace) setPalette(theme string, p Palette) {
	app.Render = app.Render.WithPalette(p)
	app.ThemeName = theme
	app.publishState()
}

func (app *PartialFace) publishState() {
	app.state.Store(&FaceState{
		InstallationID: app.InstallationID,
		Theme:          app.ThemeName,
		Palette:        app.Render.Palette,
		Version:        APP_VERSION,
	})
}

// State returns the last published face state. Safe from any goroutine.
func (app *PartialFace) State() FaceState {
	if st := app.state.Load(); st != nil {
		return *st
	}
	return FaceState{Version: APP_VERSION}
}

type configRequest struct {
	Message ConfigMessage
	Reply   chan FaceState
}

// UpdateConfig hands a config message to the main loop and waits for the
// resulting state. Safe from any goroutine.
func (app *PartialFace) UpdateConfig(ctx context.Context, msg ConfigMessage) (FaceState, error) {
	if err := msg.Validate(); err != nil {
		return FaceState{}, err
	}

	req := configRequest{Message: msg, Reply: make(chan FaceState, 1)}
	select {
	case app.ConfigChan <- req:
	case <-app.done:
		return FaceState{}, ErrStopped
	case <-ctx.Done():
		return FaceState{}, ctx.Err()
	}

	select {
	case st := <-req.Reply:
		return st, nil
	case <-ctx.Done():
		return FaceState{}, ctx.Err()
	}
}

// applyConfig runs on the main loop: new context, persist, redraw right away
func (app *PartialFace) applyConfig(req configRequest) {
	theme, palette := req.Message.Apply(app.Render.Palette)
	app.setPalette(theme, palette)

	app.Log.Info().
		Str("theme", theme).
		Str("background", palette.Background.Hex()).
		Str("line", palette.Line.Hex()).
		Msg("Config updated")

	if err := app.saveSettings(); err != nil {
		app.Log.Warn().Err(err).Msg("Failed to save settings")
	}

	app.drawCurrentScreen()

	if req.Reply != nil {
		req.Reply <- app.State()
	}
}
