package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFace struct {
	state    FaceState
	frame    []byte
	err      error
	received []ConfigMessage
}

func (f *fakeFace) State() FaceState { return f.state }

func (f *fakeFace) UpdateConfig(ctx context.Context, msg ConfigMessage) (FaceState, error) {
	if err := msg.Validate(); err != nil {
		return FaceState{}, err
	}
	if f.err != nil {
		return FaceState{}, f.err
	}
	f.received = append(f.received, msg)
	f.state.Theme, f.state.Palette = msg.Apply(f.state.Palette)
	return f.state, nil
}

func (f *fakeFace) LastFrame() []byte { return f.frame }

func newTestServer(face *fakeFace) *Server {
	return NewServer(":0", "", face, zerolog.Nop())
}

func defaultFace() *fakeFace {
	return &fakeFace{state: FaceState{
		InstallationID: "test-id",
		Theme:          ThemePartial.Name,
		Palette:        ThemePartial.Palette(),
		Version:        APP_VERSION,
	}}
}

func serve(s *Server, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	rec := serve(newTestServer(defaultFace()), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","version":"`+APP_VERSION+`"}`, rec.Body.String())
}

func TestServer_GetConfig(t *testing.T) {
	rec := serve(newTestServer(defaultFace()), http.MethodGet, "/api/config", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{
		"installation_id": "test-id",
		"theme": "Partial",
		"palette": {"background": "#FF0000", "line": "#00FF00"},
		"version": "`+APP_VERSION+`"
	}`, rec.Body.String())
}

func TestServer_PostConfig(t *testing.T) {
	face := defaultFace()
	s := newTestServer(face)

	rec := serve(s, http.MethodPost, "/api/config", `{"Theme": "Nord"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var st FaceState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, ThemeNord.Name, st.Theme)
	assert.Equal(t, ThemeNord.Palette(), st.Palette)

	// Integer colors as sent by watch-style config pages
	rec = serve(s, http.MethodPost, "/api/config", `{"BackgroundColor": 0, "LineColor": 16777215}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, face.received, 2)
	assert.Equal(t, Color(0xFFFFFF), *face.received[1].LineColor)
	assert.Equal(t, Palette{Background: 0, Line: 0xFFFFFF}, face.state.Palette)
}

func TestServer_PostConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		code int
	}{
		{"malformed", `{"Theme":`, nil, http.StatusBadRequest},
		{"unknown field", `{"Colour": "#FFFFFF"}`, nil, http.StatusBadRequest},
		{"bad color", `{"LineColor": "green"}`, nil, http.StatusBadRequest},
		{"out of range", `{"LineColor": 16777216}`, nil, http.StatusBadRequest},
		{"empty", `{}`, nil, http.StatusBadRequest},
		{"unknown theme", `{"Theme": "Vaporwave"}`, nil, http.StatusBadRequest},
		{"stopped", `{"Theme": "Nord"}`, ErrStopped, http.StatusServiceUnavailable},
		{"timeout", `{"Theme": "Nord"}`, context.DeadlineExceeded, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			face := defaultFace()
			face.err = tt.err
			rec := serve(newTestServer(face), http.MethodPost, "/api/config", tt.body)

			assert.Equal(t, tt.code, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
			assert.Empty(t, face.received)
		})
	}
}

func TestServer_Themes(t *testing.T) {
	rec := serve(newTestServer(defaultFace()), http.MethodGet, "/api/themes", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var themes []struct {
		Name    string  `json:"name"`
		Palette Palette `json:"palette"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &themes))
	require.Len(t, themes, len(AllThemes()))
	assert.Equal(t, ThemeGruvbox.Name, themes[len(themes)-1].Name)
	assert.Equal(t, ThemeGruvbox.Palette(), themes[len(themes)-1].Palette)
}

func TestServer_Frame(t *testing.T) {
	face := defaultFace()
	s := newTestServer(face)

	rec := serve(s, http.MethodGet, "/api/frame.png", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	face.frame = []byte("\x89PNG fake")
	rec = serve(s, http.MethodGet, "/api/frame.png", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, face.frame, rec.Body.Bytes())
}

func TestServer_ConfigQR(t *testing.T) {
	rec := serve(newTestServer(defaultFace()), http.MethodGet, "/api/config/qr.png", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG"))
}

func TestServer_ConfigPage(t *testing.T) {
	rec := serve(newTestServer(defaultFace()), http.MethodGet, "/config", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, `data-line="#00ff00" selected>Partial</option>`)
	assert.Contains(t, body, `value="#ff0000"`)
}

func TestServer_CORSPreflight(t *testing.T) {
	s := newTestServer(defaultFace())
	req := httptest.NewRequest(http.MethodOptions, "/api/config", nil)
	req.Header.Set("Origin", "http://phone.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

// failingWriter accepts headers but fails every body write
type failingWriter struct {
	*httptest.ResponseRecorder
}

func (w failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestServer_WriteErrorsAreLogged(t *testing.T) {
	face := defaultFace()
	face.frame = []byte("\x89PNG fake")

	var logs bytes.Buffer
	s := NewServer(":0", "", face, zerolog.New(&logs).Level(zerolog.DebugLevel))

	for _, target := range []string{"/api/frame.png", "/api/config/qr.png"} {
		rec := failingWriter{httptest.NewRecorder()}
		s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	}

	assert.Contains(t, logs.String(), `"message":"Failed to write frame"`)
	assert.Contains(t, logs.String(), `"message":"Failed to write QR code"`)
	assert.Contains(t, logs.String(), "connection reset")
}

func TestServer_BaseURL(t *testing.T) {
	s := newTestServer(defaultFace())
	req := httptest.NewRequest(http.MethodGet, "/api/config/qr.png", nil)
	req.Host = "watch.local:8180"
	assert.Equal(t, "http://watch.local:8180", s.baseURL(req))

	s.publicURL = "https://partial.example.com"
	assert.Equal(t, "https://partial.example.com", s.baseURL(req))
}
