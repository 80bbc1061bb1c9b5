package main

import (
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
)

const QR_SIZE = 256

// configPageURL is the settings page link with the current colors prefilled
func configPageURL(base string, st FaceState) string {
	q := url.Values{}
	q.Set("background", strings.TrimPrefix(st.Palette.Background.Hex(), "#"))
	q.Set("line", strings.TrimPrefix(st.Palette.Line.Hex(), "#"))
	if st.Theme != "" {
		q.Set("theme", st.Theme)
	}
	return strings.TrimRight(base, "/") + "/config?" + q.Encode()
}

// configQRCode renders the link as a PNG so a phone can scan it off the screen
func configQRCode(link string, size int) ([]byte, error) {
	qr, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to build QR code: %w", err)
	}
	return qr.PNG(size)
}

// The preset list only fills in the color pickers; the page always posts the
// picker colors and the server names the theme from them.
var configPage = template.Must(template.New("config").Funcs(template.FuncMap{
	"lower": strings.ToLower,
}).Parse(`<!DOCTYPE html>
<html>
<head><meta name="viewport" content="width=device-width"><title>{{.Name}} settings</title></head>
<body>
<h1>{{.Name}}</h1>
<img src="/api/frame.png" width="180" height="180" alt="current face">
<form id="cfg">
<label>Theme <select name="Theme">
<option value="">Custom</option>
{{range .Themes}}<option data-bg="{{lower .Background}}" data-line="{{lower .Line}}"{{if eq .Name $.Current}} selected{{end}}>{{.Name}}</option>
{{end}}</select></label><br>
<label>Background <input type="color" name="BackgroundColor" value="{{.Background}}"></label><br>
<label>Line <input type="color" name="LineColor" value="{{.Line}}"></label><br>
<button type="submit">Save</button>
</form>
<p id="status"></p>
<script>
var f = document.getElementById('cfg');
f.Theme.addEventListener('change', function () {
  var opt = f.Theme.options[f.Theme.selectedIndex];
  if (opt.dataset.bg) { f.BackgroundColor.value = opt.dataset.bg; f.LineColor.value = opt.dataset.line; }
});
[f.BackgroundColor, f.LineColor].forEach(function (input) {
  input.addEventListener('input', function () { f.Theme.value = ''; });
});
f.addEventListener('submit', function (e) {
  e.preventDefault();
  var msg = {BackgroundColor: f.BackgroundColor.value, LineColor: f.LineColor.value};
  fetch('/api/config', {method: 'POST', headers: {'Content-Type': 'application/json'}, body: JSON.stringify(msg)})
    .then(function (response) {
      if (response.ok) { location.reload(); return; }
      return response.json().then(function (body) {
        document.getElementById('status').textContent = 'Not saved: ' + (body.error || response.status);
      });
    })
    .catch(function (err) { document.getElementById('status').textContent = 'Not saved: ' + err; });
});
</script>
<p>v{{.Version}}</p>
</body>
</html>
`))

func renderConfigPage(w io.Writer, st FaceState) error {
	return configPage.Execute(w, struct {
		Name       string
		Version    string
		Current    string
		Background string
		Line       string
		Themes     []Theme
	}{
		Name:       APP_NAME,
		Version:    APP_VERSION,
		Current:    st.Theme,
		Background: strings.ToLower(st.Palette.Background.Hex()),
		Line:       strings.ToLower(st.Palette.Line.Hex()),
		Themes:     AllThemes(),
	})
}
