package main

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/fogleman/gg"
)

// Color is a 24-bit 0xRRGGBB value
type Color uint32

const MAX_COLOR Color = 0xFFFFFF

// parseHexColor converts "#RRGGBB" to RGBA bytes
func parseHexColor(hex string) (r, g, b, a uint8) {
	if len(hex) == 7 && hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) != 6 {
		return 0, 0, 0, 255
	}
	rr, _ := strconv.ParseUint(hex[0:2], 16, 8)
	gg, _ := strconv.ParseUint(hex[2:4], 16, 8)
	bb, _ := strconv.ParseUint(hex[4:6], 16, 8)
	return uint8(rr), uint8(gg), uint8(bb), 255
}

// colorFromHex is the lenient form used for built-in theme tables
func colorFromHex(hex string) Color {
	r, g, b, _ := parseHexColor(hex)
	return RGB(r, g, b)
}

// ParseColor accepts "#RRGGBB", "0xRRGGBB" or a bare "RRGGBB"
func ParseColor(s string) (Color, error) {
	hex := strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(hex, "#"):
		hex = hex[1:]
	case strings.HasPrefix(hex, "0x"), strings.HasPrefix(hex, "0X"):
		hex = hex[2:]
	}
	if len(hex) != 6 {
		return 0, fmt.Errorf("invalid color %q: want #RRGGBB", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color(v), nil
}

func RGB(r, g, b uint8) Color {
	return Color(r)<<16 | Color(g)<<8 | Color(b)
}

func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

func (c Color) ToRGBA() color.RGBA {
	r, g, b := c.RGB()
	return color.RGBA{r, g, b, 255}
}

func (c Color) Hex() string {
	return fmt.Sprintf("#%06X", uint32(c&MAX_COLOR))
}

func (c Color) String() string { return c.Hex() }

func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Hex())
}

// UnmarshalJSON takes either a hex string or a plain integer, which is how
// phone-side configuration pages send colors.
func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := ParseColor(s)
		if err != nil {
			return err
		}
		*c = v
		return nil
	}

	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid color %s: want #RRGGBB or integer", string(data))
	}
	if n < 0 || n > int64(MAX_COLOR) {
		return fmt.Errorf("invalid color %d: out of 24-bit range", n)
	}
	*c = Color(n)
	return nil
}

// GGSurface draws into an RGBA framebuffer through a gg context.
// On round displays everything but Clear is clipped to the inscribed circle.
type GGSurface struct {
	DC    *gg.Context
	FB    *image.RGBA
	Round bool
}

func NewGGSurface(width, height int, round bool) *GGSurface {
	dc := gg.NewContext(width, height)
	fb, ok := dc.Image().(*image.RGBA)
	if !ok {
		fb = image.NewRGBA(image.Rect(0, 0, width, height))
		dc = gg.NewContextForRGBA(fb)
	}
	return &GGSurface{DC: dc, FB: fb, Round: round}
}

func (s *GGSurface) Size() (int, int) {
	return s.FB.Rect.Dx(), s.FB.Rect.Dy()
}

// Clear fills the whole framebuffer directly, bypassing gg
func (s *GGSurface) Clear(c Color) {
	r, g, b := c.RGB()
	s.fastFillRect(0, 0, s.FB.Rect.Dx(), s.FB.Rect.Dy(), r, g, b, 255)
}

func (s *GGSurface) StrokeLine(p1, p2 gg.Point, c Color, width float64) {
	dc := s.DC
	dc.Push()
	s.clipToFace()
	dc.SetColor(c.ToRGBA())
	dc.SetLineWidth(width)
	dc.DrawLine(p1.X, p1.Y, p2.X, p2.Y)
	dc.Stroke()
	dc.ResetClip()
	dc.Pop()
}

func (s *GGSurface) FillPolygon(points []gg.Point, c Color) {
	if len(points) < 3 {
		return
	}
	dc := s.DC
	dc.Push()
	s.clipToFace()
	dc.SetColor(c.ToRGBA())
	dc.MoveTo(points[0].X, points[0].Y)
	for _, p := range points[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.ClosePath()
	dc.Fill()
	dc.ResetClip()
	dc.Pop()
}

func (s *GGSurface) clipToFace() {
	if !s.Round {
		return
	}
	b := BoundsFor(s.Size())
	s.DC.DrawCircle(b.Center.X, b.Center.Y, b.Radius)
	s.DC.Clip()
}

// Snapshot copies the framebuffer so it can be handed to another goroutine
func (s *GGSurface) Snapshot() *image.RGBA {
	cp := image.NewRGBA(s.FB.Rect)
	copy(cp.Pix, s.FB.Pix)
	return cp
}

// fastFillRect fills a rectangle directly in the framebuffer with the given color
// Much faster than gg.DrawRectangle + Fill on ARM
func (s *GGSurface) fastFillRect(x, y, w, h int, r, g, b, a uint8) {
	fb := s.FB
	bounds := fb.Rect
	stride := fb.Stride

	// Clip to framebuffer bounds
	x0 := x
	y0 := y
	x1 := x + w
	y1 := y + h
	if x0 < bounds.Min.X {
		x0 = bounds.Min.X
	}
	if y0 < bounds.Min.Y {
		y0 = bounds.Min.Y
	}
	if x1 > bounds.Max.X {
		x1 = bounds.Max.X
	}
	if y1 > bounds.Max.Y {
		y1 = bounds.Max.Y
	}
	if x0 >= x1 || y0 >= y1 {
		return
	}

	pix := fb.Pix
	for row := y0; row < y1; row++ {
		rowOff := (row-bounds.Min.Y)*stride + (x0-bounds.Min.X)*4
		for col := x0; col < x1; col++ {
			pix[rowOff] = r
			pix[rowOff+1] = g
			pix[rowOff+2] = b
			pix[rowOff+3] = a
			rowOff += 4
		}
	}
}
