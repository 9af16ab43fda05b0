package image

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/blacktop/go-termimg"

	"gitlab.com/tinyland/lab/eventreel/pkg/terminal"
)

// ErrDisabled is returned when photos are turned off.
var ErrDisabled = errors.New("image rendering is disabled")

// Renderer encodes photos for a given protocol and cell size, caching each
// result by source, size and fit.
type Renderer struct {
	protocol     terminal.Protocol
	cellW, cellH int
	cache        *Cache
}

// NewRenderer creates a Renderer for caps with a render cache of cacheMB
// megabytes.
func NewRenderer(caps terminal.Capabilities, cacheMB int) *Renderer {
	w, h := caps.Size.Cell()
	return &Renderer{
		protocol: caps.Protocol,
		cellW:    w,
		cellH:    h,
		cache:    NewCache(cacheMB),
	}
}

// Protocol returns the active rendering protocol.
func (r *Renderer) Protocol() terminal.Protocol {
	return r.protocol
}

// Cache returns the render cache.
func (r *Renderer) Cache() *Cache {
	return r.cache
}

// Inline returns a renderer whose output composes with other text. Graphics
// protocols fall back to halfblocks; the render cache is shared.
func (r *Renderer) Inline() *Renderer {
	if r.protocol.Inline() {
		return r
	}
	cp := *r
	cp.protocol = terminal.ProtocolHalfblocks
	return &cp
}

// Render encodes img into a cols x rows cell box. source names the image
// (its URL) and keys the cache.
func (r *Renderer) Render(source string, img image.Image, cols, rows int, fit Fit) (string, error) {
	if r.protocol == terminal.ProtocolNone {
		return "", ErrDisabled
	}
	if img == nil {
		return "", errors.New("image is nil")
	}
	if cols <= 0 || rows <= 0 {
		return "", fmt.Errorf("invalid cell box %dx%d", cols, rows)
	}

	key := renderKey{protocol: r.protocol.String(), source: source, cols: cols, rows: rows, fit: fit}
	if s, ok := r.cache.get(key); ok {
		return s, nil
	}

	var (
		out string
		err error
	)
	switch r.protocol {
	case terminal.ProtocolKitty:
		out, err = r.renderTermimg(img, termimg.Kitty, cols, rows, fit)
	case terminal.ProtocolITerm2:
		out, err = r.renderTermimg(img, termimg.ITerm2, cols, rows, fit)
	case terminal.ProtocolSixel:
		out, err = r.renderTermimg(img, termimg.Sixel, cols, rows, fit)
	default:
		// Each cell holds two vertically stacked pixels.
		out = Halfblocks(Scale(img, cols, rows*2, fit))
	}
	if err != nil {
		return "", fmt.Errorf("render %s as %s: %w", source, r.protocol, err)
	}

	r.cache.put(key, out)
	return out, nil
}

// renderTermimg scales to the pixel box first so the escape carries no more
// data than the terminal will show.
func (r *Renderer) renderTermimg(img image.Image, proto termimg.Protocol, cols, rows int, fit Fit) (string, error) {
	scaled := Scale(img, cols*r.cellW, rows*r.cellH, fit)
	ti := termimg.New(scaled)
	if ti == nil {
		return "", errors.New("go-termimg: failed to wrap image")
	}
	ti.Protocol(proto).Size(cols, rows).Scale(termimg.ScaleFit)
	return ti.Render()
}

// Halfblocks encodes img with U+2580 cells: the top pixel is the foreground
// and the bottom pixel the background. Rows are newline separated and every
// row ends with a reset.
func Halfblocks(img *image.NRGBA) string {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return ""
	}

	var sb strings.Builder
	sb.Grow(w * ((h + 1) / 2) * 40)
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		if y > b.Min.Y {
			sb.WriteByte('\n')
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			// Past the last row NRGBAAt yields a transparent pixel.
			top, bot := img.NRGBAAt(x, y), img.NRGBAAt(x, y+1)

			switch {
			case top.A == 0 && bot.A == 0:
				sb.WriteString("\x1b[0m ")
			case top.A == 0:
				fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm\x1b[49m▄", bot.R, bot.G, bot.B)
			case bot.A == 0:
				fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm\x1b[49m▀", top.R, top.G, top.B)
			default:
				fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
					top.R, top.G, top.B, bot.R, bot.G, bot.B)
			}
		}
		sb.WriteString("\x1b[0m")
	}
	return sb.String()
}
