package sink

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/postcard/pkg/errors"
	"github.com/matzehuels/postcard/pkg/fonts"
	"github.com/matzehuels/postcard/pkg/render/layout"
	"github.com/matzehuels/postcard/pkg/render/styles"
)

// PNGOption configures rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	style styles.Style
	fonts fonts.Set
}

// WithStyle sets the colour treatment. The default is the first stock style.
func WithStyle(s styles.Style) PNGOption {
	return func(r *pngRenderer) { r.style = s }
}

// WithFonts sets the typefaces. They must be the ones the layout was
// measured with, otherwise lines drift off centre.
func WithFonts(set fonts.Set) PNGOption {
	return func(r *pngRenderer) { r.fonts = set }
}

func newRenderer(opts []PNGOption) pngRenderer {
	r := pngRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	if r.style.ID == "" {
		r.style = styles.Default().All()[0]
	}
	if r.fonts.Title == nil || r.fonts.Body == nil {
		def := fonts.DefaultSet()
		if r.fonts.Title == nil {
			r.fonts.Title = def.Title
		}
		if r.fonts.Body == nil {
			r.fonts.Body = def.Body
		}
	}
	return r
}

// Render draws the layout onto a copy of bg and returns the result.
// The layout must have been computed for bg's dimensions.
func Render(bg image.Image, l layout.Layout, opts ...PNGOption) (*image.RGBA, error) {
	if bg == nil {
		return nil, errors.New(errors.ErrCodeInvalidImage, "background is nil")
	}
	size := bg.Bounds().Size()
	if size.X != l.Width || size.Y != l.Height {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"layout is for %dx%d, background is %dx%d", l.Width, l.Height, size.X, size.Y)
	}

	r := newRenderer(opts)
	dc := gg.NewContextForImage(bg)
	dst, ok := dc.Image().(*image.RGBA)
	if !ok {
		return nil, errors.New(errors.ErrCodeInternal, "canvas is not RGBA")
	}

	if len(l.Title) > 0 {
		face := r.fonts.Title.NewFace(l.TitleSize)
		for _, line := range l.Title {
			r.drawLine(dst, face, line, r.style.TitleStrokeWidth())
		}
	}
	if len(l.Body) > 0 {
		face := r.fonts.Body.NewFace(l.BodySize)
		for _, line := range l.Body {
			r.drawLine(dst, face, line, r.style.BodyStrokeWidth())
		}
	}
	return dst, nil
}

// RenderPNG draws the layout onto bg and encodes the result as PNG.
func RenderPNG(bg image.Image, l layout.Layout, opts ...PNGOption) ([]byte, error) {
	img, err := Render(bg, l, opts...)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := gg.NewContextForRGBA(img).EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "encode png")
	}
	return buf.Bytes(), nil
}

// drawLine paints one line: outline first, fill on top. line.Y is the top
// of the ascender, so the baseline sits at Y + ascent.
func (r pngRenderer) drawLine(dst *image.RGBA, face *fonts.Face, line layout.Line, strokeWidth int) {
	if line.Text == "" {
		return
	}
	padX := strokeWidth + face.Size()/4 + 2
	padY := strokeWidth + 2
	w := int(math.Ceil(line.Width)) + 2*padX
	h := int(math.Ceil(face.Ascent()+face.Descent())) + 2*padY

	glyphs := glyphMask(face, line.Text, w, h, float64(padX), float64(padY)+face.Ascent())

	origin := image.Pt(int(line.X)-padX, int(line.Y)-padY).Add(dst.Bounds().Min)
	rect := image.Rectangle{Min: origin, Max: origin.Add(image.Pt(w, h))}

	if strokeWidth > 0 {
		outline := dilate(glyphs, strokeWidth)
		draw.DrawMask(dst, rect, image.NewUniform(r.style.Stroke), image.Point{}, outline, image.Point{}, draw.Over)
	}
	draw.DrawMask(dst, rect, image.NewUniform(r.style.Fill), image.Point{}, glyphs, image.Point{}, draw.Over)
}

// glyphMask rasterizes text into a w×h coverage mask with the baseline at
// (x, baseline).
func glyphMask(face *fonts.Face, text string, w, h int, x, baseline float64) *image.Alpha {
	mc := gg.NewContext(w, h)
	mc.SetFontFace(face.FontFace())
	mc.SetColor(color.White)
	mc.DrawString(text, x, baseline)

	rgba := mc.Image().(*image.RGBA)
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	for i := range mask.Pix {
		mask.Pix[i] = rgba.Pix[i*4+3]
	}
	return mask
}
