// Package sink draws a computed [layout.Layout] onto a background image.
//
// # Overview
//
// Every line is drawn twice: first the outline, then the fill on top. The
// outline is the glyph coverage mask dilated by a disk whose radius is the
// style's outline width, painted in the style's stroke colour. Both colours
// are blended with their alpha, so half-transparent outlines let the
// background show through.
//
//	img, err := sink.Render(bg, l,
//	    sink.WithStyle(style),
//	    sink.WithFonts(fonts.DefaultSet()),
//	)
//	data, err := sink.RenderPNG(bg, l, sink.WithStyle(style))
//
// Title lines use the full outline width and message lines the narrower
// [styles.Style.BodyStrokeWidth]. A width of zero draws fill only.
//
// # Concurrency
//
// Rendering never mutates the background or the layout, so both may be
// shared by concurrent renders. Font faces are created per call.
//
// [layout.Layout]: github.com/matzehuels/postcard/pkg/render/layout.Layout
// [styles.Style.BodyStrokeWidth]: github.com/matzehuels/postcard/pkg/render/styles.Style.BodyStrokeWidth
package sink
