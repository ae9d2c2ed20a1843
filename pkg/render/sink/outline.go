package sink

import (
	"image"
	"math"
)

// dilate returns src grown by a disk of radius r: each output pixel is the
// maximum coverage within distance r in src. Outside src counts as zero.
//
// Row maxima over [x-k, x+k] are built incrementally for k = 0..r, then each
// output pixel takes the maximum over rows dy of the row maximum at the
// disk's half-width for that dy.
func dilate(src *image.Alpha, r int) *image.Alpha {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewAlpha(image.Rect(0, 0, w, h))
	if r <= 0 || w == 0 || h == 0 {
		copyAlpha(dst, src)
		return dst
	}

	at := func(x, y int) uint8 {
		if x < 0 || x >= w {
			return 0
		}
		return src.Pix[y*src.Stride+x]
	}

	rows := make([][]uint8, r+1)
	rows[0] = make([]uint8, w*h)
	for y := 0; y < h; y++ {
		copy(rows[0][y*w:(y+1)*w], src.Pix[y*src.Stride:y*src.Stride+w])
	}
	for k := 1; k <= r; k++ {
		prev := rows[k-1]
		cur := make([]uint8, w*h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				cur[y*w+x] = max(prev[y*w+x], at(x-k, y), at(x+k, y))
			}
		}
		rows[k] = cur
	}

	halfWidth := make([]int, 2*r+1)
	for dy := -r; dy <= r; dy++ {
		halfWidth[dy+r] = int(math.Floor(math.Sqrt(float64(r*r - dy*dy))))
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var m uint8
			for dy := -r; dy <= r; dy++ {
				yy := y + dy
				if yy < 0 || yy >= h {
					continue
				}
				if v := rows[halfWidth[dy+r]][yy*w+x]; v > m {
					m = v
					if m == 0xff {
						break
					}
				}
			}
			dst.Pix[y*dst.Stride+x] = m
		}
	}
	return dst
}

func copyAlpha(dst, src *image.Alpha) {
	b := src.Bounds()
	for y := 0; y < b.Dy(); y++ {
		copy(dst.Pix[y*dst.Stride:], src.Pix[y*src.Stride:y*src.Stride+b.Dx()])
	}
}
