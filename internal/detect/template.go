package detect

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	xdraw "golang.org/x/image/draw"
)

// Template is a reference image prepared for matching.
type Template struct {
	Name string
	Gray *image.Gray
}

// LoadTemplate reads and grayscales a reference image.
func LoadTemplate(name, path string) (*Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", name, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("template %s: decoding %s: %w", name, path, err)
	}
	return &Template{Name: name, Gray: ToGray(img)}, nil
}

// ToGray converts any image to 8-bit grayscale.
func ToGray(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(gray, gray.Bounds(), img, b.Min, xdraw.Src)
	return gray
}

// Match is a template match location with its similarity score.
type Match struct {
	X, Y  int     // top-left offset of the template within the searched image
	Score float64 // normalized cross-correlation in [-1,1]
}

// coarseScale is the downsampling factor of the first matching pass.
// A full-resolution exhaustive scan over a window capture is too slow for a
// sub-second poll interval; the coarse pass narrows the search to a small
// neighborhood refined at full resolution.
const coarseScale = 4

// MatchTemplate finds the best placement of tpl within img by normalized
// cross-correlation. Returns the best match; Score is 0 when the template
// does not fit inside the image.
func MatchTemplate(img *image.Gray, tpl *Template) Match {
	iw, ih := img.Bounds().Dx(), img.Bounds().Dy()
	tw, th := tpl.Gray.Bounds().Dx(), tpl.Gray.Bounds().Dy()
	if tw == 0 || th == 0 || tw > iw || th > ih {
		return Match{}
	}

	// Small searches run exhaustively at full resolution.
	if iw*ih <= 64*64 || tw < coarseScale*2 || th < coarseScale*2 {
		return bestMatch(img, tpl.Gray, 0, 0, iw-tw, ih-th)
	}

	coarseImg := downscale(img, coarseScale)
	coarseTpl := downscale(tpl.Gray, coarseScale)
	cw, ch := coarseTpl.Bounds().Dx(), coarseTpl.Bounds().Dy()
	coarse := bestMatch(coarseImg, coarseTpl,
		0, 0, coarseImg.Bounds().Dx()-cw, coarseImg.Bounds().Dy()-ch)

	// Refine around the coarse hit, one coarse cell in each direction.
	x0 := clamp(coarse.X*coarseScale-coarseScale, 0, iw-tw)
	y0 := clamp(coarse.Y*coarseScale-coarseScale, 0, ih-th)
	x1 := clamp(coarse.X*coarseScale+coarseScale, 0, iw-tw)
	y1 := clamp(coarse.Y*coarseScale+coarseScale, 0, ih-th)
	return bestMatch(img, tpl.Gray, x0, y0, x1, y1)
}

// bestMatch scans offsets [x0,x1]×[y0,y1] and returns the highest NCC score.
func bestMatch(img, tpl *image.Gray, x0, y0, x1, y1 int) Match {
	tw, th := tpl.Bounds().Dx(), tpl.Bounds().Dy()

	tMean, tDev := meanDev(tpl, 0, 0, tw, th)
	if tDev == 0 {
		// Flat template matches anything; refuse rather than false-positive.
		return Match{}
	}

	best := Match{Score: math.Inf(-1)}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			score := ncc(img, tpl, x, y, tMean, tDev)
			if score > best.Score {
				best = Match{X: x, Y: y, Score: score}
			}
		}
	}
	if math.IsInf(best.Score, -1) {
		return Match{}
	}
	return best
}

// ncc computes zero-mean normalized cross-correlation of tpl against img at
// offset (ox, oy).
func ncc(img, tpl *image.Gray, ox, oy int, tMean, tDev float64) float64 {
	tw, th := tpl.Bounds().Dx(), tpl.Bounds().Dy()

	iMean, iDev := meanDev(img, ox, oy, tw, th)
	if iDev == 0 {
		return 0
	}

	var sum float64
	for y := 0; y < th; y++ {
		iRow := img.PixOffset(ox, oy+y)
		tRow := tpl.PixOffset(0, y)
		for x := 0; x < tw; x++ {
			iv := float64(img.Pix[iRow+x]) - iMean
			tv := float64(tpl.Pix[tRow+x]) - tMean
			sum += iv * tv
		}
	}
	return sum / (iDev * tDev)
}

// meanDev returns the mean and the root of the summed squared deviation of a
// w×h region at (ox, oy).
func meanDev(img *image.Gray, ox, oy, w, h int) (mean, dev float64) {
	var sum float64
	for y := 0; y < h; y++ {
		row := img.PixOffset(ox, oy+y)
		for x := 0; x < w; x++ {
			sum += float64(img.Pix[row+x])
		}
	}
	n := float64(w * h)
	mean = sum / n

	var sq float64
	for y := 0; y < h; y++ {
		row := img.PixOffset(ox, oy+y)
		for x := 0; x < w; x++ {
			d := float64(img.Pix[row+x]) - mean
			sq += d * d
		}
	}
	return mean, math.Sqrt(sq)
}

// downscale shrinks a grayscale image by an integer factor.
func downscale(img *image.Gray, factor int) *image.Gray {
	w := img.Bounds().Dx() / factor
	h := img.Bounds().Dy() / factor
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	out := image.NewGray(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(out, out.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
