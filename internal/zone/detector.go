package zone

import (
	"image"
	"sort"

	"github.com/Maximus-Decimu5/OCR-Tool/internal/geom"
)

// Detect finds geometric candidate regions on a preprocessed grayscale
// page. It binarizes the page adaptively at three window scales, joins
// nearby ink with morphological closing and returns the bounding box of
// every connected component that passes the basic size gates.
//
// Detection is purely structural; semantic meaning is assigned later by
// Classify. Zero candidates is a valid outcome and false positives are
// expected (they are removed by Filter).
func Detect(img *image.Gray, p DetectParams) []geom.Rect {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	if w == 0 || h == 0 {
		return nil
	}

	integral := newIntegral(img)

	mask := adaptiveBinarize(img, integral, p.FineBlock, p.FineC)
	orInto(mask, adaptiveBinarize(img, integral, p.StandardBlock, p.StandardC))
	orInto(mask, adaptiveBinarize(img, integral, p.LargeBlock, p.LargeC))

	closeHorizontal(mask, w, h, p.HKernel)
	closeVertical(mask, w, h, p.VKernel)

	boxes := components(mask, w, h)

	pageArea := float64(w * h)
	minArea := p.MinAreaRatio * pageArea
	maxArea := p.MaxAreaRatio * pageArea

	candidates := make([]geom.Rect, 0, len(boxes))
	for _, b := range boxes {
		area := float64(b.Area())
		aspect := b.AspectRatio()

		if area < minArea || area > maxArea {
			continue
		}
		if b.Width < p.MinWidth || b.Height < p.MinHeight {
			continue
		}
		if aspect < p.MinAspect || aspect > p.MaxAspect {
			continue
		}
		candidates = append(candidates, b)
	}

	// Emission order must not leak scan-line ordering artifacts into
	// later stages; sort top-to-bottom, then left-to-right.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Y != candidates[j].Y {
			return candidates[i].Y < candidates[j].Y
		}
		return candidates[i].X < candidates[j].X
	})

	return candidates
}

// integralImage holds summed-area values for O(1) window means.
type integralImage struct {
	sums []uint64
	w, h int
}

func newIntegral(img *image.Gray) *integralImage {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	ii := &integralImage{sums: make([]uint64, (w+1)*(h+1)), w: w, h: h}

	stride := w + 1
	for y := 0; y < h; y++ {
		var rowSum uint64
		for x := 0; x < w; x++ {
			rowSum += uint64(img.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			ii.sums[(y+1)*stride+(x+1)] = ii.sums[y*stride+(x+1)] + rowSum
		}
	}
	return ii
}

// mean returns the average intensity of the window centered at (x, y)
// with the given half size, clamped to the image.
func (ii *integralImage) mean(x, y, half int) float64 {
	x0 := max(0, x-half)
	y0 := max(0, y-half)
	x1 := min(ii.w-1, x+half)
	y1 := min(ii.h-1, y+half)

	stride := ii.w + 1
	sum := ii.sums[(y1+1)*stride+(x1+1)] -
		ii.sums[(y0)*stride+(x1+1)] -
		ii.sums[(y1+1)*stride+(x0)] +
		ii.sums[(y0)*stride+(x0)]

	count := (x1 - x0 + 1) * (y1 - y0 + 1)
	return float64(sum) / float64(count)
}

// adaptiveBinarize marks a pixel as ink when it is darker than the local
// window mean minus the offset c. The result is an inverted binary mask
// (true = ink) like the original's THRESH_BINARY_INV output.
func adaptiveBinarize(img *image.Gray, integral *integralImage, block, c int) []bool {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	half := block / 2

	mask := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			local := integral.mean(x, y, half)
			if float64(img.GrayAt(b.Min.X+x, b.Min.Y+y).Y) < local-float64(c) {
				mask[y*w+x] = true
			}
		}
	}
	return mask
}

func orInto(dst, src []bool) {
	for i, v := range src {
		if v {
			dst[i] = true
		}
	}
}

// closeHorizontal performs morphological closing with a (size x 1)
// rectangular kernel: dilation joins characters into words, the
// following erosion restores the outline.
func closeHorizontal(mask []bool, w, h, size int) {
	if size <= 1 {
		return
	}
	half := size / 2
	dilated := make([]bool, len(mask))
	for y := 0; y < h; y++ {
		row := y * w
		for x := 0; x < w; x++ {
			for dx := -half; dx <= half; dx++ {
				xx := x + dx
				if xx >= 0 && xx < w && mask[row+xx] {
					dilated[row+x] = true
					break
				}
			}
		}
	}
	for y := 0; y < h; y++ {
		row := y * w
		for x := 0; x < w; x++ {
			keep := true
			for dx := -half; dx <= half; dx++ {
				xx := x + dx
				if xx < 0 || xx >= w || !dilated[row+xx] {
					keep = false
					break
				}
			}
			mask[row+x] = keep
		}
	}
}

// closeVertical performs morphological closing with a (1 x size) kernel,
// joining adjacent text lines into blocks.
func closeVertical(mask []bool, w, h, size int) {
	if size <= 1 {
		return
	}
	half := size / 2
	dilated := make([]bool, len(mask))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			for dy := -half; dy <= half; dy++ {
				yy := y + dy
				if yy >= 0 && yy < h && mask[yy*w+x] {
					dilated[y*w+x] = true
					break
				}
			}
		}
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			keep := true
			for dy := -half; dy <= half; dy++ {
				yy := y + dy
				if yy < 0 || yy >= h || !dilated[yy*w+x] {
					keep = false
					break
				}
			}
			mask[y*w+x] = keep
		}
	}
}

// components labels 4-connected ink components and returns their
// bounding boxes.
func components(mask []bool, w, h int) []geom.Rect {
	visited := make([]bool, len(mask))
	var boxes []geom.Rect
	var stack []int

	for start := range mask {
		if !mask[start] || visited[start] {
			continue
		}

		minX, minY := start%w, start/w
		maxX, maxY := minX, minY

		stack = append(stack[:0], start)
		visited[start] = true

		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			x, y := idx%w, idx/w
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}

			if x > 0 {
				push(mask, visited, &stack, idx-1)
			}
			if x < w-1 {
				push(mask, visited, &stack, idx+1)
			}
			if y > 0 {
				push(mask, visited, &stack, idx-w)
			}
			if y < h-1 {
				push(mask, visited, &stack, idx+w)
			}
		}

		boxes = append(boxes, geom.Rect{
			X: minX, Y: minY,
			Width:  maxX - minX + 1,
			Height: maxY - minY + 1,
		})
	}
	return boxes
}

func push(mask, visited []bool, stack *[]int, idx int) {
	if mask[idx] && !visited[idx] {
		visited[idx] = true
		*stack = append(*stack, idx)
	}
}
