package zone

import (
	"image"
	"math"

	"github.com/Maximus-Decimu5/OCR-Tool/internal/geom"
)

// Filter measures ink statistics for each candidate box, drops regions
// whose statistics say "not text" (page-filling frames, near-empty or
// near-solid regions, flat tone without contrast) and merges boxes that
// substantially overlap. Rejection reasons are independent; a region is
// dropped on the first gate it fails.
func Filter(img *image.Gray, boxes []geom.Rect, p FilterParams) []Candidate {
	if len(boxes) == 0 {
		return nil
	}

	pageArea := float64(img.Bounds().Dx() * img.Bounds().Dy())

	kept := make([]Candidate, 0, len(boxes))
	for _, b := range boxes {
		c := Analyze(img, b)

		if pageArea > 0 && float64(b.Area())/pageArea > p.MaxAreaRatio {
			continue
		}
		if c.InkDensity < p.MinDensity || c.InkDensity > p.MaxDensity {
			continue
		}
		if c.StdDev < p.MinStdDev {
			continue
		}
		if c.TransitionRatio < p.MinTransitionRatio {
			continue
		}
		kept = append(kept, c)
	}

	return merge(kept, p.OverlapTolerance)
}

// Analyze computes the ink statistics of a region. The ink threshold is
// chosen per region with Otsu's method so light scans and dark scans
// measure comparably.
func Analyze(img *image.Gray, r geom.Rect) Candidate {
	bounds := geom.Rect{
		X: img.Bounds().Min.X, Y: img.Bounds().Min.Y,
		Width: img.Bounds().Dx(), Height: img.Bounds().Dy(),
	}
	r = r.Clip(bounds)

	c := Candidate{Bounds: r}
	if r.Empty() {
		return c
	}

	var hist [256]int
	var sum, sumSq float64
	total := r.Area()

	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			v := img.GrayAt(x, y).Y
			hist[v]++
			fv := float64(v)
			sum += fv
			sumSq += fv * fv
		}
	}

	mean := sum / float64(total)
	variance := sumSq/float64(total) - mean*mean
	if variance > 0 {
		c.StdDev = math.Sqrt(variance)
	}

	threshold := otsu(hist, total)

	inkPixels := 0
	transitions := 0
	inLine := false

	for y := r.Y; y < r.Bottom(); y++ {
		rowInk := 0
		prevInk := false
		for x := r.X; x < r.Right(); x++ {
			ink := img.GrayAt(x, y).Y <= threshold
			if ink {
				inkPixels++
				rowInk++
			}
			if x > r.X && ink != prevInk {
				transitions++
			}
			prevInk = ink
		}

		// A row counts as part of a text line when at least 5% of it
		// is ink; consecutive inky rows form one line.
		if rowInk*20 >= r.Width {
			if !inLine {
				c.LineCount++
				inLine = true
			}
		} else {
			inLine = false
		}
	}

	c.InkDensity = float64(inkPixels) / float64(total)
	c.TransitionRatio = float64(transitions) / float64(total)
	return c
}

// otsu picks the intensity threshold maximizing between-class variance.
func otsu(hist [256]int, total int) uint8 {
	var sumAll float64
	for v, n := range hist {
		sumAll += float64(v) * float64(n)
	}

	var sumBack float64
	var weightBack int
	bestVar := -1.0
	best := uint8(127)

	for v := 0; v < 256; v++ {
		weightBack += hist[v]
		if weightBack == 0 {
			continue
		}
		weightFore := total - weightBack
		if weightFore == 0 {
			break
		}
		sumBack += float64(v) * float64(hist[v])

		meanBack := sumBack / float64(weightBack)
		meanFore := (sumAll - sumBack) / float64(weightFore)
		diff := meanBack - meanFore
		between := float64(weightBack) * float64(weightFore) * diff * diff

		if between > bestVar {
			bestVar = between
			best = uint8(v)
		}
	}
	return best
}

// merge repeatedly unions candidates whose overlap ratio exceeds the
// tolerance. The union keeps the statistics of the denser member; one
// pass can create new overlaps, so it loops until stable.
func merge(cands []Candidate, tolerance float64) []Candidate {
	if len(cands) < 2 {
		return cands
	}

	merged := true
	for merged {
		merged = false
		out := make([]Candidate, 0, len(cands))
		used := make([]bool, len(cands))

		for i := 0; i < len(cands); i++ {
			if used[i] {
				continue
			}
			cur := cands[i]
			for j := i + 1; j < len(cands); j++ {
				if used[j] {
					continue
				}
				if cur.Bounds.OverlapRatio(cands[j].Bounds) > tolerance {
					winner := cur
					if cands[j].InkDensity > cur.InkDensity {
						winner = cands[j]
					}
					winner.Bounds = cur.Bounds.Union(cands[j].Bounds)
					cur = winner
					used[j] = true
					merged = true
				}
			}
			out = append(out, cur)
		}
		cands = out
	}
	return cands
}
