package zone

// DetectParams controls geometric candidate detection. The defaults mirror
// a scan profile tuned for mixed office documents; document-type presets
// override individual fields.
type DetectParams struct {
	// Disabled bypasses detection entirely; the pipeline substitutes a
	// single whole-page zone.
	Disabled bool

	// MinAreaRatio is the minimum candidate area as a fraction of the
	// page area.
	MinAreaRatio float64

	// MaxAreaRatio is the maximum candidate area as a fraction of the
	// page area.
	MaxAreaRatio float64

	// MinWidth and MinHeight gate tiny components, in pixels.
	MinWidth  int
	MinHeight int

	// MinAspect and MaxAspect bound width/height of candidates.
	MinAspect float64
	MaxAspect float64

	// FineBlock, StandardBlock and LargeBlock are the adaptive-threshold
	// window sizes of the three binarization scales (odd, in pixels).
	FineBlock     int
	StandardBlock int
	LargeBlock    int

	// FineC, StandardC and LargeC are the corresponding threshold offsets.
	FineC     int
	StandardC int
	LargeC    int

	// HKernel is the width of the horizontal closing kernel that joins
	// characters into words, VKernel the height of the vertical kernel
	// that joins words into blocks.
	HKernel int
	VKernel int
}

// DefaultDetectParams returns the baseline detection parameters.
func DefaultDetectParams() DetectParams {
	return DetectParams{
		MinAreaRatio:  0.0003,
		MaxAreaRatio:  0.7,
		MinWidth:      15,
		MinHeight:     8,
		MinAspect:     0.02,
		MaxAspect:     50,
		FineBlock:     11,
		StandardBlock: 15,
		LargeBlock:    21,
		FineC:         8,
		StandardC:     10,
		LargeC:        12,
		HKernel:       15,
		VKernel:       8,
	}
}

// FilterParams controls the anti-geometric filter.
type FilterParams struct {
	// MaxAreaRatio rejects candidates larger than this fraction of the
	// page (a near-full-page component is the page frame, not text).
	MaxAreaRatio float64

	// MinDensity and MaxDensity bound the foreground pixel fraction;
	// nearly empty or nearly solid regions are decorative shapes.
	MinDensity float64
	MaxDensity float64

	// MinStdDev rejects regions with uniform intensity (0-255 scale).
	MinStdDev float64

	// MinTransitionRatio rejects regions without the horizontal
	// ink/background alternation characteristic of text.
	MinTransitionRatio float64

	// OverlapTolerance is the maximum pairwise overlap ratio two
	// surviving candidates may have; pairs above it are merged.
	OverlapTolerance float64
}

// DefaultFilterParams returns the baseline filter parameters.
func DefaultFilterParams() FilterParams {
	return FilterParams{
		MaxAreaRatio:       0.5,
		MinDensity:         0.02,
		MaxDensity:         0.98,
		MinStdDev:          5,
		MinTransitionRatio: 0.01,
		OverlapTolerance:   0.4,
	}
}

// ClassifyParams controls semantic classification.
type ClassifyParams struct {
	// MinConfidence is the confidence a specific label must reach;
	// below it the zone falls back to the body catch-all.
	MinConfidence float64

	// HeaderBand is the fraction of page height considered "top".
	HeaderBand float64

	// FooterBand is the fraction of page height considered "bottom"
	// (measured from the top; zones beyond it are footer territory).
	FooterBand float64

	// TableLines is the minimum number of text lines for a wide block
	// to read as tabular content.
	TableLines int
}

// DefaultClassifyParams returns the baseline classification parameters.
func DefaultClassifyParams() ClassifyParams {
	return ClassifyParams{
		MinConfidence: 0.2,
		HeaderBand:    0.15,
		FooterBand:    0.8,
		TableLines:    4,
	}
}
