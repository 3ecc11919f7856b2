package easyocr

// RecognizeRequest is the payload for the /api/recognize endpoint of
// the EasyOCR sidecar service.
type RecognizeRequest struct {
	Image     string   `json:"image"` // base64 encoded
	Languages []string `json:"languages,omitempty"`
	Detail    bool     `json:"detail"` // true returns per-line boxes
}

// Line is one recognized text line with its box and confidence.
type Line struct {
	Text       string  `json:"text"`
	BBox       []int   `json:"bbox,omitempty"` // [x, y, width, height]
	Confidence float64 `json:"confidence"`     // [0, 1]
}

// RecognizeResponse is the sidecar's answer for one image.
type RecognizeResponse struct {
	Lines []Line `json:"lines"`
}

// HealthResponse reports the sidecar's readiness and loaded languages.
type HealthResponse struct {
	Status    string   `json:"status"`
	Languages []string `json:"languages,omitempty"`
}

// ErrorResponse is the sidecar's error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
