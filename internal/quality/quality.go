// Package quality scores recognized text independently of the engine
// that produced it. Engines report their own confidence on different
// scales and with different optimism; the metrics here measure the text
// itself so confidences from different engines can be compared fairly.
package quality

import (
	"regexp"
	"strings"
)

// Metrics holds the per-criterion scores for a piece of recognized
// text. All values are in [0, 1].
type Metrics struct {
	CharacterConsistency float64
	DocumentStructure    float64
	InformationDensity   float64
	ErrorPenalty         float64
}

// Factor collapses the metrics into a single multiplier. The weights
// favor character consistency since garbage characters are the
// strongest sign of a misread.
func (m Metrics) Factor() float64 {
	return m.CharacterConsistency*0.3 +
		m.DocumentStructure*0.25 +
		m.InformationDensity*0.25 +
		(1-m.ErrorPenalty)*0.2
}

var (
	structurePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`),
		regexp.MustCompile(`\b\d+[.,]\d{2}\s*[€$]`),
		regexp.MustCompile(`\b[A-Z]{2,}\d+\b`),
		regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		regexp.MustCompile(`\b\d{2}[\s.-]?\d{2}[\s.-]?\d{2}[\s.-]?\d{2}[\s.-]?\d{2}\b`),
	}

	documentKeywords = []string{"facture", "invoice", "total", "date", "montant", "prix", "tva"}

	errorPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b[Il1|]{2,}\b`),
		regexp.MustCompile(`\b[O0]{2,}\b`),
		regexp.MustCompile(`(?i)\b[rn]{2,}m\b`),
		regexp.MustCompile(`(?i)\b[cl]{2,}\b`),
	}

	amountPattern = regexp.MustCompile(`\d+[.,]\d{2}`)
)

// Evaluate measures the quality of recognized text.
func Evaluate(text string) Metrics {
	lines := splitLines(text)
	if len(lines) == 0 {
		return Metrics{}
	}
	return Metrics{
		CharacterConsistency: characterConsistency(lines),
		DocumentStructure:    documentStructure(lines),
		InformationDensity:   informationDensity(lines),
		ErrorPenalty:         errorPenalty(lines),
	}
}

// Adjust rescales an engine-reported confidence by the measured quality
// of its text. The blend keeps most of the engine's own signal so a
// plain but correct reading is not crushed by neutral metrics. The
// result is clamped to [0, 0.99]; quality evidence alone never yields
// certainty.
func Adjust(confidence float64, text string) float64 {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}

	factor := Evaluate(text).Factor()
	adjusted := confidence * (0.6 + 0.4*factor)

	// Short fragments carry little evidence either way.
	if len(trimmed) <= 2 {
		adjusted *= 0.7
	}

	lower := strings.ToLower(trimmed)
	switch {
	case containsAny(lower, "facture", "total", "date", "montant"):
		adjusted *= 1.1
	case amountPattern.MatchString(trimmed):
		adjusted *= 1.05
	}

	if adjusted < 0 {
		return 0
	}
	if adjusted > 0.99 {
		return 0.99
	}
	return adjusted
}

func splitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

func characterConsistency(lines []string) float64 {
	total, valid := 0, 0
	for _, line := range lines {
		for _, r := range line {
			total++
			if isValidChar(r) {
				valid++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(valid) / float64(total)
}

func isValidChar(r rune) bool {
	if r >= '0' && r <= '9' {
		return true
	}
	if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
		return true
	}
	// Accented letters common in French documents.
	if strings.ContainsRune("àâäéèêëîïôöùûüçÀÂÄÉÈÊËÎÏÔÖÙÛÜÇ", r) {
		return true
	}
	return strings.ContainsRune(" .,;:!?-()[]{}\"'€$%/\\@#&*+=<>", r)
}

func documentStructure(lines []string) float64 {
	text := strings.Join(lines, " ")

	score, weight := 0.0, 0.0
	for _, re := range structurePatterns {
		if n := len(re.FindAllString(text, -1)); n > 0 {
			score += float64(n) * 0.2
			weight += 0.2
		}
	}

	lower := strings.ToLower(text)
	keywordCount := 0
	for _, kw := range documentKeywords {
		keywordCount += strings.Count(lower, kw)
	}
	if keywordCount > 0 {
		score += float64(keywordCount) * 0.1
		weight += 0.1
	}

	if weight < 1.0 {
		weight = 1.0
	}
	if s := score / weight; s < 1.0 {
		return s
	}
	return 1.0
}

func informationDensity(lines []string) float64 {
	total, meaningful := 0, 0
	reasonable := 0
	for _, line := range lines {
		total += len(line)
		clean := strings.TrimSpace(line)
		if len(clean) > 2 {
			meaningful += len(clean)
		}
		if len(clean) >= 5 && len(clean) <= 100 {
			reasonable++
		}
	}

	density := 0.0
	if total > 0 {
		density = float64(meaningful) / float64(total)
	}
	lineQuality := float64(reasonable) / float64(len(lines))
	return (density + lineQuality) / 2
}

func errorPenalty(lines []string) float64 {
	text := strings.Join(lines, " ")
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}

	errors := 0
	for _, re := range errorPatterns {
		errors += len(re.FindAllString(text, -1))
	}

	// Runs of the same character longer than 3 are almost always a
	// recognition artifact.
	for _, w := range words {
		if len(w) > 3 && longestRun(w) > 3 {
			errors++
		}
	}

	penalty := float64(errors) / float64(len(words))
	if penalty > 1.0 {
		return 1.0
	}
	return penalty
}

func longestRun(s string) int {
	best, run := 1, 1
	prev := rune(-1)
	for i, r := range s {
		if i > 0 && r == prev {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 1
		}
		prev = r
	}
	return best
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
