package zone

import (
	"regexp"
	"strings"

	"github.com/Maximus-Decimu5/OCR-Tool/internal/geom"
)

// patternRule binds a zone type to the content patterns that identify
// it. Rules are evaluated in order and the first match wins, so the
// more specific document-level cues (header, date, price) come before
// the generic ones.
type patternRule struct {
	typ      Type
	patterns []*regexp.Regexp
}

func compileRules() []patternRule {
	mustAll := func(exprs ...string) []*regexp.Regexp {
		out := make([]*regexp.Regexp, len(exprs))
		for i, e := range exprs {
			out[i] = regexp.MustCompile(`(?i)` + e)
		}
		return out
	}

	return []patternRule{
		{TypeHeader, mustAll(
			`facture|invoice|devis|quote|bon de commande`,
			`société|company|entreprise|sarl|sas|sa\b`,
			`n°\s*\d+|numero|number`,
		)},
		{TypeDate, mustAll(
			`\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}`,
			`\d{1,2}\s+(janvier|février|mars|avril|mai|juin|juillet|août|septembre|octobre|novembre|décembre)`,
			`date\s*:`,
		)},
		{TypePrice, mustAll(
			`\d+[,.]\d{2}\s*€`,
			`€\s*\d+[,.]\d{2}`,
			`total|montant|prix|price|amount`,
			`tva|ht|ttc|tax`,
		)},
		{TypeAddress, mustAll(
			`\d+\s+(rue|avenue|boulevard|place|chemin)`,
			`\d{5}\s+[a-zA-Z]+`,
			`adresse|address`,
		)},
		{TypeReference, mustAll(
			`ref\s*:?\s*\w+`,
			`référence|reference`,
			`n°|num|number`,
		)},
		{TypeSignature, mustAll(
			`signature|signé|signed`,
			`cachet|stamp`,
		)},
	}
}

// Classifier assigns a semantic type to detected zones from their
// recognized content (when available) and their geometry on the page.
type Classifier struct {
	params ClassifyParams
	rules  []patternRule
}

func NewClassifier(p ClassifyParams) *Classifier {
	return &Classifier{params: p, rules: compileRules()}
}

// Classify returns the type of a candidate region and how confident
// the assignment is. content may be empty, in which case only geometry
// and the candidate's pixel statistics are consulted. Assignments below
// the configured minimum confidence collapse to the body type, never to
// an error.
func (c *Classifier) Classify(cand Candidate, page geom.Rect, content string) (Type, float64) {
	typ, conf := c.classify(cand, page, content)
	if conf < c.params.MinConfidence {
		return TypeBody, c.params.MinConfidence
	}
	return typ, conf
}

func (c *Classifier) classify(cand Candidate, page geom.Rect, content string) (Type, float64) {
	bounds := cand.Bounds
	text := strings.ToLower(strings.TrimSpace(content))

	// Content cues are the strongest signal when we have any text.
	if len(text) >= 2 {
		for _, rule := range c.rules {
			for _, re := range rule.patterns {
				if re.MatchString(text) {
					return rule.typ, 0.9
				}
			}
		}
	}

	if page.Height > 0 && page.Width > 0 {
		// Top band: wide zones are headers, narrow ones document
		// references (invoice numbers, client codes).
		if float64(bounds.Y) < float64(page.Height)*c.params.HeaderBand {
			if float64(bounds.Width) > float64(page.Width)*0.5 {
				return TypeHeader, 0.65
			}
			return TypeReference, 0.55
		}

		// Bottom band: thin strips are footers, taller blocks most
		// likely hold a signature.
		if float64(bounds.Y) > float64(page.Height)*c.params.FooterBand {
			if bounds.Height < 50 {
				return TypeFooter, 0.6
			}
			return TypeSignature, 0.55
		}
	}

	// Digit-heavy text with currency or separator symbols reads as an
	// amount even without a keyword.
	if len(text) > 0 {
		digits := 0
		for _, r := range text {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		ratio := float64(digits) / float64(len([]rune(text)))
		if ratio > 0.3 && strings.ContainsAny(content, "€$%,") {
			return TypePrice, 0.7
		}
	}

	// Several stacked text lines in a wide block read as tabular
	// content.
	if c.params.TableLines > 0 && cand.LineCount >= c.params.TableLines && bounds.AspectRatio() > 1.5 {
		return TypeTable, 0.55
	}

	// A long thin strip in the middle of the page is running text.
	if bounds.AspectRatio() > 5 {
		return TypeBody, 0.5
	}

	return TypeBody, 0.3
}

// TypeBonus is the confidence adjustment a resolved zone earns from its
// semantic type. Document-level anchors gain a little trust, noise
// loses most of it.
func TypeBonus(t Type) float64 {
	switch t {
	case TypeHeader, TypeDate:
		return 0.1
	case TypePrice:
		return 0.15
	case TypeReference:
		return 0.05
	case TypeNoise:
		return -0.5
	default:
		return 0.0
	}
}
