// Package profile normalizes stored and intake profile representations into a canonical profile.
package profile

import "strings"

// DegreeLevel is the academic level inferred from a free-text degree string
type DegreeLevel int

// Degree levels in ascending order
const (
	DegreeUnknown DegreeLevel = iota
	DegreeBachelor
	DegreeMasters
	DegreeDoctoral
)

func (l DegreeLevel) String() string {
	switch l {
	case DegreeBachelor:
		return "bachelors"
	case DegreeMasters:
		return "masters"
	case DegreeDoctoral:
		return "doctorate"
	default:
		return "unknown"
	}
}

// Postgraduate reports whether the level is master's or above
func (l DegreeLevel) Postgraduate() bool {
	return l >= DegreeMasters
}

// lexicon pairs full words, matched as case-insensitive substrings, with abbreviations,
// which must start a word so that "mph" does not fire inside "lymphology".
type lexicon struct {
	words   []string
	abbrevs []string
}

// Doctoral terms are checked first because "pharm.d" would otherwise read as a master's degree.
var (
	doctoralLexicon = lexicon{
		words:   []string{"doctor"},
		abbrevs: []string{"phd", "ph.d", "pharm.d", "pharmd"},
	}
	mastersLexicon = lexicon{
		words:   []string{"master"},
		abbrevs: []string{"mpharm", "m.pharm", "msc", "m.sc", "mba", "mph", "m."},
	}
	bachelorLexicon = lexicon{
		words:   []string{"bachelor"},
		abbrevs: []string{"bpharm", "b.pharm", "bsc", "b.sc", "mbbs", "b."},
	}
)

// ClassifyDegree maps a degree string onto a DegreeLevel
func ClassifyDegree(degree string) DegreeLevel {
	d := strings.ToLower(strings.TrimSpace(degree))
	if d == "" {
		return DegreeUnknown
	}
	words := degreeWords(d)
	switch {
	case doctoralLexicon.matches(d, words):
		return DegreeDoctoral
	case mastersLexicon.matches(d, words):
		return DegreeMasters
	case bachelorLexicon.matches(d, words):
		return DegreeBachelor
	default:
		return DegreeUnknown
	}
}

func (l lexicon) matches(s string, words []string) bool {
	for _, term := range l.words {
		if strings.Contains(s, term) {
			return true
		}
	}
	for _, w := range words {
		for _, abbrev := range l.abbrevs {
			if strings.HasPrefix(w, abbrev) {
				return true
			}
		}
	}
	return false
}

func degreeWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case ' ', '(', ')', ',', '/', '-', ';', '&':
			return true
		}
		return false
	})
}
