// Package text provides the fixed-table text normalization step applied to
// every input before speech synthesis.
//
// The pipeline is deliberately simple: whitespace collapse, removal of
// characters the speech engines mispronounce, abbreviation expansion,
// contraction expansion, and punctuation spacing for better speech rhythm.
package text

import (
	"regexp"
	"strings"
)

// disallowedPattern matches characters outside the set the speech engines
// handle cleanly: letters, digits, whitespace and basic punctuation.
const disallowedPattern = `[^\p{L}\p{N}_\s.,!?;:'"()-]`

// Processor normalizes raw text for speech synthesis.
type Processor struct {
	disallowed           *regexp.Regexp
	abbreviationReplacer *strings.Replacer
	contractionReplacer  *strings.Replacer
	punctuationReplacer  *strings.Replacer
}

// NewProcessor creates a text processor with compiled patterns and replacers.
func NewProcessor() *Processor {
	abbreviations := []string{
		"Mr.", "Mister",
		"Mrs.", "Missus",
		"Ms.", "Miss",
		"Dr.", "Doctor",
		"Prof.", "Professor",
		"Sr.", "Senior",
		"Jr.", "Junior",
		"Ltd.", "Limited",
		"Inc.", "Incorporated",
		"Corp.", "Corporation",
		"Co.", "Company",
		"etc.", "etcetera",
		"vs.", "versus",
		"e.g.", "for example",
		"i.e.", "that is",
		"Ave.", "Avenue",
		"St.", "Street",
		"Rd.", "Road",
		"Blvd.", "Boulevard",
	}

	// Whole-word forms must precede the bare suffix forms so that "won't"
	// expands to "will not" rather than "wo not".
	contractions := []string{
		"won't", "will not",
		"can't", "cannot",
		"n't", " not",
		"'re", " are",
		"'ve", " have",
		"'ll", " will",
		"'d", " would",
		"'m", " am",
	}

	punctuation := []string{
		",", ", ",
		".", ". ",
		"!", "! ",
		"?", "? ",
		";", "; ",
		":", ": ",
	}

	return &Processor{
		disallowed:           regexp.MustCompile(disallowedPattern),
		abbreviationReplacer: strings.NewReplacer(abbreviations...),
		contractionReplacer:  strings.NewReplacer(contractions...),
		punctuationReplacer:  strings.NewReplacer(punctuation...),
	}
}

// Process runs the full normalization pipeline over text.
func (p *Processor) Process(text string) string {
	if text == "" {
		return ""
	}

	cleaned := p.clean(text)
	cleaned = p.expandAbbreviations(cleaned)
	cleaned = p.expandContractions(cleaned)
	cleaned = p.spacePunctuation(cleaned)

	return strings.TrimSpace(cleaned)
}

// clean collapses whitespace and strips characters outside the allowed set.
func (p *Processor) clean(text string) string {
	collapsed := collapseWhitespace(text)

	return p.disallowed.ReplaceAllString(collapsed, "")
}

// expandAbbreviations converts common abbreviations to their full form.
func (p *Processor) expandAbbreviations(text string) string {
	return p.abbreviationReplacer.Replace(text)
}

// expandContractions converts common contractions to their full form.
func (p *Processor) expandContractions(text string) string {
	return p.contractionReplacer.Replace(text)
}

// spacePunctuation ensures a space follows pause punctuation, then collapses
// the doubled spaces this introduces.
func (p *Processor) spacePunctuation(text string) string {
	spaced := p.punctuationReplacer.Replace(text)

	return collapseWhitespace(spaced)
}

// collapseWhitespace reduces any whitespace run to a single space.
func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
