// Package extractor normalizes free-text transaction descriptions into stable
// pattern keys of the form VERB_COMPANY, so that repeated payments to the same
// counterparty collapse into a single pattern.
package extractor

import (
	"regexp"
	"strings"
)

const (
	// maxCompanyLength bounds the company token; longer tokens are almost
	// always concatenated free text, not a counterparty name.
	maxCompanyLength = 25

	minCompanyLength = 2

	// Vowel-less tokens are accepted as acronyms (SVB, KPN) only in this range.
	minAcronymLength = 3
	maxAcronymLength = 5
)

var (
	// Date-like substrings: 20250101, 2025-01-01, 01-01-2025, 01.01.2025.
	dateRe = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2}|\d{2}[-./]\d{2}[-./]\d{4}|\d{8})\b`)

	// Amount-like substrings: 150,00 or 150.00, optionally thousands-grouped.
	amountRe = regexp.MustCompile(`\b\d{1,3}(?:[.,]\d{3})*[.,]\d{2}\b`)

	// IBAN-style and other long reference codes.
	ibanRe    = regexp.MustCompile(`\b[A-Z]{2}\d{2}[A-Z0-9]{6,}\b`)
	longNumRe = regexp.MustCompile(`\d{6,}`)

	tokenSplitRe = regexp.MustCompile(`[^A-Z0-9]+`)

	lettersOnlyRe = regexp.MustCompile(`^[A-Z]+$`)
	digitsOnlyRe  = regexp.MustCompile(`^[0-9]+$`)

	vowelRe  = regexp.MustCompile(`[AEIOU]`)
	letterRe = regexp.MustCompile(`[A-Z]`)
)

// paymentVerbs are the leading payment-type indicators seen in Dutch and
// English bank descriptions. When the description does not start with one of
// these the leading word itself serves as the verb token.
var paymentVerbs = map[string]bool{
	"BETALING":       true,
	"BETAALAUTOMAAT": true,
	"OVERBOEKING":    true,
	"OVERSCHRIJVING": true,
	"INCASSO":        true,
	"STORTING":       true,
	"AFSCHRIJVING":   true,
	"BIJSCHRIJVING":  true,
	"PAYMENT":        true,
	"TRANSFER":       true,
	"PURCHASE":       true,
	"SEPA":           true,
	"IDEAL":          true,
}

// noiseWords are statement boilerplate that never names a counterparty.
var noiseWords = map[string]bool{
	"VIA":          true,
	"VAN":          true,
	"NAAR":         true,
	"DE":           true,
	"HET":          true,
	"EN":           true,
	"NAAM":         true,
	"KENMERK":      true,
	"OMSCHRIJVING": true,
	"MACHTIGING":   true,
	"FACTUUR":      true,
	"FACTUURNR":    true,
	"REF":          true,
	"REFERENTIE":   true,
	"PAS":          true,
	"PASVOLGNR":    true,
}

// ExtractPatternKey reduces a raw description to its VERB_COMPANY key.
// It reports ok=false when no stable company token can be isolated.
func ExtractPatternKey(description string) (string, bool) {
	tokens := normalize(description)
	if len(tokens) == 0 {
		return "", false
	}

	verbIdx := -1
	for i, tok := range tokens {
		if paymentVerbs[tok] {
			verbIdx = i
			break
		}
	}
	if verbIdx == -1 {
		// No known payment indicator: the leading word is the verb.
		if !lettersOnlyRe.MatchString(tokens[0]) {
			return "", false
		}
		verbIdx = 0
	}
	verb := tokens[verbIdx]

	for _, tok := range tokens[verbIdx+1:] {
		if paymentVerbs[tok] || noiseWords[tok] {
			continue
		}
		if isCompanyToken(tok) {
			return verb + "_" + tok, true
		}
	}
	return "", false
}

// normalize uppercases the description, strips date/amount/reference noise
// and splits it into tokens.
func normalize(description string) []string {
	s := strings.ToUpper(description)
	s = ibanRe.ReplaceAllString(s, " ")
	s = dateRe.ReplaceAllString(s, " ")
	s = amountRe.ReplaceAllString(s, " ")
	s = longNumRe.ReplaceAllString(s, " ")

	var tokens []string
	for _, tok := range tokenSplitRe.Split(s, -1) {
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// isCompanyToken decides whether a token is a plausible counterparty name.
// Names may start with digits ("2THELOO"); short vowel-less tokens are only
// accepted as acronyms (SVB, KPN).
func isCompanyToken(tok string) bool {
	if len(tok) < minCompanyLength || len(tok) > maxCompanyLength {
		return false
	}
	if digitsOnlyRe.MatchString(tok) {
		return false
	}
	if len(letterRe.FindAllString(tok, -1)) < 2 {
		return false
	}
	if !vowelRe.MatchString(tok) {
		return len(tok) >= minAcronymLength && len(tok) <= maxAcronymLength
	}
	return true
}
