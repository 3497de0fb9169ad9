package textutil

import (
	"math"
	"strings"
	"unicode"
)

// Fingerprint is a character-trigram frequency vector of a short name.
type Fingerprint struct {
	grams map[string]float64
	norm  float64
}

// NewFingerprint builds a fingerprint from text. Returns nil when text has
// no letters or digits.
func NewFingerprint(text string) *Fingerprint {
	grams := Trigrams(text)
	if len(grams) == 0 {
		return nil
	}
	counts := make(map[string]float64, len(grams))
	for _, gram := range grams {
		counts[gram]++
	}
	var norm float64
	for _, count := range counts {
		norm += count * count
	}
	return &Fingerprint{grams: counts, norm: math.Sqrt(norm)}
}

// Trigrams lowercases text, collapses every run of non-alphanumerics to one
// space and returns the overlapping three-rune windows of " <words> ".
func Trigrams(text string) []string {
	normalized := normalizeWords(text)
	if normalized == "" {
		return nil
	}
	runes := []rune(" " + normalized + " ")
	out := make([]string, 0, len(runes))
	for i := 0; i+3 <= len(runes); i++ {
		out = append(out, string(runes[i:i+3]))
	}
	return out
}

// GramCount returns the number of distinct trigrams.
func (f *Fingerprint) GramCount() int {
	if f == nil {
		return 0
	}
	return len(f.grams)
}

func normalizeWords(text string) string {
	var b strings.Builder
	pendingSpace := false
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}
	return b.String()
}
