package textutil

// CosineSimilarity computes the cosine similarity between two fingerprints.
// Returns 0 if either fingerprint is nil or has zero norm.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	var dot float64
	for gram, count := range a.grams {
		if other, ok := b.grams[gram]; ok {
			dot += count * other
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (a.norm * b.norm)
}

// SuggestThreshold is the similarity a candidate needs before Closest offers it.
const SuggestThreshold = 0.35

// Closest returns the candidate most similar to query and its score. ok is
// false when nothing reaches SuggestThreshold. Ties keep the earlier candidate.
func Closest(query string, candidates []string) (best string, score float64, ok bool) {
	target := NewFingerprint(query)
	if target == nil {
		return "", 0, false
	}
	for _, candidate := range candidates {
		s := CosineSimilarity(target, NewFingerprint(candidate))
		if s > score {
			best, score = candidate, s
		}
	}
	if score < SuggestThreshold {
		return "", score, false
	}
	return best, score, true
}
