package textutil

import (
	"math"
	"testing"
)

func TestCosineSimilarityNil(t *testing.T) {
	tests := []struct {
		name string
		a    *Fingerprint
		b    *Fingerprint
	}{
		{"both nil", nil, nil},
		{"a nil", nil, NewFingerprint("road trip")},
		{"b nil", NewFingerprint("road trip"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CosineSimilarity(tt.a, tt.b); got != 0 {
				t.Errorf("CosineSimilarity() = %v, want 0", got)
			}
		})
	}
}

func TestCosineSimilarityIgnoresCaseAndPunctuation(t *testing.T) {
	a := NewFingerprint("Road Trip 2026")
	b := NewFingerprint("road-trip__2026!")

	if got := CosineSimilarity(a, b); math.Abs(got-1) > 1e-9 {
		t.Errorf("CosineSimilarity(normalized equal) = %v, want 1", got)
	}
}

func TestCosineSimilarityDisjoint(t *testing.T) {
	if got := CosineSimilarity(NewFingerprint("abc"), NewFingerprint("xyz")); got != 0 {
		t.Errorf("CosineSimilarity(disjoint) = %v, want 0", got)
	}
}

func TestTrigrams(t *testing.T) {
	got := Trigrams("Hi, Bo")
	want := []string{" hi", "hi ", "i b", " bo", "bo "}
	if len(got) != len(want) {
		t.Fatalf("Trigrams() = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Trigrams()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if Trigrams("  ...  ") != nil {
		t.Fatal("expected no trigrams for punctuation-only input")
	}
	if NewFingerprint("!!") != nil {
		t.Fatal("expected nil fingerprint for punctuation-only input")
	}
}

func TestClosest(t *testing.T) {
	candidates := []string{"Birthday Party", "Road Trip", "Wedding Highlights"}

	best, score, ok := Closest("road trp", candidates)
	if !ok || best != "Road Trip" {
		t.Fatalf("Closest() = %q (%.2f, %v), want Road Trip", best, score, ok)
	}

	if _, _, ok := Closest("quarterly taxes", candidates); ok {
		t.Fatal("expected no suggestion for an unrelated query")
	}
	if _, _, ok := Closest("", candidates); ok {
		t.Fatal("expected no suggestion for an empty query")
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Road Trip  ", "Road Trip"},
		{"a/b:c*d", "a-b-c-d"},
		{"what?<>|\"", "what"},
		{"...", "untitled"},
		{"", "untitled"},
	}
	for _, tt := range tests {
		if got := SanitizeFileName(tt.in, "untitled"); got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestShellQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "''"},
		{"-c:v", "-c:v"},
		{"/tmp/out.mp4", "/tmp/out.mp4"},
		{"my clip.mp4", "'my clip.mp4'"},
		{"it's", `'it'\''s'`},
		{"[0:v]trim=start=1", "'[0:v]trim=start=1'"},
	}
	for _, tt := range tests {
		if got := ShellQuote(tt.in); got != tt.want {
			t.Errorf("ShellQuote(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := ShellJoin([]string{"ffmpeg", "-i", "a b.mp4"}); got != "ffmpeg -i 'a b.mp4'" {
		t.Errorf("ShellJoin() = %q", got)
	}
}
