package validation

import (
	"reflect"
	"strings"
	"testing"
)

func TestOptimizeHashtagsNormalization(t *testing.T) {
	got := OptimizeHashtags([]string{"Fashion", "#fashion", "style", "#STYLE", "  "})

	if got[0] != "#fashion" || got[1] != "#style" {
		t.Fatalf("unexpected head: %v", got[:2])
	}
	for _, tag := range got {
		if !strings.HasPrefix(tag, "#") {
			t.Errorf("tag missing prefix: %q", tag)
		}
		if tag != strings.ToLower(tag) {
			t.Errorf("tag not lower-cased: %q", tag)
		}
	}
	seen := map[string]bool{}
	for _, tag := range got {
		if seen[tag] {
			t.Errorf("duplicate tag: %q", tag)
		}
		seen[tag] = true
	}
}

func TestOptimizeHashtagsPadsToThirty(t *testing.T) {
	got := OptimizeHashtags([]string{"#custom"})
	if len(got) > 30 {
		t.Fatalf("len = %d, want <= 30", len(got))
	}
	// 1 custom + 20 trending = 21 (fallback list shorter than the ceiling).
	if len(got) != 21 {
		t.Fatalf("len = %d, want 21", len(got))
	}
	if got[0] != "#custom" {
		t.Fatalf("custom tag not first: %v", got[:3])
	}
}

func TestOptimizeHashtagsTruncates(t *testing.T) {
	in := make([]string, 0, 40)
	for i := 0; i < 40; i++ {
		in = append(in, "#t"+strings.Repeat("x", i+1))
	}
	got := OptimizeHashtags(in)
	if len(got) != 30 {
		t.Fatalf("len = %d, want 30", len(got))
	}
}

func TestOptimizeHashtagsIdempotent(t *testing.T) {
	in := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		in = append(in, "#t"+strings.Repeat("a", i+1))
	}
	once := OptimizeHashtags(in)
	twice := OptimizeHashtags(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("not idempotent:\nonce:  %v\ntwice: %v", once, twice)
	}
}

func TestSanitizeCaptionMasksAndCollapses(t *testing.T) {
	got := SanitizeCaption("I hate this!!! Link in bio.... what????")

	if strings.Contains(strings.ToLower(got), "hate") {
		t.Fatalf("inappropriate word survived: %q", got)
	}
	if !strings.Contains(got, "***") {
		t.Fatalf("mask missing: %q", got)
	}
	if strings.Contains(strings.ToLower(got), "link in bio") {
		t.Fatalf("spam phrase survived: %q", got)
	}
	if strings.Contains(got, "!!") || strings.Contains(got, "??") {
		t.Fatalf("punctuation runs survived: %q", got)
	}
	if strings.Contains(got, "....") {
		t.Fatalf("dot run survived: %q", got)
	}
	if got != strings.TrimSpace(got) {
		t.Fatalf("not trimmed: %q", got)
	}
}
