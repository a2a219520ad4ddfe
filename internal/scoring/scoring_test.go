package scoring

import (
	"strings"
	"testing"
)

func TestEngagementBase(t *testing.T) {
	// Short caption, no CTA, no hashtags, no emoji: base only.
	if got := Engagement("hi", nil); got != 50 {
		t.Fatalf("Engagement = %d, want 50", got)
	}
}

func TestEngagementBonuses(t *testing.T) {
	// CTA (+10), length 100..150 (+20), 5..10 hashtags (+15), 1..3 emoji (+5).
	caption := "Tag a friend who would love this one 😀 " + strings.Repeat("go ", 25)
	tags := []string{"#a", "#b", "#c", "#d", "#e"}

	got := Engagement(caption, tags)
	want := 50 + 10 + 15 + 5
	// Length bonus depends on rune count of the synthetic caption.
	n := len([]rune(caption))
	switch {
	case n >= 100 && n <= 150:
		want += 20
	case n >= 50 && n <= 200:
		want += 10
	}
	if want > 100 {
		want = 100
	}
	if got != want {
		t.Fatalf("Engagement = %d, want %d (len=%d)", got, want, n)
	}
}

func TestEngagementCap(t *testing.T) {
	// All bonuses: 50+10+20+15+5 = 100, capped at 100.
	caption := "Tag a friend 😀 " + strings.Repeat("abcde ", 18) // ~123 runes
	n := len([]rune(caption))
	if n < 100 || n > 150 {
		t.Fatalf("fixture length out of band: %d", n)
	}
	if got := Engagement(caption, []string{"#a", "#b", "#c", "#d", "#e"}); got != 100 {
		t.Fatalf("Engagement = %d, want 100", got)
	}
}

func TestReadability(t *testing.T) {
	cases := []struct {
		caption string
		want    int
	}{
		// 12 words, 1 sentence -> avg 12 -> 90
		{"one two three four five six seven eight nine ten eleven twelve.", 90},
		// 6 words, 1 sentence -> avg 6 -> 70
		{"one two three four five six.", 70},
		// 2 words, 1 sentence -> avg 2 -> 50
		{"hello world", 50},
		// 24 words, 2 sentences -> avg 12 -> 90
		{strings.Repeat("w ", 12) + ". " + strings.Repeat("w ", 12) + "!", 90},
		// empty caption: 0 words / 1 sentence -> 50
		{"", 50},
	}
	for _, tc := range cases {
		if got := Readability(tc.caption); got != tc.want {
			t.Errorf("Readability(%q) = %d, want %d", tc.caption, got, tc.want)
		}
	}
}

func TestHashtagRelevanceEmpty(t *testing.T) {
	if got := HashtagRelevance("anything at all", nil); got != 50 {
		t.Fatalf("HashtagRelevance = %d, want 50", got)
	}
	if got := HashtagRelevance("", []string{}); got != 50 {
		t.Fatalf("HashtagRelevance = %d, want 50", got)
	}
}

func TestHashtagRelevance(t *testing.T) {
	// "fashion" appears in the caption; "#style" does not relate.
	got := HashtagRelevance("new fashion drop today", []string{"#fashion", "#crypto"})
	if got != 50 {
		t.Fatalf("HashtagRelevance = %d, want 50", got)
	}

	// Substring in either direction: caption word "fash" inside tag "fashionista".
	got = HashtagRelevance("fash forward looks", []string{"#fashionista"})
	if got != 100 {
		t.Fatalf("HashtagRelevance = %d, want 100", got)
	}

	// No overlap at all.
	got = HashtagRelevance("quiet lake morning", []string{"#crypto", "#forex"})
	if got != 0 {
		t.Fatalf("HashtagRelevance = %d, want 0", got)
	}
}
