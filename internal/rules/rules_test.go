package rules

import "testing"

func TestFirstInappropriate(t *testing.T) {
	cases := []struct {
		caption string
		want    bool
	}{
		{"I hate mondays", true},
		{"follow for follow everyone", true},
		{"f4f please", true},
		{"click the link below", true},
		{"buy followers today", true},
		{"A sunny day at the beach", false},
		{"Whatever happens, stay kind", false},
	}
	for _, tc := range cases {
		got := FirstInappropriate(tc.caption) != nil
		if got != tc.want {
			t.Errorf("FirstInappropriate(%q) = %v, want %v", tc.caption, got, tc.want)
		}
	}
}

func TestFirstSpamPhrase(t *testing.T) {
	if p, ok := FirstSpamPhrase("New drop! LINK IN BIO for details"); !ok || p != "link in bio" {
		t.Fatalf("expected link in bio match, got %q/%v", p, ok)
	}
	if _, ok := FirstSpamPhrase("Just a normal caption"); ok {
		t.Fatalf("unexpected spam match")
	}
}

func TestFirstMisleadingClaim(t *testing.T) {
	if FirstMisleadingClaim("guaranteed results in 7 days") == nil {
		t.Fatalf("expected misleading match")
	}
	if FirstMisleadingClaim("this is not financial advice... just kidding, financial advice here") == nil {
		t.Fatalf("expected advice match")
	}
	if FirstMisleadingClaim("my honest review") != nil {
		t.Fatalf("unexpected misleading match")
	}
}

func TestHasCallToAction(t *testing.T) {
	if !HasCallToAction("Tag a friend who needs this") {
		t.Fatalf("imperative verb should match")
	}
	if !HasCallToAction("Which one would you pick?") {
		t.Fatalf("trailing question mark should match")
	}
	if HasCallToAction("Quiet morning by the lake.") {
		t.Fatalf("plain caption should not match")
	}
}

func TestCountEmoji(t *testing.T) {
	if got := CountEmoji("great day 😀😀🔥"); got != 3 {
		t.Fatalf("CountEmoji = %d, want 3", got)
	}
	if got := CountEmoji("no emoji here"); got != 0 {
		t.Fatalf("CountEmoji = %d, want 0", got)
	}
}

func TestCountBodyHashtags(t *testing.T) {
	if got := CountBodyHashtags("out now #fashion #style check it"); got != 2 {
		t.Fatalf("CountBodyHashtags = %d, want 2", got)
	}
	if got := CountBodyHashtags("no tags"); got != 0 {
		t.Fatalf("CountBodyHashtags = %d, want 0", got)
	}
}
