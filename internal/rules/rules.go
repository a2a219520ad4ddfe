// Package rules holds the static heuristic tables used by the caption
// validation pipeline. The tables are compiled once at package init and are
// never mutated afterwards, so they are safe to share across all concurrent
// request handlers without synchronization.
//
// Four logical tables are exposed:
//   - Inappropriate:     word-boundary regexps for hate/violence/abuse,
//     follow-for-follow spam, link/DM solicitations, follower selling
//   - SpamPhrases:       plain substrings matched case-insensitively
//   - MisleadingClaims:  regexps for guaranteed-outcome and advice claims
//   - TrendingHashtags:  fallback tags used only to pad suggestions
//
// CallToAction is an auxiliary table consumed by the engagement scorer; it is
// kept here so every pattern the pipeline relies on lives in one leaf package.
package rules

import (
	"regexp"
	"strings"
)

// Inappropriate contains the case-insensitive, word-boundary patterns that
// mark a caption as unsafe. Table order matters: detection stops at the first
// matching entry, so broader patterns come first.
var Inappropriate = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(hate|hateful|kill(ing)? yourself|kys)\b`),
	regexp.MustCompile(`(?i)\b(violence|violent|assault|attack(ing)? (him|her|them|you))\b`),
	regexp.MustCompile(`(?i)\b(abuse|abusive|harass(ment|ing)?|bully(ing)?)\b`),
	regexp.MustCompile(`(?i)\b(racist|sexist|bigot(ry)?|slur)\b`),
	regexp.MustCompile(`(?i)\bf(ollow)?\s?4\s?f(ollow)?\b`),
	regexp.MustCompile(`(?i)\bfollow\s+for\s+follow(back)?\b`),
	regexp.MustCompile(`(?i)\b(click\s+(the\s+)?link|tap\s+the\s+link)\b`),
	regexp.MustCompile(`(?i)\bdm\s+me\s+(now|fast|asap|to buy)\b`),
	regexp.MustCompile(`(?i)\b(buy|free|cheap)\s+followers\b`),
	regexp.MustCompile(`(?i)\bget\s+\d+k?\s+followers\b`),
}

// SpamPhrases are matched by case-insensitive containment against the whole
// caption. Entries are stored lower-cased; match through ContainsSpamPhrase.
var SpamPhrases = []string{
	"dm for collab",
	"dm for promo",
	"check my bio",
	"link in bio",
	"100% real",
	"100% legit",
	"no scam",
	"get rich quick",
	"earn money fast",
	"follow back guaranteed",
	"limited spots only",
}

// MisleadingClaims flag captions that promise outcomes or dispense regulated
// advice. First match wins, same as the other tables.
var MisleadingClaims = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bguaranteed\s+(results?|success|money|income)\b`),
	regexp.MustCompile(`(?i)\b(miracle|instant)\s+(cure|results?|fix)\b`),
	regexp.MustCompile(`(?i)\bcures?\s+(all|any|every)\b`),
	regexp.MustCompile(`(?i)\b(medical|financial|legal)\s+advice\b`),
	regexp.MustCompile(`(?i)\brisk[- ]free\s+investment\b`),
}

// CallToAction patterns drive the engagement bonus. Tested in table order;
// the first match stops further scanning.
var CallToAction = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(comment|share|like|follow|tag|save)\b`),
	regexp.MustCompile(`(?i)\b(let me know|tell me|what do you think|your thoughts)\b`),
	regexp.MustCompile(`(?i)\b(double\s+tap|turn on notifications|swipe up)\b`),
	regexp.MustCompile(`\?\s*$`),
}

// TrendingHashtags is the fallback list used to pad optimized hashtag sets up
// to the Instagram ceiling of 30. Ordering reflects rough popularity.
var TrendingHashtags = []string{
	"#instagood", "#photooftheday", "#love", "#fashion", "#beautiful",
	"#happy", "#art", "#photography", "#picoftheday", "#nature",
	"#travel", "#style", "#instadaily", "#reels", "#explore",
	"#fitness", "#food", "#music", "#motivation", "#lifestyle",
}

// hashtagToken matches inline "#word" tokens inside a caption body.
var hashtagToken = regexp.MustCompile(`#\w+`)

// FirstInappropriate returns the first matching inappropriate pattern, or nil.
func FirstInappropriate(caption string) *regexp.Regexp {
	for _, re := range Inappropriate {
		if re.MatchString(caption) {
			return re
		}
	}
	return nil
}

// FirstSpamPhrase returns the first spam phrase contained in the caption
// (case-insensitive) and true, or "" and false when none match.
func FirstSpamPhrase(caption string) (string, bool) {
	lower := strings.ToLower(caption)
	for _, p := range SpamPhrases {
		if strings.Contains(lower, p) {
			return p, true
		}
	}
	return "", false
}

// FirstMisleadingClaim returns the first matching misleading-claim pattern,
// or nil.
func FirstMisleadingClaim(caption string) *regexp.Regexp {
	for _, re := range MisleadingClaims {
		if re.MatchString(caption) {
			return re
		}
	}
	return nil
}

// HasCallToAction reports whether any call-to-action pattern matches. The
// scan stops at the first hit.
func HasCallToAction(caption string) bool {
	for _, re := range CallToAction {
		if re.MatchString(caption) {
			return true
		}
	}
	return false
}

// CountEmoji counts runes in the emoticon block (U+1F600–U+1F64F) plus the
// supplemental symbol blocks commonly used in captions (U+1F300–U+1F5FF,
// U+1F900–U+1F9FF). The range is intentionally narrow; flags, modifiers and
// ZWJ sequences are not decoded.
func CountEmoji(s string) int {
	n := 0
	for _, r := range s {
		switch {
		case r >= 0x1F600 && r <= 0x1F64F:
			n++
		case r >= 0x1F300 && r <= 0x1F5FF:
			n++
		case r >= 0x1F900 && r <= 0x1F9FF:
			n++
		}
	}
	return n
}

// CountBodyHashtags counts "#word" tokens embedded in the caption text
// itself, independent of the hashtag list submitted alongside it.
func CountBodyHashtags(caption string) int {
	return len(hashtagToken.FindAllString(caption, -1))
}
