// Package scoring computes the engagement-oriented metrics attached to every
// validation report. The three scorers are pure functions over the caption
// text and the submitted hashtag list; they share the rule tables from the
// rules package but carry no state of their own.
package scoring

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/linpap/safecaption/internal/rules"
)

// sentenceSplit matches runs of sentence-ending punctuation.
var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// lowerCaser provides locale-stable lowercasing for hashtag comparison.
var lowerCaser = cases.Lower(language.English)

// Engagement estimates how likely a caption is to drive interaction.
//
// The score starts at 50 and accumulates bonuses:
//   - +10 when any call-to-action pattern matches (first match stops the scan)
//   - +20 when the caption length is in [100,150] runes, else +10 in [50,200]
//   - +15 when the hashtag count is in [5,10], else +10 in [3,15]
//   - +5 when the emoji count is in [1,3]
//
// The result is capped at 100. The base is positive, so no floor is needed.
func Engagement(caption string, hashtags []string) int {
	score := 50

	if rules.HasCallToAction(caption) {
		score += 10
	}

	switch n := utf8.RuneCountInString(caption); {
	case n >= 100 && n <= 150:
		score += 20
	case n >= 50 && n <= 200:
		score += 10
	}

	switch n := len(hashtags); {
	case n >= 5 && n <= 10:
		score += 15
	case n >= 3 && n <= 15:
		score += 10
	}

	if n := rules.CountEmoji(caption); n >= 1 && n <= 3 {
		score += 5
	}

	if score > 100 {
		score = 100
	}
	return score
}

// Readability scores the caption on average words per sentence.
//
// Sentences are split on runs of '.', '!' and '?' with empty fragments
// discarded; words are whitespace-separated fields. The sentence count is
// floored at 1 to avoid division by zero. Averages in [10,15] score 90,
// [5,20] score 70, anything else 50.
func Readability(caption string) int {
	sentences := 0
	for _, frag := range sentenceSplit.Split(caption, -1) {
		if strings.TrimSpace(frag) != "" {
			sentences++
		}
	}
	if sentences < 1 {
		sentences = 1
	}

	words := len(strings.Fields(caption))
	avg := float64(words) / float64(sentences)

	switch {
	case avg >= 10 && avg <= 15:
		return 90
	case avg >= 5 && avg <= 20:
		return 70
	default:
		return 50
	}
}

// HashtagRelevance measures how many submitted hashtags relate to the caption
// text. A hashtag counts as relevant when, after stripping a leading '#' and
// lowercasing, some caption word is a substring of the tag or vice versa.
// With no hashtags the function returns the neutral score 50.
func HashtagRelevance(caption string, hashtags []string) int {
	if len(hashtags) == 0 {
		return 50
	}

	words := strings.Fields(lowerCaser.String(caption))
	relevant := 0
	for _, tag := range hashtags {
		t := lowerCaser.String(strings.TrimPrefix(tag, "#"))
		if t == "" {
			continue
		}
		for _, w := range words {
			if strings.Contains(t, w) || strings.Contains(w, t) {
				relevant++
				break
			}
		}
	}

	return int(math.Round(float64(relevant) / float64(len(hashtags)) * 100))
}
