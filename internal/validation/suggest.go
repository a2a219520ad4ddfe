package validation

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/linpap/safecaption/internal/rules"
)

// maxHashtags is Instagram's published per-post hashtag ceiling.
const maxHashtags = 30

var (
	lowerCaser = cases.Lower(language.English)

	bangRun     = regexp.MustCompile(`!{3,}`)
	questionRun = regexp.MustCompile(`\?{3,}`)
	dotRun      = regexp.MustCompile(`\.{4,}`)
)

// spamPhraseRemovers deletes spam-phrase occurrences case-insensitively.
// Compiled once from the shared phrase table.
var spamPhraseRemovers = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(rules.SpamPhrases))
	for _, p := range rules.SpamPhrases {
		out = append(out, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(p)))
	}
	return out
}()

// OptimizeHashtags normalizes a submitted hashtag list: lower-cases and
// de-duplicates entries (first occurrence wins), prefixes tags lacking '#',
// truncates to 30, and pads short lists from the trending fallback table,
// skipping tags already present.
//
// The function is idempotent: re-running it on its own output produces the
// same list.
func OptimizeHashtags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, maxHashtags)

	add := func(tag string) {
		tag = strings.TrimSpace(lowerCaser.String(tag))
		if tag == "" || tag == "#" {
			return
		}
		if !strings.HasPrefix(tag, "#") {
			tag = "#" + tag
		}
		if _, dup := seen[tag]; dup {
			return
		}
		seen[tag] = struct{}{}
		if len(out) < maxHashtags {
			out = append(out, tag)
		}
	}

	for _, t := range tags {
		add(t)
	}
	for _, t := range rules.TrendingHashtags {
		if len(out) >= maxHashtags {
			break
		}
		add(t)
	}
	return out
}

// SanitizeCaption produces a best-effort cleanup of an unsafe caption:
// inappropriate-pattern matches are masked with "***", spam phrases are
// deleted, punctuation runs are collapsed (!!!->!, ???->?, ....->...), and
// surrounding whitespace is trimmed. Grammaticality is not guaranteed.
func SanitizeCaption(caption string) string {
	out := caption

	for _, re := range rules.Inappropriate {
		out = re.ReplaceAllString(out, "***")
	}
	for _, re := range spamPhraseRemovers {
		out = re.ReplaceAllString(out, "")
	}

	out = bangRun.ReplaceAllString(out, "!")
	out = questionRun.ReplaceAllString(out, "?")
	out = dotRun.ReplaceAllString(out, "...")

	return strings.TrimSpace(out)
}
