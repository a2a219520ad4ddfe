package validation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/linpap/safecaption/internal/rules"
	"github.com/linpap/safecaption/internal/scoring"
)

// Fixed issue strings. Each maps 1:1 to a triggered check; checks never
// double-report within one pass because detection short-circuits per table.
const (
	issueInappropriate = "Caption contains inappropriate or harmful content"
	issueSpamPhrase    = "Caption contains spam phrases"
	issueExcessEmoji   = "Excessive emoji usage detected"
	issueExcessTags    = "Too many hashtags in caption body"
	issueMisleading    = "Caption contains misleading claims"
)

// Penalty weights per check. Penalties are purely subtractive and
// order-independent; only the first-match short-circuit inside each table is
// order-sensitive.
const (
	penaltyInappropriate = 30
	penaltySpamPhrase    = 20
	penaltyExcessEmoji   = 10
	penaltyExcessTags    = 10
	penaltyMisleading    = 25

	maxEmojiBeforeFlag = 15
	maxBodyHashtags    = 10
)

// Validator runs the moderation pipeline. It is stateless and safe for
// concurrent use; a single instance is shared by all request handlers.
type Validator struct{}

// New constructs a Validator.
func New() *Validator { return &Validator{} }

// Validate scores the caption against the heuristic tables and assembles the
// full report, including metrics and suggestions.
//
// Check order is fixed: hate speech, spam (phrase + emoji + body hashtags),
// compliance. Each check is gated by its option flag; metrics are computed
// unconditionally. The score is clamped to [0,100] after all subtractions.
func (v *Validator) Validate(ctx context.Context, req Request) Report {
	tr := otel.Tracer("validation/Validator")
	_, span := tr.Start(ctx, "Validate",
		trace.WithAttributes(
			attribute.Int("caption.len", len(req.Caption)),
			attribute.Int("hashtags.count", len(req.Hashtags)),
		),
	)
	defer span.End()

	rep := Report{
		Safe:   true,
		Score:  100,
		Issues: []string{},
	}

	if req.Options.CheckHateSpeech {
		if rules.FirstInappropriate(req.Caption) != nil {
			rep.Issues = append(rep.Issues, issueInappropriate)
			rep.Safe = false
			rep.Score -= penaltyInappropriate
		}
	}

	if req.Options.CheckSpam {
		if _, ok := rules.FirstSpamPhrase(req.Caption); ok {
			rep.Issues = append(rep.Issues, issueSpamPhrase)
			rep.Safe = false
			rep.Score -= penaltySpamPhrase
		}
		// Emoji and body-hashtag counts are independent of the phrase match
		// and of each other; neither flips the safe flag.
		if rules.CountEmoji(req.Caption) > maxEmojiBeforeFlag {
			rep.Issues = append(rep.Issues, issueExcessEmoji)
			rep.Score -= penaltyExcessEmoji
		}
		if rules.CountBodyHashtags(req.Caption) > maxBodyHashtags {
			rep.Issues = append(rep.Issues, issueExcessTags)
			rep.Score -= penaltyExcessTags
		}
	}

	if req.Options.CheckCompliance {
		if rules.FirstMisleadingClaim(req.Caption) != nil {
			rep.Issues = append(rep.Issues, issueMisleading)
			rep.Safe = false
			rep.Score -= penaltyMisleading
		}
	}

	// Metrics are always computed, regardless of option flags.
	rep.Metrics = Metrics{
		EngagementScore:  scoring.Engagement(req.Caption, req.Hashtags),
		ReadabilityScore: scoring.Readability(req.Caption),
		HashtagRelevance: scoring.HashtagRelevance(req.Caption, req.Hashtags),
	}

	rep.Suggestions = v.suggest(req, rep.Safe)

	// Clamp last, after all subtractions.
	if rep.Score < 0 {
		rep.Score = 0
	}
	if rep.Score > 100 {
		rep.Score = 100
	}

	span.SetAttributes(
		attribute.Bool("report.safe", rep.Safe),
		attribute.Int("report.score", rep.Score),
	)
	return rep
}

// suggest assembles the optional suggestions block. Hashtag optimization runs
// when enabled and tags were submitted; caption sanitization runs only when
// the caption was flagged unsafe.
func (v *Validator) suggest(req Request, safe bool) *Suggestions {
	var s Suggestions

	if req.Options.OptimizeHashtags && len(req.Hashtags) > 0 {
		s.Hashtags = OptimizeHashtags(req.Hashtags)
	}
	if !safe && req.Caption != "" {
		s.Caption = SanitizeCaption(req.Caption)
	}

	if s.Caption == "" && s.Hashtags == nil {
		return nil
	}
	return &s
}
