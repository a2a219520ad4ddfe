// Package validation implements the caption moderation pipeline: rule-based
// safety checks, score aggregation, metric computation, and best-effort
// suggestions. The pipeline is stateless; all inputs arrive in a Request and
// all outputs leave in a Report.
package validation

// MaxCaptionLen is the Instagram caption ceiling. Length is counted in
// Unicode code points, so an emoji or other astral character costs one unit
// rather than the two a UTF-16 surrogate pair would. Requests above the
// ceiling are rejected at the transport layer before the pipeline runs.
const MaxCaptionLen = 2200

// Options toggles the individual checks. The zero value disables everything;
// use DefaultOptions for the documented defaults (all checks enabled).
type Options struct {
	CheckHateSpeech   bool
	CheckSpam         bool
	CheckCompliance   bool
	OptimizeHashtags  bool
	PredictEngagement bool
}

// DefaultOptions returns the option set applied when a client omits the
// options object entirely.
func DefaultOptions() Options {
	return Options{
		CheckHateSpeech:   true,
		CheckSpam:         true,
		CheckCompliance:   true,
		OptimizeHashtags:  true,
		PredictEngagement: true,
	}
}

// Request is one immutable validation job. Hashtags keep their submitted
// order; relevance matching depends on it only for determinism.
type Request struct {
	Caption  string
	Hashtags []string
	Options  Options
}

// Metrics carries the three engagement-oriented scores, each in [0,100].
type Metrics struct {
	EngagementScore  int `json:"engagementScore"`
	ReadabilityScore int `json:"readabilityScore"`
	HashtagRelevance int `json:"hashtagRelevance"`
}

// Suggestions holds the optional cleanup output: a sanitized caption when the
// original was unsafe, and an optimized hashtag set when requested.
type Suggestions struct {
	Caption  string   `json:"caption,omitempty"`
	Hashtags []string `json:"hashtags,omitempty"`
}

// Report is the outcome of one pipeline run. Score starts at 100, is reduced
// by per-check penalties, and is clamped to [0,100] as the final step. Every
// entry in Issues corresponds to exactly one triggered check.
type Report struct {
	Safe        bool         `json:"safe"`
	Score       int          `json:"score"`
	Issues      []string     `json:"issues"`
	Suggestions *Suggestions `json:"suggestions,omitempty"`
	Metrics     Metrics      `json:"metrics"`
	// ProcessingTime is the wall-clock pipeline duration in milliseconds.
	// The pipeline leaves it zero; the HTTP handler stamps it once the run
	// completes, alongside the X-Processing-Time header.
	ProcessingTime int64 `json:"processingTime"`
}
