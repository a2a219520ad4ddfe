// Caption validation HTTP handler.
//
// This file exposes the metered endpoint the whole service exists for:
//   - POST /api/v1/validate
//
// The handler is transport-thin: it enforces the caption presence and length
// contract, runs the moderation pipeline, and performs post-request usage
// accounting against the gate decision stored by the APIKeyGate middleware.
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/linpap/safecaption/internal/http/middleware"
	"github.com/linpap/safecaption/internal/services"
	"github.com/linpap/safecaption/internal/validation"
)

// captionValidations counts completed pipeline runs by outcome.
var captionValidations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "caption_validations_total",
		Help: "Total number of caption validations by outcome.",
	},
	[]string{"outcome"},
)

func init() {
	prometheus.MustRegister(captionValidations)
}

//
// Service contracts (context-aware)
//

// CaptionValidator runs the moderation pipeline over one request.
//
// Implementations must be safe for concurrent use; the pipeline itself is
// stateless.
type CaptionValidator interface {
	Validate(ctx context.Context, req validation.Request) validation.Report
}

// UsageRecorder performs the post-request accounting for an allowed request.
type UsageRecorder interface {
	RecordUsage(ctx context.Context, d *services.Decision, endpoint, clientIP string, status int)
}

//
// DTOs
//

// ValidateOptions mirrors the pipeline toggles in the request payload. Keys
// are camelCase to match the rest of the wire contract. Nil pointers mean
// "use the default" so that a partial options object only overrides what it
// names.
type ValidateOptions struct {
	CheckHateSpeech   *bool `json:"checkHateSpeech,omitempty"`
	CheckSpam         *bool `json:"checkSpam,omitempty"`
	CheckCompliance   *bool `json:"checkCompliance,omitempty"`
	OptimizeHashtags  *bool `json:"optimizeHashtags,omitempty"`
	PredictEngagement *bool `json:"predictEngagement,omitempty"`
}

// ValidateRequest is the JSON payload for caption validation.
type ValidateRequest struct {
	// Caption is the Instagram caption text to validate (required, ≤2200 chars).
	Caption string `json:"caption" example:"Check out my new collection! 🔥"`
	// Hashtags are the tags to score for relevance, with or without '#'.
	Hashtags []string `json:"hashtags" example:"#fashion,#style"`
	// Options selectively toggles checks; omitted fields keep their defaults.
	Options *ValidateOptions `json:"options,omitempty"`
}

//
// Handlers
//

// ValidateCaption godoc
// @ID          validateCaption
// @Summary     Validate an Instagram caption
// @Description Runs the moderation and scoring pipeline over a caption and hashtag set.
// @Tags        Validation
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
//
// @Param       body  body  handlers.ValidateRequest  true  "Caption to validate"
//
// @Success     200  {object}  validation.Report
// @Header      200  {string}  X-Processing-Time     "Pipeline duration, e.g. 3ms"
// @Header      200  {string}  X-RateLimit-Limit     "Per-minute request ceiling"
// @Header      200  {string}  X-RateLimit-Remaining "Requests left in the window"
// @Failure     400  {object}  handlers.ErrorResponse "Missing or oversized caption"
// @Failure     401  {object}  handlers.ErrorResponse "Missing or invalid API key"
// @Failure     429  {object}  handlers.ErrorResponse "Quota or rate limit exceeded"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /validate [post]
func (h *Handlers) ValidateCaption(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	// Contract checks happen before the pipeline; a denied request must not
	// consume quota.
	if strings.TrimSpace(req.Caption) == "" {
		fail(c, http.StatusBadRequest, ErrCodeMissingCaption, "caption is required")
		return
	}
	if utf8.RuneCountInString(req.Caption) > validation.MaxCaptionLen {
		fail(c, http.StatusBadRequest, ErrCodeCaptionTooLong,
			fmt.Sprintf("caption exceeds %d characters", validation.MaxCaptionLen))
		return
	}

	start := time.Now()
	report := h.validator.Validate(c.Request.Context(), validation.Request{
		Caption:  req.Caption,
		Hashtags: req.Hashtags,
		Options:  pipelineOptions(req.Options),
	})
	elapsed := time.Since(start)
	report.ProcessingTime = elapsed.Milliseconds()

	outcome := "safe"
	if !report.Safe {
		outcome = "flagged"
	}
	captionValidations.WithLabelValues(outcome).Inc()

	c.Header("X-Processing-Time", fmt.Sprintf("%dms", elapsed.Milliseconds()))
	ok(c, http.StatusOK, report)

	// Accounting runs after the response is written; a failed write never
	// turns a served request into an error.
	if d := middleware.DecisionFrom(c); d != nil {
		h.usage.RecordUsage(c.Request.Context(), d, c.FullPath(), c.ClientIP(), http.StatusOK)
	}
}

// pipelineOptions merges a partial options payload over the defaults.
func pipelineOptions(in *ValidateOptions) validation.Options {
	opts := validation.DefaultOptions()
	if in == nil {
		return opts
	}
	if in.CheckHateSpeech != nil {
		opts.CheckHateSpeech = *in.CheckHateSpeech
	}
	if in.CheckSpam != nil {
		opts.CheckSpam = *in.CheckSpam
	}
	if in.CheckCompliance != nil {
		opts.CheckCompliance = *in.CheckCompliance
	}
	if in.OptimizeHashtags != nil {
		opts.OptimizeHashtags = *in.OptimizeHashtags
	}
	if in.PredictEngagement != nil {
		opts.PredictEngagement = *in.PredictEngagement
	}
	return opts
}
