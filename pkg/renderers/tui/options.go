package tui

import (
	"strings"
	"time"

	"github.com/goliatone/go-surveyform/pkg/visibility"
)

// OutputFormat controls how collected answers are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits a JSON object keyed by field name.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits the body a browser would submit.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits one "question: answer" line per answer.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme holds message prefixes. Kept free of ANSI specifics.
type Theme struct {
	PromptPrefix string
	InfoPrefix   string
	ErrorPrefix  string
}

// SubmitTransformer mutates collected answers before serialization.
type SubmitTransformer func(map[string]any) (map[string]any, error)

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

func WithSubmitTransformer(fn SubmitTransformer) Option {
	return func(r *Renderer) {
		r.submitTransformer = fn
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithEvaluator overrides the visibility policy (exact match by default).
func WithEvaluator(evaluator visibility.Evaluator) Option {
	return func(r *Renderer) {
		if evaluator != nil {
			r.evaluator = evaluator
		}
	}
}

// WithClock overrides the clock used to reject closed surveys.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}

// WithRequiredMessage overrides the message printed before re-prompting an
// unanswered required question.
func WithRequiredMessage(message string) Option {
	return func(r *Renderer) {
		if message = strings.TrimSpace(message); message != "" {
			r.requiredMessage = message
		}
	}
}
