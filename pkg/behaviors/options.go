package behaviors

import (
	"context"
	"log"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-surveyform/pkg/dom"
	"github.com/goliatone/go-surveyform/pkg/visibility"
)

// Theme token keys read for question borders.
const (
	TokenBorder      = "question.border"
	TokenBorderError = "question.border.error"

	DefaultBorder      = "1px solid #ccc"
	DefaultErrorBorder = "2px solid red"
)

// Default element ids used by the admin question editor.
const (
	DefaultSourceSelectID = "id_dependent_on"
	DefaultTargetSelectID = "id_required_answers"
)

// InputHook runs on every input event of a text-like control. It is the
// extension point for live validation and does nothing by default.
type InputHook func(doc *dom.Document, ctl *dom.Control)

// Option configures the runtime behaviours attached to a document.
type Option func(*config)

type config struct {
	evaluator     visibility.Evaluator
	requireHidden bool
	border        string
	errorBorder   string
	logger        *log.Logger
	inputHook     InputHook
	sourceID      string
	targetID      string
	baseContext   context.Context
}

func newConfig(options ...Option) config {
	cfg := config{
		evaluator:   visibility.ExactMatch{},
		border:      DefaultBorder,
		errorBorder: DefaultErrorBorder,
		logger:      log.Default(),
		sourceID:    DefaultSourceSelectID,
		targetID:    DefaultTargetSelectID,
		baseContext: context.Background(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

// WithEvaluator overrides the visibility policy (exact match by default).
func WithEvaluator(evaluator visibility.Evaluator) Option {
	return func(cfg *config) {
		if evaluator != nil {
			cfg.evaluator = evaluator
		}
	}
}

// WithRequireHidden makes the submission guard check required questions even
// while their dependency hides them. By default hidden questions are exempt.
func WithRequireHidden() Option {
	return func(cfg *config) {
		cfg.requireHidden = true
	}
}

// WithTheme reads border styles from the theme tokens "question.border" and
// "question.border.error". Missing tokens keep the defaults.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(c *config) {
		if cfg == nil {
			return
		}
		if value := strings.TrimSpace(cfg.Tokens[TokenBorder]); value != "" {
			c.border = value
		}
		if value := strings.TrimSpace(cfg.Tokens[TokenBorderError]); value != "" {
			c.errorBorder = value
		}
	}
}

// WithLogger sets the logger used for refresh failures and markup warnings.
func WithLogger(logger *log.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithInputHook installs a callback for input events on text-like controls.
func WithInputHook(hook InputHook) Option {
	return func(cfg *config) {
		cfg.inputHook = hook
	}
}

// WithSelectIDs overrides the ids of the depends-on select and the answers
// multi-select it refreshes.
func WithSelectIDs(source, target string) Option {
	return func(cfg *config) {
		if source = strings.TrimSpace(source); source != "" {
			cfg.sourceID = source
		}
		if target = strings.TrimSpace(target); target != "" {
			cfg.targetID = target
		}
	}
}

// WithContext sets the parent context of refresh requests. Cancelling it
// aborts any request in flight.
func WithContext(ctx context.Context) Option {
	return func(cfg *config) {
		if ctx != nil {
			cfg.baseContext = ctx
		}
	}
}
