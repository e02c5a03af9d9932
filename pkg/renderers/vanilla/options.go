package vanilla

import (
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	rendertemplate "github.com/goliatone/go-surveyform/pkg/render/template"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	policy           *bluemonday.Policy
	stylesheets      []string
	runtimeScript    string
	answersPath      string
	submitLabel      string
	requiredMessage  string
	requireHidden    bool
	now              func() time.Time
}

// WithTemplatesFS supplies an alternate template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if strings.TrimSpace(path) == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template engine.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithSanitizer replaces the policy applied to question and help text
// (bluemonday.UGCPolicy by default).
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithStylesheet links an external stylesheet. Repeatable.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		if href = strings.TrimSpace(href); href != "" {
			cfg.stylesheets = append(cfg.stylesheets, href)
		}
	}
}

// WithRuntimeScript emits a deferred script tag loading the browser runtime.
func WithRuntimeScript(src string) Option {
	return func(cfg *config) {
		cfg.runtimeScript = strings.TrimSpace(src)
	}
}

// WithAnswersPath sets the route prefix the editor page advertises to the
// runtime for answer lookups ("/surveys/questions/" by default).
func WithAnswersPath(path string) Option {
	return func(cfg *config) {
		if path = strings.TrimSpace(path); path != "" {
			cfg.answersPath = path
		}
	}
}

func WithSubmitLabel(label string) Option {
	return func(cfg *config) {
		if label = strings.TrimSpace(label); label != "" {
			cfg.submitLabel = label
		}
	}
}

// WithRequiredMessage overrides the text of the hidden error element shown by
// the submission guard.
func WithRequiredMessage(message string) Option {
	return func(cfg *config) {
		if message = strings.TrimSpace(message); message != "" {
			cfg.requiredMessage = message
		}
	}
}

// WithClock overrides the clock used to decide whether a survey is open.
func WithClock(now func() time.Time) Option {
	return func(cfg *config) {
		if now != nil {
			cfg.now = now
		}
	}
}

// WithRequireHidden marks the form so the browser guard also enforces
// required questions that are hidden.
func WithRequireHidden(enabled bool) Option {
	return func(cfg *config) {
		cfg.requireHidden = enabled
	}
}
