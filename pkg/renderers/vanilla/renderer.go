package vanilla

import (
	"context"
	"fmt"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/render"
	rendertemplate "github.com/goliatone/go-surveyform/pkg/render/template"
	"github.com/goliatone/go-surveyform/pkg/render/template/pongo"
)

const (
	defaultAnswersPath     = "/surveys/questions/"
	defaultSubmitLabel     = "Submit"
	defaultRequiredMessage = "This question is required."
)

// Renderer renders survey pages as server-side HTML carrying the markup
// contract the browser runtime and dom.Parse read: ".question" blocks with
// data-required, data-dependent-on and data-required-answers, an
// ".error-message" per block and a ".helper-text" after text inputs.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	cfg       config
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:      TemplatesFS(),
		policy:          bluemonday.UGCPolicy(),
		answersPath:     defaultAnswersPath,
		submitLabel:     defaultSubmitLabel,
		requiredMessage: defaultRequiredMessage,
		now:             time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	return &Renderer{templates: templates, cfg: cfg}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render renders the survey answering page.
func (r *Renderer) Render(ctx context.Context, survey model.Survey, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.execute(SurveyTemplate, map[string]any{
		"survey": r.surveyView(survey, options),
	})
}

// RenderEditor renders the admin editor of one question. The depends-on
// select lists the other questions by id; the required-answers select lists
// the source question's answers and is what the runtime refreshes.
func (r *Renderer) RenderEditor(ctx context.Context, survey model.Survey, questionID int, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	view, err := r.editorView(survey, questionID, options)
	if err != nil {
		return nil, err
	}
	return r.execute(EditorTemplate, map[string]any{
		"editor": view,
	})
}

// RenderList renders an index of surveys linking to basePath + id.
func (r *Renderer) RenderList(ctx context.Context, surveys []model.Survey, basePath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.execute(ListTemplate, map[string]any{
		"list": r.listView(surveys, basePath),
	})
}

func (r *Renderer) execute(name string, data map[string]any) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	result, err := r.templates.RenderTemplate(name, data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}
