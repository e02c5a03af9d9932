// Package surveyform renders surveys whose questions appear only when the
// answers of another question match a required set exactly. The root package
// re-exports the common entry points; the building blocks live under pkg/.
package surveyform

import (
	"context"
	"fmt"

	"github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/orchestrator"
	"github.com/goliatone/go-surveyform/pkg/render"
	"github.com/goliatone/go-surveyform/pkg/renderers/tui"
	"github.com/goliatone/go-surveyform/pkg/renderers/vanilla"
)

// Survey aliases model.Survey.
type Survey = model.Survey

// RenderOptions describes per-request overrides that renderers can use to
// prefill answers or surface server-side validation errors.
type RenderOptions = render.RenderOptions

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// NewRegistry returns a registry holding the vanilla HTML renderer and the
// terminal renderer with their defaults.
func NewRegistry() (*render.Registry, error) {
	registry := render.NewRegistry()

	html, err := vanilla.New()
	if err != nil {
		return nil, fmt.Errorf("surveyform: vanilla renderer: %w", err)
	}
	if err := registry.Register(html); err != nil {
		return nil, err
	}

	term, err := tui.New()
	if err != nil {
		return nil, fmt.Errorf("surveyform: tui renderer: %w", err)
	}
	if err := registry.Register(term); err != nil {
		return nil, err
	}
	return registry, nil
}

// GenerateHTML loads the survey definition at path and renders it with the
// vanilla renderer.
func GenerateHTML(ctx context.Context, path string, options RenderOptions) ([]byte, error) {
	return orchestrator.New().Generate(ctx, orchestrator.Request{
		Path:          path,
		Renderer:      "vanilla",
		RenderOptions: options,
	})
}

// GenerateHTMLFromSurvey renders an already loaded survey.
func GenerateHTMLFromSurvey(ctx context.Context, survey Survey, options RenderOptions) ([]byte, error) {
	return orchestrator.New().Generate(ctx, orchestrator.Request{
		Survey:        &survey,
		Renderer:      "vanilla",
		RenderOptions: options,
	})
}
