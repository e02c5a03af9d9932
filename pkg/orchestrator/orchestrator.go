package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/render"
	"github.com/goliatone/go-surveyform/pkg/renderers/vanilla"
)

const defaultRendererName = "vanilla"

// ErrLint is returned in strict mode when a survey has configuration findings.
var ErrLint = errors.New("orchestrator: survey has lint findings")

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTransformers registers transformers applied to every survey after
// loading and before linting.
func WithTransformers(transformers ...Transformer) Option {
	return func(o *Orchestrator) {
		for _, t := range transformers {
			if t != nil {
				o.transformers = append(o.transformers, t)
			}
		}
	}
}

// WithTheme sets the theme used when a request carries none.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(o *Orchestrator) {
		o.theme = cfg
	}
}

// WithStrictLint makes Generate fail with ErrLint when the survey has
// findings instead of only reporting them to the lint hook.
func WithStrictLint(strict bool) Option {
	return func(o *Orchestrator) {
		o.strictLint = strict
	}
}

// WithLintHook receives the findings of every generated survey.
func WithLintHook(fn func(model.Survey, []model.Finding)) Option {
	return func(o *Orchestrator) {
		o.lintHook = fn
	}
}

// Orchestrator coordinates loading a survey definition and rendering it with
// a registered renderer. The vanilla renderer is registered when no registry
// is supplied.
type Orchestrator struct {
	registry        *render.Registry
	defaultRenderer string
	transformers    []Transformer
	theme           *theme.RendererConfig
	strictLint      bool
	lintHook        func(model.Survey, []model.Finding)
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the survey to render and how.
type Request struct {
	// Survey bypasses loading when set.
	Survey *model.Survey

	// FS and Path locate a JSON or YAML definition. A nil FS reads Path from
	// disk.
	FS   fs.FS
	Path string

	// Renderer names the renderer to use. Empty selects the default.
	Renderer string

	RenderOptions render.RenderOptions
}

// Load resolves the survey of a request and applies the transformers.
func (o *Orchestrator) Load(ctx context.Context, req Request) (model.Survey, error) {
	if ctx == nil {
		return model.Survey{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return model.Survey{}, err
	}

	survey, err := resolveSurvey(req)
	if err != nil {
		return model.Survey{}, err
	}
	for _, t := range o.transformers {
		if err := t.Transform(ctx, &survey); err != nil {
			return model.Survey{}, fmt.Errorf("orchestrator: transform survey: %w", err)
		}
	}
	return survey, nil
}

// Generate executes the load → transform → lint → render sequence and returns
// the rendered bytes.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	survey, err := o.Load(ctx, req)
	if err != nil {
		return nil, err
	}

	if findings := survey.Lint(); len(findings) > 0 {
		if o.lintHook != nil {
			o.lintHook(survey, findings)
		}
		if o.strictLint {
			return nil, fmt.Errorf("%w: %s", ErrLint, findings[0])
		}
	}

	name, err := o.rendererName(req.Renderer)
	if err != nil {
		return nil, err
	}

	opts := req.RenderOptions
	if opts.Theme == nil {
		opts.Theme = o.theme
	}
	output, err := o.registry.Render(ctx, name, survey, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

func resolveSurvey(req Request) (model.Survey, error) {
	if req.Survey != nil {
		return cloneSurvey(*req.Survey), nil
	}
	path := strings.TrimSpace(req.Path)
	if path == "" {
		return model.Survey{}, errors.New("orchestrator: survey or path is required")
	}
	var (
		survey model.Survey
		err    error
	)
	if req.FS != nil {
		survey, err = model.LoadSurveyFS(req.FS, path)
	} else {
		survey, err = model.LoadSurvey(path)
	}
	if err != nil {
		return model.Survey{}, fmt.Errorf("orchestrator: load survey: %w", err)
	}
	return survey, nil
}

// rendererName resolves the registry entry to render with. An explicit name
// must exist; otherwise the default is used, falling back to the first
// registered renderer.
func (o *Orchestrator) rendererName(name string) (string, error) {
	if o.registry == nil {
		return "", errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		if o.registry.Has(target) {
			return target, nil
		}
		if name != "" {
			return "", fmt.Errorf("orchestrator: renderer %q not registered", name)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return "", errors.New("orchestrator: no renderers registered")
	}
	return names[0], nil
}

func (o *Orchestrator) applyDefaults() {
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}

// cloneSurvey copies the parts transformers write to so a request survey is
// never modified.
func cloneSurvey(survey model.Survey) model.Survey {
	survey.Metadata = mergeStringMap(nil, survey.Metadata)
	questions := make([]model.Question, len(survey.Questions))
	for idx, q := range survey.Questions {
		q.Metadata = mergeStringMap(nil, q.Metadata)
		q.Answers = append([]model.Answer(nil), q.Answers...)
		if q.DependsOn != nil {
			dep := *q.DependsOn
			dep.Answers = append([]string(nil), dep.Answers...)
			q.DependsOn = &dep
		}
		questions[idx] = q
	}
	survey.Questions = questions
	return survey
}
