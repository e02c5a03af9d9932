package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/render"
	"github.com/goliatone/go-surveyform/pkg/visibility"
)

const (
	defaultRequiredMessage = "This question is required."
	skipOptionLabel        = "(no answer)"
)

// Renderer implements render.Renderer for terminal sessions. It prompts the
// visible questions in order, applying the same exact-match visibility and
// required rules as the browser, and serializes the answers.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	evaluator         visibility.Evaluator
	now               func() time.Time
	requiredMessage   string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver:          newSurveyDriver(),
		outputFormat:    OutputFormatJSON,
		evaluator:       visibility.ExactMatch{},
		now:             time.Now,
		requiredMessage: defaultRequiredMessage,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
	default:
		return nil, fmt.Errorf("tui: unsupported output format %q", r.outputFormat)
	}
	return r, nil
}

func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render runs the survey in the terminal. Hidden questions are skipped and
// their answers, prefilled or given earlier, are dropped. Required visible
// questions are asked again until answered.
func (r *Renderer) Render(ctx context.Context, survey model.Survey, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}
	if !survey.Open(r.now()) {
		return nil, ErrClosed
	}

	state := NewState(opts.Values, opts.Errors)
	if title := strings.TrimSpace(survey.Title); title != "" {
		if err := r.driver.Info(ctx, r.theme.InfoPrefix+title); err != nil {
			return nil, err
		}
	}
	for _, message := range opts.FormErrors {
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+message); err != nil {
			return nil, err
		}
	}

	for _, q := range survey.Questions {
		if r.evaluator.Eval(q.DependsOn, state) == visibility.Hidden {
			state.Clear(q.FieldName())
			continue
		}
		if err := r.ask(ctx, q, state); err != nil {
			return nil, err
		}
	}
	r.dropHidden(survey, state)

	values := collect(survey, state)
	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return r.serialize(survey, values)
}

// dropHidden clears answers of questions hidden by the final answer set.
// Clearing can hide further dependents, so it repeats until nothing changes.
func (r *Renderer) dropHidden(survey model.Survey, state *State) {
	for range survey.Questions {
		changed := false
		for _, q := range survey.Questions {
			if r.evaluator.Eval(q.DependsOn, state) == visibility.Hidden && state.Clear(q.FieldName()) {
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}

func (r *Renderer) ask(ctx context.Context, q model.Question, state *State) error {
	field := q.FieldName()
	for _, message := range state.ErrorsFor(field) {
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+message); err != nil {
			return err
		}
	}

	for {
		answers, err := r.prompt(ctx, q, state.Answers(field))
		if err != nil {
			return err
		}
		state.Set(field, answers...)
		if !q.Required || len(state.Answers(field)) > 0 {
			return nil
		}
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+r.requiredMessage); err != nil {
			return err
		}
	}
}

func (r *Renderer) prompt(ctx context.Context, q model.Question, current []string) ([]string, error) {
	message := r.theme.PromptPrefix + q.Text
	help := strings.TrimSpace(q.Help)
	labels := answerLabels(q.Answers)

	switch q.Type {
	case model.QuestionTypeChoice:
		options := labels
		offset := 0
		if !q.Required {
			options = append([]string{skipOptionLabel}, labels...)
			offset = 1
		}
		defaultIndex := 0
		if len(current) > 0 {
			if idx := matchIndex(labels, current[0]); idx >= 0 {
				defaultIndex = idx + offset
			}
		}
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      options,
			DefaultIndex: defaultIndex,
			Help:         help,
		})
		if err != nil {
			return nil, err
		}
		if idx < offset || idx >= len(options) {
			return nil, nil
		}
		return []string{options[idx]}, nil

	case model.QuestionTypeMultiple:
		var defaults []int
		for _, value := range current {
			if idx := matchIndex(labels, value); idx >= 0 {
				defaults = append(defaults, idx)
			}
		}
		indices, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  message,
			Options:  labels,
			Defaults: defaults,
			Help:     help,
		})
		if err != nil {
			return nil, err
		}
		return valuesAt(labels, indices), nil

	default:
		var def string
		if len(current) > 0 {
			def = current[0]
		}
		answer, err := r.driver.Input(ctx, InputConfig{
			Message: message,
			Default: def,
			Help:    help,
		})
		if err != nil {
			return nil, err
		}
		return []string{strings.TrimSpace(answer)}, nil
	}
}

func (r *Renderer) serialize(survey model.Survey, values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(formEncode(survey, values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(survey, values)), nil
	default:
		out, err := json.MarshalIndent(values, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("tui: encode answers: %w", err)
		}
		return out, nil
	}
}

// collect shapes answers for output: a string per text or choice question and
// a list per multiple choice question.
func collect(survey model.Survey, state *State) map[string]any {
	values := make(map[string]any)
	for _, q := range survey.Questions {
		answers := state.Answers(q.FieldName())
		if len(answers) == 0 {
			continue
		}
		if q.Type == model.QuestionTypeMultiple {
			values[q.FieldName()] = append([]string(nil), answers...)
			continue
		}
		values[q.FieldName()] = answers[0]
	}
	return values
}

func formEncode(survey model.Survey, values map[string]any) string {
	form := url.Values{}
	for _, q := range survey.Questions {
		if value, ok := values[q.FieldName()]; ok {
			form[q.InputName()] = stringsOf(value)
		}
	}
	return form.Encode()
}

func prettyPrint(survey model.Survey, values map[string]any) string {
	var b strings.Builder
	for _, q := range survey.Questions {
		value, ok := values[q.FieldName()]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", q.Text, strings.Join(stringsOf(value), ", "))
	}
	return b.String()
}

func stringsOf(value any) []string {
	switch v := value.(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return []string{fmt.Sprint(v)}
	}
}

func answerLabels(answers []model.Answer) []string {
	out := make([]string, 0, len(answers))
	for _, answer := range answers {
		out = append(out, answer.Text)
	}
	return out
}

// matchIndex finds value among labels using answer normalisation so
// prefilled "dog" selects "Dog".
func matchIndex(labels []string, value string) int {
	want := model.NormalizeAnswer(value)
	for i, label := range labels {
		if model.NormalizeAnswer(label) == want {
			return i
		}
	}
	return -1
}
