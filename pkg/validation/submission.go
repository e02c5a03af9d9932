package validation

import (
	"context"
	"net/url"
	"strings"

	"github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/visibility"
)

const (
	defaultRequiredMessage = "This question is required."
	defaultInvalidMessage  = "Select a valid choice."
)

// Issue describes a rejected answer.
type Issue struct {
	QuestionID int    `json:"question_id"`
	Field      string `json:"field"`
	Message    string `json:"message"`
}

// Result captures the outcome of validating a submission. Answers holds the
// accepted answers keyed by field name with hidden questions removed.
type Result struct {
	Valid   bool              `json:"valid"`
	Issues  []Issue           `json:"issues,omitempty"`
	Answers visibility.Values `json:"answers"`
}

// Errors groups issue messages by field, the shape render.RenderOptions.Errors
// expects when the form is shown again.
func (r Result) Errors() map[string][]string {
	if len(r.Issues) == 0 {
		return nil
	}
	out := make(map[string][]string, len(r.Issues))
	for _, issue := range r.Issues {
		out[issue.Field] = append(out[issue.Field], issue.Message)
	}
	return out
}

// Option customises submission validation.
type Option func(*config)

type config struct {
	evaluator       visibility.Evaluator
	requireHidden   bool
	requiredMessage string
	invalidMessage  string
}

// WithEvaluator swaps the visibility rule.
func WithEvaluator(evaluator visibility.Evaluator) Option {
	return func(c *config) {
		if evaluator != nil {
			c.evaluator = evaluator
		}
	}
}

// WithRequireHidden also enforces required questions that are hidden.
func WithRequireHidden(enabled bool) Option {
	return func(c *config) {
		c.requireHidden = enabled
	}
}

// WithMessages overrides the required and invalid choice messages.
func WithMessages(required, invalid string) Option {
	return func(c *config) {
		if strings.TrimSpace(required) != "" {
			c.requiredMessage = required
		}
		if strings.TrimSpace(invalid) != "" {
			c.invalidMessage = invalid
		}
	}
}

// FromForm converts posted form values to visibility.Values, folding
// "name[]" keys onto "name" and dropping blank entries.
func FromForm(form url.Values) visibility.Values {
	values := make(visibility.Values, len(form))
	for key, entries := range form {
		field := strings.TrimSuffix(strings.TrimSpace(key), "[]")
		for _, entry := range entries {
			if strings.TrimSpace(entry) != "" {
				values[field] = append(values[field], entry)
			}
		}
	}
	return values
}

// ValidateSubmission checks values against survey. Answers to hidden
// questions are discarded, repeating until the visible set is stable since
// discarding one answer can hide further dependents. Visible required
// questions must have an answer and choice answers must name a choice.
func ValidateSubmission(ctx context.Context, survey model.Survey, values visibility.Values, opts ...Option) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	cfg := config{
		evaluator:       visibility.ExactMatch{},
		requiredMessage: defaultRequiredMessage,
		invalidMessage:  defaultInvalidMessage,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	answers := make(visibility.Values, len(values))
	for _, q := range survey.Questions {
		field := q.FieldName()
		if entries := values.Observe(field); entries.Len() > 0 {
			answers[field] = collect(values, field)
		}
	}

	hidden := pruneHidden(survey, answers, cfg.evaluator)

	result := Result{Valid: true, Answers: answers}
	for _, q := range survey.Questions {
		field := q.FieldName()
		given := answers[field]

		if len(given) == 0 {
			if q.Required && (!hidden[field] || cfg.requireHidden) {
				result.Issues = append(result.Issues, Issue{QuestionID: q.ID, Field: field, Message: cfg.requiredMessage})
			}
			continue
		}
		if q.Type == model.QuestionTypeText {
			continue
		}
		if q.Type == model.QuestionTypeChoice && len(given) > 1 {
			result.Issues = append(result.Issues, Issue{QuestionID: q.ID, Field: field, Message: cfg.invalidMessage})
			continue
		}
		choices := make(visibility.AnswerSet, len(q.Answers))
		for _, answer := range q.Answers {
			choices.Add(answer.Text)
		}
		for _, value := range given {
			if !choices.Has(value) {
				result.Issues = append(result.Issues, Issue{QuestionID: q.ID, Field: field, Message: cfg.invalidMessage})
				break
			}
		}
	}

	result.Valid = len(result.Issues) == 0
	return result, nil
}

// collect gathers the raw answers posted under field and field[].
func collect(values visibility.Values, field string) []string {
	var out []string
	for _, key := range []string{field, field + "[]"} {
		for _, entry := range values[key] {
			if entry = strings.TrimSpace(entry); entry != "" {
				out = append(out, entry)
			}
		}
	}
	return out
}

// pruneHidden deletes answers of hidden questions until nothing changes and
// returns the hidden fields.
func pruneHidden(survey model.Survey, answers visibility.Values, evaluator visibility.Evaluator) map[string]bool {
	hidden := make(map[string]bool)
	for range survey.Questions {
		changed := false
		for _, q := range survey.Questions {
			field := q.FieldName()
			if evaluator.Eval(q.DependsOn, answers) != visibility.Hidden {
				delete(hidden, field)
				continue
			}
			hidden[field] = true
			if _, ok := answers[field]; ok {
				delete(answers, field)
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return hidden
}
