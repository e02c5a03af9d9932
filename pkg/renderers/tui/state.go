package tui

import (
	"strings"

	"github.com/goliatone/go-surveyform/pkg/visibility"
)

// State tracks collected answers keyed by field name and server-provided
// errors. It doubles as the visibility source while prompting.
type State struct {
	answers visibility.Values
	errors  map[string][]string
}

var _ visibility.Source = (*State)(nil)

// NewState seeds the state with prefilled answers and errors. Keys in the
// "name[]" form are folded onto "name".
func NewState(prefill map[string][]string, errs map[string][]string) *State {
	s := &State{
		answers: make(visibility.Values, len(prefill)),
		errors:  make(map[string][]string, len(errs)),
	}
	for key, values := range prefill {
		field := fieldKey(key)
		s.answers[field] = append(s.answers[field], values...)
	}
	for key, messages := range errs {
		field := fieldKey(key)
		s.errors[field] = append(s.errors[field], messages...)
	}
	return s
}

// Answers returns the answers of field in the order they were given.
func (s *State) Answers(field string) []string {
	if s == nil {
		return nil
	}
	return s.answers[fieldKey(field)]
}

// Set replaces the answers of field. Blank values are dropped and an empty
// result removes the field.
func (s *State) Set(field string, values ...string) {
	field = fieldKey(field)
	kept := make([]string, 0, len(values))
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			kept = append(kept, value)
		}
	}
	if len(kept) == 0 {
		delete(s.answers, field)
		return
	}
	s.answers[field] = kept
}

// Clear drops the answers of field and reports whether any were present.
func (s *State) Clear(field string) bool {
	field = fieldKey(field)
	_, ok := s.answers[field]
	delete(s.answers, field)
	return ok
}

// ErrorsFor returns the server errors attached to field.
func (s *State) ErrorsFor(field string) []string {
	if s == nil {
		return nil
	}
	return s.errors[fieldKey(field)]
}

// Observe implements visibility.Source.
func (s *State) Observe(field string) visibility.AnswerSet {
	if s == nil {
		return visibility.NewAnswerSet()
	}
	return s.answers.Observe(fieldKey(field))
}

func fieldKey(key string) string {
	return strings.TrimSuffix(strings.TrimSpace(key), "[]")
}
