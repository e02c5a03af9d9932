package render

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-surveyform/pkg/model"
)

// ErrorMapping splits an error payload into per-question messages keyed by
// field name and form-level messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MapErrors resolves payload keys to question field names. Keys may be the
// field name, the input name ("pets[]") or the decimal question id. Keys that
// match no question, plus "__all__" and "non_field_errors", become form-level
// messages so nothing is lost.
func MapErrors(survey model.Survey, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string][]string)}

	for key, messages := range payload {
		messages = normalizeMessages(messages)
		if len(messages) == 0 {
			continue
		}
		field, ok := resolveErrorKey(survey, key)
		if !ok {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		mapping.Fields[field] = normalizeMessages(append(mapping.Fields[field], messages...))
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

// MergeFormErrors appends extras to existing, trimming blanks and dropping
// duplicates while keeping order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

func resolveErrorKey(survey model.Survey, key string) (string, bool) {
	key = strings.TrimSpace(key)
	switch key {
	case "", "__all__", "non_field_errors":
		return "", false
	}
	name := strings.TrimSuffix(key, "[]")
	if q, ok := survey.QuestionByField(name); ok {
		return q.FieldName(), true
	}
	if id, err := strconv.Atoi(name); err == nil {
		if q, ok := survey.Question(id); ok {
			return q.FieldName(), true
		}
	}
	return "", false
}

func normalizeMessages(messages []string) []string {
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
