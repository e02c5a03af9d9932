package model

import (
	"strconv"
	"strings"
	"time"
)

// QuestionType enumerates the supported question kinds.
type QuestionType string

const (
	QuestionTypeText     QuestionType = "text"
	QuestionTypeChoice   QuestionType = "choice"
	QuestionTypeMultiple QuestionType = "multiple"
)

// Valid reports whether the type is one of the known question kinds.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeText, QuestionTypeChoice, QuestionTypeMultiple:
		return true
	default:
		return false
	}
}

// Answer is a selectable option attached to a question.
type Answer struct {
	ID   int    `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`
}

// Dependency gates a question on the answers given to another field. Source is
// the field name of the question being watched; Answers lists the values that
// must be observed on that field, exactly and nothing more, for the dependent
// question to be shown.
type Dependency struct {
	Source  string   `json:"source" yaml:"source"`
	Answers []string `json:"answers" yaml:"answers"`
}

// RequiredAnswers returns the normalised, de-duplicated answer set in
// declaration order. An empty slice is a valid (if suspicious) requirement.
func (d *Dependency) RequiredAnswers() []string {
	if d == nil {
		return nil
	}
	return NormalizeAnswers(d.Answers)
}

// Question models a single survey question. Struct fields are annotated so
// survey definitions can be decoded from JSON or YAML directly.
type Question struct {
	ID        int               `json:"id" yaml:"id"`
	Name      string            `json:"name,omitempty" yaml:"name,omitempty"`
	Text      string            `json:"text" yaml:"text"`
	Help      string            `json:"help,omitempty" yaml:"help,omitempty"`
	Type      QuestionType      `json:"type" yaml:"type"`
	Required  bool              `json:"required" yaml:"required"`
	DependsOn *Dependency       `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
	Answers   []Answer          `json:"answers,omitempty" yaml:"answers,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// FieldName returns the form field name used by the question's controls. It
// falls back to the decimal id when no explicit name is configured.
func (q Question) FieldName() string {
	if name := strings.TrimSpace(q.Name); name != "" {
		return name
	}
	return strconv.Itoa(q.ID)
}

// InputName returns the control name attribute. Multiple choice questions use
// the bracketed form so browsers submit every checked value.
func (q Question) InputName() string {
	if q.Type == QuestionTypeMultiple {
		return q.FieldName() + "[]"
	}
	return q.FieldName()
}

// Survey is the top-level representation renderers consume.
type Survey struct {
	ID          int               `json:"id" yaml:"id"`
	Title       string            `json:"title" yaml:"title"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	StartDate   time.Time         `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	EndDate     time.Time         `json:"end_date,omitempty" yaml:"end_date,omitempty"`
	Action      string            `json:"action,omitempty" yaml:"action,omitempty"`
	Questions   []Question        `json:"questions" yaml:"questions"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Question looks up a question by id.
func (s Survey) Question(id int) (Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// QuestionByField looks up a question by its field name.
func (s Survey) QuestionByField(name string) (Question, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Question{}, false
	}
	for _, q := range s.Questions {
		if q.FieldName() == name {
			return q, true
		}
	}
	return Question{}, false
}

// Open reports whether the survey accepts responses at the given instant. Zero
// bounds are treated as open-ended.
func (s Survey) Open(at time.Time) bool {
	if !s.StartDate.IsZero() && at.Before(s.StartDate) {
		return false
	}
	if !s.EndDate.IsZero() && at.After(s.EndDate) {
		return false
	}
	return true
}

// NormalizeAnswer lower-cases and trims a single answer value.
func NormalizeAnswer(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// NormalizeAnswers normalises each value, dropping blanks and duplicates while
// preserving order.
func NormalizeAnswers(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		normalized := NormalizeAnswer(value)
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}

// ParseRequiredAnswers splits the comma separated data-required-answers
// attribute into a normalised answer list.
func ParseRequiredAnswers(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	return NormalizeAnswers(strings.Split(raw, ","))
}

// FormatRequiredAnswers joins answers into the attribute form accepted by
// ParseRequiredAnswers.
func FormatRequiredAnswers(answers []string) string {
	return strings.Join(NormalizeAnswers(answers), ",")
}

// ParseRequiredFlag interprets the data-required attribute. The server
// renders Python-style "True"; common truthy spellings are accepted too.
func ParseRequiredFlag(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "required":
		return true
	default:
		return false
	}
}
