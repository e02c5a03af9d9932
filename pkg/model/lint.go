package model

import (
	"fmt"
	"strings"
)

// FindingKind classifies a lint finding.
type FindingKind string

const (
	FindingDuplicateID         FindingKind = "duplicate_id"
	FindingDuplicateField      FindingKind = "duplicate_field"
	FindingUnknownSource       FindingKind = "unknown_source"
	FindingSelfDependency      FindingKind = "self_dependency"
	FindingInvalidAnswer       FindingKind = "invalid_answer"
	FindingEmptyRequiredAnswer FindingKind = "empty_required_answers"
	FindingCommaInAnswer       FindingKind = "comma_in_answer"
)

// Finding describes a configuration problem on a single question.
type Finding struct {
	QuestionID int         `json:"question_id"`
	Kind       FindingKind `json:"kind"`
	Message    string      `json:"message"`
}

func (f Finding) String() string {
	return fmt.Sprintf("question %d: %s", f.QuestionID, f.Message)
}

// Lint checks the dependency configuration of a survey. Findings follow
// question order within each pass; an empty result means the survey is
// consistent.
//
// A dependency with no required answers matches only a source that has no
// answer at all under exact set equality. It is reported so that authors
// state the answer set explicitly.
//
// Required answers travel as a comma separated attribute, so a required
// answer or a source choice containing a comma cannot be matched in the
// browser and is reported too.
func (s Survey) Lint() []Finding {
	var findings []Finding

	ids := make(map[int]struct{}, len(s.Questions))
	fields := make(map[string]struct{}, len(s.Questions))
	for _, q := range s.Questions {
		if _, exists := ids[q.ID]; exists {
			findings = append(findings, Finding{QuestionID: q.ID, Kind: FindingDuplicateID, Message: "duplicate question id"})
		}
		ids[q.ID] = struct{}{}

		field := q.FieldName()
		if _, exists := fields[field]; exists {
			findings = append(findings, Finding{QuestionID: q.ID, Kind: FindingDuplicateField, Message: fmt.Sprintf("duplicate field name %q", field)})
		}
		fields[field] = struct{}{}
	}

	sources := make(map[int]struct{})
	for _, q := range s.Questions {
		if q.DependsOn == nil {
			continue
		}
		dep := q.DependsOn
		source, ok := s.QuestionByField(dep.Source)
		switch {
		case !ok:
			findings = append(findings, Finding{QuestionID: q.ID, Kind: FindingUnknownSource, Message: fmt.Sprintf("depends on unknown field %q", dep.Source)})
		case source.ID == q.ID:
			findings = append(findings, Finding{QuestionID: q.ID, Kind: FindingSelfDependency, Message: "depends on itself"})
		}

		if ok {
			sources[source.ID] = struct{}{}
		}

		required := dep.RequiredAnswers()
		if commas := withComma(required); len(commas) > 0 {
			findings = append(findings, Finding{
				QuestionID: q.ID,
				Kind:       FindingCommaInAnswer,
				Message:    fmt.Sprintf("required answers [%s] contain a comma", strings.Join(commas, "; ")),
			})
		}
		if len(required) == 0 {
			findings = append(findings, Finding{QuestionID: q.ID, Kind: FindingEmptyRequiredAnswer, Message: fmt.Sprintf("dependency on %q has no required answers and only matches an unanswered source", dep.Source)})
			continue
		}
		if !ok || source.Type == QuestionTypeText {
			continue
		}

		valid := make(map[string]struct{}, len(source.Answers))
		for _, answer := range source.Answers {
			valid[NormalizeAnswer(answer.Text)] = struct{}{}
		}
		var invalid []string
		for _, answer := range required {
			if _, exists := valid[answer]; !exists {
				invalid = append(invalid, answer)
			}
		}
		if len(invalid) > 0 {
			findings = append(findings, Finding{
				QuestionID: q.ID,
				Kind:       FindingInvalidAnswer,
				Message:    fmt.Sprintf("required answers [%s] are not choices of %q", strings.Join(invalid, ", "), dep.Source),
			})
		}
	}

	for _, q := range s.Questions {
		if _, isSource := sources[q.ID]; !isSource || q.Type == QuestionTypeText {
			continue
		}
		texts := make([]string, 0, len(q.Answers))
		for _, answer := range q.Answers {
			texts = append(texts, answer.Text)
		}
		if commas := withComma(texts); len(commas) > 0 {
			findings = append(findings, Finding{
				QuestionID: q.ID,
				Kind:       FindingCommaInAnswer,
				Message:    fmt.Sprintf("choices [%s] contain a comma and cannot be required answers", strings.Join(commas, "; ")),
			})
		}
	}

	return findings
}

func withComma(values []string) []string {
	var out []string
	for _, value := range values {
		if strings.Contains(value, ",") {
			out = append(out, strings.TrimSpace(value))
		}
	}
	return out
}
