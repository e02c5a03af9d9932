package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-surveyform/pkg/model"
)

// Transformer mutates a survey after loading. Implementations can reword
// questions, toggle required flags or rewire dependencies.
type Transformer interface {
	Transform(ctx context.Context, survey *model.Survey) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, survey *model.Survey) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, survey *model.Survey) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, survey)
}

// JSONPresetTransformer applies declarative overrides loaded from a JSON file.
// Questions are addressed by field name:
//
//	{
//	  "title": "Pets 2025",
//	  "metadata": {"audience": "owners"},
//	  "questions": {
//	    "colour": {"text": "Favourite colour?", "required": true},
//	    "4": {"depends_on": {"source": "colour", "answers": ["red", "crimson"]}}
//	  }
//	}
type JSONPresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	Title     string                   `json:"title"`
	Metadata  map[string]string        `json:"metadata"`
	Questions map[string]questionPatch `json:"questions"`
}

type questionPatch struct {
	Text      string            `json:"text"`
	Help      string            `json:"help"`
	Required  *bool             `json:"required"`
	DependsOn *model.Dependency `json:"depends_on"`
	Metadata  map[string]string `json:"metadata"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document presetDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the patches onto survey. A patch naming an unknown field
// fails with model.ErrUnknownQuestion.
func (t *JSONPresetTransformer) Transform(ctx context.Context, survey *model.Survey) error {
	if survey == nil {
		return errors.New("json preset transformer: survey is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if title := strings.TrimSpace(t.document.Title); title != "" {
		survey.Title = title
	}
	if len(t.document.Metadata) > 0 {
		survey.Metadata = mergeStringMap(survey.Metadata, t.document.Metadata)
	}

	for field, patch := range t.document.Questions {
		q := findQuestion(survey, field)
		if q == nil {
			return fmt.Errorf("json preset transformer: %q: %w", field, model.ErrUnknownQuestion)
		}
		applyQuestionPatch(q, patch)
	}
	return nil
}

func applyQuestionPatch(q *model.Question, patch questionPatch) {
	if text := strings.TrimSpace(patch.Text); text != "" {
		q.Text = text
	}
	if help := strings.TrimSpace(patch.Help); help != "" {
		q.Help = help
	}
	if patch.Required != nil {
		q.Required = *patch.Required
	}
	if patch.DependsOn != nil {
		dep := *patch.DependsOn
		dep.Source = strings.TrimSpace(dep.Source)
		if dep.Source == "" {
			q.DependsOn = nil
		} else {
			q.DependsOn = &dep
		}
	}
	if len(patch.Metadata) > 0 {
		q.Metadata = mergeStringMap(q.Metadata, patch.Metadata)
	}
}

func findQuestion(survey *model.Survey, field string) *model.Question {
	field = strings.TrimSpace(field)
	for idx := range survey.Questions {
		if survey.Questions[idx].FieldName() == field {
			return &survey.Questions[idx]
		}
	}
	return nil
}

func mergeStringMap(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
