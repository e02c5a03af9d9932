package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Sentinel errors returned by the loader and by lookups callers expose.
var (
	ErrEmptyDefinition = errors.New("model: survey definition is empty")
	ErrUnknownQuestion = errors.New("model: unknown question")
)

// LoadSurvey reads a JSON or YAML survey definition from disk.
func LoadSurvey(path string) (Survey, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Survey{}, errors.New("model: survey path is required")
	}
	return LoadSurveyFS(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}

// LoadSurveyFS reads a survey definition from fsys.
func LoadSurveyFS(fsys fs.FS, path string) (Survey, error) {
	if fsys == nil {
		return Survey{}, errors.New("model: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Survey{}, fmt.Errorf("model: read %s: %w", path, err)
	}
	return ParseSurvey(data, path)
}

// ParseSurvey decodes a survey definition. JSON is attempted first, then YAML;
// source is only used in error messages.
func ParseSurvey(data []byte, source string) (Survey, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Survey{}, fmt.Errorf("%w: %s", ErrEmptyDefinition, source)
	}

	var survey Survey
	if err := json.Unmarshal(data, &survey); err != nil {
		survey = Survey{}
		if yerr := yaml.Unmarshal(data, &survey); yerr != nil {
			return Survey{}, fmt.Errorf("model: parse %s: invalid JSON or YAML: %w", source, yerr)
		}
	}

	return normalizeSurvey(survey, source)
}

func normalizeSurvey(survey Survey, source string) (Survey, error) {
	survey.Title = strings.TrimSpace(survey.Title)
	survey.Description = strings.TrimSpace(survey.Description)

	questions := make([]Question, 0, len(survey.Questions))
	for idx, q := range survey.Questions {
		q.Name = strings.TrimSpace(q.Name)
		q.Text = strings.TrimSpace(q.Text)
		q.Help = strings.TrimSpace(q.Help)
		if q.Type == "" {
			q.Type = QuestionTypeText
		}
		q.Type = QuestionType(strings.ToLower(string(q.Type)))
		if !q.Type.Valid() {
			return Survey{}, fmt.Errorf("model: %s question at index %d has unsupported type %q", source, idx, q.Type)
		}
		if q.DependsOn != nil {
			dep := *q.DependsOn
			dep.Source = strings.TrimSpace(dep.Source)
			if dep.Source == "" {
				return Survey{}, fmt.Errorf("model: %s question %d declares a dependency without a source", source, q.ID)
			}
			dep.Answers = append([]string(nil), dep.Answers...)
			q.DependsOn = &dep
		}
		q.Answers = append([]Answer(nil), q.Answers...)
		questions = append(questions, q)
	}
	survey.Questions = questions
	return survey, nil
}
