package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-surveyform/pkg/model"
)

// MustLoadSurvey loads a YAML or JSON survey fixture, failing the test on
// error.
func MustLoadSurvey(t *testing.T, path string) model.Survey {
	t.Helper()

	survey, err := LoadSurvey(path)
	if err != nil {
		t.Fatalf("load survey: %v", err)
	}
	return survey
}

// LoadSurvey reads a survey fixture without requiring *testing.T so setup
// code outside tests can share fixtures.
func LoadSurvey(path string) (model.Survey, error) {
	if path == "" {
		return model.Survey{}, errors.New("testsupport: survey path is required")
	}
	survey, err := model.LoadSurvey(path)
	if err != nil {
		return model.Survey{}, fmt.Errorf("testsupport: %w", err)
	}
	return survey, nil
}

// PetSurvey is the in-memory fixture shared by renderer tests:
//
//	1 "Do you own a pet?" required choice Yes/No
//	2 "pets" required multiple Dog/Cat, shown when 1 is exactly {yes}
//	3 "colour" text with help text
//	4 text, shown when colour is exactly {red}
func PetSurvey() model.Survey {
	return model.Survey{
		ID:     1,
		Title:  "Pets",
		Action: "/surveys/1/submit/",
		Questions: []model.Question{
			{
				ID:       1,
				Text:     "Do you own a pet?",
				Type:     model.QuestionTypeChoice,
				Required: true,
				Answers:  []model.Answer{{ID: 1, Text: "Yes"}, {ID: 2, Text: "No"}},
			},
			{
				ID:        2,
				Name:      "pets",
				Text:      "Which pets?",
				Type:      model.QuestionTypeMultiple,
				Required:  true,
				DependsOn: &model.Dependency{Source: "1", Answers: []string{"Yes"}},
				Answers:   []model.Answer{{ID: 3, Text: "Dog"}, {ID: 4, Text: "Cat"}},
			},
			{
				ID:   3,
				Name: "colour",
				Text: "Favourite colour",
				Help: "One word please",
				Type: model.QuestionTypeText,
			},
			{
				ID:        4,
				Text:      "Why red?",
				Type:      model.QuestionTypeText,
				DependsOn: &model.Dependency{Source: "colour", Answers: []string{"red"}},
			},
		},
	}
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	WriteMaybeGolden(t, path, payload)
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set and
// reports whether it did, in which case the test should stop.
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput runs render against a buffer and returns both the
// returned string and what was written, so tests can assert they agree.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
