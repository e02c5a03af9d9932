package catalog

import (
	"context"

	"github.com/goliatone/go-surveyform/pkg/model"
)

// Store resolves the answer options of a question.
type Store interface {
	Answers(ctx context.Context, questionID int) ([]model.Answer, error)
}

// Memory is an immutable Store built from survey definitions.
type Memory struct {
	answers map[int][]model.Answer
}

// NewMemory indexes the answers of every question in surveys. When two
// questions share an id the later one wins.
func NewMemory(surveys ...model.Survey) *Memory {
	m := &Memory{answers: make(map[int][]model.Answer)}
	for _, survey := range surveys {
		for _, q := range survey.Questions {
			m.answers[q.ID] = append([]model.Answer(nil), q.Answers...)
		}
	}
	return m
}

// Answers returns a copy of the question's answers, or an empty slice for
// unknown questions.
func (m *Memory) Answers(ctx context.Context, questionID int) ([]model.Answer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m == nil {
		return []model.Answer{}, nil
	}
	answers, ok := m.answers[questionID]
	if !ok {
		return []model.Answer{}, nil
	}
	return append([]model.Answer{}, answers...), nil
}
