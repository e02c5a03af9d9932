package render

import (
	"context"

	"github.com/goliatone/go-surveyform/pkg/model"
)

// Renderer turns a survey definition into a byte representation (HTML page,
// terminal transcript, JSON answers).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, survey model.Survey, options RenderOptions) ([]byte, error)
}
