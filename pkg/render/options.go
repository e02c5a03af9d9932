package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-surveyform/pkg/visibility"
)

// RenderOptions carry per-request data that renderers use without mutating
// the survey definition.
type RenderOptions struct {
	// Method overrides the form method (POST by default).
	Method string
	// Action overrides the survey's submit URL.
	Action string
	// Values pre-populates controls keyed by field name. Multiple choice
	// values may be keyed by "name" or "name[]". The same values drive the
	// initial visibility of dependent questions.
	Values visibility.Values
	// Errors surfaces server-side feedback keyed by field name. Use
	// MapErrors to normalise payloads keyed by question id or input name.
	Errors map[string][]string
	// FormErrors are shown above the questions.
	FormErrors []string
	// HiddenFields are emitted as hidden inputs, CSRF tokens included.
	HiddenFields map[string]string
	// Theme supplies CSS variables and border tokens.
	Theme *theme.RendererConfig
}
