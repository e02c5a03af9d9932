package vanilla

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// Template names resolved against the template bundle.
const (
	SurveyTemplate = "templates/survey.tmpl"
	EditorTemplate = "templates/editor.tmpl"
	ListTemplate   = "templates/list.tmpl"
)

// TemplatesFS exposes the embedded page templates so callers can reuse or
// override them.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
