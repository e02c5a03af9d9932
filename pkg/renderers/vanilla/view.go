package vanilla

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/render"
	"github.com/goliatone/go-surveyform/pkg/visibility"
)

// Theme tokens mapped onto CSS custom properties of the form element.
var themeTokenVars = map[string]string{
	"question.border":       "--surveyform-question-border",
	"question.border.error": "--surveyform-question-border-error",
}

type surveyView struct {
	ID            int
	Title         string
	Description   string
	Action        string
	Method        string
	Style         string
	Theme         string
	Variant       string
	Stylesheets   []string
	Script        string
	SubmitLabel   string
	Closed        bool
	RequireHidden bool
	Hidden        []render.HiddenField
	FormErrors    []string
	Questions     []questionView
}

type questionView struct {
	ID              int
	BlockID         string
	ControlID       string
	Field           string
	InputName       string
	Type            string
	Text            string
	Help            string
	RequiredAttr    string
	DependentOn     string
	RequiredAnswers []string
	Visible         bool
	Value           string
	Invalid         bool
	ErrorMessage    string
	Choices         []choiceView
}

type choiceView struct {
	ID      string
	Value   string
	Label   string
	Checked bool
}

type optionView struct {
	Value    string
	Label    string
	Selected bool
}

type editorView struct {
	QuestionID  int
	Action      string
	Method      string
	Style       string
	Stylesheets []string
	Script      string
	AnswersPath string
	SubmitLabel string
	Hidden      []render.HiddenField
	FormErrors  []string
	Text        string
	Help        string
	Required    bool
	Types       []optionView
	Sources     []optionView
	Answers     []optionView
}

type listView struct {
	Stylesheets []string
	Surveys     []listItemView
}

type listItemView struct {
	Title string
	URL   string
	Open  bool
}

func (r *Renderer) surveyView(survey model.Survey, options render.RenderOptions) surveyView {
	view := surveyView{
		ID:            survey.ID,
		Title:         survey.Title,
		Description:   r.cfg.policy.Sanitize(survey.Description),
		Action:        firstNonEmpty(options.Action, survey.Action),
		Method:        formMethod(options.Method),
		Stylesheets:   r.cfg.stylesheets,
		Script:        r.cfg.runtimeScript,
		SubmitLabel:   r.cfg.submitLabel,
		Closed:        !survey.Open(r.cfg.now()),
		RequireHidden: r.cfg.requireHidden,
		Hidden:        render.SortedHiddenFields(options.HiddenFields),
		FormErrors:    render.MergeFormErrors(options.FormErrors),
	}
	view.Style, view.Theme, view.Variant = themeAttributes(options.Theme)

	for _, q := range survey.Questions {
		view.Questions = append(view.Questions, r.questionView(q, options))
	}
	return view
}

func (r *Renderer) questionView(q model.Question, options render.RenderOptions) questionView {
	field := q.FieldName()
	view := questionView{
		ID:           q.ID,
		BlockID:      "question-" + strconv.Itoa(q.ID),
		ControlID:    "id_" + field,
		Field:        field,
		InputName:    q.InputName(),
		Type:         string(q.Type),
		Text:         r.cfg.policy.Sanitize(q.Text),
		Help:         r.cfg.policy.Sanitize(q.Help),
		RequiredAttr: strconv.FormatBool(q.Required),
		Visible:      visibility.Evaluate(q.DependsOn, options.Values) == visibility.Visible,
		ErrorMessage: r.cfg.requiredMessage,
	}
	if q.DependsOn != nil {
		view.DependentOn = q.DependsOn.Source
		view.RequiredAnswers = append([]string{}, q.DependsOn.Answers...)
	}
	if messages := options.Errors[field]; len(messages) > 0 {
		view.Invalid = true
		view.ErrorMessage = strings.Join(messages, " ")
	}

	if q.Type == model.QuestionTypeText {
		if values := options.Values[field]; len(values) > 0 {
			view.Value = values[0]
		}
		return view
	}

	selected := options.Values.Observe(field)
	for i, answer := range q.Answers {
		view.Choices = append(view.Choices, choiceView{
			ID:      fmt.Sprintf("%s_%d", view.ControlID, i),
			Value:   answer.Text,
			Label:   answer.Text,
			Checked: selected.Has(answer.Text),
		})
	}
	return view
}

func (r *Renderer) editorView(survey model.Survey, questionID int, options render.RenderOptions) (editorView, error) {
	q, ok := survey.Question(questionID)
	if !ok {
		return editorView{}, fmt.Errorf("vanilla renderer: question %d: %w", questionID, model.ErrUnknownQuestion)
	}

	view := editorView{
		QuestionID:  q.ID,
		Action:      options.Action,
		Method:      formMethod(options.Method),
		Stylesheets: r.cfg.stylesheets,
		Script:      r.cfg.runtimeScript,
		AnswersPath: r.cfg.answersPath,
		SubmitLabel: r.cfg.submitLabel,
		Hidden:      render.SortedHiddenFields(options.HiddenFields),
		FormErrors:  render.MergeFormErrors(options.FormErrors),
		Text:        q.Text,
		Help:        q.Help,
		Required:    q.Required,
	}
	view.Style, _, _ = themeAttributes(options.Theme)

	for _, typ := range []model.QuestionType{model.QuestionTypeText, model.QuestionTypeChoice, model.QuestionTypeMultiple} {
		view.Types = append(view.Types, optionView{Value: string(typ), Label: string(typ), Selected: q.Type == typ})
	}

	var source model.Question
	var hasSource bool
	if q.DependsOn != nil {
		source, hasSource = survey.QuestionByField(q.DependsOn.Source)
	}

	view.Sources = append(view.Sources, optionView{Value: "", Label: "---------", Selected: !hasSource})
	for _, candidate := range survey.Questions {
		if candidate.ID == q.ID {
			continue
		}
		view.Sources = append(view.Sources, optionView{
			Value:    strconv.Itoa(candidate.ID),
			Label:    candidate.Text,
			Selected: hasSource && candidate.ID == source.ID,
		})
	}

	if hasSource {
		required := visibility.NewAnswerSet(q.DependsOn.Answers...)
		for _, answer := range source.Answers {
			view.Answers = append(view.Answers, optionView{
				Value:    strconv.Itoa(answer.ID),
				Label:    answer.Text,
				Selected: required.Has(answer.Text),
			})
		}
	}
	return view, nil
}

func (r *Renderer) listView(surveys []model.Survey, basePath string) listView {
	base := strings.TrimRight(firstNonEmpty(basePath, "/surveys/"), "/") + "/"
	now := r.cfg.now()

	view := listView{Stylesheets: r.cfg.stylesheets}
	for _, survey := range surveys {
		view.Surveys = append(view.Surveys, listItemView{
			Title: survey.Title,
			URL:   base + strconv.Itoa(survey.ID) + "/",
			Open:  survey.Open(now),
		})
	}
	return view
}

// themeAttributes flattens the theme into an inline style of CSS custom
// properties plus the theme and variant names.
func themeAttributes(cfg *theme.RendererConfig) (style, name, variant string) {
	if cfg == nil {
		return "", "", ""
	}

	vars := make(map[string]string, len(cfg.CSSVars)+len(themeTokenVars))
	for key, value := range cfg.CSSVars {
		if key = strings.TrimSpace(key); key != "" && strings.TrimSpace(value) != "" {
			vars[key] = strings.TrimSpace(value)
		}
	}
	for token, property := range themeTokenVars {
		if value := strings.TrimSpace(cfg.Tokens[token]); value != "" {
			vars[property] = value
		}
	}

	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	decls := make([]string, 0, len(keys))
	for _, key := range keys {
		decls = append(decls, key+": "+vars[key])
	}
	return strings.Join(decls, "; "), cfg.Theme, cfg.Variant
}

func formMethod(method string) string {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "GET" {
		return method
	}
	return "POST"
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
