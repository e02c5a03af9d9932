package vanilla_test

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-surveyform/pkg/behaviors"
	"github.com/goliatone/go-surveyform/pkg/catalog"
	"github.com/goliatone/go-surveyform/pkg/dom"
	"github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/orchestrator"
	"github.com/goliatone/go-surveyform/pkg/render"
	"github.com/goliatone/go-surveyform/pkg/renderers/vanilla"
	"github.com/goliatone/go-surveyform/pkg/testsupport"
)

func newRenderer(t *testing.T, options ...vanilla.Option) *vanilla.Renderer {
	t.Helper()
	renderer, err := vanilla.New(options...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return renderer
}

func renderDocument(t *testing.T, survey model.Survey, options render.RenderOptions) (*dom.Document, string) {
	t.Helper()
	out, err := newRenderer(t).Render(testsupport.Context(), survey, options)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	doc, err := dom.Parse(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc, string(out)
}

func TestRenderer_MarkupContract(t *testing.T) {
	doc, _ := renderDocument(t, testsupport.PetSurvey(), render.RenderOptions{
		HiddenFields: render.MergeHiddenFields(nil, render.CSRFToken("csrfmiddlewaretoken", "tok")),
	})

	if doc.Method != "POST" || doc.Action != "/surveys/1/submit/" {
		t.Fatalf("unexpected form attributes: %s %s", doc.Method, doc.Action)
	}

	q1 := doc.BlockByID("question-1")
	if q1 == nil || !q1.Required || q1.Dependency != nil || q1.Error == nil {
		t.Fatalf("unexpected question-1 block: %+v", q1)
	}

	q2 := doc.BlockByID("question-2")
	if q2 == nil || q2.Dependency == nil {
		t.Fatalf("expected question-2 dependency")
	}
	if diff := cmp.Diff(model.Dependency{Source: "1", Answers: []string{"yes"}}, *q2.Dependency); diff != "" {
		t.Fatalf("dependency mismatch (-want +got):\n%s", diff)
	}
	if q2.Visible {
		t.Fatalf("expected question-2 hidden before any answer")
	}

	pets := doc.ControlsInGroup("pets")
	if len(pets) != 2 || pets[0].Name != "pets[]" || pets[0].Type != dom.ControlCheckbox || pets[0].Value != "Dog" {
		t.Fatalf("unexpected pets controls: %+v", pets)
	}

	colour := doc.ControlByID("id_colour")
	if colour == nil || colour.Helper == nil || colour.Helper.Visible || colour.Helper.Text != "One word please" {
		t.Fatalf("expected hidden helper text after colour input, got %+v", colour)
	}

	token := doc.ControlByValue("csrfmiddlewaretoken", "tok")
	if token == nil || token.Type != dom.ControlHidden {
		t.Fatalf("expected hidden csrf input")
	}
}

func TestRenderer_RoundTripInteraction(t *testing.T) {
	doc, _ := renderDocument(t, testsupport.PetSurvey(), render.RenderOptions{})
	behaviors.Attach(doc)
	behaviors.AttachHelpers(doc)

	if doc.Submit() {
		t.Fatalf("expected submission blocked with required question unanswered")
	}
	state := doc.Snapshot()["question-1"]
	if !state.ErrorVisible || state.Border != behaviors.DefaultErrorBorder {
		t.Fatalf("expected question-1 marked, got %+v", state)
	}

	doc.Click(doc.ControlByValue("1", "Yes"))
	if !doc.Snapshot()["question-2"].Visible {
		t.Fatalf("expected question-2 visible after answering yes")
	}
	if doc.Submit() {
		t.Fatalf("expected submission blocked while visible question-2 is unanswered")
	}

	doc.Click(doc.ControlByValue("pets[]", "Dog"))
	if !doc.Submit() {
		t.Fatalf("expected submission to proceed")
	}

	colour := doc.ControlByID("id_colour")
	doc.Focus(colour)
	if !colour.Helper.Visible {
		t.Fatalf("expected helper visible on focus")
	}
	doc.Blur(colour)
	if colour.Helper.Visible {
		t.Fatalf("expected helper hidden on blur")
	}

	why := doc.BlockByID("question-4")
	doc.Type(colour, " RED ")
	if !doc.Snapshot()[why.ID].Visible {
		t.Fatalf("expected question-4 visible for colour red")
	}
	doc.Type(colour, "red, blue")
	if doc.Snapshot()[why.ID].Visible {
		t.Fatalf("expected question-4 hidden for a different text answer")
	}
}

func TestRenderer_CommaInRequiredAnswer(t *testing.T) {
	survey := model.Survey{
		ID: 7,
		Questions: []model.Question{
			{ID: 1, Text: "Coming?", Type: model.QuestionTypeChoice, Answers: []model.Answer{
				{ID: 1, Text: "Yes, definitely"},
				{ID: 2, Text: "No"},
			}},
			{ID: 2, Text: "Bringing a guest?", Type: model.QuestionTypeText, DependsOn: &model.Dependency{
				Source:  "1",
				Answers: []string{"Yes, definitely"},
			}},
		},
	}

	doc, out := renderDocument(t, survey, render.RenderOptions{})
	if !strings.Contains(out, `data-required-answers="yes,definitely"`) {
		t.Fatalf("expected comma joined attribute, got:\n%s", out)
	}
	q2 := doc.BlockByID("question-2")
	if q2 == nil || q2.Dependency == nil {
		t.Fatalf("expected question-2 dependency")
	}
	// The attribute splits on commas, so the browser sees two answers.
	if diff := cmp.Diff([]string{"yes", "definitely"}, q2.Dependency.Answers); diff != "" {
		t.Fatalf("parsed answers mismatch (-want +got):\n%s", diff)
	}
	behaviors.Attach(doc)
	doc.Click(doc.ControlByValue("1", "Yes, definitely"))
	if doc.Snapshot()["question-2"].Visible {
		t.Fatalf("expected question-2 to stay hidden in the browser")
	}

	var kinds []model.FindingKind
	for _, finding := range survey.Lint() {
		kinds = append(kinds, finding.Kind)
	}
	if diff := cmp.Diff([]model.FindingKind{model.FindingCommaInAnswer, model.FindingCommaInAnswer}, kinds); diff != "" {
		t.Fatalf("lint findings mismatch (-want +got):\n%s", diff)
	}

	orch := orchestrator.New(orchestrator.WithStrictLint(true))
	_, err := orch.Generate(testsupport.Context(), orchestrator.Request{Survey: &survey})
	if !errors.Is(err, orchestrator.ErrLint) {
		t.Fatalf("expected strict generation to fail with ErrLint, got %v", err)
	}
}

func TestRenderer_PrefilledValuesAndErrors(t *testing.T) {
	survey := testsupport.PetSurvey()
	errs := render.MapErrors(survey, map[string][]string{"pets[]": {"Pick at least one."}})

	doc, out := renderDocument(t, survey, render.RenderOptions{
		Method: "get",
		Values: map[string][]string{"1": {"Yes"}, "pets[]": {"cat"}, "colour": {"blue"}},
		Errors: errs.Fields,
	})

	if doc.Method != "GET" {
		t.Fatalf("method = %q", doc.Method)
	}
	q2 := doc.BlockByID("question-2")
	if !q2.Visible {
		t.Fatalf("expected question-2 visible from submitted values")
	}
	if q2.Error == nil || !q2.Error.Visible || q2.Error.Text != "Pick at least one." {
		t.Fatalf("expected server error shown, got %+v", q2.Error)
	}
	if !doc.ControlByValue("pets[]", "Cat").Checked || doc.ControlByValue("pets[]", "Dog").Checked {
		t.Fatalf("expected only cat checked")
	}
	if doc.ControlByValue("1", "Yes") == nil || !doc.ControlByValue("1", "Yes").Checked {
		t.Fatalf("expected yes checked")
	}
	if !strings.Contains(out, `value="blue"`) {
		t.Fatalf("expected colour value prefilled")
	}
	if doc.BlockByID("question-4").Visible {
		t.Fatalf("expected question-4 hidden for colour blue")
	}
}

func TestRenderer_SanitizesText(t *testing.T) {
	survey := model.Survey{Questions: []model.Question{{
		ID:   1,
		Text: `Pick <b>one</b><script>alert(1)</script>`,
		Help: `<a href="javascript:alert(1)" onclick="x()">help</a>`,
		Type: model.QuestionTypeText,
	}}}

	_, out := renderDocument(t, survey, render.RenderOptions{})
	if strings.Contains(out, "<script>alert") || strings.Contains(out, "javascript:") || strings.Contains(out, "onclick") {
		t.Fatalf("expected unsafe markup stripped:\n%s", out)
	}
	if !strings.Contains(out, "Pick <b>one</b>") {
		t.Fatalf("expected safe markup kept:\n%s", out)
	}
}

func TestRenderer_ThemeVariables(t *testing.T) {
	_, out := renderDocument(t, testsupport.PetSurvey(), render.RenderOptions{
		Theme: &theme.RendererConfig{
			Theme:   "acme",
			Variant: "dark",
			Tokens:  map[string]string{"question.border": "3px solid blue"},
			CSSVars: map[string]string{"--brand": "#123456"},
		},
	})

	for _, want := range []string{
		`style="--brand: #123456; --surveyform-question-border: 3px solid blue"`,
		`data-theme="acme"`,
		`data-theme-variant="dark"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in output:\n%s", want, out)
		}
	}
}

func TestRenderer_ClosedSurvey(t *testing.T) {
	survey := testsupport.PetSurvey()
	survey.EndDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	renderer := newRenderer(t, vanilla.WithClock(func() time.Time {
		return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	}))
	out, err := renderer.Render(testsupport.Context(), survey, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), `class="surveyform-closed"`) || !strings.Contains(string(out), "disabled") {
		t.Fatalf("expected closed notice and disabled submit:\n%s", out)
	}
}

func TestRenderer_Assets(t *testing.T) {
	renderer := newRenderer(t,
		vanilla.WithStylesheet("/static/site.css"),
		vanilla.WithRuntimeScript("/runtime/surveyform-runtime.js"),
		vanilla.WithSubmitLabel("Send"),
		vanilla.WithRequireHidden(true),
	)
	out, err := renderer.Render(testsupport.Context(), testsupport.PetSurvey(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		`<link rel="stylesheet" href="/static/site.css">`,
		`<script src="/runtime/surveyform-runtime.js" defer></script>`,
		`>Send</button>`,
		`novalidate data-require-hidden="true"`,
	} {
		if !strings.Contains(string(out), want) {
			t.Fatalf("expected %s in output", want)
		}
	}
}

func TestRenderer_EditorRefreshesAnswers(t *testing.T) {
	survey := testsupport.PetSurvey()
	renderer := newRenderer(t)

	out, err := renderer.RenderEditor(testsupport.Context(), survey, 2, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render editor: %v", err)
	}
	doc, err := dom.Parse(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	source := doc.SelectByID(behaviors.DefaultSourceSelectID)
	target := doc.SelectByID(behaviors.DefaultTargetSelectID)
	if source == nil || target == nil {
		t.Fatalf("expected editor selects")
	}
	if source.Value != "1" {
		t.Fatalf("depends-on value = %q, want 1", source.Value)
	}
	if diff := cmp.Diff([]dom.Option{{Value: "1", Label: "Yes"}, {Value: "2", Label: "No"}}, target.Options); diff != "" {
		t.Fatalf("initial answers mismatch (-want +got):\n%s", diff)
	}

	mux := http.NewServeMux()
	if _, err := catalog.RegisterRoutes(mux, "", catalog.WithStore(catalog.NewMemory(survey))); err != nil {
		t.Fatalf("register routes: %v", err)
	}
	srv := httptest.NewServer(mux)
	defer srv.Close()

	refresher, err := behaviors.AttachRefresher(doc, catalog.NewClient(srv.URL, catalog.WithHTTPClient(srv.Client())))
	if err != nil {
		t.Fatalf("attach refresher: %v", err)
	}
	defer refresher.Close()

	doc.Choose(source, "3")
	refresher.Wait()
	if got := optionsOf(doc, target); len(got) != 0 {
		t.Fatalf("expected text question to have no answers, got %v", got)
	}

	doc.Choose(source, "1")
	refresher.Wait()
	if diff := cmp.Diff([]dom.Option{{Value: "1", Label: "Yes"}, {Value: "2", Label: "No"}}, optionsOf(doc, target)); diff != "" {
		t.Fatalf("refreshed answers mismatch (-want +got):\n%s", diff)
	}

	doc.Choose(source, "")
	refresher.Wait()
	if got := optionsOf(doc, target); len(got) != 0 {
		t.Fatalf("expected answers cleared, got %v", got)
	}
}

func TestRenderer_EditorUnknownQuestion(t *testing.T) {
	_, err := newRenderer(t).RenderEditor(testsupport.Context(), testsupport.PetSurvey(), 42, render.RenderOptions{})
	if !errors.Is(err, model.ErrUnknownQuestion) {
		t.Fatalf("expected ErrUnknownQuestion, got %v", err)
	}
}

func TestRenderer_List(t *testing.T) {
	closed := model.Survey{ID: 2, Title: "Archived", EndDate: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)}
	out, err := newRenderer(t).RenderList(testsupport.Context(), []model.Survey{testsupport.PetSurvey(), closed}, "/s")
	if err != nil {
		t.Fatalf("render list: %v", err)
	}
	for _, want := range []string{`<a href="/s/1/">Pets</a>`, `<li class="closed"><a href="/s/2/">Archived</a>`} {
		if !strings.Contains(string(out), want) {
			t.Fatalf("expected %s in:\n%s", want, out)
		}
	}
}

func TestRenderer_WithTemplateRenderer(t *testing.T) {
	stub := &stubTemplateRenderer{}
	renderer := newRenderer(t, vanilla.WithTemplateRenderer(stub))

	out, err := renderer.Render(testsupport.Context(), testsupport.PetSurvey(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "custom-output" || stub.name != vanilla.SurveyTemplate {
		t.Fatalf("unexpected stub call: %q %q", out, stub.name)
	}
}

func optionsOf(doc *dom.Document, sel *dom.Select) []dom.Option {
	var out []dom.Option
	doc.Update(func(*dom.Document) {
		out = append([]dom.Option(nil), sel.Options...)
	})
	return out
}

type stubTemplateRenderer struct {
	name string
}

func (s *stubTemplateRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	return s.RenderTemplate(name, data, out...)
}

func (s *stubTemplateRenderer) RenderTemplate(name string, _ any, _ ...io.Writer) (string, error) {
	s.name = name
	return "custom-output", nil
}

func (s *stubTemplateRenderer) RenderString(string, any, ...io.Writer) (string, error) {
	return "", nil
}

func (s *stubTemplateRenderer) RegisterFilter(string, func(any, any) (any, error)) error {
	return nil
}

func (s *stubTemplateRenderer) GlobalContext(any) error {
	return nil
}
