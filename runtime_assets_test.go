package surveyform

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dop251/goja"

	"github.com/goliatone/go-surveyform/pkg/renderers/vanilla"
	"github.com/goliatone/go-surveyform/pkg/testsupport"
)

func TestRuntimeAssetsFSContainsRuntimeScript(t *testing.T) {
	data, err := fs.ReadFile(RuntimeAssetsFS(), RuntimeScript)
	if err != nil {
		t.Fatalf("expected runtime script to be readable: %v", err)
	}
	script := string(data)
	for _, marker := range []string{"data-required-answers", "error-message", "helper-text", "/answers/", "id_dependent_on", "id_required_answers"} {
		if !strings.Contains(script, marker) && !strings.Contains(script, dataset(marker)) {
			t.Fatalf("expected runtime script to reference %q", marker)
		}
	}
}

// dataset converts a data-* attribute to the DOM dataset property name.
func dataset(attr string) string {
	name := strings.TrimPrefix(attr, "data-")
	parts := strings.Split(name, "-")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}

// runtimeVM loads the fake DOM into a goja runtime, evaluates setup to build
// the document, then runs the embedded runtime script and fires
// DOMContentLoaded.
func runtimeVM(t *testing.T, setup string) *goja.Runtime {
	t.Helper()
	dom, err := os.ReadFile(filepath.Join("testdata", "fakedom.js"))
	if err != nil {
		t.Fatalf("read fake dom: %v", err)
	}
	script, err := fs.ReadFile(RuntimeAssetsFS(), RuntimeScript)
	if err != nil {
		t.Fatalf("read runtime script: %v", err)
	}

	vm := goja.New()
	if _, err := vm.RunScript("fakedom.js", string(dom)); err != nil {
		t.Fatalf("load fake dom: %v", err)
	}
	if _, err := vm.RunScript("setup.js", setup); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := vm.RunScript(RuntimeScript, string(script)); err != nil {
		t.Fatalf("run runtime script: %v", err)
	}
	eval(t, vm, `document.dispatch('DOMContentLoaded')`)
	return vm
}

func eval(t *testing.T, vm *goja.Runtime, src string) goja.Value {
	t.Helper()
	value, err := vm.RunString(src)
	if err != nil {
		t.Fatalf("eval %q: %v", src, err)
	}
	return value
}

const petsForm = `
var form = h('form', {},
  h('div', {className: 'question', id: 'question-1', dataset: {required: 'True'}},
    h('input', {type: 'checkbox', name: 'pets[]', value: 'Dog'}),
    h('input', {type: 'checkbox', name: 'pets[]', value: 'Cat'}),
    h('input', {type: 'checkbox', name: 'pets[]', value: 'Fish'}),
    h('div', {className: 'error-message', style: {display: 'none'}})),
  h('div', {className: 'question', id: 'question-2', dataset: {required: 'true', dependentOn: 'pets', requiredAnswers: 'dog, CAT'}},
    h('input', {type: 'text', name: 'why'}),
    h('div', {className: 'error-message', style: {display: 'none'}})));
document.appendChild(form);

function pick(values) {
  form.querySelectorAll('input[name="pets[]"]').forEach(function (input) {
    input.checked = values.indexOf(input.value) >= 0;
    input.dispatch('change');
  });
  return form.querySelector('#question-2').style.display;
}
`

func TestRuntimeScript_VisibilityIsExactSetMatch(t *testing.T) {
	vm := runtimeVM(t, petsForm)

	if got := eval(t, vm, `form.querySelector('#question-2').style.display`).String(); got != "none" {
		t.Fatalf("expected dependent question hidden on load, got %q", got)
	}

	cases := []struct {
		pick string
		want string
	}{
		{pick: `[]`, want: "none"},
		{pick: `['Dog']`, want: "none"},
		{pick: `['Dog', 'Cat']`, want: "block"},
		{pick: `['Dog', 'Cat', 'Fish']`, want: "none"},
		{pick: `['Cat', 'Dog']`, want: "block"},
		{pick: `['Cat']`, want: "none"},
	}
	for _, tc := range cases {
		if got := eval(t, vm, "pick("+tc.pick+")").String(); got != tc.want {
			t.Fatalf("pick(%s): expected display %q, got %q", tc.pick, tc.want, got)
		}
	}
}

func TestRuntimeScript_SubmitGuardSkipsHiddenQuestions(t *testing.T) {
	vm := runtimeVM(t, petsForm)

	if !eval(t, vm, `form.dispatch('submit').defaultPrevented`).ToBoolean() {
		t.Fatalf("expected submit blocked with required question unanswered")
	}
	if got := eval(t, vm, `form.querySelector('#question-1').querySelector('.error-message').style.display`).String(); got != "block" {
		t.Fatalf("expected question-1 error shown, got %q", got)
	}
	if got := eval(t, vm, `form.querySelector('#question-1').style.border`).String(); got != "2px solid red" {
		t.Fatalf("expected error border, got %q", got)
	}

	// question-2 is required but hidden, so it does not block once pets is answered.
	eval(t, vm, `pick(['Fish'])`)
	if eval(t, vm, `form.dispatch('submit').defaultPrevented`).ToBoolean() {
		t.Fatalf("expected submit to proceed with the dependent question hidden")
	}
	if got := eval(t, vm, `form.querySelector('#question-1').style.border`).String(); got != "1px solid #ccc" {
		t.Fatalf("expected normal border after answering, got %q", got)
	}
}

const editorForm = `
var source = h('select', {id: 'id_dependent_on'});
var target = h('select', {id: 'id_required_answers'});
var form = h('form', {dataset: {answersPath: '/api/questions'}}, source, target);
document.appendChild(form);

function choose(value) {
  source.value = value;
  source.dispatch('change');
}

function options() {
  return target.children.map(function (o) { return o.value + ':' + o.text; }).join('|');
}
`

func TestRuntimeScript_RefresherDiscardsStaleResponses(t *testing.T) {
	vm := runtimeVM(t, editorForm)

	eval(t, vm, `choose('1'); choose('2')`)
	if got := eval(t, vm, `requests.map(function (r) { return r.url; }).join(' ')`).String(); got != "/api/questions/1/answers/ /api/questions/2/answers/" {
		t.Fatalf("unexpected requests %q", got)
	}

	// Settle the newer request first, then the stale one.
	eval(t, vm, `respond(1, 200, [{id: 3, text: 'Cat'}, {id: 4, text: 'Fish'}])`)
	eval(t, vm, `respond(0, 200, [{id: 1, text: 'Dog'}])`)
	if got := eval(t, vm, `options()`).String(); got != "3:Cat|4:Fish" {
		t.Fatalf("expected only the latest answers, got %q", got)
	}

	eval(t, vm, `choose('')`)
	if got := eval(t, vm, `target.children.length + ':' + requests.length`).String(); got != "0:2" {
		t.Fatalf("expected cleared options without a request, got %q", got)
	}
}

func TestRuntimeScript_RefresherLogsFailures(t *testing.T) {
	vm := runtimeVM(t, editorForm)

	eval(t, vm, `choose('5')`)
	eval(t, vm, `respond(0, 500, null)`)
	logged := eval(t, vm, `logs.log.join('\n')`).String()
	if !strings.Contains(logged, "question 5") || !strings.Contains(logged, "HTTP 500") {
		t.Fatalf("expected failure logged, got %q", logged)
	}
	if got := eval(t, vm, `options()`).String(); got != "" {
		t.Fatalf("expected no options after failure, got %q", got)
	}

	// A failure for a superseded request is ignored.
	eval(t, vm, `choose('6'); choose('7')`)
	eval(t, vm, `respond(1, 500, null)`)
	if got := eval(t, vm, `logs.log.length`).ToInteger(); got != 1 {
		t.Fatalf("expected stale failure ignored, got %d log lines", got)
	}
}

func TestEmbeddedTemplatesExposeSurveyTemplate(t *testing.T) {
	if _, err := fs.Stat(EmbeddedTemplates(), vanilla.SurveyTemplate); err != nil {
		t.Fatalf("expected survey template: %v", err)
	}
}

func TestNewRegistryRegistersRenderers(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	for _, name := range []string{"vanilla", "tui"} {
		if !registry.Has(name) {
			t.Fatalf("expected %q renderer", name)
		}
	}
}

func TestGenerateHTMLFromSurvey(t *testing.T) {
	out, err := GenerateHTMLFromSurvey(testsupport.Context(), testsupport.PetSurvey(), RenderOptions{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), `class="question"`) {
		t.Fatalf("expected question blocks in output")
	}
}
