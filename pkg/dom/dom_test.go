package dom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleMarkup = `<!doctype html>
<html><body>
<form action="/surveys/1/" method="post">
  <input type="hidden" name="csrfmiddlewaretoken" value="tok">
  <div class="question" id="question-1" data-required="True">
    <label><input type="radio" name="q1" value="yes"> Yes</label>
    <label><input type="radio" name="q1" value="no" checked> No</label>
    <div class="error-message" style="display: none">This question is required.</div>
  </div>
  <div class="question" id="question-2" data-required="False" data-dependent-on="q1" data-required-answers="Yes, ">
    <input type="checkbox" name="q2[]" value="dog">
    <input type="checkbox" name="q2[]" value="cat">
    <div class="error-message" style="display:none">Required</div>
  </div>
  <div class="question" id="question-3">
    <input type="text" name="q3" value="  Hello ">
    <span class="helper-text" style="display:none">Say something</span>
  </div>
  <select id="id_dependent_on" name="dependent_on">
    <option value="">---------</option>
    <option value="1" selected>Do you own a pet?</option>
  </select>
  <select id="id_required_answers" name="required_answers" multiple></select>
</form>
</body></html>`

func TestParse(t *testing.T) {
	doc, err := ParseString(sampleMarkup)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if doc.Action != "/surveys/1/" || doc.Method != "POST" {
		t.Fatalf("unexpected form target %q %q", doc.Method, doc.Action)
	}
	if len(doc.Blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(doc.Blocks))
	}

	q1 := doc.BlockByID("question-1")
	if !q1.Required || q1.Dependency != nil || len(q1.Controls) != 2 {
		t.Fatalf("unexpected first block: %+v", q1)
	}
	if q1.Error == nil || q1.Error.Visible || q1.Error.Text != "This question is required." {
		t.Fatalf("unexpected error indicator: %+v", q1.Error)
	}

	q2 := doc.BlockByID("question-2")
	if q2.Required {
		t.Fatalf("expected optional second block")
	}
	if q2.Dependency == nil || q2.Dependency.Source != "q1" {
		t.Fatalf("expected dependency on q1, got %+v", q2.Dependency)
	}
	if diff := cmp.Diff([]string{"yes"}, q2.Dependency.Answers); diff != "" {
		t.Fatalf("required answers mismatch (-want +got):\n%s", diff)
	}

	q3 := doc.BlockByID("question-3")
	if q3.Controls[0].Helper == nil || q3.Controls[0].Helper.Visible {
		t.Fatalf("expected hidden helper on text control")
	}

	sel := doc.SelectByID("id_dependent_on")
	if sel == nil || sel.Value != "1" || len(sel.Options) != 2 {
		t.Fatalf("unexpected select: %+v", sel)
	}
	target := doc.SelectByID("id_required_answers")
	if target == nil || !target.Multiple || len(target.Options) != 0 {
		t.Fatalf("unexpected target select: %+v", target)
	}

	if hidden := doc.ControlsInGroup("csrfmiddlewaretoken"); len(hidden) != 1 || hidden[0].Block != nil {
		t.Fatalf("expected hidden control outside any block")
	}
}

func TestObserve(t *testing.T) {
	doc, err := ParseString(sampleMarkup)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if diff := cmp.Diff([]string{"no"}, doc.Observe("q1").Values()); diff != "" {
		t.Fatalf("q1 mismatch (-want +got):\n%s", diff)
	}
	if got := doc.Observe("q2"); got.Len() != 0 {
		t.Fatalf("expected no answers on q2, got %v", got.Values())
	}
	if diff := cmp.Diff([]string{"hello"}, doc.Observe("q3").Values()); diff != "" {
		t.Fatalf("q3 mismatch (-want +got):\n%s", diff)
	}

	doc.Click(doc.ControlByValue("q2", "dog"))
	doc.Click(doc.ControlByValue("q2", "cat"))
	if diff := cmp.Diff([]string{"cat", "dog"}, doc.Observe("q2").Values()); diff != "" {
		t.Fatalf("q2 mismatch (-want +got):\n%s", diff)
	}
}

func TestClickRadioClearsGroup(t *testing.T) {
	doc, err := ParseString(sampleMarkup)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var changes int
	yes := doc.ControlByValue("q1", "yes")
	doc.On(yes, EventChange, func(*Document, *Event) { changes++ })

	doc.Click(yes)
	doc.Click(yes)

	if !yes.Checked || doc.ControlByValue("q1", "no").Checked {
		t.Fatalf("expected only yes checked")
	}
	if changes != 1 {
		t.Fatalf("expected a single change event, got %d", changes)
	}
}

func TestSubmitPreventDefault(t *testing.T) {
	doc := New()
	if !doc.Submit() {
		t.Fatalf("expected submission without listeners")
	}

	doc.On(doc, EventSubmit, func(_ *Document, ev *Event) { ev.PreventDefault() })
	if doc.Submit() {
		t.Fatalf("expected submission to be prevented")
	}
}

func TestBlockHasAnswer(t *testing.T) {
	doc := New()
	block := doc.AddBlock(&Block{ID: "b"})
	text := doc.AddControl(block, &Control{Name: "t"})
	doc.AddControl(block, &Control{Name: "p", Type: ControlPassword, Value: "secret"})

	if block.HasAnswer() {
		t.Fatalf("password values do not count as answers")
	}
	doc.Type(text, "   ")
	if block.HasAnswer() {
		t.Fatalf("blank text does not count as an answer")
	}
	doc.Type(text, "x")
	if !block.HasAnswer() {
		t.Fatalf("expected answer after typing")
	}
}
