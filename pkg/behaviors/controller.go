package behaviors

import (
	"github.com/goliatone/go-surveyform/pkg/dom"
	"github.com/goliatone/go-surveyform/pkg/visibility"
)

// Controller keeps question visibility in sync with the answers in a document
// and guards submission of unanswered required questions.
type Controller struct {
	doc    *dom.Document
	cfg    config
	warned map[*dom.Block]struct{}
}

// Attach wires the visibility and submission listeners into doc and runs an
// initial visibility pass. Every radio/checkbox change and every text
// input/change re-evaluates the whole form, since one answer may gate several
// questions.
func Attach(doc *dom.Document, options ...Option) *Controller {
	c := &Controller{
		doc:    doc,
		cfg:    newConfig(options...),
		warned: make(map[*dom.Block]struct{}),
	}
	if doc == nil {
		return c
	}

	refresh := func(d *dom.Document, _ *dom.Event) { c.evaluate(d) }
	for _, ctl := range doc.Controls {
		switch {
		case ctl.Type.Checkable():
			doc.On(ctl, dom.EventChange, refresh)
		case ctl.Type == dom.ControlText:
			doc.On(ctl, dom.EventInput, refresh)
			doc.On(ctl, dom.EventChange, refresh)
		}
	}
	doc.On(doc, dom.EventSubmit, c.guard)

	doc.Update(c.evaluate)
	return c
}

// Refresh runs a full visibility pass.
func (c *Controller) Refresh() {
	if c.doc == nil {
		return
	}
	c.doc.Update(c.evaluate)
}

// Validate runs the required check without submitting and reports whether
// every checked question is answered. Error indicators are updated.
func (c *Controller) Validate() bool {
	if c.doc == nil {
		return true
	}
	valid := true
	c.doc.Update(func(d *dom.Document) {
		valid = c.validate(d)
	})
	return valid
}

func (c *Controller) evaluate(doc *dom.Document) {
	for _, block := range doc.Blocks {
		block.Visible = c.cfg.evaluator.Eval(block.Dependency, doc) == visibility.Visible
	}
}

func (c *Controller) guard(doc *dom.Document, ev *dom.Event) {
	if !c.validate(doc) {
		ev.PreventDefault()
	}
}

func (c *Controller) validate(doc *dom.Document) bool {
	c.evaluate(doc)

	valid := true
	for _, block := range doc.Blocks {
		checked := block.Visible || c.cfg.requireHidden
		if checked && block.Required && !block.HasAnswer() {
			c.markError(block, true)
			valid = false
			continue
		}
		c.markError(block, false)
	}
	return valid
}

func (c *Controller) markError(block *dom.Block, failed bool) {
	if failed {
		block.Border = c.cfg.errorBorder
	} else {
		block.Border = c.cfg.border
	}

	if block.Error == nil {
		if _, seen := c.warned[block]; !seen && failed {
			c.warned[block] = struct{}{}
			c.cfg.logger.Printf("behaviors: question %q has no error-message element", block.ID)
		}
		return
	}
	block.Error.Visible = failed
}
