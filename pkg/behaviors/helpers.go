package behaviors

import "github.com/goliatone/go-surveyform/pkg/dom"

// AttachHelpers shows each text, password or email control's helper element
// while the control has focus. Controls without a helper are left alone.
func AttachHelpers(doc *dom.Document, options ...Option) {
	if doc == nil {
		return
	}
	cfg := newConfig(options...)

	for _, ctl := range doc.Controls {
		switch ctl.Type {
		case dom.ControlText, dom.ControlPassword, dom.ControlEmail:
		default:
			continue
		}
		doc.On(ctl, dom.EventFocus, func(_ *dom.Document, ev *dom.Event) {
			setHelper(ev.Control, true)
		})
		doc.On(ctl, dom.EventBlur, func(_ *dom.Document, ev *dom.Event) {
			setHelper(ev.Control, false)
		})
		if cfg.inputHook != nil {
			hook := cfg.inputHook
			doc.On(ctl, dom.EventInput, func(d *dom.Document, ev *dom.Event) {
				hook(d, ev.Control)
			})
		}
	}
}

func setHelper(ctl *dom.Control, visible bool) {
	if ctl == nil || ctl.Helper == nil {
		return
	}
	ctl.Helper.Visible = visible
}
