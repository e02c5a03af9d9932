package dom

// EventType names a dispatched event.
type EventType string

const (
	EventChange EventType = "change"
	EventInput  EventType = "input"
	EventSubmit EventType = "submit"
	EventFocus  EventType = "focus"
	EventBlur   EventType = "blur"
)

// Event is delivered to listeners. Exactly one of Control or Select is set for
// element events; both are nil for submit.
type Event struct {
	Type    EventType
	Control *Control
	Select  *Select

	defaultPrevented bool
}

// PreventDefault cancels the default action (only meaningful for submit).
func (e *Event) PreventDefault() {
	if e != nil {
		e.defaultPrevented = true
	}
}

// DefaultPrevented reports whether a listener cancelled the default action.
func (e *Event) DefaultPrevented() bool {
	return e != nil && e.defaultPrevented
}

// Listener handles an event. Listeners run while the document lock is held:
// they may read and mutate the document directly but must not call the
// interaction methods (Click, Type, Submit, Update, ...).
type Listener func(doc *Document, ev *Event)

type listenerKey struct {
	target any
	typ    EventType
}

// On registers fn for events of typ on target. Target is a *Control, a
// *Select, or the *Document itself for submit.
func (d *Document) On(target any, typ EventType, fn Listener) {
	if fn == nil || target == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.listeners == nil {
		d.listeners = make(map[listenerKey][]Listener)
	}
	key := listenerKey{target: target, typ: typ}
	d.listeners[key] = append(d.listeners[key], fn)
}

// Dispatch delivers ev to the listeners registered on its target.
func (d *Document) Dispatch(ev *Event) *Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dispatch(ev)
	return ev
}

func (d *Document) dispatch(ev *Event) {
	if ev == nil {
		return
	}
	var target any = d
	switch {
	case ev.Control != nil:
		target = ev.Control
	case ev.Select != nil:
		target = ev.Select
	}
	for _, fn := range d.listeners[listenerKey{target: target, typ: ev.Type}] {
		fn(d, ev)
	}
}

// Update runs fn under the document lock. Asynchronous work (fetch
// completions) must apply its results through Update.
func (d *Document) Update(fn func(doc *Document)) {
	if fn == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d)
}

// Click toggles a checkbox or checks a radio (clearing the rest of its
// group) and dispatches change. Clicking an already checked radio is a no-op.
func (d *Document) Click(ctl *Control) {
	if ctl == nil || !ctl.Type.Checkable() {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if ctl.Type == ControlRadio {
		if ctl.Checked {
			return
		}
		for _, other := range d.Controls {
			if other != ctl && other.Type == ControlRadio && other.Name == ctl.Name {
				other.Checked = false
			}
		}
		ctl.Checked = true
	} else {
		ctl.Checked = !ctl.Checked
	}
	d.dispatch(&Event{Type: EventChange, Control: ctl})
}

// Type replaces a text-like control's value and dispatches input.
func (d *Document) Type(ctl *Control, value string) {
	if ctl == nil || ctl.Type.Checkable() {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	ctl.Value = value
	d.dispatch(&Event{Type: EventInput, Control: ctl})
}

// Change dispatches change on a control, as a browser does when a text
// control's edited value is committed.
func (d *Document) Change(ctl *Control) {
	if ctl == nil {
		return
	}
	d.Dispatch(&Event{Type: EventChange, Control: ctl})
}

// Choose sets a select's value and dispatches change.
func (d *Document) Choose(sel *Select, value string) {
	if sel == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	sel.Value = value
	d.dispatch(&Event{Type: EventChange, Select: sel})
}

// Focus dispatches focus on ctl.
func (d *Document) Focus(ctl *Control) {
	if ctl == nil {
		return
	}
	d.Dispatch(&Event{Type: EventFocus, Control: ctl})
}

// Blur dispatches blur on ctl.
func (d *Document) Blur(ctl *Control) {
	if ctl == nil {
		return
	}
	d.Dispatch(&Event{Type: EventBlur, Control: ctl})
}

// Submit dispatches submit on the document and reports whether the
// submission would proceed.
func (d *Document) Submit() bool {
	ev := d.Dispatch(&Event{Type: EventSubmit})
	return !ev.DefaultPrevented()
}
