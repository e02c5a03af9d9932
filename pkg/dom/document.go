package dom

import (
	"strings"
	"sync"

	"github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/visibility"
)

// ControlType mirrors the HTML input type attribute.
type ControlType string

const (
	ControlText     ControlType = "text"
	ControlRadio    ControlType = "radio"
	ControlCheckbox ControlType = "checkbox"
	ControlPassword ControlType = "password"
	ControlEmail    ControlType = "email"
	ControlHidden   ControlType = "hidden"
)

// Checkable reports whether the control toggles a checked state.
func (t ControlType) Checkable() bool {
	return t == ControlRadio || t == ControlCheckbox
}

// Answerable reports whether the control counts as an answer to a question.
func (t ControlType) Answerable() bool {
	return t == ControlText || t.Checkable()
}

// Helper is the hint element rendered right after a text-like control.
type Helper struct {
	Text    string
	Visible bool
}

// ErrorIndicator is the inline message shown on a question that failed the
// required check.
type ErrorIndicator struct {
	Text    string
	Visible bool
}

// Control is a single input element.
type Control struct {
	ID      string
	Name    string
	Type    ControlType
	Value   string
	Checked bool
	Block   *Block
	Helper  *Helper
}

// InGroup reports whether the control belongs to the named input group, using
// the name or name[] convention.
func (c *Control) InGroup(field string) bool {
	if c == nil || field == "" {
		return false
	}
	return c.Name == field || c.Name == field+"[]"
}

// Answered reports whether the control currently holds an answer.
func (c *Control) Answered() bool {
	if c == nil {
		return false
	}
	if c.Type.Checkable() {
		return c.Checked
	}
	return strings.TrimSpace(c.Value) != ""
}

// Block is a question container. Visible is rewritten on every visibility
// pass; Border carries the current border style.
type Block struct {
	ID         string
	Required   bool
	Dependency *model.Dependency
	Controls   []*Control
	Error      *ErrorIndicator
	Visible    bool
	Border     string
}

// HasAnswer reports whether any text, radio or checkbox control inside the
// block is answered.
func (b *Block) HasAnswer() bool {
	if b == nil {
		return false
	}
	for _, ctl := range b.Controls {
		if ctl.Type.Answerable() && ctl.Answered() {
			return true
		}
	}
	return false
}

// Option is a select option.
type Option struct {
	Value string
	Label string
}

// Select is a single or multi-select element.
type Select struct {
	ID       string
	Name     string
	Multiple bool
	Value    string
	Options  []Option
}

// Document is the live state of a rendered form. All interaction methods
// serialise on an internal mutex so concurrent callers observe the same
// one-event-at-a-time ordering a browser event loop provides.
type Document struct {
	mu sync.Mutex

	Action   string
	Method   string
	Blocks   []*Block
	Controls []*Control
	Selects  []*Select

	listeners map[listenerKey][]Listener
}

// New returns an empty document.
func New() *Document {
	return &Document{listeners: make(map[listenerKey][]Listener)}
}

// AddBlock appends a question block. Blocks start visible.
func (d *Document) AddBlock(block *Block) *Block {
	if block == nil {
		return nil
	}
	block.Visible = true
	d.Blocks = append(d.Blocks, block)
	return block
}

// AddControl appends a control, attaching it to block when non-nil.
func (d *Document) AddControl(block *Block, ctl *Control) *Control {
	if ctl == nil {
		return nil
	}
	if ctl.Type == "" {
		ctl.Type = ControlText
	}
	if block != nil {
		ctl.Block = block
		block.Controls = append(block.Controls, ctl)
	}
	d.Controls = append(d.Controls, ctl)
	return ctl
}

// AddSelect appends a select element.
func (d *Document) AddSelect(sel *Select) *Select {
	if sel == nil {
		return nil
	}
	d.Selects = append(d.Selects, sel)
	return sel
}

// BlockByID returns the block with the given id.
func (d *Document) BlockByID(id string) *Block {
	for _, block := range d.Blocks {
		if block.ID == id {
			return block
		}
	}
	return nil
}

// ControlByID returns the control with the given id.
func (d *Document) ControlByID(id string) *Control {
	for _, ctl := range d.Controls {
		if ctl.ID != "" && ctl.ID == id {
			return ctl
		}
	}
	return nil
}

// ControlByValue returns the first control in the group holding value.
func (d *Document) ControlByValue(field, value string) *Control {
	for _, ctl := range d.Controls {
		if ctl.InGroup(field) && ctl.Value == value {
			return ctl
		}
	}
	return nil
}

// ControlsInGroup returns the controls named field or field[].
func (d *Document) ControlsInGroup(field string) []*Control {
	var out []*Control
	for _, ctl := range d.Controls {
		if ctl.InGroup(field) {
			out = append(out, ctl)
		}
	}
	return out
}

// SelectByID returns the select element with the given id.
func (d *Document) SelectByID(id string) *Select {
	for _, sel := range d.Selects {
		if sel.ID == id {
			return sel
		}
	}
	return nil
}

// Observe collects the answers currently present on the named group: the
// values of checked radios and checkboxes plus the trimmed value of any
// non-blank text control. Other control types are ignored.
//
// Observe does not lock; call it from a listener or inside Update.
func (d *Document) Observe(field string) visibility.AnswerSet {
	set := make(visibility.AnswerSet)
	for _, ctl := range d.Controls {
		if !ctl.InGroup(field) {
			continue
		}
		switch {
		case ctl.Type.Checkable() && ctl.Checked:
			set.Add(ctl.Value)
		case ctl.Type == ControlText:
			set.Add(ctl.Value)
		}
	}
	return set
}

var _ visibility.Source = (*Document)(nil)

// BlockState is a comparable snapshot of a block's presentation.
type BlockState struct {
	Visible      bool
	ErrorVisible bool
	Border       string
}

// Snapshot captures every block's presentation keyed by block id.
func (d *Document) Snapshot() map[string]BlockState {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make(map[string]BlockState, len(d.Blocks))
	for _, block := range d.Blocks {
		state := BlockState{Visible: block.Visible, Border: block.Border}
		if block.Error != nil {
			state.ErrorVisible = block.Error.Visible
		}
		out[block.ID] = state
	}
	return out
}
