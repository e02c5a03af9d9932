package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-surveyform/pkg/model"
)

// Class names and attributes read from server-rendered markup.
const (
	ClassQuestion     = "question"
	ClassErrorMessage = "error-message"
	ClassHelperText   = "helper-text"

	AttrRequired        = "data-required"
	AttrDependentOn     = "data-dependent-on"
	AttrRequiredAnswers = "data-required-answers"
)

// Parse builds a Document from HTML markup. The first <form> scopes the
// document when present; otherwise the whole page is used. Question blocks
// are elements carrying the "question" class and their data-* attributes are
// decoded into dependency descriptors.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse html: %w", err)
	}

	doc := New()
	scope := root
	if form := findElement(root, "form"); form != nil {
		scope = form
		doc.Action = attr(form, "action")
		doc.Method = strings.ToUpper(attr(form, "method"))
	}

	walk(doc, scope, nil)
	return doc, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

func walk(doc *Document, n *html.Node, block *Block) {
	if n == nil {
		return
	}
	if n.Type == html.ElementNode {
		switch {
		case hasClass(n, ClassQuestion):
			block = doc.AddBlock(parseBlock(n))
			block.Visible = displayed(n)
		case n.Data == "input":
			ctl := parseControl(n)
			if ctl.Type.Answerable() || ctl.Type == ControlPassword || ctl.Type == ControlEmail {
				ctl.Helper = parseHelper(n)
			}
			doc.AddControl(block, ctl)
			return
		case n.Data == "select":
			doc.AddSelect(parseSelect(n))
			return
		case block != nil && block.Error == nil && hasClass(n, ClassErrorMessage):
			block.Error = &ErrorIndicator{
				Text:    textContent(n),
				Visible: displayed(n),
			}
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		walk(doc, child, block)
	}
}

func parseBlock(n *html.Node) *Block {
	block := &Block{
		ID:       attr(n, "id"),
		Required: model.ParseRequiredFlag(attr(n, AttrRequired)),
		Border:   styleValue(n, "border"),
	}
	if source := strings.TrimSpace(attr(n, AttrDependentOn)); source != "" {
		block.Dependency = &model.Dependency{
			Source:  source,
			Answers: model.ParseRequiredAnswers(attr(n, AttrRequiredAnswers)),
		}
	}
	return block
}

func parseControl(n *html.Node) *Control {
	typ := ControlType(strings.ToLower(strings.TrimSpace(attr(n, "type"))))
	if typ == "" {
		typ = ControlText
	}
	_, checked := lookupAttr(n, "checked")
	return &Control{
		ID:      attr(n, "id"),
		Name:    attr(n, "name"),
		Type:    typ,
		Value:   attr(n, "value"),
		Checked: checked,
	}
}

func parseHelper(n *html.Node) *Helper {
	sibling := nextElementSibling(n)
	if sibling == nil || !hasClass(sibling, ClassHelperText) {
		return nil
	}
	return &Helper{Text: textContent(sibling), Visible: displayed(sibling)}
}

func parseSelect(n *html.Node) *Select {
	_, multiple := lookupAttr(n, "multiple")
	sel := &Select{
		ID:       attr(n, "id"),
		Name:     attr(n, "name"),
		Multiple: multiple,
	}
	var visit func(*html.Node)
	visit = func(node *html.Node) {
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			if child.Type != html.ElementNode {
				continue
			}
			if child.Data == "option" {
				label := textContent(child)
				value, ok := lookupAttr(child, "value")
				if !ok {
					value = label
				}
				sel.Options = append(sel.Options, Option{Value: value, Label: label})
				if _, selected := lookupAttr(child, "selected"); selected && sel.Value == "" {
					sel.Value = value
				}
				continue
			}
			visit(child)
		}
	}
	visit(n)
	return sel
}

func findElement(n *html.Node, tag string) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findElement(child, tag); found != nil {
			return found
		}
	}
	return nil
}

func nextElementSibling(n *html.Node) *html.Node {
	for sibling := n.NextSibling; sibling != nil; sibling = sibling.NextSibling {
		if sibling.Type == html.ElementNode {
			return sibling
		}
	}
	return nil
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func attr(n *html.Node, key string) string {
	value, _ := lookupAttr(n, key)
	return value
}

func hasClass(n *html.Node, class string) bool {
	for _, token := range strings.Fields(attr(n, "class")) {
		if token == class {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			visit(child)
		}
	}
	visit(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// displayed treats elements as hidden only when their inline style says so or
// they carry the hidden attribute.
func displayed(n *html.Node) bool {
	if _, hidden := lookupAttr(n, "hidden"); hidden {
		return false
	}
	return styleValue(n, "display") != "none"
}

func styleValue(n *html.Node, property string) string {
	for _, decl := range strings.Split(attr(n, "style"), ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), property) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
