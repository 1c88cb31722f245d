package browser

import (
	"fmt"

	"github.com/drstein77/cartfolio/internal/presenter"
	"github.com/go-rod/rod"
)

var (
	_ presenter.Document = (*Document)(nil)
	_ presenter.Location = (*Tab)(nil)
)

// Document renders into the tab's DOM.
type Document struct {
	tab *Tab
}

func (t *Tab) Document() *Document {
	return &Document{tab: t}
}

func (d *Document) QueryAll(selector string) ([]presenter.Element, error) {
	els, err := d.tab.page.Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", selector, err)
	}
	out := make([]presenter.Element, 0, len(els))
	for _, el := range els {
		out = append(out, &element{el: el})
	}
	return out, nil
}

func (d *Document) Append(id, className, text string) (presenter.Element, error) {
	el, err := d.tab.page.ElementByJS(rod.Eval(`(id, cls, txt) => {
		const n = document.createElement("div");
		n.id = id;
		n.className = cls;
		n.textContent = txt;
		document.body.appendChild(n);
		return n;
	}`, id, className, text))
	if err != nil {
		return nil, fmt.Errorf("append %s: %w", id, err)
	}
	return &element{el: el}, nil
}

type element struct {
	el *rod.Element
}

func (e *element) SetText(text string) error {
	_, err := e.el.Eval(`(t) => { this.textContent = t }`, text)
	return err
}

func (e *element) AddClass(class string) error {
	_, err := e.el.Eval(`(c) => { this.classList.add(c) }`, class)
	return err
}

func (e *element) RemoveClass(class string) error {
	_, err := e.el.Eval(`(c) => { this.classList.remove(c) }`, class)
	return err
}

func (e *element) Remove() error {
	_, err := e.el.Eval(`() => { if (this.parentNode) this.parentNode.removeChild(this) }`)
	return err
}
