package presenter

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

type fakePage struct {
	mu       sync.Mutex
	path     string
	elements []*fakeElement
	queryErr error
}

type fakeElement struct {
	page     *fakePage
	id       string
	text     string
	classes  []string
	attached bool
}

func newFakePage(path string, badgeIDs ...string) *fakePage {
	p := &fakePage{path: path}
	for _, id := range badgeIDs {
		p.elements = append(p.elements, &fakeElement{page: p, id: id, classes: []string{"hidden"}, attached: true})
	}
	return p
}

func (p *fakePage) Path() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.path
}

func (p *fakePage) QueryAll(selector string) ([]Element, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.queryErr != nil {
		return nil, p.queryErr
	}
	id := strings.TrimPrefix(selector, "#")
	var out []Element
	for _, el := range p.elements {
		if el.attached && el.id == id {
			out = append(out, el)
		}
	}
	return out, nil
}

func (p *fakePage) Append(id, className, text string) (Element, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	el := &fakeElement{page: p, id: id, text: text, classes: strings.Fields(className), attached: true}
	p.elements = append(p.elements, el)
	return el, nil
}

// overlays returns attached elements that are not badges.
func (p *fakePage) overlays() []*fakeElement {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []*fakeElement
	for _, el := range p.elements {
		if el.attached && strings.HasPrefix(el.id, "cart-notification-") {
			out = append(out, el)
		}
	}
	return out
}

func (e *fakeElement) SetText(text string) error {
	e.page.mu.Lock()
	defer e.page.mu.Unlock()
	e.text = text
	return nil
}

func (e *fakeElement) AddClass(class string) error {
	e.page.mu.Lock()
	defer e.page.mu.Unlock()
	for _, c := range e.classes {
		if c == class {
			return nil
		}
	}
	e.classes = append(e.classes, class)
	return nil
}

func (e *fakeElement) RemoveClass(class string) error {
	e.page.mu.Lock()
	defer e.page.mu.Unlock()
	kept := e.classes[:0]
	for _, c := range e.classes {
		if c != class {
			kept = append(kept, c)
		}
	}
	e.classes = kept
	return nil
}

func (e *fakeElement) Remove() error {
	e.page.mu.Lock()
	defer e.page.mu.Unlock()
	if !e.attached {
		return errors.New("element already detached")
	}
	e.attached = false
	return nil
}

func (e *fakeElement) hasClass(class string) bool {
	e.page.mu.Lock()
	defer e.page.mu.Unlock()
	for _, c := range e.classes {
		if c == class {
			return true
		}
	}
	return false
}

func (e *fakeElement) Text() string {
	e.page.mu.Lock()
	defer e.page.mu.Unlock()
	return e.text
}

// manualClock is a Scheduler that only runs work when advanced.
type manualClock struct {
	now   time.Duration
	tasks []task
}

type task struct {
	at time.Duration
	f  func()
}

func (c *manualClock) schedule(d time.Duration, f func()) {
	c.tasks = append(c.tasks, task{at: c.now + d, f: f})
}

func (c *manualClock) advance(d time.Duration) {
	target := c.now + d
	for {
		sort.SliceStable(c.tasks, func(i, j int) bool { return c.tasks[i].at < c.tasks[j].at })
		if len(c.tasks) == 0 || c.tasks[0].at > target {
			break
		}
		next := c.tasks[0]
		c.tasks = c.tasks[1:]
		c.now = next.at
		next.f()
	}
	c.now = target
}

type nopLog struct{}

func (nopLog) Debug(string, ...zap.Field) {}
func (nopLog) Warn(string, ...zap.Field)  {}
