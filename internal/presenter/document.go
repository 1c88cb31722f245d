// Package presenter keeps on-page cart indicators in step with the cart.
//
// It talks to the page only through Document and Location, so the same
// adapters drive a real browser tab or an in-memory page in tests.
package presenter

import "go.uber.org/zap"

// Element is a handle on one page element.
type Element interface {
	SetText(text string) error
	AddClass(class string) error
	RemoveClass(class string) error
	// Remove detaches the element if it is still attached.
	Remove() error
}

// Document is the page the indicators render into.
type Document interface {
	QueryAll(selector string) ([]Element, error)
	// Append adds a div with the given id, classes and text to the page body.
	Append(id, className, text string) (Element, error)
}

// Location reports the path of the page currently shown.
type Location interface {
	Path() string
}

type Log interface {
	Debug(string, ...zap.Field)
	Warn(string, ...zap.Field)
}
