package browser

import (
	"context"
	"fmt"

	"github.com/drstein77/cartfolio/internal/storage"
)

var _ storage.Slot = (*LocalStorage)(nil)

// LocalStorage is a slot over the tab's window.localStorage.
type LocalStorage struct {
	tab *Tab
}

func (t *Tab) LocalStorage() *LocalStorage {
	return &LocalStorage{tab: t}
}

func (s *LocalStorage) Get(ctx context.Context, key string) (string, bool, error) {
	res, err := s.tab.page.Context(ctx).Eval(`(k) => localStorage.getItem(k)`, key)
	if err != nil {
		return "", false, fmt.Errorf("localStorage.getItem: %w", err)
	}
	if res == nil || res.Value.Nil() {
		return "", false, nil
	}
	return res.Value.Str(), true, nil
}

// Set surfaces page exceptions such as QuotaExceededError as errors.
func (s *LocalStorage) Set(ctx context.Context, key, value string) error {
	if _, err := s.tab.page.Context(ctx).Eval(`(k, v) => { localStorage.setItem(k, v) }`, key, value); err != nil {
		return fmt.Errorf("localStorage.setItem: %w", err)
	}
	return nil
}
