package mock

import (
	"context"

	"github.com/fwojciec/doclocate"
)

var _ doclocate.Locator = (*Locator)(nil)

// Locator is a mock implementation of doclocate.Locator.
type Locator struct {
	LocateFn func(ctx context.Context) (*doclocate.Result, error)
}

func (l *Locator) Locate(ctx context.Context) (*doclocate.Result, error) {
	return l.LocateFn(ctx)
}
