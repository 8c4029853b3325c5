package closer

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/fx"
)

// Closers collects client shutdown funcs so they run together on stop.
type Closers struct {
	mu      sync.Mutex
	closers []namedCloser
}

type namedCloser struct {
	name string
	fn   func() error
}

func (c *Closers) Register(name string, fn func() error) {
	if c == nil || fn == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closers = append(c.closers, namedCloser{name: name, fn: fn})
}

// Close runs every registered closer in reverse order and joins failures.
func (c *Closers) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	closers := c.closers
	c.closers = nil
	c.mu.Unlock()

	var result *multierror.Error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].fn(); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", closers[i].name, err))
		}
	}
	return result.ErrorOrNil()
}

func NewClosers(lc fx.Lifecycle) *Closers {
	c := &Closers{}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return c.Close()
		},
	})
	return c
}
