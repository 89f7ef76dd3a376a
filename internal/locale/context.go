// Package locale holds the active UI locale, its text direction and the
// string table that goes with it.
package locale

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/menna-app/menna-go/internal/domain"
	"github.com/menna-app/menna-go/pkg/errors"
)

// ErrNoLocaleContext is returned when a consumer reads the locale from a
// context.Context that never had one installed.
var ErrNoLocaleContext = stderrors.New("locale context not found")

// State is an immutable snapshot of the locale context.
type State struct {
	Locale    domain.Locale
	Direction domain.Direction
	Strings   *Strings
}

// Listener is notified synchronously after the active locale changes.
type Listener func(State)

// Context is the single-writer, multi-reader locale state. The zero value is
// not usable; construct with New or NewWithTables.
type Context struct {
	mu        sync.RWMutex
	tables    Tables
	state     State
	listeners []Listener
}

// New loads the embedded string tables and starts in initial.
func New(initial domain.Locale) (*Context, error) {
	tables, err := LoadTables()
	if err != nil {
		return nil, err
	}
	return NewWithTables(initial, tables)
}

// NewWithTables starts in initial using the supplied tables, which must cover
// every supported locale.
func NewWithTables(initial domain.Locale, tables Tables) (*Context, error) {
	if err := tables.Validate(); err != nil {
		return nil, err
	}
	if !initial.IsValid() {
		return nil, errors.NewValidationError(fmt.Sprintf("unsupported locale %q", initial), "locale", initial.String())
	}

	c := &Context{tables: tables}
	c.state = c.stateFor(initial)
	return c, nil
}

func (c *Context) stateFor(l domain.Locale) State {
	return State{
		Locale:    l,
		Direction: l.Direction(),
		Strings:   c.tables[l],
	}
}

func (c *Context) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Context) Locale() domain.Locale {
	return c.Snapshot().Locale
}

func (c *Context) Direction() domain.Direction {
	return c.Snapshot().Direction
}

func (c *Context) Strings() *Strings {
	return c.Snapshot().Strings
}

// IsRTL reports whether the active locale is written right to left.
func (c *Context) IsRTL() bool {
	return c.Direction() == domain.DirectionRTL
}

// Set switches the active locale. Direction and strings are recomputed before
// Set returns; listeners run after the lock is released. Setting the current
// locale again does not notify.
func (c *Context) Set(l domain.Locale) error {
	if !l.IsValid() {
		return errors.NewValidationError(fmt.Sprintf("unsupported locale %q", l), "locale", l.String())
	}

	c.mu.Lock()
	if c.state.Locale == l {
		c.mu.Unlock()
		return nil
	}
	c.state = c.stateFor(l)
	next := c.state
	listeners := append([]Listener(nil), c.listeners...)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
	return nil
}

// SetCode parses code (e.g. "he", "EN", "he-IL") and switches to it.
func (c *Context) SetCode(code string) (domain.Locale, error) {
	l, ok := domain.ParseLocale(code)
	if !ok {
		return "", errors.NewValidationError(fmt.Sprintf("unsupported locale %q", code), "locale", code)
	}
	return l, c.Set(l)
}

// OnChange registers fn to be called after every locale switch.
func (c *Context) OnChange(fn Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

type contextKey struct{}

// WithContext installs lc into ctx.
func WithContext(ctx context.Context, lc *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, lc)
}

// FromContext returns the installed locale context. There is no default: a
// missing context is a wiring error and is reported as ErrNoLocaleContext.
func FromContext(ctx context.Context) (*Context, error) {
	lc, ok := ctx.Value(contextKey{}).(*Context)
	if !ok || lc == nil {
		return nil, ErrNoLocaleContext
	}
	return lc, nil
}
