package route

import (
	"errors"
	"fmt"
)

var (
	ErrRouteIsNotConstructed = errors.New("Route must be created via NewRoute constructor")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrRouteIsCompleted      = errors.New("route is already completed")
)

// InvalidTransitionError names the rejected transition and the single status
// the route could move to instead.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	allowed := "none"
	if next, ok := e.From.Next(); ok {
		allowed = next.String()
	}
	return fmt.Sprintf("%s: %s -> %s, allowed next status: %s", ErrInvalidTransition, e.From, e.To, allowed)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}
