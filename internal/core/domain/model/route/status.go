package route

import (
	"fmt"
	"strings"

	"delivery/internal/pkg/errs"
)

// Status is the delivery lifecycle of a route.
//
//	Assigned ──> Cooking ──> Delivery ──> Done
//
// Done is terminal. Administrative overrides may jump between any two
// non-terminal states.
type Status int

const (
	Unknown Status = iota
	Assigned
	Cooking
	Delivery
	Done
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:  "unknown",
		Assigned: "assigned",
		Cooking:  "cooking",
		Delivery: "delivery",
		Done:     "done",
	}
}

// ParseStatus accepts the lower-case wire names, case-insensitively.
func ParseStatus(s string) (Status, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for status, name := range getStatusStrings() {
		if status != Unknown && name == needle {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if s < Assigned || s > Done {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

func (s Status) IsTerminal() bool {
	return s == Done
}

// Next returns the only status a courier may move to, or false for Done.
func (s Status) Next() (Status, bool) {
	switch s {
	case Assigned:
		return Cooking, true
	case Cooking:
		return Delivery, true
	case Delivery:
		return Done, true
	default:
		return Unknown, false
	}
}

// ValidateAdvance accepts the current status (a no-op) or exactly the next one.
// Nothing advances out of a terminal status, not even a repeat.
func (s Status) ValidateAdvance(target Status) error {
	if err := target.Validate(); err != nil {
		return err
	}
	if s.IsTerminal() {
		return &InvalidTransitionError{From: s, To: target}
	}
	if target == s {
		return nil
	}
	if next, ok := s.Next(); ok && next == target {
		return nil
	}
	return &InvalidTransitionError{From: s, To: target}
}
