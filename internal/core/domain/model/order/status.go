package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status is the lifecycle state shared by orders and sub-orders.
//
// State transitions:
//
//	Pending ──> InProgress ──> Delivered
//	   │            │
//	   └────────────┴──> Cancelled
//
// Delivered, Cancelled and PartiallyFulfilled are terminal. PartiallyFulfilled is only ever
// assigned to an order, by the strict cascade policy.
type Status int

const (
	// Unknown is the zero value and never valid.
	Unknown Status = iota

	// Pending is the initial status at checkout.
	Pending

	// InProgress means payment was confirmed or a vendor began fulfillment.
	InProgress

	// Delivered is terminal.
	Delivered

	// Cancelled is terminal.
	Cancelled

	// PartiallyFulfilled is terminal: some sub-orders delivered, others cancelled.
	PartiallyFulfilled
)

var statusNames = map[Status]string{
	Pending:            "pending",
	InProgress:         "in_progress",
	Delivered:          "delivered",
	Cancelled:          "cancelled",
	PartiallyFulfilled: "partially_fulfilled",
}

// allowedTransitions lists the moves a caller may request explicitly.
// Settle is the only way into PartiallyFulfilled.
var allowedTransitions = map[Status][]Status{
	Pending:    {InProgress, Cancelled},
	InProgress: {Delivered, Cancelled},
}

// ParseStatus converts the persisted or wire representation into a Status.
//
// Example:
//
//	s, err := order.ParseStatus("in_progress") // InProgress, nil
//	_, err = order.ParseStatus("shipped")       // ValueIsInvalidError
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate returns an error for Unknown and any out-of-range value.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String implements fmt.Stringer. Invalid values render as "unknown".
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled || s == PartiallyFulfilled
}

// IsOpen reports whether the status still counts as unfinished work (Pending or InProgress).
func (s Status) IsOpen() bool {
	return s == Pending || s == InProgress
}

// TransitionTo validates a move from s to target and returns target on success.
//
// Rules:
//   - target must be a valid status
//   - moving a Cancelled entity to Cancelled again is an AlreadyExistsError
//   - any other move out of a terminal status is a ValueIsInvalidError
//   - the remaining moves follow the state diagram on Status
//
// Returns:
//   - (target, nil) when the move is legal
//   - (Unknown, error) otherwise
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return Unknown, err
	}

	if s == Cancelled && target == Cancelled {
		return Unknown, errs.NewAlreadyExistsError("status", s.String(), "already cancelled")
	}

	for _, next := range allowedTransitions[s] {
		if next == target {
			return target, nil
		}
	}

	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status",
		fmt.Errorf("transition from %s to %s is not allowed", s, target),
	)
}
