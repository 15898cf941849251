package shipment

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status is the lifecycle state of a shipment.
//
//	Pending ──> InProgress ──┬──> Delivered
//	                         └──> Failed
//
// Leaving Pending requires a driver. Delivered and Failed are terminal.
type Status int

const (
	Unknown Status = iota
	Pending
	InProgress
	Delivered
	Failed
)

var statusNames = map[Status]string{
	Pending:    "pending",
	InProgress: "in_progress",
	Delivered:  "delivered",
	Failed:     "failed",
}

// ParseStatus converts the wire or persisted form into a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("shipment status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("shipment status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsTerminal reports Delivered or Failed.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Failed
}
