package shipment

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Priority orders shipments for dispatch. The zero value is invalid; use Normal as default.
type Priority int

const (
	UnknownPriority Priority = iota
	Low
	Normal
	High
)

var priorityNames = map[Priority]string{
	Low:    "low",
	Normal: "normal",
	High:   "high",
}

// ParsePriority accepts "low", "normal" or "high". An empty string yields Normal.
func ParsePriority(s string) (Priority, error) {
	if s == "" {
		return Normal, nil
	}
	for p, name := range priorityNames {
		if name == s {
			return p, nil
		}
	}
	return UnknownPriority, errs.NewValueIsInvalidErrorWithCause("priority", fmt.Errorf("%q is not a valid priority", s))
}

func (p Priority) Validate() error {
	if _, ok := priorityNames[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("priority", fmt.Errorf("%d is not a valid priority", p))
	}
	return nil
}

func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return "unknown"
}
