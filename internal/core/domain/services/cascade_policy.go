package services

import (
	"fmt"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

const (
	MirrorPolicyName = "mirror"
	StrictPolicyName = "strict"
)

// CascadePolicy decides the final status of an order whose sub-orders are all terminal.
type CascadePolicy interface {
	// Settle returns the order status given the sub-order that just became terminal.
	Settle(o *order.Order, trigger *order.SubOrder) order.Status
	Name() string
}

// MirrorPolicy copies the status of the sub-order that settled last onto the order.
// An order with delivered sub-orders ends Cancelled when the last sub-order to settle
// is cancelled.
type MirrorPolicy struct{}

func (MirrorPolicy) Settle(_ *order.Order, trigger *order.SubOrder) order.Status {
	return trigger.Status()
}

func (MirrorPolicy) Name() string {
	return MirrorPolicyName
}

// StrictPolicy looks at every sub-order: all delivered is Delivered, all cancelled is
// Cancelled, any mix is PartiallyFulfilled.
type StrictPolicy struct{}

func (StrictPolicy) Settle(o *order.Order, _ *order.SubOrder) order.Status {
	delivered, cancelled := 0, 0
	for _, so := range o.SubOrders() {
		switch so.Status() {
		case order.Delivered:
			delivered++
		case order.Cancelled:
			cancelled++
		}
	}

	switch {
	case cancelled == 0:
		return order.Delivered
	case delivered == 0:
		return order.Cancelled
	default:
		return order.PartiallyFulfilled
	}
}

func (StrictPolicy) Name() string {
	return StrictPolicyName
}

// ParseCascadePolicy maps a configuration value onto a policy. An empty name selects MirrorPolicy.
func ParseCascadePolicy(name string) (CascadePolicy, error) {
	switch name {
	case "", MirrorPolicyName:
		return MirrorPolicy{}, nil
	case StrictPolicyName:
		return StrictPolicy{}, nil
	default:
		return nil, errs.NewValueIsInvalidErrorWithCause("cascade policy", fmt.Errorf("%q is not mirror or strict", name))
	}
}
