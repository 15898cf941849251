package services

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipment"
)

// StatusCascade applies a sub-order status change and propagates it to the order.
//
// Rules:
//   - the sub-order moves first, following the order.Status diagram
//   - a sub-order entering InProgress moves a Pending order to InProgress
//   - a sub-order entering a terminal status settles the order once no sibling is
//     Pending or InProgress; the final status comes from the CascadePolicy
//
// The cascade only mutates the in-memory aggregate. Callers persist the order in the same
// unit of work as the triggering write, with the order row locked, so that two cascades on
// one order serialize.
//
// Example:
//
//	cascade := services.NewStatusCascade(services.MirrorPolicy{})
//	transitions, err := cascade.Apply(o, subOrderID, order.Delivered)
//	if err != nil {
//	    return err
//	}
//	// persist o, then record transitions
type StatusCascade struct {
	policy CascadePolicy
}

// NewStatusCascade creates a cascade. A nil policy falls back to MirrorPolicy.
func NewStatusCascade(policy CascadePolicy) StatusCascade {
	if policy == nil {
		policy = MirrorPolicy{}
	}
	return StatusCascade{policy: policy}
}

// Policy returns the configured policy.
func (c StatusCascade) Policy() CascadePolicy {
	return c.policy
}

// Apply moves one sub-order to outcome and derives the order status.
//
// Returns the sub-order transition, followed by the order transition when the order changed.
func (c StatusCascade) Apply(o *order.Order, subOrderID kernel.UUID, outcome order.Status) ([]order.Transition, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	t, err := o.ChangeSubOrderStatus(subOrderID, outcome)
	if err != nil {
		return nil, err
	}
	transitions := []order.Transition{t}

	target, ok := c.target(o, subOrderID, outcome)
	if !ok {
		return transitions, nil
	}

	settled, changed, err := o.Settle(target)
	if err != nil {
		return nil, err
	}
	if changed {
		transitions = append(transitions, settled)
	}
	return transitions, nil
}

func (c StatusCascade) target(o *order.Order, subOrderID kernel.UUID, outcome order.Status) (order.Status, bool) {
	if o.Status().IsTerminal() {
		return order.Unknown, false
	}

	if outcome == order.InProgress {
		return order.InProgress, o.Status() == order.Pending
	}

	if !outcome.IsTerminal() || o.OpenSubOrders() > 0 {
		return order.Unknown, false
	}

	trigger, err := o.SubOrder(subOrderID)
	if err != nil {
		return order.Unknown, false
	}
	return c.policy.Settle(o, trigger), true
}

// SubOrderOutcome maps a terminal shipment status onto the sub-order status it implies:
// Delivered to Delivered and Failed to Cancelled. Other statuses imply nothing.
func SubOrderOutcome(s shipment.Status) (order.Status, bool) {
	switch s {
	case shipment.Delivered:
		return order.Delivered, true
	case shipment.Failed:
		return order.Cancelled, true
	default:
		return order.Unknown, false
	}
}
