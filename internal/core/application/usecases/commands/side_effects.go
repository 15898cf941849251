package commands

import (
	"context"
	"fmt"
	"slices"

	"fulfillment/internal/core/domain/model/activity"
	"fulfillment/internal/core/domain/model/identity"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/ports"
)

// Entity names used in history and audit records.
const (
	entityOrder    = "order"
	entitySubOrder = "sub_order"
	entityShipment = "shipment"
	entityPayment  = "payment"
	entityProduct  = "product"
)

// statusChange is one status transition of any entity, ready to be recorded.
type statusChange struct {
	orderID   kernel.UUID
	entity    string
	entityID  kernel.UUID
	from      string
	to        string
	recipient kernel.UUID
}

// orderChanges turns aggregate transitions into changes addressed to the customer.
func orderChanges(o *order.Order, transitions []order.Transition) []statusChange {
	changes := make([]statusChange, 0, len(transitions))
	for _, t := range transitions {
		entity := entityOrder
		if t.Scope == order.ScopeSubOrder {
			entity = entitySubOrder
		}

		from := ""
		if !t.IsInitial() {
			from = t.From.String()
		}

		changes = append(changes, statusChange{
			orderID:   t.OrderID,
			entity:    entity,
			entityID:  t.EntityID,
			from:      from,
			to:        t.To.String(),
			recipient: o.CustomerID(),
		})
	}
	return changes
}

func shipmentChange(s *shipment.Shipment, from shipment.Status, recipient kernel.UUID) statusChange {
	f := ""
	if from != shipment.Unknown {
		f = from.String()
	}
	return statusChange{
		orderID:   s.OrderID(),
		entity:    entityShipment,
		entityID:  s.ID(),
		from:      f,
		to:        s.Status().String(),
		recipient: recipient,
	}
}

// sideEffects writes history, notification and audit records through the activity
// repository of the current unit of work. Nothing here is best-effort: a failed append
// fails the operation.
type sideEffects struct {
	repo      ports.ActivityRepository
	principal identity.Principal
}

func newSideEffects(repo ports.ActivityRepository, principal identity.Principal) sideEffects {
	return sideEffects{repo: repo, principal: principal}
}

// record writes one history row, one notification and one audit row per change.
func (e sideEffects) record(ctx context.Context, action string, changes ...statusChange) error {
	for _, c := range changes {
		entry := activity.NewHistoryEntry(c.orderID, c.entity, c.entityID, c.from, c.to, e.principal.ID())
		if err := e.repo.AppendHistory(ctx, entry); err != nil {
			return err
		}

		if err := e.notify(ctx, c.recipient, c.orderID, c.entity+"."+c.to, describe(c)); err != nil {
			return err
		}

		if err := e.audit(ctx, action, c.entity, c.entityID, map[string]any{
			"order_id": c.orderID.String(),
			"from":     c.from,
			"to":       c.to,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (e sideEffects) notify(ctx context.Context, recipient, orderID kernel.UUID, kind, message string) error {
	return e.repo.AppendNotification(ctx, activity.NewNotification(recipient, orderID, kind, message))
}

func (e sideEffects) audit(ctx context.Context, action, entity string, entityID kernel.UUID, details map[string]any) error {
	return e.repo.AppendAudit(ctx, activity.NewAuditEntry(
		e.principal.ID(), e.principal.Role().String(), action, entity, entityID, details,
	))
}

func describe(c statusChange) string {
	if c.from == "" {
		return fmt.Sprintf("%s %s was created as %s", c.entity, c.entityID, c.to)
	}
	return fmt.Sprintf("%s %s changed from %s to %s", c.entity, c.entityID, c.from, c.to)
}

// releaseCancelled returns the reserved stock of every sub-order that the transitions
// moved to Cancelled. Items are released in product id order, the same order used when
// reserving, so concurrent writers lock ledger rows consistently.
func releaseCancelled(ctx context.Context, ledger ports.InventoryLedger, o *order.Order, transitions []order.Transition) error {
	for _, t := range transitions {
		if t.Scope != order.ScopeSubOrder || t.To != order.Cancelled {
			continue
		}

		so, err := o.SubOrder(t.EntityID)
		if err != nil {
			return err
		}

		for _, li := range sortedByProduct(so.Items()) {
			if err := ledger.Release(ctx, li.ProductID(), li.Quantity()); err != nil {
				return err
			}
		}
	}
	return nil
}

// closeShipments settles the linked shipment of every sub-order the transitions closed
// without going through that shipment. The order row is already locked, so the shipment
// lock keeps the usual order. Returns the shipment changes to record.
func closeShipments(
	ctx context.Context,
	shipments ports.ShipmentRepository,
	o *order.Order,
	transitions []order.Transition,
) ([]statusChange, error) {
	var changes []statusChange
	for _, t := range transitions {
		if t.Scope != order.ScopeSubOrder || !t.To.IsTerminal() {
			continue
		}

		so, err := o.SubOrder(t.EntityID)
		if err != nil {
			return nil, err
		}
		if so.ShipmentID() == nil {
			continue
		}

		s, err := shipments.GetForUpdate(ctx, *so.ShipmentID())
		if err != nil {
			return nil, err
		}
		from, changed := s.Close(t.To == order.Delivered)
		if !changed {
			continue
		}
		if err = shipments.Update(ctx, s); err != nil {
			return nil, err
		}
		changes = append(changes, shipmentChange(s, from, o.CustomerID()))
	}
	return changes, nil
}

func sortedByProduct(items []*order.LineItem) []*order.LineItem {
	sorted := slices.Clone(items)
	slices.SortFunc(sorted, func(a, b *order.LineItem) int {
		return compareUUID(a.ProductID(), b.ProductID())
	})
	return sorted
}

func compareUUID(a, b kernel.UUID) int {
	x, y := a.Bytes(), b.Bytes()
	return slices.Compare(x[:], y[:])
}
