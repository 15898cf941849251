package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/identity"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// OrderItem is one requested product and quantity.
type OrderItem struct {
	ProductID kernel.UUID
	Quantity  int
}

// CreateOrderCommand places a customer order at checkout.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(
//	    principal,
//	    []OrderItem{{ProductID: mugID, Quantity: 2}},
//	    nil,
//	    homeAddressID,
//	    map[kernel.UUID]kernel.Money{potteryVendorID: 499},
//	    payment.Card,
//	)
//	if err != nil {
//	    return err
//	}
//	o, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	principal     identity.Principal
	items         []OrderItem
	originID      *kernel.UUID
	destinationID kernel.UUID
	deliveryFees  map[kernel.UUID]kernel.Money
	paymentMethod payment.Method

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the checkout input.
//
// Rules:
//   - items must not be empty, quantities must be positive, products must not repeat
//   - delivery fees are keyed by vendor id and must not be negative
//   - the payment method must be supported
func NewCreateOrderCommand(
	principal identity.Principal,
	items []OrderItem,
	originID *kernel.UUID,
	destinationID kernel.UUID,
	deliveryFees map[kernel.UUID]kernel.Money,
	paymentMethod payment.Method,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		principal:     principal,
		originID:      originID,
		paymentMethod: paymentMethod,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		principal.Validate(),
		cmd.setItems(items),
		cmd.setDestinationID(destinationID),
		cmd.setDeliveryFees(deliveryFees),
		paymentMethod.Validate(),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) Principal() identity.Principal {
	return c.principal
}

func (c CreateOrderCommand) Items() []OrderItem {
	return c.items
}

func (c CreateOrderCommand) OriginID() *kernel.UUID {
	return c.originID
}

func (c CreateOrderCommand) DestinationID() kernel.UUID {
	return c.destinationID
}

// DeliveryFee returns the fee for a vendor, zero when none was quoted.
func (c CreateOrderCommand) DeliveryFee(vendorID kernel.UUID) kernel.Money {
	return c.deliveryFees[vendorID]
}

func (c CreateOrderCommand) DeliveryFees() map[kernel.UUID]kernel.Money {
	return c.deliveryFees
}

func (c CreateOrderCommand) PaymentMethod() payment.Method {
	return c.paymentMethod
}

func (c *CreateOrderCommand) setItems(items []OrderItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	seen := make(map[kernel.UUID]struct{}, len(items))
	for i, item := range items {
		if err := item.ProductID.Validate(); err != nil {
			return errs.NewValueIsRequiredErrorWithCause(fmt.Sprintf("items[%d].product_id", i), err)
		}
		if item.Quantity <= 0 {
			return errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("items[%d].quantity", i),
				fmt.Errorf("%d is not greater than 0", item.Quantity),
			)
		}
		if _, dup := seen[item.ProductID]; dup {
			return errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("items[%d].product_id", i),
				fmt.Errorf("product %s is listed twice", item.ProductID),
			)
		}
		seen[item.ProductID] = struct{}{}
	}

	c.items = append([]OrderItem(nil), items...)
	return nil
}

func (c *CreateOrderCommand) setDestinationID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("destination_address_id", err)
	}
	c.destinationID = id
	return nil
}

func (c *CreateOrderCommand) setDeliveryFees(fees map[kernel.UUID]kernel.Money) error {
	c.deliveryFees = make(map[kernel.UUID]kernel.Money, len(fees))
	for vendorID, fee := range fees {
		if err := fee.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("delivery_fee", fmt.Errorf("vendor %s: %w", vendorID, err))
		}
		c.deliveryFees[vendorID] = fee
	}
	return nil
}
