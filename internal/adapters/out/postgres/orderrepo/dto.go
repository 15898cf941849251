// Package orderrepo persists the order aggregate: the order row, one row per sub-order and
// one row per line item. It handles the conversion between the domain aggregate and its
// database representation.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the orders table.
type OrderDTO struct {
	ID                   uuid.UUID     `gorm:"type:uuid;primaryKey"`
	CustomerID           uuid.UUID     `gorm:"type:uuid;not null;index"`
	OriginAddressID      *uuid.UUID    `gorm:"type:uuid"`
	DestinationAddressID uuid.UUID     `gorm:"type:uuid;not null"`
	Status               string        `gorm:"type:varchar(32);not null;index"`
	SubOrders            []SubOrderDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:RESTRICT"`
	CreatedAt            time.Time     `gorm:"not null;autoCreateTime:false"`
	UpdatedAt            time.Time     `gorm:"not null;autoUpdateTime:false"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// SubOrderDTO is the sub_orders table. Position keeps the creation order within the order.
type SubOrderDTO struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:ux_sub_orders_order_vendor"`
	VendorID    uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:ux_sub_orders_order_vendor;index"`
	Position    int           `gorm:"not null"`
	DeliveryFee int64         `gorm:"not null;check:chk_sub_orders_delivery_fee,delivery_fee >= 0"`
	Status      string        `gorm:"type:varchar(32);not null"`
	ShipmentID  *uuid.UUID    `gorm:"type:uuid"`
	LineItems   []LineItemDTO `gorm:"foreignKey:SubOrderID;constraint:OnDelete:RESTRICT"`
}

func (SubOrderDTO) TableName() string {
	return "sub_orders"
}

// LineItemDTO is the line_items table. Rows are written once and never updated.
type LineItemDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	SubOrderID uuid.UUID `gorm:"type:uuid;not null;index"`
	Position   int       `gorm:"not null"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity   int       `gorm:"not null;check:chk_line_items_quantity,quantity > 0"`
	UnitPrice  int64     `gorm:"not null;check:chk_line_items_unit_price,unit_price >= 0"`
}

func (LineItemDTO) TableName() string {
	return "line_items"
}

func fromDomain(o *order.Order) OrderDTO {
	var originID *uuid.UUID
	if id := o.OriginID(); id != nil {
		raw := id.Bytes()
		originID = &raw
	}

	subOrders := make([]SubOrderDTO, 0, len(o.SubOrders()))
	for i, so := range o.SubOrders() {
		subOrders = append(subOrders, subOrderFromDomain(so, i))
	}

	return OrderDTO{
		ID:                   o.ID().Bytes(),
		CustomerID:           o.CustomerID().Bytes(),
		OriginAddressID:      originID,
		DestinationAddressID: o.DestinationID().Bytes(),
		Status:               o.Status().String(),
		SubOrders:            subOrders,
		CreatedAt:            o.CreatedAt(),
		UpdatedAt:            o.UpdatedAt(),
	}
}

func subOrderFromDomain(so *order.SubOrder, position int) SubOrderDTO {
	var shipmentID *uuid.UUID
	if id := so.ShipmentID(); id != nil {
		raw := id.Bytes()
		shipmentID = &raw
	}

	items := make([]LineItemDTO, 0, len(so.Items()))
	for i, li := range so.Items() {
		items = append(items, LineItemDTO{
			ID:         li.ID().Bytes(),
			SubOrderID: so.ID().Bytes(),
			Position:   i,
			ProductID:  li.ProductID().Bytes(),
			Quantity:   li.Quantity(),
			UnitPrice:  li.UnitPrice().Int64(),
		})
	}

	return SubOrderDTO{
		ID:          so.ID().Bytes(),
		OrderID:     so.OrderID().Bytes(),
		VendorID:    so.VendorID().Bytes(),
		Position:    position,
		DeliveryFee: so.DeliveryFee().Int64(),
		Status:      so.Status().String(),
		ShipmentID:  shipmentID,
		LineItems:   items,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	destinationID, err := kernel.UUIDFromBytes(dto.DestinationAddressID[:])
	if err != nil {
		return nil, err
	}
	originID, err := optionalUUID(dto.OriginAddressID)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	subOrders := make([]*order.SubOrder, 0, len(dto.SubOrders))
	for _, soDTO := range dto.SubOrders {
		so, soErr := subOrderToDomain(soDTO)
		if soErr != nil {
			return nil, soErr
		}
		subOrders = append(subOrders, so)
	}

	return order.RestoreOrder(id, customerID, originID, destinationID, status, subOrders, dto.CreatedAt, dto.UpdatedAt)
}

func subOrderToDomain(dto SubOrderDTO) (*order.SubOrder, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	vendorID, err := kernel.UUIDFromBytes(dto.VendorID[:])
	if err != nil {
		return nil, err
	}
	shipmentID, err := optionalUUID(dto.ShipmentID)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	items := make([]*order.LineItem, 0, len(dto.LineItems))
	for _, liDTO := range dto.LineItems {
		liID, idErr := kernel.UUIDFromBytes(liDTO.ID[:])
		if idErr != nil {
			return nil, idErr
		}
		productID, idErr := kernel.UUIDFromBytes(liDTO.ProductID[:])
		if idErr != nil {
			return nil, idErr
		}
		li, liErr := order.RestoreLineItem(liID, productID, liDTO.Quantity, kernel.Money(liDTO.UnitPrice))
		if liErr != nil {
			return nil, liErr
		}
		items = append(items, li)
	}

	return order.RestoreSubOrder(id, orderID, vendorID, kernel.Money(dto.DeliveryFee), items, status, shipmentID)
}

func optionalUUID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
