package http

import (
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipment"
)

// Amounts are integer minor units.

type OrderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CreateOrderRequest struct {
	Items                []OrderItemRequest `json:"items"`
	OriginAddressID      *string            `json:"origin_address_id,omitempty"`
	DestinationAddressID string             `json:"destination_address_id"`
	DeliveryFees         map[string]int64   `json:"delivery_fees"`
	PaymentMethod        string             `json:"payment_method"`
}

type UpdateSubOrderStatusRequest struct {
	Status string `json:"status"`
}

type CreateShipmentRequest struct {
	DriverID        *string `json:"driver_id,omitempty"`
	OriginAddressID *string `json:"origin_address_id,omitempty"`
	Priority        string  `json:"priority,omitempty"`
	Notes           string  `json:"notes,omitempty"`
}

type UpdateShipmentRequest struct {
	Status   *string `json:"status,omitempty"`
	DriverID *string `json:"driver_id,omitempty"`
	Notes    *string `json:"notes,omitempty"`
	Priority *string `json:"priority,omitempty"`
}

type AssignDriverRequest struct {
	DriverID string `json:"driver_id"`
}

type TrackingPointRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type SetStockRequest struct {
	Level int `json:"level"`
}

type LineItemResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

type SubOrderResponse struct {
	ID          string             `json:"id"`
	VendorID    string             `json:"vendor_id"`
	Status      string             `json:"status"`
	DeliveryFee int64              `json:"delivery_fee"`
	Subtotal    int64              `json:"subtotal"`
	ShipmentID  *string            `json:"shipment_id,omitempty"`
	Items       []LineItemResponse `json:"items"`
}

type OrderResponse struct {
	ID                   string             `json:"id"`
	CustomerID           string             `json:"customer_id"`
	OriginAddressID      *string            `json:"origin_address_id,omitempty"`
	DestinationAddressID string             `json:"destination_address_id"`
	Status               string             `json:"status"`
	Total                int64              `json:"total"`
	SubOrders            []SubOrderResponse `json:"sub_orders"`
	CreatedAt            time.Time          `json:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at"`
}

type ShipmentResponse struct {
	ID              string    `json:"id"`
	OrderID         string    `json:"order_id"`
	SubOrderID      string    `json:"sub_order_id"`
	VendorID        string    `json:"vendor_id"`
	OriginAddressID string    `json:"origin_address_id"`
	DriverID        *string   `json:"driver_id,omitempty"`
	Status          string    `json:"status"`
	Priority        string    `json:"priority"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type TrackingPointResponse struct {
	ID         string    `json:"id"`
	ShipmentID string    `json:"shipment_id"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	RecordedAt time.Time `json:"recorded_at"`
}

type StockResponse struct {
	ProductID string `json:"product_id"`
	Level     int    `json:"level"`
	Reserved  int    `json:"reserved"`
	Available int    `json:"available"`
}

type HistoryEntryResponse struct {
	Entity     string    `json:"entity"`
	EntityID   string    `json:"entity_id"`
	FromStatus string    `json:"from_status,omitempty"`
	ToStatus   string    `json:"to_status"`
	ActorID    string    `json:"actor_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func optionalString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func toOrderResponse(o *order.Order) OrderResponse {
	subOrders := o.SubOrders()
	resp := OrderResponse{
		ID:                   o.ID().String(),
		CustomerID:           o.CustomerID().String(),
		OriginAddressID:      optionalString(o.OriginID()),
		DestinationAddressID: o.DestinationID().String(),
		Status:               o.Status().String(),
		Total:                o.Total().Int64(),
		SubOrders:            make([]SubOrderResponse, 0, len(subOrders)),
		CreatedAt:            o.CreatedAt(),
		UpdatedAt:            o.UpdatedAt(),
	}

	for _, so := range subOrders {
		items := make([]LineItemResponse, 0, len(so.Items()))
		for _, li := range so.Items() {
			items = append(items, LineItemResponse{
				ProductID: li.ProductID().String(),
				Quantity:  li.Quantity(),
				UnitPrice: li.UnitPrice().Int64(),
			})
		}
		resp.SubOrders = append(resp.SubOrders, SubOrderResponse{
			ID:          so.ID().String(),
			VendorID:    so.VendorID().String(),
			Status:      so.Status().String(),
			DeliveryFee: so.DeliveryFee().Int64(),
			Subtotal:    so.Subtotal().Int64(),
			ShipmentID:  optionalString(so.ShipmentID()),
			Items:       items,
		})
	}
	return resp
}

func toShipmentResponse(s *shipment.Shipment) ShipmentResponse {
	return ShipmentResponse{
		ID:              s.ID().String(),
		OrderID:         s.OrderID().String(),
		SubOrderID:      s.SubOrderID().String(),
		VendorID:        s.VendorID().String(),
		OriginAddressID: s.OriginAddressID().String(),
		DriverID:        optionalString(s.DriverID()),
		Status:          s.Status().String(),
		Priority:        s.Priority().String(),
		Notes:           s.Notes(),
		CreatedAt:       s.CreatedAt(),
		UpdatedAt:       s.UpdatedAt(),
	}
}

func toTrackingPointResponse(p shipment.TrackingPoint) TrackingPointResponse {
	return TrackingPointResponse{
		ID:         p.ID.String(),
		ShipmentID: p.ShipmentID.String(),
		Lat:        p.Point.Lat(),
		Lng:        p.Point.Lng(),
		RecordedAt: p.RecordedAt,
	}
}

func toStockResponse(r inventory.Record) StockResponse {
	return StockResponse{
		ProductID: r.ProductID.String(),
		Level:     r.Level,
		Reserved:  r.Reserved,
		Available: r.Available,
	}
}

func toHistoryResponse(entries []queries.GetOrderHistoryQueryResponse) []HistoryEntryResponse {
	resp := make([]HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, HistoryEntryResponse{
			Entity:     e.Entity,
			EntityID:   e.EntityID.String(),
			FromStatus: e.FromStatus,
			ToStatus:   e.ToStatus,
			ActorID:    e.ActorID.String(),
			CreatedAt:  e.CreatedAt,
		})
	}
	return resp
}
