package shipmentrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"

	"github.com/google/uuid"
)

// ShipmentDTO is the shipments table. The partial unique index allows any number of failed
// shipments per sub-order but at most one that is still active or delivered.
type ShipmentDTO struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	SubOrderID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_shipments_active_sub_order,where:status <> 'failed'"`
	OrderID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	VendorID        uuid.UUID  `gorm:"type:uuid;not null"`
	OriginAddressID uuid.UUID  `gorm:"type:uuid;not null"`
	DriverID        *uuid.UUID `gorm:"type:uuid;index"`
	Status          string     `gorm:"type:varchar(32);not null"`
	Priority        string     `gorm:"type:varchar(16);not null"`
	Notes           string     `gorm:"type:text;not null;default:''"`
	CreatedAt       time.Time  `gorm:"not null;autoCreateTime:false"`
	UpdatedAt       time.Time  `gorm:"not null;autoUpdateTime:false"`
}

func (ShipmentDTO) TableName() string {
	return "shipments"
}

// TrackingPointDTO is the tracking_points table. Rows are append-only.
type TrackingPointDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShipmentID uuid.UUID `gorm:"type:uuid;not null;index"`
	Lat        float64   `gorm:"not null"`
	Lng        float64   `gorm:"not null"`
	RecordedBy uuid.UUID `gorm:"type:uuid;not null"`
	RecordedAt time.Time `gorm:"not null;autoCreateTime:false"`
}

func (TrackingPointDTO) TableName() string {
	return "tracking_points"
}

func fromDomain(s *shipment.Shipment) ShipmentDTO {
	var driverID *uuid.UUID
	if id := s.DriverID(); id != nil {
		raw := id.Bytes()
		driverID = &raw
	}

	return ShipmentDTO{
		ID:              s.ID().Bytes(),
		SubOrderID:      s.SubOrderID().Bytes(),
		OrderID:         s.OrderID().Bytes(),
		VendorID:        s.VendorID().Bytes(),
		OriginAddressID: s.OriginAddressID().Bytes(),
		DriverID:        driverID,
		Status:          s.Status().String(),
		Priority:        s.Priority().String(),
		Notes:           s.Notes(),
		CreatedAt:       s.CreatedAt(),
		UpdatedAt:       s.UpdatedAt(),
	}
}

func toDomain(dto ShipmentDTO) (*shipment.Shipment, error) {
	ids := make([]kernel.UUID, 0, 5)
	for _, raw := range []uuid.UUID{dto.ID, dto.SubOrderID, dto.OrderID, dto.VendorID, dto.OriginAddressID} {
		id, err := kernel.UUIDFromBytes(raw[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		id, err := kernel.UUIDFromBytes(dto.DriverID[:])
		if err != nil {
			return nil, err
		}
		driverID = &id
	}

	status, err := shipment.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	priority, err := shipment.ParsePriority(dto.Priority)
	if err != nil {
		return nil, err
	}

	return shipment.RestoreShipment(ids[0], ids[1], ids[2], ids[3], ids[4],
		driverID, status, priority, dto.Notes, dto.CreatedAt, dto.UpdatedAt)
}

func trackingPointFromDomain(p shipment.TrackingPoint) TrackingPointDTO {
	return TrackingPointDTO{
		ID:         p.ID.Bytes(),
		ShipmentID: p.ShipmentID.Bytes(),
		Lat:        p.Point.Lat(),
		Lng:        p.Point.Lng(),
		RecordedBy: p.RecordedBy.Bytes(),
		RecordedAt: p.RecordedAt,
	}
}
