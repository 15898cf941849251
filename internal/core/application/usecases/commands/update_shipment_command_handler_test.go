package commands_test

import (
	"errors"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/identity"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// shipped starts the sub-order of vendor and returns its shipment, registered in the
// shipment repository mock for both reads of lockShipment.
func (f *fixture) shipped(t *testing.T, o *order.Order, vendor identity.Vendor, driverID *kernel.UUID) *shipment.Shipment {
	t.Helper()
	ctx := t.Context()

	var so *order.SubOrder
	for _, candidate := range o.SubOrders() {
		if candidate.VendorID().IsEqual(vendor.ID) {
			so = candidate
		}
	}
	require.NotNil(t, so)

	s, err := shipment.NewShipment(so.ID(), o.ID(), vendor.ID, vendor.AddressID, driverID, shipment.Normal, "")
	require.NoError(t, err)
	require.NoError(t, so.LinkShipment(s.ID()))
	_, err = services.NewStatusCascade(nil).Apply(o, so.ID(), order.InProgress)
	require.NoError(t, err)

	f.shipments.On("Get", ctx, s.ID()).Return(s, nil).Maybe()
	f.shipments.On("GetForUpdate", ctx, s.ID()).Return(s, nil).Maybe()
	f.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Maybe()
	return s
}

func statusUpdate(t *testing.T, p identity.Principal, s *shipment.Shipment, target shipment.Status) commands.UpdateShipmentCommand {
	t.Helper()
	cmd, err := commands.NewUpdateShipmentCommand(p, s.ID(), commands.ShipmentChanges{Status: &target})
	require.NoError(t, err)
	return cmd
}

func TestUpdateShipmentCommandHandler_Handle_FailedCancelsSubOrder(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)

	owner := f.actor(t, identity.VendorOwner)
	vendor := f.vendorOf(t, owner)
	other := f.vendorOf(t, f.actor(t, identity.VendorOwner))
	driver := f.driverFor(t, vendor)
	o := placedOrder(t, f.actor(t, identity.Customer), 3, vendor, other)
	s := f.shipped(t, o, vendor, &driver)
	so, err := o.SubOrder(s.SubOrderID())
	require.NoError(t, err)

	mock.InOrder(
		f.shipments.On("Update", ctx, s).Return(nil).Once(),
		f.ledger.On("Release", ctx, so.Items()[0].ProductID(), 3).Return(nil).Once(),
		f.orders.On("Update", ctx, o).Return(nil).Once(),
		f.uow.On("Commit", ctx).Return(nil).Once(),
	)

	handler := commands.NewUpdateShipmentCommandHandler(f.factory, services.NewStatusCascade(nil))
	got, err := handler.Handle(ctx, statusUpdate(t, owner, s, shipment.Failed))

	require.NoError(t, err)
	assert.Equal(t, shipment.Failed, got.Status())
	assert.Equal(t, order.Cancelled, so.Status())
	assert.Equal(t, order.InProgress, o.Status(), "sibling sub-order still open")
	f.assertAll(t)
}

func TestUpdateShipmentCommandHandler_Handle_LastDeliveryDeliversOrder(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)

	owner := f.actor(t, identity.VendorOwner)
	vendor := f.vendorOf(t, owner)
	driver := f.driverFor(t, vendor)
	o := placedOrder(t, f.actor(t, identity.Customer), 1, vendor)
	s := f.shipped(t, o, vendor, &driver)

	f.shipments.On("Update", ctx, s).Return(nil).Once()
	f.orders.On("Update", ctx, o).Return(nil).Once()
	f.expectCommit(t)

	handler := commands.NewUpdateShipmentCommandHandler(f.factory, services.NewStatusCascade(nil))
	_, err := handler.Handle(ctx, statusUpdate(t, owner, s, shipment.Delivered))

	require.NoError(t, err)
	assert.Equal(t, order.Delivered, o.SubOrders()[0].Status())
	assert.Equal(t, order.Delivered, o.Status())
	f.ledger.AssertNotCalled(t, "Release", mock.Anything, mock.Anything, mock.Anything)

	// shipment, sub-order and order transitions.
	f.activity.AssertNumberOfCalls(t, "AppendHistory", 3)
	// one audit for the update itself plus one per transition.
	f.activity.AssertNumberOfCalls(t, "AppendAudit", 4)
	f.assertAll(t)
}

func TestUpdateShipmentCommandHandler_Handle_StrictPolicyPartiallyFulfilled(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)

	owner := f.actor(t, identity.VendorOwner)
	vendor := f.vendorOf(t, owner)
	other := f.vendorOf(t, f.actor(t, identity.VendorOwner))
	driver := f.driverFor(t, vendor)
	o := placedOrder(t, f.actor(t, identity.Customer), 1, vendor, other)
	s := f.shipped(t, o, vendor, &driver)

	cascade := services.NewStatusCascade(services.StrictPolicy{})
	_, err := cascade.Apply(o, o.SubOrders()[1].ID(), order.Cancelled)
	require.NoError(t, err)

	f.shipments.On("Update", ctx, s).Return(nil).Once()
	f.orders.On("Update", ctx, o).Return(nil).Once()
	f.expectCommit(t)

	_, err = commands.NewUpdateShipmentCommandHandler(f.factory, cascade).
		Handle(ctx, statusUpdate(t, owner, s, shipment.Delivered))

	require.NoError(t, err)
	assert.Equal(t, order.PartiallyFulfilled, o.Status())
	f.assertAll(t)
}

func TestUpdateShipmentCommandHandler_Handle_ClosedSubOrderKeepsStatus(t *testing.T) {
	for _, target := range []shipment.Status{shipment.Failed, shipment.Delivered} {
		t.Run(target.String(), func(t *testing.T) {
			ctx := t.Context()
			f := newFixture(t)

			owner := f.actor(t, identity.VendorOwner)
			vendor := f.vendorOf(t, owner)
			other := f.vendorOf(t, f.actor(t, identity.VendorOwner))
			driver := f.driverFor(t, vendor)
			o := placedOrder(t, f.actor(t, identity.Customer), 1, vendor, other)
			s := f.shipped(t, o, vendor, &driver)
			so, err := o.SubOrder(s.SubOrderID())
			require.NoError(t, err)

			// the order was cancelled while the shipment stayed active.
			_, err = o.Cancel()
			require.NoError(t, err)
			require.Equal(t, shipment.InProgress, s.Status())

			f.shipments.On("Update", ctx, s).Return(nil).Once()
			f.expectCommit(t)

			handler := commands.NewUpdateShipmentCommandHandler(f.factory, services.NewStatusCascade(nil))
			got, err := handler.Handle(ctx, statusUpdate(t, owner, s, target))

			require.NoError(t, err)
			assert.Equal(t, target, got.Status())
			assert.Equal(t, order.Cancelled, so.Status())
			assert.Equal(t, order.Cancelled, o.Status())
			f.orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			f.ledger.AssertNotCalled(t, "Release", mock.Anything, mock.Anything, mock.Anything)
			f.activity.AssertNumberOfCalls(t, "AppendHistory", 1)
			f.assertAll(t)
		})
	}
}

func TestUpdateShipmentCommandHandler_Handle_FleetManagerEditsNotes(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)

	vendor := f.vendorOf(t, f.actor(t, identity.VendorOwner))
	driver := f.driverFor(t, vendor)
	o := placedOrder(t, f.actor(t, identity.Customer), 1, vendor)
	s := f.shipped(t, o, vendor, &driver)
	manager := f.actor(t, identity.FleetManager)

	f.shipments.On("Update", ctx, s).Return(nil).Once()
	f.expectCommit(t)

	notes := "leave at the door"
	priority := shipment.High
	cmd, err := commands.NewUpdateShipmentCommand(manager, s.ID(), commands.ShipmentChanges{Notes: &notes, Priority: &priority})
	require.NoError(t, err)

	got, err := commands.NewUpdateShipmentCommandHandler(f.factory, services.NewStatusCascade(nil)).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, notes, got.Notes())
	assert.Equal(t, shipment.High, got.Priority())
	f.orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.activity.AssertNotCalled(t, "AppendHistory", mock.Anything, mock.Anything)
	f.activity.AssertNumberOfCalls(t, "AppendAudit", 1)
	f.assertAll(t)
}

func TestUpdateShipmentCommandHandler_Handle_TerminalShipmentIsImmutable(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)

	owner := f.actor(t, identity.VendorOwner)
	vendor := f.vendorOf(t, owner)
	driver := f.driverFor(t, vendor)
	o := placedOrder(t, f.actor(t, identity.Customer), 1, vendor)
	s := f.shipped(t, o, vendor, &driver)
	_, err := s.ChangeStatus(shipment.Failed)
	require.NoError(t, err)

	handler := commands.NewUpdateShipmentCommandHandler(f.factory, services.NewStatusCascade(nil))
	_, err = handler.Handle(ctx, statusUpdate(t, owner, s, shipment.InProgress))

	assert.True(t, errors.Is(err, errs.ErrValidation))
	f.shipments.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateShipmentCommandHandler_Handle_CustomerDenied(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)

	customer := f.actor(t, identity.Customer)
	vendor := f.vendorOf(t, f.actor(t, identity.VendorOwner))
	driver := f.driverFor(t, vendor)
	o := placedOrder(t, customer, 1, vendor)
	s := f.shipped(t, o, vendor, &driver)

	handler := commands.NewUpdateShipmentCommandHandler(f.factory, services.NewStatusCascade(nil))
	_, err := handler.Handle(ctx, statusUpdate(t, customer, s, shipment.Delivered))

	assert.True(t, errors.Is(err, errs.ErrAuthorization))
	f.shipments.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestAssignDriverCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)

	owner := f.actor(t, identity.VendorOwner)
	vendor := f.vendorOf(t, owner)
	driver := f.driverFor(t, vendor)
	o := placedOrder(t, f.actor(t, identity.Customer), 1, vendor)
	s := f.shipped(t, o, vendor, nil)
	require.Equal(t, shipment.Pending, s.Status())

	f.shipments.On("Update", ctx, s).Return(nil).Once()
	f.expectCommit(t)

	cmd, err := commands.NewAssignDriverCommand(owner, s.ID(), driver)
	require.NoError(t, err)

	got, err := commands.NewAssignDriverCommandHandler(f.factory).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, shipment.InProgress, got.Status())
	require.NotNil(t, got.DriverID())
	assert.True(t, got.DriverID().IsEqual(driver))
	f.activity.AssertNumberOfCalls(t, "AppendHistory", 1)
	// status change plus the driver notice.
	f.activity.AssertNumberOfCalls(t, "AppendNotification", 2)
	f.assertAll(t)
}

func TestAssignDriverCommandHandler_Handle_NotADriver(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)

	owner := f.actor(t, identity.VendorOwner)
	vendor := f.vendorOf(t, owner)
	customer := f.actor(t, identity.Customer)
	o := placedOrder(t, customer, 1, vendor)
	s := f.shipped(t, o, vendor, nil)

	cmd, err := commands.NewAssignDriverCommand(owner, s.ID(), customer.ID())
	require.NoError(t, err)

	_, err = commands.NewAssignDriverCommandHandler(f.factory).Handle(ctx, cmd)

	assert.True(t, errors.Is(err, errs.ErrValidation))
	assert.Nil(t, s.DriverID())
}

func TestAddTrackingPointCommandHandler_Handle(t *testing.T) {
	t.Run("platform admin records a point", func(t *testing.T) {
		f := newFixture(t)
		admin := f.actor(t, identity.PlatformAdmin)
		vendor := f.vendorOf(t, f.actor(t, identity.VendorOwner))
		driver := f.driverFor(t, vendor)
		o := placedOrder(t, f.actor(t, identity.Customer), 1, vendor)
		s := f.shipped(t, o, vendor, &driver)

		f.shipments.On("AddTrackingPoint", t.Context(), mock.MatchedBy(func(p shipment.TrackingPoint) bool {
			return p.ShipmentID.IsEqual(s.ID()) && p.Point.Lat() == 52.52
		})).Return(nil).Once()
		f.expectCommit(t)

		cmd, err := commands.NewAddTrackingPointCommand(admin, s.ID(), 52.52, 13.405)
		require.NoError(t, err)

		point, err := commands.NewAddTrackingPointCommandHandler(f.factory).Handle(t.Context(), cmd)

		require.NoError(t, err)
		assert.True(t, point.RecordedBy.IsEqual(admin.ID()))
		assert.Equal(t, shipment.InProgress, s.Status())
		f.activity.AssertNumberOfCalls(t, "AppendAudit", 1)
		f.activity.AssertNotCalled(t, "AppendHistory", mock.Anything, mock.Anything)
		f.assertAll(t)
	})

	t.Run("vendor is denied", func(t *testing.T) {
		f := newFixture(t)
		owner := f.actor(t, identity.VendorOwner)

		cmd, err := commands.NewAddTrackingPointCommand(owner, kernel.NewUUID(), 0, 0)
		require.NoError(t, err)

		_, err = commands.NewAddTrackingPointCommandHandler(f.factory).Handle(t.Context(), cmd)

		assert.True(t, errors.Is(err, errs.ErrAuthorization))
		f.shipments.AssertNotCalled(t, "AddTrackingPoint", mock.Anything, mock.Anything)
	})

	t.Run("latitude out of range", func(t *testing.T) {
		_, err := commands.NewAddTrackingPointCommand(customerPrincipal(t), kernel.NewUUID(), 91, 0)
		assert.True(t, errors.Is(err, errs.ErrValueIsOutOfRange))
	})
}
