package commands_test

import (
	"context"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/activity"
	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/identity"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetBySubOrderForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockShipmentRepository struct{ mock.Mock }

func (m *MockShipmentRepository) Add(ctx context.Context, s *shipment.Shipment) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockShipmentRepository) Update(ctx context.Context, s *shipment.Shipment) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockShipmentRepository) Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) HasActiveForSubOrder(ctx context.Context, id kernel.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockShipmentRepository) AddTrackingPoint(ctx context.Context, p shipment.TrackingPoint) error {
	return m.Called(ctx, p).Error(0)
}

type MockPaymentRepository struct{ mock.Mock }

func (m *MockPaymentRepository) Add(ctx context.Context, p *payment.Payment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPaymentRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (*payment.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

type MockInventoryLedger struct{ mock.Mock }

func (m *MockInventoryLedger) Reserve(ctx context.Context, productID kernel.UUID, qty int) error {
	return m.Called(ctx, productID, qty).Error(0)
}

func (m *MockInventoryLedger) Release(ctx context.Context, productID kernel.UUID, qty int) error {
	return m.Called(ctx, productID, qty).Error(0)
}

func (m *MockInventoryLedger) Get(ctx context.Context, productID kernel.UUID) (inventory.Record, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(inventory.Record), args.Error(1)
}

func (m *MockInventoryLedger) Stock(ctx context.Context, productID kernel.UUID, level int) error {
	return m.Called(ctx, productID, level).Error(0)
}

type MockDirectoryRepository struct{ mock.Mock }

func (m *MockDirectoryRepository) GetActor(ctx context.Context, id kernel.UUID) (identity.Actor, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(identity.Actor), args.Error(1)
}

func (m *MockDirectoryRepository) GetVendor(ctx context.Context, id kernel.UUID) (identity.Vendor, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(identity.Vendor), args.Error(1)
}

func (m *MockDirectoryRepository) GetAddress(ctx context.Context, id kernel.UUID) (identity.Address, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(identity.Address), args.Error(1)
}

func (m *MockDirectoryRepository) IsDriverAssociated(ctx context.Context, vendorID, driverID kernel.UUID) (bool, error) {
	args := m.Called(ctx, vendorID, driverID)
	return args.Bool(0), args.Error(1)
}

type MockCatalogRepository struct{ mock.Mock }

func (m *MockCatalogRepository) GetProduct(ctx context.Context, id kernel.UUID) (catalog.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(catalog.Product), args.Error(1)
}

type MockActivityRepository struct{ mock.Mock }

func (m *MockActivityRepository) AppendHistory(ctx context.Context, e activity.HistoryEntry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockActivityRepository) AppendNotification(ctx context.Context, n activity.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockActivityRepository) AppendAudit(ctx context.Context, e activity.AuditEntry) error {
	return m.Called(ctx, e).Error(0)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	return m.Called().Get(0).(ports.OrderRepository)
}

func (m *MockUoW) ShipmentRepository() ports.ShipmentRepository {
	return m.Called().Get(0).(ports.ShipmentRepository)
}

func (m *MockUoW) PaymentRepository() ports.PaymentRepository {
	return m.Called().Get(0).(ports.PaymentRepository)
}

func (m *MockUoW) InventoryLedger() ports.InventoryLedger {
	return m.Called().Get(0).(ports.InventoryLedger)
}

func (m *MockUoW) DirectoryRepository() ports.DirectoryRepository {
	return m.Called().Get(0).(ports.DirectoryRepository)
}

func (m *MockUoW) CatalogRepository() ports.CatalogRepository {
	return m.Called().Get(0).(ports.CatalogRepository)
}

func (m *MockUoW) ActivityRepository() ports.ActivityRepository {
	return m.Called().Get(0).(ports.ActivityRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	return m.Called().Get(0).(commands.UoW)
}

// fixture wires a MockUoW to one mock per repository. Repository accessors and activity
// appends may be called any number of times; tests set expectations on the rest.
type fixture struct {
	uow       *MockUoW
	factory   *MockUoWFactory
	orders    *MockOrderRepository
	shipments *MockShipmentRepository
	payments  *MockPaymentRepository
	ledger    *MockInventoryLedger
	directory *MockDirectoryRepository
	catalog   *MockCatalogRepository
	activity  *MockActivityRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := t.Context()

	f := &fixture{
		uow:       new(MockUoW),
		factory:   new(MockUoWFactory),
		orders:    new(MockOrderRepository),
		shipments: new(MockShipmentRepository),
		payments:  new(MockPaymentRepository),
		ledger:    new(MockInventoryLedger),
		directory: new(MockDirectoryRepository),
		catalog:   new(MockCatalogRepository),
		activity:  new(MockActivityRepository),
	}

	f.factory.On("Create").Return(f.uow).Once()
	f.uow.On("Begin", ctx).Return(nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()

	f.uow.On("OrderRepository").Return(f.orders).Maybe()
	f.uow.On("ShipmentRepository").Return(f.shipments).Maybe()
	f.uow.On("PaymentRepository").Return(f.payments).Maybe()
	f.uow.On("InventoryLedger").Return(f.ledger).Maybe()
	f.uow.On("DirectoryRepository").Return(f.directory).Maybe()
	f.uow.On("CatalogRepository").Return(f.catalog).Maybe()
	f.uow.On("ActivityRepository").Return(f.activity).Maybe()

	f.activity.On("AppendHistory", ctx, mock.Anything).Return(nil).Maybe()
	f.activity.On("AppendNotification", ctx, mock.Anything).Return(nil).Maybe()
	f.activity.On("AppendAudit", ctx, mock.Anything).Return(nil).Maybe()

	return f
}

func (f *fixture) expectCommit(t *testing.T) {
	f.uow.On("Commit", t.Context()).Return(nil).Once()
}

func (f *fixture) assertAll(t *testing.T) {
	t.Helper()
	f.factory.AssertExpectations(t)
	f.uow.AssertExpectations(t)
	f.orders.AssertExpectations(t)
	f.shipments.AssertExpectations(t)
	f.payments.AssertExpectations(t)
	f.ledger.AssertExpectations(t)
	f.directory.AssertExpectations(t)
	f.catalog.AssertExpectations(t)
}

// actor registers a user with role in the directory and returns its principal.
func (f *fixture) actor(t *testing.T, role identity.Role) identity.Principal {
	t.Helper()
	id := kernel.NewUUID()
	f.directory.On("GetActor", t.Context(), id).Return(identity.Actor{ID: id, Role: role}, nil).Maybe()

	p, err := identity.NewPrincipal(id, role)
	require.NoError(t, err)
	return p
}

// vendorOf registers a store owned by owner.
func (f *fixture) vendorOf(t *testing.T, owner identity.Principal) identity.Vendor {
	t.Helper()
	v := identity.Vendor{ID: kernel.NewUUID(), OwnerID: owner.ID(), AddressID: kernel.NewUUID(), Name: "store"}
	f.directory.On("GetVendor", t.Context(), v.ID).Return(v, nil).Maybe()
	return v
}

// driverFor registers a driver associated with vendor.
func (f *fixture) driverFor(t *testing.T, vendor identity.Vendor) kernel.UUID {
	t.Helper()
	id := kernel.NewUUID()
	f.directory.On("GetActor", t.Context(), id).Return(identity.Actor{ID: id, Role: identity.Driver}, nil).Maybe()
	f.directory.On("IsDriverAssociated", t.Context(), vendor.ID, id).Return(true, nil).Maybe()
	return id
}

// placedOrder builds a pending order for customer with one sub-order per vendor,
// each holding a single line item of qty units.
func placedOrder(t *testing.T, customer identity.Principal, qty int, vendors ...identity.Vendor) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), customer.ID(), nil, kernel.NewUUID())
	require.NoError(t, err)

	for _, v := range vendors {
		li, err := order.NewLineItem(kernel.NewUUID(), qty, 1000)
		require.NoError(t, err)
		_, err = o.AddSubOrder(v.ID, 100, []*order.LineItem{li})
		require.NoError(t, err)
	}
	return o
}
