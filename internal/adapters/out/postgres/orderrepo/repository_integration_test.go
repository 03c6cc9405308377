package orderrepo_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"orderflow/internal/adapters/out/postgres/orderrepo"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite provides integration tests for OrderRepository
// using PostgreSQL containers to verify database persistence behavior.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ValidOrder_Success() {
	ctx := context.Background()

	testOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()

	err := suite.repository.Add(ctx, testOrder)
	suite.Require().NoError(err)

	suite.assertOrderCount(1)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_ExistingOrder_RoundTripsAllFields() {
	ctx := context.Background()

	originalOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", originalOrder.ID(), originalOrder).Once()
	suite.Require().NoError(suite.repository.Add(ctx, originalOrder))

	retrievedOrder, err := suite.repository.Get(ctx, originalOrder.ID())
	suite.Require().NoError(err)

	suite.True(originalOrder.ID().IsEqual(retrievedOrder.ID()))
	suite.True(originalOrder.CustomerID().IsEqual(retrievedOrder.CustomerID()))
	suite.True(originalOrder.VendorID().IsEqual(retrievedOrder.VendorID()))
	suite.Nil(retrievedOrder.CourierID())
	suite.Equal(originalOrder.PickupAddress().String(), retrievedOrder.PickupAddress().String())
	suite.Equal(originalOrder.DeliveryAddress().String(), retrievedOrder.DeliveryAddress().String())
	suite.Equal(originalOrder.Total().Cents(), retrievedOrder.Total().Cents())
	suite.Equal(originalOrder.DeliveryFee().Cents(), retrievedOrder.DeliveryFee().Cents())
	suite.Equal(order.PaymentPending, retrievedOrder.PaymentStatus())
	suite.Equal(order.Pending, retrievedOrder.Status())
	suite.Nil(retrievedOrder.ActualDeliveryAt())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	ctx := context.Background()

	retrievedOrder, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Nil(retrievedOrder)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_CourierAssignment_Persisted() {
	ctx := context.Background()

	testOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	courierID := kernel.NewUUID()
	suite.Require().NoError(testOrder.AssignCourier(courierID))
	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	retrievedOrder, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(retrievedOrder.CourierID())
	suite.True(courierID.IsEqual(*retrievedOrder.CourierID()))

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_NonExistentOrder_ReturnsError() {
	ctx := context.Background()

	nonExistentOrder := suite.createTestOrder()

	err := suite.repository.Update(ctx, nonExistentOrder)
	suite.Require().Error(err)
	suite.Contains(strings.ToLower(err.Error()), "record not found")

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdateStatusFrom_ExpectedStatusMatches_Succeeds() {
	ctx := context.Background()

	testOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	from := testOrder.Status()
	suite.Require().NoError(testOrder.TransitionTo(order.Confirmed, time.Now().UTC()))

	err := suite.repository.UpdateStatusFrom(ctx, testOrder, from)
	suite.Require().NoError(err)

	retrievedOrder, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Confirmed, retrievedOrder.Status())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdateStatusFrom_ExpectedStatusStale_ReturnsNotFoundError() {
	ctx := context.Background()

	testOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	from := testOrder.Status()
	suite.Require().NoError(testOrder.TransitionTo(order.Confirmed, time.Now().UTC()))
	suite.Require().NoError(suite.repository.UpdateStatusFrom(ctx, testOrder, from))

	// Second writer still believes the order is pending.
	staleOrder, err := order.RestoreOrder(
		testOrder.ID(), testOrder.CustomerID(), testOrder.VendorID(), nil,
		testOrder.PickupAddress(), testOrder.DeliveryAddress(),
		testOrder.Total(), testOrder.DeliveryFee(),
		order.PaymentPending, order.Pending,
		testOrder.CreatedAt(), testOrder.EstimatedDeliveryAt(), nil,
	)
	suite.Require().NoError(err)
	suite.Require().NoError(staleOrder.TransitionTo(order.Cancelled, time.Now().UTC()))

	err = suite.repository.UpdateStatusFrom(ctx, staleOrder, order.Pending)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)

	retrievedOrder, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Confirmed, retrievedOrder.Status())

	suite.tracker.AssertExpectations(suite.T())
}

// TestUpdateStatusFrom_ConcurrentWriters_ExactlyOneWins drives two writers off
// the same observed status and verifies the compare-and-swap admits one.
func (suite *OrderRepositoryIntegrationTestSuite) TestUpdateStatusFrom_ConcurrentWriters_ExactlyOneWins() {
	ctx := context.Background()

	testOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	buildWriter := func(target order.Status) *order.Order {
		writerOrder, err := order.RestoreOrder(
			testOrder.ID(), testOrder.CustomerID(), testOrder.VendorID(), nil,
			testOrder.PickupAddress(), testOrder.DeliveryAddress(),
			testOrder.Total(), testOrder.DeliveryFee(),
			order.PaymentPending, order.Pending,
			testOrder.CreatedAt(), testOrder.EstimatedDeliveryAt(), nil,
		)
		suite.Require().NoError(err)
		suite.Require().NoError(writerOrder.TransitionTo(target, time.Now().UTC()))
		return writerOrder
	}

	writers := []*order.Order{buildWriter(order.Confirmed), buildWriter(order.Cancelled)}
	results := make([]error, len(writers))

	var wg sync.WaitGroup
	for i, writerOrder := range writers {
		wg.Add(1)
		go func(i int, writerOrder *order.Order) {
			defer wg.Done()
			results[i] = suite.repository.UpdateStatusFrom(ctx, writerOrder, order.Pending)
		}(i, writerOrder)
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
		} else {
			var notFoundErr *errs.ObjectNotFoundError
			suite.Require().ErrorAs(err, &notFoundErr)
		}
	}
	suite.Equal(1, winners)

	retrievedOrder, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Contains([]order.Status{order.Confirmed, order.Cancelled}, retrievedOrder.Status())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetStalePending_ReturnsOnlyPendingOlderThanCutoff() {
	ctx := context.Background()
	now := time.Now().UTC()

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(3)

	stale := suite.createTestOrderCreatedAt(now.Add(-time.Hour))
	fresh := suite.createTestOrderCreatedAt(now.Add(-time.Minute))
	confirmed := suite.createTestOrderCreatedAt(now.Add(-time.Hour))
	suite.Require().NoError(confirmed.TransitionTo(order.Confirmed, now))

	suite.Require().NoError(suite.repository.Add(ctx, stale))
	suite.Require().NoError(suite.repository.Add(ctx, fresh))
	suite.Require().NoError(suite.repository.Add(ctx, confirmed))

	staleOrders, err := suite.repository.GetStalePending(ctx, now.Add(-30*time.Minute))
	suite.Require().NoError(err)

	suite.Require().Len(staleOrders, 1)
	suite.True(stale.ID().IsEqual(staleOrders[0].ID()))

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetStalePending_NoMatches_ReturnsEmptySlice() {
	ctx := context.Background()

	staleOrders, err := suite.repository.GetStalePending(ctx, time.Now().UTC().Add(-time.Hour))
	suite.Require().NoError(err)
	suite.Empty(staleOrders)
}

// createTestOrder creates a basic pending test order with default values.
func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder() *order.Order {
	return suite.createTestOrderCreatedAt(time.Now().UTC())
}

func (suite *OrderRepositoryIntegrationTestSuite) createTestOrderCreatedAt(createdAt time.Time) *order.Order {
	pickup, err := kernel.NewAddress("12 Vendor Street")
	suite.Require().NoError(err)
	delivery, err := kernel.NewAddress("8 Customer Avenue")
	suite.Require().NoError(err)
	total, err := kernel.NewMoney(2147)
	suite.Require().NoError(err)
	fee, err := kernel.NewMoney(499)
	suite.Require().NoError(err)

	testOrder, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		pickup, delivery, total, fee,
		createdAt, createdAt.Add(45*time.Minute),
	)
	suite.Require().NoError(err)
	return testOrder
}

// assertOrderCount verifies the number of orders in the database.
func (suite *OrderRepositoryIntegrationTestSuite) assertOrderCount(expected int) {
	var count int64
	err := suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
