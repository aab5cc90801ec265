package queries_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/courierrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// noopTracker satisfies the repositories' tracker without recording anything.
type noopTracker struct{}

func (noopTracker) TrackAggregate(kernel.UUID, any) {}

// TrackOrderQueryIntegrationTestSuite verifies the raw SQL tracking view
// against the schema the gorm repositories write.
type TrackOrderQueryIntegrationTestSuite struct {
	suite.Suite
	container   *postgres.PostgresContainer
	db          *gorm.DB
	handler     queries.TrackOrderQueryHandler
	orderRepo   *orderrepo.GormOrderRepository
	courierRepo *courierrepo.GormCourierRepository
}

func (suite *TrackOrderQueryIntegrationTestSuite) SetupSuite() {
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

	suite.Require().NoError(db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&orderrepo.HistoryDTO{},
		&courierrepo.CourierDTO{},
	))
}

func (suite *TrackOrderQueryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders, order_items, order_history, couriers").Error)

	suite.handler = queries.NewTrackOrderQueryHandler(suite.db)
	suite.orderRepo = orderrepo.NewGormOrderRepository(suite.db, noopTracker{})
	suite.courierRepo = courierrepo.NewGormCourierRepository(suite.db, noopTracker{})
}

func (suite *TrackOrderQueryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *TrackOrderQueryIntegrationTestSuite) TestHandle_UnassignedOrder_ReturnsStatusAndHistory() {
	ctx := context.Background()

	testOrder := suite.createOrder()
	suite.Require().NoError(testOrder.Confirm("operator confirmed"))
	suite.Require().NoError(suite.orderRepo.Add(ctx, testOrder))

	query, err := queries.NewTrackOrderQuery(testOrder.ID())
	suite.Require().NoError(err)

	view, err := suite.handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Equal(testOrder.ID(), view.ID)
	suite.Equal("confirmed", view.Status)
	suite.Nil(view.Courier)
	suite.Nil(view.EstimatedDeliveryTime)
	suite.Nil(view.ActualDeliveryTime)

	suite.Require().Len(view.History, 2)
	suite.Equal("processing", view.History[0].Status)
	suite.Equal("confirmed", view.History[1].Status)
	suite.Equal("operator confirmed", view.History[1].Note)
}

func (suite *TrackOrderQueryIntegrationTestSuite) TestHandle_AssignedOrder_JoinsCourierSummary() {
	ctx := context.Background()

	deliverer, err := courier.NewCourier(kernel.NewUUID(), kernel.NewUUID())
	suite.Require().NoError(err)
	deliverer.Verify()
	deliverer.SetAvailability(true)
	location, err := kernel.NewGeoPoint(13.4050, 52.5200)
	suite.Require().NoError(err)
	suite.Require().NoError(deliverer.MoveTo(location))
	suite.Require().NoError(deliverer.AddRatingScore(5))
	suite.Require().NoError(deliverer.AddRatingScore(4))
	suite.Require().NoError(suite.courierRepo.Add(ctx, deliverer))

	testOrder := suite.createOrder()
	suite.Require().NoError(testOrder.Confirm(""))
	suite.Require().NoError(testOrder.Assign(deliverer.ID(), deliverer.Location()))
	suite.Require().NoError(suite.orderRepo.Add(ctx, testOrder))

	query, err := queries.NewTrackOrderQuery(testOrder.ID())
	suite.Require().NoError(err)

	view, err := suite.handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Equal("out_for_delivery", view.Status)
	suite.NotNil(view.EstimatedDeliveryTime)

	suite.Require().NotNil(view.Courier)
	suite.Equal(deliverer.ID(), view.Courier.ID)
	suite.InDelta(4.5, view.Courier.RatingAverage, 1e-9)

	suite.Require().Len(view.History, 3)
	suite.Equal("out_for_delivery", view.History[2].Status)
}

func (suite *TrackOrderQueryIntegrationTestSuite) TestHandle_UnknownOrder_ReturnsNotFound() {
	query, err := queries.NewTrackOrderQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	_, err = suite.handler.Handle(context.Background(), query)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

// createOrder creates an order with one line.
func (suite *TrackOrderQueryIntegrationTestSuite) createOrder() *order.Order {
	item, err := order.NewItem(kernel.NewUUID(), 1, 990)
	suite.Require().NoError(err)

	pickup, err := kernel.NewGeoPoint(13.4050, 52.5200)
	suite.Require().NoError(err)
	delivery, err := kernel.NewGeoPoint(13.4150, 52.5300)
	suite.Require().NoError(err)

	testOrder, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), []order.Item{item}, pickup, delivery)
	suite.Require().NoError(err)
	return testOrder
}

func TestTrackOrderQueryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(TrackOrderQueryIntegrationTestSuite))
}
