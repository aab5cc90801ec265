package courierrepo_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/courierrepo"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

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

// CourierRepositoryIntegrationTestSuite provides integration tests for CourierRepository
// using PostgreSQL containers to verify database persistence behavior.
type CourierRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *courierrepo.GormCourierRepository
	tracker    *MockAggregateTracker
}

func (suite *CourierRepositoryIntegrationTestSuite) SetupSuite() {
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

	suite.Require().NoError(db.AutoMigrate(&courierrepo.CourierDTO{}))
}

func (suite *CourierRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE couriers").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = courierrepo.NewGormCourierRepository(suite.db, suite.tracker)
}

func (suite *CourierRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *CourierRepositoryIntegrationTestSuite) TestAdd_NewCourier_Success() {
	ctx := context.Background()

	testCourier := suite.createCourier()

	suite.tracker.On("TrackAggregate", testCourier.ID(), testCourier).Once()

	err := suite.repository.Add(ctx, testCourier)
	suite.Require().NoError(err)

	suite.assertCourierCount(1)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *CourierRepositoryIntegrationTestSuite) TestGet_RoundTrip_PreservesStateAndOrderSets() {
	ctx := context.Background()

	original := suite.createCourier()
	original.Verify()
	original.SetAvailability(true)
	suite.Require().NoError(original.MoveTo(suite.point(13.4050, 52.5200)))

	activeID := kernel.NewUUID()
	rejectedID := kernel.NewUUID()
	suite.Require().NoError(original.AddActiveOrder(activeID))
	suite.Require().NoError(original.RejectOrder(rejectedID))
	suite.Require().NoError(original.AddRatingScore(5))
	suite.Require().NoError(original.AddRatingScore(4))

	suite.addCourier(original)

	retrieved, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)

	suite.Equal(original.ID(), retrieved.ID())
	suite.Equal(original.UserID(), retrieved.UserID())
	suite.True(retrieved.IsVerified())
	suite.True(retrieved.IsAvailable())

	suite.Require().NotNil(retrieved.Location())
	suite.InDelta(13.4050, retrieved.Location().Longitude(), 1e-9)
	suite.InDelta(52.5200, retrieved.Location().Latitude(), 1e-9)

	suite.Require().Len(retrieved.ActiveOrderIDs(), 1)
	suite.Equal(activeID, retrieved.ActiveOrderIDs()[0])
	suite.Require().Len(retrieved.RejectedOrderIDs(), 1)
	suite.Equal(rejectedID, retrieved.RejectedOrderIDs()[0])
	suite.Empty(retrieved.DeliveryHistoryIDs())

	suite.Equal(9, retrieved.Rating().TotalScore())
	suite.Equal(2, retrieved.Rating().Count())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *CourierRepositoryIntegrationTestSuite) TestGet_NonExistentCourier_ReturnsNotFoundError() {
	ctx := context.Background()

	retrieved, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Nil(retrieved)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *CourierRepositoryIntegrationTestSuite) TestUpdate_PersistsClearedFlags() {
	ctx := context.Background()

	testCourier := suite.createCourier()
	testCourier.Verify()
	testCourier.SetAvailability(true)
	suite.addCourier(testCourier)

	// Going off shift must persist the false flag, not be skipped as a
	// zero value.
	testCourier.SetAvailability(false)
	suite.tracker.On("TrackAggregate", testCourier.ID(), testCourier).Once()
	suite.Require().NoError(suite.repository.Update(ctx, testCourier))

	retrieved, err := suite.repository.Get(ctx, testCourier.ID())
	suite.Require().NoError(err)
	suite.False(retrieved.IsAvailable())
	suite.True(retrieved.IsVerified())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *CourierRepositoryIntegrationTestSuite) TestUpdate_CompletedDelivery_MovesOrderBetweenSets() {
	ctx := context.Background()

	testCourier := suite.createCourier()
	testCourier.Verify()
	testCourier.SetAvailability(true)
	suite.Require().NoError(testCourier.MoveTo(suite.point(13.4050, 52.5200)))

	orderID := kernel.NewUUID()
	suite.Require().NoError(testCourier.AddActiveOrder(orderID))
	suite.addCourier(testCourier)

	suite.Require().NoError(testCourier.CompleteDelivery(orderID))
	suite.tracker.On("TrackAggregate", testCourier.ID(), testCourier).Once()
	suite.Require().NoError(suite.repository.Update(ctx, testCourier))

	retrieved, err := suite.repository.Get(ctx, testCourier.ID())
	suite.Require().NoError(err)
	suite.Empty(retrieved.ActiveOrderIDs())
	suite.Require().Len(retrieved.DeliveryHistoryIDs(), 1)
	suite.Equal(orderID, retrieved.DeliveryHistoryIDs()[0])

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *CourierRepositoryIntegrationTestSuite) TestGetByUserID() {
	ctx := context.Background()

	testCourier := suite.createCourier()
	suite.addCourier(testCourier)

	retrieved, err := suite.repository.GetByUserID(ctx, testCourier.UserID())
	suite.Require().NoError(err)
	suite.Equal(testCourier.ID(), retrieved.ID())

	_, err = suite.repository.GetByUserID(ctx, kernel.NewUUID())
	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *CourierRepositoryIntegrationTestSuite) TestGetAll_ReturnsEveryCourier() {
	ctx := context.Background()

	first := suite.createCourier()
	second := suite.createCourier()
	suite.addCourier(first)
	suite.addCourier(second)

	all, err := suite.repository.GetAll(ctx)
	suite.Require().NoError(err)
	suite.Len(all, 2)

	ids := []kernel.UUID{all[0].ID(), all[1].ID()}
	suite.Contains(ids, first.ID())
	suite.Contains(ids, second.ID())

	suite.tracker.AssertExpectations(suite.T())
}

// point builds a valid GeoPoint or fails the test.
func (suite *CourierRepositoryIntegrationTestSuite) point(lon, lat float64) kernel.GeoPoint {
	point, err := kernel.NewGeoPoint(lon, lat)
	suite.Require().NoError(err)
	return point
}

// createCourier creates a fresh unverified courier.
func (suite *CourierRepositoryIntegrationTestSuite) createCourier() *courier.Courier {
	testCourier, err := courier.NewCourier(kernel.NewUUID(), kernel.NewUUID())
	suite.Require().NoError(err)
	return testCourier
}

// addCourier persists a courier with the tracker expectation set.
func (suite *CourierRepositoryIntegrationTestSuite) addCourier(testCourier *courier.Courier) {
	suite.tracker.On("TrackAggregate", testCourier.ID(), testCourier).Once()
	suite.Require().NoError(suite.repository.Add(context.Background(), testCourier))
}

// assertCourierCount verifies the number of couriers in the database.
func (suite *CourierRepositoryIntegrationTestSuite) assertCourierCount(expected int) {
	var count int64
	err := suite.db.Model(&courierrepo.CourierDTO{}).Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

func TestCourierRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(CourierRepositoryIntegrationTestSuite))
}
