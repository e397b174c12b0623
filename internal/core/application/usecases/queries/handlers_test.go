package queries_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"delivery/internal/adapters/out/postgres"
	"delivery/internal/adapters/out/postgres/courierrepo"
	"delivery/internal/adapters/out/postgres/routerepo"
	"delivery/internal/core/application/usecases/queries"
	"delivery/internal/core/domain/model/courier"
	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/core/domain/model/route"
	"delivery/internal/pkg/errs"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var baseTime = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type noopTracker struct{}

func (noopTracker) TrackAggregate(kernel.UUID, any) {}

type QueryHandlersTestSuite struct {
	suite.Suite
	db       *gorm.DB
	couriers *courierrepo.GormCourierRepository
	routes   *routerepo.GormRouteRepository
}

func (suite *QueryHandlersTestSuite) SetupTest() {
	dsn := filepath.Join(suite.T().TempDir(), "queries.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	suite.Require().NoError(err)
	suite.Require().NoError(postgres.Migrate(db))

	suite.db = db
	suite.couriers = courierrepo.NewGormCourierRepository(db, noopTracker{})
	suite.routes = routerepo.NewGormRouteRepository(db, noopTracker{})
}

func (suite *QueryHandlersTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	suite.Require().NoError(sqlDB.Close())
}

func (suite *QueryHandlersTestSuite) addCourier(name string, available bool) *courier.Courier {
	loc, err := kernel.NewLocation(55.75, 37.61)
	suite.Require().NoError(err)
	c, err := courier.NewCourier(kernel.NewUUID(), name, loc)
	suite.Require().NoError(err)
	if !available {
		c.SyncAvailability(1)
	}
	suite.Require().NoError(suite.couriers.Add(context.Background(), c))
	return c
}

// addRoute stores a scheduled route created at baseTime+offset.
func (suite *QueryHandlersTestSuite) addRoute(c *courier.Courier, sequence, etaMinutes int, offset time.Duration) *route.Route {
	loc, err := kernel.NewLocation(55.76, 37.62)
	suite.Require().NoError(err)
	pizza, err := route.NewItem("pizza", 2, 12.5)
	suite.Require().NoError(err)
	placeholder, err := route.NewEta(7, 7, 7, 0)
	suite.Require().NoError(err)

	rt, err := route.NewRoute(kernel.NewUUID(), route.OrderDetails{
		OrderID:  kernel.NewUUID(),
		UserID:   kernel.NewUUID(),
		Address:  "Tverskaya 1",
		Location: loc,
		Total:    25,
		Items:    []route.Item{pizza},
	}, c, placeholder, baseTime.Add(offset))
	suite.Require().NoError(err)

	eta, err := route.NewEta(etaMinutes, etaMinutes-1, etaMinutes+2, 80)
	suite.Require().NoError(err)
	_, err = rt.Schedule(sequence, eta, 30, 4.2, baseTime.Add(offset))
	suite.Require().NoError(err)

	suite.Require().NoError(suite.routes.Add(context.Background(), rt))
	return rt
}

func (suite *QueryHandlersTestSuite) complete(rt *route.Route, at time.Time) {
	_, err := rt.Override(route.Done, at)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.routes.Update(context.Background(), rt))
}

func (suite *QueryHandlersTestSuite) TestGetRouteByOrder() {
	ctx := context.Background()
	c := suite.addCourier("Ivan", false)
	rt := suite.addRoute(c, 1, 12, 0)
	handler := queries.NewGetRouteByOrderQueryHandler(suite.db)

	q, err := queries.NewGetRouteByOrderQuery(rt.OrderID())
	suite.Require().NoError(err)

	view, err := handler.Handle(ctx, q)
	suite.Require().NoError(err)

	suite.True(view.ID.IsEqual(rt.ID()))
	suite.True(view.CourierID.IsEqual(c.ID()))
	suite.Equal("Ivan", view.CourierName)
	suite.Equal("cooking", view.Status)
	suite.Equal(12, view.Eta.Minutes)
	suite.Equal(11, view.Eta.LowerMinutes)
	suite.Equal(14, view.Eta.UpperMinutes)
	suite.Equal(1, view.Sequence)
	suite.Equal(30, view.RouteTotalTimeMinutes)
	suite.InDelta(4.2, view.RouteDistanceKm, 1e-9)
	suite.Equal([]queries.ItemView{{Name: "pizza", Quantity: 2, Price: 12.5}}, view.Items)
	suite.True(view.CreatedAt.Equal(baseTime))
	suite.Nil(view.CompletedAt)
	suite.Equal(queries.NewRouteView(rt).Location, view.Location)
}

func (suite *QueryHandlersTestSuite) TestGetRouteByOrder_NotFound() {
	q, err := queries.NewGetRouteByOrderQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	_, err = queries.NewGetRouteByOrderQueryHandler(suite.db).Handle(context.Background(), q)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueryHandlersTestSuite) TestGetActiveRoutes() {
	ctx := context.Background()
	anna := suite.addCourier("Anna", false)
	boris := suite.addCourier("Boris", false)
	second := suite.addRoute(anna, 2, 20, time.Minute)
	first := suite.addRoute(anna, 1, 10, 2*time.Minute)
	done := suite.addRoute(anna, 3, 30, 3*time.Minute)
	suite.complete(done, baseTime.Add(time.Hour))
	suite.addRoute(boris, 1, 8, 4*time.Minute)
	handler := queries.NewGetActiveRoutesQueryHandler(suite.db)

	id := anna.ID()
	mine, err := queries.NewGetActiveRoutesQuery(&id)
	suite.Require().NoError(err)
	views, err := handler.Handle(ctx, mine)
	suite.Require().NoError(err)

	suite.Require().Len(views, 2)
	suite.True(views[0].OrderID.IsEqual(first.OrderID()))
	suite.True(views[1].OrderID.IsEqual(second.OrderID()))

	all, err := queries.NewGetActiveRoutesQuery(nil)
	suite.Require().NoError(err)
	views, err = handler.Handle(ctx, all)
	suite.Require().NoError(err)
	suite.Len(views, 3)
}

func (suite *QueryHandlersTestSuite) TestGetCouriers() {
	ctx := context.Background()
	boris := suite.addCourier("Boris", false)
	suite.addCourier("Anna", true)
	suite.addRoute(boris, 1, 10, 0)
	suite.addRoute(boris, 2, 15, time.Minute)

	views, err := queries.NewGetCouriersQueryHandler(suite.db).Handle(ctx, queries.NewGetCouriersQuery())
	suite.Require().NoError(err)

	suite.Require().Len(views, 2)
	suite.Equal("Anna", views[0].Name)
	suite.True(views[0].Available)
	suite.Equal(0, views[0].ActiveRoutes)
	suite.Equal("Boris", views[1].Name)
	suite.False(views[1].Available)
	suite.Equal(2, views[1].ActiveRoutes)
	suite.InDelta(courier.DefaultBiasFactor, views[1].BiasFactor, 1e-9)
	suite.InDelta(courier.DefaultReliabilityScore, views[1].ReliabilityScore, 1e-9)
}

func (suite *QueryHandlersTestSuite) TestGetCouriers_Empty() {
	views, err := queries.NewGetCouriersQueryHandler(suite.db).Handle(context.Background(), queries.NewGetCouriersQuery())

	suite.Require().NoError(err)
	suite.NotNil(views)
	suite.Empty(views)
}

func (suite *QueryHandlersTestSuite) TestGetDeliveryStats() {
	ctx := context.Background()
	anna := suite.addCourier("Anna", true)
	boris := suite.addCourier("Boris", false)
	suite.addRoute(boris, 1, 10, 0)
	suite.addRoute(boris, 2, 21, time.Minute)
	done := suite.addRoute(anna, 1, 12, 2*time.Minute)
	suite.complete(done, baseTime.Add(time.Hour))

	stats, err := queries.NewGetDeliveryStatsQueryHandler(suite.db).Handle(ctx, queries.NewGetDeliveryStatsQuery())
	suite.Require().NoError(err)

	suite.Equal(2, stats.ActiveRoutes)
	suite.Equal(1, stats.CompletedRoutes)
	suite.Equal(map[string]int{"assigned": 0, "cooking": 2, "delivery": 0, "done": 1}, stats.RoutesByStatus)
	suite.InDelta(15.5, stats.AverageEtaMinutes, 1e-9)
	suite.Equal(1, stats.AvailableCouriers)
	suite.Equal(1, stats.BusyCouriers)
	suite.Require().Len(stats.Couriers, 2)
	suite.True(stats.Couriers[0].CourierID.IsEqual(anna.ID()))
	suite.Equal(0, stats.Couriers[0].ActiveRoutes)
	suite.Equal(1, stats.Couriers[0].CompletedRoutes)
	suite.Equal(2, stats.Couriers[1].ActiveRoutes)
	suite.Equal(0, stats.Couriers[1].CompletedRoutes)
}

func (suite *QueryHandlersTestSuite) TestGetDeliveryStats_Empty() {
	stats, err := queries.NewGetDeliveryStatsQueryHandler(suite.db).Handle(
		context.Background(), queries.NewGetDeliveryStatsQuery())
	suite.Require().NoError(err)

	suite.Zero(stats.ActiveRoutes)
	suite.Zero(stats.AverageEtaMinutes)
	suite.Empty(stats.Couriers)
}

func TestQueryHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(QueryHandlersTestSuite))
}
