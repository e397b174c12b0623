package cmd

import (
	"log/slog"

	httpin "delivery/internal/adapters/in/http"
	"delivery/internal/adapters/out/postgres"
	"delivery/internal/core/application/usecases/commands"
	"delivery/internal/core/application/usecases/queries"
	"delivery/internal/core/domain/services"
	"delivery/internal/core/ports"
	"delivery/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	scheduler  *commands.Scheduler
	propagator *commands.Propagator
	logger     *slog.Logger
}

// NewCompositionRoot wires the handlers. orderSync and live are chosen by the
// caller: the broker or direct sync, and the live hub.
func NewCompositionRoot(
	cfg Config,
	gormDB *gorm.DB,
	orderSync ports.OrderSync,
	live ports.LiveNotifier,
	logger *slog.Logger,
) *CompositionRoot {
	root := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
	}

	planner := services.NewOptimizingPlanner(
		services.NewRouteOptimizer(services.NewDistanceModel()),
		services.NewEtaCalibrator(),
	)
	root.scheduler = commands.NewScheduler(root.uowFactoryFunc(), planner, nil, logger)
	root.propagator = commands.NewPropagator(orderSync, live, logger)
	return root
}

func (c *CompositionRoot) uowFactoryFunc() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateCourierCommandHandler() commands.CreateCourierCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateCourierCommandHandler(f)
}

func (c *CompositionRoot) CreateAssignCourierCommandHandler() commands.AssignCourierCommandHandler {
	return commands.NewAssignCourierCommandHandler(c.uowFactoryFunc(), c.scheduler, c.propagator)
}

func (c *CompositionRoot) CreateAssignCourierManuallyCommandHandler() commands.AssignCourierManuallyCommandHandler {
	return commands.NewAssignCourierManuallyCommandHandler(c.uowFactoryFunc(), c.scheduler, c.propagator)
}

func (c *CompositionRoot) CreateAdvanceStatusCommandHandler() commands.AdvanceStatusCommandHandler {
	return commands.NewAdvanceStatusCommandHandler(c.uowFactoryFunc(), c.scheduler, c.propagator)
}

func (c *CompositionRoot) CreateOverrideStatusCommandHandler() commands.OverrideStatusCommandHandler {
	return commands.NewOverrideStatusCommandHandler(c.uowFactoryFunc(), c.scheduler, c.propagator)
}

func (c *CompositionRoot) CreateRecalculateEtaCommandHandler() commands.RecalculateEtaCommandHandler {
	return commands.NewRecalculateEtaCommandHandler(c.uowFactoryFunc(), c.scheduler, c.propagator)
}

func (c *CompositionRoot) CreateOptimizeCourierRouteCommandHandler() commands.OptimizeCourierRouteCommandHandler {
	return commands.NewOptimizeCourierRouteCommandHandler(c.scheduler, c.propagator)
}

func (c *CompositionRoot) CreateMoveCourierCommandHandler() commands.MoveCourierCommandHandler {
	return commands.NewMoveCourierCommandHandler(c.uowFactoryFunc(), c.scheduler, c.propagator)
}

func (c *CompositionRoot) CreateGetRouteByOrderQueryHandler() queries.GetRouteByOrderQueryHandler {
	return queries.NewGetRouteByOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActiveRoutesQueryHandler() queries.GetActiveRoutesQueryHandler {
	return queries.NewGetActiveRoutesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCouriersQueryHandler() queries.GetCouriersQueryHandler {
	return queries.NewGetCouriersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDeliveryStatsQueryHandler() queries.GetDeliveryStatsQueryHandler {
	return queries.NewGetDeliveryStatsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		AssignCourier:         c.CreateAssignCourierCommandHandler(),
		AssignCourierManually: c.CreateAssignCourierManuallyCommandHandler(),
		AdvanceStatus:         c.CreateAdvanceStatusCommandHandler(),
		OverrideStatus:        c.CreateOverrideStatusCommandHandler(),
		RecalculateEta:        c.CreateRecalculateEtaCommandHandler(),
		OptimizeCourierRoute:  c.CreateOptimizeCourierRouteCommandHandler(),
		CreateCourier:         c.CreateCreateCourierCommandHandler(),
		MoveCourier:           c.CreateMoveCourierCommandHandler(),
		GetRouteByOrder:       c.CreateGetRouteByOrderQueryHandler(),
		GetActiveRoutes:       c.CreateGetActiveRoutesQueryHandler(),
		GetCouriers:           c.CreateGetCouriersQueryHandler(),
		GetDeliveryStats:      c.CreateGetDeliveryStatsQueryHandler(),
	}, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.cfg.Recompute(),
		c.CreateGetActiveRoutesQueryHandler(),
		c.CreateOptimizeCourierRouteCommandHandler(),
		c.logger,
	)
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
