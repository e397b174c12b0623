package jobs

import (
	"context"
	"log/slog"
	"time"

	"delivery/internal/core/application/usecases/commands"
	"delivery/internal/core/application/usecases/queries"
	"delivery/internal/core/domain/model/kernel"

	"github.com/robfig/cron/v3"
)

type ActiveRoutesReader interface {
	Handle(ctx context.Context, query queries.GetActiveRoutesQuery) ([]queries.RouteView, error)
}

type CourierRouteOptimizer interface {
	Handle(ctx context.Context, command commands.OptimizeCourierRouteCommand) (commands.ScheduleResult, error)
}

// RecomputeSchedulesJob periodically recomputes the schedule of every courier
// holding at least one active route. ETAs only change on mutations, so a run
// repairs drift left behind by a failed command, such as a route that was
// created but never sequenced.
type RecomputeSchedulesJob struct {
	schedule  string
	reader    ActiveRoutesReader
	optimizer CourierRouteOptimizer
	cron      *cron.Cron
	timeout   time.Duration
	logger    *slog.Logger
}

// NewRecomputeSchedulesJob creates the job. schedule is a cron expression with
// an optional seconds field or a descriptor such as "@every 30s".
func NewRecomputeSchedulesJob(
	schedule string,
	reader ActiveRoutesReader,
	optimizer CourierRouteOptimizer,
	logger *slog.Logger,
) *RecomputeSchedulesJob {
	return &RecomputeSchedulesJob{
		schedule:  schedule,
		reader:    reader,
		optimizer: optimizer,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		timeout: time.Minute,
		logger:  logger.With("component", "recompute_schedules_job"),
	}
}

// Start registers the job and starts the scheduler.
func (j *RecomputeSchedulesJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()
		j.RunOnce(ctx)
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Recompute schedules job started", "schedule", j.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running recomputation to finish.
func (j *RecomputeSchedulesJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Recompute schedules job stopped")
}

// RunOnce recomputes every courier with active routes and returns how many
// schedules were recomputed. A failing courier does not stop the others.
func (j *RecomputeSchedulesJob) RunOnce(ctx context.Context) int {
	query, err := queries.NewGetActiveRoutesQuery(nil)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to build active routes query", "error", err)
		return 0
	}

	views, err := j.reader.Handle(ctx, query)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to read active routes", "error", err)
		return 0
	}

	recomputed := 0
	for _, courierID := range distinctCouriers(views) {
		if ctx.Err() != nil {
			break
		}

		cmd, err := commands.NewOptimizeCourierRouteCommand(courierID, "")
		if err != nil {
			j.logger.ErrorContext(ctx, "Invalid courier in active routes", "courier_id", courierID.String(), "error", err)
			continue
		}

		res, err := j.optimizer.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Schedule recomputation failed", "courier_id", courierID.String(), "error", err)
			continue
		}
		if res.Outcome == commands.OutcomeDegraded {
			j.logger.WarnContext(ctx, "Schedule recomputed in degraded mode",
				"courier_id", courierID.String(), "degradations", res.Degradations)
		}
		recomputed++
	}

	return recomputed
}

func distinctCouriers(views []queries.RouteView) []kernel.UUID {
	seen := make(map[kernel.UUID]struct{}, len(views))
	out := make([]kernel.UUID, 0, len(views))
	for _, v := range views {
		if _, ok := seen[v.CourierID]; ok {
			continue
		}
		seen[v.CourierID] = struct{}{}
		out = append(out, v.CourierID)
	}
	return out
}
