// Package jobs provides scheduled background tasks for the dispatch service.
//
// Jobs are built on github.com/robfig/cron/v3 and call the same command and
// query handlers as the HTTP and broker adapters.
//
// # Available Jobs
//
// RecomputeSchedulesJob reads all active routes, and for every courier that
// holds one runs OptimizeCourierRoute with the default mode. Recomputation is
// idempotent, so a run only rewrites couriers whose stored schedule drifted,
// for example a route left at sequence 0 when assignment failed after the
// route was written.
//
// # Usage
//
//	jobManager := jobs.NewJobManager("@every 30s", activeRoutesHandler, optimizeHandler, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules use the cron parser with an optional seconds field, so both
// "*/30 * * * * *" and descriptors such as "@every 30s" are accepted. A run
// that is still in progress when the next tick fires makes that tick skip.
//
// # Error Handling
//
//   - A failure to read active routes aborts the run and is logged
//   - A failing courier is logged and the run continues with the next one
//   - Degraded recomputations are logged as warnings
package jobs
