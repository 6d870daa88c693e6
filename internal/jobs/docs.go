// Package jobs provides scheduled background tasks for the pickup service.
//
// Jobs use github.com/robfig/cron/v3 with a seconds field and are started and
// stopped together through JobManager:
//
//	manager := jobs.NewJobManager(backlogJob, autoDispatchJob)
//	if err := manager.StartAll(); err != nil {
//		return err
//	}
//	defer manager.StopAll()
//
// # Available Jobs
//
// 1. BacklogStatsJob - refreshes the job and collector gauges (default every 15 seconds)
// 2. AutoDispatchJob - dispatches every Pending job from its own location (off by default)
//
// # Error Handling
//
// AutoDispatchJob makes ordinary dispatch calls. NoCandidates, OutOfRange, Conflict
// and InvalidState are normal outcomes of a sweep and are only counted; any other
// error is logged.
package jobs
