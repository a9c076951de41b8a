// Package operations runs insight generation jobs.
//
// A Job names the insights to generate. Jobs are queued on a JobQueue with
// a fixed number of workers; each worker hands the job to a Runner, which
// loads the master files the selection needs once and then executes the
// selected detectors on a bounded errgroup. A detector that fails is
// recorded on the job and does not stop the others. The job fails only when
// every detector failed.
//
// Progress is pushed to a Broadcaster (the websocket hub in production) as
// job:progress and job:complete events. Job state lives in a JobStore; the
// MemoryJobStore keeps it in process.
package operations
