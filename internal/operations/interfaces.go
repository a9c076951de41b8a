package operations

import "context"

// Event types pushed to a Broadcaster
const (
	EventJobProgress = "job:progress"
	EventJobComplete = "job:complete"
)

// Broadcaster receives job events. The websocket hub implements it.
type Broadcaster interface {
	Broadcast(eventType string, data interface{})
}

// ProgressFunc is called by a runner each time one insight finishes
type ProgressFunc func(done, total int, result InsightResult)

// JobRunner executes the insights of one job
type JobRunner interface {
	Run(ctx context.Context, ids []string, progress ProgressFunc) ([]InsightResult, error)
}

type nopBroadcaster struct{}

func (nopBroadcaster) Broadcast(string, interface{}) {}
