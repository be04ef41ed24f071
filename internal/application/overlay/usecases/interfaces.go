package usecases

// OperatorBroadcaster fans events out to connected operator dashboards.
// All calls are best effort; implementations must never block the caller.
type OperatorBroadcaster interface {
	BroadcastOverlayStatus(channelID string, status any)
	BroadcastOverlayHeartbeat(channelID string, data any)
}

// TaskRunner schedules best-effort side work off the request path.
type TaskRunner interface {
	Submit(name string, fn func())
}

// MetricsRecorder counts ingest outcomes.
type MetricsRecorder interface {
	EventIngested(eventType string)
}
