// Package delivery provides the pacing policy and the command value object
// for ad delivery.
package delivery

// Block reasons surfaced to callers and used as metric labels.
const (
	ReasonStreamerHourlyCapReached = "streamer_hourly_cap_reached"
	ReasonSessionCapReached        = "session_cap_reached"
	ReasonCampaignPacingReached    = "campaign_pacing_reached"
)

// PacingInputs are the observed counters for one dispatch attempt. The two
// hourly counters cover the trailing 60 minutes; the session counter covers
// the whole current session with no time bound.
type PacingInputs struct {
	HourlyDelivered        int64
	SessionDelivered       int64
	CampaignHourlyCommands int64
}

// Caps are the configured upper bounds from the campaign's active flight.
type Caps struct {
	CapPerStreamerPerHour int
	CapPerSession         int
	PacingPerHour         int
}

// Decision is the outcome of a pacing evaluation. Reason is set only when
// the delivery is blocked.
type Decision struct {
	Allowed bool
	Reason  string
}

// EvaluateDeliveryCaps applies the three pacing constraints in a fixed
// order; the first violated cap determines the surfaced reason. All
// comparisons are inclusive: a counter already at its cap blocks the next
// attempt.
func EvaluateDeliveryCaps(inputs PacingInputs, caps Caps) Decision {
	if inputs.HourlyDelivered >= int64(caps.CapPerStreamerPerHour) {
		return Decision{Allowed: false, Reason: ReasonStreamerHourlyCapReached}
	}
	if inputs.SessionDelivered >= int64(caps.CapPerSession) {
		return Decision{Allowed: false, Reason: ReasonSessionCapReached}
	}
	if inputs.CampaignHourlyCommands >= int64(caps.PacingPerHour) {
		return Decision{Allowed: false, Reason: ReasonCampaignPacingReached}
	}
	return Decision{Allowed: true}
}
