package delivery

import "github.com/adbeam/adbeam/internal/shared/errors"

// Animation enumerates overlay render animations.
type Animation string

const (
	AnimationFade  Animation = "fade"
	AnimationSlide Animation = "slide"
	AnimationPulse Animation = "pulse"
)

func (a Animation) IsValid() bool {
	return a == AnimationFade || a == AnimationSlide || a == AnimationPulse
}

// Duration bounds for one rendered ad.
const (
	MinDurationSec     = 1
	MaxDurationSec     = 120
	DefaultDurationSec = 15
)

// Command is the ephemeral instruction pushed to an overlay. It is never
// persisted; its proof trail lives in the event ledger, correlated by
// CommandID.
type Command struct {
	CommandID   string    `json:"commandId"`
	CampaignID  string    `json:"campaignId"`
	CreativeID  string    `json:"creativeId"`
	DurationSec int       `json:"durationSec"`
	AssetURL    string    `json:"assetUrl"`
	ClickURL    string    `json:"clickUrl,omitempty"`
	Animation   Animation `json:"animation"`
}

// Validate checks the command shape before it is pushed.
func (c *Command) Validate() error {
	if c.CommandID == "" {
		return errors.NewValidationError("command id is required")
	}
	if c.CampaignID == "" {
		return errors.NewValidationError("campaign id is required")
	}
	if c.CreativeID == "" {
		return errors.NewValidationError("creative id is required")
	}
	if c.DurationSec < MinDurationSec || c.DurationSec > MaxDurationSec {
		return errors.NewValidationError("duration out of range")
	}
	if c.AssetURL == "" {
		return errors.NewValidationError("asset url is required")
	}
	if !c.Animation.IsValid() {
		return errors.NewValidationError("unknown animation", string(c.Animation))
	}
	return nil
}
