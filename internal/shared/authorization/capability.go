package authorization

import "github.com/adbeam/adbeam/internal/shared/errors"

// Capability is one entry of the closed capability enumeration.
type Capability string

const (
	CapabilityTriggerDelivery  Capability = "deliveries:trigger"
	CapabilityRotateOverlayKey Capability = "streamers:rotate_overlay_key"
	CapabilityWatchDashboard   Capability = "dashboard:watch"
)

// roleCapabilities is the full role-to-capability table. Absence means denied.
var roleCapabilities = map[Role]map[Capability]bool{
	RoleAdmin: {
		CapabilityTriggerDelivery:  true,
		CapabilityRotateOverlayKey: true,
		CapabilityWatchDashboard:   true,
	},
	RoleAgency: {
		CapabilityTriggerDelivery: true,
		CapabilityWatchDashboard:  true,
	},
	RoleBrand: {
		CapabilityWatchDashboard: true,
	},
	RoleStreamer: {
		CapabilityRotateOverlayKey: true,
		CapabilityWatchDashboard:   true,
	},
	RoleViewer: {},
}

// HasCapability reports whether role is granted capability.
func HasCapability(role Role, capability Capability) bool {
	caps, ok := roleCapabilities[role]
	if !ok {
		return false
	}
	return caps[capability]
}

// RequireCapability returns a forbidden error when role lacks capability.
func RequireCapability(role Role, capability Capability) error {
	if !HasCapability(role, capability) {
		return errors.NewForbiddenError("insufficient permissions", string(capability))
	}
	return nil
}
