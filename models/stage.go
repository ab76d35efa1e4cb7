package models

// Stage identifies the top-level screen the session is on.
// Exactly one stage is active at a time; the session controller owns it.
type Stage string

const (
	StageSplash      Stage = "splash"
	StageAuth        Stage = "auth"
	StageDashboard   Stage = "dashboard"
	StageListVehicle Stage = "list"
	StageBooking     Stage = "booking"
	StageSupport     Stage = "support"
)

// Identity is the authenticated user. Set once per session on successful
// OTP verification, never mutated afterwards; a fresh launch starts without one.
type Identity struct {
	Phone string `json:"phone"`
}
