package models

// VehicleCategory is the kind of vehicle a listing offers.
type VehicleCategory string

const (
	CategoryBike VehicleCategory = "bike"
	CategoryCar  VehicleCategory = "car"
)

// VehicleListing is a published listing as returned by the backend.
// Read-only on the client.
type VehicleListing struct {
	ID           string          `json:"_id"`
	OwnerID      string          `json:"owner_id"`
	Category     VehicleCategory `json:"type"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Photos       []string        `json:"photos"`
	HasInsurance bool            `json:"has_insurance"`
	PricePerDay  float64         `json:"price_per_day"`
}

// ListingDraft is the wizard's working copy of a not-yet-submitted listing.
// PricePerDay stays raw user input until submit time; coercion to a number
// happens only when the draft is dispatched.
type ListingDraft struct {
	Category     VehicleCategory `json:"type"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	HasInsurance bool            `json:"has_insurance"`
	PricePerDay  string          `json:"price_per_day"`
}
