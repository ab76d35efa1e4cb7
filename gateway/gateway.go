package gateway

import (
	"context"

	"flamesblue/models"
)

// CreateListingInput is the payload for publishing a new vehicle listing.
// PricePerDay is already coerced to a number by the caller; the backend is
// responsible for rejecting nonsense values.
type CreateListingInput struct {
	OwnerID      string                 `json:"owner_id"`
	Category     models.VehicleCategory `json:"type"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	Photos       []string               `json:"photos"`
	HasInsurance bool                   `json:"has_insurance"`
	PricePerDay  float64                `json:"price_per_day"`
}

// Gateway issues the remote operations the client depends on. Every call is a
// single request/response attempt: no retries, no caching, no timeouts here.
type Gateway interface {
	// SendCode asks the backend to deliver a one-time code to the phone.
	SendCode(ctx context.Context, phone string) error
	// VerifyCode round-trips the entered code; a nil error means it was valid.
	VerifyCode(ctx context.Context, phone, code string) error
	// CreateListing publishes a listing and returns its identifier.
	CreateListing(ctx context.Context, in CreateListingInput) (string, error)
	// ListVehicles fetches the full catalog snapshot.
	ListVehicles(ctx context.Context) ([]models.VehicleListing, error)
	// SendChatMessage sends one support message and returns the reply text.
	SendChatMessage(ctx context.Context, userID, message string) (string, error)
}
