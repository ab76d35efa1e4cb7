package booking_test

import (
	"context"
	"errors"
	"testing"

	"flamesblue/gateway"
	"flamesblue/models"
	"flamesblue/services/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	listFn func(ctx context.Context) ([]models.VehicleListing, error)
}

func (f *fakeGateway) SendCode(context.Context, string) error           { return nil }
func (f *fakeGateway) VerifyCode(context.Context, string, string) error { return nil }

func (f *fakeGateway) CreateListing(context.Context, gateway.CreateListingInput) (string, error) {
	return "", nil
}

func (f *fakeGateway) ListVehicles(ctx context.Context) ([]models.VehicleListing, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return nil, nil
}

func (f *fakeGateway) SendChatMessage(context.Context, string, string) (string, error) {
	return "", nil
}

func TestLoadPopulatesCatalog(t *testing.T) {
	gw := &fakeGateway{
		listFn: func(context.Context) ([]models.VehicleListing, error) {
			return []models.VehicleListing{
				{ID: "v1", Title: "Sedan", Category: models.CategoryCar, PricePerDay: 45},
				{ID: "v2", Title: "Scooter", Category: models.CategoryBike, PricePerDay: 10},
			}, nil
		},
	}
	flow := booking.NewFlow(gw)

	flow.Load(context.Background())

	vehicles := flow.Vehicles()
	require.Len(t, vehicles, 2)
	assert.Equal(t, "Sedan", vehicles[0].Title)
}

func TestLoadFailureLeavesCatalogEmpty(t *testing.T) {
	gw := &fakeGateway{
		listFn: func(context.Context) ([]models.VehicleListing, error) {
			return nil, errors.New("backend unreachable")
		},
	}
	flow := booking.NewFlow(gw)

	flow.Load(context.Background())

	assert.Empty(t, flow.Vehicles())
}

func TestSelectionIsRecorded(t *testing.T) {
	flow := booking.NewFlow(&fakeGateway{})

	flow.SelectDate("2026-09-15")
	flow.SelectVehicle("v1")

	assert.Equal(t, "2026-09-15", flow.SelectedDate())
	assert.Equal(t, "v1", flow.SelectedVehicleID())
}

func TestDiscardedFlowIgnoresLateCatalog(t *testing.T) {
	gw := &fakeGateway{
		listFn: func(context.Context) ([]models.VehicleListing, error) {
			return []models.VehicleListing{{ID: "v1"}}, nil
		},
	}
	flow := booking.NewFlow(gw)

	flow.Discard()
	flow.Load(context.Background())

	assert.Empty(t, flow.Vehicles())
}
