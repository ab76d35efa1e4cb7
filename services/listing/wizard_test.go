package listing_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"flamesblue/gateway"
	"flamesblue/models"
	"flamesblue/services/listing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	mu          sync.Mutex
	createCalls []gateway.CreateListingInput
	createFn    func(ctx context.Context, in gateway.CreateListingInput) (string, error)
}

func (f *fakeGateway) SendCode(context.Context, string) error           { return nil }
func (f *fakeGateway) VerifyCode(context.Context, string, string) error { return nil }

func (f *fakeGateway) CreateListing(ctx context.Context, in gateway.CreateListingInput) (string, error) {
	f.mu.Lock()
	f.createCalls = append(f.createCalls, in)
	f.mu.Unlock()
	if f.createFn != nil {
		return f.createFn(ctx, in)
	}
	return "listing-1", nil
}

func (f *fakeGateway) ListVehicles(context.Context) ([]models.VehicleListing, error) {
	return nil, nil
}

func (f *fakeGateway) SendChatMessage(context.Context, string, string) (string, error) {
	return "", nil
}

func (f *fakeGateway) calls() []gateway.CreateListingInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]gateway.CreateListingInput, len(f.createCalls))
	copy(out, f.createCalls)
	return out
}

func strptr(s string) *string { return &s }

func TestWizardStartsFresh(t *testing.T) {
	w := listing.NewWizard(&fakeGateway{}, nil)

	assert.Equal(t, 0, w.Step())
	draft := w.Draft()
	assert.Equal(t, models.CategoryCar, draft.Category)
	assert.Empty(t, draft.Title)
	assert.Empty(t, draft.PricePerDay)
}

func TestAdvanceAndRetreatBounds(t *testing.T) {
	w := listing.NewWizard(&fakeGateway{}, nil)

	require.ErrorIs(t, w.Retreat(), listing.ErrAtFirstStep)
	require.NoError(t, w.Advance())
	require.NoError(t, w.Advance())
	assert.Equal(t, 2, w.Step())

	require.ErrorIs(t, w.Advance(), listing.ErrAtLastStep)
	assert.Equal(t, 2, w.Step())

	require.NoError(t, w.Retreat())
	assert.Equal(t, 1, w.Step())
}

func TestAdvanceRequiresNoFields(t *testing.T) {
	// Progression with a completely empty draft is allowed; the backend owns
	// rejection of incomplete listings.
	w := listing.NewWizard(&fakeGateway{}, nil)

	require.NoError(t, w.Advance())
	require.NoError(t, w.Advance())
	assert.Equal(t, 2, w.Step())
}

func TestUpdateMergesDraft(t *testing.T) {
	w := listing.NewWizard(&fakeGateway{}, nil)
	bike := models.CategoryBike

	w.Update(listing.DraftPatch{Category: &bike, Title: strptr("City Bike")})
	w.Update(listing.DraftPatch{PricePerDay: strptr("12")})

	draft := w.Draft()
	assert.Equal(t, models.CategoryBike, draft.Category)
	assert.Equal(t, "City Bike", draft.Title)
	assert.Equal(t, "12", draft.PricePerDay)
}

func TestSubmitOnlyFromLastStep(t *testing.T) {
	gw := &fakeGateway{}
	w := listing.NewWizard(gw, nil)

	err := w.Submit(context.Background())

	require.ErrorIs(t, err, listing.ErrNotLastStep)
	assert.Empty(t, gw.calls())
}

func TestSubmitDispatchesCoercedDraft(t *testing.T) {
	gw := &fakeGateway{}
	done := 0
	w := listing.NewWizard(gw, func() { done++ })

	w.Update(listing.DraftPatch{Title: strptr("Sedan"), PricePerDay: strptr("45")})
	require.NoError(t, w.Advance())
	require.NoError(t, w.Advance())
	require.NoError(t, w.Submit(context.Background()))

	calls := gw.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, models.CategoryCar, calls[0].Category)
	assert.Equal(t, "Sedan", calls[0].Title)
	assert.Equal(t, float64(45), calls[0].PricePerDay)
	assert.Equal(t, "me", calls[0].OwnerID)
	assert.NotNil(t, calls[0].Photos)
	assert.Equal(t, 1, done)
}

func TestSubmitCoercesJunkPriceToNaN(t *testing.T) {
	gw := &fakeGateway{}
	w := listing.NewWizard(gw, nil)

	require.NoError(t, w.Advance())
	require.NoError(t, w.Advance())
	require.NoError(t, w.Submit(context.Background()))

	calls := gw.calls()
	require.Len(t, calls, 1)
	assert.True(t, math.IsNaN(calls[0].PricePerDay))
}

func TestSubmitReportsDoneEvenOnFailure(t *testing.T) {
	gw := &fakeGateway{
		createFn: func(context.Context, gateway.CreateListingInput) (string, error) {
			return "", errors.New("backend rejected listing")
		},
	}
	done := 0
	w := listing.NewWizard(gw, func() { done++ })

	require.NoError(t, w.Advance())
	require.NoError(t, w.Advance())
	require.NoError(t, w.Submit(context.Background()))

	assert.Equal(t, 1, done)
}

func TestAbandonReportsDoneWithoutSubmitting(t *testing.T) {
	gw := &fakeGateway{}
	done := 0
	w := listing.NewWizard(gw, func() { done++ })

	w.Abandon()

	assert.Equal(t, 1, done)
	assert.Empty(t, gw.calls())
}

func TestDiscardedWizardStopsReporting(t *testing.T) {
	done := 0
	w := listing.NewWizard(&fakeGateway{}, func() { done++ })

	w.Discard()
	w.Abandon()

	require.ErrorIs(t, w.Advance(), listing.ErrFlowDiscarded)
	assert.Equal(t, 0, done)
}
