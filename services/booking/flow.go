package booking

import (
	"context"
	"sync"

	"flamesblue/gateway"
	"flamesblue/models"
	"flamesblue/utils"

	"go.uber.org/zap"
)

// Flow is the browse/booking screen state: the vehicle catalog plus the
// user's transient date and vehicle selection. The catalog is fetched once
// per flow instance; re-entering the stage fetches again.
type Flow struct {
	mu                sync.Mutex
	gw                gateway.Gateway
	vehicles          []models.VehicleListing
	selectedDate      string
	selectedVehicleID string
	discarded         bool
}

// NewFlow creates an empty browse flow. Load fetches the catalog.
func NewFlow(gw gateway.Gateway) *Flow {
	return &Flow{gw: gw}
}

// Load fetches the catalog snapshot. On failure the catalog simply stays
// empty; there is no retry and no error surface on this screen.
func (f *Flow) Load(ctx context.Context) {
	vehicles, err := f.gw.ListVehicles(ctx)
	if err != nil {
		utils.GetLogger().Warn("failed to load vehicle catalog", zap.Error(err))
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.discarded {
		return
	}
	f.vehicles = vehicles
}

// Vehicles returns a copy of the loaded catalog.
func (f *Flow) Vehicles() []models.VehicleListing {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.VehicleListing, len(f.vehicles))
	copy(out, f.vehicles)
	return out
}

// SelectDate records the chosen rental date.
func (f *Flow) SelectDate(date string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.discarded {
		return
	}
	f.selectedDate = date
}

// SelectVehicle records the chosen vehicle.
func (f *Flow) SelectVehicle(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.discarded {
		return
	}
	f.selectedVehicleID = id
}

// SelectedDate returns the chosen rental date, if any.
func (f *Flow) SelectedDate() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selectedDate
}

// SelectedVehicleID returns the chosen vehicle id, if any.
func (f *Flow) SelectedVehicleID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selectedVehicleID
}

// Discard marks the flow dead; a catalog fetch still in flight resolves into
// a no-op.
func (f *Flow) Discard() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.discarded = true
}
