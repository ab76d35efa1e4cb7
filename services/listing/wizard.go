package listing

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"sync"

	"flamesblue/gateway"
	"flamesblue/models"
	"flamesblue/utils"

	"go.uber.org/zap"
)

// lastStep is the pricing/insurance step; submission only happens from here.
const lastStep = 2

// placeholderOwnerID tags submitted listings until the backend contract
// carries the real authenticated identity.
const placeholderOwnerID = "me"

var (
	ErrAtLastStep    = errors.New("already at the last step")
	ErrAtFirstStep   = errors.New("already at the first step")
	ErrNotLastStep   = errors.New("submission is only allowed from the last step")
	ErrFlowDiscarded = errors.New("listing wizard has been discarded")
)

// DraftPatch carries partial draft updates; nil fields are left untouched.
type DraftPatch struct {
	Category     *models.VehicleCategory
	Title        *string
	Description  *string
	HasInsurance *bool
	PricePerDay  *string
}

// Wizard is the three-step listing flow: category/title, photos, then
// pricing/insurance. It accumulates a draft and submits it as a whole from
// the last step. No field validation happens on the way through; the backend
// owns rejection of incomplete drafts.
type Wizard struct {
	mu        sync.Mutex
	gw        gateway.Gateway
	draft     models.ListingDraft
	step      int
	discarded bool
	onDone    func()
}

// NewWizard creates a wizard at step 0 with a fresh draft. onDone fires once,
// whether the draft was submitted or abandoned; callers cannot tell which.
func NewWizard(gw gateway.Gateway, onDone func()) *Wizard {
	return &Wizard{
		gw:     gw,
		draft:  models.ListingDraft{Category: models.CategoryCar},
		onDone: onDone,
	}
}

// Step returns the current step index (0..2).
func (w *Wizard) Step() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Draft returns a copy of the working draft.
func (w *Wizard) Draft() models.ListingDraft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

// Advance moves one step forward. It refuses to move past the last step and
// changes nothing in that case.
func (w *Wizard) Advance() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.discarded {
		return ErrFlowDiscarded
	}
	if w.step >= lastStep {
		return ErrAtLastStep
	}
	w.step++
	return nil
}

// Retreat moves one step back, refusing to move before step 0.
func (w *Wizard) Retreat() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.discarded {
		return ErrFlowDiscarded
	}
	if w.step <= 0 {
		return ErrAtFirstStep
	}
	w.step--
	return nil
}

// Update merges the patch into the draft. Updates are accepted at any step.
func (w *Wizard) Update(p DraftPatch) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.discarded {
		return
	}
	if p.Category != nil {
		w.draft.Category = *p.Category
	}
	if p.Title != nil {
		w.draft.Title = *p.Title
	}
	if p.Description != nil {
		w.draft.Description = *p.Description
	}
	if p.HasInsurance != nil {
		w.draft.HasInsurance = *p.HasInsurance
	}
	if p.PricePerDay != nil {
		w.draft.PricePerDay = *p.PricePerDay
	}
}

// Submit dispatches the draft and reports done. The submission is
// fire-and-forget: the outcome of the CreateListing call does not change what
// the caller observes, only the log. The wizard is finished either way.
func (w *Wizard) Submit(ctx context.Context) error {
	w.mu.Lock()
	if w.discarded {
		w.mu.Unlock()
		return ErrFlowDiscarded
	}
	if w.step != lastStep {
		w.mu.Unlock()
		return ErrNotLastStep
	}
	in := gateway.CreateListingInput{
		OwnerID:      placeholderOwnerID,
		Category:     w.draft.Category,
		Title:        w.draft.Title,
		Description:  w.draft.Description,
		Photos:       []string{},
		HasInsurance: w.draft.HasInsurance,
		PricePerDay:  coercePrice(w.draft.PricePerDay),
	}
	w.mu.Unlock()

	if _, err := w.gw.CreateListing(ctx, in); err != nil {
		utils.GetLogger().Warn("listing submission failed", zap.Error(err))
	}

	w.finish()
	return nil
}

// Abandon reports done without submitting anything.
func (w *Wizard) Abandon() {
	w.finish()
}

// Discard marks the wizard dead; a submission still in flight resolves
// without reporting done.
func (w *Wizard) Discard() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.discarded = true
}

func (w *Wizard) finish() {
	w.mu.Lock()
	if w.discarded {
		w.mu.Unlock()
		return
	}
	onDone := w.onDone
	w.mu.Unlock()

	if onDone != nil {
		onDone()
	}
}

// coercePrice turns the raw price input into a number. Anything unparseable
// becomes NaN; the backend is the one that rejects it.
func coercePrice(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
