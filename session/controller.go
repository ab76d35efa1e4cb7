package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"flamesblue/gateway"
	"flamesblue/models"
	"flamesblue/services/auth"
	"flamesblue/services/booking"
	"flamesblue/services/listing"
	"flamesblue/services/support"
	"flamesblue/utils"

	"go.uber.org/zap"
)

var (
	ErrNotOnDashboard = errors.New("navigation is only possible from the dashboard")
	ErrNoBackTarget   = errors.New("nothing to go back from on this stage")
	ErrBadDestination = errors.New("unknown navigation destination")
)

// Controller is the root state machine of a session. It owns the current
// stage and the authenticated identity, and it constructs and discards the
// sub-flow belonging to each stage. Every stage entry bumps a generation
// counter; sub-flow completions carry the generation they were created under
// and are dropped when it no longer matches, so a response that arrives after
// its stage was left can never touch the current stage's state.
type Controller struct {
	mu sync.Mutex

	gw       gateway.Gateway
	stage    models.Stage
	identity *models.Identity
	gen      uint64

	splashDwell time.Duration
	splashTimer *time.Timer

	authFlow    *auth.Flow
	wizard      *listing.Wizard
	bookingFlow *booking.Flow
	supportChat *support.Chat
}

// NewController creates a session at the splash stage. splashDwell is how
// long the splash screen is shown before the automatic move to auth.
func NewController(gw gateway.Gateway, splashDwell time.Duration) *Controller {
	return &Controller{
		gw:          gw,
		stage:       models.StageSplash,
		splashDwell: splashDwell,
	}
}

// Start arms the splash timer. The Splash → Auth transition fires by itself
// once the dwell elapses; no user input is involved.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.splashTimer != nil {
		return
	}
	c.splashTimer = time.AfterFunc(c.splashDwell, c.finishSplash)
}

func (c *Controller) finishSplash() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stage != models.StageSplash {
		return
	}
	c.enterLocked(models.StageAuth)
}

// Stage returns the current stage.
func (c *Controller) Stage() models.Stage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stage
}

// Identity returns the authenticated identity, or nil before authentication.
func (c *Controller) Identity() *models.Identity {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.identity == nil {
		return nil
	}
	id := *c.identity
	return &id
}

// AuthFlow returns the live auth sub-flow, or nil off the auth stage.
func (c *Controller) AuthFlow() *auth.Flow {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authFlow
}

// Wizard returns the live listing wizard, or nil off the listing stage.
func (c *Controller) Wizard() *listing.Wizard {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.wizard
}

// BookingFlow returns the live browse flow, or nil off the booking stage.
func (c *Controller) BookingFlow() *booking.Flow {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bookingFlow
}

// SupportChat returns the live support chat, or nil off the support stage.
func (c *Controller) SupportChat() *support.Chat {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.supportChat
}

// Navigate moves from the dashboard into one of the three feature stages.
func (c *Controller) Navigate(to models.Stage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stage != models.StageDashboard {
		return ErrNotOnDashboard
	}
	switch to {
	case models.StageListVehicle, models.StageBooking, models.StageSupport:
		c.enterLocked(to)
		return nil
	default:
		return ErrBadDestination
	}
}

// Back returns to the dashboard. From the listing stage this is an explicit
// abandon of the wizard; from booking and support it is plain back-navigation.
func (c *Controller) Back() error {
	c.mu.Lock()
	switch c.stage {
	case models.StageListVehicle:
		w := c.wizard
		c.mu.Unlock()
		w.Abandon()
		return nil
	case models.StageBooking, models.StageSupport:
		c.enterLocked(models.StageDashboard)
		c.mu.Unlock()
		return nil
	default:
		c.mu.Unlock()
		return ErrNoBackTarget
	}
}

// enterLocked discards the current stage's sub-flow and constructs the next
// stage's one with fresh state. Callers hold c.mu.
func (c *Controller) enterLocked(stage models.Stage) {
	c.discardFlowsLocked()
	c.gen++
	gen := c.gen
	c.stage = stage

	switch stage {
	case models.StageAuth:
		c.authFlow = auth.NewFlow(c.gw, func(id models.Identity) {
			c.completeAuth(gen, id)
		})
	case models.StageListVehicle:
		c.wizard = listing.NewWizard(c.gw, func() {
			c.completeWizard(gen)
		})
	case models.StageBooking:
		flow := booking.NewFlow(c.gw)
		c.bookingFlow = flow
		go flow.Load(context.Background())
	case models.StageSupport:
		c.supportChat = support.NewChat(c.gw)
	}

	utils.GetLogger().Debug("entered stage", zap.String("stage", string(stage)))
}

func (c *Controller) discardFlowsLocked() {
	if c.authFlow != nil {
		c.authFlow.Discard()
		c.authFlow = nil
	}
	if c.wizard != nil {
		c.wizard.Discard()
		c.wizard = nil
	}
	if c.bookingFlow != nil {
		c.bookingFlow.Discard()
		c.bookingFlow = nil
	}
	if c.supportChat != nil {
		c.supportChat.Discard()
		c.supportChat = nil
	}
}

// completeAuth stores the identity and moves to the dashboard. A completion
// from a generation other than the live one is a stale straggler and is
// dropped.
func (c *Controller) completeAuth(gen uint64, id models.Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen || c.stage != models.StageAuth {
		utils.GetLogger().Debug("dropping stale auth completion", zap.Uint64("gen", gen))
		return
	}
	c.identity = &id
	c.enterLocked(models.StageDashboard)
}

// completeWizard returns to the dashboard once the wizard reports done,
// whether the draft was submitted or abandoned.
func (c *Controller) completeWizard(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen || c.stage != models.StageListVehicle {
		utils.GetLogger().Debug("dropping stale wizard completion", zap.Uint64("gen", gen))
		return
	}
	c.enterLocked(models.StageDashboard)
}
