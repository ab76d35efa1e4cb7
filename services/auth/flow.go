package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"flamesblue/gateway"
	"flamesblue/models"
	"flamesblue/utils"

	"go.uber.org/zap"
)

// Phase is the step of the OTP handshake the flow is on.
type Phase string

const (
	PhasePhoneEntry Phase = "phone_entry"
	PhaseCodeEntry  Phase = "code_entry"
)

var (
	ErrPhoneRequired  = errors.New("phone number is required")
	ErrCodeRequired   = errors.New("verification code is required")
	ErrRequestPending = errors.New("a request is already in flight")
	ErrWrongPhase     = errors.New("no code has been sent yet")
	ErrFlowDiscarded  = errors.New("auth flow has been discarded")
)

// Flow drives phone/OTP authentication: a phone number is submitted, the
// backend delivers a code out of band, and the code is round-tripped back for
// verification. On success the flow reports an Identity upward and is done.
//
// The pending flag is the only duplicate-submission guard in the client; it
// covers exactly one outstanding request per phase.
type Flow struct {
	mu        sync.Mutex
	gw        gateway.Gateway
	phase     Phase
	phone     string
	code      string
	pending   bool
	discarded bool
	onSuccess func(models.Identity)
}

// NewFlow creates a fresh auth flow at the phone-entry phase. onSuccess fires
// once, after a successful code verification, and is invoked without any flow
// locks held.
func NewFlow(gw gateway.Gateway, onSuccess func(models.Identity)) *Flow {
	return &Flow{
		gw:        gw,
		phase:     PhasePhoneEntry,
		onSuccess: onSuccess,
	}
}

// Phase returns the current phase.
func (f *Flow) Phase() Phase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}

// Pending reports whether a request is currently outstanding.
func (f *Flow) Pending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending
}

// Phone returns the phone number the flow currently holds.
func (f *Flow) Phone() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phone
}

// SubmitPhone requests code delivery for the given phone number. On success
// the flow moves to code entry; on failure it stays at phone entry and the
// user may retry, with the same number or a different one. A call while a
// request is already pending dispatches nothing.
func (f *Flow) SubmitPhone(ctx context.Context, phone string) error {
	f.mu.Lock()
	if f.discarded {
		f.mu.Unlock()
		return ErrFlowDiscarded
	}
	if phone == "" {
		f.mu.Unlock()
		return ErrPhoneRequired
	}
	if f.pending {
		f.mu.Unlock()
		return ErrRequestPending
	}
	f.pending = true
	f.phone = phone
	f.mu.Unlock()

	err := f.gw.SendCode(ctx, phone)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.discarded {
		// The stage was left while the request was in flight; drop the result.
		return ErrFlowDiscarded
	}
	f.pending = false
	if err != nil {
		utils.GetLogger().Warn("failed to send verification code", zap.Error(err))
		return fmt.Errorf("send code: %w", err)
	}
	f.phase = PhaseCodeEntry
	return nil
}

// SubmitCode verifies the entered code against the backend. On success the
// flow reports Identity{phone} through onSuccess; on failure the phase stays
// at code entry so the user can re-enter a code.
func (f *Flow) SubmitCode(ctx context.Context, code string) error {
	f.mu.Lock()
	if f.discarded {
		f.mu.Unlock()
		return ErrFlowDiscarded
	}
	if code == "" {
		f.mu.Unlock()
		return ErrCodeRequired
	}
	if f.phase != PhaseCodeEntry {
		f.mu.Unlock()
		return ErrWrongPhase
	}
	if f.pending {
		f.mu.Unlock()
		return ErrRequestPending
	}
	f.pending = true
	f.code = code
	phone := f.phone
	f.mu.Unlock()

	err := f.gw.VerifyCode(ctx, phone, code)

	f.mu.Lock()
	if f.discarded {
		f.mu.Unlock()
		return ErrFlowDiscarded
	}
	f.pending = false
	if err != nil {
		f.mu.Unlock()
		utils.GetLogger().Warn("code verification failed", zap.Error(err))
		return fmt.Errorf("verify code: %w", err)
	}
	onSuccess := f.onSuccess
	f.mu.Unlock()

	if onSuccess != nil {
		onSuccess(models.Identity{Phone: phone})
	}
	return nil
}

// Discard marks the flow dead. Any request still in flight resolves into a
// no-op; no state is mutated after this point.
func (f *Flow) Discard() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.discarded = true
}
