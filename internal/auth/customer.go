package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wimpyapp/ordering/internal/inflight"
	"github.com/wimpyapp/ordering/internal/logging"
	"github.com/wimpyapp/ordering/internal/models"
	"github.com/wimpyapp/ordering/internal/remote"
	"github.com/wimpyapp/ordering/internal/transport"
)

type State string

const (
	StatePhoneEntry    State = "phoneEntry"
	StateNotFound      State = "notFound"
	StateNoPasswordSet State = "noPasswordSet"
	StateHasPassword   State = "hasPassword"
	StatePinRequested  State = "pinRequested"
	StatePinVerified   State = "pinVerified"
	StateAuthenticated State = "authenticated"
)

var (
	ErrIllegalTransition = errors.New("auth: operation not allowed in current state")
	// ErrSuperseded is returned when the flow was restarted while the
	// request was pending; the response is discarded.
	ErrSuperseded = errors.New("auth: flow restarted while request was pending")
)

type CustomerAPI interface {
	CheckUser(ctx context.Context, phone string) (transport.CheckUserResult, error)
	RequestPassword(ctx context.Context, phone string) error
	VerifyPin(ctx context.Context, phone, pin string) error
	CreatePassword(ctx context.Context, phone, password string) (transport.CreatePasswordResult, error)
	LoginPassword(ctx context.Context, phone, password string) (transport.LoginResult, error)
}

// CustomerFlow walks a customer from phone entry to an authenticated
// session. The lock is never held across a remote call.
type CustomerFlow struct {
	api      CustomerAPI
	inflight *inflight.Tracker
	now      func() time.Time

	mu      sync.Mutex
	state   State
	phone   string
	gen     uint64
	session *models.CustomerSession
}

func NewCustomerFlow(api CustomerAPI, tracker *inflight.Tracker) *CustomerFlow {
	if tracker == nil {
		tracker = inflight.New()
	}
	return &CustomerFlow{
		api:      api,
		inflight: tracker,
		now:      time.Now,
		state:    StatePhoneEntry,
	}
}

func (f *CustomerFlow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *CustomerFlow) Phone() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phone
}

// Session is set once the flow reaches StateAuthenticated.
func (f *CustomerFlow) Session() *models.CustomerSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.session == nil {
		return nil
	}
	s := *f.session
	return &s
}

// Restart returns to phone entry and drops any pending response.
func (f *CustomerFlow) Restart() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StatePhoneEntry
	f.phone = ""
	f.session = nil
	f.gen++
}

type ticket struct {
	phone string
	gen   uint64
	done  func()
}

func (f *CustomerFlow) begin(op, action string, from State) (ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != from {
		return ticket{}, fmt.Errorf("%w: %s in %s", ErrIllegalTransition, op, f.state)
	}
	done, err := f.inflight.Begin(action)
	if err != nil {
		return ticket{}, err
	}
	return ticket{phone: f.phone, gen: f.gen, done: done}, nil
}

// commit must be called with mu held.
func (f *CustomerFlow) commit(t ticket, to State) error {
	if t.gen != f.gen {
		return ErrSuperseded
	}
	f.state = to
	return nil
}

// SubmitPhone looks the phone up and moves to NotFound, NoPasswordSet or
// HasPassword. Invalid input never reaches the network.
func (f *CustomerFlow) SubmitPhone(ctx context.Context, phone string) (State, error) {
	l := logging.FromContext(ctx).With("svc", "auth.submit_phone")

	phone = normalizePhone(phone)
	if err := ValidatePhone(phone); err != nil {
		return f.State(), err
	}

	t, err := f.begin("submit phone", remote.ActionCheckUser, StatePhoneEntry)
	if err != nil {
		return f.State(), err
	}
	defer t.done()

	res, err := f.api.CheckUser(ctx, phone)
	if err != nil {
		l.Warn("check_user_failed", "error", err)
		return f.State(), err
	}

	next := StateHasPassword
	switch {
	case res.IsNewUser:
		next = StateNotFound
	case !res.HasPassword:
		next = StateNoPasswordSet
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.commit(t, next); err != nil {
		return f.state, err
	}
	f.phone = phone
	l.Info("phone_checked", "state", string(next))
	return next, nil
}

// SubmitPassword logs in a customer that already has a password.
func (f *CustomerFlow) SubmitPassword(ctx context.Context, password string) (*models.CustomerSession, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if err := ValidateLoginPassword(password); err != nil {
		return nil, err
	}
	t, err := f.begin("submit password", remote.ActionLoginPassword, StateHasPassword)
	if err != nil {
		return nil, err
	}
	defer t.done()

	res, err := f.api.LoginPassword(ctx, t.phone, password)
	if err != nil {
		l.Warn("login_failed", "error", err)
		return nil, err
	}

	createdAt := res.CreatedAt
	if createdAt == "" {
		createdAt = models.Stamp(f.now())
	}
	return f.authenticate(t, models.CustomerSession{Phone: t.phone, Email: res.Email, CreatedAt: createdAt})
}

func (f *CustomerFlow) authenticate(t ticket, s models.CustomerSession) (*models.CustomerSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.commit(t, StateAuthenticated); err != nil {
		return nil, err
	}
	f.session = &s
	out := s
	return &out, nil
}

// RequestPin asks the service to mail a PIN to a customer without a password.
func (f *CustomerFlow) RequestPin(ctx context.Context) error {
	return f.sendPin(ctx, "request pin", StateNoPasswordSet)
}

// ResendPin dispatches a fresh PIN without leaving the PIN screen.
func (f *CustomerFlow) ResendPin(ctx context.Context) error {
	return f.sendPin(ctx, "resend pin", StatePinRequested)
}

// ForgotPassword re-enters the PIN sub-flow for the phone already checked.
func (f *CustomerFlow) ForgotPassword(ctx context.Context) error {
	return f.sendPin(ctx, "forgot password", StateHasPassword)
}

func (f *CustomerFlow) sendPin(ctx context.Context, op string, from State) error {
	l := logging.FromContext(ctx).With("svc", "auth.request_pin")

	t, err := f.begin(op, remote.ActionRequestPassword, from)
	if err != nil {
		return err
	}
	defer t.done()

	if err := f.api.RequestPassword(ctx, t.phone); err != nil {
		l.Warn("request_pin_failed", "op", op, "error", err)
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.commit(t, StatePinRequested); err != nil {
		return err
	}
	l.Info("pin_requested", "op", op)
	return nil
}

func (f *CustomerFlow) SubmitPin(ctx context.Context, pin string) error {
	l := logging.FromContext(ctx).With("svc", "auth.verify_pin")

	if err := ValidatePin(pin); err != nil {
		return err
	}
	t, err := f.begin("submit pin", remote.ActionVerifyPin, StatePinRequested)
	if err != nil {
		return err
	}
	defer t.done()

	if err := f.api.VerifyPin(ctx, t.phone, pin); err != nil {
		l.Warn("verify_pin_failed", "error", err)
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.commit(t, StatePinVerified)
}

// CreatePassword sets the customer's first password and opens a session.
func (f *CustomerFlow) CreatePassword(ctx context.Context, password, confirm string) (*models.CustomerSession, error) {
	l := logging.FromContext(ctx).With("svc", "auth.create_password")

	if err := ValidateNewPassword(password, confirm); err != nil {
		return nil, err
	}
	t, err := f.begin("create password", remote.ActionCreatePassword, StatePinVerified)
	if err != nil {
		return nil, err
	}
	defer t.done()

	res, err := f.api.CreatePassword(ctx, t.phone, password)
	if err != nil {
		l.Warn("create_password_failed", "error", err)
		return nil, err
	}
	return f.authenticate(t, models.CustomerSession{
		Phone:     t.phone,
		Email:     res.Email,
		CreatedAt: models.Stamp(f.now()),
	})
}
