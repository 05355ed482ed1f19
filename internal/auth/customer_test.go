package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wimpyapp/ordering/internal/apperr"
	"github.com/wimpyapp/ordering/internal/inflight"
	"github.com/wimpyapp/ordering/internal/remote"
	"github.com/wimpyapp/ordering/internal/transport"
)

type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	check      transport.CheckUserResult
	checkErr   error
	requestErr error
	pinErr     error
	loginErr   error
	createErr  error

	// block, when set, is waited on inside CheckUser.
	block chan struct{}
	// entered is closed once a blocked call has started.
	entered chan struct{}
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) CheckUser(ctx context.Context, phone string) (transport.CheckUserResult, error) {
	f.record("checkUser:" + phone)
	if f.block != nil {
		close(f.entered)
		<-f.block
	}
	return f.check, f.checkErr
}

func (f *fakeAPI) RequestPassword(ctx context.Context, phone string) error {
	f.record("requestPassword:" + phone)
	return f.requestErr
}

func (f *fakeAPI) VerifyPin(ctx context.Context, phone, pin string) error {
	f.record("verifyPin:" + phone + ":" + pin)
	return f.pinErr
}

func (f *fakeAPI) CreatePassword(ctx context.Context, phone, password string) (transport.CreatePasswordResult, error) {
	f.record("createPassword:" + phone)
	return transport.CreatePasswordResult{Email: "ana@example.com"}, f.createErr
}

func (f *fakeAPI) LoginPassword(ctx context.Context, phone, password string) (transport.LoginResult, error) {
	f.record("loginPassword:" + phone)
	if f.loginErr != nil {
		return transport.LoginResult{}, f.loginErr
	}
	return transport.LoginResult{Email: "ana@example.com", CreatedAt: "2024-01-02T03:04:05.000Z"}, nil
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 4, 5, 6, 7, 8_000_000, time.UTC)
}

func newFlow(api *fakeAPI) *CustomerFlow {
	f := NewCustomerFlow(api, inflight.New())
	f.now = fixedNow
	return f
}

func TestSubmitPhone_Branches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		check transport.CheckUserResult
		want  State
	}{
		{name: "new user", check: transport.CheckUserResult{IsNewUser: true}, want: StateNotFound},
		{name: "no password", check: transport.CheckUserResult{HasPassword: false}, want: StateNoPasswordSet},
		{name: "has password", check: transport.CheckUserResult{HasPassword: true}, want: StateHasPassword},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			api := &fakeAPI{check: tt.check}
			f := newFlow(api)

			got, err := f.SubmitPhone(context.Background(), "  300 123 4567 ")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "300 123 4567", f.Phone())
			assert.Equal(t, []string{"checkUser:300 123 4567"}, api.Calls())
		})
	}
}

func TestSubmitPhone_InvalidNeverCallsRemote(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{}
	f := newFlow(api)

	_, err := f.SubmitPhone(context.Background(), "12-34")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Empty(t, api.Calls())
	assert.Equal(t, StatePhoneEntry, f.State())
}

func TestNotFound_NoPasswordOrPinReachable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	api := &fakeAPI{check: transport.CheckUserResult{IsNewUser: true}}
	f := newFlow(api)

	_, err := f.SubmitPhone(ctx, "3001234567")
	require.NoError(t, err)

	_, err = f.SubmitPassword(ctx, "1234")
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.ErrorIs(t, f.RequestPin(ctx), ErrIllegalTransition)
	assert.ErrorIs(t, f.SubmitPin(ctx, "123456"), ErrIllegalTransition)
	assert.ErrorIs(t, f.ForgotPassword(ctx), ErrIllegalTransition)
	_, err = f.CreatePassword(ctx, "1234", "1234")
	assert.ErrorIs(t, err, ErrIllegalTransition)
	_, err = f.SubmitPhone(ctx, "3001234567")
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Len(t, api.Calls(), 1)

	f.Restart()
	assert.Equal(t, StatePhoneEntry, f.State())
	assert.Empty(t, f.Phone())
}

func TestPinPath_ToAuthenticated(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	api := &fakeAPI{}
	f := newFlow(api)

	_, err := f.SubmitPhone(ctx, "3001234567")
	require.NoError(t, err)
	require.Equal(t, StateNoPasswordSet, f.State())

	require.NoError(t, f.RequestPin(ctx))
	assert.Equal(t, StatePinRequested, f.State())

	require.NoError(t, f.ResendPin(ctx))
	assert.Equal(t, StatePinRequested, f.State())

	assert.ErrorIs(t, f.SubmitPin(ctx, "123"), apperr.ErrValidation)
	require.NoError(t, f.SubmitPin(ctx, "654321"))
	assert.Equal(t, StatePinVerified, f.State())

	_, err = f.CreatePassword(ctx, "1234", "4321")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, StatePinVerified, f.State())

	s, err := f.CreatePassword(ctx, "1234", "1234")
	require.NoError(t, err)
	assert.Equal(t, "3001234567", s.Phone)
	assert.Equal(t, "ana@example.com", s.Email)
	assert.Equal(t, "2026-03-04T05:06:07.008Z", s.CreatedAt)
	assert.Equal(t, StateAuthenticated, f.State())
	assert.Equal(t, s, f.Session())

	assert.Equal(t, []string{
		"checkUser:3001234567",
		"requestPassword:3001234567",
		"requestPassword:3001234567",
		"verifyPin:3001234567:654321",
		"createPassword:3001234567",
	}, api.Calls())
}

func TestSubmitPassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	api := &fakeAPI{check: transport.CheckUserResult{HasPassword: true}}
	f := newFlow(api)

	_, err := f.SubmitPhone(ctx, "3001234567")
	require.NoError(t, err)

	_, err = f.SubmitPassword(ctx, "12")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	api.loginErr = apperr.Rejected(remote.ActionLoginPassword, "Contraseña incorrecta")
	_, err = f.SubmitPassword(ctx, "9999")
	assert.ErrorIs(t, err, apperr.ErrRejected)
	assert.Equal(t, StateHasPassword, f.State())

	api.loginErr = nil
	s, err := f.SubmitPassword(ctx, "1234")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02T03:04:05.000Z", s.CreatedAt)
	assert.Equal(t, StateAuthenticated, f.State())
}

func TestForgotPassword_DispatchesPin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	api := &fakeAPI{check: transport.CheckUserResult{HasPassword: true}}
	f := newFlow(api)

	_, err := f.SubmitPhone(ctx, "3001234567")
	require.NoError(t, err)
	require.NoError(t, f.ForgotPassword(ctx))
	assert.Equal(t, StatePinRequested, f.State())
	assert.Contains(t, api.Calls(), "requestPassword:3001234567")
}

func TestRequestPin_FailureKeepsState(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	api := &fakeAPI{requestErr: apperr.Connectivity(remote.ActionRequestPassword, errors.New("dial"))}
	f := newFlow(api)

	_, err := f.SubmitPhone(ctx, "3001234567")
	require.NoError(t, err)
	assert.ErrorIs(t, f.RequestPin(ctx), apperr.ErrConnectivity)
	assert.Equal(t, StateNoPasswordSet, f.State())
}

func TestSubmitPhone_InFlightAndRestart(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	api := &fakeAPI{
		check:   transport.CheckUserResult{HasPassword: true},
		block:   make(chan struct{}),
		entered: make(chan struct{}),
	}
	tracker := inflight.New()
	f := NewCustomerFlow(api, tracker)

	type result struct {
		state State
		err   error
	}
	first := make(chan result, 1)
	go func() {
		s, err := f.SubmitPhone(ctx, "3001234567")
		first <- result{s, err}
	}()
	<-api.entered

	assert.True(t, tracker.Pending(remote.ActionCheckUser))
	assert.Equal(t, StatePhoneEntry, f.State())

	_, err := f.SubmitPhone(ctx, "3001234567")
	assert.ErrorIs(t, err, apperr.ErrInFlight)

	f.Restart()
	close(api.block)
	r := <-first
	assert.ErrorIs(t, r.err, ErrSuperseded)
	assert.Equal(t, StatePhoneEntry, f.State())
	assert.False(t, tracker.Pending(remote.ActionCheckUser))
}
