package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/wimpyapp/ordering/internal/auth"
	"github.com/wimpyapp/ordering/internal/events"
	"github.com/wimpyapp/ordering/internal/logging"
	"github.com/wimpyapp/ordering/internal/models"
	"github.com/wimpyapp/ordering/internal/navigation"
)

var flowScreens = map[auth.State]navigation.Screen{
	auth.StatePhoneEntry:    navigation.ClientLogin,
	auth.StateNotFound:      navigation.ClientNotFound,
	auth.StateNoPasswordSet: navigation.ClientNoPassword,
	auth.StateHasPassword:   navigation.ClientPassword,
	auth.StatePinRequested:  navigation.PinVerification,
	auth.StatePinVerified:   navigation.CreatePassword,
	auth.StateAuthenticated: navigation.ClientDashboard,
}

// GoHome leaves a login screen. Dashboards are only left through logout.
func (a *App) GoHome(ctx context.Context) error {
	if navigation.IsDashboard(a.nav.Screen()) {
		return fmt.Errorf("%w: log out to leave the dashboard", navigation.ErrIllegalTransition)
	}
	a.customer.Restart()
	return a.nav.Go(navigation.Home)
}

// GoToClientLogin starts the customer flow over from phone entry.
func (a *App) GoToClientLogin(ctx context.Context) error {
	if err := a.nav.Go(navigation.ClientLogin); err != nil {
		return err
	}
	a.customer.Restart()
	return nil
}

func (a *App) GoToAdminLogin(ctx context.Context) error {
	return a.nav.Go(navigation.AdminLogin)
}

// SwitchTab changes the dashboard tab. A failing loader is reported as a
// notification; the tab still changes.
func (a *App) SwitchTab(ctx context.Context, tab navigation.Tab) error {
	err := a.nav.SwitchTab(ctx, tab)
	if err == nil {
		return nil
	}
	if errors.Is(err, navigation.ErrIllegalTransition) {
		return err
	}
	a.notifyErr(err, MsgLoadFailed)
	return nil
}

func (a *App) followFlow() error {
	screen, ok := flowScreens[a.customer.State()]
	if !ok || screen == navigation.ClientDashboard {
		return nil
	}
	return a.nav.Go(screen)
}

func (a *App) SubmitPhone(ctx context.Context, phone string) error {
	if a.nav.Screen() != navigation.ClientLogin {
		return fmt.Errorf("%w: phone entry from %s", navigation.ErrIllegalTransition, a.nav.Screen())
	}
	if _, err := a.customer.SubmitPhone(ctx, phone); err != nil {
		return a.fail(err, MsgCheckUserFailed)
	}
	return a.followFlow()
}

func (a *App) SubmitPassword(ctx context.Context, password string) error {
	s, err := a.customer.SubmitPassword(ctx, password)
	if err != nil {
		return a.fail(err, MsgWrongPassword)
	}
	return a.startCustomerSession(ctx, *s, MsgWelcome)
}

func (a *App) RequestPin(ctx context.Context) error {
	if err := a.customer.RequestPin(ctx); err != nil {
		return a.fail(err, MsgRequestPinFailed)
	}
	a.notify(LevelSuccess, MsgPinSent)
	return a.followFlow()
}

func (a *App) ResendPin(ctx context.Context) error {
	if err := a.customer.ResendPin(ctx); err != nil {
		return a.fail(err, MsgRequestPinFailed)
	}
	a.notify(LevelInfo, MsgPinResent)
	return nil
}

func (a *App) ForgotPassword(ctx context.Context) error {
	if err := a.customer.ForgotPassword(ctx); err != nil {
		return a.fail(err, MsgRequestPinFailed)
	}
	a.notify(LevelInfo, MsgPinForgot)
	return a.followFlow()
}

func (a *App) SubmitPin(ctx context.Context, pin string) error {
	if err := a.customer.SubmitPin(ctx, pin); err != nil {
		return a.fail(err, MsgPinInvalid)
	}
	return a.followFlow()
}

func (a *App) CreatePassword(ctx context.Context, password, confirm string) error {
	s, err := a.customer.CreatePassword(ctx, password, confirm)
	if err != nil {
		return a.fail(err, MsgCreatePasswordFailed)
	}
	return a.startCustomerSession(ctx, *s, MsgPasswordCreated)
}

// RestartLogin returns a customer in any login step to phone entry.
func (a *App) RestartLogin(ctx context.Context) error {
	return a.GoToClientLogin(ctx)
}

// startCustomerSession persists s, drops any admin session and enters the
// customer dashboard.
func (a *App) startCustomerSession(ctx context.Context, s models.CustomerSession, welcome string) error {
	l := logging.FromContext(ctx).With("svc", "app.customer_session")

	if err := a.sessions.SaveCustomer(ctx, s); err != nil {
		l.Error("save_session_failed", "error", err)
		return a.fail(err, MsgCreatePasswordFailed)
	}
	if err := a.sessions.ClearAdmin(ctx); err != nil {
		l.Warn("clear_admin_session_failed", "error", err)
	}

	a.mu.Lock()
	a.customerSession = &s
	a.adminSession = nil
	a.mu.Unlock()

	a.publish(ctx, events.TopicSession, s.Phone, map[string]any{
		"type":  "customer_logged_in",
		"phone": s.Phone,
	})
	a.notify(LevelSuccess, welcome)
	a.enterDashboard(ctx, navigation.ClientDashboard)
	return nil
}

// Logout ends the customer session and empties the cart. confirmed must be
// true; the caller is expected to have asked MsgConfirmLogout.
func (a *App) Logout(ctx context.Context, confirmed bool) error {
	l := logging.FromContext(ctx).With("svc", "app.logout")

	phone, err := a.customerPhone()
	if err != nil {
		return err
	}
	if !confirmed {
		return ErrConfirmationRequired
	}

	if err := a.sessions.ClearCustomer(ctx); err != nil {
		l.Error("clear_session_failed", "error", err)
		return a.fail(err, MsgLoadFailed)
	}
	if err := a.cart.Clear(ctx); err != nil {
		l.Warn("clear_cart_failed", "error", err)
	}

	a.mu.Lock()
	a.customerSession = nil
	a.checkout = nil
	a.mu.Unlock()

	a.cache.ResetCustomer()
	a.customer.Restart()
	if err := a.nav.Go(navigation.Home); err != nil {
		return err
	}

	a.publish(ctx, events.TopicSession, phone, map[string]any{
		"type":  "customer_logged_out",
		"phone": phone,
	})
	a.notify(LevelInfo, MsgLoggedOut)
	return nil
}

func (a *App) AdminLogin(ctx context.Context, password string) error {
	l := logging.FromContext(ctx).With("svc", "app.admin_session")

	if a.nav.Screen() != navigation.AdminLogin {
		return fmt.Errorf("%w: admin login from %s", navigation.ErrIllegalTransition, a.nav.Screen())
	}
	s, err := a.admin.Login(ctx, password)
	if err != nil {
		return a.fail(err, MsgWrongPassword)
	}

	if err := a.sessions.SaveAdmin(ctx, *s); err != nil {
		l.Error("save_session_failed", "error", err)
		return a.fail(err, MsgLoadFailed)
	}
	if err := a.sessions.ClearCustomer(ctx); err != nil {
		l.Warn("clear_customer_session_failed", "error", err)
	}

	a.mu.Lock()
	a.adminSession = s
	a.customerSession = nil
	a.mu.Unlock()

	a.publish(ctx, events.TopicSession, "admin", map[string]any{"type": "admin_logged_in"})
	a.notify(LevelSuccess, MsgAdminWelcome)
	a.enterDashboard(ctx, navigation.AdminDashboard)
	return nil
}

func (a *App) AdminLogout(ctx context.Context, confirmed bool) error {
	if !a.hasAdmin() {
		return ErrNotAuthenticated
	}
	if !confirmed {
		return ErrConfirmationRequired
	}
	if err := a.sessions.ClearAdmin(ctx); err != nil {
		logging.FromContext(ctx).Error("clear_session_failed", "svc", "app.admin_logout", "error", err)
		return a.fail(err, MsgLoadFailed)
	}

	a.mu.Lock()
	a.adminSession = nil
	a.mu.Unlock()

	if err := a.nav.Go(navigation.Home); err != nil {
		return err
	}
	a.publish(ctx, events.TopicSession, "admin", map[string]any{"type": "admin_logged_out"})
	a.notify(LevelInfo, MsgAdminLoggedOut)
	return nil
}
