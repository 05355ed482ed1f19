// Package app is the single owner of the ordering client's state. Every user
// intent enters here; the app drives the auth flows, navigation, cart and
// loaders, and records what the user should be told in the notification queue.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/wimpyapp/ordering/internal/apperr"
	"github.com/wimpyapp/ordering/internal/auth"
	"github.com/wimpyapp/ordering/internal/cart"
	"github.com/wimpyapp/ordering/internal/events"
	"github.com/wimpyapp/ordering/internal/inflight"
	"github.com/wimpyapp/ordering/internal/loaders"
	"github.com/wimpyapp/ordering/internal/logging"
	"github.com/wimpyapp/ordering/internal/models"
	"github.com/wimpyapp/ordering/internal/navigation"
	"github.com/wimpyapp/ordering/internal/storage"
	"github.com/wimpyapp/ordering/internal/transport"
)

var (
	ErrConfirmationRequired = errors.New("app: confirmation required")
	ErrNotAuthenticated     = errors.New("app: no active session")
	ErrCheckoutClosed       = errors.New("app: checkout is not open")
)

// API is everything the app needs from the remote service.
type API interface {
	auth.CustomerAPI
	auth.AdminAPI
	loaders.API
	CreateOrder(ctx context.Context, req transport.CreateOrderRequest) (json.RawMessage, error)
	ConfirmOrderReceipt(ctx context.Context, orderID, phone string) error
	UpdateConfiguration(ctx context.Context, cfg models.Configuration) error
	CreateClient(ctx context.Context, req transport.CreateClientRequest) error
	CreateEnterprise(ctx context.Context, req transport.CreateEnterpriseRequest) error
	CreateProduct(ctx context.Context, req transport.CreateProductRequest) error
}

type Deps struct {
	API    API
	Store  storage.KV
	Events events.Publisher
	// Now defaults to time.Now.
	Now func() time.Time
}

type checkoutState struct {
	points int64
}

type App struct {
	api      API
	sessions *storage.Sessions
	events   events.Publisher
	now      func() time.Time

	inflight *inflight.Tracker
	cart     *cart.Engine
	cache    *loaders.Cache
	nav      *navigation.Controller
	customer *auth.CustomerFlow
	admin    *auth.AdminFlow
	notes    *Notifications

	mu              sync.Mutex
	customerSession *models.CustomerSession
	adminSession    *models.AdminSession
	checkout        *checkoutState
}

func New(d Deps) *App {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	pub := d.Events
	if pub == nil {
		pub = events.Nop{}
	}
	tracker := inflight.New()

	a := &App{
		api:      d.API,
		sessions: &storage.Sessions{KV: d.Store},
		events:   pub,
		now:      now,
		inflight: tracker,
		cart:     cart.NewEngine(d.Store),
		cache:    loaders.New(d.API),
		nav:      navigation.New(),
		customer: auth.NewCustomerFlow(d.API, tracker),
		admin:    auth.NewAdminFlow(d.API, tracker),
		notes:    NewNotifications(defaultNotificationCap),
	}
	a.wireNavigation()
	return a
}

func (a *App) wireNavigation() {
	a.nav.OnTab(navigation.TabCatalog, navigation.Loader{Name: "products", Run: a.cache.LoadCatalog})
	a.nav.OnTab(navigation.TabPoints, navigation.Loader{Name: "points", Run: a.withPhone(a.cache.LoadPoints)})
	a.nav.OnTab(navigation.TabOrders, navigation.Loader{Name: "orders", Run: a.withPhone(a.cache.LoadOrders)})

	a.nav.OnTab(navigation.TabConfig, navigation.Loader{Name: "configuration", Run: a.cache.LoadConfiguration})
	a.nav.OnTab(navigation.TabClients, navigation.Loader{Name: "clients", Run: a.cache.LoadClients})
	a.nav.OnTab(navigation.TabProducts, navigation.Loader{Name: "products_table", Run: a.cache.LoadProductsTable})
	a.nav.OnTab(navigation.TabEnterprises, navigation.Loader{Name: "enterprises", Run: a.cache.LoadEnterprises})

	a.nav.OnEnter(navigation.ClientDashboard,
		navigation.Loader{Name: "user_data", Run: a.withPhone(a.cache.LoadUserData)},
		navigation.Loader{Name: "products", Run: a.cache.LoadCatalog},
	)
	a.nav.OnEnter(navigation.AdminDashboard,
		navigation.Loader{Name: "configuration", Run: a.cache.LoadConfiguration},
		navigation.Loader{Name: "clients", Run: a.cache.LoadClients},
		navigation.Loader{Name: "products_table", Run: a.cache.LoadProductsTable},
		navigation.Loader{Name: "enterprises", Run: a.cache.LoadEnterprises},
	)
}

func (a *App) withPhone(load func(context.Context, string) error) func(context.Context) error {
	return func(ctx context.Context) error {
		phone, err := a.customerPhone()
		if err != nil {
			return err
		}
		return load(ctx, phone)
	}
}

func (a *App) customerPhone() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.customerSession == nil {
		return "", ErrNotAuthenticated
	}
	return a.customerSession.Phone, nil
}

func (a *App) hasAdmin() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.adminSession != nil
}

// Bootstrap restores the cart and any persisted session, then lands on the
// matching dashboard or home.
func (a *App) Bootstrap(ctx context.Context) error {
	l := logging.FromContext(ctx).With("svc", "app.bootstrap")

	if err := a.cart.Load(ctx); err != nil {
		return err
	}

	cs, err := a.sessions.Customer(ctx)
	if err != nil {
		l.Warn("customer_session_unreadable", "error", err)
		_ = a.sessions.ClearCustomer(ctx)
		cs = nil
	}
	if cs != nil {
		a.mu.Lock()
		a.customerSession = cs
		a.mu.Unlock()
		l.Info("customer_session_restored")
		a.enterDashboard(ctx, navigation.ClientDashboard)
		return nil
	}

	as, err := a.sessions.Admin(ctx)
	if err != nil {
		l.Warn("admin_session_unreadable", "error", err)
		_ = a.sessions.ClearAdmin(ctx)
		as = nil
	}
	if as != nil && auth.TokenExpired(as.Token, a.now()) {
		l.Info("admin_session_expired")
		if err := a.sessions.ClearAdmin(ctx); err != nil {
			l.Warn("admin_session_clear_failed", "error", err)
		}
		as = nil
	}
	if as != nil {
		a.mu.Lock()
		a.adminSession = as
		a.mu.Unlock()
		l.Info("admin_session_restored")
		a.enterDashboard(ctx, navigation.AdminDashboard)
		return nil
	}

	return a.nav.Go(navigation.Home)
}

// enterDashboard runs the bootstrap loaders; their failures become
// notifications, never intent errors.
func (a *App) enterDashboard(ctx context.Context, dashboard navigation.Screen) {
	if err := a.nav.EnterDashboard(ctx, dashboard); err != nil {
		if errors.Is(err, navigation.ErrIllegalTransition) {
			logging.FromContext(ctx).Error("enter_dashboard_refused", "dashboard", string(dashboard), "error", err)
			return
		}
		a.notifyErr(err, MsgLoadFailed)
	}
}

func (a *App) notify(level Level, message string) {
	a.notes.Push(level, message, a.now())
}

// notifyErr queues the user-facing text for err. Superseded responses are
// silent.
func (a *App) notifyErr(err error, fallback string) {
	if errors.Is(err, auth.ErrSuperseded) {
		return
	}
	level := LevelError
	if errors.Is(err, apperr.ErrInFlight) {
		level = LevelWarning
	}
	a.notify(level, apperr.UserMessage(err, fallback))
}

func (a *App) fail(err error, fallback string) error {
	a.notifyErr(err, fallback)
	return err
}

func (a *App) publish(ctx context.Context, topic, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	event["at"] = models.Stamp(a.now())
	if err := a.events.Publish(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Warn("publish_failed", "topic", topic, "type", event["type"], "error", err)
	}
}

// Notifications drains the queue.
func (a *App) Notifications() []Notification {
	return a.notes.Drain()
}
