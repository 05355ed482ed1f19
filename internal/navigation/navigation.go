// Package navigation is the screen state machine. Screens change only along
// the transition table; dashboards carry tabs whose loaders fire on switch.
package navigation

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/wimpyapp/ordering/internal/logging"
)

type Screen string

const (
	Home             Screen = "home"
	ClientLogin      Screen = "clientLogin"
	ClientNotFound   Screen = "clientNotFound"
	ClientNoPassword Screen = "clientNoPassword"
	ClientPassword   Screen = "clientPassword"
	PinVerification  Screen = "pinVerification"
	CreatePassword   Screen = "createPassword"
	ClientDashboard  Screen = "clientDashboard"
	AdminLogin       Screen = "adminLogin"
	AdminDashboard   Screen = "adminDashboard"
)

type Tab string

const (
	TabCatalog Tab = "catalog"
	TabCart    Tab = "cart"
	TabPoints  Tab = "points"
	TabOrders  Tab = "orders"

	TabConfig      Tab = "config"
	TabClients     Tab = "clients"
	TabProducts    Tab = "products"
	TabEnterprises Tab = "enterprises"
)

var (
	CustomerTabs = []Tab{TabCatalog, TabCart, TabPoints, TabOrders}
	AdminTabs    = []Tab{TabConfig, TabClients, TabProducts, TabEnterprises}
)

var ErrIllegalTransition = errors.New("navigation: transition not allowed")

// transitions lists every non-home edge. Home is reachable from anywhere.
var transitions = map[Screen][]Screen{
	Home:             {ClientLogin, AdminLogin, ClientDashboard, AdminDashboard},
	ClientLogin:      {ClientNotFound, ClientNoPassword, ClientPassword},
	ClientNotFound:   {ClientLogin},
	ClientNoPassword: {PinVerification, ClientLogin},
	ClientPassword:   {ClientDashboard, PinVerification, ClientLogin},
	PinVerification:  {CreatePassword, ClientLogin},
	CreatePassword:   {ClientDashboard, ClientLogin},
	ClientDashboard:  {},
	AdminLogin:       {AdminDashboard},
	AdminDashboard:   {},
}

func Allowed(from, to Screen) bool {
	if _, known := transitions[to]; !known {
		return false
	}
	if to == Home || from == to {
		return true
	}
	return slices.Contains(transitions[from], to)
}

func TabsFor(s Screen) []Tab {
	switch s {
	case ClientDashboard:
		return CustomerTabs
	case AdminDashboard:
		return AdminTabs
	}
	return nil
}

func IsDashboard(s Screen) bool {
	return s == ClientDashboard || s == AdminDashboard
}

type Loader struct {
	Name string
	Run  func(ctx context.Context) error
}

type Controller struct {
	mu        sync.Mutex
	screen    Screen
	tab       Tab
	tabs      map[Tab]Loader
	bootstrap map[Screen][]Loader
}

func New() *Controller {
	return &Controller{
		screen:    Home,
		tabs:      make(map[Tab]Loader),
		bootstrap: make(map[Screen][]Loader),
	}
}

// OnTab registers the loader fired when tab becomes active.
func (c *Controller) OnTab(tab Tab, l Loader) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tabs[tab] = l
}

// OnEnter registers the loaders run, in order, when a dashboard is entered.
func (c *Controller) OnEnter(dashboard Screen, loaders ...Loader) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bootstrap[dashboard] = loaders
}

func (c *Controller) Screen() Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.screen
}

// Tab is empty outside dashboards.
func (c *Controller) Tab() Tab {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tab
}

func (c *Controller) Go(to Screen) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.goLocked(to)
}

func (c *Controller) goLocked(to Screen) error {
	if !Allowed(c.screen, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, c.screen, to)
	}
	if to != c.screen {
		c.tab = ""
	}
	c.screen = to
	return nil
}

// EnterDashboard moves to dashboard, selects its first tab and runs the
// bootstrap loaders. A failing loader does not stop the rest; all failures
// are joined into the returned error.
func (c *Controller) EnterDashboard(ctx context.Context, dashboard Screen) error {
	l := logging.FromContext(ctx).With("svc", "navigation.enter_dashboard")

	if !IsDashboard(dashboard) {
		return fmt.Errorf("%w: %s is not a dashboard", ErrIllegalTransition, dashboard)
	}

	c.mu.Lock()
	if err := c.goLocked(dashboard); err != nil {
		c.mu.Unlock()
		return err
	}
	c.tab = TabsFor(dashboard)[0]
	loaders := slices.Clone(c.bootstrap[dashboard])
	c.mu.Unlock()

	var errs []error
	for _, ld := range loaders {
		if err := ld.Run(ctx); err != nil {
			l.Warn("bootstrap_loader_failed", "dashboard", string(dashboard), "loader", ld.Name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", ld.Name, err))
		}
	}
	return errors.Join(errs...)
}

// SwitchTab activates tab on the current dashboard and fires its loader once.
// Tabs without a loader only change the selection.
func (c *Controller) SwitchTab(ctx context.Context, tab Tab) error {
	c.mu.Lock()
	if !slices.Contains(TabsFor(c.screen), tab) {
		screen := c.screen
		c.mu.Unlock()
		return fmt.Errorf("%w: tab %q on %s", ErrIllegalTransition, tab, screen)
	}
	c.tab = tab
	ld, ok := c.tabs[tab]
	c.mu.Unlock()

	if !ok || ld.Run == nil {
		return nil
	}
	if err := ld.Run(ctx); err != nil {
		logging.FromContext(ctx).Warn("tab_loader_failed", "tab", string(tab), "loader", ld.Name, "error", err)
		return err
	}
	return nil
}
