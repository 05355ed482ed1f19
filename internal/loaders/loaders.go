// Package loaders owns the read caches behind every dashboard tab. A load is
// one remote read; success replaces the cached value wholesale, failure keeps
// what was there before.
package loaders

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/wimpyapp/ordering/internal/apperr"
	"github.com/wimpyapp/ordering/internal/logging"
	"github.com/wimpyapp/ordering/internal/models"
	"github.com/wimpyapp/ordering/internal/transport"
)

type API interface {
	GetProducts(ctx context.Context) (transport.ProductsResult, error)
	GetUserData(ctx context.Context, phone string) (transport.UserDataResult, error)
	GetUserOrders(ctx context.Context, phone string) (transport.OrdersResult, error)
	GetUserPoints(ctx context.Context, phone string) (transport.PointsResult, error)
	GetConfiguration(ctx context.Context) (transport.ConfigurationResult, error)
	ListClients(ctx context.Context) (transport.ClientsResult, error)
	ListEnterprises(ctx context.Context) (transport.EnterprisesResult, error)
}

// Placeholders is the catalog shown when the service cannot be reached.
func Placeholders() []models.Product {
	return []models.Product{
		{ID: "1", Name: "Hamburguesa Clásica", Category: "hamburguesas", Price: 15000, Emoji: "🍔", AwardsPoints: true, Active: true},
		{ID: "2", Name: "Hamburguesa Especial", Category: "hamburguesas", Price: 18000, Emoji: "🍔", AwardsPoints: true, Active: true},
		{ID: "3", Name: "Almuerzo Ejecutivo", Category: "almuerzos", Price: 12000, Emoji: "🍽️", AwardsPoints: false, Active: true},
		{ID: "4", Name: "Bebida Refrescante", Category: "bebidas", Price: 3000, Emoji: "🥤", AwardsPoints: true, Active: true},
		{ID: "5", Name: "Postre Delicioso", Category: "postres", Price: 5000, Emoji: "🍰", AwardsPoints: true, Active: true},
	}
}

type Cache struct {
	api API

	mu           sync.RWMutex
	products     []models.Product
	degraded     bool
	orders       []models.Order
	points       int64
	history      []models.PointsHistoryEntry
	clients      []models.Client
	enterprises  []models.Enterprise
	config       models.Configuration
	configLoaded bool
}

func New(api API) *Cache {
	return &Cache{api: api, config: models.Configuration{}}
}

// LoadCatalog refreshes the customer catalog. When the service is
// unreachable the placeholder catalog is installed and marked degraded.
func (c *Cache) LoadCatalog(ctx context.Context) error {
	l := logging.FromContext(ctx).With("svc", "loaders.catalog")

	res, err := c.api.GetProducts(ctx)
	if err != nil {
		if !errors.Is(err, apperr.ErrConnectivity) {
			l.Warn("load_failed", "error", err)
			return err
		}
		l.Warn("catalog_degraded", "error", err)
		c.mu.Lock()
		c.products = Placeholders()
		c.degraded = true
		c.mu.Unlock()
		return nil
	}
	c.setProducts(res.Products)
	return nil
}

// LoadProductsTable refreshes the admin products table. There is no
// placeholder fallback here.
func (c *Cache) LoadProductsTable(ctx context.Context) error {
	res, err := c.api.GetProducts(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn("load_failed", "svc", "loaders.products_table", "error", err)
		return err
	}
	c.setProducts(res.Products)
	return nil
}

func (c *Cache) setProducts(p []models.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = orEmpty(p)
	c.degraded = false
}

// LoadUserData refreshes the points balance and the orders of phone in one read.
func (c *Cache) LoadUserData(ctx context.Context, phone string) error {
	res, err := c.api.GetUserData(ctx, phone)
	if err != nil {
		logging.FromContext(ctx).Warn("load_failed", "svc", "loaders.user_data", "error", err)
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.points = int64(res.Points)
	c.orders = orEmpty(res.Orders)
	return nil
}

func (c *Cache) LoadOrders(ctx context.Context, phone string) error {
	res, err := c.api.GetUserOrders(ctx, phone)
	if err != nil {
		logging.FromContext(ctx).Warn("load_failed", "svc", "loaders.orders", "error", err)
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orders = orEmpty(res.Orders)
	return nil
}

func (c *Cache) LoadPoints(ctx context.Context, phone string) error {
	res, err := c.api.GetUserPoints(ctx, phone)
	if err != nil {
		logging.FromContext(ctx).Warn("load_failed", "svc", "loaders.points", "error", err)
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.points = int64(res.Points)
	c.history = orEmpty(res.History)
	return nil
}

func (c *Cache) LoadConfiguration(ctx context.Context) error {
	res, err := c.api.GetConfiguration(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn("load_failed", "svc", "loaders.configuration", "error", err)
		return err
	}
	cfg := res.Config
	if cfg == nil {
		cfg = models.Configuration{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.config = cfg
	c.configLoaded = true
	return nil
}

func (c *Cache) LoadClients(ctx context.Context) error {
	res, err := c.api.ListClients(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn("load_failed", "svc", "loaders.clients", "error", err)
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clients = orEmpty(res.Clients)
	return nil
}

func (c *Cache) LoadEnterprises(ctx context.Context) error {
	res, err := c.api.ListEnterprises(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn("load_failed", "svc", "loaders.enterprises", "error", err)
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enterprises = orEmpty(res.Enterprises)
	return nil
}

// ResetCustomer drops everything tied to the signed-in customer.
func (c *Cache) ResetCustomer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orders = nil
	c.points = 0
	c.history = nil
}

func (c *Cache) Products() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.products)
}

func (c *Cache) Degraded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.degraded
}

// Product looks a cached product up by id.
func (c *Cache) Product(id string) (models.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// SearchProducts matches query case-insensitively against name or category.
// An empty query returns the whole catalog.
func (c *Cache) SearchProducts(query string) []models.Product {
	q := strings.ToLower(strings.TrimSpace(query))

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Product, 0, len(c.products))
	for _, p := range c.products {
		if q == "" ||
			strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			out = append(out, p)
		}
	}
	return out
}

func (c *Cache) Orders() []models.Order {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.orders)
}

func (c *Cache) Points() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.points
}

func (c *Cache) History() []models.PointsHistoryEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.history)
}

func (c *Cache) Clients() []models.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.clients)
}

func (c *Cache) Enterprises() []models.Enterprise {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.enterprises)
}

func (c *Cache) Configuration() models.Configuration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config.Clone()
}

func (c *Cache) ConfigLoaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.configLoaded
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
