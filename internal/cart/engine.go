package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/wimpyapp/ordering/internal/logging"
	"github.com/wimpyapp/ordering/internal/models"
	"github.com/wimpyapp/ordering/internal/storage"
)

// Engine is the customer's cart: lines in insertion order, at most one per
// product id. Each mutation is persisted before it returns.
type Engine struct {
	mu    sync.Mutex
	kv    storage.KV
	lines []models.CartLine
}

func NewEngine(kv storage.KV) *Engine {
	return &Engine{kv: kv}
}

// Load replaces the in-memory cart with the persisted one. A corrupt value
// leaves the cart empty.
func (e *Engine) Load(ctx context.Context) error {
	l := logging.FromContext(ctx).With("svc", "cart.load")

	raw, ok, err := e.kv.Get(ctx, storage.Durable, storage.KeyCart)
	if err != nil {
		l.Error("cart_read_error", "error", err)
		return fmt.Errorf("load cart: %w", err)
	}

	var lines []models.CartLine
	if ok {
		if err := json.Unmarshal([]byte(raw), &lines); err != nil {
			l.Warn("cart_corrupt", "error", err)
			lines = nil
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lines = sanitize(lines)
	l.Debug("cart_loaded", "lines", len(e.lines))
	return nil
}

// sanitize merges duplicate ids and floors quantities at 1 for lines read
// from storage.
func sanitize(in []models.CartLine) []models.CartLine {
	out := make([]models.CartLine, 0, len(in))
	idx := make(map[string]int, len(in))
	for _, line := range in {
		if line.Quantity < 1 {
			line.Quantity = 1
		}
		if i, dup := idx[line.ProductID]; dup {
			out[i].Quantity += line.Quantity
			continue
		}
		idx[line.ProductID] = len(out)
		out = append(out, line)
	}
	return out
}

func (e *Engine) find(productID string) int {
	for i := range e.lines {
		if e.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// persist must be called with mu held.
func (e *Engine) persist(ctx context.Context) error {
	lines := e.lines
	if lines == nil {
		lines = []models.CartLine{}
	}
	if err := storage.SaveJSON(ctx, e.kv, storage.Durable, storage.KeyCart, lines); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}

// Add increments the line for productID or appends a new one with quantity 1.
func (e *Engine) Add(ctx context.Context, productID, name string, price int64, awardsPoints bool) (models.CartLine, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.find(productID)
	if i >= 0 {
		e.lines[i].Quantity++
	} else {
		e.lines = append(e.lines, models.CartLine{
			ProductID:    productID,
			Name:         name,
			UnitPrice:    price,
			AwardsPoints: awardsPoints,
			Quantity:     1,
		})
		i = len(e.lines) - 1
	}
	return e.lines[i], e.persist(ctx)
}

// Remove deletes the line for productID. It reports whether a line existed.
func (e *Engine) Remove(ctx context.Context, productID string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.find(productID)
	if i < 0 {
		return false, nil
	}
	e.lines = append(e.lines[:i], e.lines[i+1:]...)
	return true, e.persist(ctx)
}

// SetQuantity sets the line's quantity floored at 1; it never removes a line
// and never creates one.
func (e *Engine) SetQuantity(ctx context.Context, productID string, quantity int) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.find(productID)
	if i < 0 {
		return false, nil
	}
	if quantity < 1 {
		quantity = 1
	}
	e.lines[i].Quantity = quantity
	return true, e.persist(ctx)
}

func (e *Engine) Clear(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.lines = nil
	return e.persist(ctx)
}

func (e *Engine) Lines() []models.CartLine {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]models.CartLine, len(e.lines))
	copy(out, e.lines)
	return out
}

func (e *Engine) LineCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.lines)
}

// ItemCount is the badge number: the sum of quantities.
func (e *Engine) ItemCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ItemCount(e.lines)
}

func (e *Engine) Subtotal() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Subtotal(e.lines)
}

func (e *Engine) Empty() bool {
	return e.LineCount() == 0
}

func ItemCount(lines []models.CartLine) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

func Subtotal(lines []models.CartLine) int64 {
	var total int64
	for _, l := range lines {
		total += l.Total()
	}
	return total
}
