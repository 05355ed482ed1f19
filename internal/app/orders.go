package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/wimpyapp/ordering/internal/apperr"
	"github.com/wimpyapp/ordering/internal/checkout"
	"github.com/wimpyapp/ordering/internal/events"
	"github.com/wimpyapp/ordering/internal/logging"
	"github.com/wimpyapp/ordering/internal/models"
	"github.com/wimpyapp/ordering/internal/navigation"
	"github.com/wimpyapp/ordering/internal/remote"
	"github.com/wimpyapp/ordering/internal/transport"
)

// AddToCart adds one unit of a catalog product.
func (a *App) AddToCart(ctx context.Context, productID string) (models.CartLine, error) {
	phone, err := a.customerPhone()
	if err != nil {
		return models.CartLine{}, err
	}
	p, ok := a.cache.Product(productID)
	if !ok {
		return models.CartLine{}, a.fail(apperr.Validation(MsgProductUnavailable), "")
	}

	line, err := a.cart.Add(ctx, p.ID, p.Name, p.Price, p.AwardsPoints)
	if err != nil {
		logging.FromContext(ctx).Error("cart_persist_failed", "svc", "app.add_to_cart", "error", err)
		return line, a.fail(err, MsgCartSaveFailed)
	}
	a.publish(ctx, events.TopicCart, phone, map[string]any{
		"type":      "add_cart_items",
		"phone":     phone,
		"productID": p.ID,
		"quantity":  line.Quantity,
	})
	a.notify(LevelSuccess, fmt.Sprintf(MsgAddedToCart, p.Name))
	return line, nil
}

func (a *App) RemoveFromCart(ctx context.Context, productID string) error {
	phone, err := a.customerPhone()
	if err != nil {
		return err
	}
	removed, err := a.cart.Remove(ctx, productID)
	if err != nil {
		logging.FromContext(ctx).Error("cart_persist_failed", "svc", "app.remove_from_cart", "error", err)
		return a.fail(err, MsgCartSaveFailed)
	}
	if removed {
		a.publish(ctx, events.TopicCart, phone, map[string]any{
			"type":      "cart_item_deleted",
			"phone":     phone,
			"productID": productID,
		})
	}
	return nil
}

func (a *App) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	phone, err := a.customerPhone()
	if err != nil {
		return err
	}
	found, err := a.cart.SetQuantity(ctx, productID, quantity)
	if err != nil {
		logging.FromContext(ctx).Error("cart_persist_failed", "svc", "app.update_quantity", "error", err)
		return a.fail(err, MsgCartSaveFailed)
	}
	if found {
		a.publish(ctx, events.TopicCart, phone, map[string]any{
			"type":         "cart_quantity_set",
			"phone":        phone,
			"productID":    productID,
			"new_quantity": max(1, quantity),
		})
	}
	return nil
}

func (a *App) quote(points int64) checkout.Quote {
	return checkout.Calculate(a.cart.Lines(), points, a.cache.Points(), a.cache.Configuration().RedemptionRate())
}

// OpenCheckout opens the order confirmation with no points applied. The
// redemption rate is fetched first when it has never been loaded.
func (a *App) OpenCheckout(ctx context.Context) (checkout.Quote, error) {
	if _, err := a.customerPhone(); err != nil {
		return checkout.Quote{}, err
	}
	if a.cart.Empty() {
		a.notify(LevelWarning, MsgCartEmpty)
		return checkout.Quote{}, apperr.Validation(MsgCartEmpty)
	}
	if !a.cache.ConfigLoaded() {
		if err := a.cache.LoadConfiguration(ctx); err != nil {
			logging.FromContext(ctx).Warn("redemption_rate_unavailable", "svc", "app.open_checkout", "error", err)
		}
	}

	a.mu.Lock()
	a.checkout = &checkoutState{}
	a.mu.Unlock()
	return a.quote(0), nil
}

// SetPointsToUse recomputes the quote. A request above the balance is
// clamped to the balance and the user is warned.
func (a *App) SetPointsToUse(ctx context.Context, points int64) (checkout.Quote, error) {
	a.mu.Lock()
	if a.checkout == nil {
		a.mu.Unlock()
		return checkout.Quote{}, ErrCheckoutClosed
	}
	a.mu.Unlock()

	q := a.quote(points)
	if q.Clamped {
		a.notify(LevelError, q.Warning())
	}

	a.mu.Lock()
	if a.checkout != nil {
		a.checkout.points = q.PointsApplied
	}
	a.mu.Unlock()
	return q, nil
}

func (a *App) CloseCheckout(ctx context.Context) {
	a.mu.Lock()
	a.checkout = nil
	a.mu.Unlock()
}

func (a *App) checkoutPoints() (int64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.checkout == nil {
		return 0, false
	}
	return a.checkout.points, true
}

// SubmitOrder places the cart as an order. On success the cart is emptied and
// the orders tab is shown with a fresh fetch; on failure nothing changes.
func (a *App) SubmitOrder(ctx context.Context, notes string) error {
	l := logging.FromContext(ctx).With("svc", "app.submit_order")

	phone, err := a.customerPhone()
	if err != nil {
		return err
	}
	lines := a.cart.Lines()
	if len(lines) == 0 {
		a.notify(LevelWarning, MsgCartEmpty)
		return apperr.Validation(MsgCartEmpty)
	}

	done, err := a.inflight.Begin(remote.ActionCreateOrder)
	if err != nil {
		return a.fail(err, "")
	}
	defer done()

	points, _ := a.checkoutPoints()
	q := a.quote(points)

	req := transport.CreateOrderRequest{
		Phone:       phone,
		Items:       lines,
		Notes:       notes,
		PointsToUse: q.PointsApplied,
		Timestamp:   models.Stamp(a.now()),
	}
	if _, err := a.api.CreateOrder(ctx, req); err != nil {
		l.Warn("create_order_failed", "error", err)
		return a.fail(err, MsgOrderFailed)
	}
	l.Info("order_created", "lines", len(lines), "total", q.Total, "points", q.PointsApplied)

	if err := a.cart.Clear(ctx); err != nil {
		l.Error("cart_persist_failed", "error", err)
	}
	a.CloseCheckout(ctx)

	a.publish(ctx, events.TopicOrder, phone, map[string]any{
		"type":        "order_created",
		"phone":       phone,
		"items":       len(lines),
		"total":       q.Total,
		"pointsToUse": q.PointsApplied,
	})
	a.notify(LevelSuccess, MsgOrderPlaced)
	return a.SwitchTab(ctx, navigation.TabOrders)
}

func (a *App) ConfirmOrderReceipt(ctx context.Context, orderID string) error {
	phone, err := a.customerPhone()
	if err != nil {
		return err
	}
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return a.fail(apperr.Validation(MsgReceiptFailed), "")
	}

	done, err := a.inflight.Begin(remote.ActionConfirmOrderReceipt)
	if err != nil {
		return a.fail(err, "")
	}
	defer done()

	if err := a.api.ConfirmOrderReceipt(ctx, orderID, phone); err != nil {
		logging.FromContext(ctx).Warn("confirm_receipt_failed", "svc", "app.confirm_receipt", "order", orderID, "error", err)
		return a.fail(err, MsgReceiptFailed)
	}
	a.publish(ctx, events.TopicOrder, phone, map[string]any{
		"type":    "receipt_confirmed",
		"phone":   phone,
		"orderID": orderID,
	})
	a.notify(LevelSuccess, MsgReceiptConfirmed)

	if err := a.cache.LoadOrders(ctx, phone); err != nil {
		a.notifyErr(err, MsgLoadFailed)
	}
	return nil
}
