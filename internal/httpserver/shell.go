package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wimpyapp/ordering/internal/app"
	"github.com/wimpyapp/ordering/internal/logging"
	"github.com/wimpyapp/ordering/internal/navigation"
	"github.com/wimpyapp/ordering/internal/transport"
)

// ShellHTTP exposes the app intents to a renderer. Every intent answers with
// the snapshot taken after it ran.
type ShellHTTP struct {
	App *app.App
	// ReadyCheck reports whether backing resources are usable; nil means ready.
	ReadyCheck func(ctx context.Context) error
}

type phoneRequest struct {
	Phone string `json:"phone"`
}

type passwordRequest struct {
	Password string `json:"password"`
}

type pinRequest struct {
	Pin string `json:"pin"`
}

type createPasswordRequest struct {
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
}

type confirmRequest struct {
	Confirm bool `json:"confirm"`
}

type tabRequest struct {
	Tab string `json:"tab"`
}

type addItemRequest struct {
	ID string `json:"id"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

type pointsRequest struct {
	Points int64 `json:"points"`
}

type submitOrderRequest struct {
	Notes string `json:"notes"`
}

func (h *ShellHTTP) Ready(c echo.Context) error {
	if h.ReadyCheck != nil {
		if err := h.ReadyCheck(c.Request().Context()); err != nil {
			logging.FromContext(c.Request().Context()).Warn("not_ready", "status", 503, "error", err)
			return c.NoContent(http.StatusServiceUnavailable)
		}
	}
	return c.NoContent(http.StatusOK)
}

func (h *ShellHTTP) State(c echo.Context) error {
	return c.JSON(http.StatusOK, h.App.Snapshot())
}

func (h *ShellHTTP) Notifications(c echo.Context) error {
	return c.JSON(http.StatusOK, h.App.Notifications())
}

func (h *ShellHTTP) Catalog(c echo.Context) error {
	return c.JSON(http.StatusOK, h.App.SearchProducts(c.QueryParam("q")))
}

// run executes fn and answers with the fresh snapshot.
func (h *ShellHTTP) run(c echo.Context, name string, fn func(ctx context.Context) error) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", name)

	if err := fn(ctx); err != nil {
		return fail(c, l, name+"_failed", err)
	}
	l.Info(name + "_success")
	return c.JSON(http.StatusOK, h.App.Snapshot())
}

func badBody(c echo.Context, name string, err error) error {
	logging.FromContext(c.Request().Context()).Warn(name+"_failed",
		"handler", name, "status", 400, "reason", "invalid body", "error", err)
	return errorResponse(c, http.StatusBadRequest, "invalid body")
}

func (h *ShellHTTP) GoHome(c echo.Context) error {
	return h.run(c, "nav_home", h.App.GoHome)
}

func (h *ShellHTTP) GoToClientLogin(c echo.Context) error {
	return h.run(c, "nav_client_login", h.App.GoToClientLogin)
}

func (h *ShellHTTP) GoToAdminLogin(c echo.Context) error {
	return h.run(c, "nav_admin_login", h.App.GoToAdminLogin)
}

func (h *ShellHTTP) SwitchTab(c echo.Context) error {
	var req tabRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, "nav_tab", err)
	}
	return h.run(c, "nav_tab", func(ctx context.Context) error {
		return h.App.SwitchTab(ctx, navigation.Tab(req.Tab))
	})
}

func (h *ShellHTTP) SubmitPhone(c echo.Context) error {
	var req phoneRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, "auth_phone", err)
	}
	return h.run(c, "auth_phone", func(ctx context.Context) error {
		return h.App.SubmitPhone(ctx, req.Phone)
	})
}

func (h *ShellHTTP) SubmitPassword(c echo.Context) error {
	var req passwordRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, "auth_password", err)
	}
	return h.run(c, "auth_password", func(ctx context.Context) error {
		return h.App.SubmitPassword(ctx, req.Password)
	})
}

func (h *ShellHTTP) RequestPin(c echo.Context) error {
	return h.run(c, "auth_pin_request", h.App.RequestPin)
}

func (h *ShellHTTP) ResendPin(c echo.Context) error {
	return h.run(c, "auth_pin_resend", h.App.ResendPin)
}

func (h *ShellHTTP) ForgotPassword(c echo.Context) error {
	return h.run(c, "auth_forgot", h.App.ForgotPassword)
}

func (h *ShellHTTP) SubmitPin(c echo.Context) error {
	var req pinRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, "auth_pin", err)
	}
	return h.run(c, "auth_pin", func(ctx context.Context) error {
		return h.App.SubmitPin(ctx, req.Pin)
	})
}

func (h *ShellHTTP) CreatePassword(c echo.Context) error {
	var req createPasswordRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, "auth_create_password", err)
	}
	return h.run(c, "auth_create_password", func(ctx context.Context) error {
		return h.App.CreatePassword(ctx, req.Password, req.Confirm)
	})
}

func (h *ShellHTTP) RestartLogin(c echo.Context) error {
	return h.run(c, "auth_restart", h.App.RestartLogin)
}

func (h *ShellHTTP) Logout(c echo.Context) error {
	var req confirmRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, "auth_logout", err)
	}
	return h.run(c, "auth_logout", func(ctx context.Context) error {
		return h.App.Logout(ctx, req.Confirm)
	})
}

func (h *ShellHTTP) AddToCart(c echo.Context) error {
	var req addItemRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, "cart_add", err)
	}
	return h.run(c, "cart_add", func(ctx context.Context) error {
		_, err := h.App.AddToCart(ctx, req.ID)
		return err
	})
}

func (h *ShellHTTP) UpdateQuantity(c echo.Context) error {
	var req quantityRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, "cart_quantity", err)
	}
	id := c.Param("id")
	return h.run(c, "cart_quantity", func(ctx context.Context) error {
		return h.App.UpdateQuantity(ctx, id, req.Quantity)
	})
}

func (h *ShellHTTP) RemoveFromCart(c echo.Context) error {
	id := c.Param("id")
	return h.run(c, "cart_remove", func(ctx context.Context) error {
		return h.App.RemoveFromCart(ctx, id)
	})
}

func (h *ShellHTTP) OpenCheckout(c echo.Context) error {
	return h.run(c, "checkout_open", func(ctx context.Context) error {
		_, err := h.App.OpenCheckout(ctx)
		return err
	})
}

func (h *ShellHTTP) SetPointsToUse(c echo.Context) error {
	var req pointsRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, "checkout_points", err)
	}
	return h.run(c, "checkout_points", func(ctx context.Context) error {
		_, err := h.App.SetPointsToUse(ctx, req.Points)
		return err
	})
}

func (h *ShellHTTP) CloseCheckout(c echo.Context) error {
	return h.run(c, "checkout_close", func(ctx context.Context) error {
		h.App.CloseCheckout(ctx)
		return nil
	})
}

func (h *ShellHTTP) SubmitOrder(c echo.Context) error {
	var req submitOrderRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, "checkout_submit", err)
	}
	return h.run(c, "checkout_submit", func(ctx context.Context) error {
		return h.App.SubmitOrder(ctx, req.Notes)
	})
}

func (h *ShellHTTP) ConfirmOrderReceipt(c echo.Context) error {
	id := c.Param("id")
	return h.run(c, "order_confirm_receipt", func(ctx context.Context) error {
		return h.App.ConfirmOrderReceipt(ctx, id)
	})
}

func (h *ShellHTTP) AdminLogin(c echo.Context) error {
	var req passwordRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, "admin_login", err)
	}
	return h.run(c, "admin_login", func(ctx context.Context) error {
		return h.App.AdminLogin(ctx, req.Password)
	})
}

func (h *ShellHTTP) AdminLogout(c echo.Context) error {
	var req confirmRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, "admin_logout", err)
	}
	return h.run(c, "admin_logout", func(ctx context.Context) error {
		return h.App.AdminLogout(ctx, req.Confirm)
	})
}

func (h *ShellHTTP) SaveConfiguration(c echo.Context) error {
	values := map[string]string{}
	if err := c.Bind(&values); err != nil {
		return badBody(c, "admin_config", err)
	}
	return h.run(c, "admin_config", func(ctx context.Context) error {
		return h.App.SaveConfiguration(ctx, values)
	})
}

func (h *ShellHTTP) CreateClient(c echo.Context) error {
	var req transport.CreateClientRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, "admin_create_client", err)
	}
	return h.run(c, "admin_create_client", func(ctx context.Context) error {
		return h.App.CreateClient(ctx, req)
	})
}

func (h *ShellHTTP) EnterprisesForSelect(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_enterprises")

	list, err := h.App.EnterprisesForSelect(ctx)
	if err != nil {
		return fail(c, l, "admin_enterprises_failed", err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *ShellHTTP) CreateEnterprise(c echo.Context) error {
	var req transport.CreateEnterpriseRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, "admin_create_enterprise", err)
	}
	return h.run(c, "admin_create_enterprise", func(ctx context.Context) error {
		return h.App.CreateEnterprise(ctx, req)
	})
}

func (h *ShellHTTP) CreateProduct(c echo.Context) error {
	var req app.ProductInput
	if err := c.Bind(&req); err != nil {
		return badBody(c, "admin_create_product", err)
	}
	return h.run(c, "admin_create_product", func(ctx context.Context) error {
		return h.App.CreateProduct(ctx, req)
	})
}
