package httpserver

import (
	"github.com/labstack/echo/v4"
)

type Deps struct {
	Shell *ShellHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", d.Shell.Ready)

	api := e.Group("/api")

	api.GET("/state", d.Shell.State)
	api.GET("/notifications", d.Shell.Notifications)
	api.GET("/catalog", d.Shell.Catalog)

	nav := api.Group("/nav")

	nav.POST("/home", d.Shell.GoHome)
	nav.POST("/client-login", d.Shell.GoToClientLogin)
	nav.POST("/admin-login", d.Shell.GoToAdminLogin)
	nav.POST("/tab", d.Shell.SwitchTab)

	authg := api.Group("/auth")

	authg.POST("/phone", d.Shell.SubmitPhone)
	authg.POST("/password", d.Shell.SubmitPassword)
	authg.POST("/pin/request", d.Shell.RequestPin)
	authg.POST("/pin/resend", d.Shell.ResendPin)
	authg.POST("/pin", d.Shell.SubmitPin)
	authg.POST("/password/create", d.Shell.CreatePassword)
	authg.POST("/forgot", d.Shell.ForgotPassword)
	authg.POST("/restart", d.Shell.RestartLogin)
	authg.POST("/logout", d.Shell.Logout)

	cart := api.Group("/cart")

	cart.POST("/items", d.Shell.AddToCart)
	cart.PATCH("/items/:id", d.Shell.UpdateQuantity)
	cart.DELETE("/items/:id", d.Shell.RemoveFromCart)

	checkout := api.Group("/checkout")

	checkout.POST("/open", d.Shell.OpenCheckout)
	checkout.POST("/points", d.Shell.SetPointsToUse)
	checkout.POST("/close", d.Shell.CloseCheckout)
	checkout.POST("/submit", d.Shell.SubmitOrder)

	api.POST("/orders/:id/confirm", d.Shell.ConfirmOrderReceipt)

	admin := api.Group("/admin")

	admin.POST("/login", d.Shell.AdminLogin)
	admin.POST("/logout", d.Shell.AdminLogout)
	admin.PUT("/config", d.Shell.SaveConfiguration)
	admin.POST("/clients", d.Shell.CreateClient)
	admin.GET("/enterprises", d.Shell.EnterprisesForSelect)
	admin.POST("/enterprises", d.Shell.CreateEnterprise)
	admin.POST("/products", d.Shell.CreateProduct)
}
