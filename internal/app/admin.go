package app

import (
	"context"
	"strconv"
	"strings"

	"github.com/wimpyapp/ordering/internal/apperr"
	"github.com/wimpyapp/ordering/internal/logging"
	"github.com/wimpyapp/ordering/internal/models"
	"github.com/wimpyapp/ordering/internal/remote"
	"github.com/wimpyapp/ordering/internal/transport"
)

type ProductInput struct {
	Name         string `json:"name"`
	Price        string `json:"price"`
	Category     string `json:"category"`
	Emoji        string `json:"emoji"`
	AwardsPoints bool   `json:"da_puntos"`
}

func (a *App) requireAdmin() error {
	if !a.hasAdmin() {
		return ErrNotAuthenticated
	}
	return nil
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

// adminWrite runs one guarded admin write and, on success, reloads the
// affected table.
func (a *App) adminWrite(ctx context.Context, action, failMsg, okMsg string, write func() error, reload func(context.Context) error) error {
	done, err := a.inflight.Begin(action)
	if err != nil {
		return a.fail(err, "")
	}
	defer done()

	if err := write(); err != nil {
		logging.FromContext(ctx).Warn("admin_write_failed", "action", action, "error", err)
		return a.fail(err, failMsg)
	}
	a.notify(LevelSuccess, okMsg)

	if err := reload(ctx); err != nil {
		a.notifyErr(err, MsgLoadFailed)
	}
	return nil
}

// SaveConfiguration submits the full key set; keys absent from values are
// sent empty.
func (a *App) SaveConfiguration(ctx context.Context, values map[string]string) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}
	cfg := make(models.Configuration, len(models.ConfigKeys))
	for _, k := range models.ConfigKeys {
		cfg[k] = values[k]
	}
	return a.adminWrite(ctx, remote.ActionUpdateConfiguration, MsgConfigSaveFailed, MsgConfigSaved,
		func() error { return a.api.UpdateConfiguration(ctx, cfg) },
		a.cache.LoadConfiguration,
	)
}

func (a *App) CreateClient(ctx context.Context, req transport.CreateClientRequest) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}
	if blank(req.Phone, req.Email, req.EnterpriseID) {
		return a.fail(apperr.Validation(MsgMissingFields), "")
	}
	return a.adminWrite(ctx, remote.ActionCreateClient, MsgClientFailed, MsgClientCreated,
		func() error { return a.api.CreateClient(ctx, req) },
		a.cache.LoadClients,
	)
}

func (a *App) CreateEnterprise(ctx context.Context, req transport.CreateEnterpriseRequest) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}
	if blank(req.Name, req.Email, req.Phone, req.Address, req.NIT) {
		return a.fail(apperr.Validation(MsgMissingFields), "")
	}
	return a.adminWrite(ctx, remote.ActionCreateEnterprise, MsgEnterpriseFailed, MsgEnterpriseCreated,
		func() error { return a.api.CreateEnterprise(ctx, req) },
		a.cache.LoadEnterprises,
	)
}

func (a *App) CreateProduct(ctx context.Context, in ProductInput) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}
	if blank(in.Name, in.Price, in.Category, in.Emoji) {
		return a.fail(apperr.Validation(MsgMissingFields), "")
	}
	price, err := strconv.ParseInt(strings.TrimSpace(in.Price), 10, 64)
	if err != nil {
		return a.fail(apperr.Validation(MsgInvalidPrice), "")
	}
	req := transport.CreateProductRequest{
		Name:         in.Name,
		Price:        price,
		Category:     in.Category,
		Emoji:        in.Emoji,
		AwardsPoints: in.AwardsPoints,
	}
	return a.adminWrite(ctx, remote.ActionCreateProduct, MsgProductFailed, MsgProductCreated,
		func() error { return a.api.CreateProduct(ctx, req) },
		a.cache.LoadProductsTable,
	)
}

// EnterprisesForSelect refreshes and returns the enterprises offered by the
// create-client form.
func (a *App) EnterprisesForSelect(ctx context.Context) ([]models.Enterprise, error) {
	if err := a.requireAdmin(); err != nil {
		return nil, err
	}
	if err := a.cache.LoadEnterprises(ctx); err != nil {
		return a.cache.Enterprises(), a.fail(err, MsgLoadFailed)
	}
	return a.cache.Enterprises(), nil
}
