package remote

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/wimpyapp/ordering/internal/models"
	"github.com/wimpyapp/ordering/internal/transport"
)

const (
	ActionCheckUser           = "checkUser"
	ActionRequestPassword     = "requestPassword"
	ActionVerifyPin           = "verifyPin"
	ActionCreatePassword      = "createPassword"
	ActionLoginPassword       = "loginPassword"
	ActionVerifyAdminPassword = "verifyAdminPassword"
	ActionCreateOrder         = "createOrder"
	ActionGetUserOrders       = "getUserOrders"
	ActionConfirmOrderReceipt = "confirmOrderReceipt"
	ActionGetUserPoints       = "getUserPoints"
	ActionGetUserData         = "getUserData"
	ActionGetProducts         = "getProducts"
	ActionGetConfiguration    = "getConfiguration"
	ActionUpdateConfiguration = "updateConfiguration"
	ActionListClients         = "listClients"
	ActionCreateClient        = "createClient"
	ActionListEnterprises     = "listEnterprises"
	ActionCreateEnterprise    = "createEnterprise"
	ActionCreateProduct       = "createProduct"
)

func phoneParam(phone string) url.Values {
	return url.Values{"phone": {phone}}
}

func (c *Client) CheckUser(ctx context.Context, phone string) (transport.CheckUserResult, error) {
	var res transport.CheckUserResult
	err := c.Get(ctx, ActionCheckUser, phoneParam(phone), &res)
	return res, err
}

func (c *Client) RequestPassword(ctx context.Context, phone string) error {
	return c.Post(ctx, ActionRequestPassword, transport.PhoneRequest{Phone: phone}, nil)
}

func (c *Client) VerifyPin(ctx context.Context, phone, pin string) error {
	return c.Post(ctx, ActionVerifyPin, transport.VerifyPinRequest{Phone: phone, Pin: pin}, nil)
}

func (c *Client) CreatePassword(ctx context.Context, phone, password string) (transport.CreatePasswordResult, error) {
	var res transport.CreatePasswordResult
	err := c.Post(ctx, ActionCreatePassword, transport.PasswordRequest{Phone: phone, Password: password}, &res)
	return res, err
}

func (c *Client) LoginPassword(ctx context.Context, phone, password string) (transport.LoginResult, error) {
	var res transport.LoginResult
	err := c.Post(ctx, ActionLoginPassword, transport.PasswordRequest{Phone: phone, Password: password}, &res)
	return res, err
}

func (c *Client) VerifyAdminPassword(ctx context.Context, password string) (transport.AdminLoginResult, error) {
	var res transport.AdminLoginResult
	err := c.Post(ctx, ActionVerifyAdminPassword, transport.AdminPasswordRequest{Password: password}, &res)
	return res, err
}

// CreateOrder returns the raw result; its shape is owned by the service.
func (c *Client) CreateOrder(ctx context.Context, req transport.CreateOrderRequest) (json.RawMessage, error) {
	var res json.RawMessage
	err := c.Post(ctx, ActionCreateOrder, req, &res)
	return res, err
}

func (c *Client) GetUserOrders(ctx context.Context, phone string) (transport.OrdersResult, error) {
	var res transport.OrdersResult
	err := c.Get(ctx, ActionGetUserOrders, phoneParam(phone), &res)
	return res, err
}

func (c *Client) ConfirmOrderReceipt(ctx context.Context, orderID, phone string) error {
	return c.Post(ctx, ActionConfirmOrderReceipt, transport.ConfirmReceiptRequest{OrderID: orderID, Phone: phone}, nil)
}

func (c *Client) GetUserPoints(ctx context.Context, phone string) (transport.PointsResult, error) {
	var res transport.PointsResult
	err := c.Get(ctx, ActionGetUserPoints, phoneParam(phone), &res)
	return res, err
}

func (c *Client) GetUserData(ctx context.Context, phone string) (transport.UserDataResult, error) {
	var res transport.UserDataResult
	err := c.Get(ctx, ActionGetUserData, phoneParam(phone), &res)
	return res, err
}

func (c *Client) GetProducts(ctx context.Context) (transport.ProductsResult, error) {
	var res transport.ProductsResult
	err := c.Get(ctx, ActionGetProducts, nil, &res)
	return res, err
}

func (c *Client) GetConfiguration(ctx context.Context) (transport.ConfigurationResult, error) {
	var res transport.ConfigurationResult
	err := c.Get(ctx, ActionGetConfiguration, nil, &res)
	return res, err
}

func (c *Client) UpdateConfiguration(ctx context.Context, cfg models.Configuration) error {
	return c.Post(ctx, ActionUpdateConfiguration, cfg, nil)
}

func (c *Client) ListClients(ctx context.Context) (transport.ClientsResult, error) {
	var res transport.ClientsResult
	err := c.Get(ctx, ActionListClients, nil, &res)
	return res, err
}

func (c *Client) CreateClient(ctx context.Context, req transport.CreateClientRequest) error {
	return c.Post(ctx, ActionCreateClient, req, nil)
}

func (c *Client) ListEnterprises(ctx context.Context) (transport.EnterprisesResult, error) {
	var res transport.EnterprisesResult
	err := c.Get(ctx, ActionListEnterprises, nil, &res)
	return res, err
}

func (c *Client) CreateEnterprise(ctx context.Context, req transport.CreateEnterpriseRequest) error {
	return c.Post(ctx, ActionCreateEnterprise, req, nil)
}

func (c *Client) CreateProduct(ctx context.Context, req transport.CreateProductRequest) error {
	return c.Post(ctx, ActionCreateProduct, req, nil)
}
