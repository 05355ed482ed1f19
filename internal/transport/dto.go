package transport

import (
	"encoding/json"

	"github.com/wimpyapp/ordering/internal/models"
)

// Envelope is the response shape of every remote action.
type Envelope struct {
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result,omitempty"`
	Message string          `json:"message,omitempty"`
}

type CheckUserResult struct {
	IsNewUser   bool `json:"isNewUser"`
	HasPassword bool `json:"tiene_contraseña"`
}

type PhoneRequest struct {
	Phone string `json:"phone"`
}

type VerifyPinRequest struct {
	Phone string `json:"phone"`
	Pin   string `json:"pin"`
}

type PasswordRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type LoginResult struct {
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

type CreatePasswordResult struct {
	Email string `json:"email"`
}

type AdminPasswordRequest struct {
	Password string `json:"password"`
}

type AdminLoginResult struct {
	Token string `json:"token"`
}

type CreateOrderRequest struct {
	Phone       string            `json:"phone"`
	Items       []models.CartLine `json:"items"`
	Notes       string            `json:"notes"`
	PointsToUse int64             `json:"pointsToUse"`
	Timestamp   string            `json:"timestamp"`
}

type ConfirmReceiptRequest struct {
	OrderID string `json:"orderId"`
	Phone   string `json:"phone"`
}

type OrdersResult struct {
	Orders []models.Order `json:"orders"`
}

type PointsResult struct {
	Points  models.FlexInt              `json:"points"`
	History []models.PointsHistoryEntry `json:"history"`
}

type UserDataResult struct {
	Points models.FlexInt `json:"points"`
	Orders []models.Order `json:"orders"`
}

type ProductsResult struct {
	Products []models.Product `json:"products"`
}

type ConfigurationResult struct {
	Config models.Configuration `json:"config"`
}

type ClientsResult struct {
	Clients []models.Client `json:"clients"`
}

type CreateClientRequest struct {
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	EnterpriseID string `json:"enterprise_id"`
}

type EnterprisesResult struct {
	Enterprises []models.Enterprise `json:"enterprises"`
}

type CreateEnterpriseRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	NIT     string `json:"nit"`
}

type CreateProductRequest struct {
	Name         string `json:"name"`
	Price        int64  `json:"price"`
	Category     string `json:"category"`
	Emoji        string `json:"emoji"`
	AwardsPoints bool   `json:"da_puntos"`
}
