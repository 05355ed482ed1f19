package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

type CustomerSession struct {
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

type AdminSession struct {
	Token     string `json:"token"`
	CreatedAt string `json:"createdAt"`
}

// CartLine keeps the persisted cart format; the same JSON is sent as order items.
type CartLine struct {
	ProductID    string `json:"id"`
	Name         string `json:"name"`
	UnitPrice    int64  `json:"price"`
	AwardsPoints bool   `json:"daPuntos"`
	Quantity     int    `json:"quantity"`
}

func (l CartLine) Total() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

type Product struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Price        int64  `json:"price"`
	Emoji        string `json:"emoji"`
	AwardsPoints bool   `json:"da_puntos"`
	Active       bool   `json:"activo"`
}

func (p *Product) UnmarshalJSON(data []byte) error {
	type plain Product
	var raw struct {
		plain
		ID    FlexString `json:"id"`
		Price FlexInt    `json:"price"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Product(raw.plain)
	p.ID = string(raw.ID)
	p.Price = int64(raw.Price)
	return nil
}

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
)

type Order struct {
	ID                 string          `json:"id"`
	Status             string          `json:"status"`
	Timestamp          string          `json:"timestamp"`
	Total              int64           `json:"total"`
	Items              json.RawMessage `json:"items,omitempty"`
	Notes              string          `json:"notes,omitempty"`
	ReceiptConfirmedAt *string         `json:"confirmacion_cliente"`
}

func (o *Order) UnmarshalJSON(data []byte) error {
	type plain Order
	var raw struct {
		plain
		ID    FlexString `json:"id"`
		Total FlexInt    `json:"total"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*o = Order(raw.plain)
	o.ID = string(raw.ID)
	o.Total = int64(raw.Total)
	return nil
}

func (o Order) ReceiptConfirmed() bool {
	return o.ReceiptConfirmedAt != nil && *o.ReceiptConfirmedAt != ""
}

type PointsHistoryEntry struct {
	Description string `json:"descripcion"`
	Date        string `json:"fecha"`
	PointsDelta int64  `json:"puntos"`
}

func (e *PointsHistoryEntry) UnmarshalJSON(data []byte) error {
	type plain PointsHistoryEntry
	var raw struct {
		plain
		PointsDelta FlexInt `json:"puntos"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = PointsHistoryEntry(raw.plain)
	e.PointsDelta = int64(raw.PointsDelta)
	return nil
}

type Client struct {
	ID           string `json:"id"`
	Phone        string `json:"telefono"`
	Email        string `json:"email"`
	EnterpriseID string `json:"empresa_id"`
	HasPassword  bool   `json:"tiene_contraseña"`
}

func (c *Client) UnmarshalJSON(data []byte) error {
	type plain Client
	var raw struct {
		plain
		ID           FlexString `json:"id"`
		Phone        FlexString `json:"telefono"`
		EnterpriseID FlexString `json:"empresa_id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Client(raw.plain)
	c.ID = string(raw.ID)
	c.Phone = string(raw.Phone)
	c.EnterpriseID = string(raw.EnterpriseID)
	return nil
}

type Enterprise struct {
	ID      string `json:"id"`
	Name    string `json:"nombre"`
	Email   string `json:"email"`
	Phone   string `json:"telefono"`
	Address string `json:"direccion,omitempty"`
	TaxID   string `json:"nit"`
}

func (e *Enterprise) UnmarshalJSON(data []byte) error {
	type plain Enterprise
	var raw struct {
		plain
		ID    FlexString `json:"id"`
		Phone FlexString `json:"telefono"`
		TaxID FlexString `json:"nit"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = Enterprise(raw.plain)
	e.ID = string(raw.ID)
	e.Phone = string(raw.Phone)
	e.TaxID = string(raw.TaxID)
	return nil
}

const (
	ConfigAdminEmail      = "admin_email"
	ConfigAdminWhatsApp   = "admin_whatsapp"
	ConfigPointsPerMil    = "puntos_por_mil"
	ConfigRedemptionRate  = "tasa_descuento_puntos"
	ConfigRestaurantName  = "nombre_restaurante"
	ConfigSupportEmail    = "email_soporte"
	ConfigSupportPhone    = "telefono_soporte"
	DefaultRedemptionRate = 1.0
)

// ConfigKeys is the full set submitted by an admin configuration update, in form order.
var ConfigKeys = []string{
	ConfigAdminEmail,
	ConfigAdminWhatsApp,
	ConfigPointsPerMil,
	ConfigRedemptionRate,
	ConfigRestaurantName,
	ConfigSupportEmail,
	ConfigSupportPhone,
}

// Configuration values are normalised to strings; the service sends both
// strings and numbers.
type Configuration map[string]string

func (c *Configuration) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Configuration, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = val
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(val)
		default:
			b, err := json.Marshal(val)
			if err != nil {
				return err
			}
			out[k] = string(b)
		}
	}
	*c = out
	return nil
}

func (c Configuration) Get(key string) string {
	return c[key]
}

// RedemptionRate is the currency discounted per point; unset, zero or
// unparsable values mean the default rate.
func (c Configuration) RedemptionRate() float64 {
	v := strings.TrimSpace(c[ConfigRedemptionRate])
	if v == "" {
		return DefaultRedemptionRate
	}
	rate, err := strconv.ParseFloat(v, 64)
	if err != nil || rate <= 0 {
		return DefaultRedemptionRate
	}
	return rate
}

func (c Configuration) Clone() Configuration {
	out := make(Configuration, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// ISOStamp is the millisecond UTC timestamp format the service stores.
const ISOStamp = "2006-01-02T15:04:05.000Z07:00"

func Stamp(t time.Time) string {
	return t.UTC().Format(ISOStamp)
}
