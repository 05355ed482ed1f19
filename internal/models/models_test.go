package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfiguration_UnmarshalNormalisesValues(t *testing.T) {
	t.Parallel()

	var cfg Configuration
	raw := `{"tasa_descuento_puntos": 10, "nombre_restaurante": "Wimpy", "puntos_por_mil": "2", "activo": true, "vacio": null}`
	require.NoError(t, json.Unmarshal([]byte(raw), &cfg))

	assert.Equal(t, "10", cfg.Get(ConfigRedemptionRate))
	assert.Equal(t, "Wimpy", cfg.Get(ConfigRestaurantName))
	assert.Equal(t, "2", cfg.Get(ConfigPointsPerMil))
	assert.Equal(t, "true", cfg.Get("activo"))
	assert.Equal(t, "", cfg.Get("vacio"))
}

func TestConfiguration_RedemptionRate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Configuration
		want float64
	}{
		{name: "unset", cfg: Configuration{}, want: 1},
		{name: "nil map", cfg: nil, want: 1},
		{name: "integer", cfg: Configuration{ConfigRedemptionRate: "10"}, want: 10},
		{name: "decimal", cfg: Configuration{ConfigRedemptionRate: " 2.5 "}, want: 2.5},
		{name: "zero", cfg: Configuration{ConfigRedemptionRate: "0"}, want: 1},
		{name: "garbage", cfg: Configuration{ConfigRedemptionRate: "diez"}, want: 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.cfg.RedemptionRate())
		})
	}
}

func TestCartLine_PersistedFormat(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(CartLine{ProductID: "p1", Name: "Burger", UnitPrice: 15000, AwardsPoints: true, Quantity: 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"p1","name":"Burger","price":15000,"daPuntos":true,"quantity":2}`, string(b))
}

func TestOrder_ReceiptConfirmed(t *testing.T) {
	t.Parallel()

	var pending, done Order
	require.NoError(t, json.Unmarshal([]byte(`{"id":"o1","status":"pending","confirmacion_cliente":null}`), &pending))
	require.NoError(t, json.Unmarshal([]byte(`{"id":"o2","status":"confirmed","confirmacion_cliente":"2025-01-02T10:00:00.000Z"}`), &done))

	assert.False(t, pending.ReceiptConfirmed())
	assert.True(t, done.ReceiptConfirmed())
}

func TestStamp_MillisecondUTC(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 3, 4, 5, 6, 7, 890_000_000, time.FixedZone("COT", -5*3600))
	assert.Equal(t, "2025-03-04T10:06:07.890Z", Stamp(ts))
}

func TestFlexString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want FlexString
	}{
		{raw: `"3001234567"`, want: "3001234567"},
		{raw: `3001234567`, want: "3001234567"},
		{raw: `900123456`, want: "900123456"},
		{raw: `7`, want: "7"},
		{raw: `null`, want: ""},
		{raw: `true`, want: "true"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			var got FlexString
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &got))
			assert.Equal(t, tt.want, got)
		})
	}

	var bad FlexString
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &bad))
}

func TestFlexInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    FlexInt
		wantErr bool
	}{
		{raw: `15000`, want: 15000},
		{raw: `"15000"`, want: 15000},
		{raw: `" 42 "`, want: 42},
		{raw: `19500.0`, want: 19500},
		{raw: `2.5`, want: 3},
		{raw: `""`, want: 0},
		{raw: `null`, want: 0},
		{raw: `"quince mil"`, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			var got FlexInt
			err := json.Unmarshal([]byte(tt.raw), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWireModels_AcceptNumbersForTextColumns(t *testing.T) {
	t.Parallel()

	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"id":7,"name":"Malteada","category":"bebidas","price":"7000","emoji":"🥤","da_puntos":false,"activo":true}`), &p))
	assert.Equal(t, Product{ID: "7", Name: "Malteada", Category: "bebidas", Price: 7000, Emoji: "🥤", Active: true}, p)

	var o Order
	require.NoError(t, json.Unmarshal([]byte(`{"id":12,"status":"confirmed","total":"19500","confirmacion_cliente":"2025-01-02T10:00:00.000Z"}`), &o))
	assert.Equal(t, "12", o.ID)
	assert.Equal(t, int64(19500), o.Total)
	assert.True(t, o.ReceiptConfirmed())

	var c Client
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"telefono":3001234567,"email":"ana@example.com","empresa_id":2,"tiene_contraseña":true}`), &c))
	assert.Equal(t, Client{ID: "3", Phone: "3001234567", Email: "ana@example.com", EnterpriseID: "2", HasPassword: true}, c)

	var e Enterprise
	require.NoError(t, json.Unmarshal([]byte(`{"id":"e1","nombre":"Acme","telefono":6015551234,"nit":900123456}`), &e))
	assert.Equal(t, Enterprise{ID: "e1", Name: "Acme", Phone: "6015551234", TaxID: "900123456"}, e)

	var h PointsHistoryEntry
	require.NoError(t, json.Unmarshal([]byte(`{"descripcion":"Pedido 12","fecha":"2026-01-01","puntos":"30"}`), &h))
	assert.Equal(t, int64(30), h.PointsDelta)
}
