package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wimpyapp/ordering/internal/app"
	"github.com/wimpyapp/ordering/internal/auth"
	"github.com/wimpyapp/ordering/internal/events"
	"github.com/wimpyapp/ordering/internal/models"
	"github.com/wimpyapp/ordering/internal/navigation"
	"github.com/wimpyapp/ordering/internal/remote"
	"github.com/wimpyapp/ordering/internal/remote/remotetest"
	"github.com/wimpyapp/ordering/internal/storage"
	"github.com/wimpyapp/ordering/internal/transport"
)

type shellFixture struct {
	e    *echo.Echo
	fake *remotetest.Server
	app  *app.App
}

func newShell(t *testing.T, ready func(context.Context) error) *shellFixture {
	t.Helper()

	fake := remotetest.New(t)
	client, err := remote.NewClient(fake.URL(), 2*time.Second)
	require.NoError(t, err)

	st, err := storage.OpenMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	a := app.New(app.Deps{API: client, Store: st, Events: &events.Recorder{}})
	require.NoError(t, a.Bootstrap(context.Background()))

	e := echo.New()
	Register(e, &Deps{Shell: &ShellHTTP{App: a, ReadyCheck: ready}})
	return &shellFixture{e: e, fake: fake, app: a}
}

func (f *shellFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func decodeSnapshot(t *testing.T, rec *httptest.ResponseRecorder) app.Snapshot {
	t.Helper()
	var s app.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	return s
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var r Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r))
	assert.Equal(t, "error", r.Status)
	return r
}

func (f *shellFixture) stubLogin() {
	f.fake.Reply(remote.ActionCheckUser, remotetest.OK(transport.CheckUserResult{HasPassword: true}))
	f.fake.Reply(remote.ActionLoginPassword, remotetest.OK(transport.LoginResult{Email: "ana@example.com"}))
	f.fake.Reply(remote.ActionGetUserData, remotetest.OK(map[string]any{"points": 40, "orders": []any{}}))
	f.fake.Reply(remote.ActionGetProducts, remotetest.OK(map[string]any{"products": []models.Product{
		{ID: "p1", Name: "Hamburguesa Clásica", Category: "hamburguesas", Price: 15000, AwardsPoints: true, Active: true},
		{ID: "p2", Name: "Papas Fritas", Category: "acompañamientos", Price: 6000, Active: true},
	}}))
}

func (f *shellFixture) login(t *testing.T) {
	t.Helper()
	f.stubLogin()
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/nav/client-login", "").Code)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/auth/phone", `{"phone":"3001234567"}`).Code)
	rec := f.do(t, http.MethodPost, "/api/auth/password", `{"password":"1234"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, navigation.ClientDashboard, decodeSnapshot(t, rec).Screen)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	f := newShell(t, nil)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/health/live", "").Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/health/ready", "").Code)

	down := newShell(t, func(context.Context) error { return errors.New("store closed") })
	assert.Equal(t, http.StatusServiceUnavailable, down.do(t, http.MethodGet, "/health/ready", "").Code)
}

func TestShell_LoginAndCart(t *testing.T) {
	t.Parallel()

	f := newShell(t, nil)
	f.login(t)

	rec := f.do(t, http.MethodPost, "/api/cart/items", `{"id":"p1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = f.do(t, http.MethodPatch, "/api/cart/items/p1", `{"quantity":3}`)
	require.Equal(t, http.StatusOK, rec.Code)

	s := decodeSnapshot(t, rec)
	require.Len(t, s.Cart.Lines, 1)
	assert.Equal(t, 3, s.Cart.ItemCount)
	assert.Equal(t, int64(45000), s.Cart.Subtotal)

	rec = f.do(t, http.MethodPost, "/api/checkout/open", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = f.do(t, http.MethodPost, "/api/checkout/points", `{"points":100}`)
	require.Equal(t, http.StatusOK, rec.Code)
	s = decodeSnapshot(t, rec)
	require.NotNil(t, s.Checkout)
	assert.Equal(t, int64(40), s.Checkout.PointsApplied)
	assert.True(t, s.Checkout.Clamped)

	rec = f.do(t, http.MethodDelete, "/api/cart/items/p1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeSnapshot(t, rec).Cart.Lines)
}

func TestShell_ErrorMapping(t *testing.T) {
	t.Parallel()

	f := newShell(t, nil)

	rec := f.do(t, http.MethodPost, "/api/cart/items", `{"id":"p1"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/nav/client-login", "").Code)
	rec = f.do(t, http.MethodPost, "/api/auth/phone", `{"phone":"123"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, auth.MsgInvalidPhone, decodeError(t, rec).Message)

	rec = f.do(t, http.MethodPost, "/api/auth/phone", `{"phone":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid body", decodeError(t, rec).Message)

	rec = f.do(t, http.MethodPost, "/api/auth/password", `{"password":"1234"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	f.fake.Reply(remote.ActionCheckUser, remotetest.Status(http.StatusBadGateway))
	rec = f.do(t, http.MethodPost, "/api/auth/phone", `{"phone":"3001234567"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestShell_LogoutNeedsConfirmation(t *testing.T) {
	t.Parallel()

	f := newShell(t, nil)
	f.login(t)

	rec := f.do(t, http.MethodPost, "/api/auth/logout", `{"confirm":false}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, app.MsgConfirmLogout, decodeError(t, rec).Message)

	rec = f.do(t, http.MethodPost, "/api/auth/logout", `{"confirm":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, navigation.Home, decodeSnapshot(t, rec).Screen)
}

func TestShell_AdminRejection(t *testing.T) {
	t.Parallel()

	f := newShell(t, nil)
	f.fake.Reply(remote.ActionVerifyAdminPassword, remotetest.Fail("Contraseña incorrecta"))

	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/nav/admin-login", "").Code)
	rec := f.do(t, http.MethodPost, "/api/admin/login", `{"password":"nope"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Contraseña incorrecta", decodeError(t, rec).Message)
}

func TestShell_CatalogSearchAndNotifications(t *testing.T) {
	t.Parallel()

	f := newShell(t, nil)
	f.login(t)

	rec := f.do(t, http.MethodGet, "/api/catalog?q=papas", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var products []app.ProductView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "p2", products[0].ID)

	rec = f.do(t, http.MethodGet, "/api/notifications", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var notes []app.Notification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &notes))
	assert.NotEmpty(t, notes)

	rec = f.do(t, http.MethodGet, "/api/notifications", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &notes))
	assert.Empty(t, notes)
}
