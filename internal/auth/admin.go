package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wimpyapp/ordering/internal/inflight"
	"github.com/wimpyapp/ordering/internal/logging"
	"github.com/wimpyapp/ordering/internal/models"
	"github.com/wimpyapp/ordering/internal/remote"
	"github.com/wimpyapp/ordering/internal/transport"
)

type AdminAPI interface {
	VerifyAdminPassword(ctx context.Context, password string) (transport.AdminLoginResult, error)
}

type AdminFlow struct {
	api      AdminAPI
	inflight *inflight.Tracker
	now      func() time.Time
}

func NewAdminFlow(api AdminAPI, tracker *inflight.Tracker) *AdminFlow {
	if tracker == nil {
		tracker = inflight.New()
	}
	return &AdminFlow{api: api, inflight: tracker, now: time.Now}
}

// Login exchanges the admin password for a session token.
func (f *AdminFlow) Login(ctx context.Context, password string) (*models.AdminSession, error) {
	l := logging.FromContext(ctx).With("svc", "auth.admin_login")

	if err := ValidateAdminPassword(password); err != nil {
		return nil, err
	}
	done, err := f.inflight.Begin(remote.ActionVerifyAdminPassword)
	if err != nil {
		return nil, err
	}
	defer done()

	res, err := f.api.VerifyAdminPassword(ctx, password)
	if err != nil {
		l.Warn("admin_login_failed", "error", err)
		return nil, err
	}
	l.Info("admin_logged_in")
	return &models.AdminSession{Token: res.Token, CreatedAt: models.Stamp(f.now())}, nil
}

// TokenExpired reports whether token is a JWT whose exp claim has passed.
// The signature is not checked; the service owns verification. Tokens that
// are not JWTs, or carry no exp, never expire locally.
func TokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}
