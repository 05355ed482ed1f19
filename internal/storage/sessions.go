package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wimpyapp/ordering/internal/models"
)

const (
	KeyCustomer = "wimpyapp_user"
	KeyAdmin    = "wimpyapp_admin_session"
	KeyCart     = "wimpyapp_cart"
)

func LoadJSON(ctx context.Context, kv KV, scope Scope, key string, out any) (bool, error) {
	raw, ok, err := kv.Get(ctx, scope, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("decode %s/%s: %w", scope, key, err)
	}
	return true, nil
}

func SaveJSON(ctx context.Context, kv KV, scope Scope, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", scope, key, err)
	}
	return kv.Set(ctx, scope, key, string(b))
}

// Sessions persists the customer session durably and the admin session in the
// session scope.
type Sessions struct {
	KV KV
}

func (s *Sessions) Customer(ctx context.Context) (*models.CustomerSession, error) {
	var cs models.CustomerSession
	ok, err := LoadJSON(ctx, s.KV, Durable, KeyCustomer, &cs)
	if err != nil || !ok {
		return nil, err
	}
	return &cs, nil
}

func (s *Sessions) SaveCustomer(ctx context.Context, cs models.CustomerSession) error {
	return SaveJSON(ctx, s.KV, Durable, KeyCustomer, cs)
}

func (s *Sessions) ClearCustomer(ctx context.Context) error {
	return s.KV.Delete(ctx, Durable, KeyCustomer)
}

func (s *Sessions) Admin(ctx context.Context) (*models.AdminSession, error) {
	var as models.AdminSession
	ok, err := LoadJSON(ctx, s.KV, Session, KeyAdmin, &as)
	if err != nil || !ok {
		return nil, err
	}
	return &as, nil
}

func (s *Sessions) SaveAdmin(ctx context.Context, as models.AdminSession) error {
	return SaveJSON(ctx, s.KV, Session, KeyAdmin, as)
}

func (s *Sessions) ClearAdmin(ctx context.Context) error {
	return s.KV.Delete(ctx, Session, KeyAdmin)
}
