package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Scope separates long-lived entries from those that only live as long as
// one client session (one process run).
type Scope string

const (
	Durable Scope = "local"
	Session Scope = "session"
)

type KV interface {
	Get(ctx context.Context, scope Scope, key string) (string, bool, error)
	Set(ctx context.Context, scope Scope, key, value string) error
	Delete(ctx context.Context, scope Scope, key string) error
}

type Entry struct {
	Scope     string    `gorm:"primaryKey;size:16"`
	Name      string    `gorm:"primaryKey;size:128"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Entry) TableName() string {
	return "client_state"
}

type GormStore struct {
	DB *gorm.DB
}

func configurePool(sqlDB *sql.DB, driver string) {
	if driver == "sqlite" {
		// one writer keeps per-key upserts serialised and memory databases shared
		sqlDB.SetMaxOpenConns(1)
		return
	}

	const (
		maxOpenConns    = 5
		maxIdleConns    = 2
		connMaxLifetime = 30 * time.Minute
		connMaxIdleTime = 5 * time.Minute
	)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
}

// Open connects, migrates and starts a new client session, dropping whatever
// session-scoped entries the previous run left behind.
func Open(ctx context.Context, driver, dsn string) (*GormStore, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	configurePool(sqlDB, driver)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping store: %w", err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrate store: %w", err)
	}

	s := &GormStore{DB: db}
	if err := s.NewSession(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// OpenMemory opens a private in-memory sqlite store.
func OpenMemory(ctx context.Context) (*GormStore, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	return Open(ctx, "sqlite", dsn)
}

func (s *GormStore) NewSession(ctx context.Context) error {
	if err := s.DB.WithContext(ctx).Where("scope = ?", string(Session)).Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("clear session scope: %w", err)
	}
	return nil
}

func (s *GormStore) Get(ctx context.Context, scope Scope, key string) (string, bool, error) {
	var entries []Entry
	if err := s.DB.WithContext(ctx).
		Where("scope = ? AND name = ?", string(scope), key).
		Limit(1).
		Find(&entries).Error; err != nil {
		return "", false, fmt.Errorf("get %s/%s: %w", scope, key, err)
	}
	if len(entries) == 0 {
		return "", false, nil
	}
	return entries[0].Value, true, nil
}

func (s *GormStore) Set(ctx context.Context, scope Scope, key, value string) error {
	e := Entry{Scope: string(scope), Name: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scope"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", scope, key, err)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, scope Scope, key string) error {
	if err := s.DB.WithContext(ctx).
		Where("scope = ? AND name = ?", string(scope), key).
		Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("delete %s/%s: %w", scope, key, err)
	}
	return nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
