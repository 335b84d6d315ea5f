package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/globatech/sirest/internal/errs"
	"github.com/globatech/sirest/internal/kvstore"
	"github.com/globatech/sirest/internal/models"
)

// Settings reads and writes the singleton system configuration record.
// Reads fall back to the compiled-in defaults when no record exists yet, so
// payment processing works before an admin has saved anything.
type Settings struct {
	kv       *kvstore.Store
	defaults models.Configuration
}

func NewSettings(kv *kvstore.Store, defaults models.Configuration) *Settings {
	return &Settings{kv: kv, defaults: defaults}
}

func (s *Settings) Get(ctx context.Context) (models.Configuration, error) {
	raw, _, err := s.kv.Get(ctx, ConfigurationKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		return s.defaults, nil
	}
	if err != nil {
		return models.Configuration{}, errs.Storage("get configuration", err)
	}
	var cfg models.Configuration
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return models.Configuration{}, errs.Storage("decode configuration", err)
	}
	return cfg, nil
}

func (s *Settings) Put(ctx context.Context, cfg models.Configuration, by string) (models.Configuration, error) {
	now := time.Now().UTC()
	cfg.ID = ConfigurationKey
	cfg.UpdatedAt = &now
	cfg.UpdatedBy = by
	if cfg.CreatedAt.IsZero() {
		cfg.CreatedAt = now
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return models.Configuration{}, errs.Storage("encode configuration", err)
	}
	if err := s.kv.Set(ctx, ConfigurationKey, raw); err != nil {
		return models.Configuration{}, errs.Storage("put configuration", err)
	}
	return cfg, nil
}

// Exists reports whether a configuration record has been persisted, for the
// bootstrap presence check.
func (s *Settings) Exists(ctx context.Context) (bool, error) {
	_, _, err := s.kv.Get(ctx, ConfigurationKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errs.Storage("get configuration", err)
	}
	return true, nil
}
