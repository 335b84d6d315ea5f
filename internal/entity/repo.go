// Package entity provides typed access over the key-value store for each
// entity kind: key construction, chronological identifiers, createdAt and
// updatedAt stamping, and updates that can never change a record's identity.
package entity

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/globatech/sirest/internal/errs"
	"github.com/globatech/sirest/internal/kvstore"
	"github.com/globatech/sirest/internal/models"
)

// Repo persists one entity kind. T must embed models.Meta.
type Repo[T any] struct {
	kv   *kvstore.Store
	kind string
}

func NewRepo[T any](kv *kvstore.Store, kind string) *Repo[T] {
	return &Repo[T]{kv: kv, kind: kind}
}

func (r *Repo[T]) Kind() string { return r.kind }

func metaOf(rec any) *models.Meta {
	if m, ok := rec.(interface{ Record() *models.Meta }); ok {
		return m.Record()
	}
	return nil
}

// Create stamps identity and creation metadata, then persists the record
// under a fresh chronological key. The stamped record is returned by pointer.
func (r *Repo[T]) Create(ctx context.Context, rec *T, by string) error {
	return r.CreateWithID(ctx, NewToken(), rec, by)
}

// CreateWithID persists under a caller-chosen identifier (fixed seed data,
// user profiles keyed by auth id).
func (r *Repo[T]) CreateWithID(ctx context.Context, id string, rec *T, by string) error {
	if m := metaOf(rec); m != nil {
		m.ID = id
		m.CreatedAt = time.Now().UTC()
		m.CreatedBy = by
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return errs.Storage("encode "+r.kind, err)
	}
	if err := r.kv.Set(ctx, Key(r.kind, id), raw); err != nil {
		return errs.Storage("create "+r.kind, err)
	}
	return nil
}

// Get loads one record by identifier. The version is the store's per-key
// counter, usable with UpdateCAS.
func (r *Repo[T]) Get(ctx context.Context, id string) (*T, int64, error) {
	raw, ver, err := r.kv.Get(ctx, Key(r.kind, id))
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, 0, errs.ErrNotFound
	}
	if err != nil {
		return nil, 0, errs.Storage("get "+r.kind, err)
	}
	var rec T
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, 0, errs.Storage("decode "+r.kind, err)
	}
	return &rec, ver, nil
}

// List returns every record of the kind, in key order.
func (r *Repo[T]) List(ctx context.Context) ([]T, error) {
	raws, err := r.kv.GetByPrefix(ctx, Prefix(r.kind))
	if err != nil {
		return nil, errs.Storage("list "+r.kind, err)
	}
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, errs.Storage("decode "+r.kind, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Update is fetch, mutate, re-stamp, persist. The mutation may touch any
// field; identity is restored afterwards so an update can never change it.
// The write is conditional on the version read, so a concurrent writer
// surfaces as errs.ErrConflict instead of being silently overwritten.
func (r *Repo[T]) Update(ctx context.Context, id, by string, mutate func(*T) error) (*T, error) {
	rec, ver, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := mutate(rec); err != nil {
		return nil, err
	}
	r.restamp(rec, id, by)
	if err := r.writeCAS(ctx, id, rec, ver); err != nil {
		return nil, err
	}
	return rec, nil
}

// UpdateCAS is Update against a version the caller already holds, for flows
// that decide on the fetched state before writing (payment settlement).
func (r *Repo[T]) UpdateCAS(ctx context.Context, id, by string, rec *T, expected int64) error {
	r.restamp(rec, id, by)
	return r.writeCAS(ctx, id, rec, expected)
}

func (r *Repo[T]) restamp(rec *T, id, by string) {
	if m := metaOf(rec); m != nil {
		m.ID = id
		now := time.Now().UTC()
		m.UpdatedAt = &now
		m.UpdatedBy = by
	}
}

func (r *Repo[T]) writeCAS(ctx context.Context, id string, rec *T, expected int64) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return errs.Storage("encode "+r.kind, err)
	}
	err = r.kv.CompareAndSet(ctx, Key(r.kind, id), raw, expected)
	switch {
	case errors.Is(err, kvstore.ErrNotFound):
		return errs.ErrNotFound
	case errors.Is(err, kvstore.ErrVersionMismatch):
		return errs.ErrConflict
	case err != nil:
		return errs.Storage("update "+r.kind, err)
	}
	return nil
}

// Delete removes a record. Only inventory exposes this.
func (r *Repo[T]) Delete(ctx context.Context, id string) error {
	if err := r.kv.Delete(ctx, Key(r.kind, id)); err != nil {
		return errs.Storage("delete "+r.kind, err)
	}
	return nil
}
