// Package kvstore is the durable key-value layer every entity is persisted
// through. Keys are opaque strings; the only bulk-read mechanism is a prefix
// scan. Each key carries a version counter so callers can do conditional
// writes instead of blind read-modify-write.
package kvstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned by Get and CompareAndSet for absent keys.
	ErrNotFound = errors.New("kvstore: key not found")
	// ErrVersionMismatch is returned by CompareAndSet when the stored
	// version differs from the expected one.
	ErrVersionMismatch = errors.New("kvstore: version mismatch")
)

// Entry is the single table behind the store. Value holds the JSON encoding
// of the record; Version increments on every write.
type Entry struct {
	Key       string `gorm:"primaryKey;size:255"`
	Value     []byte `gorm:"not null"`
	Version   int64  `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Entry) TableName() string { return "entries" }

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store { return &Store{db: db} }

// Get returns the value and current version for key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, int64, error) {
	var e Entry
	err := s.db.WithContext(ctx).First(&e, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, 0, ErrNotFound
	}
	if err != nil {
		return nil, 0, err
	}
	return e.Value, e.Version, nil
}

// Set writes value under key, creating the entry if absent. The version is
// bumped on every write. Atomic per key; no cross-key guarantee exists.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Entry{}).Where("key = ?", key).
			Updates(map[string]any{"value": value, "version": gorm.Expr("version + 1")})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		return tx.Create(&Entry{Key: key, Value: value, Version: 1}).Error
	})
}

// CompareAndSet writes value only if the stored version equals expected.
// Returns ErrNotFound for an absent key and ErrVersionMismatch when another
// writer got there first.
func (s *Store) CompareAndSet(ctx context.Context, key string, value []byte, expected int64) error {
	res := s.db.WithContext(ctx).Model(&Entry{}).
		Where("key = ? AND version = ?", key, expected).
		Updates(map[string]any{"value": value, "version": gorm.Expr("version + 1")})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}
	// Distinguish a lost race from a missing key.
	var count int64
	if err := s.db.WithContext(ctx).Model(&Entry{}).Where("key = ?", key).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrVersionMismatch
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&Entry{}, "key = ?", key).Error
}

// GetByPrefix returns the values of all keys starting with prefix, ordered by
// key. Keys are chronological tokens, so the order happens to be creation
// order, but callers must not depend on it.
func (s *Store) GetByPrefix(ctx context.Context, prefix string) ([][]byte, error) {
	var entries []Entry
	pattern := escapeLike(prefix) + "%"
	err := s.db.WithContext(ctx).
		Where("key LIKE ? ESCAPE '\\'", pattern).
		Order("key").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	values := make([][]byte, 0, len(entries))
	for _, e := range entries {
		values = append(values, e.Value)
	}
	return values, nil
}

// escapeLike neutralizes LIKE metacharacters in a literal prefix.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
