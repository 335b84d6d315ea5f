package entity

import (
	"fmt"
	"sync/atomic"
	"time"
)

var tokenSeq atomic.Uint64

// NewToken builds a record identifier that sorts chronologically under plain
// string comparison: zero-padded unix milliseconds plus an in-process counter
// so same-millisecond writers never collide.
func NewToken() string {
	ms := time.Now().UnixMilli()
	n := tokenSeq.Add(1) % 1000000
	return fmt.Sprintf("%013d-%06d", ms, n)
}

// Key builds the storage key for an entity kind and identifier. The
// colon-prefixed scheme is the only indexing mechanism the store offers.
func Key(kind, id string) string { return kind + ":" + id }

// Prefix is the scan prefix covering every record of one kind.
func Prefix(kind string) string { return kind + ":" }
