// Package storage is the key-value persistence port. Every logical store
// (users, sessions, history, messages, listings) is a single JSON blob kept
// under one namespaced key and replaced wholesale on every write.
package storage

import (
	"context"
	"errors"
	"strings"
)

// Namespaced keys of the logical stores.
const (
	UsersKey           = "geo_market_users"
	SessionsKey        = "geo_market_sessions"
	AnalysisHistoryKey = "geo_market_analysis_history"
	MessagesKey        = "geo_market_messages"
	ListingsKey        = "geo_market_listings"
)

var (
	// ErrNotFound is returned by Get when no value is stored under the key.
	ErrNotFound = errors.New("storage: key not found")

	// ErrEmptyKey is returned for blank keys.
	ErrEmptyKey = errors.New("storage: key is empty")
)

// Store reads and writes raw blobs by key. Implementations must be safe for
// concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	return nil
}
