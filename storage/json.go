package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// LoadJSON decodes the blob stored under key. A missing or malformed blob
// yields the zero value of T; the parse error is logged and swallowed. Only
// backend failures are returned.
func LoadJSON[T any](ctx context.Context, s Store, key string, logger *zap.Logger) (T, error) {
	var zero T

	data, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return zero, nil
	}
	if err != nil {
		return zero, fmt.Errorf("load %s: %w", key, err)
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		logger.Warn("Discarding malformed store blob",
			zap.String("key", key),
			zap.Int("bytes", len(data)),
			zap.Error(err))
		return zero, nil
	}
	return v, nil
}

// SaveJSON replaces the blob under key with the JSON encoding of v.
func SaveJSON[T any](ctx context.Context, s Store, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
