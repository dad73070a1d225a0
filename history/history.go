// Package history keeps each user's specimen analyses, newest first.
package history

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"geomarket/models"
	"geomarket/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type historyStore map[string][]models.AnalysisHistoryItem

// Service reads and appends analysis history.
type Service struct {
	store  storage.Store
	logger *zap.Logger
	mu     sync.Mutex
	now    func() time.Time
}

// NewService creates a history service on top of store.
func NewService(store storage.Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger, now: time.Now}
}

// NewItem builds a history entry for an analysis of image.
func (s *Service) NewItem(image []byte, result models.AnalysisResult) models.AnalysisHistoryItem {
	return models.AnalysisHistoryItem{
		ID:          uuid.NewString(),
		Date:        s.now().UTC(),
		ImageBase64: base64.StdEncoding.EncodeToString(image),
		Result:      result,
	}
}

// Add inserts item at the head of userID's history.
func (s *Service) Add(ctx context.Context, userID string, item models.AnalysisHistoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := storage.LoadJSON[historyStore](ctx, s.store, storage.AnalysisHistoryKey, s.logger)
	if err != nil {
		return err
	}
	if all == nil {
		all = historyStore{}
	}

	all[userID] = append([]models.AnalysisHistoryItem{item}, all[userID]...)

	if err := storage.SaveJSON(ctx, s.store, storage.AnalysisHistoryKey, all); err != nil {
		return fmt.Errorf("add history item: %w", err)
	}
	return nil
}

// List returns userID's history, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]models.AnalysisHistoryItem, error) {
	all, err := storage.LoadJSON[historyStore](ctx, s.store, storage.AnalysisHistoryKey, s.logger)
	if err != nil {
		return nil, err
	}
	items := all[userID]
	if items == nil {
		return []models.AnalysisHistoryItem{}, nil
	}
	return items, nil
}
