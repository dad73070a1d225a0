// Package messaging stores buyer-to-seller messages and groups them into
// conversations for a seller's inbox.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"geomarket/models"
	"geomarket/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// userSellerPrefix marks sellers derived from registered users.
const userSellerPrefix = "user-"

// ErrEmptyBody is returned when a message has no text.
var ErrEmptyBody = errors.New("message cannot be empty")

type messageStore map[string][]models.Message

// Service sends messages and builds conversations.
type Service struct {
	store  storage.Store
	logger *zap.Logger
	mu     sync.Mutex
	now    func() time.Time
}

// NewService creates a messaging service on top of store.
func NewService(store storage.Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger, now: time.Now}
}

// RecipientID maps a listing's seller to the inbox the message lands in.
// User-derived sellers ("user-<id>") deliver to the user's own id.
func RecipientID(seller models.Seller) string {
	return strings.TrimPrefix(seller.ID, userSellerPrefix)
}

// Compose builds a message from sender about item.
func (s *Service) Compose(sender models.User, item models.MarketplaceItem, body string) (models.Message, error) {
	if strings.TrimSpace(body) == "" {
		return models.Message{}, ErrEmptyBody
	}
	return models.Message{
		ID:             uuid.NewString(),
		SenderID:       sender.ID,
		SenderUsername: sender.Username,
		RecipientID:    item.Seller.ID,
		ItemID:         item.ID,
		ItemName:       item.Name,
		Body:           body,
		Timestamp:      s.now().UTC(),
	}, nil
}

// Send inserts msg at the head of recipientID's inbox.
func (s *Service) Send(ctx context.Context, recipientID string, msg models.Message) error {
	if strings.TrimSpace(msg.Body) == "" {
		return ErrEmptyBody
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := storage.LoadJSON[messageStore](ctx, s.store, storage.MessagesKey, s.logger)
	if err != nil {
		return err
	}
	if all == nil {
		all = messageStore{}
	}

	all[recipientID] = append([]models.Message{msg}, all[recipientID]...)

	if err := storage.SaveJSON(ctx, s.store, storage.MessagesKey, all); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	s.logger.Debug("Message stored",
		zap.String("recipient", recipientID),
		zap.String("sender", msg.SenderID),
		zap.Int64("item", msg.ItemID))
	return nil
}

// MessagesFor returns recipientID's inbox, newest first.
func (s *Service) MessagesFor(ctx context.Context, recipientID string) ([]models.Message, error) {
	all, err := storage.LoadJSON[messageStore](ctx, s.store, storage.MessagesKey, s.logger)
	if err != nil {
		return nil, err
	}
	msgs := all[recipientID]
	if msgs == nil {
		return []models.Message{}, nil
	}
	return msgs, nil
}

// ConversationsFor groups sellerID's inbox by sender. Messages inside a
// conversation are sorted oldest first. Conversations come in the order
// their sender first appears in the inbox, which is newest first.
func (s *Service) ConversationsFor(ctx context.Context, sellerID string) ([]models.Conversation, error) {
	msgs, err := s.MessagesFor(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	return GroupConversations(msgs), nil
}

// GroupConversations groups msgs by sender id.
func GroupConversations(msgs []models.Message) []models.Conversation {
	conversations := []models.Conversation{}
	index := make(map[string]int)

	for _, msg := range msgs {
		i, ok := index[msg.SenderID]
		if !ok {
			index[msg.SenderID] = len(conversations)
			conversations = append(conversations, models.Conversation{
				SenderID:       msg.SenderID,
				SenderUsername: msg.SenderUsername,
				Messages:       []models.Message{msg},
			})
			continue
		}
		conversations[i].Messages = append(conversations[i].Messages, msg)
	}

	// inbox order is newest first; reversing keeps send order on equal timestamps
	for i := range conversations {
		slices.Reverse(conversations[i].Messages)
		slices.SortStableFunc(conversations[i].Messages, func(a, b models.Message) int {
			return a.Timestamp.Compare(b.Timestamp)
		})
	}
	return conversations
}
