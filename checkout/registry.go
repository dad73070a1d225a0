package checkout

import (
	"errors"
	"sync"
	"time"

	"geomarket/models"
	"geomarket/payment"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrCheckoutNotFound is returned for unknown ids and for wizards owned by
// another user.
var ErrCheckoutNotFound = errors.New("checkout not found")

// DefaultIdleTimeout is how long an unconfirmed wizard survives without
// being read or changed.
const DefaultIdleTimeout = 30 * time.Minute

// PurchaseFunc runs after a wizard completes.
type PurchaseFunc func(buyer models.User, item models.MarketplaceItem)

type entry struct {
	ownerID string
	itemID  int64
	wizard  *Wizard
	touched time.Time
}

// Registry holds the live wizards of every user.
type Registry struct {
	mu      sync.Mutex
	entries map[string]entry

	tokenizer  payment.Tokenizer
	delays     Delays
	onPurchase PurchaseFunc
	logger     *zap.Logger

	idleTimeout time.Duration
	now         func() time.Time
}

// NewRegistry creates an empty registry. onPurchase may be nil.
func NewRegistry(tokenizer payment.Tokenizer, delays Delays, onPurchase PurchaseFunc, logger *zap.Logger) *Registry {
	return &Registry{
		entries:    make(map[string]entry),
		tokenizer:  tokenizer,
		delays:     delays,
		onPurchase:  onPurchase,
		logger:      logger,
		idleTimeout: DefaultIdleTimeout,
		now:         time.Now,
	}
}

// Start opens a wizard for buyer on item and returns its id. A buyer who
// already has an open wizard for the same item gets that one back.
func (r *Registry) Start(buyer models.User, item models.MarketplaceItem) (string, *Wizard) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweepLocked(now)
	for id, e := range r.entries {
		if e.ownerID == buyer.ID && e.itemID == item.ID && e.wizard.open() {
			e.touched = now
			r.entries[id] = e
			return id, e.wizard
		}
	}

	id := uuid.NewString()
	w := New(item, Config{
		Tokenizer: r.tokenizer,
		Delays:    r.delays,
		Logger:    r.logger.With(zap.String("checkout", id)),
		OnComplete: func(item models.MarketplaceItem) {
			r.drop(id)
			if r.onPurchase != nil {
				r.onPurchase(buyer, item)
			}
		},
	})
	r.entries[id] = entry{ownerID: buyer.ID, itemID: item.ID, wizard: w, touched: now}

	r.logger.Info("Checkout started",
		zap.String("checkout", id),
		zap.String("buyer", buyer.ID),
		zap.Int64("item", item.ID))
	return id, w
}

// sweepLocked evicts unconfirmed wizards idle for longer than the idle
// timeout. Confirmed wizards leave through completion. Callers hold r.mu.
func (r *Registry) sweepLocked(now time.Time) {
	for id, e := range r.entries {
		if now.Sub(e.touched) <= r.idleTimeout {
			continue
		}
		if step := e.wizard.Step(); step != StepProcessing && step != StepSuccess {
			delete(r.entries, id)
			r.logger.Debug("Idle checkout evicted", zap.String("checkout", id))
		}
	}
}

// Get returns ownerID's wizard with the given id.
func (r *Registry) Get(id, ownerID string) (*Wizard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok || e.ownerID != ownerID {
		return nil, ErrCheckoutNotFound
	}
	e.touched = r.now()
	r.entries[id] = e
	return e.wizard, nil
}

// Cancel dismisses the wizard and forgets it.
func (r *Registry) Cancel(id, ownerID string) error {
	w, err := r.Get(id, ownerID)
	if err != nil {
		return err
	}
	if err := w.Cancel(); err != nil {
		return err
	}
	r.drop(id)
	return nil
}

// Len is the number of live wizards.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) drop(id string) {
	r.mu.Lock()
	delete(r.entries, id)
	r.mu.Unlock()
}
