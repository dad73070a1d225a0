// Package checkout drives a single purchase through shipping, payment,
// summary, processing and success.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"geomarket/models"
	"geomarket/payment"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Step is a wizard state.
type Step string

const (
	StepShipping   Step = "shipping"
	StepPayment    Step = "payment"
	StepSummary    Step = "summary"
	StepProcessing Step = "processing"
	StepSuccess    Step = "success"
)

// DefaultCountry pre-fills a fresh wizard's shipping form.
const DefaultCountry = "USA"

var (
	ErrIncompleteShipping = errors.New("incomplete shipping information")
	ErrBusy               = errors.New("a payment is already being processed")
	ErrCloseDisabled      = errors.New("checkout cannot be closed while the order is being placed")
	ErrInvalidStep        = errors.New("action is not allowed at this step")
	ErrCancelled          = errors.New("checkout was cancelled")
)

// ErrorMessage is the buyer-facing text for err.
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrIncompleteShipping):
		return "Please fill out all shipping fields."
	case errors.Is(err, payment.ErrNotReady):
		return "Payment gateway is not ready"
	default:
		return err.Error()
	}
}

// ShippingInfo is the buyer's delivery address.
type ShippingInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

func (s ShippingInfo) trimmed() ShippingInfo {
	return ShippingInfo{
		Name:    strings.TrimSpace(s.Name),
		Address: strings.TrimSpace(s.Address),
		City:    strings.TrimSpace(s.City),
		State:   strings.TrimSpace(s.State),
		Zip:     strings.TrimSpace(s.Zip),
		Country: strings.TrimSpace(s.Country),
	}
}

// Complete reports whether every field holds more than whitespace.
func (s ShippingInfo) Complete() bool {
	t := s.trimmed()
	for _, v := range []string{t.Name, t.Address, t.City, t.State, t.Zip, t.Country} {
		if v == "" {
			return false
		}
	}
	return true
}

// Summary is the order recap shown before confirmation.
type Summary struct {
	ItemName string       `json:"itemName"`
	Price    string       `json:"price"`
	Shipping string       `json:"shipping"`
	Total    string       `json:"total"`
	ShipTo   ShippingInfo `json:"shipTo"`
}

// Delays are the pauses after confirmation.
type Delays struct {
	Processing time.Duration
	Success    time.Duration
}

// DefaultDelays are used whenever a Delays field is zero.
var DefaultDelays = Delays{
	Processing: 2 * time.Second,
	Success:    1500 * time.Millisecond,
}

// Config wires a Wizard to its collaborators.
type Config struct {
	// Tokenizer may be nil, in which case payment is never ready.
	Tokenizer payment.Tokenizer

	// OnComplete runs once, after the success delay, with the wizard's item.
	OnComplete func(models.MarketplaceItem)

	Delays Delays
	Logger *zap.Logger
}

// State is a point-in-time view of a wizard.
type State struct {
	Step         Step                   `json:"step"`
	Item         models.MarketplaceItem `json:"item"`
	Shipping     ShippingInfo           `json:"shipping"`
	CardMounted  bool                   `json:"cardMounted"`
	PaymentReady bool                   `json:"paymentReady"`
	Pending      bool                   `json:"pending"`
	Error        string                 `json:"error,omitempty"`
	Summary      *Summary               `json:"summary,omitempty"`
}

// Wizard is one checkout. All methods are safe for concurrent use.
type Wizard struct {
	mu sync.Mutex

	item      models.MarketplaceItem
	tokenizer payment.Tokenizer
	delays    Delays
	logger    *zap.Logger

	step            Step
	shipping        ShippingInfo
	cardMounted     bool
	paymentMethodID string
	pending         bool
	confirmed       bool
	cancelled       bool
	lastErr         string

	onComplete func(models.MarketplaceItem)
	timer      *time.Timer
	done       chan struct{}
}

// New starts a wizard for item at the shipping step.
func New(item models.MarketplaceItem, cfg Config) *Wizard {
	delays := cfg.Delays
	if delays.Processing <= 0 {
		delays.Processing = DefaultDelays.Processing
	}
	if delays.Success <= 0 {
		delays.Success = DefaultDelays.Success
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Wizard{
		item:       item,
		tokenizer:  cfg.Tokenizer,
		delays:     delays,
		logger:     logger,
		step:       StepShipping,
		shipping:   ShippingInfo{Country: DefaultCountry},
		onComplete: cfg.OnComplete,
		done:       make(chan struct{}),
	}
}

// Item returns the listing being purchased.
func (w *Wizard) Item() models.MarketplaceItem {
	return w.item
}

// Step returns the current step.
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Done is closed after the completion callback has returned.
func (w *Wizard) Done() <-chan struct{} {
	return w.done
}

func (w *Wizard) fail(err error) error {
	w.lastErr = ErrorMessage(err)
	return err
}

// guard rejects every mutation once the wizard was dismissed.
func (w *Wizard) guard(want Step) error {
	if w.cancelled {
		return ErrCancelled
	}
	if w.step != want {
		return fmt.Errorf("%w: at %s", ErrInvalidStep, w.step)
	}
	return nil
}

// SubmitShipping validates info and advances to payment.
func (w *Wizard) SubmitShipping(info ShippingInfo) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.guard(StepShipping); err != nil {
		return err
	}
	if !info.Complete() {
		return w.fail(ErrIncompleteShipping)
	}

	w.shipping = info.trimmed()
	w.lastErr = ""
	w.step = StepPayment
	w.mountLocked()
	return nil
}

// MountPaymentField attaches the card field. Only the first call mounts;
// it reports whether this call did.
func (w *Wizard) MountPaymentField() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mountLocked()
}

func (w *Wizard) mountLocked() bool {
	if w.cardMounted {
		return false
	}
	w.cardMounted = true
	w.logger.Debug("Payment field mounted", zap.Int64("item", w.item.ID))
	return true
}

// SubmitPayment tokenizes card and advances to summary. The lock is not
// held during the gateway call.
func (w *Wizard) SubmitPayment(ctx context.Context, card payment.CardInput) error {
	w.mu.Lock()
	if err := w.guard(StepPayment); err != nil {
		w.mu.Unlock()
		return err
	}
	if w.pending {
		w.mu.Unlock()
		return ErrBusy
	}
	if w.tokenizer == nil || !w.cardMounted {
		err := w.fail(payment.ErrNotReady)
		w.mu.Unlock()
		return err
	}
	w.pending = true
	w.lastErr = ""
	tokenizer := w.tokenizer
	billingName := w.shipping.Name
	w.mu.Unlock()

	pm, err := tokenizer.CreatePaymentMethod(ctx, card, billingName)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = false

	if w.cancelled {
		return ErrCancelled
	}
	if err != nil {
		w.logger.Info("Payment tokenization failed", zap.Int64("item", w.item.ID), zap.Error(err))
		return w.fail(err)
	}

	w.paymentMethodID = pm.ID
	w.step = StepSummary
	return nil
}

// Summary computes the order recap. Totals use exact decimal arithmetic.
func (w *Wizard) Summary() (Summary, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.summaryLocked()
}

func (w *Wizard) summaryLocked() (Summary, error) {
	price, err := models.ParsePrice(w.item.Price)
	if err != nil {
		return Summary{}, err
	}
	shipping := decimal.NewFromFloat(w.item.Shipping())

	return Summary{
		ItemName: w.item.Name,
		Price:    models.FormatUSD(price),
		Shipping: models.FormatUSD(shipping),
		Total:    models.FormatUSD(price.Add(shipping)),
		ShipTo:   w.shipping,
	}, nil
}

// Back returns from payment to shipping or from summary to payment.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancelled {
		return ErrCancelled
	}
	if w.pending {
		return ErrBusy
	}

	switch w.step {
	case StepPayment:
		w.step = StepShipping
	case StepSummary:
		w.step = StepPayment
		w.mountLocked()
	default:
		return fmt.Errorf("%w: at %s", ErrInvalidStep, w.step)
	}
	w.lastErr = ""
	return nil
}

// Confirm places the order. The wizard moves to processing, then to success
// after the processing delay, then hands the item to the completion callback
// after the success delay.
func (w *Wizard) Confirm() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.guard(StepSummary); err != nil {
		return err
	}
	if w.confirmed {
		return fmt.Errorf("%w: already confirmed", ErrInvalidStep)
	}

	w.confirmed = true
	w.step = StepProcessing
	w.lastErr = ""
	w.timer = time.AfterFunc(w.delays.Processing, w.succeed)
	w.logger.Info("Order confirmed", zap.Int64("item", w.item.ID))
	return nil
}

func (w *Wizard) succeed() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.step = StepSuccess
	w.timer = time.AfterFunc(w.delays.Success, w.complete)
}

func (w *Wizard) complete() {
	defer close(w.done)

	w.mu.Lock()
	callback := w.onComplete
	item := w.item
	w.onComplete = nil
	w.timer = nil
	w.mu.Unlock()

	if callback != nil {
		callback(item)
	}
}

// Cancel dismisses the wizard without side effects. It is refused once the
// order has been confirmed.
func (w *Wizard) Cancel() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step == StepProcessing || w.step == StepSuccess {
		return ErrCloseDisabled
	}
	w.cancelled = true
	return nil
}

// open reports whether the wizard still awaits the buyer, i.e. it was
// neither cancelled nor confirmed.
func (w *Wizard) open() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.cancelled && !w.confirmed
}

// Cancelled reports whether Cancel succeeded.
func (w *Wizard) Cancelled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cancelled
}

// Snapshot returns the current state.
func (w *Wizard) Snapshot() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	state := State{
		Step:         w.step,
		Item:         w.item,
		Shipping:     w.shipping,
		CardMounted:  w.cardMounted,
		PaymentReady: w.tokenizer != nil && w.cardMounted,
		Pending:      w.pending,
		Error:        w.lastErr,
	}
	if w.step == StepSummary || w.step == StepProcessing || w.step == StepSuccess {
		if summary, err := w.summaryLocked(); err == nil {
			state.Summary = &summary
		}
	}
	return state
}
