package services

import (
	"context"
	"sync"

	"github.com/bigfoot-cleaning/bigfoot-api/models"
)

// RecordingNotifier collects published quotes in memory for testing
type RecordingNotifier struct {
	mu     sync.Mutex
	quotes []models.Quote
	err    error
}

// NewRecordingNotifier creates an empty recording notifier
func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{}
}

// SetAsMockForTesting installs this notifier as the global notifier
func (r *RecordingNotifier) SetAsMockForTesting() {
	SetNotifier(r)
}

func (r *RecordingNotifier) QuoteSubmitted(ctx context.Context, quote *models.Quote) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	r.quotes = append(r.quotes, *quote)
	return nil
}

func (r *RecordingNotifier) Close() error { return nil }

// FailWith makes every later QuoteSubmitted return err; nil clears it
func (r *RecordingNotifier) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Quotes returns a copy of the recorded quotes
func (r *RecordingNotifier) Quotes() []models.Quote {
	r.mu.Lock()
	defer r.mu.Unlock()

	quotes := make([]models.Quote, len(r.quotes))
	copy(quotes, r.quotes)
	return quotes
}
