package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Option configures optional collaborators of a use case.
type Option func(*options)

type options struct {
	logger  zerolog.Logger
	metrics MetricsRecorder
}

// WithLogger sets the logger used for committed operations.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(metrics MetricsRecorder) Option {
	return func(o *options) {
		if metrics != nil {
			o.metrics = metrics
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{
		logger:  zerolog.Nop(),
		metrics: noopMetrics{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type noopMetrics struct{}

func (noopMetrics) RecordOperation(string, decimal.Decimal, time.Duration, error) {}

func (noopMetrics) RecordAccountCreated() {}

func (noopMetrics) RecordAccountDeleted() {}

// runInTx runs fn inside a transaction that is detached from the caller's
// cancellation and bounded by DefaultTransactionTimeout. The transaction is
// committed when fn returns nil and rolled back otherwise.
func runInTx(ctx context.Context, txManager TransactionManager, fn func(ctx context.Context, tx Transaction) error) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultTransactionTimeout)
	defer cancel()

	tx, err := txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
