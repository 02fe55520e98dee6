package automation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"opportunity_automation/platform/apperr"
	"opportunity_automation/platform/logger"

	"github.com/google/uuid"
)

// Dispatcher is the single entry point the platform calls once per phase per batch.
type Dispatcher struct {
	store    Store
	notifier Notifier
	log      *logger.Logger
	now      func() time.Time
	newID    func() uuid.UUID
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithClock overrides the time source used for timestamps and due dates.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

// WithIDGenerator overrides how new task identifiers are generated.
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(d *Dispatcher) {
		if newID != nil {
			d.newID = newID
		}
	}
}

// NewDispatcher wires the rule engine to its collaborators.
func NewDispatcher(store Store, notifier Notifier, log *logger.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store:    store,
		notifier: notifier,
		log:      log,
		now:      time.Now,
		newID:    uuid.New,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Handle runs the phase's rules over the batch in table order. Validation
// failures are attached to individual items and do not fail the call; an
// error is returned only when a batched read or write fails, in which case
// the whole invocation must be rolled back by the caller.
func (d *Dispatcher) Handle(ctx context.Context, batch *Batch) error {
	if batch == nil {
		return apperr.BadRequest("batch is required")
	}
	rules, ok := phaseRules[batch.Phase]
	if !ok {
		return apperr.BadRequest(fmt.Sprintf("no rules for phase %s", batch.Phase))
	}

	start := time.Now()
	inv := &invocation{
		batch:  batch,
		lookup: newLookup(d.store),
		now:    d.now(),
	}

	for _, r := range rules {
		if r.capability == capSideEffect && !batch.Phase.IsAfter() {
			return apperr.Internal("side effects are only allowed after commit").WithOp(r.name)
		}
		if err := r.run(d, ctx, inv); err != nil {
			d.log.WithContext(ctx).Error("rule failed",
				"phase", batch.Phase.String(),
				"rule", r.name,
				"capability", r.capability.String(),
				"error", err.Error(),
			)
			return propagationFailure(batch, r.name, err)
		}
	}

	d.log.WithContext(ctx).TriggerHandled(
		batch.Phase.String(),
		len(batch.Items),
		len(batch.Rejections()),
		float64(time.Since(start).Milliseconds()),
	)
	return nil
}

// FailureDetails identifies the records rolled back with a failed invocation.
type FailureDetails struct {
	Phase     string      `json:"phase"`
	RecordIDs []uuid.UUID `json:"recordIds"`
}

func propagationFailure(batch *Batch, ruleName string, err error) error {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Op != "" {
		appErr = apperr.Wrap(apperr.KindInternal, "rule failed", err)
	}

	details := FailureDetails{Phase: batch.Phase.String(), RecordIDs: []uuid.UUID{}}
	for _, it := range batch.Items {
		if id := it.Record().ID; id != uuid.Nil {
			details.RecordIDs = append(details.RecordIDs, id)
		}
	}
	return appErr.WithOp(ruleName).WithDetails(details)
}
